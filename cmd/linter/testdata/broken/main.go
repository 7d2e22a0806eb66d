package main

import (
	"log"
	"os"
)

func main() {
	doSomething()
}

func doSomething() {
	panic("not allowed") // want "found usage of panic"

	log.Fatal("not allowed") // want "found usage of log.Fatal outside of main function"

	os.Exit(1) // want "found usage of os.Exit outside of main function"
}
