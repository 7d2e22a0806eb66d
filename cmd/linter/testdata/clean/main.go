package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("missing argument")
	}
	fmt.Println(greeting(os.Args[1]))
}

func greeting(name string) string {
	return "hello, " + name
}
