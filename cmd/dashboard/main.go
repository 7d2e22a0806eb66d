// The dashboard command is a terminal front end for the dashboard server.
// It renders user metric cards and team summaries, and has an interactive
// mode where typing an alias opens that user's dashboard.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Schera-ole/perfboard/internal/client"
	"github.com/Schera-ole/perfboard/internal/config"
	"github.com/Schera-ole/perfboard/internal/view"
)

func main() {
	dashboardConfig, err := config.NewDashboardConfig()
	if err != nil {
		log.Fatal("Failed to parse configuration: ", err)
	}

	apiClient := client.NewClient(client.Config{
		BaseURL: "http://" + dashboardConfig.Address,
		Timeout: time.Duration(dashboardConfig.Timeout) * time.Second,
	})
	ctx := context.Background()

	switch {
	case dashboardConfig.Interactive:
		if err := runInteractive(ctx, apiClient); err != nil {
			log.Fatal(err)
		}
	case dashboardConfig.Team != "":
		resp, err := apiClient.FetchTeam(ctx, dashboardConfig.Team)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(view.RenderTeam(resp))
	case dashboardConfig.User != "":
		resp, err := apiClient.FetchDashboard(ctx, dashboardConfig.User)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(view.RenderDashboard(resp))
	default:
		resp, err := apiClient.FetchUsers(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(view.RenderUsers(resp))
	}
}

// runInteractive reads aliases from stdin and renders each selection as its
// fetch completes. Typing ahead supersedes older fetches, so only the newest
// selection is drawn.
func runInteractive(ctx context.Context, apiClient *client.Client) error {
	users, err := apiClient.FetchUsers(ctx)
	if err != nil {
		return err
	}
	fmt.Println(view.RenderUsers(users))
	fmt.Println(`Type a user alias to open their dashboard, or "quit" to exit.`)

	session := client.NewSession(apiClient)
	input := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			input <- strings.TrimSpace(scanner.Text())
		}
		close(input)
	}()

	for {
		select {
		case line, ok := <-input:
			if !ok || line == "quit" {
				return nil
			}
			if line == "" {
				continue
			}
			session.Select(ctx, line)
		case update := <-session.Updates():
			if update.Err != nil {
				fmt.Printf("error fetching %s: %v\n", update.Alias, update.Err)
				continue
			}
			fmt.Println(view.RenderDashboard(update.Dashboard))
		}
	}
}
