package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fiscalflow/fiscalflow/scripts/internal"
)

// Command represents a script that can be run
type Command struct {
	Name        string
	Description string
	Run         func() error
}

var commands = []Command{
	{
		Name:        "onboard-shop",
		Description: "Onboard a new shop with default configuration",
		Run:         internal.OnboardShop,
	},
	{
		Name:        "seed-demo",
		Description: "Seed a demo shop with a daily export schedule",
		Run:         internal.SeedDemoShop,
	},
}

func main() {
	var (
		listCommands bool
		cmdName      string
		domain       string
		token        string
	)

	flag.BoolVar(&listCommands, "list", false, "List all available commands")
	flag.StringVar(&cmdName, "cmd", "", "Command to run")
	flag.StringVar(&domain, "shop-domain", "", "Shopify domain for shop operations")
	flag.StringVar(&token, "access-token", "", "Access token for shop operations")
	flag.Parse()

	if domain != "" {
		os.Setenv("SHOP_DOMAIN", domain)
	}
	if token != "" {
		os.Setenv("SHOP_ACCESS_TOKEN", token)
	}

	if listCommands {
		fmt.Println("Available commands:")
		for _, cmd := range commands {
			fmt.Printf("  %-15s %s\n", cmd.Name, cmd.Description)
		}
		return
	}

	for _, cmd := range commands {
		if cmd.Name == cmdName {
			if err := cmd.Run(); err != nil {
				log.Fatalf("command %s failed: %v", cmd.Name, err)
			}
			return
		}
	}

	log.Fatalf("unknown command %q, use -list to see available commands", cmdName)
}
