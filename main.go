// ABOUTME: Entry point for the contact sync CLI
// ABOUTME: Routes to contact and sync commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/harperreed/contactsync/cli"
	"github.com/harperreed/contactsync/db"
	"github.com/joho/godotenv"
)

const version = "0.1.0"

func main() {
	// Pick up CONTACTSYNC_BASE_URL and friends from a local .env if present
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/contactsync/contacts.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("contactsync version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	finalDBPath := getDatabasePath(*dbPath)
	database, err := db.OpenDatabase(finalDBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *initOnly {
		log.Println("Database initialized successfully")
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "add":
		if err := cli.AddContactCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "list":
		if err := cli.ListContactsCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "set-external-id":
		if err := cli.SetExternalIDCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "pull":
		if err := cli.PullCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "push":
		if err := cli.PushCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "status":
		if err := cli.SyncStatusCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// getDatabasePath resolves the database location: explicit flag first, then
// the XDG data directory.
func getDatabasePath(override string) string {
	if override != "" {
		return override
	}

	path, err := xdg.DataFile(filepath.Join("contactsync", "contacts.db"))
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}
	return path
}

func printUsage() {
	fmt.Println(`contactsync - keep local contacts in sync with the remote user service

Usage:
  contactsync [flags] <command> [args]

Commands:
  add               Create a contact (seeds an external id and pulls when in range)
  list              List contacts
  set-external-id   Change a contact's external id (pushes on an upward threshold crossing)
  pull <id>         Pull one remote user by external id
  push <id>         Push one local contact by contact id
  status            Show sync state and recent sync log

Flags:
  -db-path string   Database path (default: ~/.local/share/contactsync/contacts.db)
  -init             Initialize database and exit
  -version          Show version and exit`)
}
