// ABOUTME: Sync CLI commands
// ABOUTME: Manual pull/push invocation and sync status reporting
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/contactsync/db"
	"github.com/harperreed/contactsync/sync"
	"go.uber.org/zap"
)

// newSyncer builds a Syncer for CLI use. CONTACTSYNC_BASE_URL redirects the
// remote endpoint for local development; the default is the compiled-in
// service URL.
func newSyncer(database *sql.DB) (*sync.Syncer, func(), error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	var opts []sync.ClientOption
	if base := os.Getenv("CONTACTSYNC_BASE_URL"); base != "" {
		opts = append(opts, sync.WithBaseURL(base))
	}

	cleanup := func() { _ = logger.Sync() }
	return sync.NewSyncer(database, sync.NewClient(opts...), logger), cleanup, nil
}

// PullCommand fetches one remote user and upserts the local contact.
func PullCommand(database *sql.DB, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("pull requires an external user id")
	}

	syncer, cleanup, err := newSyncer(database)
	if err != nil {
		return err
	}
	defer cleanup()

	syncer.PullUser(context.Background(), args[0])
	return nil
}

// PushCommand sends one local contact to the remote service.
func PushCommand(database *sql.DB, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("push requires a contact id")
	}

	contactID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid contact id: %w", err)
	}

	syncer, cleanup, err := newSyncer(database)
	if err != nil {
		return err
	}
	defer cleanup()

	syncer.PushUser(context.Background(), contactID)
	return nil
}

// SyncStatusCommand prints the per-direction sync state and recent log.
func SyncStatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Recent sync log entries to show")
	_ = fs.Parse(args)

	states, err := db.GetAllSyncStates(database)
	if err != nil {
		return fmt.Errorf("failed to load sync states: %w", err)
	}

	if len(states) == 0 {
		fmt.Println("No sync activity yet")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DIRECTION\tSTATUS\tLAST SYNC\tERROR")
		for _, state := range states {
			lastSync := "never"
			if state.LastSyncTime != nil {
				lastSync = state.LastSyncTime.Format(time.RFC3339)
			}
			errMsg := "-"
			if state.ErrorMessage != nil {
				errMsg = *state.ErrorMessage
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", state.Service, state.Status, lastSync, errMsg)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	logs, err := db.RecentSyncLogs(database, *limit)
	if err != nil {
		return fmt.Errorf("failed to load sync log: %w", err)
	}

	if len(logs) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tOP\tEXTERNAL ID\tCONTACT")
		for _, entry := range logs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				entry.SyncedAt.Format(time.RFC3339), entry.Operation, entry.ExternalID, entry.ContactID)
		}
		return w.Flush()
	}

	return nil
}
