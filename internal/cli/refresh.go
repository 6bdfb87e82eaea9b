package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refetch all mirrored collections from the ops service",
	Long: `Discard the local caches and refetch clients, projects, entries, and
invoices. Useful after a failed refresh left the caches flagged stale.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if err := appInstance.SyncService.SynchronizeAll(ctx); err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}

		fmt.Println("✓ Local data refreshed")
		return nil
	},
}
