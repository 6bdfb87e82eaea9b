package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mara/opsdesk/internal/domain"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients",
	Long:  `Add, list, and remove clients.`,
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		clients := appInstance.DirectoryService.Clients()
		if len(clients) == 0 {
			fmt.Println("No clients found")
			return nil
		}

		fmt.Printf("%-10s %-25s %-25s %-14s %s\n",
			"ID", "Name", "Email", "Outstanding", "Revenue")
		fmt.Println("-------------------------------------------------------------------------------------")
		for _, c := range clients {
			if c.IsArchived {
				continue
			}
			fmt.Printf("%-10s %-25s %-25s %-14s %s\n",
				truncate(c.ID, 10),
				truncate(c.Name, 25),
				truncate(c.Email, 25),
				formatMoney(c.OutstandingBalance),
				formatMoney(c.TotalRevenue),
			)
		}

		staleWarning()
		return nil
	},
}

var clientsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		email, _ := cmd.Flags().GetString("email")
		notes, _ := cmd.Flags().GetString("notes")

		client, err := appInstance.DirectoryService.CreateClient(ctx, &domain.Client{
			Name:  args[0],
			Email: email,
			Notes: notes,
		})
		if err != nil {
			return fmt.Errorf("failed to add client: %w", err)
		}

		fmt.Printf("✓ Client added: %s (%s)\n", client.Name, client.ID)
		return nil
	},
}

var clientsRmCmd = &cobra.Command{
	Use:   "rm [id_or_name]",
	Short: "Remove a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := resolveClientID(args[0])
		if err != nil {
			return err
		}

		if err := appInstance.DirectoryService.DeleteClient(ctx, id); err != nil {
			return fmt.Errorf("failed to remove client: %w", err)
		}

		fmt.Printf("✓ Client %s removed\n", args[0])
		return nil
	},
}

func init() {
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsAddCmd)
	clientsCmd.AddCommand(clientsRmCmd)

	clientsAddCmd.Flags().String("email", "", "Client email address")
	clientsAddCmd.Flags().String("notes", "", "Free-form notes")
}
