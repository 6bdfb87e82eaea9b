package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mara/opsdesk/internal/domain"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects",
	Long:  `Add, list, edit, and remove projects.`,
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		projects := appInstance.DirectoryService.Projects()
		if len(projects) == 0 {
			fmt.Println("No projects found")
			return nil
		}

		fmt.Printf("%-10s %-22s %-20s %-10s %-10s %-10s %s\n",
			"ID", "Name", "Client", "Rate", "Logged", "Est", "Budget")
		fmt.Println("----------------------------------------------------------------------------------------------")
		for _, p := range projects {
			if p.IsArchived {
				continue
			}
			budget := "ok"
			if p.OverBudget() {
				budget = "OVER"
			}
			fmt.Printf("%-10s %-22s %-20s %-10s %-10s %-10s %s\n",
				truncate(p.ID, 10),
				truncate(p.Name, 22),
				truncate(clientName(p.ClientID), 20),
				formatMoney(p.HourlyRate),
				p.LoggedHours.StringFixed(1),
				p.EstimatedHours.StringFixed(1),
				budget,
			)
		}

		staleWarning()
		return nil
	},
}

var projectsAddCmd = &cobra.Command{
	Use:   "add [name] [client_id_or_name]",
	Short: "Add a new project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		clientID, err := resolveClientID(args[1])
		if err != nil {
			return err
		}

		rateStr, _ := cmd.Flags().GetString("rate")
		rate, err := decimal.NewFromString(rateStr)
		if err != nil {
			return fmt.Errorf("invalid hourly rate: %w", err)
		}

		estStr, _ := cmd.Flags().GetString("estimate")
		estimate := decimal.Zero
		if estStr != "" {
			estimate, err = decimal.NewFromString(estStr)
			if err != nil {
				return fmt.Errorf("invalid hour estimate: %w", err)
			}
		}

		project, err := appInstance.DirectoryService.CreateProject(ctx, &domain.Project{
			Name:           args[0],
			ClientID:       clientID,
			HourlyRate:     rate,
			EstimatedHours: estimate,
		})
		if err != nil {
			return fmt.Errorf("failed to add project: %w", err)
		}

		fmt.Printf("✓ Project added: %s (%s)\n", project.Name, project.ID)
		fmt.Printf("  Rate: %s/h\n", formatMoney(project.HourlyRate))
		return nil
	},
}

var projectsEditCmd = &cobra.Command{
	Use:   "edit [id_or_name]",
	Short: "Edit a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := resolveProjectID(args[0])
		if err != nil {
			return err
		}
		cached := appInstance.Caches.ProjectByID(id)
		project := *cached

		if cmd.Flags().Changed("name") {
			project.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("rate") {
			rateStr, _ := cmd.Flags().GetString("rate")
			project.HourlyRate, err = decimal.NewFromString(rateStr)
			if err != nil {
				return fmt.Errorf("invalid hourly rate: %w", err)
			}
		}
		if cmd.Flags().Changed("estimate") {
			estStr, _ := cmd.Flags().GetString("estimate")
			project.EstimatedHours, err = decimal.NewFromString(estStr)
			if err != nil {
				return fmt.Errorf("invalid hour estimate: %w", err)
			}
		}
		if cmd.Flags().Changed("archived") {
			project.IsArchived, _ = cmd.Flags().GetBool("archived")
		}

		updated, err := appInstance.DirectoryService.UpdateProject(ctx, &project)
		if err != nil {
			return fmt.Errorf("failed to edit project: %w", err)
		}

		fmt.Printf("✓ Project updated: %s\n", updated.Name)
		return nil
	},
}

var projectsRmCmd = &cobra.Command{
	Use:   "rm [id_or_name]",
	Short: "Remove a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := resolveProjectID(args[0])
		if err != nil {
			return err
		}

		if err := appInstance.DirectoryService.DeleteProject(ctx, id); err != nil {
			return fmt.Errorf("failed to remove project: %w", err)
		}

		fmt.Printf("✓ Project %s removed\n", args[0])
		return nil
	},
}

func init() {
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsEditCmd)
	projectsCmd.AddCommand(projectsRmCmd)

	projectsAddCmd.Flags().String("rate", "", "Hourly contract rate (required)")
	projectsAddCmd.Flags().String("estimate", "", "Estimated hours budget")
	projectsAddCmd.MarkFlagRequired("rate")

	projectsEditCmd.Flags().String("name", "", "New project name")
	projectsEditCmd.Flags().String("rate", "", "New hourly rate")
	projectsEditCmd.Flags().String("estimate", "", "New hour estimate")
	projectsEditCmd.Flags().Bool("archived", false, "Archive flag")
}
