package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mara/opsdesk/internal/remote"
	"github.com/mara/opsdesk/internal/service"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage the time entry ledger",
	Long:  `List, add, edit, and delete committed time entries.`,
}

var entriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List committed time entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.EntryFilter{}
		if cmd.Flags().Changed("project") {
			idOrName, _ := cmd.Flags().GetString("project")
			id, err := resolveProjectID(idOrName)
			if err != nil {
				return err
			}
			filter.ProjectID = id
		}
		filter.TaskLabel, _ = cmd.Flags().GetString("task")
		filter.BillableOnly, _ = cmd.Flags().GetBool("billable")

		sortStr, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")
		order := service.EntrySort{Field: service.SortField(sortStr), Descending: desc}

		entries := appInstance.LedgerService.List(filter, order)
		if len(entries) == 0 {
			fmt.Println("No entries found")
			return nil
		}

		fmt.Printf("%-10s %-16s %-20s %-20s %-8s %-10s %s\n",
			"ID", "Start", "Project", "Task", "Hours", "Amount", "Billed")
		fmt.Println("----------------------------------------------------------------------------------------------")
		for _, e := range entries {
			billed := ""
			if e.IsBilled() {
				billed = "yes"
			}
			fmt.Printf("%-10s %-16s %-20s %-20s %-8s %-10s %s\n",
				truncate(e.ID, 10),
				e.StartTime.Format("2006-01-02 15:04"),
				truncate(projectName(e.ProjectID), 20),
				truncate(e.TaskLabel, 20),
				e.DurationHours().StringFixed(2),
				formatMoney(e.TotalCost()),
				billed,
			)
		}

		fmt.Printf("\nTotal: %d entr(y/ies)\n", len(entries))
		staleWarning()
		return nil
	},
}

var entriesAddCmd = &cobra.Command{
	Use:   "add [project_id_or_name]",
	Short: "Add a manual time entry",
	Long: `Add a committed time entry with explicit start and end times. The
duration is derived from the timestamps; it is never supplied directly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		projectID, err := resolveProjectID(args[0])
		if err != nil {
			return err
		}
		project := appInstance.Caches.ProjectByID(projectID)

		startStr, _ := cmd.Flags().GetString("start")
		endStr, _ := cmd.Flags().GetString("end")
		start, err := parseLocalTime(startStr)
		if err != nil {
			return fmt.Errorf("invalid start time: %w", err)
		}
		end, err := parseLocalTime(endStr)
		if err != nil {
			return fmt.Errorf("invalid end time: %w", err)
		}

		task, _ := cmd.Flags().GetString("task")
		description, _ := cmd.Flags().GetString("description")
		nonBillable, _ := cmd.Flags().GetBool("non-billable")

		entry, err := appInstance.LedgerService.CreateManual(ctx, service.ManualEntryInput{
			OwnerID:     appInstance.Config.Remote.OwnerID,
			ClientID:    project.ClientID,
			ProjectID:   projectID,
			TaskLabel:   task,
			Description: description,
			Start:       start,
			End:         end,
			Billable:    !nonBillable,
		})
		if err != nil {
			return fmt.Errorf("failed to add entry: %w", err)
		}

		fmt.Printf("✓ Entry added to %s\n", project.Name)
		fmt.Printf("  Duration: %s\n", formatHours(entry.DurationHours()))
		if entry.IsBillable {
			fmt.Printf("  Amount: %s\n", formatMoney(entry.TotalCost()))
		}
		return nil
	},
}

var entriesEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a committed time entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var patch remote.EntryPatch
		if cmd.Flags().Changed("task") {
			task, _ := cmd.Flags().GetString("task")
			patch.TaskLabel = &task
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			patch.Description = &description
		}
		if cmd.Flags().Changed("billable") {
			billable, _ := cmd.Flags().GetBool("billable")
			patch.IsBillable = &billable
		}
		if cmd.Flags().Changed("start") {
			startStr, _ := cmd.Flags().GetString("start")
			start, err := parseLocalTime(startStr)
			if err != nil {
				return fmt.Errorf("invalid start time: %w", err)
			}
			patch.StartTime = &start
		}
		if cmd.Flags().Changed("end") {
			endStr, _ := cmd.Flags().GetString("end")
			end, err := parseLocalTime(endStr)
			if err != nil {
				return fmt.Errorf("invalid end time: %w", err)
			}
			patch.EndTime = &end
		}

		entry, err := appInstance.LedgerService.Update(ctx, args[0], patch)
		if err != nil {
			return fmt.Errorf("failed to edit entry: %w", err)
		}

		fmt.Printf("✓ Entry %s updated\n", entry.ID)
		fmt.Printf("  Duration: %s\n", formatHours(entry.DurationHours()))
		return nil
	},
}

var entriesRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a time entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if err := appInstance.LedgerService.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		fmt.Printf("✓ Entry %s deleted\n", args[0])
		return nil
	},
}

func init() {
	entriesCmd.AddCommand(entriesListCmd)
	entriesCmd.AddCommand(entriesAddCmd)
	entriesCmd.AddCommand(entriesEditCmd)
	entriesCmd.AddCommand(entriesRmCmd)

	entriesListCmd.Flags().String("project", "", "Filter by project ID or name")
	entriesListCmd.Flags().String("task", "", "Filter by task label")
	entriesListCmd.Flags().Bool("billable", false, "Show only billable entries")
	entriesListCmd.Flags().String("sort", "start_time", "Sort field (start_time, duration, project, task)")
	entriesListCmd.Flags().Bool("desc", false, "Sort in descending order")

	entriesAddCmd.Flags().String("start", "", "Start time, '2006-01-02 15:04' (required)")
	entriesAddCmd.Flags().String("end", "", "End time, '2006-01-02 15:04' (required)")
	entriesAddCmd.Flags().String("task", "", "Task label")
	entriesAddCmd.Flags().String("description", "", "Description")
	entriesAddCmd.Flags().Bool("non-billable", false, "Record the entry as non-billable")
	entriesAddCmd.MarkFlagRequired("start")
	entriesAddCmd.MarkFlagRequired("end")

	entriesEditCmd.Flags().String("task", "", "New task label")
	entriesEditCmd.Flags().String("description", "", "New description")
	entriesEditCmd.Flags().Bool("billable", true, "New billable flag")
	entriesEditCmd.Flags().String("start", "", "New start time, '2006-01-02 15:04'")
	entriesEditCmd.Flags().String("end", "", "New end time, '2006-01-02 15:04'")
}
