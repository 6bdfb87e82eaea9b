package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mara/opsdesk/internal/domain"
	"github.com/mara/opsdesk/internal/remote"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Manage the active timer",
	Long:  `Start, pause, resume, stop, or reset the active timer.`,
}

var timerStartCmd = &cobra.Command{
	Use:   "start [project_id_or_name] [task]",
	Short: "Start a new timer",
	Long:  `Start a new timer against a project with an optional task label.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		projectID, err := resolveProjectID(args[0])
		if err != nil {
			return err
		}
		project := appInstance.Caches.ProjectByID(projectID)

		task := ""
		if len(args) > 1 {
			task = args[1]
		}

		nonBillable, _ := cmd.Flags().GetBool("non-billable")

		req := remote.StartTimeEntryRequest{
			OwnerID:   appInstance.Config.Remote.OwnerID,
			ClientID:  project.ClientID,
			ProjectID: projectID,
			TaskLabel: task,
			Billable:  !nonBillable,
		}
		if err := appInstance.TimerService.Start(ctx, req); err != nil {
			return fmt.Errorf("failed to start timer: %w", err)
		}

		fmt.Printf("✓ Timer started for %s\n", project.Name)
		if task != "" {
			fmt.Printf("  Task: %s\n", task)
		}
		return nil
	},
}

var timerStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active timer and commit the time entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		entry, err := appInstance.TimerService.Stop(ctx, appInstance.Config.Remote.OwnerID)
		if entry == nil {
			return fmt.Errorf("failed to stop timer: %w", err)
		}

		fmt.Printf("✓ Timer stopped\n")
		fmt.Printf("  Project: %s\n", projectName(entry.ProjectID))
		fmt.Printf("  Duration: %s\n", formatHours(entry.DurationHours()))
		if entry.IsBillable {
			fmt.Printf("  Amount: %s\n", formatMoney(entry.TotalCost()))
		}
		if err != nil {
			staleWarning()
		}
		return nil
	},
}

var timerPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the active timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.TimerService.Pause(appInstance.Config.Remote.OwnerID); err != nil {
			return fmt.Errorf("failed to pause timer: %w", err)
		}

		fmt.Println("✓ Timer paused")
		return nil
	},
}

var timerResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.TimerService.Resume(appInstance.Config.Remote.OwnerID); err != nil {
			return fmt.Errorf("failed to resume timer: %w", err)
		}

		fmt.Println("✓ Timer resumed")
		return nil
	},
}

var timerResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard a paused timer without committing it",
	Long: `Discard a paused timer session. The timer must be paused first; a
running session cannot be silently dropped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.TimerService.Reset(appInstance.Config.Remote.OwnerID); err != nil {
			return fmt.Errorf("failed to reset timer: %w", err)
		}

		fmt.Println("✓ Timer reset")
		return nil
	},
}

var timerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of the active timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		ownerID := appInstance.Config.Remote.OwnerID

		state := appInstance.TimerService.State(ownerID)
		if state == domain.TimerStateIdle {
			fmt.Println("No active timer")
			return nil
		}

		timer := appInstance.TimerService.ActiveTimer(ownerID)
		elapsed, err := appInstance.TimerService.Elapsed(ownerID)
		if err != nil {
			return err
		}

		fmt.Printf("Timer Status: %s\n", state)
		fmt.Printf("  Project: %s\n", projectName(timer.ProjectID))
		if timer.TaskLabel != "" {
			fmt.Printf("  Task: %s\n", timer.TaskLabel)
		}
		fmt.Printf("  Started: %s\n", timer.StartTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Elapsed: %s\n", formatDuration(elapsed))
		return nil
	},
}

func init() {
	timerCmd.AddCommand(timerStartCmd)
	timerCmd.AddCommand(timerStopCmd)
	timerCmd.AddCommand(timerPauseCmd)
	timerCmd.AddCommand(timerResumeCmd)
	timerCmd.AddCommand(timerResetCmd)
	timerCmd.AddCommand(timerStatusCmd)

	timerStartCmd.Flags().Bool("non-billable", false, "Track the session as non-billable")
}
