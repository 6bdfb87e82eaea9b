package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mara/opsdesk/internal/domain"
	"github.com/mara/opsdesk/internal/service"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Draft, finalize, list, and manage invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		var status *domain.InvoiceStatus
		if cmd.Flags().Changed("status") {
			statusStr, _ := cmd.Flags().GetString("status")
			s := domain.InvoiceStatus(statusStr)
			status = &s
		}

		invoices := appInstance.InvoiceService.List(status)
		if len(invoices) == 0 {
			fmt.Println("No invoices found")
			return nil
		}

		fmt.Printf("%-10s %-15s %-20s %-12s %-12s %s\n",
			"ID", "Number", "Client", "Due", "Total", "Status")
		fmt.Println("--------------------------------------------------------------------------------")
		for _, inv := range invoices {
			fmt.Printf("%-10s %-15s %-20s %-12s %-12s %s\n",
				truncate(inv.ID, 10),
				inv.Number,
				truncate(clientName(inv.ClientID), 20),
				inv.DueDate.Format("2006-01-02"),
				formatMoney(inv.Total()),
				inv.Status,
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(invoices))
		staleWarning()
		return nil
	},
}

var invoicesDraftCmd = &cobra.Command{
	Use:   "draft [project_id_or_name]",
	Short: "Preview an invoice from a project's unbilled entries",
	Long: `Build a local invoice preview from the project's unbilled billable
entries. Nothing is persisted; use 'invoices finalize' to create it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		projectID, err := resolveProjectID(args[0])
		if err != nil {
			return err
		}

		draft, err := appInstance.InvoiceService.DraftFromUnbilled(ctx, projectID)
		if err != nil {
			if service.IsEmptyDraft(err) {
				fmt.Println("No unbilled entries; nothing to invoice")
				return nil
			}
			return fmt.Errorf("failed to draft invoice: %w", err)
		}

		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("Draft invoice for %s (%s)\n", projectName(projectID), clientName(draft.ClientID))
		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("%-12s %-40s %-8s %-10s %s\n", "Date", "Description", "Hours", "Rate", "Amount")
		fmt.Println(strings.Repeat("-", 80))
		for _, li := range draft.LineItems {
			fmt.Printf("%-12s %-40s %-8s %-10s %s\n",
				li.Date.Format("2006-01-02"),
				truncate(li.Description, 40),
				li.Quantity.StringFixed(2),
				formatMoney(li.Rate),
				formatMoney(li.Amount()),
			)
		}
		fmt.Println(strings.Repeat("-", 80))
		fmt.Printf("Subtotal: %s across %d entr(y/ies)\n", formatMoney(draft.Subtotal()), len(draft.EntryIDs))
		return nil
	},
}

var invoicesFinalizeCmd = &cobra.Command{
	Use:   "finalize [project_id_or_name]",
	Short: "Finalize an invoice from a project's unbilled entries",
	Long: `Create the invoice and mark the consumed entries billed in a single
atomic operation on the ops service.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		projectID, err := resolveProjectID(args[0])
		if err != nil {
			return err
		}

		dueDays, _ := cmd.Flags().GetInt("due-days")
		if !cmd.Flags().Changed("due-days") {
			dueDays = appInstance.Config.Invoice.DefaultDueDays
		}
		dueDate := time.Now().AddDate(0, 0, dueDays)

		invoice, err := appInstance.InvoiceService.Finalize(ctx, projectID, dueDate)
		if invoice == nil {
			return fmt.Errorf("failed to finalize invoice: %w", err)
		}

		fmt.Printf("✓ Invoice finalized: %s\n", invoice.Number)
		fmt.Printf("  Client: %s\n", clientName(invoice.ClientID))
		fmt.Printf("  Due: %s\n", invoice.DueDate.Format("2006-01-02"))
		fmt.Printf("  Total: %s\n", formatMoney(invoice.Total()))
		if err != nil {
			staleWarning()
		}
		return nil
	},
}

var invoicesMarkSentCmd = &cobra.Command{
	Use:   "mark-sent [id]",
	Short: "Mark an invoice as sent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if err := appInstance.InvoiceService.MarkSent(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to mark invoice as sent: %w", err)
		}

		fmt.Printf("✓ Invoice %s marked as sent\n", args[0])
		return nil
	},
}

var invoicesMarkPaidCmd = &cobra.Command{
	Use:   "mark-paid [id]",
	Short: "Mark an invoice as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		dateStr, _ := cmd.Flags().GetString("date")
		paidDate := time.Now()
		if dateStr != "" {
			var err error
			paidDate, err = time.ParseInLocation("2006-01-02", dateStr, time.Local)
			if err != nil {
				return fmt.Errorf("invalid paid date: %w", err)
			}
		}

		if err := appInstance.InvoiceService.MarkPaid(ctx, args[0], paidDate); err != nil {
			return fmt.Errorf("failed to mark invoice as paid: %w", err)
		}

		fmt.Printf("✓ Invoice %s marked as paid on %s\n", args[0], paidDate.Format("2006-01-02"))
		return nil
	},
}

var invoicesCheckOverdueCmd = &cobra.Command{
	Use:   "check-overdue",
	Short: "Flag sent invoices past their due date as overdue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		flagged, err := appInstance.InvoiceService.CheckOverdue(ctx)
		if err != nil {
			return fmt.Errorf("failed to check overdue invoices: %w", err)
		}

		if flagged == 0 {
			fmt.Println("No overdue invoices")
			return nil
		}
		fmt.Printf("✓ %d invoice(s) flagged overdue\n", flagged)
		return nil
	},
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesDraftCmd)
	invoicesCmd.AddCommand(invoicesFinalizeCmd)
	invoicesCmd.AddCommand(invoicesMarkSentCmd)
	invoicesCmd.AddCommand(invoicesMarkPaidCmd)
	invoicesCmd.AddCommand(invoicesCheckOverdueCmd)

	invoicesListCmd.Flags().String("status", "", "Filter by status (draft, sent, paid, overdue)")
	invoicesFinalizeCmd.Flags().Int("due-days", 0, "Days until due (defaults to config)")
	invoicesMarkPaidCmd.Flags().String("date", "", "Payment date (defaults to today)")
}
