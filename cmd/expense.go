package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/internal/expense"
	"github.com/spf13/cobra"
)

var (
	outputFormat string

	addReason  string
	addAmount  string
	addDate    string
	addReceipt string

	searchDate   string
	searchID     string
	searchReason string
)

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Aliases: []string{"expense", "exp"},
	Short:   "List, add, delete and report on expenses",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		switch outputFormat {
		case outputTable, outputJSON:
			return nil
		}
		return fmt.Errorf("unsupported output %q, use %s or %s", outputFormat, outputTable, outputJSON)
	},
}

var listExpensesCmd = &cobra.Command{
	Use:   "list",
	Short: "List every expense",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		deps, err := newCLIDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		records, err := deps.Expenses.ListExpenses(cmd.Context())
		if err != nil {
			return err
		}
		return newPrinter(cmd.OutOrStdout(), outputFormat, deps.Config.Gateway.UploadsBase()).List(records)
	},
}

var addExpenseCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an expense, optionally with a receipt image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		deps, err := newCLIDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		dto := expense.CreateExpenseDTO{Reason: addReason, Amount: addAmount, Date: addDate}
		if addReceipt != "" {
			f, err := os.Open(addReceipt)
			if err != nil {
				return fmt.Errorf("failed to open receipt: %w", err)
			}
			defer f.Close()
			dto.Attachment = &expense.Attachment{
				FileName:    filepath.Base(addReceipt),
				ContentType: mime.TypeByExtension(filepath.Ext(addReceipt)),
				Content:     f,
			}
		}

		created, err := deps.Expenses.AddExpense(cmd.Context(), dto)
		if err != nil {
			return err
		}
		return newPrinter(cmd.OutOrStdout(), outputFormat, deps.Config.Gateway.UploadsBase()).Created(created)
	},
}

var deleteExpenseCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return internal.ErrInvalidExpenseID
		}

		deps, err := newCLIDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := deps.Expenses.DeleteExpense(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted expense %d\n", id)
		return nil
	},
}

var searchExpensesCmd = &cobra.Command{
	Use:   "search",
	Short: "Search by date prefix, id or reason",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		deps, err := newCLIDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		report, err := deps.Expenses.SearchExpenses(cmd.Context(), expense.SearchCriteria{
			Date:   searchDate,
			ID:     searchID,
			Reason: searchReason,
		})
		if err != nil {
			return err
		}
		return newPrinter(cmd.OutOrStdout(), outputFormat, deps.Config.Gateway.UploadsBase()).Report(report)
	},
}

var monthExpensesCmd = &cobra.Command{
	Use:     "month <YYYY-MM>",
	Short:   "Expenses of one month with totals",
	Example: "  expenses-tracker expenses month 2025-03",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := newCLIDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		report, err := deps.Expenses.MonthReport(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return newPrinter(cmd.OutOrStdout(), outputFormat, deps.Config.Gateway.UploadsBase()).Report(report)
	},
}

var rangeExpensesCmd = &cobra.Command{
	Use:     "range <YYYY-MM-DD to YYYY-MM-DD>",
	Short:   "Expenses within an inclusive date range with totals",
	Example: `  expenses-tracker expenses range "2025-03-01 to 2025-03-31"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, end, err := expense.ParseRange(args[0])
		if err != nil {
			return err
		}

		deps, err := newCLIDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		report, err := deps.Expenses.RangeReport(cmd.Context(), start, end)
		if err != nil {
			return err
		}
		return newPrinter(cmd.OutOrStdout(), outputFormat, deps.Config.Gateway.UploadsBase()).Report(report)
	},
}

func init() {
	expensesCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputTable, "output format: table or json")

	addExpenseCmd.Flags().StringVar(&addReason, "reason", "", "what the money was spent on")
	addExpenseCmd.Flags().StringVar(&addAmount, "amount", "", "amount, e.g. 12.50")
	addExpenseCmd.Flags().StringVar(&addDate, "date", "", "date as YYYY-MM-DD (defaults to today)")
	addExpenseCmd.Flags().StringVar(&addReceipt, "receipt", "", "path to a receipt image")

	searchExpensesCmd.Flags().StringVar(&searchDate, "date", "", "date prefix, e.g. 2025-03 or 2025-03-15")
	searchExpensesCmd.Flags().StringVar(&searchID, "id", "", "exact expense id")
	searchExpensesCmd.Flags().StringVar(&searchReason, "reason", "", "case-insensitive reason substring")

	expensesCmd.AddCommand(
		listExpensesCmd,
		addExpenseCmd,
		deleteExpenseCmd,
		searchExpensesCmd,
		monthExpensesCmd,
		rangeExpensesCmd,
	)
}
