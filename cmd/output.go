package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/frahmantamala/expenses-tracker/internal/expense"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type printer struct {
	out         io.Writer
	format      string
	uploadsBase string
}

func newPrinter(out io.Writer, format, uploadsBase string) *printer {
	return &printer{out: out, format: format, uploadsBase: uploadsBase}
}

func (p *printer) List(records []expense.Expense) error {
	if p.format == outputJSON {
		return p.json(expense.ExpensesResponse{Expenses: records, Count: len(records)})
	}
	return p.table(records)
}

func (p *printer) Created(e *expense.Expense) error {
	if p.format == outputJSON {
		return p.json(e)
	}
	if e.ID == 0 {
		fmt.Fprintf(p.out, "Expense added: %s %s on %s\n", e.Reason, e.Amount.StringFixed(2), e.Date)
		return nil
	}
	fmt.Fprintf(p.out, "Expense %d added: %s %s on %s\n", e.ID, e.Reason, e.Amount.StringFixed(2), e.Date)
	return nil
}

func (p *printer) Report(r *expense.Report) error {
	if p.format == outputJSON {
		return p.json(r)
	}
	if err := p.table(r.Expenses); err != nil {
		return err
	}

	maximum := "-"
	if r.Summary.Maximum != nil {
		maximum = r.Summary.Maximum.StringFixed(2)
	}

	fmt.Fprintln(p.out)
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Count:\t%d\n", r.Summary.Count)
	fmt.Fprintf(w, "Total:\t%s\n", r.Summary.Total.StringFixed(2))
	fmt.Fprintf(w, "Average:\t%s\n", r.Summary.Average.StringFixed(2))
	fmt.Fprintf(w, "Maximum:\t%s\n", maximum)
	return w.Flush()
}

func (p *printer) table(records []expense.Expense) error {
	if len(records) == 0 {
		fmt.Fprintln(p.out, "No expenses found")
		return nil
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ID\tDATE\tAMOUNT\t")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t\n", r.ID, r.Date, r.Amount.StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(p.out)
	for _, r := range records {
		line := fmt.Sprintf("#%d %s", r.ID, r.Reason)
		if url := r.ReceiptURL(p.uploadsBase); url != "" {
			line += "  [receipt: " + url + "]"
		}
		fmt.Fprintln(p.out, line)
	}
	return nil
}

func (p *printer) json(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
