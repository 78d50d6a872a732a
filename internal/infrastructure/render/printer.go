package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"fintrack.com/internal/application/usecase"
	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/service"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Printer writes command output, colored when enabled
type Printer struct {
	out    io.Writer
	green  *color.Color
	yellow *color.Color
	red    *color.Color
	bold   *color.Color
}

// NewPrinter creates a printer. mode is auto, always or never; auto colors
// only terminals and honours NO_COLOR.
func NewPrinter(out io.Writer, mode string) *Printer {
	p := &Printer{
		out:    out,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow, color.Bold),
		red:    color.New(color.FgRed),
		bold:   color.New(color.Bold),
	}
	enabled := ColorEnabled(out, mode)
	for _, c := range []*color.Color{p.green, p.yellow, p.red, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// ColorEnabled decides whether escape codes should be written to out
func ColorEnabled(out io.Writer, mode string) bool {
	switch strings.ToLower(mode) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := out.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) Success(format string, args ...any) {
	p.green.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Warning(format string, args ...any) {
	p.yellow.Fprintf(p.out, "! "+format+"\n", args...)
}

func (p *Printer) Error(format string, args ...any) {
	p.red.Fprintf(p.out, "Error: "+format+"\n", args...)
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) header(title string, width int) {
	line := strings.Repeat("=", width)
	p.bold.Fprintf(p.out, "%s\n%s\n%s\n", line, title, line)
}

// Entries prints a numbered table; numbers start at 1
func (p *Printer) Entries(entries []entity.Entry) {
	p.header("ENTRIES", 72)
	if len(entries) == 0 {
		p.Info("No entries.")
		return
	}
	fmt.Fprintf(p.out, "%-4s %-8s %12s  %-24s %s\n", "#", "Type", "Amount", "Category", "Date")
	fmt.Fprintln(p.out, strings.Repeat("-", 72))
	for i, e := range entries {
		amount := fmt.Sprintf("%12s", FormatSigned(e))
		if e.IsIncome {
			amount = p.green.Sprint(amount)
		} else {
			amount = p.red.Sprint(amount)
		}
		fmt.Fprintf(p.out, "%-4d %-8s %s  %-24s %s\n", i+1, e.Kind(), amount, e.Category, FormatTime(e.Timestamp))
	}
}

// Budgets prints one line per budget with over/exhausted/alert markers
func (p *Printer) Budgets(statuses []service.BudgetStatus, alertPercent float64) {
	if len(statuses) == 0 {
		p.Info("No budgets set.")
		return
	}
	for _, s := range statuses {
		fmt.Fprintf(p.out, "  %-20s limit %10s  spent %10s  remaining %10s\n",
			s.Category, FormatAmount(s.Limit), FormatAmount(s.Spent), FormatAmount(s.Remaining))
		p.BudgetAlert(s, alertPercent)
	}
}

// BudgetAlert prints a warning when a budget is over, exhausted or past the alert threshold
func (p *Printer) BudgetAlert(s service.BudgetStatus, alertPercent float64) {
	switch {
	case s.Over:
		p.red.Fprintf(p.out, "    ! budget for %q exceeded by %s\n", s.Category, FormatAmount(-s.Remaining))
	case s.Exhausted:
		p.yellow.Fprintf(p.out, "    ! budget for %q exhausted\n", s.Category)
	case s.Alert:
		p.yellow.Fprintf(p.out, "    ! %s%% of the %q budget used\n", FormatAmount(alertPercent), s.Category)
	}
}

func (p *Printer) totals(title string, totals service.CategoryTotals) {
	fmt.Fprintf(p.out, "\n--- %s ---\n", title)
	if len(totals) == 0 {
		p.Info("  none")
		return
	}
	for _, t := range totals {
		fmt.Fprintf(p.out, "  %-20s %12s\n", t.Category, FormatAmount(t.Amount))
	}
}

// Summary prints the full statistics screen
func (p *Printer) Summary(s *usecase.Summary) {
	p.header("STATISTICS: "+s.Username, 60)
	fmt.Fprintf(p.out, "Total income:   %12s\n", FormatAmount(s.TotalIncome))
	fmt.Fprintf(p.out, "Total outcome:  %12s\n", FormatAmount(s.TotalOutcome))
	fmt.Fprintf(p.out, "Balance:        %12s\n", FormatAmount(s.Balance))
	if s.OutcomeExceedsIncome {
		p.Warning("outcome exceeds income")
	}

	fmt.Fprintln(p.out, "\n--- Budgets ---")
	p.Budgets(s.Budgets, s.AlertPercent)
	p.totals("Income by category", s.IncomeByCategory)
	p.totals("Outcome by category", s.OutcomeByCategory)
}

// Filtered prints the result of a range and category filter
func (p *Printer) Filtered(r *usecase.FilterResult, alertPercent float64) {
	p.header("STATISTICS BY PERIOD AND CATEGORY", 60)
	if r.Swapped {
		p.Warning("start date was after end date, the range was swapped")
	}
	from, to := "beginning", "end"
	if !r.From.IsZero() {
		from = FormatTime(r.From)
	}
	if !r.To.IsZero() {
		to = FormatTime(r.To)
	}
	fmt.Fprintf(p.out, "Period:     %s .. %s\n", from, to)
	fmt.Fprintf(p.out, "Categories: %s\n", strings.Join(r.Categories, ", "))
	if len(r.Budgets) > 0 {
		fmt.Fprintln(p.out, "\n--- Budgets ---")
		p.Budgets(r.Budgets, alertPercent)
	}
	fmt.Fprintln(p.out)
	p.Entries(r.Entries)
	fmt.Fprintf(p.out, "\nIncome: %s  Outcome: %s\n", FormatAmount(r.Income), FormatAmount(r.Outcome))
}

// Categories prints entry categories and budgeted categories
func (p *Printer) Categories(c *usecase.Categories) {
	p.header("CATEGORIES", 40)
	if len(c.All) == 0 {
		p.Info("No entry categories yet.")
	} else {
		for _, name := range c.All {
			fmt.Fprintf(p.out, "  - %s\n", name)
		}
	}
	fmt.Fprintln(p.out)
	if len(c.Budgets) == 0 {
		p.Info("No budgets set.")
		return
	}
	p.Info("Budgeted:")
	for _, s := range c.Budgets {
		fmt.Fprintf(p.out, "  - %s (budget %s)\n", s.Category, FormatAmount(s.Limit))
	}
}
