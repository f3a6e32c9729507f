// Package output renders estimation results for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"relocation-cost/core/estimator"
	"relocation-cost/core/location"
	"relocation-cost/core/money"
	"relocation-cost/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable summary table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report is the complete output of one estimation.
type Report struct {
	Source location.Key      `json:"source"`
	Target location.Key      `json:"target"`
	Mode   estimator.Mode    `json:"mode"`
	Income string            `json:"income"`
	Result *estimator.Result `json:"-"`

	// ShowTaxes includes the per-location tax lines.
	ShowTaxes bool `json:"-"`
}

// NewFormatter returns the formatter for a format name.
func NewFormatter(format string) (Formatter, error) {
	switch Format(format) {
	case FormatCLI:
		return cliFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	}
	return nil, errors.Newf(errors.TypeInput, "unknown output format %q", format)
}

type cliFormatter struct{}

func (cliFormatter) Format() Format { return FormatCLI }

func (cliFormatter) Render(w io.Writer, report *Report) error {
	res := report.Result

	line := func(label, value string) {
		fmt.Fprintf(w, "│ %-38s %29s │\n", label, value)
	}

	fmt.Fprintln(w, "┌──────────────────────────────────────────────────────────────────────┐")
	fmt.Fprintln(w, "│                      EQUIVALENT INCOME ESTIMATE                      │")
	fmt.Fprintln(w, "├──────────────────────────────────────────────────────────────────────┤")
	line("Source", report.Source.String())
	line("Target", report.Target.String())
	line("Mode", report.Mode.String())
	line("Gross income at source", report.Income)
	if report.ShowTaxes {
		line("Taxes at source", money.Format(res.SourceTaxes))
		line("Net income at source", money.Format(res.SourceNet))
		line("Taxes at target", money.Format(res.TargetTaxes))
	}
	fmt.Fprintln(w, "├──────────────────────────────────────────────────────────────────────┤")
	line("EQUIVALENT INCOME AT TARGET", money.Format(res.EquivalentIncome))
	fmt.Fprintln(w, "└──────────────────────────────────────────────────────────────────────┘")

	// Exact inversion usually lands between whole cents; surface the
	// residue instead of pretending the rounded figure is exact.
	if rem := money.RemainderCents(res.EquivalentIncome); rem.Sign() != 0 {
		fmt.Fprintf(w, "\nExact value: %s (+%s of a cent over the rounded figure)\n",
			money.FormatExact(res.EquivalentIncome), rem.RatString())
	}
	return nil
}

type jsonFormatter struct{}

func (jsonFormatter) Format() Format { return FormatJSON }

// jsonReport is the wire shape; amounts are decimal strings rounded to
// cents, with the exact rational alongside.
type jsonReport struct {
	Source           location.Key   `json:"source"`
	Target           location.Key   `json:"target"`
	Mode             estimator.Mode `json:"mode"`
	Income           string         `json:"income"`
	EquivalentIncome string         `json:"equivalent_income"`
	EquivalentExact  string         `json:"equivalent_income_exact"`
	SourceNet        string         `json:"source_net,omitempty"`
	SourceTaxes      string         `json:"source_taxes,omitempty"`
	TargetTaxes      string         `json:"target_taxes,omitempty"`
}

func (jsonFormatter) Render(w io.Writer, report *Report) error {
	res := report.Result
	out := jsonReport{
		Source:           report.Source,
		Target:           report.Target,
		Mode:             report.Mode,
		Income:           report.Income,
		EquivalentIncome: money.Format(res.EquivalentIncome),
		EquivalentExact:  money.FormatExact(res.EquivalentIncome),
	}
	if report.ShowTaxes {
		out.SourceNet = money.Format(res.SourceNet)
		out.SourceTaxes = money.Format(res.SourceTaxes)
		out.TargetTaxes = money.Format(res.TargetTaxes)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
