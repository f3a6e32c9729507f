// Package cmd - estimate command
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"relocation-cost/core/brackets"
	"relocation-cost/core/estimator"
	"relocation-cost/core/location"
	"relocation-cost/core/money"
	"relocation-cost/core/output"
	"relocation-cost/internal/config"
	"relocation-cost/internal/logging"
)

var (
	statusName   string
	modeName     string
	outputFormat string
	expensesStr  string
	tablesDir    string
	showTaxes    bool
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate <source> <target> <income>",
	Short: "Estimate the equivalent income at another location",
	Long: `Estimate the gross income needed at the target location to match the
financial position a gross income buys at the source location.

Locations are country/region/city paths; region and city are optional.
Income accepts plain numbers or currency strings like '$85,000.50'.

Modes:
  post_tax    equate post-tax income (default)
  disposable  additionally normalize by the locations' cost-of-living
              ratio, holding --expenses out of the scaling

Examples:
  relocation-cost estimate "US/CA/San Francisco" "US/TX/Austin" '$150,000'
  relocation-cost estimate US/CA US/TX 120000 --status joint
  relocation-cost estimate US/CA US/TX 120000 --mode disposable --expenses 24000`,
	Args: cobra.ExactArgs(3),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&statusName, "status", "s", "", "filing status (single, joint, separate, head)")
	estimateCmd.Flags().StringVarP(&modeName, "mode", "m", "", "analysis mode (post_tax, disposable)")
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json)")
	estimateCmd.Flags().StringVarP(&expensesStr, "expenses", "e", "", "yearly fixed expenses excluded from cost-of-living scaling")
	estimateCmd.Flags().StringVarP(&tablesDir, "tables", "t", "", "directory of custom jurisdiction table files (*.hcl)")
	estimateCmd.Flags().BoolVarP(&showTaxes, "taxes", "x", true, "show tax amounts at source and target")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	source, err := location.ParseKey(args[0])
	if err != nil {
		return err
	}
	target, err := location.ParseKey(args[1])
	if err != nil {
		return err
	}
	income, err := money.Parse(args[2])
	if err != nil {
		return err
	}

	if statusName == "" {
		statusName = cfg.Estimate.DefaultStatus
	}
	status, err := brackets.ParseFilingStatus(statusName)
	if err != nil {
		return err
	}

	if modeName == "" {
		modeName = cfg.Estimate.DefaultMode
	}
	mode, err := estimator.ParseMode(modeName)
	if err != nil {
		return err
	}

	req := estimator.Request{
		Income: income,
		Status: status,
		Source: source,
		Target: target,
		Mode:   mode,
	}
	if expensesStr != "" {
		req.FixedExpenses, err = money.Parse(expensesStr)
		if err != nil {
			return err
		}
	}

	resolver := location.NewResolver()
	if tablesDir == "" {
		tablesDir = cfg.Tables.Directory
	}
	if tablesDir != "" {
		if err := resolver.LoadDir(tablesDir); err != nil {
			return err
		}
	}

	logging.Info("estimating equivalent income",
		zap.String("source", source.String()),
		zap.String("target", target.String()),
		zap.String("mode", mode.String()))

	result, err := estimator.New(resolver).Estimate(req)
	if err != nil {
		return err
	}

	if outputFormat == "" {
		outputFormat = cfg.Output.DefaultFormat
	}
	formatter, err := output.NewFormatter(outputFormat)
	if err != nil {
		return err
	}

	report := &output.Report{
		Source:    source,
		Target:    target,
		Mode:      mode,
		Income:    money.Format(income),
		Result:    result,
		ShowTaxes: showTaxes && cfg.Output.ShowTaxes,
	}
	return formatter.Render(os.Stdout, report)
}

// locationsCmd lists the jurisdictions the tool can price
var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List known jurisdictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := location.NewResolver()
		if dir := config.Get().Tables.Directory; dir != "" {
			if err := resolver.LoadDir(dir); err != nil {
				return err
			}
		}
		for _, key := range resolver.Known() {
			fmt.Println(key.String())
		}
		return nil
	},
}
