package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"simdscan/internal/report"
	"simdscan/internal/scan"
)

const stdinName = "<stdin>"

var scanCmd = &cobra.Command{
	Use:   "scan [listing...]",
	Short: "Classify an existing disassembly listing",
	Long: `Scan reads objdump-style listings instead of running a disassembler.
With no arguments, or "-", the listing is read from standard input. Several
listings are merged into one report.`,
	Example: `
# Scan a saved listing
objdump -d ./a.out > a.lst && simdscan scan a.lst

# Pipe objdump directly
objdump -d ./a.out | simdscan scan -f text --name a.out
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := prepare(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		if len(args) == 0 {
			args = []string{"-"}
		}

		sc := scan.NewScanner(nil, scan.WithDetail(cfg.ShowInsts))
		total := scan.NewAggregate(cfg.ShowInsts)
		names := make([]string, 0, len(args))
		for _, path := range args {
			agg, err := scanListing(cmd, sc, path, cfg.Jobs)
			if err != nil {
				return err
			}
			if err := total.Merge(agg); err != nil {
				return err
			}
			if path == "-" {
				path = stdinName
			}
			names = append(names, path)
		}

		if name == "" {
			name = strings.Join(names, ",")
		}
		return writeReport(cmd.OutOrStdout(), report.Build(name, total, reportOptions(cfg)), cfg)
	},
}

func scanListing(cmd *cobra.Command, sc *scan.Scanner, path string, jobs int) (*scan.Aggregate, error) {
	if path == "-" {
		return scanStream(cmd.Context(), sc, cmd.InOrStdin(), jobs)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open listing: %w", err)
	}
	defer f.Close()
	agg, err := scanStream(cmd.Context(), sc, f, jobs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return agg, nil
}

func init() {
	scanCmd.Flags().String("name", "", "Value of the binary field (default: the listing paths)")
}
