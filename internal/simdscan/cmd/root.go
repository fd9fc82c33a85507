package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"simdscan/internal/config"
	"simdscan/internal/report"
	"simdscan/internal/simdscan/log"
	"simdscan/internal/ui/colorize"
)

// Version is set at build time with -ldflags.
var Version = "dev"

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().String("config", "", "YAML config file (default ./"+config.DefaultFile+" if present)")
	addReportFlags(rootCmd.PersistentFlags())

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().String("engine", config.EngineAuto, "Disassembly source: auto, objdump or native")
	rootCmd.Flags().String("objdump", "", "objdump executable (default $SIMDSCAN_OBJDUMP or objdump on PATH)")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(schemaCmd)
}

// addReportFlags registers the flags shared by every command that prints a
// report.
func addReportFlags(fs *pflag.FlagSet) {
	fs.StringP("format", "f", "json", "Output format: "+report.FormatList())
	fs.Bool("show-insts", false, "Include per-ISA mnemonic counts")
	fs.Int("top", 0, "Mnemonics listed per ISA with --show-insts (0 lists all). "+
		"Only the listing is cut; counts and unique_mnemonics still cover every mnemonic")
	fs.IntP("jobs", "j", 1, "Parallel scan shards")
	fs.Bool("host-check", false, "Report extensions the host CPU lacks")
	fs.String("isa", "", "Comma-separated extensions to report, e.g. SSE2,AVX-512 (default all)")
}

var rootCmd = &cobra.Command{
	Use:   "simdscan [binary]",
	Short: "Report which x86 SIMD extensions a binary uses",
	Long: `Simdscan disassembles an x86 executable and counts the instructions it uses
from each SIMD extension: SSE, SSE2, SSE3, SSSE3, SSE4, AVX and AVX-512.`,
	Example: `
# Summarise a binary as JSON
simdscan ./a.out

# Per-mnemonic breakdown, ten most frequent per extension
simdscan --show-insts --top 10 -f yaml ./a.out

# Decode without objdump
simdscan --engine native ./a.out

# Only the AVX family
simdscan --isa AVX,AVX-512 ./a.out
  `,
	Version: Version,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := prepare(cmd)
		if err != nil {
			return err
		}

		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		memprofile, _ := cmd.Flags().GetString("memprofile")
		stop, err := startProfiling(cpuprofile, memprofile)
		if err != nil {
			return err
		}
		defer stop()

		binary := args[0]
		agg, err := analyzeBinary(cmd.Context(), binary, cfg)
		if err != nil {
			return err
		}
		slog.Debug("Scan finished", "lines", agg.Lines(), "instructions", agg.Instructions(), "simd", agg.Total())

		r := report.Build(binary, agg, reportOptions(cfg))
		return writeReport(cmd.OutOrStdout(), r, cfg)
	},
}

// prepare resolves the effective configuration and starts logging.
func prepare(cmd *cobra.Command) (config.Config, error) {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	log.Setup(cfg.Debug)
	return cfg, nil
}

// resolveConfig layers explicitly set flags over the config file, which is
// layered over the defaults.
func resolveConfig(fs *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()

	path, _ := fs.GetString("config")
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			path = config.DefaultFile
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if fs.Changed("format") {
		cfg.Format, _ = fs.GetString("format")
	}
	if fs.Changed("show-insts") {
		cfg.ShowInsts, _ = fs.GetBool("show-insts")
	}
	if fs.Changed("top") {
		cfg.Top, _ = fs.GetInt("top")
	}
	if fs.Changed("jobs") {
		cfg.Jobs, _ = fs.GetInt("jobs")
	}
	if fs.Changed("host-check") {
		cfg.HostCheck, _ = fs.GetBool("host-check")
	}
	if fs.Changed("isa") {
		cfg.ISA, _ = fs.GetString("isa")
	}
	if fs.Changed("engine") {
		cfg.Engine, _ = fs.GetString("engine")
	}
	if fs.Changed("objdump") {
		cfg.Objdump, _ = fs.GetString("objdump")
	}
	if fs.Changed("debug") {
		cfg.Debug, _ = fs.GetBool("debug")
	}
	return cfg, cfg.Validate()
}

// reportOptions expects cfg to have passed Validate.
func reportOptions(cfg config.Config) report.Options {
	only, _ := cfg.Extensions()
	return report.Options{Details: cfg.ShowInsts, Top: cfg.Top, HostCheck: cfg.HostCheck, Only: only}
}

// writeReport encodes r to w, styled only when w is a colour terminal.
func writeReport(w io.Writer, r *report.Report, cfg config.Config) error {
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	var opts report.EncodeOptions
	if f, ok := w.(*os.File); ok && term.IsTerminal(f.Fd()) && colorize.Enabled() {
		opts.Styled = true
		if width, _, err := term.GetSize(f.Fd()); err == nil {
			opts.Width = width
		}
	}
	return report.Encode(w, r, format, opts)
}

func startProfiling(cpuprofile, memprofile string) (func(), error) {
	var stops []func()
	if cpuprofile != "" {
		f, err := os.Create(cpuprofile)
		if err != nil {
			return nil, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not start CPU profile: %w", err)
		}
		stops = append(stops, func() {
			pprof.StopCPUProfile()
			f.Close()
		})
	}
	if memprofile != "" {
		stops = append(stops, func() {
			f, err := os.Create(memprofile)
			if err != nil {
				slog.Error("Could not create memory profile", "error", err)
				return
			}
			defer f.Close()
			if err := pprof.WriteHeapProfile(f); err != nil {
				slog.Error("Could not write memory profile", "error", err)
			}
		})
	}
	return func() {
		for _, stop := range stops {
			stop()
		}
	}, nil
}

func Execute() {
	defer log.Close()

	// fang renders help and errors for people; pipes get plain cobra so
	// reports stay machine-readable.
	if !term.IsTerminal(os.Stdout.Fd()) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		if err := rootCmd.ExecuteContext(ctx); err != nil {
			log.Close()
			os.Exit(1)
		}
		return
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		log.Close()
		os.Exit(1)
	}
}
