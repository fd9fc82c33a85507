package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"simdscan/internal/binfmt"
	"simdscan/internal/config"
	"simdscan/internal/disasm"
	"simdscan/internal/objdump"
	"simdscan/internal/scan"
)

// analyzeBinary disassembles path with the configured engine and scans the
// listing. The auto engine uses objdump when it resolves and the native
// decoder otherwise.
func analyzeBinary(ctx context.Context, path string, cfg config.Config) (*scan.Aggregate, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("binary file '%s' not found: %w", path, err)
	}
	sc := scan.NewScanner(nil, scan.WithDetail(cfg.ShowInsts))
	runner := objdump.New(cfg.Objdump)

	engine := cfg.Engine
	if engine == config.EngineAuto {
		engine = config.EngineNative
		if runner.Available() {
			engine = config.EngineObjdump
		} else {
			slog.Warn("objdump not found, using the native decoder", "objdump", runner.Path)
		}
	}
	slog.Debug("Scanning binary", "path", path, "engine", engine, "jobs", cfg.Jobs)

	switch engine {
	case config.EngineObjdump:
		var agg *scan.Aggregate
		err := runner.Disassemble(ctx, path, func(r io.Reader) error {
			var err error
			agg, err = scanStream(ctx, sc, r, cfg.Jobs)
			return err
		})
		if err != nil {
			return nil, err
		}
		return agg, nil

	case config.EngineNative:
		im, err := binfmt.Open(path)
		if err != nil {
			return nil, err
		}
		slog.Debug("Loaded image", "format", im.FormatName(), "sections", len(im.Sections), "bytes", im.Size())
		if cfg.Jobs <= 1 {
			return sc.Scan(disasm.Listing(im)), nil
		}
		return sc.ScanParallel(ctx, slices.Collect(disasm.Listing(im)), cfg.Jobs)
	}
	return nil, fmt.Errorf("%w: engine %q", config.ErrInvalid, engine)
}

// scanStream scans r in one pass, or collects it and shards it when jobs > 1.
func scanStream(ctx context.Context, sc *scan.Scanner, r io.Reader, jobs int) (*scan.Aggregate, error) {
	if jobs <= 1 {
		return sc.ScanReader(r)
	}
	lines, err := scan.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return sc.ScanParallel(ctx, lines, jobs)
}
