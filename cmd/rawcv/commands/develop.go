package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"rawcv/internal/config"
	"rawcv/internal/logging"
	"rawcv/pkg/develop"
	"rawcv/pkg/preview"
	"rawcv/pkg/rawfile"
)

type developOptions struct {
	raws      []string
	outDir    string
	format    string
	maxSize   int
	black     float32
	white     float32
	blackSet  bool
	whiteSet  bool
	autoWhite bool
	workers   int
}

func newDevelopCommand(g *globalOptions) *cobra.Command {
	o := &developOptions{}
	cmd := &cobra.Command{
		Use:   "develop [--raw FILE]... [FILE]...",
		Short: "Develop raw frames into RGB previews",
		Long: `Develop one or more raw frames. Each input is written to the output
directory as <name><ext>. Frames that fail to develop are replaced by a red
placeholder carrying the error, and the command exits non-zero.

Raw dumps use the configured black and white levels. FITS frames use their
BLKLEVEL and bit width unless a level is given by flag or config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.raws = append(o.raws, args...)
			if len(o.raws) == 0 {
				return fmt.Errorf("no input frames: pass --raw FILE")
			}
			o.applyConfig(cmd.Flags(), g.cfg)
			return runDevelop(cmd.Context(), cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&o.raws, "raw", nil, "raw or FITS frame to develop (repeatable)")
	f.StringVarP(&o.outDir, "out", "o", "", "output directory (default is next to each input)")
	f.StringVar(&o.format, "format", "", "output format: png, tiff, bmp or jpg")
	f.IntVar(&o.maxSize, "max-size", 0, "fit output in a square of this size (0 keeps full size)")
	f.Float32Var(&o.black, "black", 0, "black level")
	f.Float32Var(&o.white, "white", 0, "white level (0 uses the frame bit width)")
	f.BoolVar(&o.autoWhite, "auto-white", false, "use the brightest sample as white level")
	f.IntVarP(&o.workers, "workers", "j", 0, "frames developed concurrently (0 uses all CPUs)")
	return cmd
}

// applyConfig fills every flag the user did not set from the config file.
func (o *developOptions) applyConfig(f *pflag.FlagSet, cfg *config.Config) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	d := cfg.Develop
	if !f.Changed("format") {
		o.format = d.OutputFormat
	}
	if !f.Changed("max-size") {
		o.maxSize = d.MaxSize
	}
	o.blackSet = f.Changed("black") || d.BlackLevelSet
	o.whiteSet = f.Changed("white") || d.WhiteLevelSet
	if !f.Changed("black") {
		o.black = d.BlackLevel
	}
	if !f.Changed("white") {
		o.white = d.WhiteLevel
	}
	if !f.Changed("auto-white") {
		o.autoWhite = d.AutoWhite
	}
	if !f.Changed("workers") {
		o.workers = d.Workers
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU()
	}
}

func runDevelop(ctx context.Context, cmd *cobra.Command, o *developOptions) error {
	format, err := preview.ParseFormat(o.format)
	if err != nil {
		return err
	}
	if o.outDir != "" {
		if err := os.MkdirAll(o.outDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	outputs := make(map[string]string, len(o.raws))
	for _, path := range o.raws {
		outPath := outputPath(path, o.outDir, format)
		if prev, ok := outputs[outPath]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, path, outPath)
		}
		outputs[outPath] = path
	}

	log := logging.Get()
	total := time.Now()

	var (
		failed atomic.Int32
		outMu  sync.Mutex
	)
	report := func(w io.Writer, msg string, args ...any) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(w, msg, args...)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for _, path := range o.raws {
		path := path
		outPath := outputPath(path, o.outDir, format)
		opts := o.levels(path)
		opts.Logger = log
		g.Go(func() error {
			start := time.Now()
			entry := log.WithFields(logrus.Fields{"input": path, "output": outPath})

			devErr := developFile(ctx, path, outPath, opts, o.maxSize)
			if devErr == nil {
				entry.WithField("elapsed", time.Since(start)).Info("developed")
				report(cmd.OutOrStdout(), "%s\n", outPath)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			failed.Add(1)
			entry.WithError(devErr).Error("develop failed")
			if err := preview.WriteImage(outPath, preview.ErrorImage(devErr.Error())); err != nil {
				return fmt.Errorf("writing placeholder for %s: %w", path, err)
			}
			report(cmd.ErrOrStderr(), "%s: %v\n", path, devErr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		logging.Errorf("%d of %d frames failed", n, len(o.raws))
		return fmt.Errorf("%d of %d frames failed", n, len(o.raws))
	}
	logging.Infof("developed %d frames in %v", len(o.raws), time.Since(total))
	return nil
}

// levels picks the range mapping for one input. FITS frames fall back to
// their own black level and bit width for any level not set explicitly.
func (o *developOptions) levels(path string) develop.Options {
	opts := develop.Options{
		BlackLevel: o.black,
		WhiteLevel: o.white,
		AutoWhite:  o.autoWhite,
	}
	if rawfile.IsFITS(path) {
		opts.FrameBlack = !o.blackSet
		if !o.whiteSet {
			opts.WhiteLevel = 0
		}
	}
	return opts
}

func developFile(ctx context.Context, path, outPath string, opts develop.Options, maxSize int) error {
	frame, err := rawfile.Open(path)
	if err != nil {
		return err
	}
	rgb, err := develop.Develop(ctx, frame, opts)
	if err != nil {
		return err
	}
	return preview.Write(outPath, rgb, maxSize)
}

// outputPath swaps the input extension for the format's and moves the file
// to outDir when one is given.
func outputPath(input, outDir string, format preview.Format) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + format.Ext()
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), base)
	}
	return filepath.Join(outDir, base)
}
