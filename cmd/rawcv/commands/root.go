package commands

import (
	"github.com/spf13/cobra"

	"rawcv/internal/config"
	"rawcv/internal/logging"
)

// Version is the release reported by `rawcv version`.
const Version = "0.3.0"

type globalOptions struct {
	cfgFile string
	verbose bool
	quiet   bool

	cfg *config.Config
}

// NewRootCommand builds the rawcv command tree.
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:   "rawcv",
		Short: "Develop raw sensor dumps into viewable images",
		Long: `rawcv develops single-channel Bayer mosaics (raw sensor dumps with
a metadata sidecar, or one-shot-color FITS frames) into RGB previews:
pattern canonicalization, bilinear demosaic, level mapping, color
correction and white balance.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.init()
		},
	}

	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default is $HOME/.rawcv/config.yaml)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "quiet mode")

	root.AddCommand(newDevelopCommand(g))
	root.AddCommand(newInspectCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// init loads the configuration and sets up logging. --verbose and --quiet
// override the configured level.
func (g *globalOptions) init() error {
	cfg, err := config.Load(g.cfgFile)
	if err != nil {
		return err
	}
	level := cfg.Logging.Level
	switch {
	case g.quiet:
		level = "error"
	case g.verbose:
		level = "debug"
	}
	if err := logging.Init(level, cfg.Logging.File, cfg.Logging.Console); err != nil {
		return err
	}
	if g.verbose {
		logging.Debugf("config: %+v", *cfg)
	}
	g.cfg = cfg
	return nil
}
