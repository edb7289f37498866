package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/nars/internal/config"
)

// effectiveConfig renders as the indented JSON the config layers merged to.
type effectiveConfig struct {
	*config.Config
}

func (c effectiveConfig) Text() string {
	data, err := c.JSON()
	if err != nil {
		return err.Error() + "\n"
	}
	return string(data) + "\n"
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging schema defaults, the --config
file, .env and NARS_* environment variables.

Examples:
  nars config
  NARS_CONCEPTS=500 nars config --config nars.cue`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			out := newFormatter(rootOpts, cmd)
			if rootOpts.Format == "json" {
				return out.Success(cfg)
			}
			return out.Success(effectiveConfig{cfg})
		},
	}
}
