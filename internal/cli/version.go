package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// VersionInfo is the output of the version command.
type VersionInfo struct {
	Version string `json:"version"`
	Go      string `json:"go"`
}

func (v VersionInfo) Text() string {
	return fmt.Sprintf("nars %s (%s)\n", v.Version, v.Go)
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print the version",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newFormatter(rootOpts, cmd).Success(VersionInfo{
				Version: Version,
				Go:      runtime.Version(),
			})
		},
	}
}
