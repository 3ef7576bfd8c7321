// =============================================================================
// VERSION COMMAND - SHOW VERSION INFORMATION
// =============================================================================
//
// WHAT IS THIS?
// Command to display the rsmqctl version and, when Redis answers, the Redis
// server version.
//
// USAGE:
//   rsmqctl version
//
// OUTPUT:
//   {"client_version":"v0.1.0","server_version":"7.2.4"}
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/keithsharp/rsmqctl/internal/cli"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show rsmqctl and Redis server version information.

Examples:
  rsmqctl version
  rsmqctl version -o table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := &cli.VersionInfo{
				ClientVersion: cli.Version,
			}

			// Server version is best effort
			ctx, cancel := a.commandContext()
			defer cancel()
			version, err := cli.ServerVersion(ctx, a.client.Redis())
			if err != nil {
				a.logger.Debug("redis version unavailable", "error", err)
			} else {
				info.ServerVersion = version
			}

			return a.formatter.FormatVersion(info)
		},
	}
}
