// =============================================================================
// CONFIG COMMANDS - MANAGE CLI CONFIGURATION
// =============================================================================
//
// WHAT IS THIS?
// Commands for managing CLI configuration (contexts, Redis servers).
//
// COMMANDS:
//   rsmqctl config view              Show current configuration
//   rsmqctl config get-contexts      List all contexts
//   rsmqctl config use-context       Switch to a context
//   rsmqctl config set-context       Create/update a context
//   rsmqctl config delete-context    Delete a context
//
// set-context takes its settings from the global connection flags, so
// `-h`, `-p`, `--db`, `--password`, `--ns`, `--timeout` and the `--tls*`
// flags mean the same thing here as everywhere else. None of these commands
// touch Redis.
//
// EXAMPLES:
//   rsmqctl config view
//   rsmqctl config set-context prod -h redis.prod.example.com --db 2
//   rsmqctl config use-context prod
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/keithsharp/rsmqctl/internal/cli"
)

// =============================================================================
// CONFIG COMMAND (PARENT)
// =============================================================================

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long: `Manage rsmqctl configuration.

Configuration is stored in ~/.rsmqctl/config.yaml and supports multiple
contexts for different Redis servers (similar to kubectl contexts).

Examples:
  rsmqctl config view                    # Show current config
  rsmqctl config get-contexts            # List all contexts
  rsmqctl config use-context production  # Switch to production
  rsmqctl config set-context staging \
    -h redis.staging.example.com --ns jobs  # Create staging context`,
	}

	cmd.AddCommand(newConfigViewCommand(a))
	cmd.AddCommand(newConfigGetContextsCommand(a))
	cmd.AddCommand(newConfigUseContextCommand(a))
	cmd.AddCommand(newConfigSetContextCommand(a))
	cmd.AddCommand(newConfigDeleteContextCommand(a))
	return cmd
}

// =============================================================================
// CONFIG VIEW
// =============================================================================

func newConfigViewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show current configuration",
		Long: `Show the current CLI configuration.

Output includes:
  - Current context
  - All defined contexts and their settings
  - Config file location (table output)

Examples:
  rsmqctl config view
  rsmqctl config view -o table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath()
			cfg, err := cli.LoadConfigFromPath(path)
			if err != nil {
				return err
			}
			return a.formatter.FormatConfig(path, cfg)
		},
	}
}

// =============================================================================
// CONFIG GET-CONTEXTS
// =============================================================================

func newConfigGetContextsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get-contexts",
		Short: "List all contexts",
		Long: `List all configured contexts.

Examples:
  rsmqctl config get-contexts
  rsmqctl config get-contexts -o table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfigFromPath(a.configPath())
			if err != nil {
				return err
			}
			return a.formatter.FormatContexts(cfg)
		},
	}
}

// =============================================================================
// CONFIG USE-CONTEXT
// =============================================================================

func newConfigUseContextCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use-context <name>",
		Short: "Switch to a context",
		Long: `Switch to a different context.

Arguments:
  name    The name of the context to use

Examples:
  rsmqctl config use-context production`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			path := a.configPath()

			cfg, err := cli.LoadConfigFromPath(path)
			if err != nil {
				return err
			}
			if err := cfg.UseContext(name); err != nil {
				return err
			}
			if err := cfg.SaveToPath(path); err != nil {
				return err
			}

			cli.PrintSuccess(a.stdout, "Switched to context %q", name)
			return nil
		},
	}
}

// =============================================================================
// CONFIG SET-CONTEXT
// =============================================================================

func newConfigSetContextCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-context <name>",
		Short: "Create or update a context",
		Long: `Create a new context or update an existing one. Only the connection
flags given on the command line are written; the rest keep their current
(or default) values.

Arguments:
  name    The name of the context

Examples:
  # Create a new context
  rsmqctl config set-context prod -h redis.prod.example.com -p 6380

  # Update existing context
  rsmqctl config set-context prod --password s3cret --ns jobs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			path := a.configPath()

			cfg, err := cli.LoadConfigFromPath(path)
			if err != nil {
				return err
			}

			// Get existing context or create new
			ctx, _ := cfg.GetContext(name)
			if ctx == nil {
				ctx = &cli.ContextConfig{}
			}

			o := a.overrides(cmd)
			if o.Host != nil {
				ctx.Host = *o.Host
			}
			if o.Port != nil {
				ctx.Port = *o.Port
			}
			if o.DB != nil {
				ctx.DB = *o.DB
			}
			if o.Password != nil {
				ctx.Password = *o.Password
			}
			if o.Namespace != nil {
				ctx.Namespace = *o.Namespace
			}
			if o.Timeout != nil {
				ctx.Timeout = a.timeoutFlag
			}
			applyContextTLS(ctx, o)

			cfg.SetContext(name, ctx)
			if cfg.CurrentContext == "" {
				cfg.CurrentContext = name
			}

			if err := cfg.SaveToPath(path); err != nil {
				return err
			}

			cli.PrintSuccess(a.stdout, "Context %q saved", name)
			return nil
		},
	}
}

// =============================================================================
// CONFIG DELETE-CONTEXT
// =============================================================================

func newConfigDeleteContextCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-context <name>",
		Short: "Delete a context",
		Long: `Delete a context from the configuration.

Arguments:
  name    The name of the context to delete

Examples:
  rsmqctl config delete-context old-staging`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			path := a.configPath()

			cfg, err := cli.LoadConfigFromPath(path)
			if err != nil {
				return err
			}
			if err := cfg.DeleteContext(name); err != nil {
				return err
			}
			if err := cfg.SaveToPath(path); err != nil {
				return err
			}

			cli.PrintSuccess(a.stdout, "Context %q deleted", name)
			return nil
		},
	}
}

// applyContextTLS copies the TLS flags given on the command line into ctx.
func applyContextTLS(ctx *cli.ContextConfig, o cli.Overrides) {
	if o.TLS == nil && o.TLSCAFile == nil && o.TLSCertFile == nil && o.TLSKeyFile == nil &&
		o.TLSServerName == nil && o.TLSSkipVerify == nil {
		return
	}
	if ctx.TLS == nil {
		ctx.TLS = &cli.ContextTLS{}
	}
	if o.TLS != nil {
		ctx.TLS.Enabled = *o.TLS
	}
	if o.TLSCAFile != nil {
		ctx.TLS.CAFile = *o.TLSCAFile
	}
	if o.TLSCertFile != nil {
		ctx.TLS.CertFile = *o.TLSCertFile
	}
	if o.TLSKeyFile != nil {
		ctx.TLS.KeyFile = *o.TLSKeyFile
	}
	if o.TLSServerName != nil {
		ctx.TLS.ServerName = *o.TLSServerName
	}
	if o.TLSSkipVerify != nil {
		ctx.TLS.InsecureSkipVerify = *o.TLSSkipVerify
	}
}
