// =============================================================================
// QUEUE COMMANDS - MANAGE RSMQ QUEUES
// =============================================================================
//
// WHAT IS THIS?
// Commands for listing, inspecting, creating, updating and deleting queues.
//
// COMMANDS:
//   rsmqctl queue list                  List all queues
//   rsmqctl queue describe -n NAME      Show queue attributes
//   rsmqctl queue create -n NAME        Create a queue
//   rsmqctl queue update -n NAME        Change queue settings
//   rsmqctl queue delete -n NAME        Delete a queue and its messages
//
// QUEUE SETTINGS:
//   -t, --vt        Visibility timeout in seconds (0-9999999, default 30)
//   -d, --delay     Delivery delay in seconds (0-9999999, default 0)
//   -m, --maxsize   Max message size in bytes (1024-65536 or -1, default 65535)
//
// =============================================================================

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/keithsharp/rsmqctl/internal/cli"
)

// Defaults for `queue create`.
const (
	defaultVT      = 30
	defaultDelay   = 0
	defaultMaxSize = 65535
)

// =============================================================================
// QUEUE COMMAND (PARENT)
// =============================================================================

func newQueueCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Manage queues",
		Long: `Manage RSMQ queues.

Examples:
  rsmqctl queue list
  rsmqctl queue create -n orders -t 60
  rsmqctl queue describe -n orders
  rsmqctl queue delete -n orders`,
	}

	cmd.AddCommand(newQueueListCommand(a))
	cmd.AddCommand(newQueueDescribeCommand(a))
	cmd.AddCommand(newQueueCreateCommand(a))
	cmd.AddCommand(newQueueUpdateCommand(a))
	cmd.AddCommand(newQueueDeleteCommand(a))
	return cmd
}

// addNameFlag registers the required -n/--name flag.
func addNameFlag(cmd *cobra.Command, name *string) {
	cmd.Flags().StringVarP(name, "name", "n", "", "Queue name (required)")
	_ = cmd.MarkFlagRequired("name")
}

// =============================================================================
// QUEUE LIST
// =============================================================================

func newQueueListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all queues",
		Long: `List all queue names, sorted.

Examples:
  rsmqctl queue list
  rsmqctl queue list -o table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.commandContext()
			defer cancel()
			return a.admin.ListQueues(ctx)
		},
	}
}

// =============================================================================
// QUEUE DESCRIBE
// =============================================================================

func newQueueDescribeCommand(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show queue attributes",
		Long: `Show the attributes of a queue: settings, message counts and timestamps.

Examples:
  rsmqctl queue describe -n orders`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.commandContext()
			defer cancel()
			return a.admin.DescribeQueue(ctx, name)
		},
	}

	addNameFlag(cmd, &name)
	return cmd
}

// =============================================================================
// QUEUE CREATE
// =============================================================================

func newQueueCreateCommand(a *app) *cobra.Command {
	var in cli.CreateQueueInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a queue",
		Long: `Create a new queue. Creating a queue that already exists fails.

Examples:
  rsmqctl queue create -n orders
  rsmqctl queue create -n orders -t 60 -d 5 -m -1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.commandContext()
			defer cancel()
			return a.admin.CreateQueue(ctx, in)
		},
	}

	addNameFlag(cmd, &in.Name)
	cmd.Flags().Int64VarP(&in.VT, "vt", "t", defaultVT, "Visibility timeout in seconds")
	cmd.Flags().Int64VarP(&in.Delay, "delay", "d", defaultDelay, "Delivery delay in seconds")
	cmd.Flags().Int64VarP(&in.MaxSize, "maxsize", "m", defaultMaxSize, "Max message size in bytes (-1 for unlimited)")
	return cmd
}

// =============================================================================
// QUEUE UPDATE
// =============================================================================

func newQueueUpdateCommand(a *app) *cobra.Command {
	var (
		name               string
		vt, delay, maxSize int64
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change queue settings",
		Long: `Change the visibility timeout, delay or max size of an existing queue.
Settings that are not given are left unchanged.

Examples:
  rsmqctl queue update -n orders -t 120
  rsmqctl queue update -n orders -m 1024`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cli.UpdateQueueInput{Name: name}
			if cmd.Flags().Changed("vt") {
				in.VT = &vt
			}
			if cmd.Flags().Changed("delay") {
				in.Delay = &delay
			}
			if cmd.Flags().Changed("maxsize") {
				in.MaxSize = &maxSize
			}
			if in.VT == nil && in.Delay == nil && in.MaxSize == nil {
				return errors.New("at least one of --vt, --delay or --maxsize is required")
			}

			ctx, cancel := a.commandContext()
			defer cancel()
			return a.admin.UpdateQueue(ctx, in)
		},
	}

	addNameFlag(cmd, &name)
	cmd.Flags().Int64VarP(&vt, "vt", "t", 0, "Visibility timeout in seconds")
	cmd.Flags().Int64VarP(&delay, "delay", "d", 0, "Delivery delay in seconds")
	cmd.Flags().Int64VarP(&maxSize, "maxsize", "m", 0, "Max message size in bytes (-1 for unlimited)")
	return cmd
}

// =============================================================================
// QUEUE DELETE
// =============================================================================

func newQueueDeleteCommand(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a queue",
		Long: `Delete a queue and every message on it.

Examples:
  rsmqctl queue delete -n orders`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.commandContext()
			defer cancel()
			return a.admin.DeleteQueue(ctx, name)
		},
	}

	addNameFlag(cmd, &name)
	return cmd
}
