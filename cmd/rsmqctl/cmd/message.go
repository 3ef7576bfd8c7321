// =============================================================================
// MESSAGE COMMANDS - SEND, RECEIVE AND DELETE MESSAGES
// =============================================================================
//
// WHAT IS THIS?
// Commands for working with individual messages on a queue.
//
// COMMANDS:
//   rsmqctl message send -n NAME -m BODY            Send a message, print its ID
//   rsmqctl message receive -n NAME [-t VT]         Receive one message
//   rsmqctl message pop -n NAME                     Receive and delete one message
//   rsmqctl message delete -n NAME -i ID            Delete a message
//   rsmqctl message visibility -n NAME -i ID -t VT  Change a message's visibility
//
// RECEIVE vs POP:
//
//   receive: message stays on the queue, hidden for VT seconds, then
//            reappears unless deleted (at-least-once delivery)
//   pop:     message is removed as it is read (at-most-once delivery)
//
// Neither waits: an empty queue prints "No messages on queue" right away.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

// =============================================================================
// MESSAGE COMMAND (PARENT)
// =============================================================================

func newMessageCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Send, receive and delete messages",
		Long: `Send, receive and delete messages on RSMQ queues.

Examples:
  rsmqctl message send -n orders -m '{"id": 42}'
  rsmqctl message receive -n orders -t 60
  rsmqctl message delete -n orders -i <id>`,
	}

	cmd.AddCommand(newMessageSendCommand(a))
	cmd.AddCommand(newMessageDeleteCommand(a))
	cmd.AddCommand(newMessageReceiveCommand(a))
	cmd.AddCommand(newMessagePopCommand(a))
	cmd.AddCommand(newMessageVisibilityCommand(a))
	return cmd
}

func addIDFlag(cmd *cobra.Command, id *string) {
	cmd.Flags().StringVarP(id, "id", "i", "", "Message ID (required)")
	_ = cmd.MarkFlagRequired("id")
}

// =============================================================================
// MESSAGE SEND
// =============================================================================

func newMessageSendCommand(a *app) *cobra.Command {
	var (
		name, body string
		delay      int64
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message",
		Long: `Send a message to a queue and print the new message ID.

Examples:
  rsmqctl message send -n orders -m "hello"
  rsmqctl message send -n orders -m "later" -d 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.commandContext()
			defer cancel()
			return a.admin.SendMessage(ctx, name, body, &delay)
		},
	}

	addNameFlag(cmd, &name)
	cmd.Flags().StringVarP(&body, "message", "m", "", "Message body (required)")
	_ = cmd.MarkFlagRequired("message")
	cmd.Flags().Int64VarP(&delay, "delay", "d", defaultDelay, "Seconds before the message becomes receivable")
	return cmd
}

// =============================================================================
// MESSAGE DELETE
// =============================================================================

func newMessageDeleteCommand(a *app) *cobra.Command {
	var name, id string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a message",
		Long: `Delete a message from a queue, typically after processing it.

Examples:
  rsmqctl message delete -n orders -i lt5cpxbz0j8b1aKx0ZfA0cMbUwqCaOsB`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.commandContext()
			defer cancel()
			return a.admin.DeleteMessage(ctx, name, id)
		},
	}

	addNameFlag(cmd, &name)
	addIDFlag(cmd, &id)
	return cmd
}

// =============================================================================
// MESSAGE RECEIVE
// =============================================================================

func newMessageReceiveCommand(a *app) *cobra.Command {
	var (
		name string
		vt   int64
	)

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Receive a message",
		Long: `Receive the next visible message and hide it for the visibility timeout.
Without --vt the queue's own visibility timeout applies.

Examples:
  rsmqctl message receive -n orders
  rsmqctl message receive -n orders -t 300`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var vtOverride *int64
			if cmd.Flags().Changed("vt") {
				vtOverride = &vt
			}

			ctx, cancel := a.commandContext()
			defer cancel()
			return a.admin.ReceiveMessage(ctx, name, vtOverride)
		},
	}

	addNameFlag(cmd, &name)
	cmd.Flags().Int64VarP(&vt, "vt", "t", 0, "Visibility timeout in seconds (default: the queue's)")
	return cmd
}

// =============================================================================
// MESSAGE POP
// =============================================================================

func newMessagePopCommand(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "pop",
		Short: "Receive and delete a message",
		Long: `Receive the next visible message and delete it in one step.

Examples:
  rsmqctl message pop -n orders`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.commandContext()
			defer cancel()
			return a.admin.PopMessage(ctx, name)
		},
	}

	addNameFlag(cmd, &name)
	return cmd
}

// =============================================================================
// MESSAGE VISIBILITY
// =============================================================================

func newMessageVisibilityCommand(a *app) *cobra.Command {
	var (
		name, id string
		vt       int64
	)

	cmd := &cobra.Command{
		Use:   "visibility",
		Short: "Change a message's visibility timeout",
		Long: `Make a message visible again VT seconds from now. -t 0 makes it
visible immediately.

Examples:
  rsmqctl message visibility -n orders -i <id> -t 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.commandContext()
			defer cancel()
			return a.admin.ChangeVisibility(ctx, name, id, vt)
		},
	}

	addNameFlag(cmd, &name)
	addIDFlag(cmd, &id)
	cmd.Flags().Int64VarP(&vt, "vt", "t", 0, "Visibility timeout in seconds (required)")
	_ = cmd.MarkFlagRequired("vt")
	return cmd
}
