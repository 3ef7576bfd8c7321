// =============================================================================
// RSMQCTL - MAIN ENTRY POINT
// =============================================================================
//
// WHAT IS THIS?
// The main entry point for rsmqctl, a command-line administration tool for
// Redis Simple Message Queue (RSMQ) queues.
//
// USAGE:
//   rsmqctl [-h HOST] [-p PORT] [-v] [command] [subcommand] [flags]
//
// EXAMPLES:
//   rsmqctl queue list                          # List all queues
//   rsmqctl queue create -n orders -t 60        # Create a queue
//   rsmqctl message send -n orders -m "hello"   # Send a message
//   rsmqctl message receive -n orders           # Receive a message
//   rsmqctl -h redis.internal -v queue describe -n orders
//
// CONFIGURATION:
//   Config file: ~/.rsmqctl/config.yaml
//   Env vars: RSMQCTL_HOST, RSMQCTL_PORT, RSMQCTL_CONTEXT, RSMQCTL_NAMESPACE
//
// EXIT CODES:
//   0  success (including receive/pop on an empty queue)
//   1  any failure: missing queue, failed operation, bad arguments
//
// =============================================================================

package main

import (
	"os"

	"github.com/keithsharp/rsmqctl/cmd/rsmqctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
