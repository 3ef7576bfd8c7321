// =============================================================================
// ROOT COMMAND - CLI ENTRY POINT AND GLOBAL FLAGS
// =============================================================================
//
// WHAT IS THIS?
// The root command that initializes the CLI and defines global flags.
// All subcommands inherit these flags and share one queue service handle.
//
// GLOBAL FLAGS:
//   --host, -h      Redis host (default: 127.0.0.1)
//   --port, -p      Redis port (default: 6379)
//   --verbose, -v   Report service errors instead of reading them as "no result"
//   --db            Redis database number
//   --password      Redis password
//   --ns            RSMQ key namespace (default: rsmq)
//   --timeout       Command timeout in seconds (default: 30)
//   --realtime      Publish queue length on send (RSMQ realtime mode)
//   --context, -c   Config context to use
//   --config        Config file path
//   --output, -o    Output format: json, yaml, table (default: json)
//   --pushgateway   Prometheus Pushgateway URL for command metrics
//   --tls           Connect to Redis over TLS (plus --tls-ca, --tls-cert,
//                   --tls-key, --tls-server-name, --tls-insecure-skip-verify)
//
// -h is taken by --host, so help is only reachable as --help.
//
// SUBCOMMANDS:
//   queue       Manage queues
//   message     Send, receive and delete messages
//   config      Manage CLI configuration
//   version     Show version information
//
// LIFECYCLE OF ONE INVOCATION:
//
//   parse flags ──► setup (config, logger, client) ──► RunE ──► finish
//                                                                │
//                                      record metrics, push, close client
//
// =============================================================================

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/keithsharp/rsmqctl/internal/cli"
	"github.com/keithsharp/rsmqctl/internal/config"
	"github.com/keithsharp/rsmqctl/internal/metrics"
	"github.com/keithsharp/rsmqctl/internal/rsmq"
)

// =============================================================================
// APPLICATION STATE
// =============================================================================

// app carries the flags and shared instances of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	// Global flags
	hostFlag        string
	portFlag        int
	verboseFlag     bool
	dbFlag          int
	passwordFlag    string
	namespaceFlag   string
	timeoutFlag     int
	realtimeFlag    bool
	contextFlag     string
	configFlag      string
	outputFlag      string
	pushgatewayFlag string

	// TLS flags
	tlsFlag           bool
	tlsCertFlag       string
	tlsKeyFlag        string
	tlsCAFlag         string
	tlsServerNameFlag string
	tlsInsecureFlag   bool

	// Shared instances, built by setup
	conn      config.ConnectionConfig
	logger    *slog.Logger
	formatter *cli.Formatter
	client    *rsmq.Client
	admin     *cli.Admin
	registry  *metrics.Registry
}

func newApp(stdout, stderr io.Writer, getenv func(string) string) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		getenv: getenv,
		conn:   config.DefaultConnectionConfig(),
	}
}

// Execute runs rsmqctl with the process arguments.
func Execute() error {
	return newApp(os.Stdout, os.Stderr, os.Getenv).execute(os.Args[1:])
}

// execute runs one command and reports any error that was not already
// printed by its handler.
func (a *app) execute(args []string) error {
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	timer := metrics.NewTimer()
	cmd, err := root.ExecuteC()
	a.finish(root, cmd, err, timer.Elapsed())

	if err != nil && !cli.IsSilent(err) {
		cli.PrintError(a.stderr, "%v", err)
	}
	return err
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "rsmqctl",
		Short: "Command-line administration for RSMQ queues",
		Long: `rsmqctl - Manage Redis Simple Message Queue (RSMQ) queues from the command line.

Queues and messages are stored in Redis using the RSMQ layout, so rsmqctl
works alongside any other RSMQ client sharing the same namespace.

Use "rsmqctl [command] --help" for more information about a command.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := root.PersistentFlags()
	flags.Bool("help", false, "Help for rsmqctl")
	flags.StringVarP(&a.hostFlag, "host", "h", config.DefaultHost,
		"Redis host (env: RSMQCTL_HOST)")
	flags.IntVarP(&a.portFlag, "port", "p", config.DefaultPort,
		"Redis port (env: RSMQCTL_PORT)")
	flags.BoolVarP(&a.verboseFlag, "verbose", "v", false,
		"Report service errors and log debug output to stderr")
	flags.IntVar(&a.dbFlag, "db", 0,
		"Redis database number (env: RSMQCTL_DB)")
	flags.StringVar(&a.passwordFlag, "password", "",
		"Redis password (env: RSMQCTL_PASSWORD)")
	flags.StringVar(&a.namespaceFlag, "ns", rsmq.DefaultNamespace,
		"RSMQ key namespace (env: RSMQCTL_NAMESPACE)")
	flags.IntVar(&a.timeoutFlag, "timeout", int(config.DefaultTimeout/time.Second),
		"Command timeout in seconds (env: RSMQCTL_TIMEOUT)")
	flags.BoolVar(&a.realtimeFlag, "realtime", false,
		"Publish the queue length on every send")
	flags.StringVarP(&a.contextFlag, "context", "c", "",
		"Config context to use (env: RSMQCTL_CONTEXT)")
	flags.StringVar(&a.configFlag, "config", "",
		"Config file (env: RSMQCTL_CONFIG, default ~/.rsmqctl/config.yaml)")
	flags.StringVarP(&a.outputFlag, "output", "o", string(cli.OutputJSON),
		"Output format: json, yaml, table")
	flags.StringVar(&a.pushgatewayFlag, "pushgateway", "",
		"Prometheus Pushgateway URL (env: RSMQCTL_PUSHGATEWAY)")
	flags.BoolVar(&a.tlsFlag, "tls", false,
		"Connect over TLS (env: RSMQCTL_TLS)")
	flags.StringVar(&a.tlsCAFlag, "tls-ca", "",
		"CA bundle to verify the server (env: RSMQCTL_TLS_CA_FILE)")
	flags.StringVar(&a.tlsCertFlag, "tls-cert", "",
		"Client certificate (env: RSMQCTL_TLS_CERT_FILE)")
	flags.StringVar(&a.tlsKeyFlag, "tls-key", "",
		"Client private key (env: RSMQCTL_TLS_KEY_FILE)")
	flags.StringVar(&a.tlsServerNameFlag, "tls-server-name", "",
		"Server name to verify (env: RSMQCTL_TLS_SERVER_NAME)")
	flags.BoolVar(&a.tlsInsecureFlag, "tls-insecure-skip-verify", false,
		"Skip server certificate verification (testing only)")

	root.AddCommand(newQueueCommand(a))
	root.AddCommand(newMessageCommand(a))
	root.AddCommand(newConfigCommand(a))
	root.AddCommand(newVersionCommand(a))

	return root
}

// =============================================================================
// CLIENT INITIALIZATION
// =============================================================================

// setup builds the logger, formatter and queue client before each command.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.logger = newLogger(a.stderr, a.verboseFlag)

	format, err := cli.ParseOutputFormat(a.outputFlag)
	if err != nil {
		return err
	}
	a.formatter = cli.NewFormatter(format)
	a.formatter.SetWriter(a.stdout)

	// Config commands manage the config file themselves and never connect
	if isConfigCommand(cmd) {
		return nil
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	a.conn, err = cli.ResolveConnection(a.overrides(cmd), cfg, a.getenv)
	if err != nil {
		return err
	}

	a.registry = metrics.NewRegistry(metrics.Config{
		IncludeGoCollector:      true,
		IncludeProcessCollector: true,
		Logger:                  a.logger,
	})

	a.client, err = cli.Connect(a.conn, a.logger)
	if err != nil {
		return err
	}

	a.admin = cli.NewAdmin(a.client, cli.AdminOptions{
		Verbose:   a.verboseFlag,
		Formatter: a.formatter,
		Logger:    a.logger,
		Recorder:  a.registry,
	})
	return nil
}

// loadConfig reads the config file and applies the context override.
func (a *app) loadConfig() (*cli.Config, error) {
	path := a.configPath()
	cfg, err := cli.LoadConfigFromPath(path)
	if err != nil {
		return nil, err
	}

	contextName := a.contextFlag
	if contextName == "" {
		contextName = a.getenv(cli.EnvContext)
	}
	if contextName != "" {
		if err := cfg.UseContext(contextName); err != nil {
			return nil, err
		}
	}

	a.logger.Debug("config loaded", "path", path, "context", cfg.CurrentContext)
	return cfg, nil
}

func (a *app) configPath() string {
	return cli.ResolveConfigPath(a.configFlag, a.getenv)
}

// overrides collects the connection flags the user actually set, so config
// file and environment values are not hidden by flag defaults.
func (a *app) overrides(cmd *cobra.Command) cli.Overrides {
	o := cli.Overrides{Realtime: a.realtimeFlag}
	flags := cmd.Flags()
	if flags.Changed("host") {
		o.Host = &a.hostFlag
	}
	if flags.Changed("port") {
		o.Port = &a.portFlag
	}
	if flags.Changed("db") {
		o.DB = &a.dbFlag
	}
	if flags.Changed("password") {
		o.Password = &a.passwordFlag
	}
	if flags.Changed("ns") {
		o.Namespace = &a.namespaceFlag
	}
	if flags.Changed("timeout") {
		timeout := time.Duration(a.timeoutFlag) * time.Second
		o.Timeout = &timeout
	}
	if flags.Changed("pushgateway") {
		o.Pushgateway = &a.pushgatewayFlag
	}
	if flags.Changed("tls") {
		o.TLS = &a.tlsFlag
	}
	if flags.Changed("tls-cert") {
		o.TLSCertFile = &a.tlsCertFlag
	}
	if flags.Changed("tls-key") {
		o.TLSKeyFile = &a.tlsKeyFlag
	}
	if flags.Changed("tls-ca") {
		o.TLSCAFile = &a.tlsCAFlag
	}
	if flags.Changed("tls-server-name") {
		o.TLSServerName = &a.tlsServerNameFlag
	}
	if flags.Changed("tls-insecure-skip-verify") {
		o.TLSSkipVerify = &a.tlsInsecureFlag
	}
	return o
}

// finish records the command outcome, pushes metrics and closes the client.
func (a *app) finish(root, cmd *cobra.Command, err error, elapsed time.Duration) {
	if a.registry != nil && cmd != nil {
		name := strings.TrimPrefix(cmd.CommandPath(), root.Name()+" ")
		a.registry.Commands.RecordCommand(name, err == nil, elapsed)

		ctx, cancel := context.WithTimeout(context.Background(), a.conn.Timeout)
		a.registry.PushAndLog(ctx, a.conn.PushgatewayURL)
		cancel()
	}

	if a.client != nil {
		if err := a.client.Close(); err != nil {
			a.logger.Debug("failed to close redis client", "error", err)
		}
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// newLogger writes structured logs to stderr so stdout carries only results.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

// commandContext returns a context bounded by the resolved timeout.
func (a *app) commandContext() (context.Context, context.CancelFunc) {
	return cli.CommandContext(a.conn.Timeout)
}
