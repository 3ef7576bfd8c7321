// =============================================================================
// CLI OUTPUT FORMATTER - JSON, YAML, TABLE OUTPUT SUPPORT
// =============================================================================
//
// WHAT IS THIS?
// Output formatting for rsmqctl results:
//   - JSON (default): one compact line per result, for scripting with jq
//   - YAML: configuration-friendly
//   - Table: human-readable columns
//
// Plain status lines ("No such queue: orders") are not results and are
// written as-is whatever the format.
//
// =============================================================================

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/keithsharp/rsmqctl/internal/rsmq"
)

// =============================================================================
// OUTPUT FORMAT
// =============================================================================

// OutputFormat represents the output format type.
type OutputFormat string

// Supported output formats
const (
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
	OutputTable OutputFormat = "table"
)

// ParseOutputFormat parses an output format string.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "json", "":
		return OutputJSON, nil
	case "yaml", "yml":
		return OutputYAML, nil
	case "table":
		return OutputTable, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (supported: json, yaml, table)", s)
	}
}

// =============================================================================
// FORMATTER
// =============================================================================

// Formatter handles output formatting for CLI commands.
type Formatter struct {
	format OutputFormat
	writer io.Writer
}

// NewFormatter creates a new formatter with the specified format.
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{
		format: format,
		writer: os.Stdout,
	}
}

// SetWriter sets the output writer (for testing).
func (f *Formatter) SetWriter(w io.Writer) {
	f.writer = w
}

// Format outputs data in the configured format. Table output falls back to
// JSON for types without a table layout.
func (f *Formatter) Format(data interface{}) error {
	switch f.format {
	case OutputYAML:
		return f.formatYAML(data)
	default:
		return f.formatJSON(data)
	}
}

// Println writes a plain status line.
func (f *Formatter) Println(format string, args ...interface{}) {
	fmt.Fprintf(f.writer, format+"\n", args...)
}

// formatJSON outputs data as a single line of JSON.
func (f *Formatter) formatJSON(data interface{}) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// formatYAML outputs data as YAML.
func (f *Formatter) formatYAML(data interface{}) error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// =============================================================================
// TABLE FORMATTING
// =============================================================================

// Table creates a new table writer.
func (f *Formatter) Table() *TableWriter {
	return &TableWriter{
		tw: tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0),
	}
}

// TableWriter wraps tabwriter for convenient table output.
type TableWriter struct {
	tw      *tabwriter.Writer
	headers []string
}

// SetHeaders sets the table headers.
func (t *TableWriter) SetHeaders(headers ...string) {
	t.headers = headers
}

// WriteHeaders writes the headers row.
func (t *TableWriter) WriteHeaders() {
	if len(t.headers) == 0 {
		return
	}
	upper := make([]string, len(t.headers))
	for i, h := range t.headers {
		upper[i] = strings.ToUpper(h)
	}
	fmt.Fprintln(t.tw, strings.Join(upper, "\t"))
}

// WriteRow writes a single row.
func (t *TableWriter) WriteRow(values ...interface{}) {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = fmt.Sprint(v)
	}
	fmt.Fprintln(t.tw, strings.Join(strs, "\t"))
}

// Flush flushes the table writer.
func (t *TableWriter) Flush() error {
	return t.tw.Flush()
}

// =============================================================================
// SPECIFIC DATA TYPE FORMATTERS
// =============================================================================

// FormatQueues outputs a list of queue names.
func (f *Formatter) FormatQueues(queues []string) error {
	if queues == nil {
		queues = []string{}
	}
	if f.format != OutputTable {
		return f.Format(queues)
	}

	table := f.Table()
	table.SetHeaders("NAME")
	table.WriteHeaders()
	for _, q := range queues {
		table.WriteRow(q)
	}
	return table.Flush()
}

// FormatQueueAttributes outputs a queue's attributes.
func (f *Formatter) FormatQueueAttributes(name string, attrs *rsmq.QueueAttributes) error {
	if f.format != OutputTable {
		return f.Format(attrs)
	}

	// Key-value style
	fmt.Fprintf(f.writer, "Name:            %s\n", name)
	fmt.Fprintf(f.writer, "Visibility:      %ds\n", attrs.VT)
	fmt.Fprintf(f.writer, "Delay:           %ds\n", attrs.Delay)
	fmt.Fprintf(f.writer, "Max Size:        %s\n", formatMaxSize(attrs.MaxSize))
	fmt.Fprintf(f.writer, "Messages:        %d\n", attrs.Msgs)
	fmt.Fprintf(f.writer, "Hidden Messages: %d\n", attrs.HiddenMsgs)
	fmt.Fprintf(f.writer, "Total Sent:      %d\n", attrs.TotalSent)
	fmt.Fprintf(f.writer, "Total Received:  %d\n", attrs.TotalRecv)
	fmt.Fprintf(f.writer, "Created:         %s\n", formatUnix(attrs.Created))
	fmt.Fprintf(f.writer, "Modified:        %s\n", formatUnix(attrs.Modified))
	return nil
}

// FormatMessage outputs a received message.
func (f *Formatter) FormatMessage(msg *rsmq.Message) error {
	if f.format != OutputTable {
		return f.Format(msg)
	}

	table := f.Table()
	table.SetHeaders("ID", "RECEIVES", "SENT", "MESSAGE")
	table.WriteHeaders()
	body := msg.Message
	if len(body) > 50 {
		body = body[:47] + "..."
	}
	table.WriteRow(msg.ID, msg.RC, formatUnixMilli(msg.Sent), body)
	return table.Flush()
}

// FormatConfig outputs the CLI configuration.
func (f *Formatter) FormatConfig(path string, cfg *Config) error {
	if f.format != OutputTable {
		return f.Format(cfg)
	}

	fmt.Fprintf(f.writer, "Config file: %s\n\n", path)
	fmt.Fprintf(f.writer, "Current context: %s\n\n", cfg.CurrentContext)
	fmt.Fprintln(f.writer, "Contexts:")
	return f.FormatContexts(cfg)
}

// FormatContexts outputs the configured contexts.
func (f *Formatter) FormatContexts(cfg *Config) error {
	if f.format != OutputTable {
		return f.Format(cfg.Contexts)
	}

	table := f.Table()
	table.SetHeaders("NAME", "ADDRESS", "DB", "NAMESPACE", "CURRENT")
	table.WriteHeaders()
	for _, name := range cfg.ListContexts() {
		ctx := cfg.Contexts[name]
		current := ""
		if name == cfg.CurrentContext {
			current = "*"
		}
		ns := ctx.Namespace
		if ns == "" {
			ns = rsmq.DefaultNamespace
		}
		table.WriteRow(name, fmt.Sprintf("%s:%d", ctx.Host, ctx.Port), ctx.DB, ns, current)
	}
	return table.Flush()
}

// VersionInfo contains client and server versions.
type VersionInfo struct {
	ClientVersion string `json:"client_version" yaml:"client_version"`
	ServerVersion string `json:"server_version,omitempty" yaml:"server_version,omitempty"`
}

// FormatVersion outputs version information.
func (f *Formatter) FormatVersion(info *VersionInfo) error {
	if f.format != OutputTable {
		return f.Format(info)
	}

	fmt.Fprintf(f.writer, "Client Version: %s\n", info.ClientVersion)
	if info.ServerVersion != "" {
		fmt.Fprintf(f.writer, "Redis Version:  %s\n", info.ServerVersion)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formatMaxSize renders a max message size, -1 meaning unlimited.
func formatMaxSize(size int64) string {
	if size == rsmq.UnlimitedMaxSize {
		return "unlimited"
	}
	return formatBytes(size)
}

// formatBytes formats a byte count as human-readable.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatUnix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

func formatUnixMilli(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// PrintError prints an error message to w.
func PrintError(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "Error: "+format+"\n", args...)
}

// PrintSuccess prints a success message.
func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "✓ "+format+"\n", args...)
}
