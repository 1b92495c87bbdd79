package main

import (
	"fmt"
	"os"

	"github.com/aretw0/qtext/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "qtext",
	Short: "qtext is a rich-text toolbar formatting engine",
	Long: `qtext resolves and applies rich-text toolbar actions (inline styles, block types,
exclusive style groups, undo and redo) against documents, from a terminal, an HTTP API or an MCP agent.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("catalog", "", "Catalog file (YAML or JSON); the built-in catalog is used by default")
	flags.String("catalog-dir", "", "Directory of catalog fragments (Markdown front matter, JSON or YAML)")
	flags.StringSlice("disable", nil, "Toolbar actions to disable (repeatable or comma separated)")
	flags.Bool("read-only", false, "Only allow the preview toggle")
	flags.Bool("debug", false, "Enable debug logging on stderr")
	flags.String("redis", "", "Redis address for documents and locks (e.g. localhost:6379)")
	flags.String("session-dir", "", "Directory for file-backed documents")
	flags.Int("history-limit", 0, "Cap the undo and redo history (0 keeps the default of 100 undo steps)")
}

// optionsFromFlags reads the persistent flags. The encryption key comes from
// QTEXT_ENCRYPTION_KEY so it never shows up in process listings.
func optionsFromFlags(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	var opts cli.Options
	opts.CatalogPath, _ = flags.GetString("catalog")
	opts.CatalogDir, _ = flags.GetString("catalog-dir")
	opts.Disabled, _ = flags.GetStringSlice("disable")
	opts.ReadOnly, _ = flags.GetBool("read-only")
	opts.Debug, _ = flags.GetBool("debug")
	opts.RedisAddr, _ = flags.GetString("redis")
	opts.SessionDir, _ = flags.GetString("session-dir")
	opts.HistoryLimit, _ = flags.GetInt("history-limit")
	opts.EncryptionKey = os.Getenv("QTEXT_ENCRYPTION_KEY")
	return opts
}
