package main

import (
	"context"
	"os"

	"github.com/aretw0/qtext/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Edit a document interactively",
	Long: `Starts an editing session in the terminal. Type text, move the selection and
dispatch toolbar actions; "help" lists the commands. With --session the document
is stored and resumed on the next run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{Options: optionsFromFlags(cmd)}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.Text, _ = cmd.Flags().GetString("text")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.Run(sigCtx, opts, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session ID to persist and resume")
	runCmd.Flags().Bool("fresh", false, "Discard the stored document before starting")
	runCmd.Flags().String("text", "", "Initial text of a new document, one block per line")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
