package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/qtext/internal/cli"
	"github.com/aretw0/qtext/pkg/adapters/loam"
	"github.com/aretw0/qtext/pkg/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and print the style catalog",
	Long: `Loads the catalog selected by --catalog or --catalog-dir, validates it and prints it as JSON.
With --default the built-in catalog source is printed instead, as a starting point for a custom one.
With --watch and --catalog-dir the directory is re-validated on every change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFromFlags(cmd)
		printDefault, _ := cmd.Flags().GetBool("default")
		watch, _ := cmd.Flags().GetBool("watch")

		if printDefault {
			_, err := os.Stdout.Write(catalog.DefaultYAML())
			return err
		}

		logger := cli.NewLogger(opts.Debug)
		tb, err := cli.NewToolbar(opts, logger, cli.DebugHooks(logger))
		if err != nil {
			printValidation(err)
			return err
		}

		if !watch {
			data, err := json.MarshalIndent(tb.Catalog(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if opts.CatalogDir == "" {
			return errors.New("--watch needs --catalog-dir")
		}
		loader, err := loam.Open(opts.CatalogDir)
		if err != nil {
			return err
		}
		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		changes, err := loader.Watch(sigCtx)
		if err != nil {
			return err
		}
		fmt.Printf(">>> Watching '%s' (%d tools).\n", opts.CatalogDir, len(tb.Catalog().Tools()))
		for id := range changes {
			c, err := loader.LoadCatalog(sigCtx)
			if err != nil {
				fmt.Printf(">>> '%s' changed: catalog invalid\n", id)
				printValidation(err)
				continue
			}
			fmt.Printf(">>> '%s' changed: catalog valid (%d tools)\n", id, len(c.Tools()))
		}
		return nil
	},
}

func printValidation(err error) {
	for _, verr := range catalog.ValidationErrors(err) {
		fmt.Fprintf(os.Stderr, "  - %v\n", verr)
	}
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().Bool("default", false, "Print the built-in catalog source")
	catalogCmd.Flags().BoolP("watch", "w", false, "Re-validate a catalog directory on change")
}
