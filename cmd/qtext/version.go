package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/qtext"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of qtext",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("qtext version %s\n", strings.TrimSpace(qtext.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
