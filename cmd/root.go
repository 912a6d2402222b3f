package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/hKV/cmd/document"
	"github.com/ValentinKolb/hKV/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "hkv",
		Short: "hierarchical key-value repository",
		Long: fmt.Sprintf(`hKV (v%s)

Reads, edits, merges and queries json and yaml documents as hierarchical
key-value repositories. Nested keys are addressed by dotted paths, e.g. db.port.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of hKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hKV v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(document.Commands...)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupDocumentFlags(RootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
