// Command burrow is the CLI for the embeddable key-value store: it can
// generate a config file and self-signed certificate, run the server, and
// act as a thin client against a running one.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/burrow/pkg/log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "burrow",
	Short: "burrow is an embeddable, network-accessible key-value store",
	Long: `burrow is a single-binary key-value store: an embedded on-disk
tree store exposed over gRPC, with optional pub/sub fan-out, bearer-token
auth, and plaintext, TLS, or Unix Domain Socket transports.`,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "config.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(clientCmd)
}

func initLogging() {
	debug, _ := rootCmd.PersistentFlags().GetBool("debug")
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	log.Init(log.Config{Level: level})
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
