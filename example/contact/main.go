package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slotagent",
	Short: "Collect contact details through a conversation",
	Long: `slotagent asks the questions of a field schema one at a time, validates
each reply with an LLM, extracts answers and finishes with a review of the
collected information.`,
	SilenceUsage: true,
}

var (
	configPath string
	logFile    string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotating file instead of stderr")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(schemaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
