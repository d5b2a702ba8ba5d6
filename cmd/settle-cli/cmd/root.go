package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var serverAddr string

var rootCmd = &cobra.Command{
	Use:   "settle-cli",
	Short: "Operator tooling for the settlement core",
	Long: `settle-cli talks to the settle-server ops API.
It lists withdrawals parked for manual review and re-queues them after an
operator verified no funds moved.`,
}

// Execute adds all child commands to the root command and sets flags
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:8080", "settle-server base URL")
}
