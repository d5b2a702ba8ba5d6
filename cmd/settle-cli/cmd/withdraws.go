package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List withdraw records by status",
	Run: func(cmd *cobra.Command, args []string) {
		body, err := get(fmt.Sprintf("%s/api/v1/withdraws?status=%s", serverAddr, listStatus))
		if err != nil {
			fmt.Printf("request failed: %v\n", err)
			os.Exit(1)
		}
		printJSON(body)
	},
}

var requeueCmd = &cobra.Command{
	Use:   "requeue <withdrawId>",
	Short: "Move a MANUAL_REVIEW withdrawal back to WAITING and re-dispatch it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Post(fmt.Sprintf("%s/api/v1/withdraws/%s/requeue", serverAddr, args[0]), "application/json", nil)
		if err != nil {
			fmt.Printf("request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		printJSON(body)
	},
}

func get(url string) ([]byte, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func printJSON(body []byte) {
	var buf map[string]interface{}
	if err := json.Unmarshal(body, &buf); err != nil {
		fmt.Println(string(body))
		return
	}
	pretty, _ := json.MarshalIndent(buf, "", "  ")
	fmt.Println(string(pretty))
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(requeueCmd)
	listCmd.Flags().StringVar(&listStatus, "status", "MANUAL_REVIEW", "status to filter on")
}
