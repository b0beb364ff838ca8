package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "finsync-cli",
		Short: "FinSync CLI tool",
		Long:  `A command line interface for the local FinSync API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8090", "Base URL of the local FinSync API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Force a replay of all pending offline changes",
		Run: func(cmd *cobra.Command, args []string) {
			forceSync()
		},
	}

	pendingCmd := &cobra.Command{
		Use:   "pending",
		Short: "Show pending offline changes per kind",
		Run: func(cmd *cobra.Command, args []string) {
			showPending()
		},
	}

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts",
		Run: func(cmd *cobra.Command, args []string) {
			listJSON("/api/v1/accounts")
		},
	}

	var accountID int64
	transactionsCmd := &cobra.Command{
		Use:   "transactions",
		Short: "List this month's transactions for an account",
		Run: func(cmd *cobra.Command, args []string) {
			listJSON(fmt.Sprintf("/api/v1/transactions?accountId=%d", accountID))
		},
	}
	transactionsCmd.Flags().Int64Var(&accountID, "account", 1, "Account id")

	rootCmd.AddCommand(syncCmd, pendingCmd, accountsCmd, transactionsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func forceSync() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/sync", "application/json", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Sync FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result struct {
		Remaining map[string]int `json:"remaining"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Sync completed")
	for kind, n := range result.Remaining {
		fmt.Printf("  %s: %d remaining\n", kind, n)
	}
}

func showPending() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/sync/pending")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result struct {
		Pending map[string]int `json:"pending"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for kind, n := range result.Pending {
		fmt.Printf("%s: %d pending\n", kind, n)
	}
}

func listJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(string(body))
		return
	}
	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}
