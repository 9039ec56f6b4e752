package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL  string
	timeout  time.Duration
	approver string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "backoffice-cli",
		Short: "Back-office CLI tool",
		Long:  `A command line interface for the broker back-office API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the back-office API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&approver, "approver", "", "Operator ID recorded on review actions")

	rootCmd.AddCommand(reviewCommand("deposits"))
	rootCmd.AddCommand(reviewCommand("withdrawals"))

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run a reconciliation pass and print the report",
		Run: func(cmd *cobra.Command, args []string) {
			runReconciliation()
		},
	}
	rootCmd.AddCommand(reconcileCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// reviewCommand builds the list/approve/reject command tree shared by
// deposits and withdrawals.
func reviewCommand(kind string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind,
		Short: fmt.Sprintf("Review %s requests", kind),
	}

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s requests", kind),
		Run: func(cmd *cobra.Command, args []string) {
			listRequests(kind, status)
		},
	}
	listCmd.Flags().StringVar(&status, "status", "PENDING", "Filter by status")
	cmd.AddCommand(listCmd)

	approveCmd := &cobra.Command{
		Use:   "approve <request-id>",
		Short: fmt.Sprintf("Approve a pending %s request", kind[:len(kind)-1]),
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			reviewRequest(kind, args[0], "approve", "")
		},
	}
	cmd.AddCommand(approveCmd)

	var reason string
	rejectCmd := &cobra.Command{
		Use:   "reject <request-id>",
		Short: fmt.Sprintf("Reject a pending %s request", kind[:len(kind)-1]),
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			reviewRequest(kind, args[0], "reject", reason)
		},
	}
	rejectCmd.Flags().StringVar(&reason, "reason", "", "Rejection reason shown to the client")
	cmd.AddCommand(rejectCmd)

	return cmd
}

func listRequests(kind, status string) {
	body, err := doRequest(http.MethodGet, fmt.Sprintf("%s/api/v1/%s?status=%s", baseURL, kind, status), nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var requests []map[string]any
	if err := json.Unmarshal(body, &requests); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-28s %-12s %-12s %-6s %-10s\n", "ID", "USER", "AMOUNT", "CCY", "STATUS")
	for _, r := range requests {
		fmt.Printf("%-28s %-12s %-12v %-6s %-10s\n",
			truncate(str(r["id"]), 28),
			truncate(str(r["user_id"]), 12),
			r["amount"],
			str(r["currency"]),
			str(r["status"]),
		)
	}
}

func reviewRequest(kind, id, action, reason string) {
	if approver == "" {
		fmt.Println("--approver is required for review actions")
		os.Exit(1)
	}

	var payload []byte
	if action == "reject" {
		if reason == "" {
			fmt.Println("--reason is required when rejecting")
			os.Exit(1)
		}
		payload, _ = json.Marshal(map[string]string{"reason": reason})
	}

	body, err := doRequest(http.MethodPatch, fmt.Sprintf("%s/api/v1/%s/%s/%s", baseURL, kind, id, action), payload)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}

func runReconciliation() {
	body, err := doRequest(http.MethodPost, baseURL+"/api/v1/reconciliation", nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}

func doRequest(method, url string, payload []byte) ([]byte, error) {
	client := &http.Client{Timeout: timeout}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if approver != "" {
		req.Header.Set("X-Approver-ID", approver)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
