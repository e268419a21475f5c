package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Drives a running server the way a keyboard-wedge scanner would: every
// barcode is typed as timed key events followed by the terminator key.

var (
	baseURL string
	api     *apiClient
)

func main() {
	root := &cobra.Command{
		Use:   "scan-simulator",
		Short: "Simulate a barcode scanner against a running warehouse scan server",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			api = newAPIClient(baseURL, 30*time.Second)
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "base", "http://localhost:3000/api", "API base URL")

	root.AddCommand(
		operationsCmd(),
		sessionCmd(),
	)

	if err := root.Execute(); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func operationsCmd() *cobra.Command {
	var flow string

	cmd := &cobra.Command{
		Use:   "operations",
		Short: "List operations shown on the incoming or outgoing dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var ops []struct {
				Id          string `json:"id"`
				OperationId string `json:"operation_id"`
				Status      string `json:"status"`
			}
			if err := api.call("GET", "/operations?flow="+flow, nil, &ops); err != nil {
				return err
			}
			color.Cyan("%d %s operations", len(ops), flow)
			for _, op := range ops {
				fmt.Printf("  %-20s %-14s %s\n", op.OperationId, op.Id, op.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flow, "flow", "f", "incoming", "incoming or outgoing")
	return cmd
}

func sessionCmd() *cobra.Command {
	var (
		direction   string
		operationID string
		customerID  string
		pallet      string
		barcodes    []string
		terminator  string
		gap         time.Duration
		submit      bool
	)

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start a scan session, type barcodes into it and commit one log",
		Long: `Start a scan session, type the pallet and item barcodes as keystrokes,
then commit the selection as one log entry.

Examples:
  scan-simulator session --operation OP-1 --pallet PAL-9 -b B1,B2,B3
  scan-simulator session -d outgoing --customer C-7 -b B4,B5 --submit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			color.Cyan("Starting %s scan session", direction)
			var session struct {
				Id string `json:"id"`
			}
			err := api.call("POST", "/scan/sessions", map[string]string{
				"direction":    direction,
				"operation_id": operationID,
				"customer_id":  customerID,
			}, &session)
			if err != nil {
				return err
			}
			color.Green("Session %s", session.Id)
			sessionPath := "/scan/sessions/" + session.Id

			tokens := barcodes
			if pallet != "" {
				tokens = append([]string{pallet}, barcodes...)
			}

			start := time.Now()
			for _, token := range tokens {
				color.Yellow("Scanning %s", token)
				var res struct {
					Scans []struct {
						Kind  string `json:"kind"`
						Token string `json:"token"`
						Error string `json:"error"`
					} `json:"scans"`
				}
				if err := api.call("POST", sessionPath+"/keys", map[string]any{
					"events": typed(token, terminator, start, gap),
				}, &res); err != nil {
					return err
				}
				for _, s := range res.Scans {
					if s.Error != "" {
						color.Red("  %s -> %s (%s)", s.Token, s.Kind, s.Error)
						continue
					}
					fmt.Printf("  %s -> %s\n", s.Token, s.Kind)
				}
				// Pause longer than the key gap so the next barcode starts a new token.
				start = start.Add(time.Duration(len(token)+1)*gap + time.Second)
			}

			color.Yellow("Committing log")
			if err := api.call("POST", sessionPath+"/logs", nil, nil); err != nil {
				return err
			}

			if !submit {
				color.Green("Log committed; submit with POST %s%s/submit", baseURL, sessionPath)
				return nil
			}

			color.Yellow("Submitting session")
			var result struct {
				ItemCount int `json:"item_count"`
				Batches   int `json:"batches"`
			}
			if err := api.call("POST", sessionPath+"/submit", nil, &result); err != nil {
				return err
			}
			color.Green("Updated %d items in %d batches", result.ItemCount, result.Batches)
			return nil
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "incoming", "incoming or outgoing")
	cmd.Flags().StringVar(&operationID, "operation", "", "operation id (incoming)")
	cmd.Flags().StringVar(&customerID, "customer", "", "customer id (outgoing)")
	cmd.Flags().StringVar(&pallet, "pallet", "", "pallet barcode to scan first")
	cmd.Flags().StringSliceVarP(&barcodes, "barcodes", "b", nil, "item barcodes")
	cmd.Flags().StringVar(&terminator, "terminator", "Enter", "scanner terminator key")
	cmd.Flags().DurationVar(&gap, "gap", 10*time.Millisecond, "delay between typed keys")
	cmd.Flags().BoolVar(&submit, "submit", false, "submit the session after committing the log")
	return cmd
}
