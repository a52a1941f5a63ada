// Package main implements the trackctl CLI for manual operations
// against the trackd daemon.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/trackd/internal/ledger"
	"github.com/fyrsmithlabs/trackd/internal/monitor"
)

var (
	// serverURL is the base URL for the trackd daemon
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trackctl",
	Short: "CLI for the trackd activity-tracking daemon",
	Long: `trackctl is a command-line interface for the trackd daemon.
It records activities, inspects stats, manages reminders, and opens a
terminal dashboard.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8742", "trackd daemon URL")
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(notifyTestCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(dashCmd)
}

// httpClient is shared by all commands.
var httpClient = &http.Client{Timeout: 10 * time.Second}

// getEnvelope performs a GET and decodes the response envelope.
func getEnvelope(path string) (map[string]json.RawMessage, error) {
	resp, err := httpClient.Get(serverURL + path)
	if err != nil {
		return nil, fmt.Errorf("cannot reach trackd at %s: %w", serverURL, err)
	}
	defer resp.Body.Close()
	return decodeEnvelope(resp)
}

// postEnvelope POSTs a JSON body and decodes the response envelope.
func postEnvelope(path string, body any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Post(serverURL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("cannot reach trackd at %s: %w", serverURL, err)
	}
	defer resp.Body.Close()
	return decodeEnvelope(resp)
}

func decodeEnvelope(resp *http.Response) (map[string]json.RawMessage, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected response: %s", raw)
	}

	var status string
	_ = json.Unmarshal(envelope["status"], &status)
	if status != "success" && status != "ok" {
		var message string
		_ = json.Unmarshal(envelope["message"], &message)
		if message == "" {
			message = resp.Status
		}
		return nil, fmt.Errorf("%s", message)
	}
	return envelope, nil
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check trackd daemon health",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := getEnvelope("/health"); err != nil {
			return err
		}
		fmt.Println("trackd is healthy")
		return nil
	},
}

var (
	addDate     string
	addCategory string
)

var addCmd = &cobra.Command{
	Use:   "add <activity> <minutes>",
	Short: "Record an activity",
	Long: `Record an activity in the ledger.

Examples:
  # 45 minutes of running, today
  trackctl add "Morning run" 45 --category Exercise

  # Backfill an earlier day
  trackctl add "Novel" 30 --category Reading --date 15-01-2024`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := addDate
		if date == "" {
			date = time.Now().Format(ledger.DateLayout)
		}

		form := url.Values{
			"date":     {date},
			"activity": {args[0]},
			"minutes":  {args[1]},
			"category": {addCategory},
		}
		resp, err := httpClient.Post(serverURL+"/add_entry",
			"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
		if err != nil {
			return fmt.Errorf("cannot reach trackd at %s: %w", serverURL, err)
		}
		defer resp.Body.Close()
		if _, err := decodeEnvelope(resp); err != nil {
			return err
		}

		fmt.Printf("Recorded %s min of %q on %s\n", args[1], args[0], date)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all ledger entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		envelope, err := getEnvelope("/get_all_data")
		if err != nil {
			return err
		}

		var entries []ledger.Entry
		if err := json.Unmarshal(envelope["data"], &entries); err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No entries recorded yet")
			return nil
		}

		fmt.Printf("%-12s %-30s %8s  %s\n", "DATE", "ACTIVITY", "MINUTES", "CATEGORY")
		for _, e := range entries {
			fmt.Printf("%-12s %-30s %8d  %s\n", e.Date, e.Activity, e.Minutes, e.Category)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		envelope, err := getEnvelope("/get_stats")
		if err != nil {
			return err
		}

		var stats ledger.Stats
		if err := json.Unmarshal(envelope["stats"], &stats); err != nil {
			return err
		}

		fmt.Printf("Entries:      %d\n", stats.TotalEntries)
		fmt.Printf("Total time:   %s\n", monitor.FormatMinutes(stats.TotalMinutes))
		fmt.Printf("Active days:  %d\n", stats.ActiveDays)
		if len(stats.Categories) > 0 {
			fmt.Println("\nBy category:")
			for _, c := range stats.Categories {
				fmt.Printf("  %-16s %8s  %s\n", c.Category,
					monitor.FormatMinutes(c.Minutes), monitor.FormatPercent(c.Percent))
			}
		}
		return nil
	},
}

var (
	remindMessage    string
	remindTime       string
	remindRecurrence string
	remindWeekday    int
	remindDate       string
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Manage reminders",
}

var remindListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		envelope, err := getEnvelope("/get_reminders")
		if err != nil {
			return err
		}

		var stored []struct {
			ID         string `json:"id"`
			Title      string `json:"title"`
			Time       string `json:"time"`
			Recurrence string `json:"recurrence"`
			Sent       bool   `json:"sent"`
		}
		if err := json.Unmarshal(envelope["reminders"], &stored); err != nil {
			return err
		}
		if len(stored) == 0 {
			fmt.Println("No reminders configured")
			return nil
		}

		fmt.Printf("%-36s %-20s %-7s %-8s %s\n", "ID", "TITLE", "TIME", "REPEAT", "STATE")
		for _, r := range stored {
			state := "pending"
			if r.Sent {
				state = "sent"
			}
			fmt.Printf("%-36s %-20s %-7s %-8s %s\n", r.ID, r.Title, r.Time, r.Recurrence, state)
		}
		return nil
	},
}

var remindAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a reminder",
	Long: `Create a reminder.

Examples:
  # Every day at 09:00
  trackctl remind add "Stand up" --time 09:00 --recurrence daily

  # Wednesdays at 18:00 (weekday 0=Monday .. 6=Sunday)
  trackctl remind add "Gym" --time 18:00 --recurrence weekly --weekday 2

  # One-shot
  trackctl remind add "Dentist" --time 14:00 --recurrence once --date 20-02-2026`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		envelope, err := postEnvelope("/save_reminder", map[string]any{
			"title":      args[0],
			"message":    remindMessage,
			"time":       remindTime,
			"recurrence": remindRecurrence,
			"weekday":    remindWeekday,
			"date":       remindDate,
		})
		if err != nil {
			return err
		}

		var saved struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(envelope["reminder"], &saved)
		fmt.Printf("Created reminder %s\n", saved.ID)
		return nil
	},
}

var remindRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := postEnvelope("/delete_reminder", map[string]any{"id": args[0]}); err != nil {
			return err
		}
		fmt.Println("Deleted")
		return nil
	},
}

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage to-do items",
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List to-do items",
	RunE: func(cmd *cobra.Command, args []string) error {
		envelope, err := getEnvelope("/get_todos")
		if err != nil {
			return err
		}

		var items []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
			Done bool   `json:"done"`
		}
		if err := json.Unmarshal(envelope["todos"], &items); err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Nothing to do")
			return nil
		}

		for _, item := range items {
			mark := " "
			if item.Done {
				mark = "x"
			}
			fmt.Printf("[%s] %-36s %s\n", mark, item.ID, item.Text)
		}
		return nil
	},
}

var todoAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a to-do item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := postEnvelope("/save_todo", map[string]any{"text": args[0]}); err != nil {
			return err
		}
		fmt.Println("Added")
		return nil
	},
}

var notifyTestCmd = &cobra.Command{
	Use:   "notify-test",
	Short: "Send a test desktop notification",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := postEnvelope("/trigger_test_notification", nil); err != nil {
			return err
		}
		fmt.Println("Test notification sent")
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <name>",
	Short: "Run a configured report script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		envelope, err := postEnvelope("/generate_report", map[string]any{"name": args[0]})
		if err != nil {
			return err
		}

		var result struct {
			Output string `json:"output"`
		}
		_ = json.Unmarshal(envelope["report"], &result)
		fmt.Print(result.Output)
		return nil
	},
}

var dashInterval time.Duration

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the terminal stats dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		model := monitor.NewModel(serverURL, dashInterval)
		p := tea.NewProgram(model, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "entry date (DD-MM-YYYY, default today)")
	addCmd.Flags().StringVar(&addCategory, "category", "", "entry category")
	_ = addCmd.MarkFlagRequired("category")

	remindCmd.AddCommand(remindListCmd)
	remindCmd.AddCommand(remindAddCmd)
	remindCmd.AddCommand(remindRmCmd)
	remindAddCmd.Flags().StringVar(&remindMessage, "message", "", "notification body")
	remindAddCmd.Flags().StringVar(&remindTime, "time", "", "time of day (HH:MM)")
	remindAddCmd.Flags().StringVar(&remindRecurrence, "recurrence", "daily", "once, daily, or weekly")
	remindAddCmd.Flags().IntVar(&remindWeekday, "weekday", 0, "weekday for weekly reminders (0=Monday .. 6=Sunday)")
	remindAddCmd.Flags().StringVar(&remindDate, "date", "", "date for one-shot reminders (DD-MM-YYYY)")
	_ = remindAddCmd.MarkFlagRequired("time")

	todoCmd.AddCommand(todoListCmd)
	todoCmd.AddCommand(todoAddCmd)

	dashCmd.Flags().DurationVar(&dashInterval, "interval", 5*time.Second, "dashboard refresh interval")
}
