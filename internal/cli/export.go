package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"focustrack/internal/domain"
	"focustrack/internal/ports"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions as CSV or JSON",
	Long: `Export the session ledger to a file or stdout.

Examples:
  focustrack export --format csv --output sessions.csv
  focustrack export --format json --from 2026-08-01
  focustrack export > sessions.csv`,
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
	exportFrom   string
	exportTo     string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv or json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Earliest day to include (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Latest day to include (YYYY-MM-DD)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	var filter ports.SessionFilter
	if filter.StartDate, err = parseDayFlag("from", exportFrom); err != nil {
		return err
	}
	if filter.EndDate, err = parseDayFlag("to", exportTo); err != nil {
		return err
	}

	sessions, err := app.SessionRepo.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	out := io.Writer(os.Stdout)
	if exportOutput != "" {
		file, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOutput, err)
		}
		defer func() { _ = file.Close() }()
		out = file
	}

	switch exportFormat {
	case "csv":
		err = writeCSV(out, sessions)
	case "json":
		err = writeJSON(out, sessions)
	default:
		return fmt.Errorf("unknown format %q: expected csv or json", exportFormat)
	}
	if err != nil {
		return err
	}

	if exportOutput != "" {
		fmt.Printf("Exported %d session(s) to %s\n", len(sessions), exportOutput)
	}
	return nil
}

func writeCSV(out io.Writer, sessions []domain.Session) error {
	w := csv.NewWriter(out)
	header := []string{"id", "start_time", "end_time", "duration_minutes", "task_name",
		"completed", "interruptions", "focus_score", "tags", "notes"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, session := range sessions {
		notes := ""
		if session.Notes != nil {
			notes = *session.Notes
		}
		record := []string{
			strconv.FormatInt(session.ID, 10),
			session.StartTime.Format("2006-01-02 15:04:05"),
			session.EndTime.Format("2006-01-02 15:04:05"),
			strconv.FormatInt(session.Duration/60, 10),
			session.TaskName,
			strconv.FormatBool(session.Completed),
			strconv.FormatInt(session.Interruptions, 10),
			strconv.FormatFloat(session.FocusScore, 'f', 1, 64),
			strings.Join(session.Tags, ";"),
			notes,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// exportedSession is the JSON export shape; timestamps are RFC 3339 so the
// output round-trips through other tools without a custom layout.
type exportedSession struct {
	ID            int64    `json:"id"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	DurationMin   int64    `json:"duration_minutes"`
	TaskName      string   `json:"task_name"`
	Completed     bool     `json:"completed"`
	Interruptions int64    `json:"interruptions"`
	FocusScore    float64  `json:"focus_score"`
	Tags          []string `json:"tags,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func writeJSON(out io.Writer, sessions []domain.Session) error {
	exported := make([]exportedSession, 0, len(sessions))
	for _, session := range sessions {
		exported = append(exported, exportedSession{
			ID:            session.ID,
			StartTime:     session.StartTime.Format(time.RFC3339),
			EndTime:       session.EndTime.Format(time.RFC3339),
			DurationMin:   session.Duration / 60,
			TaskName:      session.TaskName,
			Completed:     session.Completed,
			Interruptions: session.Interruptions,
			FocusScore:    session.FocusScore,
			Tags:          session.Tags,
			Notes:         session.Notes,
		})
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(exported); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
