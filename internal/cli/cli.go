// Package cli defines the storefront command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"micasa-storefront/internal/calendar"
	"micasa-storefront/internal/catalog"
	"micasa-storefront/internal/config"
	"micasa-storefront/internal/logging"
	"micasa-storefront/internal/server"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Mi Casa tour tickets and merchandise storefront",
		Long: `Serves the Mi Casa storefront: tour date booking, the merchandise cart
and checkout. The calendar and events subcommands inspect the event table.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd(), newCalendarCmd(catalog.Default, time.Now), newEventsCmd(catalog.Default))
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger := logging.New(cfg.Log)

			cat := catalog.Default()
			if err := cat.Validate(); err != nil {
				return fmt.Errorf("event table: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(cfg, logger, cat)
			if err != nil {
				return fmt.Errorf("building server: %w", err)
			}
			return srv.Run(ctx)
		},
	}
}

func newCalendarCmd(load func() *catalog.Catalog, now func() time.Time) *cobra.Command {
	var (
		eventID string
		year    int
		month   int
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print a month grid with bookable days",
		Long: `Print a month grid. Days with an event are shown as [d] and the selected
event's day as *d*. Without --year/--month the selected event's month is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := load()
			event, err := cat.Event(eventID)
			if err != nil {
				return err
			}

			m := calendar.ForEvent(event, cat, now())
			if year != 0 || month != 0 {
				if year < 1 || month < 1 || month > 12 {
					return fmt.Errorf("invalid month %d/%d", month, year)
				}
				m = calendar.Build(year, time.Month(month), event.ID, cat)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, m.Text())
			for _, d := range m.Available() {
				if e, ok := cat.EventOnDay(m.Year, m.Month, d.Number); ok {
					fmt.Fprintf(out, "%2d  %s (%s)\n", d.Number, e.Title, e.ID)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&eventID, "event", "", "Selected event id (defaults to the default event)")
	cmd.Flags().IntVar(&year, "year", 0, "Year to show")
	cmd.Flags().IntVar(&month, "month", 0, "Month to show (1-12)")
	return cmd
}

type eventRow struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

func newEventsCmd(load func() *catalog.Catalog) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the event table and check it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := load()
			out := cmd.OutOrStdout()

			rows := make([]eventRow, 0)
			for _, e := range cat.Events() {
				rows = append(rows, eventRow{ID: e.ID, Title: e.Title, Date: e.Date, Time: e.Time})
			}

			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rows); err != nil {
					return err
				}
			case "text":
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDATE\tTIME\tTITLE")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Date, r.Time, r.Title)
				}
				tw.Flush()
			default:
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", format)
			}

			if err := cat.Validate(); err != nil {
				return fmt.Errorf("event table is invalid: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
