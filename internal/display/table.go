package display

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/Smital-1903/docview-watchlist-truedata/internal/model"
	"github.com/Smital-1903/docview-watchlist-truedata/internal/watchlist"
)

// direction markers for the derived color hint.
const (
	markUp      = "▲"
	markDown    = "▼"
	markNeutral = " "
)

// TableWriter passively renders the live table view. It redraws on
// change notifications from the store, rate-limited by the refresh
// interval, and owns all derived display math (change, change percent).
type TableWriter struct {
	store   *watchlist.Store
	out     io.Writer
	logger  *slog.Logger
	refresh time.Duration
}

// NewTableWriter creates a renderer over the given store.
func NewTableWriter(store *watchlist.Store, out io.Writer, refresh time.Duration, logger *slog.Logger) *TableWriter {
	if logger == nil {
		logger = slog.Default()
	}

	return &TableWriter{
		store:   store,
		out:     out,
		logger:  logger,
		refresh: refresh,
	}
}

// Run blocks, redrawing the table whenever the store changes, until the
// context is canceled. At most one redraw per refresh interval.
func (w *TableWriter) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.refresh)
	defer ticker.Stop()

	dirty := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-w.store.Changes():
			dirty = true

		case <-ticker.C:
			if !dirty {
				continue
			}
			dirty = false
			if err := w.Render(); err != nil {
				w.logger.Warn("render failed", "error", err)
			}
		}
	}
}

// Render writes the current table once.
func (w *TableWriter) Render() error {
	quotes := w.store.Snapshot()

	if len(quotes) == 0 {
		_, err := fmt.Fprintln(w.out, "watchlist empty")
		return err
	}

	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tLTP\tCHG\tCHG%\tVOLUME\tTIME\t")

	for _, q := range quotes {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\t%s\t\n",
			q.Name,
			formatPrice(q.LTP),
			mark(q.Color),
			formatChange(q),
			formatChangePercent(q),
			q.Volume,
			q.Time,
		)
	}

	return tw.Flush()
}

func mark(c model.Color) string {
	switch c {
	case model.ColorUp:
		return markUp
	case model.ColorDown:
		return markDown
	default:
		return markNeutral
	}
}

// formatPrice renders a price string with two decimals, passing through
// anything that does not parse.
func formatPrice(s string) string {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatChange(q model.Quote) string {
	change, ok := q.Change()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%+.2f", change)
}

func formatChangePercent(q model.Quote) string {
	pct, ok := q.ChangePercent()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", pct)
}
