package notifier

import (
	"fmt"
	"sort"
	"strings"

	"StockWatch/internal/model"
	"StockWatch/internal/store"
	"StockWatch/internal/watchlist"
)

// FormatSnapshot renders one stored snapshot, one field per line.
func FormatSnapshot(snap *model.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stock: %s", strings.ToUpper(snap.Symbol))
	for _, col := range store.Columns(snap) {
		b.WriteString("\n  - " + col)
	}
	if len(snap.Missing) > 0 {
		fmt.Fprintf(&b, "\n  (not found: %s)", strings.Join(snap.Missing, ", "))
	}
	return b.String()
}

// FormatList renders the watchlist symbols in upper case.
func FormatList(symbols []string) string {
	if len(symbols) == 0 {
		return "The watchlist is empty."
	}
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = strings.ToUpper(s)
	}
	return strings.Join(out, "\n")
}

// FormatUpdateSummary renders the outcome of a batch refresh.
func FormatUpdateSummary(sum *watchlist.UpdateSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Updated %d stock(s)", len(sum.Updated))
	if len(sum.Updated) > 0 {
		up := make([]string, len(sum.Updated))
		for i, s := range sum.Updated {
			up[i] = strings.ToUpper(s)
		}
		b.WriteString(": " + strings.Join(up, ", "))
	}
	if len(sum.Failed) > 0 {
		failed := make([]string, 0, len(sum.Failed))
		for s := range sum.Failed {
			failed = append(failed, s)
		}
		sort.Strings(failed)
		fmt.Fprintf(&b, "\nFailed %d:", len(failed))
		for _, s := range failed {
			fmt.Fprintf(&b, "\n  - %s: %v", strings.ToUpper(s), sum.Failed[s])
		}
	}
	return b.String()
}
