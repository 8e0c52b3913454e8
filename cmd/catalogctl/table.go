// AngelaMos | 2026
// table.go

package main

import (
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/carterperez-dev/templates/catalog-admin/internal/audit"
)

func renderTable(w io.Writer, headers []string, rows [][]any) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(headers))
	for _, h := range headers {
		header = append(header, h)
	}
	t.AppendHeader(header)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	t.Render()
}

func renderEntries(w io.Writer, entries []audit.Entry) {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		product := "-"
		if e.ProductID != nil {
			product = *e.ProductID
		}
		rows = append(rows, []any{
			e.ID,
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Action,
			e.UserEmail,
			product,
		})
	}
	renderTable(w, []string{"ID", "Timestamp", "Action", "User", "Product"}, rows)
}

// renderSummary prints counts by action and by user, largest first.
func renderSummary(w io.Writer, s *audit.Summary) {
	renderTable(w, []string{"Action", "Count"}, countRows(s.ByAction))
	renderTable(w, []string{"User", "Count"}, countRows(s.ByUser))
	renderTable(w, []string{"Total"}, [][]any{{s.Total}})
}

func countRows(counts map[string]int) [][]any {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] == counts[keys[j]] {
			return keys[i] < keys[j]
		}
		return counts[keys[i]] > counts[keys[j]]
	})

	rows := make([][]any, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []any{k, counts[k]})
	}
	return rows
}
