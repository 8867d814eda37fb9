// Package table converts engine results into rows for table output.
package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/satmap/pkg/materiality"
	"github.com/agentstation/satmap/pkg/namer"
	"github.com/agentstation/satmap/pkg/repair"
	"github.com/agentstation/satmap/pkg/rules"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// RelationsToTableData converts relations to table format. Wide tables
// add the reason and, for freshly scored relations, the weighted score
// components.
func RelationsToTableData(relations []taxonomy.Relation, wide bool) Data {
	headers := []string{"Activity", "Product", "Score"}
	align := []Align{AlignLeft, AlignLeft, AlignRight}
	scored := wide && hasBreakdown(relations)
	if scored {
		headers = append(headers, "Hierarchy", "Semantic", "Unit")
		align = append(align, AlignRight, AlignRight, AlignRight)
	}
	if wide {
		headers = append(headers, "Reason")
		align = append(align, AlignLeft)
	}

	rows := make([][]string, 0, len(relations))
	for _, r := range relations {
		row := []string{r.ActivityCode, r.ProductCode, FormatScore(r.Score)}
		if scored {
			b := r.Breakdown
			row = append(row, FormatScore(b.Hierarchy), FormatScore(b.Semantic), FormatScore(b.Unit))
		}
		if wide {
			row = append(row, Truncate(r.Reason, 80))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// Breakdowns are not persisted, so only relations scored in this run carry one.
func hasBreakdown(relations []taxonomy.Relation) bool {
	for _, r := range relations {
		if r.Breakdown != (taxonomy.Breakdown{}) {
			return true
		}
	}
	return false
}

// RepairResultsToTableData converts repair results to one row per taxonomy.
func RepairResultsToTableData(results ...*repair.Result) Data {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		rows = append(rows, []string{
			r.Taxonomy.String(),
			strconv.Itoa(r.Scanned),
			strconv.Itoa(r.Remapped),
			strconv.Itoa(r.Created),
			strconv.Itoa(r.Relevelled),
			strconv.Itoa(r.Skipped),
			FormatDuration(r.Duration),
		})
	}
	return Data{
		Headers:         []string{"Taxonomy", "Scanned", "Remapped", "Created", "Relevelled", "Skipped", "Duration"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight},
	}
}

// RenamesToTableData converts planned or applied renames to table format.
func RenamesToTableData(renames []taxonomy.Rename) Data {
	rows := make([][]string, 0, len(renames))
	for _, r := range renames {
		rows = append(rows, []string{r.Code, Truncate(r.From, 50), Truncate(r.To, 60)})
	}
	return Data{Headers: []string{"Code", "From", "To"}, Rows: rows}
}

// NamingResultToTableData converts a naming result to a key-value table.
func NamingResultToTableData(r *namer.Result) Data {
	return keyValues(
		"Nodes", strconv.Itoa(r.Nodes),
		"Renamed", strconv.Itoa(r.Renamed),
		"Skipped", strconv.Itoa(r.Skipped),
		"Dry Run", strconv.FormatBool(r.DryRun),
		"Duration", FormatDuration(r.Duration),
	)
}

// MatchResultToTableData converts a match result to a key-value table.
func MatchResultToTableData(r *materiality.Result) Data {
	return keyValues(
		"Activities", strconv.Itoa(r.Activities),
		"Products", strconv.Itoa(r.Products),
		"Scored", strconv.Itoa(r.Candidates),
		"Pruned", strconv.Itoa(r.Pruned),
		"Accepted", strconv.Itoa(r.Accepted),
		"Rejected", strconv.Itoa(r.Rejected),
		"Unmatched", strconv.Itoa(r.Unmatched),
		"Skipped", strconv.Itoa(r.Skipped),
		"Cleared", strconv.FormatBool(r.Cleared),
		"Dry Run", strconv.FormatBool(r.DryRun),
		"Duration", FormatDuration(r.Duration),
	)
}

// RulesToTableData converts a rule set to table format.
func RulesToTableData(rs *rules.RuleSet) Data {
	rows := make([][]string, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		families := strings.Join(r.Families, ", ")
		if families == "" {
			families = "-"
		}
		rows = append(rows, []string{r.ActivityPrefix, r.Sector, strings.Join(r.AllowedDivisions, ", "), families})
	}
	return Data{Headers: []string{"Prefix", "Sector", "Divisions", "Families"}, Rows: rows}
}

func keyValues(kv ...string) Data {
	rows := make([][]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		rows = append(rows, []string{kv[i], kv[i+1]})
	}
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// FormatScore formats a composite score with four decimals.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 4, 64)
}

// FormatDuration rounds a duration for display.
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
