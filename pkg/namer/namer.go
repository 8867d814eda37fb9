// Package namer gives descriptive names to DIVISION and GROUP product nodes,
// replacing the placeholders left by the repair pass. Naming is cosmetic.
package namer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/satmap/pkg/constants"
	"github.com/agentstation/satmap/pkg/logging"
	"github.com/agentstation/satmap/pkg/store"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

const (
	unidentifiedDivision = "División No Identificada - "
	fallbackCategory     = "Categoría"
	// minBaseLength is the shortest class-derived base accepted before
	// trying the second child.
	minBaseLength = 5
)

// Plan derives new names for the given DIVISION and GROUP nodes. Classes
// provide the wording for groups; they are grouped by parent and ordered by
// code, so the "first child" is the one with the lowest code. Only names
// that actually change are returned, ordered by node code. Nodes with a
// malformed code are left as they are and reported in skipped.
func Plan(nodes, classes []taxonomy.Product) (renames []taxonomy.Rename, skipped []error) {
	children := make(map[string][]taxonomy.Product)
	for _, c := range classes {
		if c.Level != taxonomy.LevelClass || c.ParentCode == "" {
			continue
		}
		children[c.ParentCode] = append(children[c.ParentCode], c)
	}
	for parent := range children {
		kids := children[parent]
		sort.Slice(kids, func(i, j int) bool { return kids[i].Code < kids[j].Code })
	}

	sorted := make([]taxonomy.Product, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	for _, node := range sorted {
		if node.Level != taxonomy.LevelDivision && node.Level != taxonomy.LevelGroup {
			continue
		}
		if err := taxonomy.ValidateProductCode(node.Code); err != nil {
			skipped = append(skipped, err)
			continue
		}
		var name string
		switch node.Level {
		case taxonomy.LevelDivision:
			name = divisionLabel(node)
		case taxonomy.LevelGroup:
			name = groupLabel(node, children[node.Code])
		default:
			continue
		}
		name = normalize(name)
		if name != node.Name {
			renames = append(renames, taxonomy.Rename{Code: node.Code, From: node.Name, To: name})
		}
	}
	return renames, skipped
}

// Split separates a catalog into namable nodes and classes.
func Split(products []taxonomy.Product) (nodes, classes []taxonomy.Product) {
	for _, p := range products {
		switch p.Level {
		case taxonomy.LevelDivision, taxonomy.LevelGroup:
			nodes = append(nodes, p)
		case taxonomy.LevelClass:
			classes = append(classes, p)
		}
	}
	return nodes, classes
}

func divisionLabel(node taxonomy.Product) string {
	division := node.Division()
	if name, ok := DivisionName(division); ok {
		return fmt.Sprintf("%s (División %s)", name, division)
	}
	placeholder := taxonomy.SyntheticProductName(taxonomy.LevelDivision, "")
	if strings.HasPrefix(node.Name, placeholder) {
		return unidentifiedDivision + strings.TrimPrefix(node.Name, placeholder)
	}
	return node.Name
}

func groupLabel(node taxonomy.Product, classes []taxonomy.Product) string {
	if len(classes) == 0 {
		division, ok := DivisionName(node.Division())
		if !ok {
			division = fallbackCategory
		}
		return fmt.Sprintf("%s - Subgrupo %s", division, node.Code[2:4])
	}

	base := baseName(classes[0].Name)
	if utf8.RuneCountInString(base) < minBaseLength && len(classes) > 1 {
		base = baseName(classes[1].Name)
	}
	return fmt.Sprintf("%s y relacionados (Grupo %s)", base, node.Code[:4])
}

// baseName cuts a class name at its first '/', '(' or ','.
func baseName(name string) string {
	if i := strings.IndexAny(name, "/(,"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

type options struct {
	dryRun    bool
	batchSize int
}

// Option configures a Namer.
type Option func(*options)

// WithDryRun plans renames without writing them.
func WithDryRun(enabled bool) Option {
	return func(o *options) { o.dryRun = enabled }
}

// WithBatchSize sets how many renames are written per transaction.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// Namer applies planned renames to a product store.
type Namer struct {
	store   store.ProductStore
	options options
}

// New creates a Namer.
func New(st store.ProductStore, opts ...Option) *Namer {
	o := options{batchSize: constants.RenameBatchSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Namer{store: st, options: o}
}

// Result reports a naming pass.
type Result struct {
	Nodes    int               `json:"nodes" yaml:"nodes"`
	Renamed  int               `json:"renamed" yaml:"renamed"`
	Skipped  int               `json:"skipped" yaml:"skipped"`
	Renames  []taxonomy.Rename `json:"renames,omitempty" yaml:"renames,omitempty"`
	DryRun   bool              `json:"dry_run" yaml:"dry_run"`
	Duration time.Duration     `json:"duration" yaml:"duration"`
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	summary := fmt.Sprintf("Renamed %d of %d nodes", r.Renamed, r.Nodes)
	if r.DryRun {
		summary = fmt.Sprintf("Dry run: %d of %d nodes would be renamed", r.Renamed, r.Nodes)
	}
	if r.Skipped > 0 {
		summary += fmt.Sprintf(" (%d malformed skipped)", r.Skipped)
	}
	return summary
}

// Apply names every DIVISION and GROUP node in the store.
func (n *Namer) Apply(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)
	result := &Result{DryRun: n.options.dryRun}
	defer func() { result.Duration = time.Since(start) }()

	products, err := n.store.Products(ctx)
	if err != nil {
		return result, err
	}
	nodes, classes := Split(products)
	renames, skipped := Plan(nodes, classes)
	result.Nodes = len(nodes)
	result.Renamed = len(renames)
	result.Renames = renames
	result.Skipped = len(skipped)
	for _, err := range skipped {
		logger.Warn().Err(err).Msg("skipping node")
	}

	logger.Info().Int("nodes", len(nodes)).Int("renames", len(renames)).Msg("naming taxonomy nodes")
	if n.options.dryRun {
		return result, nil
	}
	for _, batch := range store.Batches(renames, n.options.batchSize) {
		if err := n.store.RenameProducts(ctx, batch); err != nil {
			return result, err
		}
	}
	return result, nil
}
