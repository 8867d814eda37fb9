package materiality

import (
	"slices"
	"sort"

	"github.com/agentstation/satmap/pkg/taxonomy"
)

// DivisionIndex groups candidate products by their 2-digit division.
// It is built once per run and read concurrently by workers.
type DivisionIndex struct {
	divisions *taxonomy.Index[[]taxonomy.Product]
	size      int
	skipped   []error
}

// NewDivisionIndex indexes products, keeping only the given levels
// (all levels when none are given). Products with malformed codes are skipped.
func NewDivisionIndex(products []taxonomy.Product, levels ...taxonomy.ProductLevel) *DivisionIndex {
	groups := make(map[string][]taxonomy.Product)
	ix := &DivisionIndex{}
	for _, p := range products {
		if len(levels) > 0 && !slices.Contains(levels, p.Level) {
			continue
		}
		if err := taxonomy.ValidateProductCode(p.Code); err != nil {
			ix.skipped = append(ix.skipped, err)
			continue
		}
		groups[p.Division()] = append(groups[p.Division()], p)
		ix.size++
	}

	ix.divisions = taxonomy.NewIndex[[]taxonomy.Product](len(groups))
	for division, list := range groups {
		sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
		ix.divisions.Put(division, list)
	}
	return ix
}

// Len returns the number of indexed products.
func (ix *DivisionIndex) Len() int {
	return ix.size
}

// Skipped returns the errors of products left out of the index.
func (ix *DivisionIndex) Skipped() []error {
	return ix.skipped
}

// Divisions returns the indexed divisions, sorted.
func (ix *DivisionIndex) Divisions() []string {
	return ix.divisions.Codes()
}

// Candidates returns the products of the given divisions ordered by code.
func (ix *DivisionIndex) Candidates(divisions []string) []taxonomy.Product {
	divs := slices.Clone(divisions)
	slices.Sort(divs)
	divs = slices.Compact(divs)

	var out []taxonomy.Product
	for _, d := range divs {
		list, _ := ix.divisions.Get(d)
		out = append(out, list...)
	}
	return out
}
