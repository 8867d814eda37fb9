package repair

import (
	"sort"

	"github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

// ProductPlan is the set of writes that reconciles the product hierarchy.
type ProductPlan struct {
	// Synthetic ancestors to insert, root first, one per code.
	Synthetic []taxonomy.Product
	// Updates for existing products whose stored level or parent is wrong.
	Updates []taxonomy.ProductUpdate

	Remapped   int
	Relevelled int
	Skipped    []error
}

// PlanProducts computes the repair of a product catalog without touching
// any store. Level and parent follow from the fixed 8-digit scheme; every
// missing strict ancestor is queued once, with its own correct parent.
// Only products whose stored level or parent differ are updated, so a
// second pass over a repaired catalog plans nothing.
func PlanProducts(products []taxonomy.Product) *ProductPlan {
	plan := &ProductPlan{}

	sorted := make([]taxonomy.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	type entry struct {
		product  taxonomy.Product
		position taxonomy.ProductPosition
	}

	known := taxonomy.NewIndex[struct{}](len(sorted))
	entries := make([]entry, 0, len(sorted))
	for _, p := range sorted {
		pos, err := taxonomy.ClassifyProduct(p.Code)
		if err != nil {
			plan.Skipped = append(plan.Skipped, err)
			continue
		}
		if !known.Add(p.Code, struct{}{}) {
			plan.Skipped = append(plan.Skipped,
				errors.NewCodeError(taxonomy.Products.String(), p.Code, "duplicate code"))
			continue
		}
		entries = append(entries, entry{product: p, position: pos})
	}

	for _, e := range entries {
		for _, ancestor := range e.position.Ancestors {
			if known.Has(ancestor) {
				continue
			}
			// Ancestors of a valid code are valid codes.
			apos, _ := taxonomy.ClassifyProduct(ancestor)
			plan.Synthetic = append(plan.Synthetic, taxonomy.Product{
				Code:       ancestor,
				Name:       taxonomy.SyntheticProductName(apos.Level, ancestor),
				Level:      apos.Level,
				ParentCode: apos.Parent,
			})
			known.Add(ancestor, struct{}{})
		}

		p := e.product
		levelChanged := p.Level != e.position.Level
		parentChanged := p.ParentCode != e.position.Parent
		if levelChanged {
			plan.Relevelled++
		}
		if parentChanged {
			plan.Remapped++
		}
		if levelChanged || parentChanged {
			plan.Updates = append(plan.Updates, taxonomy.ProductUpdate{
				Code:       p.Code,
				Level:      e.position.Level,
				ParentCode: e.position.Parent,
			})
		}
	}

	return plan
}
