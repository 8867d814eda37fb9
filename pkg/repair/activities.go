package repair

import (
	"sort"

	"github.com/google/uuid"

	"github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

// ActivityPlan is the set of writes that reconciles the activity hierarchy.
type ActivityPlan struct {
	// Synthetic sectors to insert, before any update references them.
	Synthetic []taxonomy.Activity
	// Updates to parent and level, in processing order.
	Updates []taxonomy.ActivityUpdate

	Remapped   int
	Relevelled int
	// Skipped holds one CodeError per malformed or duplicate entity.
	Skipped []error
}

// activityNode is the mutable view of an activity during planning.
type activityNode struct {
	id     uuid.UUID
	code   string
	parent *uuid.UUID
	level  taxonomy.ActivityLevel
}

// PlanActivities computes the repair of an activity catalog without touching
// any store. Entities are processed shortest code first, ties by code, and
// each attaches to its longest existing proper prefix. An orphan with no
// existing prefix is attached to its 2-digit sector, which is synthesized
// once per run when absent.
func PlanActivities(activities []taxonomy.Activity) *ActivityPlan {
	plan := &ActivityPlan{}

	sorted := make([]taxonomy.Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].Code) != len(sorted[j].Code) {
			return len(sorted[i].Code) < len(sorted[j].Code)
		}
		return sorted[i].Code < sorted[j].Code
	})

	index := taxonomy.NewIndex[*activityNode](len(sorted))
	ids := make(map[uuid.UUID]struct{}, len(sorted))
	nodes := make([]*activityNode, 0, len(sorted))
	for _, a := range sorted {
		if err := taxonomy.ValidateActivityCode(a.Code); err != nil {
			plan.Skipped = append(plan.Skipped, err)
			continue
		}
		n := &activityNode{id: a.ID, code: a.Code, parent: a.ParentID, level: a.Level}
		if !index.Add(a.Code, n) {
			plan.Skipped = append(plan.Skipped,
				errors.NewCodeError(taxonomy.Activities.String(), a.Code, "duplicate code"))
			continue
		}
		ids[a.ID] = struct{}{}
		nodes = append(nodes, n)
	}

	// A parent reference that resolves to no known activity counts as absent.
	parented := func(n *activityNode) bool {
		if n.parent == nil || *n.parent == uuid.Nil {
			return false
		}
		_, ok := ids[*n.parent]
		return ok
	}

	for _, n := range nodes {
		parentChanged := false

		if _, best, found := index.FirstOf(taxonomy.ActivityPrefixes(n.code)); found {
			if n.parent == nil || *n.parent != best.id {
				n.parent = ptr(best.id)
				parentChanged = true
			}
		} else if len(n.code) > taxonomy.MinActivityPrefix && !parented(n) {
			sectorCode := taxonomy.SectorCode(n.code)
			sector, ok := index.Get(sectorCode)
			if !ok {
				synthetic := taxonomy.NewSyntheticSector(sectorCode)
				plan.Synthetic = append(plan.Synthetic, synthetic)
				sector = &activityNode{id: synthetic.ID, code: sectorCode, level: taxonomy.LevelSector}
				index.Add(sectorCode, sector)
				ids[synthetic.ID] = struct{}{}
			}
			n.parent = ptr(sector.id)
			parentChanged = true
		} else if len(n.code) == taxonomy.MinActivityPrefix && n.parent != nil {
			// Sectors are roots.
			n.parent = nil
			parentChanged = true
		}

		// Validated above, so the level always resolves.
		want, _ := taxonomy.ActivityLevelForCode(n.code)
		levelChanged := n.level != want
		n.level = want

		if parentChanged {
			plan.Remapped++
		}
		if levelChanged {
			plan.Relevelled++
		}
		if parentChanged || levelChanged {
			plan.Updates = append(plan.Updates, taxonomy.ActivityUpdate{
				ID:       n.id,
				Code:     n.code,
				ParentID: n.parent,
				Level:    want,
			})
		}
	}

	return plan
}

// Retarget points updates at the stored IDs of synthetic sectors whose
// insert lost to an existing row. planned holds the IDs Synthetic carried
// before insertion. It returns how many sectors were retargeted.
func (p *ActivityPlan) Retarget(planned []uuid.UUID) int {
	moved := make(map[uuid.UUID]uuid.UUID)
	for i, a := range p.Synthetic {
		if i < len(planned) && a.ID != planned[i] {
			moved[planned[i]] = a.ID
		}
	}
	if len(moved) == 0 {
		return 0
	}
	for i, u := range p.Updates {
		if u.ParentID == nil {
			continue
		}
		if id, ok := moved[*u.ParentID]; ok {
			p.Updates[i].ParentID = ptr(id)
		}
	}
	return len(moved)
}

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}
