package taxonomy

// Relation is an accepted congruence link between a leaf activity and a
// product/service code. Only the highest score computed for a pair is kept.
type Relation struct {
	ActivityCode string  `json:"activity_code" yaml:"activity_code"`
	ProductCode  string  `json:"product_code" yaml:"product_code"`
	Score        float64 `json:"matching_score" yaml:"matching_score"`
	Reason       string  `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Breakdown is not persisted.
	Breakdown Breakdown `json:"-" yaml:"-"`
}

// Key identifies the relation within the relation table.
func (r Relation) Key() RelationKey {
	return RelationKey{ActivityCode: r.ActivityCode, ProductCode: r.ProductCode}
}

// RelationKey is the unique key of a relation.
type RelationKey struct {
	ActivityCode string
	ProductCode  string
}

// Breakdown holds the component scores behind a composite score.
type Breakdown struct {
	Hierarchy float64
	Semantic  float64
	Unit      float64
}

// RelationFilter selects relations for listing.
// Zero values match everything; Limit <= 0 means no limit.
type RelationFilter struct {
	ActivityCode string
	ProductCode  string
	MinScore     float64
	Limit        int
}

// Matches reports whether r satisfies the filter, ignoring Limit.
func (f RelationFilter) Matches(r Relation) bool {
	if f.ActivityCode != "" && r.ActivityCode != f.ActivityCode {
		return false
	}
	if f.ProductCode != "" && r.ProductCode != f.ProductCode {
		return false
	}
	return r.Score >= f.MinScore
}
