package taxonomy

import (
	"fmt"

	"github.com/google/uuid"
)

// ActivityLevel is the depth of an economic activity, derived from its code length.
type ActivityLevel string

// Activity levels.
const (
	LevelSector    ActivityLevel = "SECTOR"    // 2 digits
	LevelSubsector ActivityLevel = "SUBSECTOR" // 3 digits
	LevelRama      ActivityLevel = "RAMA"      // 4 digits
	LevelSubrama   ActivityLevel = "SUBRAMA"   // 6 digits, leaf
)

// MinActivityPrefix is the shortest code that can act as a parent.
const MinActivityPrefix = 2

// SyntheticSectorDescription flags sectors created by the repair pass.
const SyntheticSectorDescription = "Nodo contenedor generado automáticamente para agrupar subramas huérfanas."

// String returns the string representation of the level.
func (l ActivityLevel) String() string {
	return string(l)
}

// IsLeaf reports whether the level is the most granular one.
func (l ActivityLevel) IsLeaf() bool {
	return l == LevelSubrama
}

// Activity is an entry of the economic activity catalog.
type Activity struct {
	ID          uuid.UUID      `json:"id" yaml:"id"`
	Code        string         `json:"code" yaml:"code"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Level       ActivityLevel  `json:"level" yaml:"level"`
	ParentID    *uuid.UUID     `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// HasParent reports whether the activity references a parent.
func (a Activity) HasParent() bool {
	return a.ParentID != nil && *a.ParentID != uuid.Nil
}

// Text returns the name and description joined by a single space,
// the text compared against product names when matching.
func (a Activity) Text() string {
	if a.Description == "" {
		return a.Name + " "
	}
	return a.Name + " " + a.Description
}

// ActivityLevelForCode returns the level implied by the code length.
func ActivityLevelForCode(code string) (ActivityLevel, error) {
	if !isDigits(code) {
		return "", codeError(Activities, code, "code must contain only digits")
	}
	switch len(code) {
	case 2:
		return LevelSector, nil
	case 3:
		return LevelSubsector, nil
	case 4:
		return LevelRama, nil
	case 6:
		return LevelSubrama, nil
	}
	return "", codeError(Activities, code, fmt.Sprintf("length %d has no level", len(code)))
}

// ValidateActivityCode checks that code is a well-formed activity code.
func ValidateActivityCode(code string) error {
	_, err := ActivityLevelForCode(code)
	return err
}

// ActivityPrefixes returns the candidate parent codes of code, longest
// first, from len(code)-1 down to MinActivityPrefix. The order is the
// tie-break used by the repair pass: the first existing prefix wins.
func ActivityPrefixes(code string) []string {
	if len(code) <= MinActivityPrefix {
		return nil
	}
	prefixes := make([]string, 0, len(code)-MinActivityPrefix)
	for n := len(code) - 1; n >= MinActivityPrefix; n-- {
		prefixes = append(prefixes, code[:n])
	}
	return prefixes
}

// SectorCode returns the 2-digit sector prefix of an activity code.
func SectorCode(code string) string {
	if len(code) < MinActivityPrefix {
		return code
	}
	return code[:MinActivityPrefix]
}

// SyntheticSectorName is the placeholder name given to a generated sector.
func SyntheticSectorName(code string) string {
	return fmt.Sprintf("SECTOR GENERADO (%s)", code)
}

// NewSyntheticSector builds the sector node created for an orphaned prefix.
func NewSyntheticSector(code string) Activity {
	return Activity{
		ID:          uuid.New(),
		Code:        code,
		Name:        SyntheticSectorName(code),
		Description: SyntheticSectorDescription,
		Level:       LevelSector,
	}
}

// ActivityUpdate is a parent/level correction for one activity.
type ActivityUpdate struct {
	ID       uuid.UUID     `json:"id" yaml:"id"`
	Code     string        `json:"code" yaml:"code"`
	ParentID *uuid.UUID    `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Level    ActivityLevel `json:"level" yaml:"level"`
}
