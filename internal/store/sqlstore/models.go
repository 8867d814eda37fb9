package sqlstore

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/agentstation/satmap/pkg/constants"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

type activityRow struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Code        string         `gorm:"column:code;uniqueIndex;not null"`
	Name        string         `gorm:"column:name"`
	Description string         `gorm:"column:description"`
	Level       string         `gorm:"column:level;index"`
	ParentID    *uuid.UUID     `gorm:"column:parent_id;type:uuid;index"`
	Metadata    datatypes.JSON `gorm:"column:metadata"`
}

func (activityRow) TableName() string { return constants.ActivitiesTable }

type productRow struct {
	Code        string         `gorm:"column:code;primaryKey"`
	Name        string         `gorm:"column:name"`
	Level       string         `gorm:"column:level;index"`
	ParentCode  *string        `gorm:"column:parent_code;index"`
	Description string         `gorm:"column:description"`
	Metadata    datatypes.JSON `gorm:"column:metadata"`
}

func (productRow) TableName() string { return constants.ProductsTable }

type relationRow struct {
	ActivityCode  string  `gorm:"column:activity_code;primaryKey"`
	ProductCode   string  `gorm:"column:product_code;primaryKey;index"`
	MatchingScore float64 `gorm:"column:matching_score;not null"`
	Reason        string  `gorm:"column:reason"`
}

func (relationRow) TableName() string { return constants.RelationsTable }

func activityFromRow(r activityRow) taxonomy.Activity {
	return taxonomy.Activity{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Level:       taxonomy.ActivityLevel(r.Level),
		ParentID:    r.ParentID,
		Metadata:    decodeMetadata(r.Metadata),
	}
}

func activityToRow(a taxonomy.Activity) activityRow {
	id := a.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return activityRow{
		ID:          id,
		Code:        a.Code,
		Name:        a.Name,
		Description: a.Description,
		Level:       a.Level.String(),
		ParentID:    a.ParentID,
		Metadata:    encodeMetadata(a.Metadata),
	}
}

func productFromRow(r productRow) taxonomy.Product {
	p := taxonomy.Product{
		Code:        r.Code,
		Name:        r.Name,
		Level:       taxonomy.ProductLevel(r.Level),
		Description: r.Description,
		Metadata:    decodeMetadata(r.Metadata),
	}
	if r.ParentCode != nil {
		p.ParentCode = *r.ParentCode
	}
	return p
}

func productToRow(p taxonomy.Product) productRow {
	return productRow{
		Code:        p.Code,
		Name:        p.Name,
		Level:       p.Level.String(),
		ParentCode:  nullable(p.ParentCode),
		Description: p.Description,
		Metadata:    encodeMetadata(p.Metadata),
	}
}

func relationFromRow(r relationRow) taxonomy.Relation {
	return taxonomy.Relation{
		ActivityCode: r.ActivityCode,
		ProductCode:  r.ProductCode,
		Score:        r.MatchingScore,
		Reason:       r.Reason,
	}
}

func relationToRow(r taxonomy.Relation) relationRow {
	return relationRow{
		ActivityCode:  r.ActivityCode,
		ProductCode:   r.ProductCode,
		MatchingScore: r.Score,
		Reason:        r.Reason,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Metadata is opaque to the engine; malformed documents decode to nil.
func decodeMetadata(raw datatypes.JSON) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func encodeMetadata(m map[string]any) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
