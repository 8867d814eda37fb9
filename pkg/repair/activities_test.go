package repair

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

func activity(code string, level taxonomy.ActivityLevel) taxonomy.Activity {
	return taxonomy.Activity{ID: uuid.New(), Code: code, Name: "actividad " + code, Level: level}
}

func TestPlanActivitiesSharesOneSyntheticSector(t *testing.T) {
	plan := PlanActivities([]taxonomy.Activity{
		activity("100001", taxonomy.LevelSubrama),
		activity("100000", taxonomy.LevelSubrama),
	})

	require.Len(t, plan.Synthetic, 1)
	sector := plan.Synthetic[0]
	assert.Equal(t, "10", sector.Code)
	assert.Equal(t, "SECTOR GENERADO (10)", sector.Name)
	assert.Equal(t, taxonomy.LevelSector, sector.Level)
	assert.Equal(t, taxonomy.SyntheticSectorDescription, sector.Description)

	require.Len(t, plan.Updates, 2)
	assert.Equal(t, "100000", plan.Updates[0].Code)
	assert.Equal(t, "100001", plan.Updates[1].Code)
	for _, u := range plan.Updates {
		require.NotNil(t, u.ParentID)
		assert.Equal(t, sector.ID, *u.ParentID)
	}
	assert.Equal(t, 2, plan.Remapped)
	assert.Zero(t, plan.Relevelled)
}

func TestPlanActivitiesLongestPrefixWins(t *testing.T) {
	sector := activity("56", taxonomy.LevelSector)
	rama := activity("5617", taxonomy.LevelRama)
	leafUnderRama := activity("561710", taxonomy.LevelSubrama)
	leafUnderSector := activity("561090", taxonomy.LevelSubrama)

	plan := PlanActivities([]taxonomy.Activity{leafUnderRama, leafUnderSector, rama, sector})

	assert.Empty(t, plan.Synthetic)
	parents := map[string]uuid.UUID{}
	for _, u := range plan.Updates {
		require.NotNil(t, u.ParentID)
		parents[u.Code] = *u.ParentID
	}
	assert.Equal(t, sector.ID, parents["5617"])
	assert.Equal(t, rama.ID, parents["561710"])
	// No 5610 or 561 exists, so the grandparent sector is used.
	assert.Equal(t, sector.ID, parents["561090"])
	assert.Equal(t, 3, plan.Remapped)
}

func TestPlanActivitiesKeepsCorrectParents(t *testing.T) {
	sector := activity("56", taxonomy.LevelSector)
	leaf := activity("561090", taxonomy.LevelSubrama)
	leaf.ParentID = &sector.ID

	plan := PlanActivities([]taxonomy.Activity{sector, leaf})
	assert.Empty(t, plan.Updates)
	assert.Empty(t, plan.Synthetic)
}

func TestPlanActivitiesDanglingParentIsOrphan(t *testing.T) {
	leaf := activity("311110", taxonomy.LevelSubrama)
	missing := uuid.New()
	leaf.ParentID = &missing

	plan := PlanActivities([]taxonomy.Activity{leaf})
	require.Len(t, plan.Synthetic, 1)
	assert.Equal(t, "31", plan.Synthetic[0].Code)
	require.Len(t, plan.Updates, 1)
	assert.Equal(t, plan.Synthetic[0].ID, *plan.Updates[0].ParentID)
}

func TestPlanActivitiesRelevelsAndRootsSectors(t *testing.T) {
	sector := activity("56", taxonomy.LevelSubsector)
	stray := uuid.New()
	sector.ParentID = &stray
	rama := activity("5617", taxonomy.LevelRama)
	rama.ParentID = &sector.ID

	plan := PlanActivities([]taxonomy.Activity{sector, rama})

	require.Len(t, plan.Updates, 1)
	u := plan.Updates[0]
	assert.Equal(t, "56", u.Code)
	assert.Nil(t, u.ParentID)
	assert.Equal(t, taxonomy.LevelSector, u.Level)
	assert.Equal(t, 1, plan.Relevelled)
	assert.Equal(t, 1, plan.Remapped)
}

func TestPlanActivitiesSkipsMalformedCodes(t *testing.T) {
	first := activity("561090", taxonomy.LevelSubrama)
	plan := PlanActivities([]taxonomy.Activity{
		activity("12345", taxonomy.LevelSubrama),
		activity("5A", taxonomy.LevelSector),
		first,
		activity("561090", taxonomy.LevelSubrama),
	})

	require.Len(t, plan.Skipped, 3)
	for _, err := range plan.Skipped {
		assert.True(t, errors.IsInvalidCode(err), err.Error())
	}
	require.Len(t, plan.Synthetic, 1)
	assert.Equal(t, "56", plan.Synthetic[0].Code)
	require.Len(t, plan.Updates, 1)
}

func TestPlanActivitiesSectorOnly(t *testing.T) {
	plan := PlanActivities([]taxonomy.Activity{activity("56", taxonomy.LevelSector)})
	assert.Empty(t, plan.Synthetic)
	assert.Empty(t, plan.Updates)
	assert.Empty(t, plan.Skipped)
}

func TestActivityPlanRetarget(t *testing.T) {
	plan := PlanActivities([]taxonomy.Activity{
		activity("100000", taxonomy.LevelSubrama),
		activity("561090", taxonomy.LevelSubrama),
	})
	require.Len(t, plan.Synthetic, 2)
	planned := []uuid.UUID{plan.Synthetic[0].ID, plan.Synthetic[1].ID}

	assert.Zero(t, plan.Retarget(planned))

	stored := uuid.New()
	plan.Synthetic[0].ID = stored
	assert.Equal(t, 1, plan.Retarget(planned))
	for _, u := range plan.Updates {
		require.NotNil(t, u.ParentID, u.Code)
		switch u.Code {
		case "100000":
			assert.Equal(t, stored, *u.ParentID)
		case "561090":
			assert.Equal(t, planned[1], *u.ParentID)
		}
	}
}
