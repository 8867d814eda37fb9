package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/agentstation/satmap/pkg/taxonomy"
)

func TestBatches(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Nil(t, Batches([]int{}, 2))
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Batches(items, 2))
	assert.Equal(t, [][]int{{1, 2, 3, 4, 5}}, Batches(items, 5))
	assert.Equal(t, [][]int{{1, 2, 3, 4, 5}}, Batches(items, 0))
	assert.Len(t, Batches(make([]int, 1001), 500), 3)
}

func TestParentOf(t *testing.T) {
	assert.Equal(t, uuid.Nil, ParentOf(taxonomy.ActivityUpdate{}))
	id := uuid.New()
	assert.Equal(t, id, ParentOf(taxonomy.ActivityUpdate{ParentID: &id}))
}
