package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComputeToggleSets(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	t.Run("splits requested ids by existing favorites", func(t *testing.T) {
		existing := map[primitive.ObjectID]bool{b: true}

		toAdd, toRemove := ComputeToggleSets([]primitive.ObjectID{a, b, c}, existing)
		assert.ElementsMatch(t, []primitive.ObjectID{a, c}, toAdd)
		assert.ElementsMatch(t, []primitive.ObjectID{b}, toRemove)
	})

	t.Run("all new", func(t *testing.T) {
		toAdd, toRemove := ComputeToggleSets([]primitive.ObjectID{a, b}, map[primitive.ObjectID]bool{})
		assert.ElementsMatch(t, []primitive.ObjectID{a, b}, toAdd)
		assert.Empty(t, toRemove)
	})

	t.Run("all existing", func(t *testing.T) {
		existing := map[primitive.ObjectID]bool{a: true, b: true}

		toAdd, toRemove := ComputeToggleSets([]primitive.ObjectID{a, b}, existing)
		assert.Empty(t, toAdd)
		assert.ElementsMatch(t, []primitive.ObjectID{a, b}, toRemove)
	})

	t.Run("duplicates in the request toggle once", func(t *testing.T) {
		toAdd, toRemove := ComputeToggleSets([]primitive.ObjectID{a, a, a}, map[primitive.ObjectID]bool{})
		assert.Equal(t, []primitive.ObjectID{a}, toAdd)
		assert.Empty(t, toRemove)
	})

	t.Run("applying the toggle twice restores the original state", func(t *testing.T) {
		requested := []primitive.ObjectID{a, b, c}
		existing := map[primitive.ObjectID]bool{b: true}

		toAdd, toRemove := ComputeToggleSets(requested, existing)

		after := make(map[primitive.ObjectID]bool)
		for id, favorite := range existing {
			after[id] = favorite
		}
		for _, id := range toAdd {
			after[id] = true
		}
		for _, id := range toRemove {
			delete(after, id)
		}

		secondAdd, secondRemove := ComputeToggleSets(requested, after)
		assert.ElementsMatch(t, toAdd, secondRemove)
		assert.ElementsMatch(t, toRemove, secondAdd)
	})

	t.Run("empty request", func(t *testing.T) {
		toAdd, toRemove := ComputeToggleSets(nil, map[primitive.ObjectID]bool{a: true})
		assert.Empty(t, toAdd)
		assert.Empty(t, toRemove)
	})
}
