package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeCategories(t *testing.T) {
	in := []Category{
		{ID: 5, Name: "Otros", Emoji: "📦"},
		{ID: 2, Name: "Otros", Emoji: "📦"},
		{ID: 3, Name: "Otros", Emoji: "❓"}, // different emoji, kept separately
		{ID: 4, Name: "Vivienda", Emoji: "🏠"},
	}

	out := DedupeCategories(in)
	assert.Len(t, out, 3)
	assert.Equal(t, int64(2), out[0].ID) // lowest id wins
	assert.Equal(t, int64(3), out[1].ID)
	assert.Equal(t, int64(4), out[2].ID)
}

func TestDedupeCategoriesEmpty(t *testing.T) {
	assert.Empty(t, DedupeCategories(nil))
}
