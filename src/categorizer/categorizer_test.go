package categorizer

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centimo-server/src/models"
)

func id(v int64) *int64 { return &v }

func TestCategorizeFirstMatchWins(t *testing.T) {
	c := New([]Rule{
		{CategoryID: 1, Keywords: []string{"mercadona"}},
		{CategoryID: 2, Keywords: []string{"mercadona", "lidl"}},
	}, nil)

	got, ok := c.Categorize("MERCADONA VALENCIA", "", decimal.NewFromInt(10), false)
	require.True(t, ok)
	assert.Equal(t, int64(1), got)
}

func TestCategorizeMatchesDescriptionToo(t *testing.T) {
	c := New([]Rule{{CategoryID: 3, Keywords: []string{"netflix"}}}, nil)

	got, ok := c.Categorize("", "Recibo NETFLIX.COM agosto", decimal.NewFromInt(13), false)
	require.True(t, ok)
	assert.Equal(t, int64(3), got)
}

func TestCategorizeIncomeNeverCategorized(t *testing.T) {
	c := New([]Rule{{CategoryID: 1, Keywords: []string{"nomina"}}}, id(9))

	_, ok := c.Categorize("NOMINA EMPRESA", "nomina", decimal.NewFromInt(1500), true)
	assert.False(t, ok)
}

func TestCategorizeFallback(t *testing.T) {
	c := New(nil, id(7))

	got, ok := c.Categorize("COMERCIO DESCONOCIDO", "", decimal.NewFromInt(5), false)
	require.True(t, ok)
	assert.Equal(t, int64(7), got)
}

func TestCategorizeNoFallbackSkips(t *testing.T) {
	c := New(nil, nil)

	_, ok := c.Categorize("COMERCIO DESCONOCIDO", "", decimal.NewFromInt(5), false)
	assert.False(t, ok)
}

func TestCategorizeIgnoresEmptyKeywords(t *testing.T) {
	c := New([]Rule{{CategoryID: 1, Keywords: []string{""}}}, nil)

	_, ok := c.Categorize("cualquier cosa", "cualquier cosa", decimal.NewFromInt(5), false)
	assert.False(t, ok)
}

func keywords(t *testing.T, words ...string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(words)
	require.NoError(t, err)
	return raw
}

func TestBuildRulesStoredBeforeStock(t *testing.T) {
	categories := []models.Category{
		{ID: 1, Name: "Supermercado", IsActive: true},
		{ID: 2, Name: "Capricho", IsActive: true},
	}
	stored := []models.CategoryRule{
		{ID: 10, CategoryID: 2, Priority: 1, Keywords: keywords(t, "mercadona")},
	}

	rules, _ := BuildRules(stored, categories)
	require.NotEmpty(t, rules)

	// The user's rule outranks the stock Supermercado group for the same keyword.
	c := New(rules, nil)
	got, ok := c.Categorize("MERCADONA", "", decimal.NewFromInt(20), false)
	require.True(t, ok)
	assert.Equal(t, int64(2), got)
}

func TestBuildRulesPriorityOrder(t *testing.T) {
	categories := []models.Category{{ID: 1, Name: "A", IsActive: true}, {ID: 2, Name: "B", IsActive: true}}
	stored := []models.CategoryRule{
		{ID: 20, CategoryID: 2, Priority: 5, Keywords: keywords(t, "gimnasio")},
		{ID: 21, CategoryID: 1, Priority: 1, Keywords: keywords(t, "gimnasio")},
	}

	rules, _ := BuildRules(stored, categories)
	require.Len(t, rules, 2)
	assert.Equal(t, int64(1), rules[0].CategoryID)
	assert.Equal(t, int64(2), rules[1].CategoryID)
}

func TestBuildRulesSkipsBrokenKeywords(t *testing.T) {
	categories := []models.Category{{ID: 1, Name: "A", IsActive: true}}
	stored := []models.CategoryRule{
		{ID: 30, CategoryID: 1, Priority: 1, Keywords: json.RawMessage(`{"not":"an array"}`)},
		{ID: 31, CategoryID: 1, Priority: 2, Keywords: keywords(t)},
		{ID: 32, CategoryID: 1, Priority: 3, Keywords: keywords(t, "valido")},
	}

	rules, _ := BuildRules(stored, categories)
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"valido"}, rules[0].Keywords)
}

func TestBuildRulesResolvesStockTable(t *testing.T) {
	categories := []models.Category{
		{ID: 4, Name: "Transporte", IsActive: true},
		{ID: 5, Name: "Otros", IsActive: true},
		{ID: 6, Name: "Inactiva", IsActive: false},
	}

	rules, fallback := BuildRules(nil, categories)
	require.Len(t, rules, 1)
	assert.Equal(t, int64(4), rules[0].CategoryID)
	assert.Contains(t, rules[0].Keywords, "renfe")

	require.NotNil(t, fallback)
	assert.Equal(t, int64(5), *fallback)
}

func TestBuildRulesIgnoresInactiveCategories(t *testing.T) {
	categories := []models.Category{{ID: 9, Name: "Otros", IsActive: false}}

	rules, fallback := BuildRules(nil, categories)
	assert.Empty(t, rules)
	assert.Nil(t, fallback)
}

func TestBuildRulesDedupesCategories(t *testing.T) {
	// Duplicate (name, emoji) rows resolve to the lowest id.
	categories := []models.Category{
		{ID: 12, Name: "Otros", IsActive: true},
		{ID: 3, Name: "Otros", IsActive: true},
	}

	_, fallback := BuildRules(nil, categories)
	require.NotNil(t, fallback)
	assert.Equal(t, int64(3), *fallback)
}
