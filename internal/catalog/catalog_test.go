package catalog

import (
	"testing"

	"pickleshop/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackProducts(t *testing.T) {
	ps := Products()
	require.NotEmpty(t, ps)

	seen := map[string]bool{}
	for _, p := range ps {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.True(t, p.Category.Valid(), "product %s has category %q", p.ID, p.Category)
		assert.Positive(t, p.Price)
		assert.NotZero(t, p.NumericID)
	}

	// コピーなので書き換えても元は変わらない
	ps[0].Name = "changed"
	assert.NotEqual(t, "changed", Products()[0].Name)
}

func TestFind(t *testing.T) {
	p, ok := Find("1")
	require.True(t, ok)
	assert.Equal(t, "Selkirk Vanguard Power Air Invikta", p.Name)

	_, ok = Find("999")
	assert.False(t, ok)
}

func TestFilterByCategory(t *testing.T) {
	all := Products()
	assert.Len(t, FilterByCategory(all, ""), len(all))
	assert.Len(t, FilterByCategory(all, AllCategories), len(all))

	paddles := FilterByCategory(all, string(model.CategoryPaddles))
	require.NotEmpty(t, paddles)
	for _, p := range paddles {
		assert.Equal(t, model.CategoryPaddles, p.Category)
	}

	assert.Empty(t, FilterByCategory(all, "Unknown"))
}
