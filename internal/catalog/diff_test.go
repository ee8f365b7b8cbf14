package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapOf(source Source, products ...Product) *ProductMap {
	m := NewProductMap()
	for _, p := range products {
		p.Source = source
		m.Add(p)
	}
	return m
}

func TestDiffByNormalizedKey(t *testing.T) {
	primary := mapOf(SourcePrimary,
		Product{SKU: "00123", Name: "Lamp", Stock: "5"},
		Product{SKU: "555", Name: "Cord", Stock: "1"},
	)
	storefront := mapOf(SourceStorefront,
		Product{SKU: "123", Name: "Lamp", Stock: "5"},
		Product{SKU: "999", Name: "Plug", Stock: "2"},
	)

	onlyP, onlyS := DiffByNormalizedKey(primary, storefront)

	// outputs carry the raw key of their own side
	assert.Equal(t, []string{"555"}, onlyP.Keys())
	assert.Equal(t, []string{"999"}, onlyS.Keys())
	assert.Equal(t, "Cord", onlyP.Get("555")[0].Name)
}

func TestDiffByNormalizedKeyDropsNoKey(t *testing.T) {
	a := mapOf(SourcePrimary,
		Product{SKU: "007"}, Product{SKU: "7"}, Product{SKU: "42"}, Product{SKU: "x"},
	)
	b := mapOf(SourceStorefront, Product{SKU: "0007"}, Product{SKU: "42"})

	onlyA, _ := DiffByNormalizedKey(a, b)

	bNorm := normalizedKeySet(b)
	for _, raw := range a.Keys() {
		_, shared := bNorm[NormalizeKey(raw)]
		if shared {
			assert.False(t, onlyA.Has(raw), "shared key %q must not be reported as only-in-left", raw)
		} else {
			assert.True(t, onlyA.Has(raw), "unshared key %q must be reported", raw)
		}
	}
}

func TestNormalizedGroupsMergesRawGroups(t *testing.T) {
	m := mapOf(SourcePrimary,
		Product{SKU: "007", Name: "a"},
		Product{SKU: "7", Name: "b"},
		Product{SKU: "8", Name: "c"},
	)
	n := NormalizedGroups(m)
	require.Equal(t, []string{"7", "8"}, n.Keys())
	require.Len(t, n.Get("7"), 2)
	assert.Equal(t, "a", n.Get("7")[0].Name)
	assert.Equal(t, "b", n.Get("7")[1].Name)
}

func TestFieldMismatches(t *testing.T) {
	primary := mapOf(SourcePrimary,
		Product{SKU: "00123", Name: "Lamp", Stock: "5"},
		Product{SKU: "42", Name: "Plug", Stock: "1"},
		Product{SKU: "555", Name: "Cord", Stock: "9"},
	)
	storefront := mapOf(SourceStorefront,
		Product{SKU: "123", Name: "Lamp", Stock: "4"},
		Product{SKU: "42", Name: "Plug", Stock: "1"},
	)

	mm, err := FieldMismatches(primary, storefront, FieldStock)
	require.NoError(t, err)

	require.Equal(t, []string{"123"}, mm.Keys())
	assert.Equal(t, "00123", mm["123"].Primary[0].SKU)
	assert.Equal(t, "123", mm["123"].Storefront[0].SKU)

	// key set is a subset of the normalized-key intersection
	sNorm := normalizedKeySet(storefront)
	pNorm := normalizedKeySet(primary)
	for k := range mm {
		_, inP := pNorm[k]
		_, inS := sNorm[k]
		assert.True(t, inP && inS, "mismatch key %q must be shared", k)
	}
}

func TestFieldMismatchesComparesDistinctValueSets(t *testing.T) {
	// duplicates on one side are fine as long as the value SETS agree
	primary := mapOf(SourcePrimary,
		Product{SKU: "1", Stock: "5"},
		Product{SKU: "01", Stock: "5"},
	)
	storefront := mapOf(SourceStorefront, Product{SKU: "1", Stock: "5"})

	mm, err := FieldMismatches(primary, storefront, FieldStock)
	require.NoError(t, err)
	assert.Empty(t, mm)
}

func TestFieldMismatchesRejectsUnknownField(t *testing.T) {
	_, err := FieldMismatches(NewProductMap(), NewProductMap(), Field("price"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"name"`)
	assert.Contains(t, err.Error(), `"stock"`)
}

func TestAuditHelpers(t *testing.T) {
	m := mapOf(SourcePrimary,
		Product{SKU: "1", Name: "a", Stock: "1"},
		Product{SKU: "1", Name: "b", Stock: ""},
		Product{SKU: "2", Name: "", Stock: "3"},
	)

	assert.Equal(t, 3, CountProducts(m))

	dup := DuplicateSKUs(m)
	assert.Equal(t, []string{"1"}, dup.Keys())

	empty, err := EmptyFieldRows(m, FieldName)
	require.NoError(t, err)
	require.Len(t, empty, 1)
	assert.Equal(t, "2", empty[0].SKU)

	empty, err = EmptyFieldRows(m, FieldStock)
	require.NoError(t, err)
	require.Len(t, empty, 1)
	assert.Equal(t, "b", empty[0].Name)

	_, err = EmptyFieldRows(m, Field("supplier"))
	require.Error(t, err)
}
