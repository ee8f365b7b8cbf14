package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGroupsKeepsRawSKUGroupsAndOrder(t *testing.T) {
	tab := Table{
		Headers: []string{"sku", "name", "qty"},
		Rows: []Row{
			{"sku": "007", "name": "Bond", "qty": "1"},
			{"sku": "7", "name": "Seven", "qty": "2"},
			{"sku": " 007 ", "name": "Bond again", "qty": "3"},
		},
	}
	m := BuildGroups(tab, SourceStorefront, DefaultStorefrontMapping)

	// raw keys stay separate even though "007" and "7" normalize equal
	require.Equal(t, []string{"007", "7"}, m.Keys())
	require.Len(t, m.Get("007"), 2)
	assert.Equal(t, "Bond", m.Get("007")[0].Name)
	assert.Equal(t, "Bond again", m.Get("007")[1].Name)
	assert.Equal(t, SourceStorefront, m.Get("7")[0].Source)
	assert.Equal(t, "2", m.Get("7")[0].Stock)
}

func TestBuildGroupsPrimaryDerivesStockWhenBothColumnsMapped(t *testing.T) {
	tab := Table{
		Headers: []string{"Art.märkning", "Artikelnamn", "I lager", "Totalt lager", "Reserverade", "Leverantör"},
		Rows: []Row{
			{"Art.märkning": "111", "Artikelnamn": "Lamp", "I lager": "99", "Totalt lager": "12", "Reserverade": "2", "Leverantör": "EM Nordic"},
			{"Art.märkning": "222", "Artikelnamn": "Cord", "I lager": "4", "Totalt lager": "", "Reserverade": "1"},
		},
	}
	m := BuildGroups(tab, SourcePrimary, DefaultPrimaryMapping)

	assert.Equal(t, "10", m.Get("111")[0].Stock)
	assert.Equal(t, "EM Nordic", m.Get("111")[0].Supplier)
	// no total: derived stock degrades to empty, never to the plain column
	assert.Equal(t, "", m.Get("222")[0].Stock)
}

func TestBuildGroupsPrimaryWithoutDerivedColumnsNormalizesPlainStock(t *testing.T) {
	tab := Table{
		Headers: []string{"Art.märkning", "Artikelnamn", "I lager"},
		Rows: []Row{
			{"Art.märkning": "111", "Artikelnamn": "Lamp", "I lager": " 5,00 "},
		},
	}
	cols := ColumnMapping{SKU: "Art.märkning", Name: "Artikelnamn", Stock: "I lager"}
	m := BuildGroups(tab, SourcePrimary, cols)
	assert.Equal(t, "5", m.Get("111")[0].Stock)
}

func TestFindSupplierIDColumn(t *testing.T) {
	col, err := FindSupplierIDColumn([]string{"Name", "ean", "UPC"})
	require.NoError(t, err)
	assert.Equal(t, "ean", col) // EAN wins by priority, original casing returned

	col, err = FindSupplierIDColumn([]string{"Name", "art.märkning"})
	require.NoError(t, err)
	assert.Equal(t, "art.märkning", col)

	_, err = FindSupplierIDColumn([]string{"Name", "Price"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EAN or UPC or Art.Märkning")
}

func TestBuildSupplierGroups(t *testing.T) {
	tab := Table{
		Headers: []string{"EAN", "Price"},
		Rows: []Row{
			{"EAN": "00123", "Price": "10"},
			{"EAN": "", "Price": "11"},
			{"EAN": "NaN", "Price": "12"},
			{"EAN": "  456 ", "Price": "13"},
		},
	}
	m, err := BuildSupplierGroups(tab)
	require.NoError(t, err)
	assert.Equal(t, []string{"00123", "456"}, m.Keys())
	p := m.Get("00123")[0]
	assert.Equal(t, SourceSupplier, p.Source)
	assert.Empty(t, p.Name)
	assert.Empty(t, p.Stock)
	assert.Empty(t, p.Supplier)
}

func TestBuildSupplierGroupsMissingIDColumn(t *testing.T) {
	_, err := BuildSupplierGroups(Table{Headers: []string{"Price"}})
	require.Error(t, err)
}
