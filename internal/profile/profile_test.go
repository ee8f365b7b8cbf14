package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-recon/internal/catalog"
)

func TestParseWrappedAndBare(t *testing.T) {
	wrapped := []byte(`{
		"target_to_source": {"Art.märkning": "SupplierSku", "Artikelnamn": "NameCol", "Unknown": "x"},
		"options": {"strip_leading_zeros_from_sku": "ja", "ignore_rows_missing_sku": 0}
	}`)
	p, err := Parse(wrapped)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Art.märkning": "SupplierSku", "Artikelnamn": "NameCol"}, p.TargetToSource)
	assert.True(t, p.Options.StripLeadingZeros)
	assert.False(t, p.Options.IgnoreRowsMissingSKU)

	bare := []byte(`{"Art.märkning": "SupplierSku"}`)
	p, err = Parse(bare)
	require.NoError(t, err)
	assert.Equal(t, "SupplierSku", p.TargetToSource["Art.märkning"])
	assert.False(t, p.Options.StripLeadingZeros)
}

func TestHasRequiredSKUMapping(t *testing.T) {
	assert.True(t, Profile{TargetToSource: map[string]string{"Art.märkning": "SupplierSku"}}.HasRequiredSKUMapping())
	assert.False(t, Profile{TargetToSource: map[string]string{"Lev.artnr": "SupplierSku"}}.HasRequiredSKUMapping())
}

func TestMissingSourceColumns(t *testing.T) {
	p := Profile{TargetToSource: map[string]string{
		"Art.märkning": "SupplierSku",
		"Artikelnamn":  "NameCol",
	}}
	assert.Equal(t, []string{"NameCol"}, p.MissingSourceColumns([]string{"SupplierSku"}))
	assert.Empty(t, p.MissingSourceColumns([]string{"SupplierSku", "NameCol"}))
}

func TestMatchesOutputFormat(t *testing.T) {
	mapping := map[string]string{
		"Art.märkning": "SupplierSku",
		"Artikelnamn":  "NameCol",
	}
	assert.True(t, MatchesOutputFormat(mapping, []string{"Art.märkning", "Artikelnamn", "Leverantör"}))
	assert.False(t, MatchesOutputFormat(mapping, []string{"Art.märkning", "Artikelnamn"}))
}

func TestBuildRenamedCopyStripsLeadingZeros(t *testing.T) {
	p := Profile{
		TargetToSource: map[string]string{
			"Art.märkning": "SupplierSku",
			"Artikelnamn":  "NameCol",
		},
		Options: Options{StripLeadingZeros: true},
	}
	in := catalog.Table{
		Headers: []string{"SupplierSku", "NameCol"},
		Rows: []catalog.Row{
			{"SupplierSku": "00123", "NameCol": "P1"},
			{"SupplierSku": "00045", "NameCol": "P2"},
			{"SupplierSku": "A99", "NameCol": "P3"},
		},
	}
	out, err := p.BuildRenamedCopy(in, "EM Nordic")
	require.NoError(t, err)
	assert.Equal(t, []string{"Art.märkning", "Artikelnamn", "Leverantör"}, out.Headers)
	require.Len(t, out.Rows, 3)
	assert.Equal(t, "123", out.Rows[0]["Art.märkning"])
	assert.Equal(t, "45", out.Rows[1]["Art.märkning"])
	assert.Equal(t, "A99", out.Rows[2]["Art.märkning"])
	for _, row := range out.Rows {
		assert.Equal(t, "EM Nordic", row["Leverantör"])
	}
}

func TestBuildRenamedCopyIgnoresRowsMissingSKU(t *testing.T) {
	p := Profile{
		TargetToSource: map[string]string{
			"Art.märkning": "SupplierSku",
			"Artikelnamn":  "NameCol",
		},
		Options: Options{StripLeadingZeros: true, IgnoreRowsMissingSKU: true},
	}
	in := catalog.Table{
		Headers: []string{"SupplierSku", "NameCol"},
		Rows: []catalog.Row{
			{"SupplierSku": "00123", "NameCol": "P1"},
			{"SupplierSku": "", "NameCol": "P2"},
			{"SupplierSku": "   ", "NameCol": "P4"},
			{"SupplierSku": "0000", "NameCol": "P5"},
		},
	}
	out, err := p.BuildRenamedCopy(in, "EM Nordic")
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "123", out.Rows[0]["Art.märkning"])
	assert.Equal(t, "0", out.Rows[1]["Art.märkning"])
}

func TestBuildRenamedCopyErrors(t *testing.T) {
	noSKU := Profile{TargetToSource: map[string]string{"Artikelnamn": "NameCol"}}
	_, err := noSKU.BuildRenamedCopy(catalog.Table{Headers: []string{"NameCol"}}, "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Art.märkning")

	p := Profile{TargetToSource: map[string]string{
		"Art.märkning": "SupplierSku",
		"Artikelnamn":  "NameCol",
	}}
	_, err = p.BuildRenamedCopy(catalog.Table{Headers: []string{"SupplierSku"}}, "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NameCol")
}
