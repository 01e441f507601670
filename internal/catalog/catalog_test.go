package catalog

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load("", testLogger())
	require.NoError(t, err)
	assert.Equal(t, 8, c.Len())

	entry, ok := c.Entry("ICICI Prudential Life Insurance")
	require.True(t, ok)
	assert.NotEmpty(t, entry.Products)
	assert.Empty(t, entry.Plans)

	entry, ok = c.Entry("Kotak Life Insurance")
	require.True(t, ok)
	assert.Empty(t, entry.Products)
	assert.NotEmpty(t, entry.Plans)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/catalog.yaml", testLogger())
	assert.Error(t, err)
}

func TestEntryCSRPrefersShortField(t *testing.T) {
	e := Entry{ClaimSettlementRatio: 95.3, CSRNote: "98.59% (2023-24)"}
	assert.Equal(t, "98.59% (2023-24)", e.CSR())

	e = Entry{ClaimSettlementRatio: 95.3}
	assert.Equal(t, 95.3, e.CSR())
}

func TestOffersForTypedSchema(t *testing.T) {
	e := Entry{Products: []Product{
		{Name: "Term Plan", Type: "term", Coverage: "Death benefit"},
		{Name: "Savings Plan", Type: "savings"},
	}}

	offers := OffersFor("Acme Life", e, "term")
	require.Len(t, offers, 1)
	assert.Equal(t, "Term Plan", offers[0].Name)
	assert.Equal(t, "term", offers[0].Type)
	assert.Equal(t, "Acme Life", offers[0].Insurer)
}

func TestOffersForBarePlansKeywordInference(t *testing.T) {
	e := Entry{
		Plans:    []string{"Acme Term Shield", "Acme ULIP", "Acme Combo Plan"},
		Coverage: map[string]any{"sum_assured": "paid on death"},
	}

	offers := OffersFor("Acme Life", e, "term")
	require.Len(t, offers, 1)
	assert.Equal(t, "Acme Term Shield", offers[0].Name)
	// Inferred offers adopt the requested category as their type.
	assert.Equal(t, "term", offers[0].Type)
}

func TestOffersForBarePlansHealthSynonyms(t *testing.T) {
	e := Entry{Plans: []string{"Optima Secure", "General Insurance"}}

	offers := OffersFor("Acme Health", e, "health")
	require.Len(t, offers, 1)
	assert.Equal(t, "Optima Secure", offers[0].Name)
}

// Entries with no keyword signal fall back to every plan belonging to the
// requested category, so untyped insurers are never silently excluded.
func TestOffersForBarePlansNoKeywordSignal(t *testing.T) {
	e := Entry{Plans: []string{"Acme ULIP", "Acme Combo Plan"}}

	offers := OffersFor("Acme Life", e, "health")
	assert.Len(t, offers, 2)
}

func TestParseCSR(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected float64
	}{
		{name: "percent in free text", input: "High persistency, ~88.1% renewals", expected: 88.1},
		{name: "percent with trailing note", input: "98.59% (2023-24)", expected: 98.59},
		{name: "numeric value", input: 95.30, expected: 95.30},
		{name: "approx without percent", input: "~88.1", expected: 88.1},
		{name: "plain numeric string", input: "95.3", expected: 95.3},
		{name: "not available", input: "N/A", expected: 0},
		{name: "nil", input: nil, expected: 0},
		{name: "prose without figures", input: "claim ratio not explicitly stated", expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, ParseCSR(tc.input), 0.0001)
		})
	}
}

func TestFactSentences(t *testing.T) {
	c, err := Load("", testLogger())
	require.NoError(t, err)

	facts := c.FactSentences()
	require.Len(t, facts, c.Len())
	assert.Contains(t, facts[0], "offers insurance")
	// Typed-schema insurers surface their product names as plans.
	var icici string
	for _, f := range facts {
		if len(f) > 0 && f[0] == 'I' {
			icici = f
		}
	}
	assert.Contains(t, icici, "ICICI Term Insurance")
	assert.Contains(t, icici, "Claim Settlement Ratio: 95.3")
}
