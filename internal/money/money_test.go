package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected int64
	}{
		{name: "crore with symbol", input: "₹2 Crore", expected: 20_000_000},
		{name: "fractional crore", input: "1.5 crore", expected: 15_000_000},
		{name: "attached cr token", input: "₹2Cr", expected: 20_000_000},
		{name: "attached lakh letter", input: "₹15L", expected: 1_500_000},
		{name: "lakh word", input: "15 lakhs", expected: 1_500_000},
		{name: "lac spelling", input: "2 lac", expected: 200_000},
		{name: "indian comma grouping", input: "1,50,000", expected: 150_000},
		{name: "per month suffix", input: "2,50,000/month", expected: 250_000},
		{name: "per year suffix", input: "₹31,500/year", expected: 31_500},
		{name: "approximate prefix", input: "~50000", expected: 50_000},
		{name: "bare digits", input: "15", expected: 15},
		{name: "nil", input: nil, expected: 0},
		{name: "empty string", input: "", expected: 0},
		{name: "no digits", input: "not disclosed", expected: 0},
		{name: "already int", input: 150000, expected: 150_000},
		{name: "already float", input: 75000.9, expected: 75_000},
		{name: "word ending in l is not a lakh unit", input: "total 500", expected: 500},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Parse(tc.input))
		})
	}
}

// The general parser must try crore before lakh so that crore amounts are
// never misread through their trailing letters.
func TestParseUnitPrecedence(t *testing.T) {
	assert.Equal(t, int64(20_000_000), Parse("2 crore"))
	assert.Equal(t, int64(20_000_000), Parse("2cr"))
	assert.Equal(t, int64(200_000), Parse("2l"))
}

func TestExtractAmount(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected int64
	}{
		{name: "attached lakh", input: "₹15L", expected: 1_500_000},
		{name: "attached crore", input: "₹2Cr", expected: 20_000_000},
		{name: "attached single c", input: "2c", expected: 20_000_000},
		{name: "fractional lakh", input: "₹1.5L", expected: 150_000},
		{name: "fractional crore", input: "₹1.5Cr", expected: 15_000_000},
		{name: "fractional crore with space stripped", input: "₹2.25cr", expected: 22_500_000},
		{name: "bare digits have no unit", input: "15", expected: 0},
		{name: "detached unit word rejected", input: "₹5 lakhs", expected: 0},
		{name: "premium without unit letter", input: "₹31,500/year", expected: 0},
		{name: "empty", input: "", expected: 0},
		{name: "prose only", input: "varies by plan", expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractAmount(tc.input))
		})
	}
}

// The strict and general variants intentionally disagree on bare digits.
func TestStrictAndGeneralVariantsDiffer(t *testing.T) {
	assert.Equal(t, int64(15), Parse("15"))
	assert.Equal(t, int64(0), ExtractAmount("15"))
}
