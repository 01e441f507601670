// Package catalog holds the static insurer product catalog. It is loaded
// once at startup and never mutated, so it is safe to share across requests
// without locking.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Product is a fully typed offer as published by insurers that use the
// structured schema. Coverage may be a free-text string or a key/value block.
type Product struct {
	Name          string         `yaml:"name" json:"name"`
	Type          string         `yaml:"type" json:"type"`
	Coverage      any            `yaml:"coverage,omitempty" json:"coverage,omitempty"`
	Premium       map[string]any `yaml:"premium,omitempty" json:"premium,omitempty"`
	Tenure        map[string]any `yaml:"tenure,omitempty" json:"tenure,omitempty"`
	Eligibility   map[string]any `yaml:"eligibility,omitempty" json:"eligibility,omitempty"`
	Riders        []string       `yaml:"riders,omitempty" json:"riders,omitempty"`
	WaitingPeriod any            `yaml:"waiting_period,omitempty" json:"waiting_period,omitempty"`
}

// Entry is one insurer record. The catalog carries two incompatible shapes:
// a typed "products" list, or a bare "plans" list of names with insurer-level
// coverage/premium/tenure blocks shared by every plan. Exactly one of
// Products or Plans is populated.
type Entry struct {
	Products []Product `yaml:"products,omitempty"`
	Plans    []string  `yaml:"plans,omitempty"`

	Coverage          map[string]any `yaml:"coverage,omitempty"`
	Premium           map[string]any `yaml:"premium,omitempty"`
	Tenure            map[string]any `yaml:"tenure,omitempty"`
	TenureEligibility map[string]any `yaml:"tenure_eligibility,omitempty"`
	Eligibility       map[string]any `yaml:"eligibility,omitempty"`
	WaitingPeriod     map[string]any `yaml:"waiting_period,omitempty"`

	// Claim settlement ratio appears under two field names and as either a
	// numeric percentage or free text embedding one.
	ClaimSettlementRatio any `yaml:"claim_settlement_ratio,omitempty"`
	CSRNote              any `yaml:"csr,omitempty"`
}

// CSR returns whichever claim-settlement-ratio field the insurer record
// carries, preferring the short "csr" form.
func (e Entry) CSR() any {
	if e.CSRNote != nil {
		return e.CSRNote
	}
	return e.ClaimSettlementRatio
}

func (e Entry) validate(insurer string) error {
	if len(e.Products) == 0 && len(e.Plans) == 0 {
		return fmt.Errorf("insurer %q has neither products nor plans", insurer)
	}
	if len(e.Products) > 0 && len(e.Plans) > 0 {
		return fmt.Errorf("insurer %q mixes products and plans schemas", insurer)
	}
	for i, p := range e.Products {
		if p.Name == "" {
			return fmt.Errorf("insurer %q: product %d has no name", insurer, i)
		}
		if p.Type == "" {
			return fmt.Errorf("insurer %q: product %q has no type", insurer, p.Name)
		}
	}
	return nil
}

// Offer is the canonical shape every catalog entry is normalized into
// before scoring, regardless of which schema the insurer uses.
type Offer struct {
	Insurer  string
	Name     string
	Type     string
	Coverage any
}

// Catalog is the full insurer map. Immutable after load.
type Catalog struct {
	entries map[string]Entry
}

// Insurers returns insurer names in a stable order.
func (c *Catalog) Insurers() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry returns the record for one insurer.
func (c *Catalog) Entry(insurer string) (Entry, bool) {
	e, ok := c.entries[insurer]
	return e, ok
}

// Len reports the number of insurers in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// categoryKeywords drive category inference for bare-plan entries that
// carry no type tags. Plan names containing any keyword are treated as
// members of that category.
var categoryKeywords = map[string][]string{
	"term":   {"term"},
	"health": {"health", "optima", "suraksha"},
}

// OffersFor normalizes one insurer entry into canonical offers of the
// requested category. Typed entries filter on the exact type tag. Bare-plan
// entries infer membership from plan-name keywords; when an entry shows no
// keyword signal at all, every plan is treated as belonging to the category
// so untyped insurers are not silently excluded.
func OffersFor(insurer string, e Entry, category string) []Offer {
	if len(e.Products) > 0 {
		var offers []Offer
		for _, p := range e.Products {
			if p.Type != category {
				continue
			}
			offers = append(offers, Offer{Insurer: insurer, Name: p.Name, Type: p.Type, Coverage: p.Coverage})
		}
		return offers
	}

	plans := e.Plans
	if keywords := categoryKeywords[category]; len(keywords) > 0 {
		var matched []string
		for _, plan := range plans {
			if containsAny(strings.ToLower(plan), keywords) {
				matched = append(matched, plan)
			}
		}
		if len(matched) > 0 {
			plans = matched
		}
	}

	offers := make([]Offer, 0, len(plans))
	for _, plan := range plans {
		offers = append(offers, Offer{Insurer: insurer, Name: plan, Type: category, Coverage: coverageAny(e.Coverage)})
	}
	return offers
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func coverageAny(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}
