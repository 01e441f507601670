package advisor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/policymitra/backend/internal/catalog"
)

// maxMatches bounds how many catalog matches are returned per category.
const maxMatches = 3

// Requirements maps requirement keys ("coverage", "death_benefit", ...) to
// the value text the customer needs.
type Requirements map[string]string

// MatchProducts scores every catalog entry against the requirements for one
// product category and returns the top matches ordered by (score desc, CSR
// desc, insurer desc).
func MatchProducts(cat *catalog.Catalog, category string, requirements Requirements) []MatchResult {
	var matches []MatchResult

	for _, insurer := range cat.Insurers() {
		entry, _ := cat.Entry(insurer)
		csr := entry.CSR()

		for _, offer := range catalog.OffersFor(insurer, entry, category) {
			score, matched := scoreOffer(offer, requirements)

			// Type-only matches still count: one baseline point keeps
			// correctly-typed offers from being excluded outright.
			if score == 0 && offer.Type == category {
				score = 1
				matched = []string{"product_type"}
			}
			if score == 0 {
				continue
			}

			csrText := "N/A"
			if csr != nil {
				csrText = fmt.Sprintf("%v", csr)
			}
			matches = append(matches, MatchResult{
				Insurer: insurer,
				Plans:   []string{offer.Name},
				Score:   score,
				CSR:     csr,
				Explanation: fmt.Sprintf("%s offers %s with Claim Settlement Ratio %s. It matches your needs for %s.",
					insurer, offer.Name, csrText, strings.Join(matched, ", ")),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		csrI, csrJ := catalog.ParseCSR(matches[i].CSR), catalog.ParseCSR(matches[j].CSR)
		if csrI != csrJ {
			return csrI > csrJ
		}
		return matches[i].Insurer > matches[j].Insurer
	})

	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}
	return matches
}

// scoreOffer awards one point per requirement found in the offer's coverage
// block. Structured blocks are checked key by key; the special "coverage"
// requirement additionally searches the whole block text, which handles
// free-text coverage fields that are not key/value shaped.
func scoreOffer(offer catalog.Offer, requirements Requirements) (int, []string) {
	score := 0
	var matched []string

	coverageMap, _ := offer.Coverage.(map[string]any)
	blockText := ""
	if offer.Coverage != nil {
		blockText = strings.ToLower(fmt.Sprintf("%v", offer.Coverage))
	}

	for key, value := range requirements {
		needle := strings.ToLower(value)
		if fieldValue, ok := coverageMap[key]; ok {
			if strings.Contains(strings.ToLower(fmt.Sprintf("%v", fieldValue)), needle) {
				score++
				matched = append(matched, key)
			}
			continue
		}
		if key == "coverage" && blockText != "" && strings.Contains(blockText, needle) {
			score++
			matched = append(matched, "coverage")
		}
	}

	sort.Strings(matched)
	return score, matched
}
