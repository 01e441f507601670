package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// FactSentences synthesizes one retrieval sentence per insurer, summarizing
// its plans, claim settlement ratio, and coverage block. The what-if
// responder scores these against the user's question.
func (c *Catalog) FactSentences() []string {
	sentences := make([]string, 0, len(c.entries))
	for _, insurer := range c.Insurers() {
		e := c.entries[insurer]

		plans := e.Plans
		if len(plans) == 0 {
			for _, p := range e.Products {
				plans = append(plans, p.Name)
			}
		}

		csr := "N/A"
		if v := e.CSR(); v != nil {
			csr = fmt.Sprintf("%v", v)
		}

		var coverage []string
		keys := make([]string, 0, len(e.Coverage))
		for k := range e.Coverage {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			coverage = append(coverage, fmt.Sprintf("%s: %v", k, e.Coverage[k]))
		}

		sentences = append(sentences, fmt.Sprintf(
			"%s offers insurance. Plans: %s. Claim Settlement Ratio: %s. Coverage: %s.",
			insurer, strings.Join(plans, ", "), csr, strings.Join(coverage, ", "),
		))
	}
	return sentences
}
