package advisor

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// ReportWriter appends human-readable recommendation blocks to a flat text
// file. The file is opened and closed within a single call, so no handle is
// held across requests. The format is line-oriented and not meant to be
// parsed back.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a writer targeting the given file path.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

// Append writes one timestamped recommendation block and returns the file
// path it was written to.
func (w *ReportWriter) Append(rec *Recommendation, products map[string][]MatchResult) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "--- Recommendation Output ---\nTimestamp: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	b.WriteString("Must-Have Insurance:\n")
	fmt.Fprintf(&b, "- Term Insurance -> %s\n", rec.TermInsurance.Reason)
	fmt.Fprintf(&b, "- Health Insurance -> %s\n\n", rec.HealthInsurance.Reason)

	b.WriteString("Recommended (if applicable):\n")
	if rec.VehicleInsurance != nil {
		fmt.Fprintf(&b, "- Vehicle Insurance -> %s\n", rec.VehicleInsurance.Reason)
	}
	if rec.TravelInsurance != nil {
		fmt.Fprintf(&b, "- Travel Insurance -> %s\n", rec.TravelInsurance.Reason)
	}
	if rec.VehicleInsurance == nil && rec.TravelInsurance == nil {
		b.WriteString("- None\n")
	}

	b.WriteString("\nOptional Coverage:\n")
	if rec.PersonalAccidentCover != nil {
		b.WriteString("- Personal Accident Cover -> Covers accidental injuries or death.\n")
	} else {
		b.WriteString("- None\n")
	}
	if strings.Contains(strings.ToLower(strings.Join(rec.TermInsurance.AddOns, " ")), "critical illness") {
		b.WriteString("- Critical Illness Rider -> Protects against major diseases.\n")
	}

	writePlanBlock(&b, "Term Insurance", rec.TermInsurance)
	writePlanBlock(&b, "Health Insurance", rec.HealthInsurance)
	if rec.VehicleInsurance != nil {
		writePlanBlock(&b, "Vehicle Insurance", rec.VehicleInsurance)
	}
	if rec.TravelInsurance != nil {
		writePlanBlock(&b, "Travel Insurance", rec.TravelInsurance)
	}
	if rec.PersonalAccidentCover != nil {
		writePlanBlock(&b, "Personal Accident Cover", rec.PersonalAccidentCover)
	}

	fmt.Fprintf(&b, "\nAffordability Check:\n%s\n", rec.PremiumAffordabilityCheck)

	b.WriteString("\nAdditional Advice:\n")
	for _, tip := range rec.AdditionalAdvice {
		fmt.Fprintf(&b, "- %s\n", tip)
	}

	b.WriteString("\nProducts to Avoid:\n")
	for _, item := range rec.ProductsToAvoid {
		fmt.Fprintf(&b, "- %s\n", item)
	}

	if len(products) > 0 {
		b.WriteString("\nSuggested Real Insurance Products:\n")
		for _, category := range sortedKeys(products) {
			fmt.Fprintf(&b, "\n%s:\n", category)
			for _, p := range products[category] {
				fmt.Fprintf(&b, "- %s offers %s (Score: %d)\n", p.Insurer, strings.Join(p.Plans, ", "), p.Score)
				fmt.Fprintf(&b, "  %s\n", p.Explanation)
			}
		}
	}
	b.WriteString("\n")

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open recommendation log %s: %w", w.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return "", fmt.Errorf("failed to append recommendation log: %w", err)
	}
	return w.path, nil
}

func writePlanBlock(b *strings.Builder, label string, plan *PlanDetail) {
	addOns := "None"
	if len(plan.AddOns) > 0 {
		addOns = strings.Join(plan.AddOns, ", ")
	}
	fmt.Fprintf(b, "\n%s:\n- Coverage: %s\n- Premium: %s\n- Reason: %s\n- Add-ons: %s\n",
		label, plan.Coverage, plan.EstimatedPremium, plan.Reason, addOns)
}

func sortedKeys(m map[string][]MatchResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
