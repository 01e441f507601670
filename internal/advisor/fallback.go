package advisor

import (
	"fmt"
	"strings"

	"github.com/policymitra/backend/internal/money"
)

// termCoverageCap bounds term coverage at ₹2 crore regardless of income.
const termCoverageCap = 20_000_000

// FallbackRecommendation derives a recommendation from the profile alone
// using fixed actuarial rules of thumb. It backs the pipeline when no model
// endpoint is configured and is fully deterministic.
func FallbackRecommendation(profileText string) *Recommendation {
	fields := parseProfileLines(profileText)

	age := int(money.Parse(valueOr(fields, "Age", "35")))
	income := money.Parse(valueOr(fields, "Monthly Income", "₹75000"))
	dependents := int(money.Parse(valueOr(fields, "Dependents", "0")))
	hasVehicle := valueOr(fields, "Vehicle", "No") == "Yes"

	// Term cover is conventionally 10-20x annual income.
	annualIncome := income * 12
	multiplier := int64(10)
	if dependents > 0 {
		multiplier = 15
	}
	termCoverage := annualIncome * multiplier
	if termCoverage > termCoverageCap {
		termCoverage = termCoverageCap
	}
	termPremium := float64(termCoverage) / 100_000 * float64(age) / 100 * 1000

	healthCoverage := int64(1_000_000)
	if age >= 40 {
		healthCoverage = 1_500_000
	}
	healthPremium := float64(healthCoverage) / 100_000 * 80

	termReason := "Provides financial security for your future"
	healthAddOn := "OPD Cover"
	if dependents > 0 {
		termReason = "Provides financial security for family"
		healthAddOn = "Maternity Cover"
	}

	term := &PlanDetail{
		Coverage:         formatCoverage(termCoverage),
		EstimatedPremium: formatPremium(termPremium),
		Reason:           termReason,
		AddOns:           []string{"Critical Illness Rider", "Waiver of Premium"},
		Priority:         "must-have",
	}
	health := &PlanDetail{
		Coverage:         formatCoverage(healthCoverage),
		EstimatedPremium: formatPremium(healthPremium),
		Reason:           "Covers medical expenses and hospitalization",
		AddOns:           []string{healthAddOn, "Critical Illness"},
		Priority:         "must-have",
	}

	var vehicle *PlanDetail
	if hasVehicle {
		vehicle = &PlanDetail{
			Coverage:         "₹5 lakhs",
			EstimatedPremium: "₹3,000/year",
			Reason:           "Protects vehicle from damage and theft",
			AddOns:           []string{"Zero Depreciation", "Roadside Assistance"},
			Priority:         "recommended",
		}
	}

	personalAccident := &PlanDetail{
		Coverage:         "₹25 lakhs",
		EstimatedPremium: "₹1,000/year",
		Reason:           "Accident protection and disability coverage",
		AddOns:           []string{"Permanent Disability", "Temporary Disability"},
		Priority:         "recommended",
	}

	totalPremium := termPremium + healthPremium + 1000
	if vehicle != nil {
		totalPremium += 3000
	}
	affordability := "Premiums are affordable"
	if totalPremium >= float64(income)*0.1 {
		affordability = "Premiums may be high - consider lower coverage options"
	}

	return &Recommendation{
		TermInsurance:             term,
		HealthInsurance:           health,
		VehicleInsurance:          vehicle,
		PersonalAccidentCover:     personalAccident,
		PremiumAffordabilityCheck: affordability,
		AdditionalAdvice:          []string{"Consider increasing coverage as income grows", "Review coverage annually"},
		ProductsToAvoid:           []string{"High-commission products", "Products with low claim settlement ratio"},
	}
}

// parseProfileLines splits "Label: value" lines into a map.
func parseProfileLines(profileText string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(profileText, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return fields
}

func valueOr(fields map[string]string, key, fallback string) string {
	if v, ok := fields[key]; ok && v != "" {
		return v
	}
	return fallback
}

func formatCoverage(amount int64) string {
	if amount >= 10_000_000 {
		return fmt.Sprintf("₹%d crores", amount/10_000_000)
	}
	return fmt.Sprintf("₹%d lakhs", amount/100_000)
}

func formatPremium(amount float64) string {
	return fmt.Sprintf("₹%d/year", int64(amount))
}
