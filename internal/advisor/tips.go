package advisor

import "fmt"

// ExplainAffordability narrates what share of monthly income the combined
// premiums consume. Zero income reads as unaffordable rather than erroring.
func ExplainAffordability(termPremium, healthPremium, monthlyIncome int64) string {
	if monthlyIncome <= 0 {
		return "Your premiums exceed your reported income. Consider reducing coverage or finding lower-cost plans."
	}
	percent := float64(termPremium+healthPremium) / float64(monthlyIncome) * 100
	if percent > 20 {
		return fmt.Sprintf("Your premiums take up %.1f%% of your monthly income. Consider reducing coverage or finding lower-cost plans.", percent)
	}
	return fmt.Sprintf("Your premiums are only %.1f%% of income. This is affordable and manageable.", percent)
}

// ExplainCoverageVsIncome bands total coverage against annual income.
func ExplainCoverageVsIncome(termCoverage, healthCoverage, annualIncome int64) string {
	totalCoverage := termCoverage + healthCoverage
	switch {
	case totalCoverage < annualIncome*5:
		return "Your total coverage is less than 5x your annual income. You may be underinsured."
	case totalCoverage < annualIncome*10:
		return "Your coverage is reasonable, but you might increase it for better security."
	default:
		return "Your coverage is strong compared to your income."
	}
}

// ExplainCoverageAdequacy compares actual coverage with the conventional
// recommendation of annual income times the multiplier.
func ExplainCoverageAdequacy(actualCoverage, annualIncome int64, multiplier int64) string {
	recommended := annualIncome * multiplier
	switch {
	case actualCoverage < recommended/2:
		return "You are severely underinsured. Increase your coverage immediately."
	case actualCoverage < recommended:
		return "You are underinsured. Consider topping up your policy."
	default:
		return "You are adequately insured."
	}
}
