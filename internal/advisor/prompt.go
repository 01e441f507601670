package advisor

import (
	"fmt"
	"strings"
)

const recommendationPromptTemplate = `You are an expert insurance advisor. Analyze the following customer profile and provide personalized insurance recommendations.

%s

Instructions:
- Consider age, income, family status, occupation, location, and assets.
- Calculate coverage amounts and premiums realistically.
- Recommend add-ons and priorities for each insurance type.
- Include advice on affordability, additional guidance, and products to avoid.

CRITICAL: Your response must be ONLY valid JSON. Do not include any text before or after the JSON. Do not use markdown code blocks. Start directly with { and end with }.

Output format:

{
  "term_insurance": {
    "coverage": "",
    "estimated_premium": "",
    "reason": "",
    "add_ons": [],
    "priority": ""
  },
  "health_insurance": {
    "coverage": "",
    "estimated_premium": "",
    "reason": "",
    "add_ons": [],
    "priority": ""
  },
  "vehicle_insurance": null,
  "property_insurance": null,
  "travel_insurance": null,
  "personal_accident_cover": null,
  "premium_affordability_check": "",
  "additional_advice": [],
  "products_to_avoid": []
}

Fill in all the empty strings and arrays with appropriate values based on the customer's profile. Ensure the JSON is complete and valid.`

// BuildRecommendationPrompt embeds the flattened profile into the fixed
// strict-JSON instruction prompt.
func BuildRecommendationPrompt(profileText string) string {
	return fmt.Sprintf(recommendationPromptTemplate, strings.TrimSpace(profileText))
}

// GenerateExplanation produces the short narrative shown alongside a plan.
func GenerateExplanation(plan *PlanDetail, label string) string {
	if plan == nil {
		return ""
	}
	return fmt.Sprintf("%s insurance is recommended because: %s It offers %s at %s with add-ons like %s.",
		label, plan.Reason, plan.Coverage, plan.EstimatedPremium, strings.Join(plan.AddOns, ", "))
}
