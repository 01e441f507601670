// Package advisor implements the recommendation pipeline: prompt building,
// defensive parsing of model output, the deterministic fallback calculator,
// and catalog product matching.
package advisor

import (
	"fmt"
	"strings"
)

// Profile is the customer profile collected at the presentation boundary.
// It is validated before any model call and immutable afterwards.
type Profile struct {
	Age               int      `json:"age" validate:"required,gte=18,lte=100"`
	MonthlyIncome     int64    `json:"monthly_income" validate:"gte=0"`
	MaritalStatus     string   `json:"marital_status" validate:"required,oneof=Single Married Divorced"`
	Dependents        int      `json:"dependents" validate:"gte=0"`
	Employment        string   `json:"employment" validate:"required,oneof='Private Job' 'Government Job' 'Self-Employed' 'IT Professional'"`
	ExistingInsurance []string `json:"existing_insurance"`
	HealthConditions  string   `json:"health_conditions" validate:"required"`
	Vehicle           bool     `json:"vehicle"`
	OwnsProperty      bool     `json:"owns_property"`
	FrequentTraveler  bool     `json:"frequent_traveler"`
}

// FlattenText renders the profile as the "Label: value" lines the pipeline
// and both prompts consume.
func (p Profile) FlattenText() string {
	existing := "None"
	if len(p.ExistingInsurance) > 0 {
		existing = strings.Join(p.ExistingInsurance, ", ")
	}
	return fmt.Sprintf(
		"Age: %d\n"+
			"Monthly Income: ₹%d\n"+
			"Marital Status: %s\n"+
			"Dependents: %d\n"+
			"Employment: %s\n"+
			"Existing Insurance: %s\n"+
			"Health Conditions: %s\n"+
			"Vehicle: %s\n"+
			"Owns Property: %s\n"+
			"Frequent Traveler: %s\n",
		p.Age, p.MonthlyIncome, p.MaritalStatus, p.Dependents, p.Employment,
		existing, p.HealthConditions, yesNo(p.Vehicle), yesNo(p.OwnsProperty), yesNo(p.FrequentTraveler),
	)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// PlanDetail is one recommended insurance plan.
type PlanDetail struct {
	Coverage         string   `json:"coverage"`
	EstimatedPremium string   `json:"estimated_premium"`
	Reason           string   `json:"reason"`
	AddOns           []string `json:"add_ons"`
	Priority         string   `json:"priority,omitempty"`
}

// Recommendation is the full advisory output. Term and health are always
// present in a valid recommendation; the remaining plan slots are nil when
// not applicable and deliberately serialize as explicit nulls.
type Recommendation struct {
	TermInsurance             *PlanDetail `json:"term_insurance"`
	HealthInsurance           *PlanDetail `json:"health_insurance"`
	VehicleInsurance          *PlanDetail `json:"vehicle_insurance"`
	PropertyInsurance         *PlanDetail `json:"property_insurance"`
	TravelInsurance           *PlanDetail `json:"travel_insurance"`
	PersonalAccidentCover     *PlanDetail `json:"personal_accident_cover"`
	PremiumAffordabilityCheck string      `json:"premium_affordability_check"`
	AdditionalAdvice          []string    `json:"additional_advice"`
	ProductsToAvoid           []string    `json:"products_to_avoid"`
}

// MatchResult is one scored catalog match. Ephemeral, rebuilt per request.
type MatchResult struct {
	Insurer     string   `json:"company"`
	Plans       []string `json:"plans"`
	Score       int      `json:"score"`
	CSR         any      `json:"csr"`
	Explanation string   `json:"explanation"`
}

// Result is the assembled advisory response handed to the presentation layer.
type Result struct {
	Recommendation   *Recommendation          `json:"recommendation"`
	Products         map[string][]MatchResult `json:"products"`
	Explanation      string                   `json:"explanation"`
	ChartPath        string                   `json:"chart_path"`
	CoverageChart    string                   `json:"coverage_chart_path"`
	AdequacyChart    string                   `json:"coverage_adequacy_path"`
	AffordabilityTip string                   `json:"affordability_tip"`
	CoverageTip      string                   `json:"coverage_tip"`
	AdequacyTip      string                   `json:"adequacy_tip"`
	ReportPath       string                   `json:"save_path"`
}
