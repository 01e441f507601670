package advisor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError marks model output that could not be coerced into a valid
// recommendation. The pipeline surfaces it the same way as a transport
// failure; the type exists so tests can tell the classes apart.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("recommendation parse failed: %s", e.Reason)
}

var codeFenceRE = regexp.MustCompile("```(?:json)?\\s*")

// CleanJSON strips markdown code fences and bounds the output to the span
// between the first '{' and the last '}' when that span is syntactically
// valid JSON. Otherwise the raw text is returned unchanged and fails
// structural validation downstream.
func CleanJSON(output string) string {
	output = codeFenceRE.ReplaceAllString(output, "")

	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start != -1 && end > start {
		candidate := output[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate
		}
	}
	return output
}

// ParseRecommendation validates raw model output into a Recommendation.
// The output is untrusted free text: it may be wrapped in prose or fences,
// truncated, or missing required keys, so everything is checked explicitly.
func ParseRecommendation(raw string) (*Recommendation, error) {
	cleaned := CleanJSON(raw)

	var rec Recommendation
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Validate enforces the structural invariant: term and health plans are
// required and must each carry non-empty coverage, premium, and reason.
func (r *Recommendation) Validate() error {
	if err := validatePlan(r.TermInsurance, "term_insurance"); err != nil {
		return err
	}
	if err := validatePlan(r.HealthInsurance, "health_insurance"); err != nil {
		return err
	}
	return nil
}

func validatePlan(plan *PlanDetail, field string) error {
	if plan == nil {
		return &ParseError{Reason: fmt.Sprintf("required field %s is missing", field)}
	}
	if strings.TrimSpace(plan.Coverage) == "" {
		return &ParseError{Reason: fmt.Sprintf("%s has empty coverage", field)}
	}
	if strings.TrimSpace(plan.EstimatedPremium) == "" {
		return &ParseError{Reason: fmt.Sprintf("%s has empty estimated_premium", field)}
	}
	if strings.TrimSpace(plan.Reason) == "" {
		return &ParseError{Reason: fmt.Sprintf("%s has empty reason", field)}
	}
	return nil
}
