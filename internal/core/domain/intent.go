package domain

import "strings"

// QueryType classifies the user's question. Exactly one type applies.
type QueryType string

// Query types, most specific first. Scheme and policy queries trigger the
// government-policy ranking boost.
const (
	QuerySchemeQuery    QueryType = "scheme_query"
	QueryPolicyQuery    QueryType = "policy_query"
	QueryComparison     QueryType = "comparison"
	QueryTrend          QueryType = "trend"
	QueryCorrelation    QueryType = "correlation"
	QueryRecommendation QueryType = "recommendation"
	QueryGeneral        QueryType = "general"
)

// QueryIntent is the structured interpretation of a question. It is derived
// once per query and drives candidate filtering and boosting.
//
// Entity slices are deduplicated and order-insignificant; they may be empty.
// Type is always set, defaulting to QueryGeneral.
type QueryIntent struct {
	// Type is the classified question type.
	Type QueryType `json:"type"`

	// States holds matched state names, title-cased.
	States []string `json:"states,omitempty"`

	// Crops holds matched crop names, title-cased.
	Crops []string `json:"crops,omitempty"`

	// Schemes holds canonical ids of government schemes mentioned.
	Schemes []string `json:"schemes,omitempty"`

	// Policies holds the policy patterns that matched the question.
	Policies []string `json:"policies,omitempty"`

	// Years holds 4-digit years (20xx) extracted from the question.
	Years []int `json:"years,omitempty"`
}

// HasState reports whether s is among the intent's states, ignoring case.
func (qi QueryIntent) HasState(s string) bool { return containsFold(qi.States, s) }

// HasCrop reports whether c is among the intent's crops, ignoring case.
func (qi QueryIntent) HasCrop(c string) bool { return containsFold(qi.Crops, c) }

// HasYear reports whether y is among the intent's years.
func (qi QueryIntent) HasYear(y int) bool {
	for _, v := range qi.Years {
		if v == y {
			return true
		}
	}
	return false
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
