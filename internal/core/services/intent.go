package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
)

// Pattern tables are compiled once at package initialisation; classification
// only performs matching, never compilation.

// schemePattern maps a canonical government scheme id to the phrases that
// mention it.
type schemePattern struct {
	id       string
	patterns []*regexp.Regexp
}

var schemePatterns = []schemePattern{
	{"pm_dhan_dhaanya", compileAll(`pm.*dhan.*dhaanya`, `dhan.*dhaanya`)},
	{"bharati", compileAll(`bharati`, `bharti.*initiative`)},
	{"pkvy", compileAll(`pkvy`, `paramparagat.*krishi`)},
	{"enam", compileAll(`e-nam`, `enam`, `national.*agriculture.*market`)},
	{"soil_health", compileAll(`soil.*health.*card`, `shc`)},
	{"kisan_credit", compileAll(`kisan.*credit.*card`, `kcc`)},
}

// policyPatterns flag budget and policy questions. The matched pattern text
// itself is recorded on the intent.
var policyPatterns = compileAll(
	`budget.*202[45]`,
	`allocation`,
	`government.*scheme`,
	`ministry.*agriculture`,
	`atmanirbhar`,
	`self.*relian`,
	`expenditure`,
	`funding`,
)

// indianStates is the gazetteer of state names matched as substrings of the
// lower-cased question.
var indianStates = []string{
	"punjab", "haryana", "uttar pradesh", "bihar", "west bengal",
	"maharashtra", "gujarat", "rajasthan", "madhya pradesh",
	"karnataka", "tamil nadu", "andhra pradesh", "telangana",
	"kerala", "odisha", "jharkhand", "chhattisgarh",
}

var majorCrops = []string{
	"rice", "wheat", "cotton", "sugarcane", "pulses", "oilseeds",
	"maize", "bajra", "jowar", "barley", "gram", "tur", "moong",
}

var yearPattern = regexp.MustCompile(`20\d\d`)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// ClassifyIntent derives a structured QueryIntent from a free-text question.
// It is pure and deterministic: matching is case-insensitive over a
// lower-cased copy of the question, except year extraction which scans the
// original text. It never fails; an unrecognised question comes back as
// QueryGeneral with empty entity sets.
func ClassifyIntent(question string) domain.QueryIntent {
	intent := domain.QueryIntent{}
	lower := strings.ToLower(question)

	// Scheme detection. Every matching scheme id is retained; the first
	// match fixes the query type.
	for _, sp := range schemePatterns {
		for _, re := range sp.patterns {
			if re.MatchString(lower) {
				intent.Schemes = appendUnique(intent.Schemes, sp.id)
				if intent.Type == "" {
					intent.Type = domain.QuerySchemeQuery
				}
				break
			}
		}
	}

	// Policy detection. Hits are recorded even when a scheme already fixed
	// the type; only the type assignment is conditional.
	for _, re := range policyPatterns {
		if re.MatchString(lower) {
			intent.Policies = appendUnique(intent.Policies, re.String())
			if intent.Type == "" {
				intent.Type = domain.QueryPolicyQuery
			}
		}
	}

	// Ordered keyword fallback for the remaining query types.
	if intent.Type == "" {
		switch {
		case containsAny(lower, "compare", "comparison"):
			intent.Type = domain.QueryComparison
		case containsAny(lower, "trend", "over time", "years", "decade"):
			intent.Type = domain.QueryTrend
		case containsAny(lower, "correlate", "relationship", "impact", "effect"):
			intent.Type = domain.QueryCorrelation
		case containsAny(lower, "recommend", "suggest", "advice"):
			intent.Type = domain.QueryRecommendation
		default:
			intent.Type = domain.QueryGeneral
		}
	}

	// Entity extraction is independent of the query type.
	for _, state := range indianStates {
		if strings.Contains(lower, state) {
			intent.States = appendUnique(intent.States, titleCase(state))
		}
	}
	for _, crop := range majorCrops {
		if strings.Contains(lower, crop) {
			intent.Crops = appendUnique(intent.Crops, titleCase(crop))
		}
	}

	// Years are extracted from the original question, not the lower-cased
	// copy, and deduplicated.
	for _, match := range yearPattern.FindAllString(question, -1) {
		year, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		if !intent.HasYear(year) {
			intent.Years = append(intent.Years, year)
		}
	}

	return intent
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func appendUnique(set []string, v string) []string {
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}

// titleCase upper-cases the first letter of each space-separated word.
// The gazetteer is ASCII, so a byte-level transform is sufficient.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
