package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
)

func TestClassifyIntentSchemeDetection(t *testing.T) {
	intent := ClassifyIntent("What is the budget for PM Dhan-Dhaanya Krishi Yojana?")

	assert.Equal(t, domain.QuerySchemeQuery, intent.Type)
	assert.Contains(t, intent.Schemes, "pm_dhan_dhaanya")
}

func TestClassifyIntentMultipleSchemes(t *testing.T) {
	intent := ClassifyIntent("Compare PKVY with the Soil Health Card scheme")

	// First scheme match fixes the type; all matches are retained.
	assert.Equal(t, domain.QuerySchemeQuery, intent.Type)
	assert.Contains(t, intent.Schemes, "pkvy")
	assert.Contains(t, intent.Schemes, "soil_health")
}

func TestClassifyIntentPolicyQuery(t *testing.T) {
	intent := ClassifyIntent("What was the agriculture budget 2025 allocation?")

	assert.Equal(t, domain.QueryPolicyQuery, intent.Type)
	assert.NotEmpty(t, intent.Policies)
}

func TestClassifyIntentPolicyHitsRecordedOnSchemeQuery(t *testing.T) {
	intent := ClassifyIntent("What funding does the Kisan Credit Card get?")

	// Scheme match wins the type, but policy pattern hits are still recorded.
	assert.Equal(t, domain.QuerySchemeQuery, intent.Type)
	assert.Contains(t, intent.Schemes, "kisan_credit")
	assert.Contains(t, intent.Policies, "funding")
}

func TestClassifyIntentFallbackTypes(t *testing.T) {
	tests := []struct {
		question string
		want     domain.QueryType
	}{
		{"Compare output of two districts", domain.QueryComparison},
		{"Show the trend in rainfall", domain.QueryTrend},
		{"What is the impact of rainfall on yield?", domain.QueryCorrelation},
		{"Recommend a sowing window", domain.QueryRecommendation},
		{"Tell me about soil moisture", domain.QueryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIntent(tt.question).Type)
		})
	}
}

func TestClassifyIntentEntityAndYearExtraction(t *testing.T) {
	intent := ClassifyIntent("Rice production in Punjab in 2024")

	assert.Equal(t, domain.QueryGeneral, intent.Type)
	assert.Equal(t, []string{"Punjab"}, intent.States)
	assert.Equal(t, []string{"Rice"}, intent.Crops)
	assert.Equal(t, []int{2024}, intent.Years)
}

func TestClassifyIntentMultiWordState(t *testing.T) {
	intent := ClassifyIntent("wheat yields in uttar pradesh and Madhya Pradesh")

	assert.Contains(t, intent.States, "Uttar Pradesh")
	assert.Contains(t, intent.States, "Madhya Pradesh")
	assert.Contains(t, intent.Crops, "Wheat")
}

func TestClassifyIntentYearDeduplication(t *testing.T) {
	intent := ClassifyIntent("Rainfall 2023 versus 2023 and 2024")

	assert.ElementsMatch(t, []int{2023, 2024}, intent.Years)
}

func TestClassifyIntentYearsFromOriginalCase(t *testing.T) {
	// Year extraction runs over the original text; non-20xx numbers are ignored.
	intent := ClassifyIntent("Production in 1999 and 2021")

	assert.Equal(t, []int{2021}, intent.Years)
}

func TestClassifyIntentEmptyQuestion(t *testing.T) {
	intent := ClassifyIntent("")

	assert.Equal(t, domain.QueryGeneral, intent.Type)
	assert.Empty(t, intent.States)
	assert.Empty(t, intent.Crops)
	assert.Empty(t, intent.Schemes)
	assert.Empty(t, intent.Years)
}

func TestClassifyIntentDeterminism(t *testing.T) {
	q := "Compare e-NAM and PKVY funding for cotton in Gujarat in 2024 and 2025"
	first := ClassifyIntent(q)
	second := ClassifyIntent(q)

	assert.Equal(t, first, second)
}
