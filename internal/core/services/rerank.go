package services

import (
	"sort"
	"strings"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
)

// Relevance multipliers. Factors only ever multiply a weight upward from 1,
// so an adjusted score (raw / weight) is never worse than the raw distance.
const (
	boostRecentData    = 1.2  // metadata year >= 2024
	boostPolicySource  = 1.15 // source is government_policy
	boostAgriCategory  = 1.1  // category mentions agriculture or crop
	boostHasScheme     = 1.1  // non-empty scheme field
	boostTrustedSource = 1.05 // source in the reliability whitelist
	boostStateMatch    = 1.3  // chunk state among intent states
	boostCropMatch     = 1.2  // chunk crop among intent crops
	boostYearMatch     = 1.4  // chunk year among intent years
	boostPolicyIntent  = 1.5  // scheme/policy query hitting a policy chunk
)

// recentDataYear is the cutoff for the recency boost.
const recentDataYear = 2024

// trustedSources is the whitelist of high-reliability dataset providers.
var trustedSources = map[string]struct{}{
	"data.gov.in":          {},
	"imd":                  {},
	"ministry_agriculture": {},
}

// Rerank applies the intent-aware hard filter and relevance boosts to raw
// index hits and returns the ordered top k.
//
// Candidates arrive with Chunk and RawScore set; Weight and AdjustedScore
// are computed here. Raw scores are distances (lower = more similar) and the
// output is sorted ascending by adjusted score. The sort is stable, so equal
// adjusted scores keep their original candidate order and two calls with
// identical inputs produce identical output. Never fails: when the hard
// filter eliminates every candidate the result is an empty list, which the
// caller treats as "no relevant data".
func Rerank(candidates []domain.RetrievalCandidate, intent domain.QueryIntent, k int) []domain.RetrievalCandidate {
	if k <= 0 {
		k = 5
	}

	ranked := make([]domain.RetrievalCandidate, 0, len(candidates))
	for _, c := range candidates {
		meta := c.Chunk.Metadata

		// Hard state filter: a state-scoped question discards chunks from
		// other states (and chunks with no state at all). Crops, years and
		// schemes only boost, never filter.
		if len(intent.States) > 0 && !intent.HasState(meta.State) {
			continue
		}

		c.Weight = contextWeight(meta, intent)
		c.AdjustedScore = c.RawScore / c.Weight
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AdjustedScore < ranked[j].AdjustedScore
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// contextWeight computes the cumulative relevance multiplier for one chunk
// under the given intent. Always >= 1.
func contextWeight(meta domain.ChunkMetadata, intent domain.QueryIntent) float64 {
	weight := 1.0

	// Intent-independent boosts.
	if meta.Year != nil && *meta.Year >= recentDataYear {
		weight *= boostRecentData
	}
	if meta.Source == domain.SourceGovernmentPolicy {
		weight *= boostPolicySource
	}
	category := strings.ToLower(meta.Category)
	if strings.Contains(category, "agriculture") || strings.Contains(category, "crop") {
		weight *= boostAgriCategory
	}
	if meta.Scheme != "" {
		weight *= boostHasScheme
	}
	if _, ok := trustedSources[meta.Source]; ok {
		weight *= boostTrustedSource
	}

	// Intent-driven boosts.
	if len(intent.States) > 0 && intent.HasState(meta.State) {
		weight *= boostStateMatch
	}
	if len(intent.Crops) > 0 && meta.Crop != "" && intent.HasCrop(meta.Crop) {
		weight *= boostCropMatch
	}
	if meta.Year != nil && intent.HasYear(*meta.Year) {
		weight *= boostYearMatch
	}
	if (intent.Type == domain.QuerySchemeQuery || intent.Type == domain.QueryPolicyQuery) &&
		meta.Source == domain.SourceGovernmentPolicy {
		weight *= boostPolicyIntent
	}

	return weight
}
