package services

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
)

// sourceMarkerPattern matches inline citation markers of the form
// "[Source N]" in generated answer text. Compiled once at package init.
var sourceMarkerPattern = regexp.MustCompile(`\[Source (\d+)\]`)

// ExtractCitations resolves the inline source markers of an answer against
// the context list the answer was generated from.
//
// Duplicate markers yield one citation; marker N resolves to context[N-1].
// Markers referencing positions outside the context list are silently
// dropped, never fabricated. Citations come back ordered by marker number.
func ExtractCitations(answer string, context []domain.KnowledgeChunk) []domain.Citation {
	matches := sourceMarkerPattern.FindAllStringSubmatch(answer, -1)
	if len(matches) == 0 {
		return []domain.Citation{}
	}

	seen := make(map[int]struct{}, len(matches))
	ids := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > len(context) {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		ids = append(ids, n)
	}
	sort.Ints(ids)

	citations := make([]domain.Citation, 0, len(ids))
	for _, n := range ids {
		meta := context[n-1].Metadata
		citations = append(citations, domain.Citation{
			ID:          n,
			Source:      meta.Source,
			URL:         meta.URL,
			State:       meta.State,
			Year:        meta.Year,
			Category:    meta.Category,
			Scheme:      meta.Scheme,
			Reliability: meta.Reliability(),
		})
	}
	return citations
}

// PolicyContext derives the policy record subset from the full context list.
// It is marker-independent: every government policy chunk in the context is
// summarised, whether or not the answer cited it.
func PolicyContext(context []domain.KnowledgeChunk) []domain.PolicyRecord {
	records := []domain.PolicyRecord{}
	for _, chunk := range context {
		if chunk.Metadata.Source != domain.SourceGovernmentPolicy {
			continue
		}
		records = append(records, domain.NewPolicyRecord(chunk.Metadata))
	}
	return records
}
