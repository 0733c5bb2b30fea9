package services

import (
	"math"
	"sort"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// CosineSimilarity computes the cosine of the angle between two vectors:
// dot(a, b) / (|a| * |b|). If either vector has zero magnitude the
// similarity is 0, never NaN. Vectors of different lengths score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// rankEntries scores every candidate against the query vector and
// returns the entries at or above the threshold, sorted by descending
// score and capped at topK. Entries whose vector does not match the
// query dimensionality are skipped and counted, never failing the
// search. Ties keep candidate order, so repeated searches over the
// same store produce identical rankings.
func rankEntries(query []float32, candidates []domain.Entry, threshold float64, topK int) []domain.RankedEntry {
	ranked := make([]domain.RankedEntry, 0, len(candidates))
	mismatched := 0

	for _, entry := range candidates {
		if len(entry.Vector) != len(query) {
			mismatched++
			continue
		}

		score := CosineSimilarity(query, entry.Vector)
		if score < threshold {
			continue
		}

		ranked = append(ranked, domain.RankedEntry{Entry: entry, Score: score})
	}

	if mismatched > 0 {
		logger.Warn("Ranking skipped %d entries with mismatched vector dimensions", mismatched)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}

	return ranked
}
