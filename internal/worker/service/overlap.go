package service

import "newsbrief/internal/entity"

// OverlapRatio computes |candidate ∩ existing| / |candidate|: the share
// of the candidate cluster already present in the existing story.
func OverlapRatio(candidateIDs, existingIDs []uint) float64 {
	if len(candidateIDs) == 0 {
		return 0
	}

	existing := make(map[uint]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}

	shared := 0
	for _, id := range candidateIDs {
		if _, ok := existing[id]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(candidateIDs))
}

// FindBestOverlap returns the active story with the highest overlap
// ratio at or above the threshold, or nil when no story qualifies.
// Callers pass active stories only; archived and superseded stories
// never receive further updates.
func FindBestOverlap(candidateIDs []uint, activeStories []entity.Story, threshold float64) (*entity.Story, float64) {
	var best *entity.Story
	bestRatio := 0.0

	for i := range activeStories {
		story := &activeStories[i]
		ratio := OverlapRatio(candidateIDs, story.ArticleIDs())
		if ratio >= threshold && ratio > bestRatio {
			best = story
			bestRatio = ratio
		}
	}
	return best, bestRatio
}

// MergeArticleIDs unions the existing story's members with the candidate
// cluster, preserving existing-first order without duplicates.
func MergeArticleIDs(existingIDs, candidateIDs []uint) []uint {
	seen := make(map[uint]struct{}, len(existingIDs)+len(candidateIDs))
	merged := make([]uint, 0, len(existingIDs)+len(candidateIDs))
	for _, id := range existingIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	for _, id := range candidateIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	return merged
}
