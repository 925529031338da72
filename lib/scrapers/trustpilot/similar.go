package trustpilot

import (
	"trustpilot-scraper/lib/textutil"

	"github.com/antzucaro/matchr"
)

// names scoring at or above this are considered the same business
// appearing under multiple listings
const similarityThreshold = 0.92

// LinkSimilar populates similarBusinessUnits for every company with the
// other companies in the batch whose normalized names are
// near-identical by Jaro-Winkler similarity. Symmetric and
// self-excluding; companies without a name never link.
func LinkSimilar(companies []Company) {
	for i := range companies {
		if companies[i].SimilarBusinessUnits == nil {
			companies[i].SimilarBusinessUnits = []map[string]any{}
		}
	}

	for i := range companies {
		for j := i + 1; j < len(companies); j++ {
			left := &companies[i]
			right := &companies[j]
			if left.Name == "" || right.Name == "" {
				continue
			}

			score := matchr.JaroWinkler(
				textutil.NormalizeName(left.Name),
				textutil.NormalizeName(right.Name),
				false,
			)
			if score < similarityThreshold {
				continue
			}

			left.SimilarBusinessUnits = append(left.SimilarBusinessUnits, map[string]any{
				"id":         right.IdentityKey(),
				"name":       right.Name,
				"similarity": score,
			})
			right.SimilarBusinessUnits = append(right.SimilarBusinessUnits, map[string]any{
				"id":         left.IdentityKey(),
				"name":       left.Name,
				"similarity": score,
			})
		}
	}
}
