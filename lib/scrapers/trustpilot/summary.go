package trustpilot

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// buildSummary produces the deterministic plain-text description stored
// under aiSummary. No external model involved, just the fields at hand.
func buildSummary(c Company) Summary {
	var parts []string

	if c.Name != "" {
		parts = append(parts, fmt.Sprintf("%s is a business listed on Trustpilot", c.Name))
	} else {
		parts = append(parts, "This business is listed on Trustpilot")
	}

	if len(c.Categories) > 0 {
		parts = append(parts, fmt.Sprintf(
			"operating in the %s sector",
			strings.Join(sortedUnique(c.Categories), ", "),
		))
	}

	if c.Country != "" {
		var locationBits []string
		if c.City != "" {
			locationBits = append(locationBits, c.City)
		}
		locationBits = append(locationBits, c.Country)
		parts = append(parts, fmt.Sprintf(
			"and appears to be based in %s",
			strings.Join(locationBits, ", "),
		))
	}

	if c.RatingValue != nil && c.ReviewCount != nil {
		parts = append(parts, fmt.Sprintf(
			"with an average rating of %.1f from %d reviews",
			*c.RatingValue, *c.ReviewCount,
		))
	} else if c.RatingValue != nil {
		parts = append(parts, fmt.Sprintf(
			"and an average rating of %.1f",
			*c.RatingValue,
		))
	}

	summary := strings.TrimSpace(strings.Join(parts, ", "))
	if summary != "" && !strings.HasSuffix(summary, ".") {
		summary += "."
	}

	return Summary{
		Summary:   summary,
		Status:    "success",
		Lang:      "en",
		UpdatedAt: now().Format(time.RFC3339),
	}
}

func sortedUnique(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
