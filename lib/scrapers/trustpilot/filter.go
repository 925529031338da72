package trustpilot

import (
	"log/slog"
	"strings"
	"trustpilot-scraper/lib/jsonval"
)

// FilterCompanies applies the user's filter parameters and returns the
// matching subset, in the original order. All predicates must pass. An
// absent or unparseable threshold disables its predicate; an absent
// company field with a threshold set fails it.
func FilterCompanies(companies []Company, params SearchParams) []Company {
	minTrust := jsonval.Float(params.MinTrustScore)
	minReviews := jsonval.Int(params.MinReviews)

	filtered := make([]Company, 0, len(companies))
	for _, company := range companies {
		if !meetsMinTrust(company, minTrust) {
			continue
		}
		if !matchesCountry(company, params.Country) {
			continue
		}
		if !hasMinReviews(company, minReviews) {
			continue
		}
		if params.VerifiedOnly && !isVerifiedLike(company) {
			continue
		}
		filtered = append(filtered, company)
	}

	slog.Info("applied filters",
		"min_trust_score", params.MinTrustScore,
		"verified_only", params.VerifiedOnly,
		"country", params.Country,
		"min_reviews", params.MinReviews,
		"before", len(companies),
		"after", len(filtered),
	)
	return filtered
}

func meetsMinTrust(company Company, minTrust *float64) bool {
	if minTrust == nil {
		return true
	}
	if company.RatingValue == nil {
		return false
	}
	return *company.RatingValue >= *minTrust
}

func matchesCountry(company Company, country string) bool {
	if country == "" {
		return true
	}
	if company.Country == "" {
		return false
	}
	return strings.EqualFold(company.Country, country)
}

func hasMinReviews(company Company, minimum *int) bool {
	if minimum == nil {
		return true
	}
	if company.ReviewCount == nil {
		return false
	}
	return *company.ReviewCount >= *minimum
}

// isVerifiedLike approximates verification: the markup exposes no
// authoritative flag, so a 4.0+ rating with 50+ reviews stands in.
// Do not tune these thresholds without a product decision.
func isVerifiedLike(company Company) bool {
	if company.RatingValue == nil || company.ReviewCount == nil {
		return false
	}
	return *company.RatingValue >= 4.0 && *company.ReviewCount >= 50
}
