package trustpilot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func company(name string, rating float64, reviewCount int, country string) Company {
	return Company{
		Name:        name,
		RatingValue: &rating,
		ReviewCount: &reviewCount,
		Country:     country,
	}
}

func TestFilterCompaniesMinTrustScore(t *testing.T) {
	companies := []Company{
		company("High", 4.7, 100, "US"),
		company("Borderline", 4.5, 100, "US"),
		company("Low", 3.1, 100, "US"),
		{Name: "Unrated"},
	}

	filtered := FilterCompanies(companies, SearchParams{MinTrustScore: 4.5})
	require.Len(t, filtered, 2)
	require.Equal(t, "High", filtered[0].Name)
	require.Equal(t, "Borderline", filtered[1].Name)
}

// the input document is json, so thresholds can arrive as strings
func TestFilterCompaniesNumericStringThreshold(t *testing.T) {
	companies := []Company{
		company("High", 4.7, 100, "US"),
		company("Low", 3.1, 100, "US"),
	}

	asNumber := FilterCompanies(companies, SearchParams{MinTrustScore: 4.5, MinReviews: 50})
	asString := FilterCompanies(companies, SearchParams{MinTrustScore: "4.5", MinReviews: "50"})
	require.Empty(t, cmp.Diff(asNumber, asString))
}

func TestFilterCompaniesMalformedThresholdDisablesPredicate(t *testing.T) {
	companies := []Company{
		company("A", 1.0, 1, ""),
		company("B", 5.0, 500, ""),
	}

	filtered := FilterCompanies(companies, SearchParams{MinTrustScore: "not a number", MinReviews: []any{}})
	require.Len(t, filtered, 2)
}

func TestFilterCompaniesCountryCaseInsensitive(t *testing.T) {
	companies := []Company{
		company("A", 4.0, 10, "US"),
		company("B", 4.0, 10, "us"),
		company("C", 4.0, 10, "DE"),
		company("D", 4.0, 10, ""),
	}

	filtered := FilterCompanies(companies, SearchParams{Country: "Us"})
	require.Len(t, filtered, 2)
	require.Equal(t, "A", filtered[0].Name)
	require.Equal(t, "B", filtered[1].Name)
}

func TestFilterCompaniesMinReviews(t *testing.T) {
	companies := []Company{
		company("Plenty", 4.0, 50, ""),
		company("Few", 4.0, 49, ""),
		{Name: "Uncounted", RatingValue: ptrFloat(4.0)},
	}

	filtered := FilterCompanies(companies, SearchParams{MinReviews: 50})
	require.Len(t, filtered, 1)
	require.Equal(t, "Plenty", filtered[0].Name)
}

func TestFilterCompaniesVerifiedOnly(t *testing.T) {
	companies := []Company{
		company("Qualifies", 4.0, 50, ""),
		company("Rating too low", 3.9, 500, ""),
		company("Too few reviews", 4.9, 49, ""),
		{Name: "Missing fields"},
	}

	filtered := FilterCompanies(companies, SearchParams{VerifiedOnly: true})
	require.Len(t, filtered, 1)
	require.Equal(t, "Qualifies", filtered[0].Name)
}

func TestFilterCompaniesNoParamsPassesAll(t *testing.T) {
	companies := []Company{
		company("A", 1.0, 0, ""),
		{Name: "B"},
	}
	filtered := FilterCompanies(companies, SearchParams{})
	require.Empty(t, cmp.Diff(companies, filtered))
}

func TestFilterCompaniesIdempotent(t *testing.T) {
	companies := []Company{
		company("A", 4.7, 100, "US"),
		company("B", 4.5, 40, "US"),
		company("C", 2.0, 100, "DE"),
	}
	params := SearchParams{MinTrustScore: 4.0, Country: "US"}

	once := FilterCompanies(companies, params)
	twice := FilterCompanies(once, params)
	require.Empty(t, cmp.Diff(once, twice))
}

func ptrFloat(f float64) *float64 { return &f }
