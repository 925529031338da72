package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"trustpilot-scraper/lib/scrapers/trustpilot"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func sampleCompanies() []trustpilot.Company {
	rating := 4.2
	count := 80
	ratingText := "4.2"
	countText := "80"
	return []trustpilot.Company{
		{
			ID:           "https://www.trustpilot.com/review/acme.example",
			Domain:       "acme.example",
			Name:         "Acme Corp",
			RatingValue:  &rating,
			ReviewCount:  &count,
			Country:      "US",
			Categories:   []string{"Electronics Store"},
			CategoriesID: []string{"electronics"},
			Rating: trustpilot.RatingSummary{
				BestRating:  "5",
				WorstRating: "1",
				RatingValue: &ratingText,
				ReviewCount: &countText,
			},
			Data:                 trustpilot.ReviewHistogram{Total: 80},
			LastReviews:          []trustpilot.Review{},
			Reviews:              []trustpilot.Review{},
			SimilarBusinessUnits: []map[string]any{},
			SourceURL:            "https://www.trustpilot.com/review/acme.example",
		},
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "companies.json")
	companies := sampleCompanies()

	require.NoError(t, WriteJSON(path, companies))

	buf, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []trustpilot.Company
	require.NoError(t, json.Unmarshal(buf, &decoded))
	require.Empty(t, cmp.Diff(companies, decoded))
}

func TestWriteJSONFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.json")
	require.NoError(t, WriteJSON(path, sampleCompanies()))

	buf, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(buf, &raw))
	require.Len(t, raw, 1)
	for _, field := range []string{
		"ID", "domain", "ratingValue", "reviewCount", "zipCode",
		"lastReviews", "rating", "data", "similarBusinessUnits",
		"aiSummary", "sourceUrl",
	} {
		require.Contains(t, raw[0], field)
	}
	// attached lists export as [], never null
	require.NotNil(t, raw[0]["reviews"])
	require.NotNil(t, raw[0]["lastReviews"])
}

func TestWriteJSONNilCompanies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.json")
	require.NoError(t, WriteJSON(path, nil))

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]", string(buf))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.csv")
	require.NoError(t, WriteCSV(path, sampleCompanies()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, csvHeader, rows[0])

	row := rows[1]
	require.Len(t, row, len(csvHeader))
	require.Equal(t, "acme.example", row[1])
	require.Equal(t, "4.2", row[3])
	require.Equal(t, "80", row[4])
	require.Equal(t, "Electronics Store", row[14])
	// complex fields are stringified json
	var histogram trustpilot.ReviewHistogram
	require.NoError(t, json.Unmarshal([]byte(row[17]), &histogram))
	require.Equal(t, trustpilot.ReviewHistogram{Total: 80}, histogram)
}

func TestWriteCSVEmptyStillHasHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, WriteCSV(path, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, csvHeader, rows[0])
}
