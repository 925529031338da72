package store

import (
	"context"
	"database/sql"
	"testing"
	"trustpilot-scraper/lib/scrapers/trustpilot"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleCompany() trustpilot.Company {
	rating := 4.2
	count := 80
	reviewRating := 5
	createdAt := "2024-01-01T00:00:00+00:00"
	return trustpilot.Company{
		ID:          "biz-1",
		Domain:      "acme.example",
		Name:        "Acme Corp",
		RatingValue: &rating,
		ReviewCount: &count,
		Country:     "US",
		SourceURL:   "https://www.trustpilot.com/review/acme.example",
		Reviews: []trustpilot.Review{
			{
				ID:     "rev-1",
				Title:  "Great",
				Text:   "Quick delivery.",
				Rating: &reviewRating,
				Date:   trustpilot.ReviewDate{CreatedAt: &createdAt},
				Consumer: trustpilot.Consumer{
					DisplayName: "Jane D",
					CountryCode: "US",
					IsVerified:  true,
				},
			},
		},
	}
}

func TestSaveCompanies(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, SaveCompanies(ctx, db, []trustpilot.Company{sampleCompany()}))

	var name string
	var ratingValue float64
	err := db.QueryRowContext(ctx,
		`SELECT name, rating_value FROM companies WHERE id = ?`, "biz-1",
	).Scan(&name, &ratingValue)
	require.NoError(t, err)
	require.Equal(t, "Acme Corp", name)
	require.Equal(t, 4.2, ratingValue)

	var reviewCount int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE company_id = ?`, "biz-1",
	).Scan(&reviewCount)
	require.NoError(t, err)
	require.Equal(t, 1, reviewCount)
}

func TestSaveCompaniesIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	companies := []trustpilot.Company{sampleCompany()}

	require.NoError(t, SaveCompanies(ctx, db, companies))
	require.NoError(t, SaveCompanies(ctx, db, companies))

	var companyCount, reviewCount int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&companyCount))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&reviewCount))
	require.Equal(t, 1, companyCount)
	require.Equal(t, 1, reviewCount)
}

func TestSaveCompaniesUpdatesExisting(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := sampleCompany()
	require.NoError(t, SaveCompanies(ctx, db, []trustpilot.Company{first}))

	updated := sampleCompany()
	updated.Name = "Acme Corporation"
	updated.Reviews = nil
	require.NoError(t, SaveCompanies(ctx, db, []trustpilot.Company{updated}))

	var name string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT name FROM companies WHERE id = ?`, "biz-1").Scan(&name))
	require.Equal(t, "Acme Corporation", name)

	// replacing with an empty review set clears the stored reviews
	var reviewCount int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&reviewCount))
	require.Equal(t, 0, reviewCount)
}

func TestSaveCompaniesSkipsUnidentifiable(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	companies := []trustpilot.Company{
		{Name: "No identity"},
		sampleCompany(),
	}
	require.NoError(t, SaveCompanies(ctx, db, companies))

	var companyCount int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&companyCount))
	require.Equal(t, 1, companyCount)
}

func TestSaveCompaniesNullableColumns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, SaveCompanies(ctx, db, []trustpilot.Company{
		{ID: "unrated", Name: "Unrated"},
	}))

	var ratingValue sql.NullFloat64
	var reviewCount sql.NullInt64
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT rating_value, review_count FROM companies WHERE id = ?`, "unrated",
	).Scan(&ratingValue, &reviewCount))
	require.False(t, ratingValue.Valid)
	require.False(t, reviewCount.Valid)
}
