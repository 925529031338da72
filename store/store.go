// Package store lands scrape results in a sqlite database for callers
// that want more than flat files. The full company record is kept as a
// json payload next to the queryable columns.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"strings"
	"trustpilot-scraper/lib/scrapers/trustpilot"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(Schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		db.Close()
		return nil, err
	}
	return db, nil
}

// SaveCompanies upserts every company by identity key and replaces its
// stored reviews. Saving the same batch twice leaves the database
// unchanged. Companies without a derivable key are skipped.
func SaveCompanies(ctx context.Context, db *sql.DB, companies []trustpilot.Company) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, company := range companies {
		key := company.IdentityKey()
		if key == "" {
			continue
		}

		payload, err := json.Marshal(company)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO companies (id, domain, name, rating_value, review_count, country, source_url, payload)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				domain = excluded.domain,
				name = excluded.name,
				rating_value = excluded.rating_value,
				review_count = excluded.review_count,
				country = excluded.country,
				source_url = excluded.source_url,
				payload = excluded.payload
		`,
			key,
			company.Domain,
			company.Name,
			nullableFloat(company.RatingValue),
			nullableInt(company.ReviewCount),
			company.Country,
			company.SourceURL,
			string(payload),
		)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM reviews WHERE company_id = ?`, key)
		if err != nil {
			return err
		}
		for _, review := range company.Reviews {
			createdAt := any(nil)
			if review.Date.CreatedAt != nil {
				createdAt = *review.Date.CreatedAt
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO reviews (company_id, review_id, title, text, rating, created_at, consumer_name, consumer_country, consumer_verified)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				key,
				review.ID,
				review.Title,
				review.Text,
				nullableInt(review.Rating),
				createdAt,
				review.Consumer.DisplayName,
				review.Consumer.CountryCode,
				review.Consumer.IsVerified,
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
