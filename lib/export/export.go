// Package export serializes the final company list to flat files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"trustpilot-scraper/lib/scrapers/trustpilot"
)

// WriteJSON writes the companies as an indented JSON array. An empty
// input still produces a valid "[]" document.
func WriteJSON(path string, companies []trustpilot.Company) error {
	if companies == nil {
		companies = []trustpilot.Company{}
	}

	buf, err := json.MarshalIndent(companies, "", "  ")
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}
	err = os.WriteFile(path, buf, 0644)
	if err != nil {
		return err
	}

	slog.Info("wrote json output", "path", path, "companies", len(companies))
	return nil
}

var csvHeader = []string{
	"ID", "domain", "name", "ratingValue", "reviewCount",
	"description", "image", "country", "address", "city", "zipCode",
	"website", "email", "phone", "categories", "categoriesID",
	"rating", "data", "lastReviews", "reviews",
	"similarBusinessUnits", "aiSummary", "sourceUrl",
}

// WriteCSV writes one row per company. List and map valued fields are
// JSON-stringified into their column; the header is written even for an
// empty input.
func WriteCSV(path string, companies []trustpilot.Company) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write(csvHeader)
	if err != nil {
		return err
	}
	for _, c := range companies {
		err = w.Write(companyRow(c))
		if err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	slog.Info("wrote csv output", "path", path, "companies", len(companies))
	return nil
}

func companyRow(c trustpilot.Company) []string {
	return []string{
		c.ID,
		c.Domain,
		c.Name,
		optFloat(c.RatingValue),
		optInt(c.ReviewCount),
		c.Description,
		c.Image,
		c.Country,
		c.Address,
		c.City,
		c.ZipCode,
		c.Website,
		c.Email,
		c.Phone,
		strings.Join(c.Categories, "; "),
		strings.Join(c.CategoriesID, "; "),
		stringify(c.Rating),
		stringify(c.Data),
		stringify(c.LastReviews),
		stringify(c.Reviews),
		stringify(c.SimilarBusinessUnits),
		stringify(c.AISummary),
		c.SourceURL,
	}
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func stringify(v any) string {
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(buf)
}
