package trustpilot

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"
	"trustpilot-scraper/lib/jsonval"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/trustpilot")

// overridable in tests to pin aiSummary.updatedAt
var now = func() time.Time { return time.Now().UTC() }

// ExtractCompanies scans page markup for ld+json structured-data blocks
// and returns a Company per business object found. Malformed blocks and
// objects outside the Organization/LocalBusiness type set are skipped
// silently. Objects yielding an already-seen id are folded, first
// occurrence wins.
func ExtractCompanies(htmlText string, baseURL string, categoryHint string) []Company {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		slog.Warn("failed to parse page markup", "err", err)
		return nil
	}

	var companies []Company
	seen := map[string]bool{}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, script *goquery.Selection) {
		raw := strings.TrimSpace(script.Text())
		if raw == "" {
			return
		}

		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			slog.Debug("skipping malformed ld+json block", "err", err)
			return
		}

		items := jsonval.List(data)
		if items == nil {
			items = []any{data}
		}
		for _, item := range items {
			obj := jsonval.Map(item)
			if obj == nil {
				continue
			}
			company, ok := companyFromLDJSON(obj, baseURL, categoryHint)
			if !ok {
				continue
			}
			if seen[company.ID] {
				continue
			}
			seen[company.ID] = true
			companies = append(companies, company)
		}
	})

	return companies
}

func isBusinessType(obj map[string]any) bool {
	for _, t := range jsonval.Strings(obj["@type"]) {
		switch strings.ToLower(t) {
		case "organization", "localbusiness":
			return true
		}
	}
	return false
}

func companyFromLDJSON(obj map[string]any, baseURL string, categoryHint string) (Company, bool) {
	if !isBusinessType(obj) {
		return Company{}, false
	}

	link := jsonval.Text(obj["url"])
	if link == "" {
		link = jsonval.Text(obj["@id"])
	}
	if strings.HasPrefix(link, "/") {
		link = resolveURL(baseURL, link)
	}

	agg := jsonval.Map(obj["aggregateRating"])
	ratingValue := jsonval.Float(agg["ratingValue"])
	reviewCount := jsonval.Int(agg["reviewCount"])

	addr := jsonval.FirstMap(obj["address"])

	website := ""
	switch sameAs := obj["sameAs"].(type) {
	case []any:
		// first entry pointing away from the review site is the
		// business's own website
		for _, entry := range sameAs {
			s, ok := entry.(string)
			if ok && !strings.Contains(s, "trustpilot") {
				website = s
				break
			}
		}
	case string:
		website = sameAs
	}

	domain := hostOf(website)
	if domain == "" {
		domain = hostOf(link)
	}

	id := jsonval.Text(obj["@id"])
	if id == "" {
		id = domain
	}
	if id == "" {
		id = link
	}

	categories := jsonval.Strings(obj["category"])
	if len(categories) == 0 {
		categories = jsonval.Strings(obj["keywords"])
	}
	if categories == nil {
		categories = []string{}
	}

	categoriesID := []string{}
	if categoryHint != "" {
		categoriesID = append(categoriesID, categoryHint)
	}

	company := Company{
		ID:                   id,
		Domain:               domain,
		RatingValue:          ratingValue,
		ReviewCount:          reviewCount,
		Name:                 jsonval.Text(obj["name"]),
		Description:          jsonval.Text(obj["description"]),
		Image:                jsonval.Text(obj["image"]),
		Country:              jsonval.Text(addr["addressCountry"]),
		Address:              jsonval.Text(addr["streetAddress"]),
		City:                 jsonval.Text(addr["addressLocality"]),
		ZipCode:              jsonval.Text(addr["postalCode"]),
		Website:              website,
		Phone:                jsonval.Text(obj["telephone"]),
		Categories:           categories,
		CategoriesID:         categoriesID,
		LastReviews:          []Review{},
		Reviews:              []Review{},
		Rating:               ratingSummary(agg, ratingValue, reviewCount),
		Data:                 histogram(reviewCount),
		SimilarBusinessUnits: []map[string]any{},
		SourceURL:            link,
	}
	company.AISummary = buildSummary(company)

	return company, true
}

func ratingSummary(agg map[string]any, ratingValue *float64, reviewCount *int) RatingSummary {
	best := jsonval.Text(agg["bestRating"])
	if best == "" {
		best = "5"
	}
	worst := jsonval.Text(agg["worstRating"])
	if worst == "" {
		worst = "1"
	}

	summary := RatingSummary{
		BestRating:  best,
		WorstRating: worst,
	}
	if ratingValue != nil {
		v := strconv.FormatFloat(*ratingValue, 'f', -1, 64)
		summary.RatingValue = &v
	}
	if reviewCount != nil {
		v := strconv.Itoa(*reviewCount)
		summary.ReviewCount = &v
	}
	return summary
}

func histogram(reviewCount *int) ReviewHistogram {
	total := 0
	if reviewCount != nil {
		total = *reviewCount
	}
	return ReviewHistogram{Total: total}
}

func resolveURL(baseURL string, ref string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ref
	}
	target, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(target).String()
}

func hostOf(link string) string {
	if link == "" {
		return ""
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return parsed.Host
}
