package trustpilot

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"trustpilot-scraper/lib/jsonval"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultBaseURL = "https://www.trustpilot.com"
const defaultMaxPages = 5

// SearchCompanies runs one scrape: fetch the listing/detail pages for
// the requested mode, extract companies, deduplicate, link similar
// businesses and optionally attach reviews. Validation problems (bad
// mode, missing mode parameter) abort with an error; per-page fetch
// failures only shrink the result.
func SearchCompanies(ctx context.Context, params SearchParams, cfg Config) ([]Company, error) {
	ctx, span := tracer.Start(ctx, "SearchCompanies")
	defer span.End()

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := newClient(cfg)

	searchType := strings.ToLower(params.SearchType)
	if searchType == "" {
		searchType = "category"
	}
	span.SetAttributes(attribute.String("search_type", searchType))
	slog.Info("starting search", "type", searchType)

	var companies []Company
	var err error
	switch searchType {
	case "category":
		companies, err = searchByCategory(ctx, client, baseURL, params, cfg)
	case "keyword":
		companies, err = searchByKeyword(ctx, client, baseURL, params, cfg)
	case "detail":
		companies, err = searchDetail(ctx, client, baseURL, params)
	default:
		err = fmt.Errorf("unsupported searchType: %q", params.SearchType)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	companies = dedupCompanies(companies)
	LinkSimilar(companies)
	attachReviews(ctx, client, companies, params, cfg)

	slog.Info("search completed", "unique_companies", len(companies))
	return companies, nil
}

// page-count policy: the allPages flag defers to the configured safety
// cap, otherwise the requested page count with a floor of one.
func pagesToFetch(params SearchParams, cfg Config) int {
	if params.AllPages {
		if cfg.MaxPages > 0 {
			return cfg.MaxPages
		}
		return defaultMaxPages
	}
	if params.Pages < 1 {
		return 1
	}
	return params.Pages
}

func searchByCategory(ctx context.Context, client *resty.Client, baseURL string, params SearchParams, cfg Config) ([]Company, error) {
	categoryID := strings.TrimSpace(jsonval.Text(params.CategoryID))
	if categoryID == "" {
		return nil, fmt.Errorf(`searchType "category" requires "categoryId"`)
	}

	var companies []Company
	for page := 1; page <= pagesToFetch(params, cfg); page++ {
		link := fmt.Sprintf("%s/categories/%s?page=%d", baseURL, categoryID, page)
		htmlText, err := fetchPage(ctx, client, link)
		if err != nil {
			slog.Warn("skipping category page", "url", link, "err", err)
			continue
		}
		batch := ExtractCompanies(htmlText, baseURL, categoryID)
		slog.Info("category page scraped", "page", page, "companies", len(batch))
		companies = append(companies, batch...)
	}
	return companies, nil
}

func searchByKeyword(ctx context.Context, client *resty.Client, baseURL string, params SearchParams, cfg Config) ([]Company, error) {
	keyword := strings.TrimSpace(params.Keyword)
	if keyword == "" {
		return nil, fmt.Errorf(`searchType "keyword" requires "keyword"`)
	}

	var companies []Company
	for page := 1; page <= pagesToFetch(params, cfg); page++ {
		link := fmt.Sprintf("%s/search?query=%s&page=%d", baseURL, url.QueryEscape(keyword), page)
		htmlText, err := fetchPage(ctx, client, link)
		if err != nil {
			slog.Warn("skipping search page", "url", link, "err", err)
			continue
		}
		batch := ExtractCompanies(htmlText, baseURL, "")
		slog.Info("search page scraped", "page", page, "companies", len(batch))
		companies = append(companies, batch...)
	}
	return companies, nil
}

func searchDetail(ctx context.Context, client *resty.Client, baseURL string, params SearchParams) ([]Company, error) {
	domain := strings.TrimSpace(params.Domain)
	if domain == "" {
		return nil, fmt.Errorf(`searchType "detail" requires "domain"`)
	}

	link := fmt.Sprintf("%s/review/%s", baseURL, domain)
	htmlText, err := fetchPage(ctx, client, link)
	if err != nil {
		slog.Warn("failed to fetch detail page", "url", link, "err", err)
		return nil, nil
	}

	companies := ExtractCompanies(htmlText, baseURL, "")
	if len(companies) == 0 {
		slog.Warn("no company metadata found for domain", "domain", domain)
	}
	return companies, nil
}

// dedupCompanies folds companies sharing an identity key, first
// occurrence wins, order of first appearance preserved. Entries with no
// derivable key at all are dropped.
func dedupCompanies(companies []Company) []Company {
	unique := make([]Company, 0, len(companies))
	seen := map[string]bool{}
	for _, c := range companies {
		key := c.IdentityKey()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}
	return unique
}

func attachReviews(ctx context.Context, client *resty.Client, companies []Company, params SearchParams, cfg Config) {
	if !params.IncludeReviews {
		return
	}

	language := params.Language
	if language == "" {
		language = cfg.DefaultLanguage
	}
	if language == "" {
		language = "en"
	}

	for i := range companies {
		company := &companies[i]
		if company.SourceURL == "" {
			continue
		}

		reviews, err := fetchReviews(ctx, client, company.SourceURL, language)
		if err != nil {
			slog.Error("failed fetching reviews", "url", company.SourceURL, "err", err)
			continue
		}

		if reviews == nil {
			reviews = []Review{}
		}
		if limit := params.MaxReviewsPerCompany; limit != nil && *limit >= 0 && len(reviews) > *limit {
			reviews = reviews[:*limit]
		}
		company.Reviews = reviews
		if len(reviews) > 3 {
			company.LastReviews = reviews[:3]
		} else {
			company.LastReviews = reviews
		}
	}
}

func fetchReviews(ctx context.Context, client *resty.Client, companyURL string, language string) ([]Review, error) {
	ctx, span := tracer.Start(ctx, "fetchReviews")
	defer span.End()

	res, err := client.R().
		SetContext(ctx).
		SetQueryParam("languages", language).
		Get(companyURL)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("unexpected status %s from %s", res.Status(), companyURL)
	}

	reviews := ExtractReviews(ctx, res.String())
	slog.Info("parsed reviews", "url", companyURL, "count", len(reviews))
	return reviews, nil
}
