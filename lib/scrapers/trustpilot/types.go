package trustpilot

// Company is the canonical business record assembled from a listing or
// detail page. Field names follow the exported JSON schema, so json tags
// are load-bearing here.
type Company struct {
	ID          string   `json:"ID"`
	Domain      string   `json:"domain"`
	RatingValue *float64 `json:"ratingValue"`
	ReviewCount *int     `json:"reviewCount"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Country     string   `json:"country"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	ZipCode     string   `json:"zipCode"`
	Website     string   `json:"website"`
	// never populated, the site does not expose emails
	Email string `json:"email"`
	Phone string `json:"phone"`

	Categories   []string `json:"categories"`
	CategoriesID []string `json:"categoriesID"`

	LastReviews []Review `json:"lastReviews"`
	Reviews     []Review `json:"reviews"`

	Rating RatingSummary   `json:"rating"`
	Data   ReviewHistogram `json:"data"`

	SimilarBusinessUnits []map[string]any `json:"similarBusinessUnits"`
	AISummary            Summary          `json:"aiSummary"`
	SourceURL            string           `json:"sourceUrl"`
}

// IdentityKey is the deduplication key: declared id, then domain, then
// source page url. Empty when none of the three were derivable.
func (c Company) IdentityKey() string {
	if c.ID != "" {
		return c.ID
	}
	if c.Domain != "" {
		return c.Domain
	}
	return c.SourceURL
}

// RatingSummary mirrors the aggregate rating block as display strings.
type RatingSummary struct {
	BestRating  string  `json:"bestRating"`
	WorstRating string  `json:"worstRating"`
	RatingValue *string `json:"ratingValue"`
	ReviewCount *string `json:"reviewCount"`
}

// ReviewHistogram is the per-star review count breakdown. Listing pages
// only expose the aggregate count, so the star buckets stay zero and
// Total carries the aggregate.
type ReviewHistogram struct {
	One   int `json:"one"`
	Two   int `json:"two"`
	Three int `json:"three"`
	Four  int `json:"four"`
	Five  int `json:"five"`
	Total int `json:"total"`
}

// Summary is the generated plain-text description of a company.
type Summary struct {
	Summary   string `json:"summary"`
	Status    string `json:"status"`
	Lang      string `json:"lang"`
	UpdatedAt string `json:"updatedAt"`
}

// Review is one customer review scraped from a company detail page.
type Review struct {
	ID       string     `json:"id"`
	Text     string     `json:"text"`
	Title    string     `json:"title"`
	Rating   *int       `json:"rating"`
	Date     ReviewDate `json:"date"`
	Consumer Consumer   `json:"consumer"`
}

// ReviewDate holds the normalized creation timestamp. CreatedAt is nil
// when the card carried no date element at all; when normalization
// fails it holds the raw text verbatim.
type ReviewDate struct {
	CreatedAt *string `json:"createdAt"`
}

// Consumer is the review author. ID is always nil, the markup does not
// expose a consumer identifier.
type Consumer struct {
	ID              *string `json:"id"`
	DisplayName     string  `json:"displayName"`
	ImageURL        string  `json:"imageUrl"`
	IsVerified      bool    `json:"isVerified"`
	NumberOfReviews *int    `json:"numberOfReviews"`
	CountryCode     string  `json:"countryCode"`
}

// SearchParams is the user-provided input document: what to scrape and
// how to filter it. The numeric filter thresholds are deliberately `any`
// so numeric strings behave like numbers and malformed values degrade to
// "no threshold".
type SearchParams struct {
	SearchType           string `json:"searchType"`
	CategoryID           any    `json:"categoryId"`
	Keyword              string `json:"keyword"`
	Domain               string `json:"domain"`
	AllPages             bool   `json:"allPages"`
	Pages                int    `json:"pages"`
	IncludeReviews       bool   `json:"includeReviews"`
	MaxReviewsPerCompany *int   `json:"maxReviewsPerCompany"`
	Language             string `json:"language"`

	MinTrustScore any    `json:"minTrustScore"`
	VerifiedOnly  bool   `json:"verifiedOnly"`
	MinReviews    any    `json:"minReviews"`
	Country       string `json:"country"`
}

// Config is the scrape configuration file (json5).
type Config struct {
	BaseURL         string            `json:"baseUrl"`
	Headers         map[string]string `json:"headers"`
	Proxies         map[string]string `json:"proxies"`
	TimeoutSeconds  int               `json:"timeoutSeconds"`
	DefaultLanguage string            `json:"defaultLanguage"`
	MaxPages        int               `json:"maxPages"`
}
