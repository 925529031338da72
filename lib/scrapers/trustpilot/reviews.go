package trustpilot

import (
	"context"
	"strings"
	"time"
	"trustpilot-scraper/lib/htmlutil"
	"trustpilot-scraper/lib/jsonval"
	"trustpilot-scraper/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// fieldStrategy is one way of pulling a field out of a review card.
// Strategies are tried in order, first non-empty result wins. The site's
// markup changes over time, so every field keeps a fallback chain
// instead of a single selector.
type fieldStrategy func(card *goquery.Selection) string

func firstOf(card *goquery.Selection, strategies ...fieldStrategy) string {
	for _, s := range strategies {
		v := textutil.CollapseWhitespace(s(card))
		if v != "" {
			return v
		}
	}
	return ""
}

func textOf(selector string) fieldStrategy {
	return func(card *goquery.Selection) string {
		return card.Find(selector).First().Text()
	}
}

func attrOf(selector, attr string) fieldStrategy {
	return func(card *goquery.Selection) string {
		return card.Find(selector).First().AttrOr(attr, "")
	}
}

// ExtractReviews parses every review card on a company detail page, in
// document order. The page renders most recent first; that order is
// preserved as-is, there is no re-sort by parsed date.
func ExtractReviews(ctx context.Context, htmlText string) []Review {
	ctx, span := tracer.Start(ctx, "ExtractReviews")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}

	cards := doc.Find("[data-service-review-id]")
	if cards.Length() == 0 {
		cards = doc.Find(".review-card")
	}

	var reviews []Review
	cards.Each(func(_ int, card *goquery.Selection) {
		reviews = append(reviews, reviewFromCard(ctx, card))
	})
	return reviews
}

func reviewFromCard(ctx context.Context, card *goquery.Selection) Review {
	title := firstOf(card,
		textOf("h2"),
		textOf(".review-title"),
	)
	text := firstOf(card,
		textOf("[data-review-text-typography]"),
		textOf(".review-content__text"),
	)

	id := card.AttrOr("data-service-review-id", "")
	if id == "" {
		id = reviewIDFromAnchors(ctx, card)
	}

	return Review{
		ID:       id,
		Text:     text,
		Title:    title,
		Rating:   extractRating(card),
		Date:     extractDate(card),
		Consumer: consumerFromCard(card),
	}
}

func extractRating(card *goquery.Selection) *int {
	if v := card.Find("[data-rating]").First().AttrOr("data-rating", ""); v != "" {
		return jsonval.Int(v)
	}
	if v := card.Find("[data-service-review-rating]").First().AttrOr("data-service-review-rating", ""); v != "" {
		return jsonval.Int(v)
	}

	// star icons carry labels like "Rated 5 out of 5 stars"
	label := card.Find(`[aria-label*="Rated"]`).First().AttrOr("aria-label", "")
	for _, token := range strings.Fields(label) {
		if n := jsonval.Int(token); n != nil {
			return n
		}
	}
	return nil
}

func extractDate(card *goquery.Selection) ReviewDate {
	raw := firstOf(card,
		attrOf("time", "datetime"),
		textOf("time"),
	)
	if raw == "" {
		return ReviewDate{}
	}
	normalized := normalizeDate(raw)
	return ReviewDate{CreatedAt: &normalized}
}

var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// normalizeDate re-emits a parseable ISO-8601 timestamp with an explicit
// numeric offset, tolerating the literal "Z" suffix as UTC. Unparseable
// input comes back verbatim.
func normalizeDate(raw string) string {
	s := raw
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Format(layout)
		}
	}
	return raw
}

func reviewIDFromAnchors(ctx context.Context, card *goquery.Selection) string {
	anchors := htmlutil.GetAnchors(ctx, card.Find("a"))
	if len(anchors) == 0 {
		return ""
	}
	return htmlutil.LastPathSegment(anchors[0].Href)
}

func consumerFromCard(card *goquery.Selection) Consumer {
	name := firstOf(card,
		textOf("[data-consumer-name]"),
		textOf(".consumer-information__name"),
	)

	imageURL := card.Find("img").First().AttrOr("src", "")

	countryCode := ""
	countryText := firstOf(card,
		textOf("[data-consumer-country]"),
		textOf(".consumer-information__details"),
	)
	// anything longer than a country code is some other detail text
	if countryText != "" && len(countryText) <= 3 {
		countryCode = strings.ToUpper(countryText)
	}

	reviewCount := jsonval.Int(
		card.Find("[data-consumer-reviews-count]").First().
			AttrOr("data-consumer-reviews-count", ""),
	)

	verified := card.Find(".badge--verified").Length() > 0 ||
		card.Find(`[data-review-verified="true"]`).Length() > 0

	return Consumer{
		DisplayName:     name,
		ImageURL:        imageURL,
		IsVerified:      verified,
		NumberOfReviews: reviewCount,
		CountryCode:     countryCode,
	}
}
