package trustpilot

import (
	"context"
	"fmt"
	"time"
	"trustpilot-scraper/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; TrustpilotScraper/1.0; +https://bitbash.dev)"
const defaultTimeoutSeconds = 15

func newClient(cfg Config) *resty.Client {
	client := resty.New()

	headers := map[string]string{}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if headers["User-Agent"] == "" {
		headers["User-Agent"] = defaultUserAgent
	}
	client.SetHeaders(headers)

	proxy := cfg.Proxies["https"]
	if proxy == "" {
		proxy = cfg.Proxies["http"]
	}
	if proxy != "" {
		client.SetProxy(proxy)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds
	}
	client.SetTimeout(time.Duration(timeout) * time.Second)

	telemetry.InstrumentResty(client, "scrapers/trustpilot/http")
	return client
}

// fetchPage gets a single page and returns its body text. Non-2xx
// responses are errors; there are no retries.
func fetchPage(ctx context.Context, client *resty.Client, link string) (string, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("unexpected status %s from %s", res.Status(), link)
	}
	return res.String(), nil
}
