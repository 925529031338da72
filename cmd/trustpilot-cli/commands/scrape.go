package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"
	"trustpilot-scraper/lib/configutil"
	"trustpilot-scraper/lib/export"
	"trustpilot-scraper/lib/scrapers/trustpilot"
	"trustpilot-scraper/lib/telemetry"
	"trustpilot-scraper/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scrapeInput *string
var scrapeOutput *string
var scrapeCsv *string
var scrapeDb *string
var scrapeConfig *string
var scrapeVerbose *bool

func init() {
	scrapeInput = scrapeCmd.Flags().String("input", "input.json", "Path to the input JSON describing scrape parameters.")
	scrapeOutput = scrapeCmd.Flags().String("output", "output.json", "Path where scraped JSON output will be stored.")
	scrapeCsv = scrapeCmd.Flags().String("csv", "", "Optional path for a CSV copy of the output.")
	scrapeDb = scrapeCmd.Flags().String("db", "", "Optional sqlite database to write scrape results to.")
	scrapeConfig = scrapeCmd.Flags().String("config", "config.json5", "Path to configuration JSON (headers, base URL, etc.).")
	scrapeVerbose = scrapeCmd.Flags().BoolP("verbose", "v", false, "Enable verbose debug logging.")
	rootCmd.AddCommand(scrapeCmd)
}

func loadParams(path string) (trustpilot.SearchParams, error) {
	var params trustpilot.SearchParams
	buf, err := os.ReadFile(path)
	if err != nil {
		return params, err
	}
	err = json.Unmarshal(buf, &params)
	if err != nil {
		return params, fmt.Errorf("input JSON must be a single object with scrape parameters: %w", err)
	}
	return params, nil
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--input <in.json>] [--output <out.json>]",
	Short: "Scrapes companies according to the input parameters and exports them.",
	Run: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*scrapeVerbose)

		params, err := loadParams(*scrapeInput)
		if err != nil {
			fatal("failed to load input parameters", err)
		}

		cfg, err := configutil.ReadConfig[trustpilot.Config](*scrapeConfig)
		if os.IsNotExist(err) {
			slog.Warn("no config file found, using defaults", "path", *scrapeConfig)
		} else if err != nil {
			fatal("failed to read config", err)
		}

		t1 := time.Now()
		companies, err := trustpilot.SearchCompanies(cmd.Context(), params, cfg)
		if err != nil {
			fatal("failed during company search", err)
		}
		companies = trustpilot.FilterCompanies(companies, params)
		t2 := time.Now()

		if len(companies) == 0 {
			slog.Warn("no companies found after scraping and filtering")
		}

		err = export.WriteJSON(*scrapeOutput, companies)
		if err != nil {
			fatal("failed exporting output", err)
		}
		if *scrapeCsv != "" {
			err = export.WriteCSV(*scrapeCsv, companies)
			if err != nil {
				fatal("failed exporting csv", err)
			}
		}
		if *scrapeDb != "" {
			db, err := store.Open(*scrapeDb)
			if err != nil {
				fatal("failed to open db", err)
			}
			defer db.Close()
			err = store.SaveCompanies(cmd.Context(), db, companies)
			if err != nil {
				fatal("failed saving companies to db", err)
			}
		}

		renderSummary(companies)
		slog.Info("scraping completed",
			"companies", len(companies),
			"seconds", t2.Sub(t1).Seconds(),
			"output", *scrapeOutput,
		)
	},
}

func renderSummary(companies []trustpilot.Company) {
	if len(companies) == 0 {
		return
	}

	t := newTable()
	t.AppendHeader(table.Row{"Name", "Domain", "Rating", "Reviews", "Country"})
	for _, c := range companies {
		rating := ""
		if c.RatingValue != nil {
			rating = fmt.Sprintf("%.1f", *c.RatingValue)
		}
		reviews := ""
		if c.ReviewCount != nil {
			reviews = fmt.Sprint(*c.ReviewCount)
		}
		t.AppendRow(table.Row{c.Name, c.Domain, rating, reviews, c.Country})
	}
	t.Render()
}
