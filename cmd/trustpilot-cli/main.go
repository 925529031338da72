package main

import (
	"context"
	"trustpilot-scraper/cmd/trustpilot-cli/commands"
	"trustpilot-scraper/lib/telemetry"
)

func main() {
	ctx := context.Background()
	telemetry.InitSlog(false)
	tel, err := telemetry.SetupFromEnv(ctx, "trustpilot-cli")
	if err == nil {
		defer tel.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)
	}
	commands.ExecuteContext(ctx)
}
