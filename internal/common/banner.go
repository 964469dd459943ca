package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and logs the effective settings.
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.PrintSimple("Sticker", GetVersion())

	logger.Info().
		Str("version", GetFullVersion()).
		Str("host", config.Server.Host).
		Int("port", config.Server.Port).
		Str("badger_path", config.Storage.Badger.Path).
		Str("llm_provider", string(config.LLM.DefaultProvider)).
		Bool("eodhd_configured", config.EODHD.APIKey != "").
		Bool("scheduler_enabled", config.Scheduler.Enabled).
		Msg("Sticker starting")
}
