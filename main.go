package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/milk9111/arrowtrap/internal/config"
	"github.com/milk9111/arrowtrap/internal/logging"
	"github.com/milk9111/arrowtrap/internal/telemetry"
	"github.com/milk9111/arrowtrap/prefabs"
	"github.com/rs/zerolog"
)

func main() {
	configDir := flag.String("config", ".", "directory holding arrowtrap.yaml")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	jsonLogs := flag.Bool("json", false, "emit JSON logs")
	hotReload := flag.Bool("watch", false, "reload prefabs from disk when they change")
	flag.Parse()

	settings, err := config.Load(*configDir)
	if err != nil {
		fallback := logging.New(os.Stderr, "error", logging.FormatConsole)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}
	if *levelName != "" {
		settings.Level = *levelName
	}
	if *hotReload {
		settings.HotReload = true
	}
	format := logging.Format(settings.LogFormat)
	if *jsonLogs {
		format = logging.FormatJSON
	}

	runID := uuid.NewString()
	log := logging.New(os.Stderr, settings.LogLevel, format).With().Str("run", runID).Logger()

	metrics := telemetry.Nop()
	if settings.Metrics {
		if metrics, err = telemetry.New(); err != nil {
			log.Fatal().Err(err).Msg("failed to create metrics")
		}
		defer metrics.Shutdown(context.Background())
	}

	prefabs.SetDir(settings.PrefabDir)

	var watcher *prefabs.Watcher
	if settings.HotReload {
		watcher, err = prefabs.NewWatcher(settings.PrefabDir)
		if err != nil {
			log.Warn().Err(err).Str("dir", settings.PrefabDir).Msg("prefab hot reload disabled")
		} else {
			defer watcher.Close()
		}
	}

	game, err := NewGame(settings, log, metrics, watcher)
	if err != nil {
		log.Fatal().Err(err).Str("level", settings.Level).Msg("failed to start encounter")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary := game.Run(ctx)
	logSummary(log, summary)
}

func logSummary(log zerolog.Logger, s Summary) {
	log.Info().
		Str("level", s.Level).
		Int("ticks", s.Ticks).
		Float64("elapsed", s.Elapsed).
		Int("volleys", s.Volleys).
		Int("projectiles", s.Projectiles).
		Int("hits", s.Hits).
		Int("stops", s.Stops).
		Bool("player_alive", s.PlayerAlive).
		Float64("player_health", s.PlayerHealth).
		Msg("encounter finished")

	if s.Counters == nil {
		return
	}
	counters := zerolog.Dict()
	for name, v := range s.Counters {
		counters.Int64(name, v)
	}
	log.Info().Dict("counters", counters).Msg("encounter metrics")
}
