// Surfbot is a chat-command front end for web search and guided browsing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"surfbot/bot"
	"surfbot/config"
	"surfbot/content"
	"surfbot/fetcher"
	"surfbot/llm"
	"surfbot/search"
	"surfbot/session"
	"surfbot/transport"
)

func main() {
	configPath := flag.String("config", "surfbot.toml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "surfbot: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	provider, err := searchProvider(cfg)
	if err != nil {
		return err
	}

	fetch := fetcher.New(fetcher.Options{
		UserAgent:       cfg.Fetcher.UserAgent,
		TimeoutSeconds:  cfg.Fetcher.TimeoutSeconds,
		ChromePath:      cfg.Fetcher.ChromePath,
		BrowserFallback: cfg.Fetcher.BrowserFallback,
	})
	extractor := content.NewExtractor(cfg.Browse.SummaryLength, cfg.Browse.LinkLimit)
	sessions := session.NewMemoryRepository(time.Duration(cfg.Session.TTLMinutes) * time.Minute)

	generator := buildGenerator(cfg, logger)

	handler := bot.New(bot.Options{
		Sessions:    sessions,
		Provider:    provider,
		Fetcher:     fetch,
		Extractor:   extractor,
		Generator:   generator,
		Logger:      logger,
		Marker:      cfg.Bot.CommandMarker,
		ResultLimit: cfg.Search.ResultLimit,
		LinkDisplay: cfg.Browse.LinkDisplay,
		ChunkSize:   cfg.Browse.SummaryLength,
	})

	route := func(ctx context.Context, sender, text string) (string, error) {
		if reply, handled := handler.HandleInbound(ctx, sender, text); handled {
			return reply, nil
		}
		// Free text in chat mode goes to the conversational generator.
		if generator != nil {
			return generator.Complete(ctx, []llm.Message{{Role: "user", Content: text}})
		}
		return "Try " + cfg.Bot.CommandMarker + "search <query> to search the web, or " +
			cfg.Bot.CommandMarker + "help for all commands.", nil
	}

	webhook := transport.NewWebhook(route, logger)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-done
		logger.Info("shutting down")
		_ = webhook.Shutdown()
	}()

	logger.Info("listening",
		zap.String("addr", cfg.Transport.Addr),
		zap.String("searchProvider", provider.Name()))
	return webhook.Listen(cfg.Transport.Addr)
}

// searchProvider picks the provider named in config.
func searchProvider(cfg *config.Config) (search.Provider, error) {
	switch cfg.Search.Provider {
	case "serper":
		return search.NewSerper(cfg.Creds.SerperKey), nil
	case "duckduckgo":
		return search.NewDuckDuckGo(), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Search.Provider)
	}
}

// buildGenerator wires the conversational generator registry and selects
// the configured provider. A missing credential just means no generator.
func buildGenerator(cfg *config.Config, logger *zap.Logger) llm.Provider {
	registry := llm.NewRegistry()

	if cfg.Creds.OpenAIKey != "" {
		p, err := llm.NewOpenAI(cfg.Creds.OpenAIKey, cfg.LLM.Model)
		if err != nil {
			logger.Warn("openai provider unavailable", zap.Error(err))
		} else {
			registry.Register("openai", p)
		}
	}

	p, ok := registry.Get(cfg.LLM.Provider)
	if !ok {
		logger.Info("no conversational generator configured",
			zap.String("requested", cfg.LLM.Provider),
			zap.Strings("available", registry.Keys()))
		return nil
	}
	return p
}
