package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kova98/harvest/config"
	"github.com/kova98/harvest/handlers"
	"github.com/kova98/harvest/sources"
	"github.com/kova98/harvest/transport"
)

func main() {
	config.LoadConfig()

	logger := newLogger()
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := transport.NewMetrics(registry)

	pool, err := transport.NewProxyPool(logger, config.Config.ProxyURLs, config.Config.ProxyMinInterval)
	if err != nil {
		slog.Error("failed to create proxy pool", "error", err)
		os.Exit(1)
	}
	client := transport.NewClient(logger, pool, metrics)

	settings := sources.FetchSettings{
		MaxRetries:      config.Config.FetchMaxRetries,
		Timeout:         config.Config.FetchTimeout,
		FollowRedirects: config.Config.FetchFollowRedirects,
	}
	marketplace := sources.NewMarketplaceSource(logger, client, metrics, settings)
	reddit := sources.NewRedditSource(logger, client, settings)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if config.Config.MonitorEnabled && len(config.Config.MonitorQueries) > 0 {
		monitor := NewMonitor(logger, marketplace, MonitorOptions{
			Queries:    config.Config.MonitorQueries,
			Interval:   config.Config.MonitorInterval,
			SinceHours: config.Config.MonitorSinceHours,
			Limit:      config.Config.MonitorLimit,
			MatchMode:  config.Config.MonitorMatchMode,
			MaxSeen:    config.Config.MonitorMaxSeen,
		})
		monitor.Start(ctx)
	}

	listings := handlers.NewMarketplaceHandler(marketplace)
	posts := handlers.NewRedditHandler(reddit)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /marketplace/search", public(listings.Search))
	mux.HandleFunc("GET /marketplace/listings/{id}", public(listings.GetListing))
	mux.HandleFunc("GET /marketplace/categories", public(listings.GetCategories))
	mux.HandleFunc("GET /marketplace/new", public(listings.GetNewListings))

	mux.HandleFunc("GET /reddit/search", public(posts.SearchPosts))
	mux.HandleFunc("GET /reddit/trending", public(posts.GetTrending))
	mux.HandleFunc("GET /reddit/r/{subreddit}/top", public(posts.GetSubredditTop))
	mux.HandleFunc("GET /reddit/threads/{id}", public(posts.GetThread))

	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
		slog.Info("proxy stats", "stats", pool.Stats())
		os.Exit(0)
	}()

	slog.Info("Starting server", "port", config.Config.Port)
	err = http.ListenAndServe(":"+config.Config.Port, withCORS(mux))
	if err != nil {
		slog.Error("failed to start server", "error", err)
	}
}

func newLogger() *slog.Logger {
	if config.Config.IsProduction() {
		opts := slog.HandlerOptions{Level: config.Config.LogLevel}
		return slog.New(slog.NewJSONHandler(os.Stdout, &opts))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      config.Config.LogLevel,
		TimeFormat: time.Kitchen,
	}))
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func public(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsedMs := time.Since(ts).Milliseconds()
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsedMs)
		writeResult(w, res)
	}
}

func writeResult(w http.ResponseWriter, res handlers.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
	switch {
	case res.Code == http.StatusInternalServerError:
		slog.Error("internal error", "error", res.Error.Error())
	case res.Code == http.StatusBadGateway && res.Error != nil:
		slog.Warn("upstream error", "error", res.Error.Error())
	}
}
