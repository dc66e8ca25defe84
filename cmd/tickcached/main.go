// Command tickcached runs the HTTP demo server around a tickcache.Cache.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/arynux/tickcache"
	httpAdapter "github.com/arynux/tickcache/internal/adapter/http"
)

const (
	Version     = "1.0.0"
	ServiceName = "tickcached"
)

type config struct {
	Port string

	MaxEntries    int
	WheelSize     int
	BudgetPerTick int
	TickInterval  time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	ShutdownTimeout  time.Duration

	EnableCORS bool
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	printBanner(cfg)

	c, err := tickcache.New[string, []byte](cfg.MaxEntries,
		tickcache.WithWheelSize[string, []byte](cfg.WheelSize),
		tickcache.WithBudgetPerTick[string, []byte](cfg.BudgetPerTick),
		tickcache.WithTickInterval[string, []byte](cfg.TickInterval),
	)
	if err != nil {
		log.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	httpCfg := httpAdapter.DefaultServerConfig()
	httpCfg.Port, _ = strconv.Atoi(cfg.Port)
	httpCfg.ReadTimeout = cfg.HTTPReadTimeout
	httpCfg.WriteTimeout = cfg.HTTPWriteTimeout
	httpCfg.IdleTimeout = cfg.HTTPIdleTimeout
	httpCfg.EnableCORS = cfg.EnableCORS

	srv := httpAdapter.NewServerWithConfig(c, httpCfg)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	gracefulShutdown(cfg, srv, c)
}

func loadConfig() (*config, error) {
	cfg := &config{
		Port: getenv("PORT", "8080"),

		MaxEntries:    getenvInt("MAX_ENTRIES", 1_000_000),
		WheelSize:     getenvInt("WHEEL_SIZE", 4096),
		BudgetPerTick: getenvInt("BUDGET_PER_TICK", 200_000),
		TickInterval:  getenvDuration("TICK_INTERVAL", 50*time.Millisecond),

		HTTPReadTimeout:  getenvDuration("HTTP_READ_TIMEOUT", 30*time.Second),
		HTTPWriteTimeout: getenvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		HTTPIdleTimeout:  getenvDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout:  getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		EnableCORS: getenvBool("ENABLE_CORS", true),
	}

	if cfg.MaxEntries < 1 {
		return nil, fmt.Errorf("MAX_ENTRIES must be >= 1, got %d", cfg.MaxEntries)
	}

	return cfg, nil
}

func printBanner(cfg *config) {
	fmt.Printf(`
========================================
   %s v%s
========================================
  TTL + LRU in-process cache, HTTP demo
========================================

Config:
  HTTP:            :%s
  MaxEntries:      %d
  WheelSize:       %d
  BudgetPerTick:   %d
  TickInterval:    %s

Endpoints:
  Health:          http://localhost:%s/health
  Stats:           http://localhost:%s/v1/stats
  Keys:            http://localhost:%s/v1/keys/{key}
  Metrics:         http://localhost:%s/metrics

========================================
`,
		ServiceName, Version,
		cfg.Port, cfg.MaxEntries, cfg.WheelSize, cfg.BudgetPerTick, cfg.TickInterval,
		cfg.Port, cfg.Port, cfg.Port, cfg.Port,
	)
}

func gracefulShutdown(cfg *config, srv *httpAdapter.Server, c *tickcache.Cache[string, []byte]) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigCh
	log.Printf("signal received: %v, starting graceful shutdown", sig)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	stats := c.Stats()
	log.Printf("final stats: size=%d hits=%d misses=%d evictions=%d", stats.Size, stats.Hits, stats.Misses, stats.Evictions)
	log.Println("shutdown complete")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
