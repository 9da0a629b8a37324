package main

import (
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lmfontes/noticias-radar/internal/aggregator"
	"github.com/lmfontes/noticias-radar/internal/api"
	"github.com/lmfontes/noticias-radar/internal/cache"
	"github.com/lmfontes/noticias-radar/internal/config"
	"github.com/lmfontes/noticias-radar/internal/detail"
	"github.com/lmfontes/noticias-radar/internal/scheduler"
	"github.com/lmfontes/noticias-radar/internal/source"
	"github.com/lmfontes/noticias-radar/internal/storage"
)

func main() {
	cfg := config.Load()

	sources, err := source.Load(cfg.SourcesFile)
	if err != nil {
		log.Fatalf("load sources failed: %v", err)
	}
	log.Printf("monitoring %d sources", len(sources))

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	// cache de detalhes partilhada por todas as pesquisas
	contentCache := cache.New(cfg.CacheTTL, time.Now)
	detailFetcher := detail.NewFetcher()
	deep := func(url string) detail.Detail {
		return contentCache.GetOrFetch(url, detailFetcher.Fetch)
	}

	agg := aggregator.New(sources, deep, cfg.MaxConcurrentFetches, cfg.SearchDeadline)

	sched, err := scheduler.New(contentCache, store)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	r := gin.Default()
	apiServer := api.NewServer(agg, store)
	apiServer.RegisterRoutes(r)

	// front-end estático com fallback de SPA, se configurado
	if cfg.WebRoot != "" {
		assetsDir := filepath.Join(cfg.WebRoot, "assets")
		indexFile := filepath.Join(cfg.WebRoot, "index.html")
		r.Static("/assets", assetsDir)
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet {
				c.Status(http.StatusNotFound)
				return
			}
			c.File(indexFile)
		})
	}

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
