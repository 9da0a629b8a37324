package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/lmfontes/noticias-radar/internal/aggregator"
	"github.com/lmfontes/noticias-radar/internal/cache"
	"github.com/lmfontes/noticias-radar/internal/config"
	"github.com/lmfontes/noticias-radar/internal/detail"
	"github.com/lmfontes/noticias-radar/internal/source"
)

// Entrada de linha de comandos para uma pesquisa única: útil para testar
// fontes e termos sem levantar o servidor.
func main() {
	hours := flag.Int("hours", 0, "janela de recência em horas (0 desliga o filtro)")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "uso: search [-hours N] <termo>")
		os.Exit(2)
	}

	cfg := config.Load()

	sources, err := source.Load(cfg.SourcesFile)
	if err != nil {
		log.Fatalf("load sources failed: %v", err)
	}

	contentCache := cache.New(cfg.CacheTTL, time.Now)
	detailFetcher := detail.NewFetcher()
	deep := func(url string) detail.Detail {
		return contentCache.GetOrFetch(url, detailFetcher.Fetch)
	}

	agg := aggregator.New(sources, deep, cfg.MaxConcurrentFetches, cfg.SearchDeadline)

	start := time.Now()
	results := agg.Search(context.Background(), query, *hours)
	log.Printf("search %q done: %d articles in %s", query, len(results), time.Since(start))

	type noticia struct {
		Titulo string `json:"titulo"`
		Resumo string `json:"resumo"`
		Fonte  string `json:"fonte"`
		URL    string `json:"url"`
		Data   string `json:"data"`
		Video  string `json:"video"`
	}
	out := make([]noticia, 0, len(results))
	for _, a := range results {
		data := ""
		if !a.PublishedAt.IsZero() {
			data = a.PublishedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, noticia{
			Titulo: a.Title,
			Resumo: a.Synopsis,
			Fonte:  a.Source,
			URL:    a.URL,
			Data:   data,
			Video:  a.VideoURL,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode results: %v", err)
	}
}
