package aggregator

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/lmfontes/noticias-radar/internal/collector"
	"github.com/lmfontes/noticias-radar/internal/source"
	"github.com/lmfontes/noticias-radar/internal/terms"
)

// Aggregator espalha uma pesquisa por todas as fontes configuradas e junta
// os resultados num único ranking. Falhas de fontes individuais nunca abortam
// o agregado: degradam para contribuições vazias.
type Aggregator struct {
	fetchers []collector.Fetcher
	sem      chan struct{}
	deadline time.Duration
}

// New escolhe o adaptador de cada fonte uma única vez: feed quando a fonte
// declara um endpoint de feed, scraping de página caso contrário.
func New(sources []source.Source, deep collector.DetailFunc, maxConcurrent int, deadline time.Duration) *Aggregator {
	fetchers := make([]collector.Fetcher, 0, len(sources))
	for _, src := range sources {
		if src.HasFeed() {
			fetchers = append(fetchers, collector.NewFeedFetcher(src, deep))
		} else {
			fetchers = append(fetchers, collector.NewPageFetcher(src, deep))
		}
	}
	return NewWithFetchers(fetchers, maxConcurrent, deadline)
}

// NewWithFetchers liga o agregador a adaptadores já construídos; é a porta
// de entrada dos testes.
func NewWithFetchers(fetchers []collector.Fetcher, maxConcurrent int, deadline time.Duration) *Aggregator {
	if maxConcurrent <= 0 {
		maxConcurrent = 50
	}
	if deadline <= 0 {
		deadline = 30 * time.Second
	}
	return &Aggregator{
		fetchers: fetchers,
		sem:      make(chan struct{}, maxConcurrent),
		deadline: deadline,
	}
}

// Search expande a query e consulta todas as fontes em simultâneo.
// Query que normaliza para vazio devolve lista vazia sem tocar na rede.
func (a *Aggregator) Search(ctx context.Context, query string, hours int) []collector.Article {
	set := terms.Expand(query)
	if set.Empty() {
		return []collector.Article{}
	}

	ctx, cancel := context.WithTimeout(ctx, a.deadline)
	defer cancel()

	type sourceResult struct {
		idx      int
		articles []collector.Article
	}
	results := make(chan sourceResult, len(a.fetchers))
	var wg sync.WaitGroup

	for i, f := range a.fetchers {
		wg.Add(1)
		go func(idx int, f collector.Fetcher) {
			defer wg.Done()

			select {
			case a.sem <- struct{}{}:
				defer func() { <-a.sem }()
			case <-ctx.Done():
				log.Printf("search: %s skipped, deadline reached", f.Name())
				return
			}

			articles, err := f.Fetch(set, hours)
			if err != nil {
				log.Printf("search: fetch %s error: %v", f.Name(), err)
				return
			}
			results <- sourceResult{idx: idx, articles: articles}
		}(i, f)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// resultados indexados pela posição no catálogo, para a precedência do
	// dedup não depender da ordem de chegada das goroutines
	collected := make([][]collector.Article, len(a.fetchers))
	for {
		select {
		case r := <-results:
			collected[r.idx] = r.articles
		case <-done:
			// esvaziar o que ainda ficou no canal antes de juntar
			for {
				select {
				case r := <-results:
					collected[r.idx] = r.articles
				default:
					return merge(collected)
				}
			}
		case <-ctx.Done():
			// prazo esgotado: devolve o que já chegou. As goroutines ainda
			// em curso terminam sozinhas dentro dos timeouts por pedido e
			// escrevem num canal com buffer, por isso não ficam presas.
			log.Printf("search: deadline reached, returning partial results")
			return merge(collected)
		}
	}
}

// merge junta as contribuições por ordem de catálogo, deduplica por URL
// canónico (a primeira ocorrência ganha) e ordena por data descendente.
func merge(collected [][]collector.Article) []collector.Article {
	merged := make([]collector.Article, 0, 64)
	seen := make(map[string]struct{})

	for _, contribution := range collected {
		for _, art := range contribution {
			if _, ok := seen[art.URL]; ok {
				continue
			}
			seen[art.URL] = struct{}{}
			merged = append(merged, art)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		ai, aj := merged[i], merged[j]
		iz, jz := ai.PublishedAt.IsZero(), aj.PublishedAt.IsZero()
		// artigos sem data vão para o fim
		if iz != jz {
			return !iz
		}
		if !iz && !ai.PublishedAt.Equal(aj.PublishedAt) {
			return ai.PublishedAt.After(aj.PublishedAt)
		}
		// desempate estável: fonte e depois título, ascendente
		if ai.Source != aj.Source {
			return ai.Source < aj.Source
		}
		return ai.Title < aj.Title
	})

	return merged
}
