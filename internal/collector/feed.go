package collector

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/lmfontes/noticias-radar/internal/detail"
	"github.com/lmfontes/noticias-radar/internal/source"
	"github.com/lmfontes/noticias-radar/internal/terms"
)

const (
	feedClientTimeout = 8 * time.Second
	// teto de entradas processadas por feed, em ordem de documento
	feedMaxItems = 25
	// orçamento de deep-fetches por feed, gasto pela mesma ordem
	feedDeepBudget = 8
)

// FeedFetcher lê uma fonte com feed RSS/Atom, filtra por termos e aprofunda
// entradas sem data (ou ainda sem match) dentro de um orçamento limitado.
type FeedFetcher struct {
	src  source.Source
	deep DetailFunc
	now  func() time.Time
}

func NewFeedFetcher(src source.Source, deep DetailFunc) *FeedFetcher {
	return &FeedFetcher{src: src, deep: deep, now: time.Now}
}

func (f *FeedFetcher) Name() string {
	return f.src.Name
}

func (f *FeedFetcher) Fetch(set terms.Set, hours int) ([]Article, error) {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: feedClientTimeout}
	parser.UserAgent = browserUA

	feed, err := parser.ParseURL(f.src.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", f.src.Name, err)
	}

	items := feed.Items
	if len(items) > feedMaxItems {
		items = items[:feedMaxItems]
	}

	now := f.now()
	budget := feedDeepBudget
	results := make([]Article, 0, len(items))

	for _, it := range items {
		title := collapse(it.Title)
		link := it.Link
		if title == "" || link == "" {
			continue
		}

		desc := collapse(it.Description)
		if desc == "" {
			desc = title
		}

		published := firstFeedDate(it)
		matched := set.Matches(title + " " + desc)

		// entradas sem match ou sem data sobem ao artigo enquanto houver orçamento
		if (!matched || published.IsZero()) && budget > 0 {
			budget--
			d := f.deep(link)
			if published.IsZero() {
				published = d.PublishedAt
			}
			if d.Synopsis != "" {
				desc = d.Synopsis
			}
			if !matched {
				matched = set.Matches(title + " " + d.Synopsis + " " + d.Body)
			}
		}
		if !matched {
			continue
		}

		published, ok := withinWindow(published, now, hours)
		if !ok {
			continue
		}

		results = append(results, Article{
			Title:       title,
			Source:      f.src.Name,
			URL:         link,
			PublishedAt: published,
			Synopsis:    desc,
			VideoURL:    VideoSearchURL(title, f.src.Name),
		})
	}

	if len(results) == 0 {
		log.Printf("feed %s: no matches for %v", f.src.Name, set.Terms())
	}
	return results, nil
}

// firstFeedDate tenta os campos de data habituais de um feed, por ordem:
// os já interpretados pelo gofeed e depois os valores crus.
func firstFeedDate(it *gofeed.Item) time.Time {
	if it.PublishedParsed != nil {
		return *it.PublishedParsed
	}
	if it.UpdatedParsed != nil {
		return *it.UpdatedParsed
	}
	candidates := []string{it.Published, it.Updated}
	if it.DublinCoreExt != nil {
		candidates = append(candidates, it.DublinCoreExt.Date...)
	}
	return detail.FirstDate(candidates...)
}
