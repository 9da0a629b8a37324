package collector

import (
	"fmt"
	"log"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/lmfontes/noticias-radar/internal/source"
	"github.com/lmfontes/noticias-radar/internal/terms"
)

const (
	pageRequestTimeout = 9 * time.Second
	pageMaxBodyBytes   = 2 << 20
	// teto de candidatos recolhidos da landing page, em ordem de documento
	pageMaxCandidates = 20
	// teto de candidatos que sobem ao detail fetcher, para limitar a latência
	pageDeepBudget = 10
	// rejeita labels quase vazios ("Ver", "Já", ...)
	pageMinTitleRunes = 4
)

// PageFetcher faz scraping da landing page de uma fonte sem feed: apanha
// âncoras cujo texto visível corresponde aos termos e aprofunda cada candidato
// para recuperar data e resumo.
type PageFetcher struct {
	src  source.Source
	deep DetailFunc
	now  func() time.Time
}

func NewPageFetcher(src source.Source, deep DetailFunc) *PageFetcher {
	return &PageFetcher{src: src, deep: deep, now: time.Now}
}

func (p *PageFetcher) Name() string {
	return p.src.Name
}

type pageCandidate struct {
	title string
	url   string
}

func (p *PageFetcher) Fetch(set terms.Set, hours int) ([]Article, error) {
	c := colly.NewCollector(
		colly.UserAgent(browserUA),
	)
	c.SetRequestTimeout(pageRequestTimeout)
	c.MaxBodySize = pageMaxBodyBytes

	candidates := make([]pageCandidate, 0, pageMaxCandidates)
	seen := make(map[string]bool)

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if len(candidates) >= pageMaxCandidates {
			return
		}
		title := collapse(e.Text)
		if len([]rune(title)) < pageMinTitleRunes {
			return
		}
		if !set.Matches(title) {
			return
		}
		// resolve o href contra a base da fonte; sem URL absoluto não há artigo
		abs := e.Request.AbsoluteURL(e.Attr("href"))
		if abs == "" {
			return
		}
		key := title + "|" + abs
		if seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, pageCandidate{title: title, url: abs})
	})

	if err := c.Visit(p.src.PageURL); err != nil {
		return nil, fmt.Errorf("page %s: %w", p.src.Name, err)
	}

	now := p.now()
	results := make([]Article, 0, len(candidates))

	for i, cand := range candidates {
		if i >= pageDeepBudget {
			break
		}
		d := p.deep(cand.url)

		// os títulos das âncoras enganam; revalidar com o texto aprofundado
		if !set.Matches(cand.title + " " + d.Synopsis + " " + d.Body) {
			continue
		}

		published, ok := withinWindow(d.PublishedAt, now, hours)
		if !ok {
			continue
		}

		synopsis := d.Synopsis
		if synopsis == "" {
			synopsis = cand.title
		}

		results = append(results, Article{
			Title:       cand.title,
			Source:      p.src.Name,
			URL:         cand.url,
			PublishedAt: published,
			Synopsis:    synopsis,
			VideoURL:    VideoSearchURL(cand.title, p.src.Name),
		})
	}

	if len(results) == 0 {
		log.Printf("page %s: no matches for %v", p.src.Name, set.Terms())
	}
	return results, nil
}
