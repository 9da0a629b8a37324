package detail

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	fetchTimeout     = 9 * time.Second
	maxBodyBytes     = 2 << 20 // 2MB, páginas de notícias maiores que isto são lixo
	synopsisMaxRunes = 350
	bodyMaxRunes     = 2000

	// muitos sites rejeitam clientes sem assinatura de browser
	browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Detail é o resultado de aprofundar um artigo individual.
// PublishedAt zero significa "sem data conhecida".
type Detail struct {
	PublishedAt time.Time
	Synopsis    string
	Body        string
}

// IsZero indica o sentinela devolvido quando o fetch ou o parse falham.
func (d Detail) IsZero() bool {
	return d.PublishedAt.IsZero() && d.Synopsis == "" && d.Body == ""
}

// Fetcher vai buscar a página de um artigo e extrai data de publicação e resumo.
// Nunca devolve erro para cima: qualquer falha degrada para um Detail vazio.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

func (f *Fetcher) Fetch(url string) Detail {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return Detail{}
	}
	req.Header.Set("User-Agent", browserUA)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("detail: fetch %s: %v", url, err)
		return Detail{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("detail: fetch %s: status %d", url, resp.StatusCode)
		return Detail{}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Printf("detail: parse %s: %v", url, err)
		return Detail{}
	}

	return Extract(doc)
}

// dateSelectors por ordem de prioridade; content/datetime com o primeiro não vazio ganha.
var dateSelectors = []string{
	`meta[property="article:published_time"]`,
	`meta[name="article:published_time"]`,
	`meta[name="pubdate"]`,
	`meta[property="og:updated_time"]`,
	`meta[name="date"]`,
	`meta[name="dc.date"]`,
	`time[datetime]`,
}

var descriptionSelectors = []string{
	`meta[property="og:description"]`,
	`meta[name="twitter:description"]`,
	`meta[name="description"]`,
}

// Extract aplica a cadeia de extração a um documento já carregado.
// Separado do fetch para poder ser testado com fixtures.
func Extract(doc *goquery.Document) Detail {
	var d Detail

	for _, sel := range dateSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		raw, ok := el.Attr("content")
		if !ok {
			raw, _ = el.Attr("datetime")
		}
		if ts := ParseDate(raw); !ts.IsZero() {
			d.PublishedAt = ts
			break
		}
	}
	if d.PublishedAt.IsZero() {
		d.PublishedAt = jsonLDDate(doc)
	}

	for _, sel := range descriptionSelectors {
		if c, ok := doc.Find(sel).First().Attr("content"); ok {
			if c = collapse(c); c != "" {
				d.Synopsis = truncateRunes(c, synopsisMaxRunes)
				break
			}
		}
	}

	// primeiro parágrafo com texto decente serve de corpo (e de resumo de recurso)
	doc.Find("article p, main p, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := collapse(s.Text())
		if len([]rune(text)) <= 40 {
			return true
		}
		d.Body = truncateRunes(text, bodyMaxRunes)
		return false
	})
	if d.Synopsis == "" && d.Body != "" {
		d.Synopsis = truncateRunes(d.Body, synopsisMaxRunes)
	}

	return d
}

// jsonLDDate procura o primeiro bloco JSON-LD com uma data de publicação/criação/alteração.
func jsonLDDate(doc *goquery.Document) time.Time {
	var found time.Time
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true
		}
		if ts := findJSONDate(raw); !ts.IsZero() {
			found = ts
			return false
		}
		return true
	})
	return found
}

var jsonDateKeys = []string{"datePublished", "dateCreated", "dateModified"}

func findJSONDate(v any) time.Time {
	switch node := v.(type) {
	case map[string]any:
		for _, key := range jsonDateKeys {
			if s, ok := node[key].(string); ok {
				if ts := ParseDate(s); !ts.IsZero() {
					return ts
				}
			}
		}
		for _, child := range node {
			if ts := findJSONDate(child); !ts.IsZero() {
				return ts
			}
		}
	case []any:
		for _, child := range node {
			if ts := findJSONDate(child); !ts.IsZero() {
				return ts
			}
		}
	}
	return time.Time{}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateRunes corta por número de runes para não partir caracteres acentuados a meio.
func truncateRunes(s string, limit int) string {
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit]) + "…"
}
