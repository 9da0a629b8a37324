package collector

import (
	"strings"
	"time"

	"github.com/lmfontes/noticias-radar/internal/detail"
	"github.com/lmfontes/noticias-radar/internal/terms"
)

// Article é a unidade normalizada que sai de qualquer adaptador.
type Article struct {
	Title  string
	Source string
	// URL canónico absoluto; é a chave de dedup do agregador
	URL         string
	PublishedAt time.Time
	Synopsis    string
	// VideoURL é o link de descoberta calculado a partir de título+fonte
	VideoURL string
}

// Fetcher abstrai um adaptador de fonte: feed ou página, escolhido uma vez
// por fonte na altura do dispatch.
type Fetcher interface {
	Name() string
	Fetch(set terms.Set, hours int) ([]Article, error)
}

// DetailFunc aprofunda um artigo individual; na prática é a cache de detalhes
// por cima do detail.Fetcher, mas os testes injetam variantes instrumentadas.
type DetailFunc func(url string) detail.Detail

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// withinWindow aplica a política de recência partilhada pelos dois adaptadores.
// hours == 0 desliga o filtro; nesse caso artigos sem data recebem "now" só
// para ordenação/apresentação. Devolve a data final e se o artigo sobrevive.
func withinWindow(published, now time.Time, hours int) (time.Time, bool) {
	if hours <= 0 {
		if published.IsZero() {
			return now, true
		}
		return published, true
	}
	if published.IsZero() {
		return published, false
	}
	if published.Before(now.Add(-time.Duration(hours) * time.Hour)) {
		return published, false
	}
	return published, true
}
