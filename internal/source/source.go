package source

import (
	"encoding/json"
	"fmt"
	"os"
)

// Source descreve uma origem configurada: um feed RSS/Atom e/ou uma página para scraping.
// Pelo menos um dos dois endpoints tem de estar preenchido.
type Source struct {
	Name    string `json:"name"`
	FeedURL string `json:"feedUrl,omitempty"`
	PageURL string `json:"pageUrl,omitempty"`
}

// HasFeed indica se a fonte deve ser lida pelo adaptador de feeds.
func (s Source) HasFeed() bool {
	return s.FeedURL != ""
}

// Validate garante o invariante de configuração de uma fonte.
func (s Source) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("source: missing name")
	}
	if s.FeedURL == "" && s.PageURL == "" {
		return fmt.Errorf("source %s: needs a feed or page endpoint", s.Name)
	}
	return nil
}

// Load devolve o catálogo: o ficheiro JSON indicado ou, sem ficheiro, a lista embutida.
// A ordem do catálogo é estável e determina a precedência no dedup do agregador.
func Load(path string) ([]Source, error) {
	if path == "" {
		return Defaults(), nil
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}

	var list []Source
	if err := json.Unmarshal(bs, &list); err != nil {
		return nil, fmt.Errorf("source: parse %s: %w", path, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("source: %s has no sources", path)
	}
	for _, s := range list {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Defaults é o catálogo embutido de sites/blogs portugueses.
// Fontes com RSS conhecido usam o feed; as restantes ficam em modo scraping.
func Defaults() []Source {
	return []Source{
		// desporto
		{Name: "A Bola", PageURL: "https://www.abola.pt"},
		{Name: "Record", FeedURL: "https://www.record.pt/rss", PageURL: "https://www.record.pt"},
		{Name: "O Jogo", FeedURL: "https://www.ojogo.pt/rss", PageURL: "https://www.ojogo.pt"},
		{Name: "Maisfutebol", PageURL: "https://maisfutebol.iol.pt"},
		{Name: "zerozero", PageURL: "https://www.zerozero.pt"},
		{Name: "Bola na Rede", FeedURL: "https://bolanarede.pt/feed/"},
		{Name: "GoalPoint", FeedURL: "https://goalpoint.pt/feed/"},

		// blogs de adeptos
		{Name: "Camarote Leonino", PageURL: "https://camaroteleonino.blogs.sapo.pt"},
		{Name: "O Fura-Redes", FeedURL: "https://ofuraredes.blogspot.com/feeds/posts/default?alt=rss"},
		{Name: "Glorioso 1904", FeedURL: "https://glorioso1904.pt/feed/"},

		// clubes oficiais
		{Name: "SL Benfica", PageURL: "https://www.slbenfica.pt"},
		{Name: "FC Porto", PageURL: "https://www.fcporto.pt"},
		{Name: "Sporting CP", PageURL: "https://www.sporting.pt"},

		// notícias gerais / política
		{Name: "Público", FeedURL: "https://feeds.feedburner.com/PublicoRSS"},
		{Name: "Observador", FeedURL: "https://observador.pt/feed/"},
		{Name: "Correio da Manhã", PageURL: "https://www.cmjornal.pt"},
		{Name: "CNN Portugal", PageURL: "https://cnnportugal.iol.pt"},
		{Name: "RTP Notícias", FeedURL: "https://www.rtp.pt/noticias/rss"},
		{Name: "SIC Notícias", PageURL: "https://sicnoticias.pt"},
		{Name: "Jornal de Notícias", PageURL: "https://www.jn.pt"},
		{Name: "Expresso", FeedURL: "https://expresso.pt/rss"},
		{Name: "Eco", FeedURL: "https://eco.sapo.pt/feed/"},
		{Name: "Notícias ao Minuto", FeedURL: "https://www.noticiasaominuto.com/rss/ultima-hora"},

		// rádios
		{Name: "TSF", FeedURL: "https://www.tsf.pt/rss"},
		{Name: "Renascença", FeedURL: "https://rr.sapo.pt/rss/rssfeed.aspx?fid=1"},

		// boatos / famosos
		{Name: "Flash", PageURL: "https://flash.pt"},
		{Name: "Nova Gente", PageURL: "https://nova.gente.sapo.pt"},

		// regionais
		{Name: "O Minho", FeedURL: "https://ominho.pt/feed/"},
		{Name: "DN Madeira", PageURL: "https://www.dnoticias.pt"},
	}
}
