package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lmfontes/noticias-radar/internal/collector"
	"github.com/lmfontes/noticias-radar/internal/storage"
)

// Searcher é o que a camada HTTP precisa do agregador.
type Searcher interface {
	Search(ctx context.Context, query string, hours int) []collector.Article
}

type Server struct {
	searcher Searcher
	store    *storage.Store
}

func NewServer(searcher Searcher, store *storage.Store) *Server {
	return &Server{searcher: searcher, store: store}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	api := r.Group("/api")
	{
		api.GET("/noticias", s.searchNews)
		api.GET("/historico", s.listHistory)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// newsDTO é o contrato de saída acordado com o front-end.
type newsDTO struct {
	Titulo string `json:"titulo"`
	Resumo string `json:"resumo"`
	Fonte  string `json:"fonte"`
	URL    string `json:"url"`
	Data   string `json:"data"`
	Video  string `json:"video"`
}

func (s *Server) searchNews(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "falta o parâmetro q"})
		return
	}

	hours, err := strconv.Atoi(c.DefaultQuery("hours", "0"))
	if err != nil || hours < 0 {
		hours = 0
	}

	ctx := c.Request.Context()
	if cached, ok := s.store.CachedResults(ctx, query, hours); ok {
		c.JSON(http.StatusOK, toDTO(cached))
		return
	}

	start := time.Now()
	results := s.searcher.Search(ctx, query, hours)
	took := time.Since(start)

	s.store.StoreResults(ctx, query, hours, results)
	if err := s.store.SaveSearch(query, hours, results, took); err != nil {
		log.Printf("warn: save search history: %v", err)
	}

	c.JSON(http.StatusOK, toDTO(results))
}

func (s *Server) listHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	list, err := s.store.ListSearches(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, list)
}

func toDTO(list []collector.Article) []newsDTO {
	out := make([]newsDTO, 0, len(list))
	for _, a := range list {
		data := ""
		if !a.PublishedAt.IsZero() {
			data = a.PublishedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, newsDTO{
			Titulo: a.Title,
			Resumo: a.Synopsis,
			Fonte:  a.Source,
			URL:    a.URL,
			Data:   data,
			Video:  a.VideoURL,
		})
	}
	return out
}
