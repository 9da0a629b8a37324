package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lmfontes/noticias-radar/internal/collector"
	"github.com/lmfontes/noticias-radar/internal/terms"
)

const (
	// TTL da cache de respostas de pesquisa no Redis
	resultCacheTTL = 5 * time.Minute
	// quantos artigos ficam no snapshot do histórico
	historySnapshotSize = 10
)

// SearchRecord é uma pesquisa registada no histórico, com um snapshot JSONB
// dos primeiros resultados para inspeção posterior.
type SearchRecord struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Query      string            `gorm:"size:256;index" json:"query"`
	Hours      int               `json:"hours"`
	Results    int               `json:"results"`
	DurationMs int64             `json:"durationMs"`
	Snapshot   datatypes.JSONMap `gorm:"type:jsonb" json:"snapshot"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// Store junta o histórico em Postgres e a cache de respostas em Redis.
// Qualquer um dos dois pode estar desligado (DSN/endereço vazios); nesse caso
// as operações respetivas degradam para no-ops.
type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	s := &Store{}

	if dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		if err := db.AutoMigrate(&SearchRecord{}); err != nil {
			return nil, fmt.Errorf("storage: migrate: %w", err)
		}
		s.DB = db
	}

	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warn: redis ping failed: %v", err)
		}
		s.Redis = rdb
	}

	return s, nil
}

// resultCacheKey normaliza a query para a chave ser estável entre variações
// de maiúsculas/acentos da mesma pesquisa.
func resultCacheKey(query string, hours int) string {
	return fmt.Sprintf("search:%s:%d", terms.Fold(strings.TrimSpace(query)), hours)
}

// CachedResults devolve a lista de artigos guardada para esta pesquisa,
// se ainda estiver dentro do TTL.
func (s *Store) CachedResults(ctx context.Context, query string, hours int) ([]collector.Article, bool) {
	if s.Redis == nil {
		return nil, false
	}
	bs, err := s.Redis.Get(ctx, resultCacheKey(query, hours)).Bytes()
	if err != nil {
		return nil, false
	}
	return decodeResults(bs)
}

// StoreResults escreve a lista de artigos na cache de respostas. Listas
// vazias também contam: zero resultados é uma resposta válida e repetir a
// mesma pesquisa dentro do TTL não deve voltar a percorrer todas as fontes.
func (s *Store) StoreResults(ctx context.Context, query string, hours int, list []collector.Article) {
	if s.Redis == nil {
		return
	}
	bs, err := encodeResults(list)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, resultCacheKey(query, hours), bs, resultCacheTTL).Err(); err != nil {
		log.Printf("warn: cache search results: %v", err)
	}
}

func encodeResults(list []collector.Article) ([]byte, error) {
	if list == nil {
		list = []collector.Article{}
	}
	return json.Marshal(list)
}

func decodeResults(bs []byte) ([]collector.Article, bool) {
	var cached []collector.Article
	if err := json.Unmarshal(bs, &cached); err != nil {
		return nil, false
	}
	return cached, true
}

// SaveSearch regista uma pesquisa no histórico; no-op sem Postgres.
func (s *Store) SaveSearch(query string, hours int, results []collector.Article, took time.Duration) error {
	if s.DB == nil {
		return nil
	}

	top := results
	if len(top) > historySnapshotSize {
		top = top[:historySnapshotSize]
	}
	snapshot := make([]map[string]any, 0, len(top))
	for _, a := range top {
		snapshot = append(snapshot, map[string]any{
			"titulo": strings.ToValidUTF8(a.Title, "�"),
			"fonte":  a.Source,
			"url":    a.URL,
		})
	}

	rec := &SearchRecord{
		Query:      strings.ToValidUTF8(strings.TrimSpace(query), "�"),
		Hours:      hours,
		Results:    len(results),
		DurationMs: took.Milliseconds(),
		Snapshot:   datatypes.JSONMap{"articles": snapshot},
	}
	return s.DB.Create(rec).Error
}

// ListSearches devolve as pesquisas mais recentes, limitadas.
func (s *Store) ListSearches(limit int) ([]SearchRecord, error) {
	if s.DB == nil {
		return []SearchRecord{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	var list []SearchRecord
	if err := s.DB.Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// PruneHistory apaga registos mais antigos que a janela de retenção.
func (s *Store) PruneHistory(retention time.Duration) (int64, error) {
	if s.DB == nil {
		return 0, nil
	}
	cutoff := time.Now().Add(-retention)
	res := s.DB.Where("created_at < ?", cutoff).Delete(&SearchRecord{})
	return res.RowsAffected, res.Error
}
