package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lmfontes/noticias-radar/internal/cache"
	"github.com/lmfontes/noticias-radar/internal/storage"
)

const historyRetention = 30 * 24 * time.Hour

// Scheduler corre as tarefas de manutenção: limpeza da cache de detalhes
// e poda do histórico de pesquisas. A recolha em si é feita por pesquisa,
// não por cron.
type Scheduler struct {
	cron  *cron.Cron
	cache *cache.Cache
	store *storage.Store
}

func New(c *cache.Cache, store *storage.Store) (*Scheduler, error) {
	cr := cron.New()
	s := &Scheduler{cron: cr, cache: c, store: store}

	if _, err := cr.AddFunc("*/10 * * * *", s.purgeCache); err != nil {
		return nil, err
	}
	if _, err := cr.AddFunc("0 4 * * *", s.pruneHistory); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) purgeCache() {
	if n := s.cache.PurgeExpired(); n > 0 {
		log.Printf("maintenance: purged %d expired cache entries (%d left)", n, s.cache.Len())
	}
}

func (s *Scheduler) pruneHistory() {
	n, err := s.store.PruneHistory(historyRetention)
	if err != nil {
		log.Printf("maintenance: prune history error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("maintenance: pruned %d history records", n)
	}
}
