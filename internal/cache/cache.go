package cache

import (
	"sync"
	"time"

	"github.com/lmfontes/noticias-radar/internal/detail"
)

// entry guarda o resultado do último fetch de uma página e quando foi feito.
type entry struct {
	fetchedAt time.Time
	detail    detail.Detail
}

// Cache é a cache de detalhes de artigos com TTL fixo, partilhada por todos
// os adaptadores de uma pesquisa. O relógio é injetado para os testes poderem
// avançar o tempo sem dormir.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

func New(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry),
	}
}

// GetOrFetch devolve o detalhe em cache se ainda estiver fresco; caso contrário
// chama fetch, guarda o resultado (incluindo o sentinela de falha, para evitar
// tempestades de retries dentro do TTL) e devolve-o.
//
// Chamadas concorrentes para o mesmo URL podem correr o fetch duas vezes;
// o resultado é idempotente e o custo do fetch duplicado é limitado.
func (c *Cache) GetOrFetch(url string, fetch func(string) detail.Detail) detail.Detail {
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[url]
	c.mu.RUnlock()
	if ok && now.Sub(e.fetchedAt) < c.ttl {
		return e.detail
	}

	d := fetch(url)

	// carimbar depois do fetch: um fetch lento não pode encurtar o TTL efetivo
	c.mu.Lock()
	c.entries[url] = entry{fetchedAt: c.now(), detail: d}
	c.mu.Unlock()

	return d
}

// PurgeExpired remove entradas fora do TTL; corre periodicamente via scheduler
// para a cache não crescer com o tempo de vida do processo.
func (c *Cache) PurgeExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for url, e := range c.entries {
		if now.Sub(e.fetchedAt) >= c.ttl {
			delete(c.entries, url)
			removed++
		}
	}
	return removed
}

// Len devolve o número de entradas vivas ou expiradas ainda em memória.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
