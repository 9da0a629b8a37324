package cache

import (
	"testing"
	"time"

	"github.com/lmfontes/noticias-radar/internal/detail"
)

// fakeClock permite avançar o tempo manualmente nos testes.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestGetOrFetchCachesWithinTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := New(10*time.Minute, clock.now)

	calls := 0
	fetch := func(url string) detail.Detail {
		calls++
		return detail.Detail{Synopsis: "resumo de " + url}
	}

	first := c.GetOrFetch("https://example.pt/a", fetch)
	second := c.GetOrFetch("https://example.pt/a", fetch)

	if calls != 1 {
		t.Fatalf("fetch called %d times, want 1 (second call must hit cache)", calls)
	}
	if first != second {
		t.Fatalf("cached detail differs: %+v vs %+v", first, second)
	}
}

func TestGetOrFetchRefreshesAfterTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := New(10*time.Minute, clock.now)

	calls := 0
	fetch := func(string) detail.Detail {
		calls++
		return detail.Detail{Synopsis: "v"}
	}

	c.GetOrFetch("https://example.pt/a", fetch)
	clock.advance(10 * time.Minute)
	c.GetOrFetch("https://example.pt/a", fetch)

	if calls != 2 {
		t.Fatalf("fetch called %d times, want 2 after TTL expiry", calls)
	}
}

func TestSlowFetchDoesNotShortenTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := New(10*time.Minute, clock.now)

	calls := 0
	// o fetch demora 5 minutos; o TTL conta a partir do fim, não do início
	slowFetch := func(string) detail.Detail {
		calls++
		clock.advance(5 * time.Minute)
		return detail.Detail{Synopsis: "v"}
	}

	c.GetOrFetch("https://example.pt/a", slowFetch)
	clock.advance(9 * time.Minute)

	c.GetOrFetch("https://example.pt/a", slowFetch)
	if calls != 1 {
		t.Fatalf("entry aged only 9m since the fetch finished, fetch called %d times, want 1", calls)
	}

	clock.advance(1 * time.Minute)
	c.GetOrFetch("https://example.pt/a", slowFetch)
	if calls != 2 {
		t.Fatalf("entry is now 10m old and must refresh, fetch called %d times, want 2", calls)
	}
}

func TestGetOrFetchCachesFailureSentinel(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := New(10*time.Minute, clock.now)

	calls := 0
	fetch := func(string) detail.Detail {
		calls++
		return detail.Detail{} // falha de rede degrada para o sentinela vazio
	}

	d := c.GetOrFetch("https://example.pt/falha", fetch)
	c.GetOrFetch("https://example.pt/falha", fetch)

	if !d.IsZero() {
		t.Fatalf("expected zero sentinel, got %+v", d)
	}
	if calls != 1 {
		t.Fatalf("sentinel must also be cached to avoid retry storms, fetch called %d times", calls)
	}
}

func TestCacheKeysAreIndependent(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := New(10*time.Minute, clock.now)

	fetch := func(url string) detail.Detail { return detail.Detail{Synopsis: url} }

	a := c.GetOrFetch("https://example.pt/a", fetch)
	b := c.GetOrFetch("https://example.pt/b", fetch)
	if a.Synopsis == b.Synopsis {
		t.Fatalf("distinct keys should not share entries")
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestPurgeExpired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	c := New(10*time.Minute, clock.now)

	fetch := func(url string) detail.Detail { return detail.Detail{Synopsis: url} }

	c.GetOrFetch("https://example.pt/velha", fetch)
	clock.advance(9 * time.Minute)
	c.GetOrFetch("https://example.pt/fresca", fetch)
	clock.advance(1 * time.Minute)

	removed := c.PurgeExpired()
	if removed != 1 {
		t.Fatalf("PurgeExpired removed %d, want 1", removed)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d after purge, want 1", c.Len())
	}

	// a entrada fresca continua a servir sem novo fetch
	calls := 0
	c.GetOrFetch("https://example.pt/fresca", func(string) detail.Detail {
		calls++
		return detail.Detail{}
	})
	if calls != 0 {
		t.Fatalf("fresh entry should survive the purge")
	}
}
