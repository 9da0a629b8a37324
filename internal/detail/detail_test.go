package detail

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestExtractDateFromMetaTag(t *testing.T) {
	doc := mustDoc(t, `<html><head>
		<meta property="article:published_time" content="2025-03-10T18:30:00Z">
		<meta property="og:updated_time" content="2025-03-11T09:00:00Z">
	</head><body></body></html>`)

	d := Extract(doc)
	want := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
	if !d.PublishedAt.Equal(want) {
		t.Fatalf("PublishedAt = %s, want %s (published_time must win over og:updated_time)", d.PublishedAt, want)
	}
}

func TestExtractDateFromTimeElement(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<time datetime="2025-03-10T08:00:00+00:00">10 de março</time>
	</body></html>`)

	d := Extract(doc)
	if d.PublishedAt.IsZero() {
		t.Fatalf("expected date from time[datetime]")
	}
}

func TestExtractDateFromJSONLD(t *testing.T) {
	doc := mustDoc(t, `<html><head>
		<script type="application/ld+json">
		{"@context": "https://schema.org", "@graph": [
			{"@type": "WebPage"},
			{"@type": "NewsArticle", "datePublished": "2025-03-09T12:00:00Z"}
		]}
		</script>
	</head><body></body></html>`)

	d := Extract(doc)
	want := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	if !d.PublishedAt.Equal(want) {
		t.Fatalf("PublishedAt = %s, want %s", d.PublishedAt, want)
	}
}

func TestExtractSynopsisPriority(t *testing.T) {
	doc := mustDoc(t, `<html><head>
		<meta property="og:description" content="  Resumo   oficial  do artigo ">
	</head><body><article><p>`+strings.Repeat("texto longo do corpo ", 10)+`</p></article></body></html>`)

	d := Extract(doc)
	if d.Synopsis != "Resumo oficial do artigo" {
		t.Fatalf("Synopsis = %q, want meta description first", d.Synopsis)
	}
	if d.Body == "" {
		t.Fatalf("expected paragraph body to be captured")
	}
}

func TestExtractSynopsisFallsBackToParagraph(t *testing.T) {
	long := strings.Repeat("a", 400)
	doc := mustDoc(t, `<html><body>
		<p>curto</p>
		<article><p>`+long+`</p></article>
	</body></html>`)

	d := Extract(doc)
	if d.Synopsis == "" {
		t.Fatalf("expected synopsis from first substantial paragraph")
	}
	rs := []rune(d.Synopsis)
	if len(rs) != 351 || string(rs[len(rs)-1]) != "…" {
		t.Fatalf("synopsis should be cut at 350 runes plus ellipsis, got %d runes", len(rs))
	}
}

func TestFetchHappyPath(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<html><head>
			<meta name="pubdate" content="2025-03-10T10:00:00Z">
			<meta name="description" content="Um resumo">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	d := NewFetcher().Fetch(srv.URL)
	if d.PublishedAt.IsZero() || d.Synopsis != "Um resumo" {
		t.Fatalf("unexpected detail: %+v", d)
	}
	if !strings.Contains(gotUA, "Mozilla") {
		t.Fatalf("fetch must identify as a browser, got UA %q", gotUA)
	}
}

func TestFetchFailureReturnsZeroDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if d := NewFetcher().Fetch(srv.URL); !d.IsZero() {
		t.Fatalf("non-2xx should degrade to zero Detail, got %+v", d)
	}

	// endpoint inexistente também não pode rebentar
	if d := NewFetcher().Fetch("http://127.0.0.1:1/nada"); !d.IsZero() {
		t.Fatalf("network error should degrade to zero Detail, got %+v", d)
	}
}

func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		in   string
		zero bool
	}{
		{"2025-03-10T18:30:00Z", false},
		{"2025-03-10T18:30:00+01:00", false},
		{"Mon, 10 Mar 2025 18:30:00 +0000", false},
		{"2025-03-10", false},
		{"10/03/2025", false},
		{"", true},
		{"ontem", true},
		{"2025-99-99", true},
	}
	for _, c := range cases {
		got := ParseDate(c.in)
		if got.IsZero() != c.zero {
			t.Fatalf("ParseDate(%q) zero=%v, want zero=%v", c.in, got.IsZero(), c.zero)
		}
	}
}

func TestFirstDatePicksFirstValid(t *testing.T) {
	ts := FirstDate("sem data", "2025-03-10T00:00:00Z", "2025-03-11T00:00:00Z")
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("FirstDate = %s, want %s", ts, want)
	}
	if !FirstDate("x", "y").IsZero() {
		t.Fatalf("FirstDate with no valid candidates should be zero")
	}
}
