package terms

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// aliases expande termos curtos habituais para as formas que aparecem nos títulos.
// As chaves e valores estão na forma normalizada (minúsculas, sem acentos).
var aliases = map[string][]string{
	"slb":      {"benfica", "sl benfica"},
	"benfica":  {"slb"},
	"fcp":      {"porto", "fc porto"},
	"porto":    {"fcp"},
	"scp":      {"sporting", "sporting cp"},
	"sporting": {"scp"},
	"braga":    {"sc braga", "arsenalistas"},
	"selecao":  {"selecao nacional", "equipa das quinas"},
}

// Set é o conjunto ordenado de termos de pesquisa já normalizados.
// É construído uma vez por pesquisa e nunca alterado depois.
type Set struct {
	terms []string
}

// Expand normaliza a query e devolve o conjunto de termos: a query completa,
// as expansões de alias e cada token separado por espaços. Conjunto vazio
// significa "sem resultados", nunca "corresponde a tudo".
func Expand(query string) Set {
	q := Fold(strings.TrimSpace(query))
	if q == "" {
		return Set{}
	}

	var s Set
	seen := make(map[string]bool)
	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		s.terms = append(s.terms, term)
	}

	add(q)
	for _, a := range aliases[q] {
		add(a)
	}
	for _, tok := range strings.Fields(q) {
		add(tok)
		for _, a := range aliases[tok] {
			add(a)
		}
	}

	return s
}

// Empty indica se a pesquisa não produziu termos utilizáveis.
func (s Set) Empty() bool {
	return len(s.terms) == 0
}

// Terms devolve os termos pela ordem de construção.
func (s Set) Terms() []string {
	return s.terms
}

// Matches testa se algum termo aparece como substring do texto,
// ignorando maiúsculas e acentos.
func (s Set) Matches(text string) bool {
	if s.Empty() || text == "" {
		return false
	}
	folded := Fold(text)
	for _, term := range s.terms {
		if strings.Contains(folded, term) {
			return true
		}
	}
	return false
}

// Fold passa o texto a minúsculas e remove diacríticos,
// para que "Política" e "politica" sejam equivalentes.
func Fold(s string) string {
	s = strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
