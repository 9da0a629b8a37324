package detail

import (
	"strings"
	"time"
)

// dateLayouts pela ordem em que vale a pena tentar: primeiro os formatos de
// metadados e feeds, depois variantes soltas que aparecem em sites mais antigos.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02-01-2006 15:04",
	"02/01/2006",
}

// ParseDate tenta interpretar um valor de data vindo de uma meta tag,
// atributo datetime ou campo de feed. Devolve o instante normalizado
// ou o zero value quando nenhum formato encaixa; nunca um valor parcial.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// FirstDate devolve a primeira data interpretável de uma lista ordenada de candidatos.
func FirstDate(candidates ...string) time.Time {
	for _, c := range candidates {
		if ts := ParseDate(c); !ts.IsZero() {
			return ts
		}
	}
	return time.Time{}
}
