package collector

import (
	"net/url"
	"strings"
)

// VideoSearchURL devolve o link de descoberta de vídeo de um artigo:
// uma pesquisa no YouTube por "título fonte". Determinístico para o mesmo par.
func VideoSearchURL(title, source string) string {
	q := strings.TrimSpace(collapse(title) + " " + collapse(source))
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(q)
}
