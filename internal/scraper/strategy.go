package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy извлекает кандидатов из распарсенного листинга. Разметка сайта
// не контрактная, поэтому стратегии пробуются по очереди до первой,
// давшей результат.
type Strategy interface {
	Name() string
	Extract(doc *goquery.Document, page *url.URL) []*Candidate
}

type Extractor struct {
	domain     string
	strategies []Strategy
}

// NewExtractor собирает цепочку: структурный проход по карточкам, затем
// грубый проход по всем якорям.
func NewExtractor(domain string) *Extractor {
	return &Extractor{
		domain: domain,
		strategies: []Strategy{
			&structuralStrategy{domain: domain},
			&anchorStrategy{domain: domain},
		},
	}
}

// ParseListing парсит листинг и возвращает кандидатов в порядке документа.
func (e *Extractor) ParseListing(html string, pageURL string) ([]*Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	for _, s := range e.strategies {
		if candidates := s.Extract(doc, page); len(candidates) > 0 {
			return candidates, nil
		}
	}

	return nil, nil
}

var bareBasePathRe = regexp.MustCompile(`^/bases/[^/]+$`)

// resolveLink приводит href к абсолютному URL относительно страницы.
func resolveLink(page *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return page.ResolveReference(ref).String()
}

// onDomain проверяет, что ссылка ведёт на целевой сайт (или его поддомен).
func onDomain(domain, link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// isBareBasePage отсекает верхнеуровневые страницы /bases/<slug> —
// это разделы, а не базы.
func isBareBasePage(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return bareBasePathRe.MatchString(strings.TrimRight(u.Path, "/"))
}

func pathSegments(link string) int {
	u, err := url.Parse(link)
	if err != nil {
		return 0
	}
	n := 0
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			n++
		}
	}
	return n
}

// climb — ограниченный по глубине подъём по предкам. visit возвращает true,
// когда искомое найдено и подъём можно прекратить.
func climb(sel *goquery.Selection, maxDepth int, visit func(*goquery.Selection) bool) {
	parent := sel.Parent()
	for depth := 0; depth < maxDepth && parent.Length() > 0; depth++ {
		if visit(parent) {
			return
		}
		parent = parent.Parent()
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
