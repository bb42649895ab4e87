package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"clashbases-api/internal/rating"
)

// Глубина подъёма по предкам в поисках картинки якоря.
const anchorClimbDepth = 8

// anchorStrategy — запасной проход, когда структурный не нашёл ни одной
// карточки: перебираем все якоря и ищем картинку вверх по дереву.
// Точность ниже, покрытие шире.
type anchorStrategy struct {
	domain string
}

func (s *anchorStrategy) Name() string { return "anchor-fallback" }

func (s *anchorStrategy) Extract(doc *goquery.Document, page *url.URL) []*Candidate {
	seen := make(map[string]bool)
	var out []*Candidate

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		link := resolveLink(page, href)
		if link == "" || !onDomain(s.domain, link) {
			return
		}
		// Для якорей без карточной обёртки требуем путь поглубже: одиночный
		// сегмент — это почти наверняка раздел.
		if isBareBasePage(link) || pathSegments(link) < 2 {
			return
		}
		if seen[link] {
			return
		}

		var img, scope *goquery.Selection
		climb(a, anchorClimbDepth, func(parent *goquery.Selection) bool {
			if found := parent.Find("img[src]").First(); found.Length() > 0 {
				img = found
				scope = parent
				return true
			}
			return false
		})
		if img == nil {
			return
		}
		seen[link] = true

		imageURL := resolveLink(page, img.AttrOr("src", ""))

		title := strings.TrimSpace(a.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(a.Text())
		}
		title = truncate(title, 200)

		score := rating.Score(viewsRe.FindString(scope.Text()), scope.Text())

		out = append(out, newCandidate(link, imageURL, title, score))
	})

	return out
}
