package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Статьи вложены глубже листинга, подъём длиннее.
const articleClimbDepth = 15

// Служебная графика сайта, которую нельзя принимать за превью базы.
var imageSrcDenylist = []string{"logo", "icon", "avatar"}

// ParseArticle извлекает из статьи реальные ссылки на базы: якоря с текстом
// "copy" (конвенция сайта для кнопки копирования кода) плюс ближайшая
// картинка и заголовок вверх по дереву. Якорь без картинки в пределах
// подъёма отбрасывается. Собирает не больше limit записей.
func (e *Extractor) ParseArticle(html string, pageURL string, limit int) ([]*Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	seen := make(map[string]bool)
	var out []*Record

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(a.Text()), "copy") {
			return true
		}

		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		link := resolveLink(page, href)
		if link == "" || seen[link] {
			return true
		}

		var img *goquery.Selection
		title := ""
		climb(a, articleClimbDepth, func(parent *goquery.Selection) bool {
			if img == nil {
				img = findContentImage(parent)
			}
			if title == "" {
				title = findHeading(parent)
			}
			return img != nil
		})
		if img == nil {
			return true
		}
		seen[link] = true

		imageURL := resolveLink(page, img.AttrOr("src", ""))

		if title == "" {
			title = strings.TrimSpace(img.AttrOr("alt", ""))
		}
		if title == "" {
			title = fmt.Sprintf("База %d", len(out)+1)
		}

		// Записи из статьи считаем одинаково надёжными; позиция на странице
		// служит тай-брейком для отображаемой оценки.
		display := 10 - len(out)
		if display < 7 {
			display = 7
		}

		out = append(out, &Record{
			Link:          link,
			ImageURL:      imageURL,
			Type:          truncate(title, 200),
			Description:   copyDescription,
			Rating:        8,
			RatingDisplay: fmt.Sprintf("%d/10", display),
		})

		return len(out) < limit
	})

	return out, nil
}

// findContentImage ищет в поддереве первую картинку, не похожую на
// служебную графику.
func findContentImage(parent *goquery.Selection) *goquery.Selection {
	var img *goquery.Selection
	parent.Find("img[src]").EachWithBreak(func(_ int, i *goquery.Selection) bool {
		src := strings.ToLower(strings.TrimSpace(i.AttrOr("src", "")))
		if src == "" {
			return true
		}
		for _, bad := range imageSrcDenylist {
			if strings.Contains(src, bad) {
				return true
			}
		}
		img = i
		return false
	})
	return img
}

// findHeading возвращает первый нетривиальный заголовок поддерева.
func findHeading(parent *goquery.Selection) string {
	title := ""
	parent.Find("h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		t := truncate(strings.TrimSpace(h.Text()), 200)
		if len([]rune(t)) > 4 {
			title = t
			return false
		}
		return true
	})
	return title
}
