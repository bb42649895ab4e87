package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"clashbases-api/internal/rating"
)

var (
	cardClassRe = regexp.MustCompile(`(?i)card|post|entry|item|base|loop`)
	viewsRe     = regexp.MustCompile(`(?i)[\d.,]+\s*k`)
)

// structuralStrategy — основной проход: обёртки article/div, чей класс
// похож на единицу листинга.
type structuralStrategy struct {
	domain string
}

func (s *structuralStrategy) Name() string { return "structural" }

func (s *structuralStrategy) Extract(doc *goquery.Document, page *url.URL) []*Candidate {
	seen := make(map[string]bool)
	var out []*Candidate

	doc.Find("article, div").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if !cardClassRe.MatchString(class) {
			return
		}

		a := sel.Find("a[href]").First()
		if a.Length() == 0 {
			return
		}
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		link := resolveLink(page, href)
		if link == "" || !onDomain(s.domain, link) {
			return
		}
		if isBareBasePage(link) {
			return
		}
		if seen[link] {
			return
		}
		seen[link] = true

		imageURL := ""
		img := sel.Find("img[src]").First()
		if img.Length() > 0 {
			imageURL = resolveLink(page, img.AttrOr("src", ""))
		}

		title := strings.TrimSpace(a.AttrOr("title", ""))
		if title == "" {
			if h := sel.Find("h2, h3, h4, h5, strong").First(); h.Length() > 0 {
				title = truncate(strings.TrimSpace(h.Text()), 200)
			}
		}
		if title == "" && img.Length() > 0 {
			title = truncate(strings.TrimSpace(img.AttrOr("alt", "")), 200)
		}

		blockText := sel.Text()
		score := rating.Score(viewsRe.FindString(blockText), blockText)

		out = append(out, newCandidate(link, imageURL, title, score))
	})

	return out
}

func newCandidate(link, imageURL, title string, score float64) *Candidate {
	c := &Candidate{
		Link:          link,
		ImageURL:      imageURL,
		Title:         title,
		Description:   title,
		Rating:        score,
		RatingDisplay: rating.Display(score),
		ArticleURL:    link,
	}
	if c.Title == "" {
		c.Title = genericTitle
	}
	if c.Description == "" {
		c.Description = genericDescription
	}
	return c
}
