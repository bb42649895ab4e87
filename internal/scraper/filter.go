package scraper

import (
	"fmt"
	"strings"
)

// FilterByTownHall оставляет кандидатов с упоминанием нужного TH в заголовке
// или ссылке. Листинг legend не привязан к TH, поэтому сужаем постфактум.
// Кандидат без TH-сигнала выбрасывается.
func FilterByTownHall(candidates []*Candidate, th int) []*Candidate {
	token := fmt.Sprintf("th%d", th)
	upperToken := fmt.Sprintf("TH%d", th)

	var out []*Candidate
	for _, c := range candidates {
		switch {
		case strings.Contains(strings.ToLower(c.Title), token),
			strings.Contains(c.Title, upperToken),
			strings.Contains(strings.ToLower(c.Link), token):
			out = append(out, c)
		}
	}
	return out
}
