package rating

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var viewsRe = regexp.MustCompile(`(?i)([\d.]+)\s*k`)

// Score превращает текстовые сигналы популярности в числовой балл.
// "12.3k" просмотров → 12300, каждая ★ → 500. Запятая принимается как
// десятичный разделитель.
func Score(viewsText, starsText string) float64 {
	score := 0.0

	m := viewsRe.FindStringSubmatch(strings.ReplaceAll(viewsText, ",", "."))
	if m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			score += v * 1000
		}
	}

	if stars := strings.Count(starsText, "★"); stars > 0 {
		score += float64(stars) * 500
	}

	return score
}

// Display форматирует балл в шкалу "{1..10}/10"; без сигнала — "—/10".
// Округление грубое и с потерями, совпадения оценок ожидаемы.
func Display(score float64) string {
	if score <= 0 {
		return "—/10"
	}
	bucket := int(math.Round(score / 500))
	if bucket < 1 {
		bucket = 1
	}
	if bucket > 10 {
		bucket = 10
	}
	return fmt.Sprintf("%d/10", bucket)
}
