package site

import "fmt"

// Purpose — назначение базы.
type Purpose string

const (
	PurposeFarming Purpose = "farming"
	PurposePush    Purpose = "push"
	PurposeWar     Purpose = "war"
)

// ParsePurpose валидирует значение из запроса.
func ParsePurpose(s string) (Purpose, bool) {
	switch Purpose(s) {
	case PurposeFarming, PurposePush, PurposeWar:
		return Purpose(s), true
	}
	return "", false
}

// CategoryURL возвращает URL листинга для TH и цели.
// Для push единый листинг legend без TH — фильтрация по TH происходит
// уже по карточкам. Неизвестная цель уходит в war-форму (поведение сайта).
func CategoryURL(baseURL string, th int, purpose Purpose) string {
	switch purpose {
	case PurposeFarming:
		return fmt.Sprintf("%s/bases/th%d-farming?sort=rating", baseURL, th)
	case PurposePush:
		return fmt.Sprintf("%s/bases/legend?sort=rating", baseURL)
	default:
		return fmt.Sprintf("%s/bases/th%d-war?sort=rating", baseURL, th)
	}
}
