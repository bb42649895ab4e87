package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// RobotsCache кэширует robots.txt по хостам. Проверка fail-open: любая
// ошибка получения трактуется как "разрешено" — вспомогательный запрос
// не должен ронять основной.
type RobotsCache struct {
	cache map[string]*robotsEntry
	ttl   time.Duration
	mu    sync.RWMutex
}

type robotsEntry struct {
	content   string
	expiresAt time.Time
}

func NewRobotsCache(ttl time.Duration) *RobotsCache {
	return &RobotsCache{
		cache: make(map[string]*robotsEntry),
		ttl:   ttl,
	}
}

func (rc *RobotsCache) IsAllowed(ctx context.Context, target *url.URL, client *http.Client) bool {
	host := target.Host

	rc.mu.RLock()
	cached, exists := rc.cache[host]
	rc.mu.RUnlock()

	if exists && time.Now().Before(cached.expiresAt) {
		return !isDisallowedByRobots(cached.content, target.Path)
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", target.Scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return true
	}

	resp, err := client.Do(req)
	if err != nil {
		return true
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return true
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true
	}

	content := string(body)

	rc.mu.Lock()
	rc.cache[host] = &robotsEntry{
		content:   content,
		expiresAt: time.Now().Add(rc.ttl),
	}
	rc.mu.Unlock()

	return !isDisallowedByRobots(content, target.Path)
}

// isDisallowedByRobots — минимальный разбор: Disallow-префиксы из секции
// User-agent: *. Этого достаточно для одного целевого сайта.
func isDisallowedByRobots(robotsContent, path string) bool {
	inStarSection := false
	for _, line := range strings.Split(robotsContent, "\n") {
		line = strings.TrimSpace(line)
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "user-agent:"):
			agent := strings.TrimSpace(line[len("user-agent:"):])
			inStarSection = agent == "*"
		case inStarSection && strings.HasPrefix(lower, "disallow:"):
			prefix := strings.TrimSpace(line[len("disallow:"):])
			if prefix != "" && strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}
	return false
}
