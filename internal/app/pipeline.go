package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"clashbases-api/internal/config"
	"clashbases-api/internal/fetcher"
	"clashbases-api/internal/observability"
	"clashbases-api/internal/rating"
	"clashbases-api/internal/scraper"
	"clashbases-api/internal/site"
)

// Внутренняя таксономия отказов. Наружу ни один не выходит: оркестратор
// сводит каждый к пустому результату или фолбэк-записи.
var (
	ErrTransport    = errors.New("transport failure")
	ErrParse        = errors.New("parse failure")
	ErrNoCandidates = errors.New("no candidates")
	ErrNoDrilldown  = errors.New("no drilldown result")
)

type Pipeline struct {
	cfg       *config.Config
	logger    *observability.Logger
	fetcher   *fetcher.Fetcher
	extractor *scraper.Extractor
}

func NewPipeline(
	cfg *config.Config,
	logger *observability.Logger,
	f *fetcher.Fetcher,
	e *scraper.Extractor,
) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		logger:    logger,
		fetcher:   f,
		extractor: e,
	}
}

// FetchBases прогоняет запрос через весь пайплайн:
// resolve → fetch → extract → (filter) → drilldown → assemble.
// th и purpose считаются провалидированными на границе. Ошибок не возвращает:
// худший исход — пустой список.
func (p *Pipeline) FetchBases(ctx context.Context, th int, purpose site.Purpose) []*scraper.Record {
	listingURL := site.CategoryURL(p.cfg.Site.BaseURL, th, purpose)

	p.logger.Info("Starting pipeline",
		"th", th,
		"purpose", string(purpose),
		"listing_url", listingURL,
	)

	candidates, err := p.listCandidates(ctx, listingURL)
	if err != nil {
		p.logger.Warn("Listing stage failed",
			"listing_url", listingURL,
			"error", err.Error(),
		)
		return []*scraper.Record{}
	}

	if purpose == site.PurposePush {
		before := len(candidates)
		candidates = scraper.FilterByTownHall(candidates, th)
		p.logger.Debug("Applied town hall filter",
			"th", th,
			"before", before,
			"after", len(candidates),
		)
		if len(candidates) == 0 {
			// Страница legend не дала ни одной карточки под этот TH.
			p.logger.Info("No candidates for town hall on legend listing", "th", th)
			return []*scraper.Record{}
		}
	}

	records := p.drillDown(ctx, candidates)
	records = p.assemble(records, candidates)

	p.logger.Info("Pipeline completed",
		"th", th,
		"purpose", string(purpose),
		"records", len(records),
	)

	return records
}

// listCandidates: fetch_listing + extract одной стадией.
func (p *Pipeline) listCandidates(ctx context.Context, listingURL string) ([]*scraper.Candidate, error) {
	resp, err := p.fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	candidates, err := p.extractor.ParseListing(string(resp.Body), listingURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	return candidates, nil
}

// drillDown обходит первые max_articles кандидатов по порядку документа.
// Удачная статья даёт до остатка квоты записей; любой сбой — ровно одну
// запись, синтезированную из самого кандидата. Покрытие важнее точности.
func (p *Pipeline) drillDown(ctx context.Context, candidates []*scraper.Candidate) []*scraper.Record {
	needed := p.cfg.Pipeline.Needed
	seen := make(map[string]bool)
	collected := make([]*scraper.Record, 0, needed)

	for i, candidate := range candidates {
		if i >= p.cfg.Pipeline.MaxArticles || len(collected) >= needed {
			break
		}

		records, err := p.fetchArticleBases(ctx, candidate)
		if err != nil {
			p.logger.Debug("Drilldown fell back to candidate",
				"article_url", candidate.ArticleURL,
				"error", err.Error(),
			)
			if !seen[candidate.Link] {
				seen[candidate.Link] = true
				collected = append(collected, candidate.Synthesize())
			}
			continue
		}

		for _, r := range records {
			if len(collected) >= needed {
				break
			}
			if seen[r.Link] {
				continue
			}
			seen[r.Link] = true
			collected = append(collected, r)
		}
	}

	return collected
}

func (p *Pipeline) fetchArticleBases(ctx context.Context, candidate *scraper.Candidate) ([]*scraper.Record, error) {
	articleURL := candidate.ArticleURL
	if articleURL == "" {
		articleURL = candidate.Link
	}

	resp, err := p.fetcher.Fetch(ctx, articleURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	records, err := p.extractor.ParseArticle(string(resp.Body), articleURL, p.cfg.Pipeline.Needed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(records) == 0 {
		return nil, ErrNoDrilldown
	}

	return records, nil
}

// assemble: защитный фолбэк на сырых кандидатов, добивка rating_display,
// усечение до квоты.
func (p *Pipeline) assemble(records []*scraper.Record, candidates []*scraper.Candidate) []*scraper.Record {
	needed := p.cfg.Pipeline.Needed

	if len(records) == 0 {
		for _, c := range candidates {
			if len(records) >= needed {
				break
			}
			records = append(records, c.Record())
		}
	}

	if len(records) > needed {
		records = records[:needed]
	}

	for _, r := range records {
		if r.RatingDisplay == "" {
			r.RatingDisplay = rating.Display(r.Rating)
		}
	}

	if records == nil {
		records = []*scraper.Record{}
	}

	return records
}
