package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/paperfeed/internal/assets"
	"github.com/hyperifyio/paperfeed/internal/cache"
	"github.com/hyperifyio/paperfeed/internal/digest"
	"github.com/hyperifyio/paperfeed/internal/feed"
	"github.com/hyperifyio/paperfeed/internal/fetch"
	"github.com/hyperifyio/paperfeed/internal/links"
	"github.com/hyperifyio/paperfeed/internal/llm"
	"github.com/hyperifyio/paperfeed/internal/rank"
	"github.com/hyperifyio/paperfeed/internal/report"
	"github.com/hyperifyio/paperfeed/internal/social"
)

// ErrEmptyDigest signals that some filtering stage left nothing to report.
// An empty digest is a normal outcome, not a failure: the CLI maps it to a
// clean zero exit, and no cache file is written so a later re-run for the
// same period can still find papers.
var ErrEmptyDigest = errors.New("no papers to report")

// browserUA keeps the abstract-page scrape and document downloads from
// being rejected with 403 by the feed host.
const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

// feedSource is the slice of the feed client the orchestrator needs;
// narrowed for stubbing in tests.
type feedSource interface {
	Fetch(ctx context.Context, start, end time.Time, categories []string, maxResults int) ([]digest.Paper, error)
	Affiliations(ctx context.Context, id string) (string, error)
}

// discussionSearcher mirrors the social client's Search method.
type discussionSearcher interface {
	Search(ctx context.Context, title string) ([]digest.Tweet, error)
}

// App wires the pipeline stages together and owns the in-memory enriched
// list for the duration of a run.
type App struct {
	cfg       Config
	feed      feedSource
	selector  *rank.Selector
	extractor *assets.Extractor
	social    discussionSearcher
	docURL    func(digest.Paper) string
}

func New(ctx context.Context, cfg Config) (*App, error) {
	transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		transportCfg.BaseURL = cfg.LLMBaseURL
	}
	ai := openai.NewClientWithConfig(transportCfg)
	provider := &llm.OpenAIProvider{Inner: ai}

	// Best-effort connectivity check; a failure here is logged, not fatal,
	// because the selector degrades on its own when the model is down.
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if models, err := provider.ListModels(pctx); err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
	} else {
		log.Debug().Int("count", len(models.Models)).Msg("LLM reachable")
	}

	fetcher := &fetch.Client{
		HTTPClient:        &http.Client{},
		UserAgent:         browserUA,
		MaxAttempts:       2,
		PerRequestTimeout: 15 * time.Second,
		PoliteDelay:       time.Second,
	}

	return &App{
		cfg:       cfg,
		feed:      &feed.Client{Fetcher: fetcher},
		selector:  &rank.Selector{Client: provider, Model: cfg.LLMModel},
		extractor: &assets.Extractor{Fetcher: fetcher, Filter: assets.DefaultFigureFilter()},
		social:    &social.Client{BearerToken: cfg.XBearerToken},
		docURL:    feed.PDFURL,
	}, nil
}

// Run produces (or replays) the digest for the configured report date and
// writes the rendered document, returning its path.
func (a *App) Run(ctx context.Context) (string, error) {
	reportDate := a.cfg.ReportDate
	start := reportDate.AddDate(0, 0, -a.cfg.LookbackDays)
	log.Info().
		Str("from", start.Format("2006-01-02 15:04")).
		Str("to", reportDate.Format("2006-01-02 15:04")).
		Msg("generating digest")

	paths := pathsFor(a.cfg.OutputRoot, a.cfg.FilenamePrefix, reportDate)
	if err := os.MkdirAll(paths.AssetsDir, 0o755); err != nil {
		return "", fmt.Errorf("create assets dir: %w", err)
	}

	rc := &cache.RunCache{Path: paths.DataFile}
	enriched, err := rc.RunWithCache(ctx, func(ctx context.Context) ([]digest.Paper, error) {
		return a.produce(ctx, start, reportDate, paths)
	}, a.cfg.Force)
	if err != nil {
		return "", err
	}

	md, err := report.Render(enriched, reportDate)
	if err != nil {
		return "", err
	}
	out, err := report.Write(md, paths.ReportFile)
	if err != nil {
		return "", err
	}
	if a.cfg.PDF {
		pdfPath := strings.TrimSuffix(paths.ReportFile, ".md") + ".pdf"
		if err := report.WritePDF(md, pdfPath); err != nil {
			log.Warn().Err(err).Msg("PDF output failed; markdown written")
		}
	}
	log.Info().Str("out", out).Int("papers", len(enriched)).Msg("wrote digest")
	return out, nil
}

// produce runs the full enrichment pipeline for a cache miss. Stages run
// strictly in sequence and per-paper loops stay in list order; the only
// rate control is the fetcher's polite delay, and parallelizing these loops
// would defeat it.
func (a *App) produce(ctx context.Context, start, end time.Time, paths periodPaths) ([]digest.Paper, error) {
	raw, err := a.feed.Fetch(ctx, start, end, a.cfg.Categories, a.cfg.MaxRawPapers)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyDigest
	}

	if a.cfg.RequireProjectLink {
		kept := raw[:0]
		for _, p := range raw {
			if links.HasProjectLink(p) {
				kept = append(kept, p)
			}
		}
		log.Info().Int("dropped", len(raw)-len(kept)).Int("remaining", len(kept)).Msg("project-link pre-filter")
		raw = kept
		if len(raw) == 0 {
			return nil, ErrEmptyDigest
		}
	}

	selected, prompt := a.selector.Select(ctx, raw, a.cfg.Interests, a.cfg.MaxSelectedPapers)
	log.Debug().Int("prompt_chars", len(prompt)).Msg("ranking prompt built")
	if len(selected) == 0 {
		return nil, ErrEmptyDigest
	}

	for i := range selected {
		p := &selected[i]
		log.Info().Int("n", i+1).Int("of", len(selected)).Str("id", p.ID).Msg("processing paper")

		if affil, err := a.feed.Affiliations(ctx, p.ID); err == nil && affil != "" {
			p.AuthorsFull = affil
		} else {
			if err != nil {
				log.Warn().Err(err).Str("id", p.ID).Msg("affiliation lookup failed")
			}
			p.AuthorsFull = strings.Join(p.Authors, ", ")
		}

		res := a.extractor.Extract(ctx, a.docURL(*p), p.ID, paths.AssetsDir, a.cfg.MaxFigures)
		if res.Downloaded {
			p.LocalPDF = paths.RelAssets + "/" + res.LocalPDF
			if res.Preview != "" {
				p.Preview = paths.RelAssets + "/" + res.Preview
			}
			for _, fig := range res.Figures {
				p.Figures = append(p.Figures, paths.RelAssets+"/"+fig)
			}
		} else {
			p.LocalPDF = res.LocalPDF
		}
	}

	if a.cfg.XBearerToken != "" {
		for i := range selected {
			p := &selected[i]
			tweets, err := a.social.Search(ctx, p.Title)
			if err != nil {
				log.Warn().Err(err).Str("id", p.ID).Msg("discussion search failed")
				continue
			}
			p.Tweets = tweets
		}
	}

	return selected, nil
}
