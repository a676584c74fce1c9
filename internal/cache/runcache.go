// Package cache persists the fully enriched result of a pipeline run so
// repeated invocations for the same reporting period are cheap. The cache
// file's existence is the sole signal that the expensive stages need not
// re-run, which is why writes go through a temp file and an atomic rename: a
// partially written file must never be mistaken for a completed run.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/paperfeed/internal/digest"
)

// Producer runs the full enrichment pipeline on a cache miss.
type Producer func(ctx context.Context) ([]digest.Paper, error)

// RunCache owns the on-disk representation of one period's enriched result.
// Path is derived from the period key by the orchestrator; no other
// component reads or writes it.
type RunCache struct {
	Path string
}

// RunWithCache returns the persisted result for this period if present and
// force is false; otherwise it invokes producer and persists its result
// before returning. A producer error leaves the cache untouched.
func (c *RunCache) RunWithCache(ctx context.Context, producer Producer, force bool) ([]digest.Paper, error) {
	if !force {
		if papers, ok, err := c.load(); err != nil {
			return nil, err
		} else if ok {
			log.Info().Str("path", c.Path).Int("count", len(papers)).Msg("replaying cached run")
			return papers, nil
		}
	}

	papers, err := producer(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store(papers); err != nil {
		return nil, err
	}
	return papers, nil
}

// load reads the cache file. A missing file is a miss; an unreadable or
// undecodable file is an error, because silently re-running would hide a
// corrupted artifact the user should know about.
func (c *RunCache) load() ([]digest.Paper, bool, error) {
	b, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read run cache: %w", err)
	}
	var papers []digest.Paper
	if err := json.Unmarshal(b, &papers); err != nil {
		return nil, false, fmt.Errorf("decode run cache %s: %w", c.Path, err)
	}
	return papers, true, nil
}

func (c *RunCache) store(papers []digest.Paper) error {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	b, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run cache: %w", err)
	}
	tmp := c.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write run cache: %w", err)
	}
	if err := os.Rename(tmp, c.Path); err != nil {
		return fmt.Errorf("promote run cache: %w", err)
	}
	log.Info().Str("path", c.Path).Int("count", len(papers)).Msg("saved run cache")
	return nil
}
