// Package rank selects and enriches candidate papers with a single model
// call: selection, relevance ordering, star rating and a one-sentence
// summary all come back in one JSON response. The model's output is treated
// as untrusted and folded against the canonical candidate list rather than
// taken at face value.
package rank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/paperfeed/internal/digest"
	"github.com/hyperifyio/paperfeed/internal/links"
	"github.com/hyperifyio/paperfeed/internal/llm"
)

// rankedItem is one element of the model's JSON array response.
type rankedItem struct {
	ID         string `json:"id"`
	StarRating string `json:"star_rating"`
	Summary    string `json:"summary"`
}

const systemMessage = "You are an expert research assistant. Respond with a raw JSON array only, no markdown fences and no narration."

// Selector drives the ranking collaborator.
type Selector struct {
	Client llm.Client
	Model  string
}

// Select asks the model for the top limit papers matching interests and
// reconciles the answer against candidates. The returned list is sorted by
// the model's rank order and truncated to limit; survivors the model named
// but did not rank sort after all ranked ones in input order. IDs the model
// invented are ignored, and candidates it omitted are dropped rather than
// retried.
//
// Any failure (transport, empty response, unparseable JSON) degrades to
// the first limit candidates unenriched. A digest with weaker ranking beats
// no digest. The built prompt is returned either way so the caller can log
// or persist it for debugging.
func (s *Selector) Select(ctx context.Context, candidates []digest.Paper, interests string, limit int) ([]digest.Paper, string) {
	if len(candidates) == 0 {
		return nil, ""
	}
	if limit <= 0 || limit > len(candidates) {
		limit = len(candidates)
	}

	prompt := buildPrompt(candidates, interests, limit)

	ranked, err := s.call(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("ranking failed; returning unranked candidates")
		return append([]digest.Paper(nil), candidates[:limit]...), prompt
	}

	byID := make(map[string]rankedItem, len(ranked))
	order := make(map[string]int, len(ranked))
	for i, item := range ranked {
		if _, seen := byID[item.ID]; seen {
			continue
		}
		byID[item.ID] = item
		order[item.ID] = i
	}

	// Fold the model's answer against the canonical records: only known IDs
	// survive, and every attached field comes from the lookup, not from the
	// response list's shape.
	selected := make([]digest.Paper, 0, len(byID))
	for _, p := range candidates {
		item, ok := byID[p.ID]
		if !ok {
			continue
		}
		p.Summary = item.Summary
		if p.Summary == "" {
			p.Summary = "No summary available."
		}
		p.StarRating = item.StarRating
		if p.StarRating == "" {
			p.StarRating = "☆☆☆☆☆"
		}
		if url, ok := links.Extract(p.Abstract); ok {
			p.ProjectURL = url
		} else if url, ok := links.Extract(p.Comment); ok {
			p.ProjectURL = url
		}
		selected = append(selected, p)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		oi, iok := order[selected[i].ID]
		oj, jok := order[selected[j].ID]
		if iok != jok {
			return iok // ranked before unranked
		}
		if !iok {
			return false // both unranked: keep input order
		}
		return oi < oj
	})

	if len(selected) > limit {
		selected = selected[:limit]
	}
	log.Info().Int("selected", len(selected)).Int("candidates", len(candidates)).Msg("ranked papers")
	return selected, prompt
}

func (s *Selector) call(ctx context.Context, prompt string) ([]rankedItem, error) {
	if s.Client == nil || s.Model == "" {
		return nil, errors.New("selector not configured")
	}
	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
		N:           1,
	})
	if err != nil {
		return nil, fmt.Errorf("ranking call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices")
	}
	raw := stripFences(resp.Choices[0].Message.Content)
	var ranked []rankedItem
	if err := json.Unmarshal([]byte(raw), &ranked); err != nil {
		return nil, fmt.Errorf("parse ranking json: %w", err)
	}
	return ranked, nil
}

func buildPrompt(candidates []digest.Paper, interests string, limit int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "User Interests: %s\n\n", interests)
	fmt.Fprintf(&sb, "Task:\n")
	fmt.Fprintf(&sb, "1. Analyze the papers below and select the top %d matches for the user.\n", limit)
	sb.WriteString("2. Sort the selected papers by relevance, most relevant first.\n")
	sb.WriteString("3. For each selected paper provide a star_rating from 1 to 5 drawn with '★' and '☆' (example: ★★★★☆) and a single-sentence summary of the novelty or key result.\n\n")
	sb.WriteString("Return a raw JSON array of objects shaped {\"id\": \"...\", \"star_rating\": \"...\", \"summary\": \"...\"}.\n\nPapers:\n")
	for _, p := range candidates {
		fmt.Fprintf(&sb, "\nID: %s\nTitle: %s\nAbstract: %s\n", p.ID, p.Title, p.Abstract)
	}
	return sb.String()
}

// stripFences tolerates models that wrap JSON in markdown code fences
// despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
