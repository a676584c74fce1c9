// Package social finds recent public discussion of a paper on X. Results
// are filtered by engagement and sorted before they reach the digest; a
// missing credential simply disables the stage.
package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/paperfeed/internal/digest"
)

const searchEndpoint = "https://api.twitter.com/2/tweets/search/recent"

// minLikes drops zero-engagement noise; a tweet needs at least this many
// likes to count as signal.
const minLikes = 2

// Client searches the recent-search endpoint with a bearer token.
type Client struct {
	BearerToken string
	HTTPClient  *http.Client
	// BaseURL overrides the API endpoint (tests).
	BaseURL string
}

type searchResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		AuthorID      string `json:"author_id"`
		PublicMetrics struct {
			LikeCount    int `json:"like_count"`
			RetweetCount int `json:"retweet_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

// Search returns engagement-filtered tweets mentioning the title, most
// liked first. An empty bearer token yields an empty result, not an error:
// the credential is optional and its absence just means no community
// signal.
func (c *Client) Search(ctx context.Context, title string) ([]digest.Tweet, error) {
	if c.BearerToken == "" {
		return nil, nil
	}

	// Quotes inside the title would break the exact-match query syntax.
	clean := strings.NewReplacer(`"`, "", "'", "").Replace(title)
	query := fmt.Sprintf(`"%s" -is:retweet lang:en`, clean)

	q := url.Values{}
	q.Set("query", query)
	q.Set("max_results", "10")
	q.Set("tweet.fields", "created_at,public_metrics,author_id")
	q.Set("expansions", "author_id")
	q.Set("user.fields", "name,username")

	base := c.BaseURL
	if base == "" {
		base = searchEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.BearerToken)

	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search status: %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	users := make(map[string]struct{ name, handle string }, len(sr.Includes.Users))
	for _, u := range sr.Includes.Users {
		users[u.ID] = struct{ name, handle string }{u.Name, u.Username}
	}

	tweets := make([]digest.Tweet, 0, len(sr.Data))
	for _, tw := range sr.Data {
		if tw.PublicMetrics.LikeCount < minLikes {
			continue
		}
		author, ok := users[tw.AuthorID]
		if !ok {
			author = struct{ name, handle string }{"Unknown", "unknown"}
		}
		tweets = append(tweets, digest.Tweet{
			Text:         tw.Text,
			AuthorName:   author.name,
			AuthorHandle: author.handle,
			Likes:        tw.PublicMetrics.LikeCount,
			Retweets:     tw.PublicMetrics.RetweetCount,
			URL:          fmt.Sprintf("https://x.com/%s/status/%s", author.handle, tw.ID),
		})
	}
	sort.SliceStable(tweets, func(i, j int) bool { return tweets[i].Likes > tweets[j].Likes })

	log.Debug().Int("count", len(tweets)).Str("title", clean).Msg("discussion search")
	return tweets, nil
}
