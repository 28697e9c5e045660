package captions

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	uerrors "github.com/tubetext/tubetext/internal/usecase/errors"
	"github.com/tubetext/tubetext/pkg/config"
	"github.com/tubetext/tubetext/pkg/segmenter"
)

// ErrNoCaptions means the video has no caption track for the requested
// language, or no caption tracks at all. It wraps ErrSourceUnavailable so
// callers can treat a missing track like any other captions outage.
var ErrNoCaptions = fmt.Errorf("%w: no captions available", uerrors.ErrSourceUnavailable)

// Language describes one available caption track
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Client fetches caption tracks from YouTube's timedtext endpoint
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a captions client
func NewClient(cfg *config.CaptionsConfig) *Client {
	base := "https://www.youtube.com"
	if cfg != nil && cfg.BaseURL != "" {
		base = strings.TrimRight(cfg.BaseURL, "/")
	}
	hc := &http.Client{}
	if cfg != nil && cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}
	return &Client{baseURL: base, client: hc}
}

type trackList struct {
	XMLName xml.Name `xml:"transcript_list"`
	Tracks  []struct {
		LangCode       string `xml:"lang_code,attr"`
		LangOriginal   string `xml:"lang_original,attr"`
		LangTranslated string `xml:"lang_translated,attr"`
	} `xml:"track"`
}

// ListLanguages returns the caption tracks published for a video
func (c *Client) ListLanguages(ctx context.Context, videoID string) ([]Language, error) {
	q := url.Values{}
	q.Set("type", "list")
	q.Set("v", videoID)

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}

	var list trackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: failed to parse track list: %v", uerrors.ErrSourceUnavailable, err)
	}
	if len(list.Tracks) == 0 {
		return nil, ErrNoCaptions
	}

	languages := make([]Language, 0, len(list.Tracks))
	for _, t := range list.Tracks {
		name := t.LangTranslated
		if name == "" {
			name = t.LangOriginal
		}
		languages = append(languages, Language{Code: t.LangCode, Name: name})
	}
	return languages, nil
}

type json3Event struct {
	TStartMs int64 `json:"tStartMs"`
	Segs     []struct {
		UTF8 string `json:"utf8"`
	} `json:"segs"`
}

type json3Body struct {
	Events []json3Event `json:"events"`
}

// Fetch downloads the caption track for one language and returns it as
// timed utterances.
func (c *Client) Fetch(ctx context.Context, videoID, language string) ([]segmenter.Utterance, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", language)
	q.Set("fmt", "json3")

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	// The endpoint answers 200 with an empty body when the track does
	// not exist.
	if len(body) == 0 {
		return nil, ErrNoCaptions
	}

	var parsed json3Body
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse captions: %v", uerrors.ErrSourceUnavailable, err)
	}

	utterances := make([]segmenter.Utterance, 0, len(parsed.Events))
	for _, ev := range parsed.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
		if text == "" {
			continue
		}
		utterances = append(utterances, segmenter.Utterance{
			Start: float64(ev.TStartMs) / 1000.0,
			Text:  text,
		})
	}
	if len(utterances) == 0 {
		return nil, ErrNoCaptions
	}
	return utterances, nil
}

func (c *Client) get(ctx context.Context, q url.Values) ([]byte, error) {
	endpoint := c.baseURL + "/api/timedtext?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// Cancellation is the caller's doing, not a captions outage.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: timedtext request failed: %v", uerrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoCaptions
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: timedtext returned status %d", uerrors.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read timedtext response: %v", uerrors.ErrSourceUnavailable, err)
	}
	return body, nil
}
