package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tubetext/tubetext/internal/domain/entities"
	"github.com/tubetext/tubetext/internal/infrastructure/external/captions"
	uerrors "github.com/tubetext/tubetext/internal/usecase/errors"
	"github.com/tubetext/tubetext/internal/usecase/transcript"
	"github.com/tubetext/tubetext/internal/usecase/translate"
	"github.com/tubetext/tubetext/pkg/segmenter"
	"github.com/tubetext/tubetext/pkg/usage"
	pkgvalidator "github.com/tubetext/tubetext/pkg/validator"
)

type fakeResolver struct {
	tr       *transcript.Transcript
	err      error
	langs    []captions.Language
	langsErr error
	calls    int
}

func (f *fakeResolver) Resolve(ctx context.Context, videoURL, language string) (*transcript.Transcript, error) {
	f.calls++
	return f.tr, f.err
}

func (f *fakeResolver) Languages(ctx context.Context, videoURL string) ([]captions.Language, error) {
	return f.langs, f.langsErr
}

type fakeMeter struct {
	grant *usage.Grant
	err   error
	got   string
	calls int
}

func (f *fakeMeter) Authorize(existing string) (*usage.Grant, error) {
	f.calls++
	f.got = existing
	return f.grant, f.err
}

func (f *fakeMeter) Limit() int            { return 5 }
func (f *fakeMeter) Window() time.Duration { return 720 * time.Hour }

type fakeStreamer struct {
	out    string
	err    error
	events []translate.Event
}

func (f *fakeStreamer) Translate(ctx context.Context, text, language string) (string, error) {
	return f.out, f.err
}

func (f *fakeStreamer) Stream(ctx context.Context, texts []string, language string) <-chan translate.Event {
	ch := make(chan translate.Event)
	go func() {
		defer close(ch)
		for _, ev := range f.events {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

type fakeSummarizer struct {
	out string
	err error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, transcription string) (string, error) {
	return f.out, f.err
}

func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = pkgvalidator.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okTranscript() *transcript.Transcript {
	return &transcript.Transcript{
		VideoID:  "dQw4w9WgXcQ",
		Source:   transcript.SourceCaptions,
		Language: "en",
		Segments: []segmenter.Segment{
			{Timestamp: "(00:00)", Text: "hello world"},
		},
		WordCount: 2,
	}
}

func TestGetTranscriptAnonymousSetsUsageCookie(t *testing.T) {
	resolver := &fakeResolver{tr: okTranscript()}
	meter := &fakeMeter{grant: &usage.Grant{Token: "fresh-token", Count: 1}}
	h := NewVideo(resolver, meter, &fakeStreamer{}, &fakeSummarizer{}, nil)

	c, rec := newContext(t, http.MethodPost, "/v1/video", `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	if err := h.GetTranscript(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success   bool   `json:"success"`
		VideoID   string `json:"video_id"`
		Source    string `json:"source"`
		WordCount int    `json:"word_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.VideoID != "dQw4w9WgXcQ" || resp.Source != "captions" || resp.WordCount != 2 {
		t.Errorf("response = %+v", resp)
	}

	var found bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == UsageCookieName {
			found = true
			if ck.Value != "fresh-token" {
				t.Errorf("cookie value = %q", ck.Value)
			}
			if !ck.HttpOnly {
				t.Error("usage cookie should be HttpOnly")
			}
		}
	}
	if !found {
		t.Error("usage cookie not set on success")
	}
}

func TestGetTranscriptForwardsExistingUsageToken(t *testing.T) {
	resolver := &fakeResolver{tr: okTranscript()}
	meter := &fakeMeter{grant: &usage.Grant{Token: "next-token", Count: 3}}
	h := NewVideo(resolver, meter, &fakeStreamer{}, &fakeSummarizer{}, nil)

	c, _ := newContext(t, http.MethodPost, "/v1/video", `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	c.Request().AddCookie(&http.Cookie{Name: UsageCookieName, Value: "prior-token"})
	if err := h.GetTranscript(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if meter.got != "prior-token" {
		t.Errorf("meter saw token %q, want prior-token", meter.got)
	}
}

func TestGetTranscriptQuotaExceeded(t *testing.T) {
	resolver := &fakeResolver{tr: okTranscript()}
	meter := &fakeMeter{err: uerrors.ErrQuotaExceeded}
	h := NewVideo(resolver, meter, &fakeStreamer{}, &fakeSummarizer{}, nil)

	c, rec := newContext(t, http.MethodPost, "/v1/video", `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	if err := h.GetTranscript(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusPaymentRequired {
		t.Errorf("status = %d, want 402", rec.Code)
	}
	if resolver.calls != 0 {
		t.Error("resolver ran despite exhausted quota")
	}
	if !strings.Contains(rec.Body.String(), "upgrade") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGetTranscriptTamperedUsageToken(t *testing.T) {
	meter := &fakeMeter{err: uerrors.ErrUsageTokenInvalid}
	h := NewVideo(&fakeResolver{tr: okTranscript()}, meter, &fakeStreamer{}, &fakeSummarizer{}, nil)

	c, rec := newContext(t, http.MethodPost, "/v1/video", `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	c.Request().AddCookie(&http.Cookie{Name: UsageCookieName, Value: "garbage"})
	if err := h.GetTranscript(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetTranscriptAuthenticatedSkipsMeter(t *testing.T) {
	meter := &fakeMeter{err: uerrors.ErrQuotaExceeded}
	h := NewVideo(&fakeResolver{tr: okTranscript()}, meter, &fakeStreamer{}, &fakeSummarizer{}, nil)

	c, rec := newContext(t, http.MethodPost, "/v1/video", `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	c.Set("user", &entities.User{Tier: entities.TierPremium})
	if err := h.GetTranscript(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if meter.calls != 0 {
		t.Error("meter consulted for an authenticated user")
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == UsageCookieName {
			t.Error("usage cookie set for an authenticated user")
		}
	}
}

func TestGetTranscriptSourceUnavailable(t *testing.T) {
	resolver := &fakeResolver{err: uerrors.ErrSourceUnavailable}
	meter := &fakeMeter{grant: &usage.Grant{Token: "next"}}
	h := NewVideo(resolver, meter, &fakeStreamer{}, &fakeSummarizer{}, nil)

	c, rec := newContext(t, http.MethodPost, "/v1/video", `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	if err := h.GetTranscript(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Errorf("response = %+v", resp)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == UsageCookieName {
			t.Error("usage cookie refreshed for a failed resolution")
		}
	}
}

func TestGetTranscriptProviderNotConfigured(t *testing.T) {
	resolver := &fakeResolver{err: uerrors.ErrNotConfigured}
	h := NewVideo(resolver, &fakeMeter{grant: &usage.Grant{Token: "t"}}, &fakeStreamer{}, &fakeSummarizer{}, nil)

	c, rec := newContext(t, http.MethodPost, "/v1/video", `{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`)
	if err := h.GetTranscript(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestGetTranscriptInvalidURL(t *testing.T) {
	resolver := &fakeResolver{err: uerrors.ErrInvalidVideoURL}
	h := NewVideo(resolver, &fakeMeter{grant: &usage.Grant{Token: "t"}}, &fakeStreamer{}, &fakeSummarizer{}, nil)

	c, rec := newContext(t, http.MethodPost, "/v1/video", `{"video_url":"nope"}`)
	if err := h.GetTranscript(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetTranscriptMissingURL(t *testing.T) {
	h := NewVideo(&fakeResolver{}, &fakeMeter{}, &fakeStreamer{}, &fakeSummarizer{}, nil)
	c, rec := newContext(t, http.MethodPost, "/v1/video", `{}`)
	if err := h.GetTranscript(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetLanguages(t *testing.T) {
	resolver := &fakeResolver{langs: []captions.Language{
		{Code: "es", Name: "Spanish"},
		{Code: "en", Name: "English"},
	}}
	h := NewVideo(resolver, &fakeMeter{}, &fakeStreamer{}, &fakeSummarizer{}, nil)

	c, rec := newContext(t, http.MethodGet, "/v1/video/languages?video_url=https%3A%2F%2Fyoutu.be%2FdQw4w9WgXcQ", "")
	if err := h.GetLanguages(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success   bool `json:"success"`
		Languages []struct {
			Code string `json:"code"`
		} `json:"languages"`
		Default string `json:"default"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Languages) != 2 {
		t.Errorf("response = %+v", resp)
	}
	if resp.Default != "en" {
		t.Errorf("default = %q, want en", resp.Default)
	}
}

func TestTranslateSync(t *testing.T) {
	h := NewVideo(&fakeResolver{}, &fakeMeter{}, &fakeStreamer{out: "hola"}, &fakeSummarizer{}, nil)
	c, rec := newContext(t, http.MethodPost, "/v1/video/translate", `{"transcription":"hello","language":"Spanish"}`)
	if err := h.Translate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "hola") {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestTranslateSyncUnavailable(t *testing.T) {
	streamer := &fakeStreamer{err: fmt.Errorf("%w: upstream exploded", uerrors.ErrTranslationFailed)}
	h := NewVideo(&fakeResolver{}, &fakeMeter{}, streamer, &fakeSummarizer{}, nil)
	c, rec := newContext(t, http.MethodPost, "/v1/video/translate", `{"transcription":"hello","language":"Spanish"}`)
	if err := h.Translate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestStreamTranslateFrames(t *testing.T) {
	streamer := &fakeStreamer{events: []translate.Event{
		{Type: translate.EventTranslated, Index: 0, Translation: "uno"},
		{Type: translate.EventTranslated, Index: 1, Translation: "dos"},
		{Type: translate.EventDone, Index: 2},
	}}
	h := NewVideo(&fakeResolver{}, &fakeMeter{}, streamer, &fakeSummarizer{}, nil)

	body := `{"segments":[{"timestamp":"(00:00)","text":"one"},{"timestamp":"(00:35)","text":"two"}],"language":"Spanish"}`
	c, rec := newContext(t, http.MethodPost, "/v1/video/translate/stream", body)
	if err := h.StreamTranslate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	frames := strings.Split(strings.TrimSpace(rec.Body.String()), "\n\n")
	if len(frames) != 3 {
		t.Fatalf("got %d frames: %q", len(frames), rec.Body.String())
	}
	if frames[0] != `data: {"translation":"uno"}` {
		t.Errorf("frame 0 = %q", frames[0])
	}
	if frames[2] != `data: {"done":true}` {
		t.Errorf("frame 2 = %q", frames[2])
	}
}

func TestStreamTranslateFailureFrame(t *testing.T) {
	streamer := &fakeStreamer{events: []translate.Event{
		{Type: translate.EventTranslated, Index: 0, Translation: "uno"},
		{Type: translate.EventFailed, Index: 1, Reason: "translation service unavailable"},
	}}
	h := NewVideo(&fakeResolver{}, &fakeMeter{}, streamer, &fakeSummarizer{}, nil)

	body := `{"segments":[{"text":"one"},{"text":"two"}],"language":"Spanish"}`
	c, rec := newContext(t, http.MethodPost, "/v1/video/translate/stream", body)
	if err := h.StreamTranslate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	frames := strings.Split(strings.TrimSpace(rec.Body.String()), "\n\n")
	if len(frames) != 2 {
		t.Fatalf("got %d frames: %q", len(frames), rec.Body.String())
	}
	if frames[1] != `data: {"error":"translation service unavailable"}` {
		t.Errorf("frame 1 = %q", frames[1])
	}
}

func TestSummarize(t *testing.T) {
	h := NewVideo(&fakeResolver{}, &fakeMeter{}, &fakeStreamer{}, &fakeSummarizer{out: "short version"}, nil)
	c, rec := newContext(t, http.MethodPost, "/v1/video/summary", `{"transcription":"a very long transcript"}`)
	if err := h.Summarize(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "short version") {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestGeneratePDF(t *testing.T) {
	h := NewVideo(&fakeResolver{}, &fakeMeter{}, &fakeStreamer{}, &fakeSummarizer{}, nil)
	body := `{"segments":[{"timestamp":"(00:00)","text":"hello"}]}`
	c, rec := newContext(t, http.MethodPost, "/v1/video/pdf", body)
	if err := h.GeneratePDF(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "transcript.pdf") {
		t.Errorf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("body is not a PDF")
	}
}
