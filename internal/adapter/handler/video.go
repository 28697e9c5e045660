package handler

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tubetext/tubetext/errors"
	"github.com/tubetext/tubetext/internal/adapter/dto/common"
	"github.com/tubetext/tubetext/internal/adapter/dto/video"
	"github.com/tubetext/tubetext/internal/domain/entities"
	"github.com/tubetext/tubetext/internal/infrastructure/external/captions"
	uerrors "github.com/tubetext/tubetext/internal/usecase/errors"
	"github.com/tubetext/tubetext/internal/usecase/transcript"
	"github.com/tubetext/tubetext/internal/usecase/translate"
	"github.com/tubetext/tubetext/pkg/pdf"
	"github.com/tubetext/tubetext/pkg/usage"
)

// TranscriptResolver resolves a video URL into transcript segments
type TranscriptResolver interface {
	Resolve(ctx context.Context, videoURL, language string) (*transcript.Transcript, error)
	Languages(ctx context.Context, videoURL string) ([]captions.Language, error)
}

// UsageMeter meters anonymous free-tier use
type UsageMeter interface {
	Authorize(existing string) (*usage.Grant, error)
	Limit() int
	Window() time.Duration
}

// Streamer translates transcript text, one-shot or chunk by chunk
type Streamer interface {
	Translate(ctx context.Context, text, language string) (string, error)
	Stream(ctx context.Context, texts []string, language string) <-chan translate.Event
}

// Summarizer condenses a transcript into a short summary
type Summarizer interface {
	Summarize(ctx context.Context, transcription string) (string, error)
}

// Video handles the transcript, translation, summary and PDF endpoints
type Video struct {
	resolver   TranscriptResolver
	meter      UsageMeter
	relay      Streamer
	summarizer Summarizer
	logger     *zap.Logger
}

// NewVideo creates the video handler
func NewVideo(resolver TranscriptResolver, meter UsageMeter, relay Streamer, summarizer Summarizer, logger *zap.Logger) *Video {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Video{
		resolver:   resolver,
		meter:      meter,
		relay:      relay,
		summarizer: summarizer,
		logger:     logger,
	}
}

// currentUser returns the authenticated user, if the optional-auth
// middleware resolved one.
func currentUser(c echo.Context) *entities.User {
	user, _ := c.Get("user").(*entities.User)
	return user
}

// GetTranscript resolves a transcript for a video URL. Anonymous callers
// consume one unit of the free quota; the refreshed usage token is only set
// once resolution succeeds.
func (h *Video) GetTranscript(c echo.Context) error {
	var req video.TranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("video_url is required"))
	}

	var grant *usage.Grant
	if currentUser(c) == nil {
		existing := ""
		if ck, err := c.Cookie(UsageCookieName); err == nil {
			existing = ck.Value
		}
		g, err := h.meter.Authorize(existing)
		if err != nil {
			switch {
			case stdErrors.Is(err, uerrors.ErrQuotaExceeded):
				return HandleError(h.logger, c, errors.ErrFreeQuotaExceeded(h.meter.Limit()))
			case stdErrors.Is(err, uerrors.ErrUsageTokenInvalid):
				return HandleError(h.logger, c, errors.ErrUsageTokenInvalid())
			default:
				return HandleError(h.logger, c, err)
			}
		}
		grant = g
	}

	tr, err := h.resolver.Resolve(c.Request().Context(), req.VideoURL, req.Language)
	if err != nil {
		switch {
		case stdErrors.Is(err, uerrors.ErrInvalidVideoURL):
			return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid video URL"))
		case stdErrors.Is(err, uerrors.ErrNotConfigured):
			return HandleError(h.logger, c, errors.ErrProviderNotConfigured("Speech-to-text"))
		case stdErrors.Is(err, uerrors.ErrSourceUnavailable):
			h.logger.Warn("no transcript source available",
				zap.String("request_id", getRequestID(c)),
				zap.Error(err))
			return c.JSON(http.StatusOK, common.ErrorResponse{
				Success: false,
				Error:   "No transcript could be produced for this video",
			})
		default:
			return HandleError(h.logger, c, err)
		}
	}

	if grant != nil {
		SetCookie(c, UsageCookieName, grant.Token, int(h.meter.Window().Seconds()))
	}

	segments := make([]video.SegmentResponse, len(tr.Segments))
	for i, s := range tr.Segments {
		segments[i] = video.SegmentResponse{Timestamp: s.Timestamp, Text: s.Text}
	}
	return HandleSuccess(h.logger, c, http.StatusOK, video.TranscriptResponse{
		Success:   true,
		VideoID:   tr.VideoID,
		Source:    tr.Source,
		Language:  tr.Language,
		Segments:  segments,
		WordCount: tr.WordCount,
	})
}

// GetLanguages lists the caption tracks a video publishes
func (h *Video) GetLanguages(c echo.Context) error {
	var req video.LanguagesRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("video_url is required"))
	}

	videoID, err := transcript.ExtractVideoID(req.VideoURL)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid video URL"))
	}

	langs, err := h.resolver.Languages(c.Request().Context(), req.VideoURL)
	if err != nil {
		if stdErrors.Is(err, uerrors.ErrSourceUnavailable) {
			return HandleSuccess(h.logger, c, http.StatusOK, video.LanguagesResponse{
				Success:   true,
				VideoID:   videoID,
				Languages: []video.LanguageResponse{},
			})
		}
		return HandleError(h.logger, c, err)
	}

	out := make([]video.LanguageResponse, len(langs))
	def := langs[0].Code
	for i, l := range langs {
		out[i] = video.LanguageResponse{Code: l.Code, Name: l.Name}
		if l.Code == "en" {
			def = "en"
		}
	}
	return HandleSuccess(h.logger, c, http.StatusOK, video.LanguagesResponse{
		Success:   true,
		VideoID:   videoID,
		Languages: out,
		Default:   def,
	})
}

// Translate translates a whole transcript in one call
func (h *Video) Translate(c echo.Context) error {
	var req video.TranslateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("transcription and language are required"))
	}

	out, err := h.relay.Translate(c.Request().Context(), req.Transcription, req.Language)
	if err != nil {
		if stdErrors.Is(err, uerrors.ErrTranslationFailed) {
			return HandleError(h.logger, c, errors.ErrTranslationUnavailable(err))
		}
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, video.TranslateResponse{
		Success:     true,
		Translation: out,
	})
}

// StreamTranslate translates segments one by one over server-sent events.
// Each chunk arrives as `data: {"translation": ...}`; a failure sends one
// `data: {"error": ...}` and ends the stream; `data: {"done": true}` marks a
// complete run.
func (h *Video) StreamTranslate(c echo.Context) error {
	var req video.StreamTranslateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("segments and language are required"))
	}

	texts := make([]string, len(req.Segments))
	for i, s := range req.Segments {
		texts[i] = s.Text
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for ev := range h.relay.Stream(c.Request().Context(), texts, req.Language) {
		var payload []byte
		switch ev.Type {
		case translate.EventTranslated:
			payload, _ = json.Marshal(map[string]string{"translation": ev.Translation})
		case translate.EventFailed:
			payload, _ = json.Marshal(map[string]string{"error": ev.Reason})
		case translate.EventDone:
			payload = []byte(`{"done":true}`)
		}
		if _, err := fmt.Fprintf(resp, "data: %s\n\n", payload); err != nil {
			// Client went away; the relay notices via ctx.
			return nil
		}
		resp.Flush()
	}
	return nil
}

// Summarize condenses a transcript into a short summary
func (h *Video) Summarize(c echo.Context) error {
	var req video.SummaryRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("transcription is required"))
	}

	summary, err := h.summarizer.Summarize(c.Request().Context(), req.Transcription)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrTranslationUnavailable(err))
	}
	return HandleSuccess(h.logger, c, http.StatusOK, video.SummaryResponse{
		Success: true,
		Summary: summary,
	})
}

// GeneratePDF renders transcript segments as a downloadable PDF
func (h *Video) GeneratePDF(c echo.Context) error {
	var req video.PDFRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("segments are required"))
	}

	title := req.Title
	if title == "" {
		title = "Video Transcript"
	}
	sections := make([]pdf.Section, len(req.Segments))
	for i, s := range req.Segments {
		sections[i] = pdf.Section{Timestamp: s.Timestamp, Text: s.Text}
	}

	var buf bytes.Buffer
	if err := pdf.Build(&buf, title, sections); err != nil {
		return HandleError(h.logger, c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="transcript.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
