package transcript

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/tubetext/tubetext/internal/infrastructure/external/captions"
	"github.com/tubetext/tubetext/internal/infrastructure/external/speech"
	uerrors "github.com/tubetext/tubetext/internal/usecase/errors"
	"github.com/tubetext/tubetext/pkg/segmenter"
)

// Transcript sources
const (
	SourceCaptions = "captions"
	SourceAudio    = "audio_transcription"
)

// CaptionSource lists and fetches published caption tracks
type CaptionSource interface {
	ListLanguages(ctx context.Context, videoID string) ([]captions.Language, error)
	Fetch(ctx context.Context, videoID, language string) ([]segmenter.Utterance, error)
}

// AudioTranscriber produces a transcript from the video's audio
type AudioTranscriber interface {
	Transcribe(ctx context.Context, videoURL, language string) (*speech.Result, error)
}

// Transcript is a resolved transcript for one video
type Transcript struct {
	VideoID   string
	Source    string
	Language  string
	Segments  []segmenter.Segment
	WordCount int
}

// Resolver turns a video URL into a transcript, preferring published
// captions and falling back to audio transcription.
type Resolver struct {
	captions CaptionSource
	audio    AudioTranscriber
	logger   *zap.Logger
}

// NewResolver creates a resolver
func NewResolver(captionSource CaptionSource, audio AudioTranscriber, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		captions: captionSource,
		audio:    audio,
		logger:   logger,
	}
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]v=([0-9A-Za-z_-]{11})(?:[?&#]|$)`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`/(?:embed|shorts|live)/([0-9A-Za-z_-]{11})`),
}

var bareVideoID = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// ExtractVideoID pulls the 11-character video ID out of the common YouTube
// URL shapes. A bare ID is accepted as-is.
func ExtractVideoID(raw string) (string, error) {
	if bareVideoID.MatchString(raw) {
		return raw, nil
	}
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(raw); m != nil {
			return m[1], nil
		}
	}
	return "", uerrors.ErrInvalidVideoURL
}

// Resolve fetches a transcript for the video. Captions are tried first; a
// caption failure falls through to audio transcription only when the captions
// source reports itself unavailable. Other errors, cancellation included,
// propagate unchanged.
func (r *Resolver) Resolve(ctx context.Context, videoURL, language string) (*Transcript, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	lang := language
	if lang == "" {
		lang = "en"
	}

	utterances, capErr := r.captions.Fetch(ctx, videoID, lang)
	if capErr == nil {
		segments := segmenter.Merge(utterances, segmenter.DefaultTargetDuration)
		return &Transcript{
			VideoID:   videoID,
			Source:    SourceCaptions,
			Language:  lang,
			Segments:  segments,
			WordCount: countWords(segments),
		}, nil
	}
	if !errors.Is(capErr, uerrors.ErrSourceUnavailable) {
		return nil, capErr
	}
	r.logger.Debug("captions unavailable, falling back to audio",
		zap.String("video_id", videoID),
		zap.String("language", lang),
		zap.Error(capErr))

	result, audErr := r.audio.Transcribe(ctx, videoURL, lang)
	if audErr != nil {
		if errors.Is(audErr, uerrors.ErrNotConfigured) {
			return nil, audErr
		}
		return nil, fmt.Errorf("%w: %v", uerrors.ErrSourceUnavailable, audErr)
	}

	return &Transcript{
		VideoID:   videoID,
		Source:    SourceAudio,
		Language:  lang,
		Segments:  result.Segments,
		WordCount: result.WordCount,
	}, nil
}

// Languages returns the caption tracks available for the video
func (r *Resolver) Languages(ctx context.Context, videoURL string) ([]captions.Language, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}
	langs, err := r.captions.ListLanguages(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", uerrors.ErrSourceUnavailable, err)
	}
	return langs, nil
}

func countWords(segments []segmenter.Segment) int {
	var n int
	for _, s := range segments {
		n += segmenter.WordCount(s.Text)
	}
	return n
}
