package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tubetext/tubetext/pkg/config"
)

// Downloader extracts the audio track of a video using yt-dlp
type Downloader struct {
	binary       string
	audioQuality string
}

// NewDownloader creates a downloader
func NewDownloader(cfg *config.DownloaderConfig) *Downloader {
	binary := "yt-dlp"
	quality := "192K"
	if cfg != nil {
		if cfg.Binary != "" {
			binary = cfg.Binary
		}
		if cfg.AudioQuality != "" {
			quality = cfg.AudioQuality
		}
	}
	return &Downloader{binary: binary, audioQuality: quality}
}

// DownloadAudio downloads a video's audio as an mp3 file in a temporary
// directory. The returned cleanup func removes the directory and must be
// called once the file is no longer needed.
func (d *Downloader) DownloadAudio(ctx context.Context, videoURL string) (path string, cleanup func(), err error) {
	dir, err := os.MkdirTemp("", "tubetext-audio-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	outPath := filepath.Join(dir, "audio.mp3")
	cmd := exec.CommandContext(ctx, d.binary,
		"-f", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", d.audioQuality,
		"--output", filepath.Join(dir, "audio.%(ext)s"),
		"--quiet",
		"--no-warnings",
		videoURL,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("yt-dlp failed: %w: %s", err, out)
	}

	if _, err := os.Stat(outPath); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("yt-dlp produced no audio file: %w", err)
	}
	return outPath, cleanup, nil
}
