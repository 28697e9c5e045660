package segmenter

import (
	"fmt"
	"strings"
)

// DefaultTargetDuration is the display-chunk duration the merger aims for, in seconds.
const DefaultTargetDuration = 30.0

// Utterance is a single timestamped unit of spoken text from an upstream provider.
// Both caption snippets and speech-to-text utterances are mapped into this shape at
// the adapter boundary before merging.
type Utterance struct {
	Start float64 `json:"start"`
	Text  string  `json:"text"`
}

// Segment is the display unit: a formatted timestamp plus the merged text of all
// utterances that fell into the chunk.
type Segment struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// Merge collapses small utterances into chunks of roughly targetDuration seconds.
//
// The boundary is decided on the utterance that crosses the threshold: its text is
// included in the segment being closed and its own start seeds the next segment, so
// targetDuration is a lower bound, not an upper bound. A trailing accumulator is
// always flushed.
func Merge(utterances []Utterance, targetDuration float64) []Segment {
	if len(utterances) == 0 {
		return []Segment{}
	}

	merged := []Segment{}
	currentStart := utterances[0].Start
	var currentTexts []string

	for _, u := range utterances {
		currentTexts = append(currentTexts, u.Text)

		elapsed := u.Start - currentStart
		if elapsed >= targetDuration {
			merged = append(merged, Segment{
				Timestamp: FormatTimestamp(currentStart),
				Text:      strings.Join(currentTexts, " "),
			})
			currentStart = u.Start
			currentTexts = nil
		}
	}

	if len(currentTexts) > 0 {
		merged = append(merged, Segment{
			Timestamp: FormatTimestamp(currentStart),
			Text:      strings.Join(currentTexts, " "),
		})
	}

	return merged
}

// FormatTimestamp renders seconds as "(MM:SS)" under one hour and "(H:MM:SS)" above.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	hrs := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if hrs > 0 {
		return fmt.Sprintf("(%d:%02d:%02d)", hrs, mins, secs)
	}
	return fmt.Sprintf("(%02d:%02d)", mins, secs)
}

// WordCount counts whitespace-separated words in a transcript text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
