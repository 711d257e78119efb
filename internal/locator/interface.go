package locator

import "context"

// Entry is the processing state of one discovered video.
type Entry struct {
	Video          string
	Name           string
	TranscriptPath string
	HasTranscript  bool
	BriefPath      string
	HasBrief       bool
}

// Locator finds input videos and maps them to their output paths.
type Locator interface {
	FindVideos(ctx context.Context) ([]string, error)
	IsVideo(path string) bool
	TranscriptPath(video string) string
	BriefPath(video string) string
	Status(ctx context.Context) ([]Entry, error)
}
