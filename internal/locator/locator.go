package locator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const transcriptSuffix = "_transcript"

// FindVideos walks the input directory and returns every video file in
// sorted order. Hidden files and directories are skipped.
func (l *implLocator) FindVideos(ctx context.Context) ([]string, error) {
	root := l.opts.InputDir
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn(ctx, "Input directory does not exist: %s", root)
		return nil, nil
	}

	var videos []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && l.IsVideo(path) {
			videos = append(videos, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(videos)
	return videos, nil
}

// IsVideo matches the extension case-insensitively.
func (l *implLocator) IsVideo(path string) bool {
	return l.extensions[strings.ToLower(filepath.Ext(path))]
}

func (l *implLocator) TranscriptPath(video string) string {
	return filepath.Join(l.opts.TranscriptDir, VideoName(video)+l.opts.TranscriptExtension)
}

func (l *implLocator) BriefPath(video string) string {
	return filepath.Join(l.opts.BriefDir, VideoName(video)+l.opts.BriefExtension)
}

// Status reports, for every discovered video, whether its transcript and a
// brief named after the video exist. Briefs saved under an extracted title
// are not matched.
func (l *implLocator) Status(ctx context.Context) ([]Entry, error) {
	videos, err := l.FindVideos(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(videos))
	for _, v := range videos {
		e := Entry{
			Video:          v,
			Name:           filepath.Base(v),
			TranscriptPath: l.TranscriptPath(v),
			BriefPath:      l.BriefPath(v),
		}
		e.HasTranscript = exists(e.TranscriptPath)
		e.HasBrief = exists(e.BriefPath)
		entries = append(entries, e)
	}
	return entries, nil
}

// VideoName is the basename without extension. Transcript files named
// "<video>_transcript.txt" map back to "<video>".
func VideoName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(name, transcriptSuffix)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
