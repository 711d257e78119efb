package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Transcribe extracts a 16kHz mono WAV with ffmpeg, runs whisper.cpp with
// SRT output and parses the result. Intermediate files are always removed.
func (t *implTranscriber) Transcribe(ctx context.Context, mediaPath string) ([]Segment, error) {
	if _, err := os.Stat(mediaPath); err != nil {
		return nil, fmt.Errorf("stat media: %w", err)
	}

	workDir, err := os.MkdirTemp(t.opts.TempDir, "briefs-whisper-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer t.cleanup(ctx, workDir)

	audioPath, err := t.extractAudio(ctx, mediaPath, workDir)
	if err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}

	srtPath, err := t.runWhisper(ctx, audioPath, workDir)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	f, err := os.Open(srtPath)
	if err != nil {
		return nil, fmt.Errorf("open subtitles: %w", err)
	}
	defer f.Close()

	segments, err := ParseSRT(f)
	if err != nil {
		return nil, fmt.Errorf("parse subtitles: %w", err)
	}
	t.logger.Info(ctx, "Transcribed %s: %d segments", filepath.Base(mediaPath), len(segments))
	return segments, nil
}

// extractAudio converts the media to the 16kHz mono PCM whisper expects.
func (t *implTranscriber) extractAudio(ctx context.Context, mediaPath, workDir string) (string, error) {
	audioPath := filepath.Join(workDir, "audio.wav")
	t.logger.Info(ctx, "Extracting audio: %s", mediaPath)

	args := []string{
		"-i", mediaPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}
	if _, err := t.executor.Execute(ctx, t.opts.FFmpegPath, args...); err != nil {
		return "", err
	}
	return audioPath, nil
}

func (t *implTranscriber) runWhisper(ctx context.Context, audioPath, workDir string) (string, error) {
	prefix := filepath.Join(workDir, "transcript")
	t.logger.Info(ctx, "Running whisper (%s, %d threads, device %s)",
		t.opts.Language, t.opts.Threads, t.opts.Device)

	if _, err := t.executor.ExecuteInDir(ctx, workDir, t.opts.BinaryPath, t.whisperArgs(audioPath, prefix)...); err != nil {
		return "", err
	}
	return prefix + ".srt", nil
}

func (t *implTranscriber) whisperArgs(audioPath, prefix string) []string {
	args := []string{
		"-m", t.opts.ModelPath,
		"-f", audioPath,
		"-osrt",
		"--output-file", prefix,
	}
	if t.opts.Language != "" {
		args = append(args, "-l", t.opts.Language)
	}
	if t.opts.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(t.opts.Threads))
	}
	if t.opts.Prompt != "" {
		args = append(args, "--prompt", t.opts.Prompt)
	}
	if strings.EqualFold(t.opts.Device, "cpu") {
		args = append(args, "-ng")
	}
	return append(args, t.opts.ExtraArgs...)
}

func (t *implTranscriber) cleanup(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		t.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", dir, err)
		return
	}
	t.logger.Debug(ctx, "Cleaned up temp dir: %s", dir)
}
