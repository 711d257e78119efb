package transcriber

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var reCueTiming = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})\s*-->\s*(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})`)

// ParseSRT reads SubRip cues. Cue numbers are optional and multi-line text
// is joined with spaces. Cues without text are dropped.
func ParseSRT(r io.Reader) ([]Segment, error) {
	var (
		segments []Segment
		current  *Segment
		lines    []string
	)
	flush := func() {
		if current != nil {
			current.Text = strings.Join(lines, " ")
			if current.Text != "" {
				segments = append(segments, *current)
			}
		}
		current, lines = nil, nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		switch {
		case line == "":
			flush()
		case reCueTiming.MatchString(line):
			flush()
			start, end := parseTiming(reCueTiming.FindStringSubmatch(line))
			current = &Segment{Start: start, End: end}
		case current == nil:
			// cue number
		default:
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	flush()
	return segments, nil
}

func parseTiming(m []string) (time.Duration, time.Duration) {
	return timestamp(m[1:5]), timestamp(m[5:9])
}

func timestamp(parts []string) time.Duration {
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	s, _ := strconv.Atoi(parts[2])
	frac := parts[3] + strings.Repeat("0", 3-len(parts[3]))
	ms, _ := strconv.Atoi(frac)
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond
}

// Join concatenates segment texts with single spaces.
func Join(segments []Segment) string {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, " ")
}
