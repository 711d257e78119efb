package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/gateway"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/models"
)

const goodBrief = `Ad 1: "Summer Launch"

Hook: open on the product.`

type reply struct {
	text string
	err  error
}

type fakeHandle struct {
	spec    models.Spec
	replies []reply
	shapes  []gateway.Shape
	reqs    []gateway.Request
}

func (h *fakeHandle) Model() models.Spec { return h.spec }

func (h *fakeHandle) Invoke(ctx context.Context, req gateway.Request) (string, error) {
	h.shapes = append(h.shapes, req.Payload.Shape)
	h.reqs = append(h.reqs, req)
	if len(h.replies) == 0 {
		return goodBrief, nil
	}
	r := h.replies[0]
	if len(h.replies) > 1 {
		h.replies = h.replies[1:]
	}
	return r.text, r.err
}

type fakeGateway struct {
	handles  map[string]*fakeHandle
	acquired []string
}

func (g *fakeGateway) Acquire(ctx context.Context, spec models.Spec, tags gateway.Tags) (gateway.Handle, error) {
	g.acquired = append(g.acquired, spec.ID)
	h, ok := g.handles[spec.ID]
	if !ok {
		return nil, gateway.NewError(gateway.KindLoadFailure, spec.ID, errors.New("model not found"))
	}
	h.spec = spec
	return h, nil
}

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

type recordingObserver struct {
	loads    []string
	attempts []Attempt
}

func (o *recordingObserver) ObserveLoad(spec models.Spec, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	o.loads = append(o.loads, spec.ID+":"+result)
}

func (o *recordingObserver) ObserveAttempt(a Attempt) {
	o.attempts = append(o.attempts, a)
}

func newTestEngine(gw gateway.Gateway, rec *sleepRecorder, opts ...Option) Engine {
	opts = append([]Option{WithSleep(rec.sleep)}, opts...)
	return New(gw, logger.Nop(), opts...)
}

func TestLoadFallsBackInOrder(t *testing.T) {
	gw := &fakeGateway{handles: map[string]*fakeHandle{
		"claude-b": {},
		"model-c":  {},
	}}
	rec := &sleepRecorder{}
	obs := &recordingObserver{}
	eng := newTestEngine(gw, rec, WithObserver(obs))

	sess := NewSession("sys", models.BuildPriorityList("gemini-a", []string{"claude-b", "model-c"}, nil))
	sess, err := eng.Load(context.Background(), sess)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if sess.Working == nil || sess.Working.Spec.ID != "claude-b" {
		t.Fatalf("Working = %+v, want claude-b", sess.Working)
	}
	if sess.Working.Spec.Family != models.FamilyClaude {
		t.Errorf("family = %v, want claude", sess.Working.Spec.Family)
	}
	if got := strings.Join(gw.acquired, ","); got != "gemini-a,claude-b" {
		t.Errorf("probed %s, want gemini-a,claude-b", got)
	}
	if len(rec.calls) != 1 || rec.calls[0] != loadPause {
		t.Errorf("sleeps = %v, want one %v pause", rec.calls, loadPause)
	}
	if got := strings.Join(obs.loads, ","); got != "gemini-a:failed,claude-b:ok" {
		t.Errorf("observed loads = %s", got)
	}
}

func TestLoadAllFail(t *testing.T) {
	gw := &fakeGateway{handles: map[string]*fakeHandle{}}
	rec := &sleepRecorder{}
	eng := newTestEngine(gw, rec)

	sess := NewSession("sys", models.BuildPriorityList("a", []string{"b", "c"}, nil))
	sess, err := eng.Load(context.Background(), sess)
	if !errors.Is(err, ErrNoModelAvailable) {
		t.Fatalf("Load() error = %v, want ErrNoModelAvailable", err)
	}
	if !strings.Contains(err.Error(), "[c] model not found") {
		t.Errorf("error %q does not carry the last reason", err)
	}
	if sess.Working != nil {
		t.Error("Working set after total failure")
	}
	if len(gw.acquired) != 3 {
		t.Errorf("probes = %d, want 3", len(gw.acquired))
	}
	if len(rec.calls) != 2 {
		t.Errorf("pauses = %d, want 2 (none after the last candidate)", len(rec.calls))
	}
}

func TestLoadEmptyList(t *testing.T) {
	eng := newTestEngine(&fakeGateway{}, &sleepRecorder{})
	if _, err := eng.Load(context.Background(), NewSession("sys", nil)); !errors.Is(err, ErrNoModels) {
		t.Errorf("Load() error = %v, want ErrNoModels", err)
	}
}

func TestLoadDuplicateCandidatesProbedOnce(t *testing.T) {
	gw := &fakeGateway{handles: map[string]*fakeHandle{}}
	eng := newTestEngine(gw, &sleepRecorder{})

	list := models.BuildPriorityList("a", []string{"b", "a", "b", " "}, nil)
	if _, err := eng.Load(context.Background(), NewSession("sys", list)); err == nil {
		t.Fatal("expected load failure")
	}
	if got := strings.Join(gw.acquired, ","); got != "a,b" {
		t.Errorf("probed %s, want a,b", got)
	}
}

func TestGenerateReusesWorkingModel(t *testing.T) {
	gw := &fakeGateway{handles: map[string]*fakeHandle{"gpt-4o": {}}}
	eng := newTestEngine(gw, &sleepRecorder{})
	sess := NewSession("sys", models.BuildPriorityList("gpt-4o", nil, nil))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		var err error
		_, sess, err = eng.Generate(ctx, sess, TextContent("transcript text"))
		if err != nil {
			t.Fatalf("Generate() #%d error = %v", i, err)
		}
	}
	if len(gw.acquired) != 1 {
		t.Errorf("acquired %d times, want 1", len(gw.acquired))
	}
}

func TestGenerateRetriesShortResponses(t *testing.T) {
	h := &fakeHandle{replies: []reply{{text: ""}, {text: "  too short "}, {text: goodBrief}}}
	gw := &fakeGateway{handles: map[string]*fakeHandle{"claude-3-opus": h}}
	rec := &sleepRecorder{}
	obs := &recordingObserver{}
	eng := newTestEngine(gw, rec, WithObserver(obs))

	text, _, err := eng.Generate(context.Background(),
		NewSession("sys", models.BuildPriorityList("claude-3-opus", nil, nil)),
		TextContent("transcript"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != goodBrief {
		t.Errorf("text = %q", text)
	}
	if len(h.shapes) != 3 {
		t.Errorf("invocations = %d, want 3", len(h.shapes))
	}
	if len(rec.calls) != 0 {
		t.Errorf("sleeps = %v, want none for empty responses", rec.calls)
	}

	var outcomes []string
	for _, a := range obs.attempts {
		outcomes = append(outcomes, a.Outcome)
	}
	if got := strings.Join(outcomes, ","); got != "empty_response,empty_response,success" {
		t.Errorf("outcomes = %s", got)
	}
}

func TestGenerateBackoff(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		retries int
		want    []time.Duration
	}{
		{
			name:    "rate limited grows and caps",
			err:     errors.New("429 Too Many Requests"),
			retries: 7,
			want:    []time.Duration{2 * time.Second, 4 * time.Second, 6 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second},
		},
		{
			name:    "other errors wait one second",
			err:     errors.New("connection reset by peer"),
			retries: 3,
			want:    []time.Duration{time.Second, time.Second},
		},
		{
			name:    "format errors retry immediately",
			err:     errors.New("unknown field: system"),
			retries: 3,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &fakeHandle{replies: []reply{{err: tt.err}}}
			gw := &fakeGateway{handles: map[string]*fakeHandle{"claude-x": h}}
			rec := &sleepRecorder{}
			eng := newTestEngine(gw, rec, WithMaxRetries(tt.retries))

			_, _, err := eng.Generate(context.Background(),
				NewSession("sys", models.BuildPriorityList("claude-x", nil, nil)),
				TextContent("transcript"))
			if !errors.Is(err, ErrRetriesExhausted) {
				t.Fatalf("Generate() error = %v, want ErrRetriesExhausted", err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("error %v does not wrap the last failure", err)
			}
			if len(h.shapes) != tt.retries {
				t.Errorf("invocations = %d, want %d", len(h.shapes), tt.retries)
			}
			if len(rec.calls) != len(tt.want) {
				t.Fatalf("sleeps = %v, want %v", rec.calls, tt.want)
			}
			for i := range tt.want {
				if rec.calls[i] != tt.want[i] {
					t.Errorf("sleep[%d] = %v, want %v", i, rec.calls[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateRecoversAfterRateLimit(t *testing.T) {
	h := &fakeHandle{replies: []reply{
		{err: errors.New("429 Too Many Requests")},
		{text: goodBrief},
	}}
	gw := &fakeGateway{handles: map[string]*fakeHandle{"claude-x": h}}
	rec := &sleepRecorder{}
	eng := newTestEngine(gw, rec)

	text, _, err := eng.Generate(context.Background(),
		NewSession("sys", models.BuildPriorityList("claude-x", nil, nil)),
		TextContent("transcript"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != goodBrief {
		t.Errorf("text = %q, want the second reply", text)
	}
	if len(h.shapes) != 2 {
		t.Errorf("invocations = %d, want 2", len(h.shapes))
	}
	if len(rec.calls) != 1 || rec.calls[0] != 2*time.Second {
		t.Errorf("sleeps = %v, want [2s]", rec.calls)
	}
}

func TestGenerateExhaustedDoesNotReprobe(t *testing.T) {
	bad := &fakeHandle{replies: []reply{{err: errors.New("internal error")}}}
	gw := &fakeGateway{handles: map[string]*fakeHandle{
		"model-a": bad,
		"model-b": {},
	}}
	eng := newTestEngine(gw, &sleepRecorder{})

	sess := NewSession("sys", models.BuildPriorityList("model-a", []string{"model-b"}, nil))
	_, sess, err := eng.Generate(context.Background(), sess, TextContent("transcript"))
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("Generate() error = %v, want ErrRetriesExhausted", err)
	}
	if got := strings.Join(gw.acquired, ","); got != "model-a" {
		t.Errorf("probed %s, want model-a only", got)
	}
	if sess.Working == nil || sess.Working.Spec.ID != "model-a" {
		t.Errorf("working model changed: %+v", sess.Working)
	}
}

func TestGenerateMissingMedia(t *testing.T) {
	gw := &fakeGateway{handles: map[string]*fakeHandle{"gemini-2.5-pro": {}}}
	eng := newTestEngine(gw, &sleepRecorder{})

	missing := filepath.Join(t.TempDir(), "nope.mp4")
	_, sess, err := eng.Generate(context.Background(),
		NewSession("sys", models.BuildPriorityList("gemini-2.5-pro", nil, nil)),
		MediaContent(missing, "analyze"))
	if !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("Generate() error = %v, want ErrInputNotFound", err)
	}
	if len(gw.acquired) != 0 {
		t.Errorf("acquired %v before checking the input", gw.acquired)
	}
	if sess.Loaded() {
		t.Error("session loaded for a missing input")
	}
}

func TestGenerateGenericFallbackOnlyOnFormatError(t *testing.T) {
	t.Run("format error switches shape", func(t *testing.T) {
		h := &fakeHandle{replies: []reply{{err: errors.New("400 Bad Request: invalid_argument")}, {text: goodBrief}}}
		gw := &fakeGateway{handles: map[string]*fakeHandle{"llama-3": h}}
		rec := &sleepRecorder{}
		obs := &recordingObserver{}
		eng := newTestEngine(gw, rec, WithObserver(obs))

		_, _, err := eng.Generate(context.Background(),
			NewSession("sys", models.BuildPriorityList("llama-3", nil, nil)),
			TextContent("transcript"))
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		want := []gateway.Shape{gateway.ShapeSingle, gateway.ShapeArray}
		if len(h.shapes) != 2 || h.shapes[0] != want[0] || h.shapes[1] != want[1] {
			t.Errorf("shapes = %v, want %v", h.shapes, want)
		}
		for _, a := range obs.attempts {
			if a.Number != 1 {
				t.Errorf("fallback shape counted as attempt %d, want 1", a.Number)
			}
		}
	})

	t.Run("other error keeps shape", func(t *testing.T) {
		h := &fakeHandle{replies: []reply{{err: errors.New("connection refused")}, {text: goodBrief}}}
		gw := &fakeGateway{handles: map[string]*fakeHandle{"llama-3": h}}
		eng := newTestEngine(gw, &sleepRecorder{})

		_, _, err := eng.Generate(context.Background(),
			NewSession("sys", models.BuildPriorityList("llama-3", nil, nil)),
			TextContent("transcript"))
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		for _, s := range h.shapes {
			if s != gateway.ShapeSingle {
				t.Errorf("shapes = %v, want only single", h.shapes)
				break
			}
		}
	})
}

func TestGenerateGeminiEnvelopeFallback(t *testing.T) {
	video := filepath.Join(t.TempDir(), "ad.mp4")
	if err := os.WriteFile(video, []byte("fake"), 0644); err != nil {
		t.Fatal(err)
	}

	h := &fakeHandle{replies: []reply{{err: errors.New("Unknown field for Part")}, {text: goodBrief}}}
	gw := &fakeGateway{handles: map[string]*fakeHandle{"gemini-2.5-pro": h}}
	rec := &sleepRecorder{}
	eng := newTestEngine(gw, rec)

	_, _, err := eng.Generate(context.Background(),
		NewSession("be a brief writer", models.BuildPriorityList("gemini-2.5-pro", nil, nil)),
		MediaContent(video, "analyze the video"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(h.shapes) != 2 || h.shapes[0] != gateway.ShapeArray || h.shapes[1] != gateway.ShapeEnvelope {
		t.Fatalf("shapes = %v, want [array envelope]", h.shapes)
	}
	env := h.reqs[1].Payload.Envelope
	if env.Contents[0].Parts[0].Text != "be a brief writer\n\nanalyze the video" {
		t.Errorf("envelope instruction = %q", env.Contents[0].Parts[0].Text)
	}
	if env.Contents[0].Parts[1].FileData.FilePath != video {
		t.Errorf("envelope media = %+v", env.Contents[0].Parts[1].FileData)
	}
	if len(rec.calls) != 0 {
		t.Errorf("sleeps = %v, want none", rec.calls)
	}
}

func TestGenerateContextCanceled(t *testing.T) {
	h := &fakeHandle{replies: []reply{{err: errors.New("boom")}}}
	gw := &fakeGateway{handles: map[string]*fakeHandle{"model": h}}
	ctx, cancel := context.WithCancel(context.Background())
	eng := New(gw, logger.Nop(), WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	_, _, err := eng.Generate(ctx, NewSession("sys", models.BuildPriorityList("model", nil, nil)), TextContent("t"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
	if len(h.shapes) != 1 {
		t.Errorf("invocations = %d, want 1", len(h.shapes))
	}
}
