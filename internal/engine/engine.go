package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/gateway"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
)

// Load probes the candidates in priority order and records the first one
// that loads as the working model.
func (e *implEngine) Load(ctx context.Context, sess Session) (Session, error) {
	if sess.Working != nil {
		return sess, nil
	}
	if len(sess.Models) == 0 {
		return sess, ErrNoModels
	}

	log := e.logger.With("session", sess.ID)
	var lastErr error
	for i, spec := range sess.Models {
		log.Info(ctx, "Loading model %s (%d/%d)", spec.ID, i+1, len(sess.Models))

		start := time.Now()
		handle, err := e.gateway.Acquire(ctx, spec, e.tags)
		e.observer.ObserveLoad(spec, err, time.Since(start))
		if err == nil {
			sess.Working = &Working{Spec: handle.Model(), Handle: handle}
			log.Info(ctx, "Using model %s (%s family)", spec.ID, spec.Family)
			return sess, nil
		}

		lastErr = err
		log.Warn(ctx, "Failed to load %s: %v", spec.ID, err)
		if ctx.Err() != nil {
			return sess, ctx.Err()
		}
		if i < len(sess.Models)-1 {
			if err := e.sleep(ctx, loadPause); err != nil {
				return sess, err
			}
		}
	}

	return sess, fmt.Errorf("%w (tried %s): %w",
		ErrNoModelAvailable, strings.Join(sess.Models.IDs(), ", "), lastErr)
}

// Generate sends content to the working model, loading one first if the
// session has none.
func (e *implEngine) Generate(ctx context.Context, sess Session, content Content) (string, Session, error) {
	if content.IsMedia() {
		if _, err := os.Stat(content.MediaPath); err != nil {
			return "", sess, fmt.Errorf("%w: %s", ErrInputNotFound, content.MediaPath)
		}
	}

	sess, err := e.Load(ctx, sess)
	if err != nil {
		return "", sess, err
	}

	log := e.logger.With("session", sess.ID)
	w := sess.Working
	requests := Shapes(w.Spec.Family, sess.SystemPrompt, content)

	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		text, err := e.attempt(ctx, log, w, attempt, requests)
		if err == nil {
			return text, sess, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", sess, ctx.Err()
		}
		if attempt == e.maxRetries {
			break
		}

		if d := retryDelay(attempt, err); d > 0 {
			log.Info(ctx, "Retrying %s in %s", w.Spec.ID, d)
			if err := e.sleep(ctx, d); err != nil {
				return "", sess, err
			}
		}
	}

	return "", sess, fmt.Errorf("%w: %s failed %d attempts: %w",
		ErrRetriesExhausted, w.Spec.ID, e.maxRetries, lastErr)
}

// attempt runs one numbered attempt, moving to the next shape only when the
// current one is rejected as format-incompatible.
func (e *implEngine) attempt(ctx context.Context, log logger.Logger, w *Working, number int, requests []gateway.Request) (string, error) {
	var err error
	for i, req := range requests {
		start := time.Now()
		var text string
		text, err = w.Handle.Invoke(ctx, req)
		if err == nil {
			if n := len(strings.TrimSpace(text)); n < MinResponseLength {
				err = gateway.NewError(gateway.KindEmptyResponse, w.Spec.ID,
					fmt.Errorf("response too short (%d chars)", n))
			}
		}
		err = gateway.Classify(w.Spec.ID, err)
		e.record(ctx, log, w, number, req.Payload.Shape, err, time.Since(start))

		if err == nil {
			return text, nil
		}
		if !gateway.IsKind(err, gateway.KindFormatIncompatible) || i == len(requests)-1 {
			return "", err
		}
		log.Info(ctx, "%s rejected %s payload, trying %s", w.Spec.ID,
			req.Payload.Shape, requests[i+1].Payload.Shape)
	}
	return "", err
}

func (e *implEngine) record(ctx context.Context, log logger.Logger, w *Working, number int, shape gateway.Shape, err error, d time.Duration) {
	a := Attempt{
		Model:    w.Spec.ID,
		Family:   w.Spec.Family,
		Number:   number,
		Shape:    shape,
		Outcome:  OutcomeSuccess,
		Duration: d,
	}
	if err != nil {
		a.Outcome = gateway.KindOf(err).String()
		a.Reason = err.Error()
		log.Warn(ctx, "Attempt %d/%d on %s (%s) failed [%s]: %v",
			number, e.maxRetries, a.Model, shape, a.Outcome, err)
	} else {
		log.Debug(ctx, "Attempt %d/%d on %s (%s) succeeded in %s",
			number, e.maxRetries, a.Model, shape, d)
	}
	e.observer.ObserveAttempt(a)
}

// retryDelay is the wait before the next attempt.
func retryDelay(attempt int, err error) time.Duration {
	var gwErr *gateway.Error
	if !errors.As(err, &gwErr) {
		return errorDelay
	}
	switch gwErr.Kind {
	case gateway.KindEmptyResponse, gateway.KindFormatIncompatible:
		return 0
	case gateway.KindRateLimited:
		return min(time.Duration(attempt)*rateLimitStep, rateLimitCeiling)
	}
	return errorDelay
}
