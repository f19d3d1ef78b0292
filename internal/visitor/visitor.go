// Package visitor opens a list of LinkedIn profiles one after the other in
// the signed in browser, pausing like a person reading each page.
package visitor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/law-makers/leadcrawl/internal/linkedin"
	"github.com/rs/zerolog"
)

const (
	DefaultPageLoad      = 3 * time.Second
	DefaultMinJitter     = 4 * time.Second
	DefaultMaxJitter     = 7 * time.Second
	DefaultScrollPresses = 10

	keyPageDown = "PageDown"
)

// Page is the part of a browser tab a Visitor drives
type Page interface {
	Navigate(ctx context.Context, url string) error
	MoveMouse(ctx context.Context, x, y float64) error
	Click(ctx context.Context, selector string) error
	PressKey(ctx context.Context, key string, times int) error
}

// Jitter bounds the random pause between actions
type Jitter struct {
	Min time.Duration
	Max time.Duration
}

// Visitor visits profiles on Page
type Visitor struct {
	Page     Page
	PageLoad time.Duration
	Jitter   Jitter
	// Rand defaults to a time seeded source
	Rand *rand.Rand
	// Sleep defaults to a timer honouring ctx
	Sleep func(ctx context.Context, d time.Duration) error
	// ShowActivitySelector defaults to linkedin.ShowActivitySelector
	ShowActivitySelector string
	ScrollPresses        int
	Logger               zerolog.Logger
}

// New returns a Visitor with the default pacing
func New(page Page, logger zerolog.Logger) *Visitor {
	return &Visitor{
		Page:                 page,
		PageLoad:             DefaultPageLoad,
		Jitter:               Jitter{Min: DefaultMinJitter, Max: DefaultMaxJitter},
		ShowActivitySelector: linkedin.ShowActivitySelector,
		ScrollPresses:        DefaultScrollPresses,
		Logger:               logger,
	}
}

// JitterDuration returns a uniformly distributed duration in [min, max].
// Bounds given in the wrong order are swapped.
func JitterDuration(min, max time.Duration, r *rand.Rand) time.Duration {
	if max < min {
		min, max = max, min
	}
	if max == min {
		return min
	}
	span := int64(max - min)
	var n int64
	if r != nil {
		n = r.Int63n(span + 1)
	} else {
		n = rand.Int63n(span + 1)
	}
	return min + time.Duration(n)
}

// Visit opens every url in order. onVisit, when set, is called after each
// completed visit. A navigation failure stops the run; the "show all
// activity" click is best effort.
func (v *Visitor) Visit(ctx context.Context, urls []string, onVisit func(i int, url string)) (int, error) {
	if v.Page == nil {
		return 0, errors.New("visitor has no page")
	}
	if v.Sleep == nil {
		v.Sleep = sleep
	}
	if v.Rand == nil {
		v.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	selector := v.ShowActivitySelector
	if selector == "" {
		selector = linkedin.ShowActivitySelector
	}

	visited := 0
	for i, url := range urls {
		logger := v.Logger.With().Int("profile", i+1).Str("url", url).Logger()

		if err := v.Page.Navigate(ctx, url); err != nil {
			if ctx.Err() != nil {
				return visited, ctx.Err()
			}
			return visited, fmt.Errorf("visit %s: %w", url, err)
		}
		if err := v.Sleep(ctx, v.PageLoad); err != nil {
			return visited, err
		}
		if err := v.Page.MoveMouse(ctx, 0, 0); err != nil {
			logger.Debug().Err(err).Msg("Mouse move failed")
		}
		if err := v.pause(ctx); err != nil {
			return visited, err
		}

		if err := v.Page.Click(ctx, selector); err != nil {
			if ctx.Err() != nil {
				return visited, ctx.Err()
			}
			logger.Debug().Err(err).Msg("No activity link")
		}
		if err := v.pause(ctx); err != nil {
			return visited, err
		}

		if v.ScrollPresses > 0 {
			if err := v.Page.PressKey(ctx, keyPageDown, v.ScrollPresses); err != nil {
				if ctx.Err() != nil {
					return visited, ctx.Err()
				}
				logger.Warn().Err(err).Msg("Scroll failed")
			}
		}
		if err := v.pause(ctx); err != nil {
			return visited, err
		}

		visited++
		logger.Debug().Msg("Visited")
		if onVisit != nil {
			onVisit(i, url)
		}
	}
	return visited, nil
}

func (v *Visitor) pause(ctx context.Context) error {
	return v.Sleep(ctx, JitterDuration(v.Jitter.Min, v.Jitter.Max, v.Rand))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
