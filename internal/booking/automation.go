/*
Copyright (C) 2026 Sepur Labs

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package booking walks the booking site's pages in order: search (gated on
// the release instant), train selection, passenger entry, seat step and
// payment method.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sepurlabs/sepurbot/internal/config"
	"github.com/sepurlabs/sepurbot/internal/telemetry"
)

// Driver is the subset of the browser session the booking flow uses.
type Driver interface {
	Navigate(url string) error
	Fill(selector, text string) error
	Click(selector string) error
	ClickX(xpath string) error
	ScrollClickX(xpath string) error
	TryClick(selector string, timeout time.Duration) error
	SelectByText(selector, option string) error
	SelectByValue(selector, value string) error
	SetValue(selector, value string) error
}

// Gate blocks until the release instant. Implemented by release.Scheduler.
type Gate interface {
	Await(ctx context.Context) error
	Instant() time.Time
}

// Recorder persists attempt outcomes. Implemented by history.Store.
type Recorder interface {
	Start(id, route, trainName string, releaseAt time.Time) error
	Finish(id, status, failedStep, errMsg string) error
}

// Automation runs one booking attempt end to end.
type Automation struct {
	runID    string
	profile  *config.Profile
	driver   Driver
	gate     Gate
	recorder Recorder
	tracker  *telemetry.Tracker
	logger   zerolog.Logger
	siteURL  string
	settle   time.Duration
}

// New assembles an automation run. recorder and tracker may be nil.
func New(profile *config.Profile, driver Driver, gate Gate, recorder Recorder, tracker *telemetry.Tracker, siteURL string, logger zerolog.Logger) *Automation {
	return &Automation{
		runID:    uuid.NewString(),
		profile:  profile,
		driver:   driver,
		gate:     gate,
		recorder: recorder,
		tracker:  tracker,
		logger:   logger.With().Str("component", "booking").Logger(),
		siteURL:  siteURL,
		settle:   time.Second,
	}
}

// RunID identifies this attempt in logs, history and the status endpoint.
func (a *Automation) RunID() string {
	return a.runID
}

// SetSettle overrides the pause between page steps. Tests shorten it.
func (a *Automation) SetSettle(d time.Duration) {
	if d > 0 {
		a.settle = d
	}
}

// Run executes the complete booking process. Any step failure aborts the
// run; there is no partial retry.
func (a *Automation) Run(ctx context.Context) error {
	a.logger.Info().Str("run_id", a.runID).
		Str("origin", a.profile.OriginStation).
		Str("destination", a.profile.DestinationStation).
		Msg("starting booking run")

	if a.recorder != nil {
		route := a.profile.OriginStation + " -> " + a.profile.DestinationStation
		if err := a.recorder.Start(a.runID, route, a.profile.TrainName, a.gate.Instant()); err != nil {
			return fmt.Errorf("record attempt start: %w", err)
		}
	}

	a.setState("navigating")
	if err := a.driver.Navigate(a.siteURL); err != nil {
		return a.fail("navigate", err)
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"search", a.SearchStep},
		{"passengers", a.PassengerStep},
		{"seat", a.SeatStep},
		{"payment", a.PaymentStep},
	}

	for i, step := range steps {
		if i > 0 {
			sleepCtx(ctx, a.settle)
		}
		a.setState(step.name)
		started := time.Now()
		err := step.run(ctx)
		telemetry.BookingStepSeconds.WithLabelValues(step.name).Observe(time.Since(started).Seconds())
		if err != nil {
			telemetry.BookingStepsTotal.WithLabelValues(step.name, "failed").Inc()
			return a.fail(step.name, err)
		}
		telemetry.BookingStepsTotal.WithLabelValues(step.name, "ok").Inc()
	}

	a.setState("done")
	if a.recorder != nil {
		if err := a.recorder.Finish(a.runID, "succeeded", "", ""); err != nil {
			a.logger.Warn().Err(err).Msg("failed to record attempt outcome")
		}
	}
	a.logger.Info().Str("run_id", a.runID).Msg("booking run complete")
	return nil
}

func (a *Automation) fail(step string, err error) error {
	a.setState("failed")
	if a.recorder != nil {
		if recErr := a.recorder.Finish(a.runID, "failed", step, err.Error()); recErr != nil {
			a.logger.Warn().Err(recErr).Msg("failed to record attempt outcome")
		}
	}
	a.logger.Error().Err(err).Str("step", step).Msg("booking step failed")
	return fmt.Errorf("%s step: %w", step, err)
}

func (a *Automation) setState(state string) {
	if a.tracker != nil {
		a.tracker.SetState(state)
	}
}

// sleepCtx pauses for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
