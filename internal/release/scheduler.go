/*
Copyright (C) 2026 Sepur Labs

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package release gates the search submission on a configured wall-clock
// instant. Ticket inventory on high-demand routes opens at a fixed moment;
// the scheduler polls once per second so the submit fires as close to that
// moment as possible while giving the operator a live countdown.
package release

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultZone is the booking site's region. Used when the profile does not
// name a time zone.
const DefaultZone = "Asia/Jakarta"

// DefaultPollInterval is how often the wait loop re-samples the clock.
const DefaultPollInterval = time.Second

const specLayout = "2006-01-02 15:04"

// ErrAlreadyPassed is returned by Await when the release instant was already
// in the past at the moment the scheduler resolved it. The automation must
// not fire in that case.
var ErrAlreadyPassed = errors.New("release: scheduled instant has already passed")

// Spec is the schedule block of a booking profile. Date and Time combine
// with the named zone into one unambiguous absolute instant.
type Spec struct {
	Date string `yaml:"release_date"`
	Time string `yaml:"release_time"`
	Zone string `yaml:"time_zone"`
}

// Scheduler blocks the booking flow until the release instant arrives.
// It resolves the instant exactly once at construction; the instant is
// immutable afterwards.
type Scheduler struct {
	instant    time.Time
	loc        *time.Location
	resolvedAt time.Time
	interval   time.Duration
	clock      Clock
	logger     zerolog.Logger
	observer   func(remaining time.Duration)
	fired      bool
}

// New resolves spec into an absolute release instant. An interval <= 0
// falls back to DefaultPollInterval, a nil clock to the system clock.
func New(spec Spec, interval time.Duration, clock Clock, logger zerolog.Logger) (*Scheduler, error) {
	if spec.Date == "" || spec.Time == "" {
		return nil, fmt.Errorf("release: schedule missing release_date or release_time")
	}
	zone := spec.Zone
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("release: invalid time_zone %q: %w", zone, err)
	}
	instant, err := time.ParseInLocation(specLayout, spec.Date+" "+spec.Time, loc)
	if err != nil {
		return nil, fmt.Errorf("release: unparsable schedule %q %q: %w", spec.Date, spec.Time, err)
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if clock == nil {
		clock = SystemClock{}
	}

	s := &Scheduler{
		instant:    instant,
		loc:        loc,
		resolvedAt: clock.Now().In(loc),
		interval:   interval,
		clock:      clock,
		logger:     logger.With().Str("component", "release_scheduler").Logger(),
	}
	s.logger.Info().Time("release_at", instant).Str("zone", zone).Msg("release instant resolved")
	return s, nil
}

// SetObserver registers fn, invoked once per poll with the remaining
// duration. Used to feed the countdown gauge and the status endpoint.
func (s *Scheduler) SetObserver(fn func(remaining time.Duration)) {
	s.observer = fn
}

// Instant returns the resolved release instant.
func (s *Scheduler) Instant() time.Time {
	return s.instant
}

// Await blocks until the wall clock, observed in the schedule's zone,
// reaches the release instant. It returns ErrAlreadyPassed without polling
// when the instant was strictly past at resolution time, and returns
// immediately once it has fired before.
func (s *Scheduler) Await(ctx context.Context) error {
	if s.fired {
		return nil
	}
	if s.instant.Before(s.resolvedAt) {
		s.logger.Error().Time("release_at", s.instant).Msg("scheduled release instant has already passed")
		return ErrAlreadyPassed
	}

	s.logger.Info().Time("release_at", s.instant).Msg("waiting for release instant")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := s.clock.Now().In(s.loc)
		if !now.Before(s.instant) {
			s.fired = true
			s.logger.Info().Msg("release instant reached")
			return nil
		}
		remaining := s.instant.Sub(now)
		s.logger.Info().Str("remaining", formatCountdown(remaining)).Msg("time until submission")
		if s.observer != nil {
			s.observer(remaining)
		}
		s.clock.Sleep(s.interval)
	}
}

// formatCountdown renders a duration as HH:MM:SS.
func formatCountdown(d time.Duration) string {
	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
