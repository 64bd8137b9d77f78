/*
Copyright (C) 2026 Sepur Labs

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package history keeps a record of booking attempts so an operator can
// review past runs and their failure points.
package history

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Attempt statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Attempt is one booking run.
type Attempt struct {
	ID         string `gorm:"primaryKey"`
	Route      string
	TrainName  string
	ReleaseAt  time.Time
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string
	FailedStep string
	Error      string
}

// Store persists attempts.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewStore migrates the attempt table and returns a store.
func NewStore(db *gorm.DB, logger zerolog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&Attempt{}); err != nil {
		return nil, fmt.Errorf("migrate attempts: %w", err)
	}
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "history").Logger(),
	}, nil
}

// Start records the beginning of an attempt.
func (s *Store) Start(id, route, trainName string, releaseAt time.Time) error {
	attempt := Attempt{
		ID:        id,
		Route:     route,
		TrainName: trainName,
		ReleaseAt: releaseAt,
		StartedAt: time.Now(),
		Status:    StatusRunning,
	}
	return s.db.Create(&attempt).Error
}

// Finish records the outcome of an attempt.
func (s *Store) Finish(id, status, failedStep, errMsg string) error {
	now := time.Now()
	result := s.db.Model(&Attempt{}).Where("id = ?", id).Updates(map[string]any{
		"finished_at": &now,
		"status":      status,
		"failed_step": failedStep,
		"error":       errMsg,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("attempt %s not found", id)
	}
	return nil
}

// Recent returns the most recent attempts, newest first.
func (s *Store) Recent(limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}
	var attempts []Attempt
	err := s.db.Order("started_at DESC").Limit(limit).Find(&attempts).Error
	return attempts, err
}
