package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sepurlabs/sepurbot/internal/config"
	"github.com/sepurlabs/sepurbot/internal/release"
)

var validateProfilePath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a booking profile and resolve its release schedule",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateProfilePath, "profile", "p", "booking.yaml", "path to the booking profile")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	profile, err := config.LoadProfile(validateProfilePath)
	if err != nil {
		return err
	}

	sched, err := release.New(profile.Schedule, cfg.PollInterval, release.SystemClock{}, logger)
	if err != nil {
		return err
	}

	remaining := time.Until(sched.Instant())
	if remaining < 0 {
		logger.Error().
			Time("release_at", sched.Instant()).
			Msg("release instant is in the past")
		return release.ErrAlreadyPassed
	}

	logger.Info().
		Str("route", profile.OriginStation+" -> "+profile.DestinationStation).
		Str("train", profile.TrainName).
		Int("passengers", len(profile.Passengers)).
		Time("release_at", sched.Instant()).
		Str("remaining", remaining.Round(time.Second).String()).
		Msg("profile is valid")

	fmt.Printf("release at %s (%s from now)\n",
		sched.Instant().Format(time.RFC3339),
		remaining.Round(time.Second))
	return nil
}
