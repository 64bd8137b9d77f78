/*
Copyright (C) 2026 Sepur Labs

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sepurlabs/sepurbot/internal/release"
)

// Passenger is one traveller on the booking. The first passenger doubles as
// the orderer on the passenger page.
type Passenger struct {
	Name   string `yaml:"name"`
	IDCard string `yaml:"id_card"`
	Prefix string `yaml:"prefix"`
	Seat   string `yaml:"seat,omitempty"` // seat selection is not available yet
}

// Profile is the per-run booking data: route, train, orderer contact details
// and the release schedule.
type Profile struct {
	OriginStation      string `yaml:"origin_station"`
	DestinationStation string `yaml:"destination_station"`
	DepartureMonth     string `yaml:"departure_month"`
	DepartureDate      string `yaml:"departure_date"`
	TrainName          string `yaml:"train_name"`
	TicketPrice        string `yaml:"ticket_price"`
	BankName           string `yaml:"bank_name"`
	OrderPhone         string `yaml:"order_phone"`
	OrderAddress       string `yaml:"order_address"`
	OrderEmail         string `yaml:"order_email"`
	BypassCaptcha      bool   `yaml:"bypass_captcha"` // captcha bypass is not available yet
	SelectSeat         bool   `yaml:"select_seat"`    // seat selection is not available yet

	Schedule   release.Spec `yaml:"schedule"`
	Passengers []Passenger  `yaml:"passengers"`
}

// LoadProfile reads and validates a booking profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Validate checks that every field the booking flow touches is present.
// Schedule parsing itself is left to the release scheduler.
func (p *Profile) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"origin_station", p.OriginStation},
		{"destination_station", p.DestinationStation},
		{"departure_month", p.DepartureMonth},
		{"departure_date", p.DepartureDate},
		{"train_name", p.TrainName},
		{"ticket_price", p.TicketPrice},
		{"bank_name", p.BankName},
		{"order_phone", p.OrderPhone},
		{"order_address", p.OrderAddress},
		{"order_email", p.OrderEmail},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("profile missing %s", field.name)
		}
	}

	if p.Schedule.Date == "" || p.Schedule.Time == "" {
		return fmt.Errorf("profile schedule missing release_date or release_time")
	}

	if len(p.Passengers) == 0 {
		return fmt.Errorf("profile needs at least one passenger")
	}
	for i, passenger := range p.Passengers {
		if passenger.Name == "" || passenger.IDCard == "" {
			return fmt.Errorf("passenger %d missing name or id_card", i+1)
		}
		if i > 0 && passenger.Prefix == "" {
			return fmt.Errorf("passenger %d missing prefix", i+1)
		}
	}

	return nil
}
