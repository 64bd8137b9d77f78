/*
Copyright (C) 2026 Sepur Labs

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package booking

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// SearchStep fills the search form, holds at the release gate, and submits
// the moment the instant arrives, then picks the configured train.
func (a *Automation) SearchStep(ctx context.Context) error {
	p := a.profile

	if err := a.driver.Fill(".origination-flexdatalist", p.OriginStation); err != nil {
		return err
	}
	if err := a.driver.ClickX(fmt.Sprintf("//span[text()=%q]", p.OriginStation)); err != nil {
		return err
	}
	a.logger.Info().Str("station", p.OriginStation).Msg("selected departure station")

	if err := a.driver.Fill(".destination-flexdatalist", p.DestinationStation); err != nil {
		return err
	}
	if err := a.driver.ClickX(fmt.Sprintf("//span[text()=%q]", p.DestinationStation)); err != nil {
		return err
	}
	a.logger.Info().Str("station", p.DestinationStation).Msg("selected destination station")

	if err := a.driver.Click("#departure_dateh"); err != nil {
		return err
	}
	if err := a.driver.SelectByText(".ui-datepicker-month", p.DepartureMonth); err != nil {
		return err
	}
	dayXPath := fmt.Sprintf("//a[@class='ui-state-default' and text()=%q]", p.DepartureDate)
	if err := a.driver.ClickX(dayXPath); err != nil {
		return err
	}

	// The passenger counter ignores keystrokes, so write the value directly.
	if err := a.driver.SetValue(`input[name="adult"]`, strconv.Itoa(len(p.Passengers))); err != nil {
		return err
	}

	// Form is ready. Hold here until the inventory release instant.
	a.logger.Info().Msg("search form filled, holding for release")
	a.setState("waiting")
	if err := a.gate.Await(ctx); err != nil {
		return err
	}
	a.setState("search")

	if err := a.driver.Click(`[name="submit"]`); err != nil {
		return err
	}

	trainXPath := fmt.Sprintf(
		"//div[contains(@class, 'name') and contains(text(), '%s')]"+
			"/ancestor::div[contains(@class, 'row')]"+
			"[.//div[contains(@class, 'price') and contains(text(), '%s')]]"+
			"//div[contains(@class, 'name')]",
		p.TrainName, p.TicketPrice)
	if err := a.driver.ClickX(trainXPath); err != nil {
		return err
	}
	a.logger.Info().Str("train", p.TrainName).Str("price", p.TicketPrice).Msg("selected train")
	return nil
}

// PassengerStep fills the orderer and passenger details, then polls until
// the operator has solved the captcha and the submit button is clickable.
func (a *Automation) PassengerStep(ctx context.Context) error {
	p := a.profile

	// The page opens with a login modal; book as guest.
	if err := a.driver.Click(`button.btn.btn-secondary[data-dismiss="modal"]`); err != nil {
		return err
	}

	primary := p.Passengers[0]
	a.logger.Info().Msg("filling primary passenger details")
	if err := a.driver.Fill("#pemesan_nama", primary.Name); err != nil {
		return err
	}
	if err := a.driver.Fill("#pemesan_nohp", p.OrderPhone); err != nil {
		return err
	}
	if err := a.driver.Fill("#pemesan_alamat", p.OrderAddress); err != nil {
		return err
	}
	if err := a.driver.Fill("#pemesan_notandapengenal", primary.IDCard); err != nil {
		return err
	}
	if err := a.driver.Fill("#pemesan_email", p.OrderEmail); err != nil {
		return err
	}

	// Copy orderer details into the first passenger slot.
	if err := a.driver.Click("#cbCopy"); err != nil {
		return err
	}

	if len(p.Passengers) > 1 {
		a.logger.Info().Int("count", len(p.Passengers)-1).Msg("filling additional passenger details")
		for i, passenger := range p.Passengers[1:] {
			idx := i + 2 // passenger form fields are 1-based, slot 1 is the orderer
			if err := a.driver.SelectByValue(fmt.Sprintf("#penumpang_title%d", idx), passenger.Prefix); err != nil {
				return err
			}
			if err := a.driver.Fill(fmt.Sprintf("#penumpang_nama%d", idx), passenger.Name); err != nil {
				return err
			}
			if err := a.driver.Fill(fmt.Sprintf("#penumpang_notandapengenal%d", idx), passenger.IDCard); err != nil {
				return err
			}
		}
	}

	if err := a.driver.Click("#setuju"); err != nil {
		return err
	}

	if p.BypassCaptcha {
		a.logger.Info().Msg("captcha bypass is not available yet")
	}

	// The submit button only becomes clickable after the captcha is solved
	// by hand, so poll for it.
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.driver.TryClick("#mSubmit", 10*time.Second); err == nil {
			a.logger.Info().Msg("proceeding to payment")
			return nil
		}
		a.logger.Info().Msg("waiting for manual captcha completion")
		sleepCtx(ctx, 2*a.settle)
	}
}

// SeatStep continues past the seat page. Seat selection itself is not
// implemented.
func (a *Automation) SeatStep(ctx context.Context) error {
	if a.profile.SelectSeat {
		a.logger.Info().Msg("seat selection is not available yet")
	}

	if err := a.driver.TryClick("#mSubmit", 20*time.Second); err != nil {
		return err
	}
	a.logger.Info().Msg("proceeding to payment")
	return nil
}

// PaymentStep opens the configured bank's accordion entry and clicks its pay
// button.
func (a *Automation) PaymentStep(ctx context.Context) error {
	p := a.profile

	bankXPath := fmt.Sprintf("//a[@class='accordion-toggle']/img[@alt=%q]", p.BankName)
	if err := a.driver.ScrollClickX(bankXPath); err != nil {
		return err
	}

	payXPath := fmt.Sprintf(
		"//input[@class='btn btn-primary' and @type='submit' and @value='Bayar dengan %s']",
		p.BankName)
	if err := a.driver.ScrollClickX(payXPath); err != nil {
		return err
	}
	a.logger.Info().Str("bank", p.BankName).Msg("selected payment method")
	return nil
}
