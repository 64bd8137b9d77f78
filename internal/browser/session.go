/*
Copyright (C) 2026 Sepur Labs

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package browser wraps a single chromium page behind the small set of
// primitives the booking flow needs: wait for an element, fill it, click it.
package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// Options controls how the chromium instance is launched.
type Options struct {
	Headless bool
	Bin      string // optional chromium binary override
	Timeout  time.Duration
}

// Session owns the browser and the page the whole booking flow runs in.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	timeout time.Duration
	logger  zerolog.Logger
}

// Launch starts chromium and opens a blank page.
func Launch(opts Options, logger zerolog.Logger) (*Session, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	l := launcher.New().Headless(opts.Headless).Leakless(true)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("browser: launch chromium: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("browser: open page: %w", err)
	}

	return &Session{
		browser: b,
		page:    page,
		timeout: opts.Timeout,
		logger:  logger.With().Str("component", "browser").Logger(),
	}, nil
}

// Navigate loads url and waits for the page to finish loading.
func (s *Session) Navigate(url string) error {
	if err := s.page.Navigate(url); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := s.page.Timeout(s.timeout).WaitLoad(); err != nil {
		return fmt.Errorf("browser: wait load %s: %w", url, err)
	}
	if info, err := s.page.Info(); err == nil {
		s.logger.Info().Str("url", url).Str("title", info.Title).Msg("page loaded")
	}
	return nil
}

// element waits for a CSS selector to appear within the session timeout.
func (s *Session) element(selector string) (*rod.Element, error) {
	el, err := s.page.Timeout(s.timeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("browser: element %q: %w", selector, err)
	}
	return el, nil
}

// elementX waits for an XPath expression to match within the session timeout.
func (s *Session) elementX(xpath string) (*rod.Element, error) {
	el, err := s.page.Timeout(s.timeout).ElementX(xpath)
	if err != nil {
		return nil, fmt.Errorf("browser: element %q: %w", xpath, err)
	}
	return el, nil
}

// Fill clears the matched input and types text into it.
func (s *Session) Fill(selector, text string) error {
	el, err := s.element(selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("browser: clear %q: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("browser: fill %q: %w", selector, err)
	}
	s.logger.Debug().Str("selector", selector).Str("text", text).Msg("filled input")
	return nil
}

// Click waits for the matched element to become visible and clicks it.
func (s *Session) Click(selector string) error {
	el, err := s.element(selector)
	if err != nil {
		return err
	}
	return clickElement(el, selector)
}

// ClickX is Click for an XPath expression.
func (s *Session) ClickX(xpath string) error {
	el, err := s.elementX(xpath)
	if err != nil {
		return err
	}
	return clickElement(el, xpath)
}

// ScrollClickX scrolls the matched element into view before clicking it.
// Needed for the payment accordion, which sits below the fold.
func (s *Session) ScrollClickX(xpath string) error {
	el, err := s.elementX(xpath)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("browser: scroll to %q: %w", xpath, err)
	}
	return clickElement(el, xpath)
}

// TryClick attempts a click with its own timeout instead of the session
// default. A timeout is an ordinary error, so callers can poll.
func (s *Session) TryClick(selector string, timeout time.Duration) error {
	el, err := s.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("browser: element %q: %w", selector, err)
	}
	if err := el.Timeout(timeout).WaitVisible(); err != nil {
		return fmt.Errorf("browser: wait visible %q: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("browser: click %q: %w", selector, err)
	}
	return nil
}

// SelectByText picks a dropdown option by its visible text.
func (s *Session) SelectByText(selector, option string) error {
	el, err := s.element(selector)
	if err != nil {
		return err
	}
	if err := el.Select([]string{option}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("browser: select %q in %q: %w", option, selector, err)
	}
	s.logger.Debug().Str("selector", selector).Str("option", option).Msg("selected option")
	return nil
}

// SelectByValue picks a dropdown option by its value attribute.
func (s *Session) SelectByValue(selector, value string) error {
	el, err := s.element(selector)
	if err != nil {
		return err
	}
	optionCSS := fmt.Sprintf("option[value=%q]", value)
	if err := el.Select([]string{optionCSS}, true, rod.SelectorTypeCSSSector); err != nil {
		return fmt.Errorf("browser: select value %q in %q: %w", value, selector, err)
	}
	return nil
}

// SetValue assigns an input's value directly via JS, for fields the page
// scripts manage (the passenger counter rejects keyboard input).
func (s *Session) SetValue(selector, value string) error {
	el, err := s.element(selector)
	if err != nil {
		return err
	}
	if _, err := el.Eval(`(v) => { this.value = v }`, value); err != nil {
		return fmt.Errorf("browser: set value on %q: %w", selector, err)
	}
	return nil
}

// Close shuts the page and the browser down.
func (s *Session) Close() error {
	if err := s.page.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("page close failed")
	}
	if err := s.browser.Close(); err != nil {
		return fmt.Errorf("browser: close: %w", err)
	}
	s.logger.Info().Msg("browser closed")
	return nil
}

func clickElement(el *rod.Element, label string) error {
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("browser: wait visible %q: %w", label, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("browser: click %q: %w", label, err)
	}
	return nil
}
