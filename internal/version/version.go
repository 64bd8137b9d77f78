/*
Copyright (C) 2026 Sepur Labs

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package version provides build version information.
package version

// Version is the current version of sepurbot.
// This is set at build time via ldflags:
//
//	-X github.com/sepurlabs/sepurbot/internal/version.Version=X.Y.Z
var Version = "0.3.1"
