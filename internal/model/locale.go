// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported content locales. Every localized field carries both.
const (
	LocaleEn = "en"
	LocaleBn = "bn"
)

// Locales returns the supported locale codes in canonical order.
func Locales() []string {
	return []string{LocaleEn, LocaleBn}
}

// IsValidLocale checks if a locale code is supported.
func IsValidLocale(code string) bool {
	return code == LocaleEn || code == LocaleBn
}
