// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n negotiates the content locale for public responses.
package i18n

import (
	"golang.org/x/text/language"

	"github.com/navstruct/navcms/internal/model"
)

var (
	supported = []language.Tag{
		language.MustParse(model.LocaleEn),
		language.MustParse(model.LocaleBn),
	}
	matcher = language.NewMatcher(supported)
)

// Negotiate picks the best supported content locale for an
// Accept-Language header value. An empty or unparseable header falls
// back to English.
func Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return model.LocaleEn
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return model.LocaleEn
	}
	_, idx, _ := matcher.Match(tags...)
	return model.Locales()[idx]
}
