// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation and hierarchical slug composition.
package util

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// multipleSlashes matches repeated path separators
	multipleSlashes = regexp.MustCompile(`/{2,}`)
)

// Slugify converts a string to a URL-friendly slug segment.
// Non-Latin characters are transliterated to ASCII, the result is
// lowercased, whitespace and punctuation collapse to hyphens, and
// leading/trailing hyphens are trimmed. Returns an empty string when
// the input carries no representable characters; callers must treat
// that as a validation failure.
func Slugify(s string) string {
	result := unidecode.Unidecode(s)
	result = strings.ToLower(result)
	result = strings.ReplaceAll(result, " ", "-")
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// ComposeSlug joins a parent slug and a local segment into a full
// hierarchical slug with a single leading slash. An empty parent slug
// yields a root-level slug.
func ComposeSlug(parentSlug, segment string) string {
	parent := strings.Trim(parentSlug, "/")
	if parent == "" {
		return "/" + segment
	}
	return "/" + parent + "/" + segment
}

// NormalizeSlugPath strips leading and trailing slashes from a raw
// slug path and collapses repeated slashes. The result never begins
// or ends with a slash.
func NormalizeSlugPath(raw string) string {
	s := multipleSlashes.ReplaceAllString(raw, "/")
	return strings.Trim(s, "/")
}

// SlugVariants returns the forms under which a normalized slug may be
// stored: bare, with a leading slash, with a trailing slash, and with
// both. Lookups match any of them so that stored and requested slugs
// may drift in representation.
func SlugVariants(normalized string) []string {
	return []string{
		normalized,
		"/" + normalized,
		normalized + "/",
		"/" + normalized + "/",
	}
}

// IsValidSlug checks if a string is a valid single slug segment.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	return !strings.Contains(s, "--")
}

// IsValidSlugPath checks if a string is a valid slug path: one or more
// valid segments joined by single slashes, with an optional leading slash.
func IsValidSlugPath(s string) bool {
	s = strings.TrimPrefix(s, "/")
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, "/") {
		if !IsValidSlug(seg) {
			return false
		}
	}
	return true
}
