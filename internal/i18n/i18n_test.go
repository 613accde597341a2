// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import "testing"

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", "en"},
		{"plain english", "en", "en"},
		{"plain bengali", "bn", "bn"},
		{"regional bengali", "bn-BD", "bn"},
		{"quality ordering", "bn;q=0.9, en;q=0.4", "bn"},
		{"unsupported falls back", "de-DE", "en"},
		{"unsupported then supported", "fr, bn;q=0.8", "bn"},
		{"garbage header", ";;;", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Negotiate(tt.header); got != tt.want {
				t.Errorf("Negotiate(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
