/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"strings"
	"testing"
	"time"
)

func TestParseEventDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"", time.Time{}},
		{"   ", time.Time{}},
		{"2026-03-14", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"  2026-03-14\n", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"March 14, 2026", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, err := ParseEventDate(tc.in)
		if err != nil {
			t.Errorf("ParseEventDate(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseEventDate(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}

	for _, in := range []string{"not a date", "32nd of Smarch"} {
		_, err := ParseEventDate(in)
		if err == nil {
			t.Errorf("ParseEventDate(%q): expected an error", in)
			continue
		}
		if !strings.Contains(err.Error(), in) {
			t.Errorf("ParseEventDate(%q): error %q does not name the input", in, err)
		}
	}
}
