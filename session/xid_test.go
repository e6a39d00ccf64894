// Copyright 2024 The tcstore Authors
// This file is part of the tcstore library.
//
// The tcstore library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The tcstore library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the tcstore library. If not, see <http://www.gnu.org/licenses/>.

package session

import "testing"

func TestParseXID(t *testing.T) {
	cases := []struct {
		xid     string
		want    int64
		wantErr bool
	}{
		{"1.1.1.1:8091:10", 10, false},
		{"127.0.0.1:8091:9223372036854775807", 9223372036854775807, false},
		{"[::1]:8091:42", 42, false}, // IPv6 host: last colon still wins
		{"no-colons-here", 0, true},
		{"1.1.1.1:8091:", 0, true},
		{"1.1.1.1:8091:notanumber", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseXID(tc.xid)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseXID(%q): expected error, got tid=%d", tc.xid, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseXID(%q): unexpected error: %v", tc.xid, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseXID(%q) = %d, want %d", tc.xid, got, tc.want)
		}
	}
}

func TestFormatXIDRoundTrip(t *testing.T) {
	xid := FormatXID("10.0.0.5", 8091, 12345)
	if xid != "10.0.0.5:8091:12345" {
		t.Fatalf("FormatXID() = %q", xid)
	}
	tid, err := ParseXID(xid)
	if err != nil {
		t.Fatalf("ParseXID() error = %v", err)
	}
	if tid != 12345 {
		t.Fatalf("ParseXID() = %d, want 12345", tid)
	}
}
