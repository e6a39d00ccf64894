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

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatXID builds the user-visible transaction id from the coordinator's
// address and a local transaction id: "<ip>:<port>:<transactionId>".
func FormatXID(ip string, port int, transactionID int64) string {
	return fmt.Sprintf("%s:%d:%d", ip, port, transactionID)
}

// ParseXID extracts the embedded transactionId from xid. Per spec §6, the
// transactionId is everything after the LAST colon, so IPv6 host parts
// (which themselves contain colons) are handled correctly.
func ParseXID(xid string) (int64, error) {
	i := strings.LastIndexByte(xid, ':')
	if i < 0 || i == len(xid)-1 {
		return 0, fmt.Errorf("session: malformed xid %q: no transactionId suffix", xid)
	}
	tid, err := strconv.ParseInt(xid[i+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session: malformed xid %q: %w", xid, err)
	}
	return tid, nil
}
