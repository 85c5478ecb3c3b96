// File path: internal/hip/connections.go
package hip

import (
	"strconv"
	"strings"
)

// parseConnectionLine recognizes the two wire/input line forms from
// spec.md §4.3.2 and resolves relative endpoints against base.
func parseConnectionLine(line, base string) (Connection, bool) {
	fields := strings.Fields(line)
	switch {
	case len(fields) >= 5 && fields[0] == "wire":
		fromOut, err1 := strconv.Atoi(fields[2])
		toIn, err2 := strconv.Atoi(fields[4])
		if err1 != nil || err2 != nil {
			return Connection{}, false
		}
		return Connection{
			From:       resolvePath(base, fields[1]),
			FromOutput: fromOut,
			To:         resolvePath(base, fields[3]),
			ToInput:    toIn,
		}, true
	case len(fields) >= 4 && fields[0] == "input":
		toIn, err1 := strconv.Atoi(fields[1])
		fromOut, err2 := strconv.Atoi(fields[3])
		if err1 != nil || err2 != nil {
			return Connection{}, false
		}
		return Connection{
			From:       resolvePath(base, fields[2]),
			FromOutput: fromOut,
			To:         base,
			ToInput:    toIn,
		}, true
	default:
		return Connection{}, false
	}
}

func resolvePath(base, relative string) string {
	if strings.HasPrefix(relative, "/") {
		return relative
	}
	return base + "/" + relative
}
