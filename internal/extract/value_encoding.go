// File path: internal/extract/value_encoding.go
package extract

import (
	"encoding/json"
	"strconv"

	"github.com/houdini-kb/hipcore/internal/hip"
)

// encodeValue produces the canonical text encoding a Parameter Snapshot's
// param_value column stores: sequences are JSON-encoded arrays, numbers use
// the same round-trippable formatting the parser's canonical-float check
// expects, and text is JSON-quoted.
func encodeValue(v hip.Value) string {
	switch v.Kind {
	case hip.ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case hip.ValueSequence:
		encoded, err := json.Marshal(v.Sequence)
		if err != nil {
			return "[]"
		}
		return string(encoded)
	default:
		encoded, err := json.Marshal(v.Text)
		if err != nil {
			return strconv.Quote(v.Text)
		}
		return string(encoded)
	}
}
