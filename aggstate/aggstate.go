// Package aggstate implements the value encodings of aggregate
// transition state at the engine boundary.
//
// The textual (varlena-style) form is comma-separated decimal integers
// in fixed field order, e.g. `sum,count`. It is what the type's I/O
// functions and the literal INITCOND strings speak. The binary form,
// used by the serialize/deserialize transition pair to move partial
// states between parallel workers, is msgpack.
package aggstate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// ParsePair parses the two-field textual state form. The text splits
// on the first comma into exactly two fields; a missing field or a
// non-integer fails.
func ParsePair(text string) (sum, count int32, err error) {
	first, second, ok := strings.Cut(text, ",")
	if !ok {
		return 0, 0, fmt.Errorf("aggstate: state %q: expected two comma-separated fields", text)
	}
	s, err := strconv.ParseInt(first, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("aggstate: state %q: invalid sum: %w", text, err)
	}
	n, err := strconv.ParseInt(second, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("aggstate: state %q: invalid count: %w", text, err)
	}
	return int32(s), int32(n), nil
}

// FormatPair renders the two-field textual state form.
func FormatPair(sum, count int32) string {
	return strconv.FormatInt(int64(sum), 10) + "," + strconv.FormatInt(int64(count), 10)
}

// Serial encodes a state value in the binary transfer form.
func Serial(state any) ([]byte, error) {
	return msgpack.Marshal(state)
}

// Deserial decodes a state value produced by Serial into dst.
func Deserial(data []byte, dst any) error {
	return msgpack.Unmarshal(data, dst)
}
