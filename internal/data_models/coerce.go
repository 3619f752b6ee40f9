package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number accepts a JSON number or a numeric string. Fractions are truncated
// and anything unparseable decodes as zero, which validation then rejects.
type Number int64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		*n = 0
		return nil
	}

	*n = Number(int64(f))
	return nil
}

// Flag treats null, false, 0, "", "0" and "false" as false. Any other value
// is true.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "null", "false", "0", `""`, `"0"`, `"false"`:
		*f = false
	default:
		*f = true
	}
	return nil
}

// Text accepts a JSON string, number or boolean and keeps its text. null
// decodes as empty. Objects and arrays are rejected.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*t = Text(b)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("invalid text value %s", b)
		}
		*t = Text(n.String())
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// OptionalText is a Text that remembers whether its key appeared in the body.
// An explicit null counts as present and empty.
type OptionalText struct {
	Value   Text
	Present bool
}

// Some returns a present OptionalText holding s.
func Some(s string) OptionalText {
	return OptionalText{Value: Text(s), Present: true}
}

// UnmarshalJSON only runs when the key exists, so reaching it marks the value
// as present.
func (o *OptionalText) UnmarshalJSON(b []byte) error {
	if err := o.Value.UnmarshalJSON(b); err != nil {
		return err
	}
	o.Present = true
	return nil
}
