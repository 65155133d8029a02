package patient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Scalar is an opaque descriptive value that may arrive as a JSON string or a
// JSON number. It is carried through unchanged in the form it arrived.
type Scalar struct {
	text    string
	numeric bool
}

// Text returns a string-valued Scalar.
func Text(s string) Scalar { return Scalar{text: s} }

// Number returns a numeric Scalar from its literal text. The literal must be a
// valid JSON number.
func Number(lit string) (Scalar, error) {
	if !json.Valid([]byte(lit)) || strings.ContainsAny(lit, `"[{tfn`) {
		return Scalar{}, fmt.Errorf("not a number: %q", lit)
	}
	return Scalar{text: lit, numeric: true}, nil
}

// String returns the value as text.
func (s Scalar) String() string { return s.text }

// IsNumber reports whether the value was a JSON number.
func (s Scalar) IsNumber() bool { return s.numeric }

// IsZero reports whether the value is absent.
func (s Scalar) IsZero() bool { return s.text == "" }

// Trimmed returns the value with surrounding whitespace removed.
func (s Scalar) Trimmed() Scalar {
	s.text = strings.TrimSpace(s.text)
	return s
}

// MarshalJSON writes numbers bare and everything else as a string.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if s.numeric {
		return []byte(s.text), nil
	}
	return json.Marshal(s.text)
}

// UnmarshalJSON accepts a string, a number, or null.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = Scalar{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar{text: str}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = Scalar{text: n.String(), numeric: true}
	return nil
}
