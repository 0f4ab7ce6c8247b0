package templates

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

var errInvalidJSON = errors.New("invalid JSON")

// jsonValue is a decoded JSON document that remembers object key order.
type jsonValue struct {
	kind    jsonparser.ValueType
	scalar  string // literal for numbers, booleans and null; decoded text for strings
	members []jsonMember
	items   []*jsonValue
}

type jsonMember struct {
	key   string
	value *jsonValue
}

// IndentJSON parses content and writes it back with two-space indentation.
// Object keys keep their first position and a repeated key takes the last
// value. Numbers and strings are re-encoded in canonical form.
func IndentJSON(content []byte) ([]byte, error) {
	content = bytes.TrimSpace(content)
	if !json.Valid(content) {
		// Decode to get a positioned syntax error.
		var v interface{}
		if err := json.Unmarshal(content, &v); err != nil {
			return nil, err
		}
		return nil, errInvalidJSON
	}

	data, kind, _, err := jsonparser.Get(content)
	if err != nil {
		return nil, err
	}
	root, err := decodeJSON(data, kind)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := writeJSON(&buf, root, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeJSON(data []byte, kind jsonparser.ValueType) (*jsonValue, error) {
	v := &jsonValue{kind: kind}

	switch kind {
	case jsonparser.Object:
		index := make(map[string]int)
		// ObjectEach hands over keys already unescaped.
		err := jsonparser.ObjectEach(data, func(rawKey, value []byte, kind jsonparser.ValueType, _ int) error {
			key := string(rawKey)
			child, err := decodeJSON(value, kind)
			if err != nil {
				return err
			}
			if i, ok := index[key]; ok {
				v.members[i].value = child
				return nil
			}
			index[key] = len(v.members)
			v.members = append(v.members, jsonMember{key: key, value: child})
			return nil
		})
		if err != nil {
			return nil, err
		}

	case jsonparser.Array:
		var walkErr error
		_, err := jsonparser.ArrayEach(data, func(value []byte, kind jsonparser.ValueType, _ int, err error) {
			if walkErr != nil {
				return
			}
			if err != nil {
				walkErr = err
				return
			}
			child, err := decodeJSON(value, kind)
			if err != nil {
				walkErr = err
				return
			}
			v.items = append(v.items, child)
		})
		if walkErr != nil {
			return nil, walkErr
		}
		if err != nil {
			return nil, err
		}

	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, err
		}
		v.scalar = s

	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(data)
		if err != nil {
			return nil, err
		}
		v.scalar = formatNumber(f)

	case jsonparser.Boolean, jsonparser.Null:
		v.scalar = string(data)

	default:
		return nil, errInvalidJSON
	}

	return v, nil
}

// formatNumber renders f the way JavaScript's number-to-string does:
// shortest round-trip digits, exponent form outside [1e-6, 1e21).
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func writeJSON(buf *bytes.Buffer, v *jsonValue, indent string) error {
	inner := indent + "  "

	switch v.kind {
	case jsonparser.Object:
		if len(v.members) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, m := range v.members {
			buf.WriteString(inner)
			if err := writeString(buf, m.key); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := writeJSON(buf, m.value, inner); err != nil {
				return err
			}
			if i < len(v.members)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent + "}")

	case jsonparser.Array:
		if len(v.items) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range v.items {
			buf.WriteString(inner)
			if err := writeJSON(buf, item, inner); err != nil {
				return err
			}
			if i < len(v.items)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent + "]")

	case jsonparser.String:
		return writeString(buf, v.scalar)

	default:
		buf.WriteString(v.scalar)
	}

	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
