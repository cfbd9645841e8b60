package analysis

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// object is one level of a loosely typed JSON payload. Each value is decoded
// lazily so a bad field never poisons its siblings.
type object map[string]json.RawMessage

type field struct {
	Key   string
	Value json.RawMessage
}

func parseObject(raw json.RawMessage) (object, Source) {
	if isNull(raw) {
		return nil, SourceAbsent
	}
	var o object
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, SourceInvalid
	}
	return o, SourceProvided
}

// child returns a nested object. Missing parents report absent.
func (o object) child(key string) (object, Source) {
	if o == nil {
		return nil, SourceAbsent
	}
	return parseObject(o[key])
}

func (o object) get(key string) json.RawMessage {
	if o == nil {
		return nil
	}
	return o[key]
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// orderedFields decodes a JSON object keeping key order. Duplicate keys keep the first value.
func orderedFields(raw json.RawMessage) ([]field, Source) {
	if isNull(raw) {
		return nil, SourceAbsent
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, SourceInvalid
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, SourceInvalid
	}
	var out []field
	seen := map[string]struct{}{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return out, SourceInvalid
		}
		key, ok := tok.(string)
		if !ok {
			return out, SourceInvalid
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return out, SourceInvalid
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, field{Key: key, Value: val})
	}
	if len(out) == 0 {
		return out, SourceEmpty
	}
	return out, SourceProvided
}

// stringValue reads a string verbatim. Blank strings report empty and the
// exact "Not specified" sentinel reports sentinel; other spellings are kept.
func stringValue(raw json.RawMessage) (string, Source) {
	if isNull(raw) {
		return "", SourceAbsent
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", SourceInvalid
	}
	trimmed := strings.TrimSpace(s)
	switch {
	case trimmed == "":
		return "", SourceEmpty
	case s == NotSpecified:
		return "", SourceSentinel
	default:
		return s, SourceProvided
	}
}

// stringList reads an array of strings, dropping blanks and non-string items.
func stringList(raw json.RawMessage) ([]string, Source) {
	if isNull(raw) {
		return nil, SourceAbsent
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, SourceInvalid
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, SourceEmpty
	}
	return out, SourceProvided
}

// numberValue reads a finite JSON number.
func numberValue(raw json.RawMessage) (float64, Source) {
	if isNull(raw) {
		return 0, SourceAbsent
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, SourceInvalid
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, SourceInvalid
	}
	return n, SourceProvided
}
