package analysis

import "sort"

// Source records where a normalized field's value came from.
type Source string

const (
	SourceProvided Source = "provided"
	SourceLegacy   Source = "legacy"
	SourceAbsent   Source = "absent"
	SourceEmpty    Source = "empty"
	SourceSentinel Source = "sentinel"
	SourceInvalid  Source = "invalid"
)

// Defaulted reports whether the value is a fallback rather than backend data.
func (s Source) Defaulted() bool {
	switch s {
	case SourceProvided, SourceLegacy:
		return false
	default:
		return true
	}
}

// Provenance maps field paths (for example "businessCanvas.channels") to their source.
// It separates "the backend omitted this" from "the backend sent it empty".
type Provenance map[string]Source

// Defaulted lists, sorted, every field that fell back to a default.
func (p Provenance) Defaulted() []string {
	out := make([]string, 0, len(p))
	for field, src := range p {
		if src.Defaulted() {
			out = append(out, field)
		}
	}
	sort.Strings(out)
	return out
}

// Fields returns a copy keyed by field path with string values, for log payloads.
func (p Provenance) Fields() map[string]any {
	out := make(map[string]any, len(p))
	for field, src := range p {
		out[field] = string(src)
	}
	return out
}

// Degraded reports whether the whole payload was unusable: nothing was provided at all.
func (p Provenance) Degraded() bool {
	for _, src := range p {
		if !src.Defaulted() {
			return false
		}
	}
	return true
}
