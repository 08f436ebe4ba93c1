// Package compat handles the part/model compatibility set. The column is
// JSON ({"compatibilidades": [...]}) but older rows still carry a single
// comma-separated string; both are accepted on read and every write emits
// the JSON form.
package compat

import (
	"encoding/json"
	"sort"
	"strings"
)

// Universal is the legacy sentinel equivalent to an empty set.
const Universal = "universal"

type envelope struct {
	Compatibilidades []string `json:"compatibilidades"`
}

// Parse decodes a raw compatibility column value into a normalised set.
// Accepts the JSON envelope, a bare JSON array, a legacy comma-separated
// string, and empty input.
func Parse(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err == nil && env.Compatibilidades != nil {
		return Normalize(env.Compatibilidades)
	}

	var arr []string
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		return Normalize(arr)
	}

	// legacy single string, possibly comma separated
	return Normalize(strings.Split(raw, ","))
}

// Normalize trims, dedupes and sorts the set. The universal sentinel and
// empty entries are dropped; a set that only contained the sentinel comes
// back empty, which means universal.
func Normalize(set []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range set {
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, Universal) {
			continue
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// Marshal encodes the set in the canonical JSON envelope form.
func Marshal(set []string) (string, error) {
	norm := Normalize(set)
	if norm == nil {
		norm = []string{}
	}
	b, err := json.Marshal(envelope{Compatibilidades: norm})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsCompatible reports whether a part with the given set fits the model.
// An empty set is universal.
func IsCompatible(set []string, modelID string) bool {
	norm := Normalize(set)
	if len(norm) == 0 {
		return true
	}
	for _, id := range norm {
		if id == modelID {
			return true
		}
	}
	return false
}
