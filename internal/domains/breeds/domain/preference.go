package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Level is the three-step preference code: Low, Medium, High.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

// Valid reports whether the level is one of the recognised codes.
func (l Level) Valid() bool {
	return l >= LevelLow && l <= LevelHigh
}

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	default:
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
}

// PreferenceKind discriminates the Preference variants.
type PreferenceKind uint8

const (
	// KindUnset carries an explicit null entry.
	KindUnset PreferenceKind = iota
	KindBool
	KindLevel
)

// ErrInvalidPreference signals a preference value outside true|false|0|1|2|null.
var ErrInvalidPreference = errors.New("preference must be a boolean, 0, 1, 2 or null")

// Preference is a tagged value: either a yes/no requirement or a Low/Medium/High level.
// The zero value is Unset.
type Preference struct {
	kind  PreferenceKind
	want  bool
	level Level
}

// Want builds a boolean preference.
func Want(v bool) Preference {
	return Preference{kind: KindBool, want: v}
}

// AtLevel builds a level preference.
func AtLevel(l Level) Preference {
	return Preference{kind: KindLevel, level: l}
}

// Unset builds an explicit null preference.
func Unset() Preference {
	return Preference{}
}

// Kind returns the variant tag.
func (p Preference) Kind() PreferenceKind { return p.kind }

// Bool returns the boolean payload when the preference is a boolean.
func (p Preference) Bool() (bool, bool) {
	return p.want, p.kind == KindBool
}

// Level returns the level payload when the preference is a level.
func (p Preference) Level() (Level, bool) {
	return p.level, p.kind == KindLevel
}

func (p Preference) String() string {
	switch p.kind {
	case KindBool:
		return strconv.FormatBool(p.want)
	case KindLevel:
		return strconv.Itoa(int(p.level))
	default:
		return "null"
	}
}

// MarshalJSON encodes the preference as true|false|0|1|2|null.
func (p Preference) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts true|false|0|1|2|null.
func (p *Preference) UnmarshalJSON(data []byte) error {
	parsed, err := ParsePreference(string(bytes.TrimSpace(data)))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePreference parses the textual form used by JSON payloads and the CLI.
func ParsePreference(raw string) (Preference, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "null", "":
		return Unset(), nil
	case "true":
		return Want(true), nil
	case "false":
		return Want(false), nil
	case "0", "low":
		return AtLevel(LevelLow), nil
	case "1", "medium":
		return AtLevel(LevelMedium), nil
	case "2", "high":
		return AtLevel(LevelHigh), nil
	}
	return Preference{}, fmt.Errorf("%w: got %s", ErrInvalidPreference, raw)
}

// Preferences maps trait names to preferences. Names are an informal join key
// against Trait.Name; unknown names are never an error.
type Preferences map[string]Preference

// Merge returns a new map with other's entries layered over p.
func (p Preferences) Merge(other Preferences) Preferences {
	merged := make(Preferences, len(p)+len(other))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Clone copies the map.
func (p Preferences) Clone() Preferences {
	if p == nil {
		return nil
	}
	return p.Merge(nil)
}

// Keys returns the trait names in sorted order.
func (p Preferences) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fingerprint renders the map canonically. Equal maps share a fingerprint and
// distinct maps never do: trait names are quoted, so separators inside a name
// cannot fake an entry boundary.
func (p Preferences) Fingerprint() string {
	var b strings.Builder
	for i, k := range p.Keys() {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte('=')
		b.WriteString(p[k].String())
	}
	return b.String()
}

// ParsePreferenceArgs parses "Trait Name=value" pairs. An empty value is an error;
// null clears a trait explicitly.
func ParsePreferenceArgs(args []string) (Preferences, error) {
	prefs := make(Preferences, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: expected Trait=value, got %q", ErrInvalidPreference, arg)
		}
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%s: %w: empty value, use null to clear", name, ErrInvalidPreference)
		}
		pref, err := ParsePreference(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		prefs[name] = pref
	}
	return prefs, nil
}

var _ json.Marshaler = Preference{}
