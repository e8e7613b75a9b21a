package hotkey

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrParse wraps every descriptor parsing failure.
var ErrParse = errors.New("invalid shortcut")

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModSuper
)

// modifierOrder is the canonical rendering order.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModSuper, "Super"},
}

// Has reports whether all modifiers in m are set.
func (s Modifier) Has(m Modifier) bool {
	return s&m == m
}

// List returns the individual modifiers in canonical order.
func (s Modifier) List() []Modifier {
	var out []Modifier
	for _, o := range modifierOrder {
		if s.Has(o.mod) {
			out = append(out, o.mod)
		}
	}
	return out
}

func (s Modifier) String() string {
	var names []string
	for _, o := range modifierOrder {
		if s.Has(o.mod) {
			names = append(names, o.name)
		}
	}
	return strings.Join(names, "+")
}

// Key is the canonical name of a trigger key, e.g. "R", "F5" or "Space".
type Key string

// Shortcut is a parsed key combination. Two shortcuts denoting the same
// combination compare equal regardless of how their text was ordered.
type Shortcut struct {
	Mods Modifier
	Key  Key
}

func (sc Shortcut) String() string {
	if sc.Mods == 0 {
		return string(sc.Key)
	}
	return sc.Mods.String() + "+" + string(sc.Key)
}

// modifierAliases maps lower-case modifier tokens to modifiers
var modifierAliases = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"shift":   ModShift,
	"super":   ModSuper,
	"win":     ModSuper,
	"cmd":     ModSuper,
	"command": ModSuper,
	"meta":    ModSuper,
}

// KeyMap maps lower-case key tokens to canonical key names
var KeyMap = map[string]Key{
	"space":  "Space",
	"tab":    "Tab",
	"enter":  "Enter",
	"return": "Enter",
	"escape": "Escape",
	"esc":    "Escape",
	"delete": "Delete",
	"left":   "Left",
	"right":  "Right",
	"up":     "Up",
	"down":   "Down",
}

func init() {
	for c := 'a'; c <= 'z'; c++ {
		KeyMap[string(c)] = Key(strings.ToUpper(string(c)))
	}
	for c := '0'; c <= '9'; c++ {
		KeyMap[string(c)] = Key(string(c))
	}
	for i := 1; i <= 12; i++ {
		KeyMap[fmt.Sprintf("f%d", i)] = Key(fmt.Sprintf("F%d", i))
	}
}

// Parse converts a descriptor such as "Ctrl+Alt+R" into a Shortcut.
// Tokens are case-insensitive and separated by '+'; the last token is the
// trigger key. Malformed descriptors are rejected, never coerced.
func Parse(descriptor string) (Shortcut, error) {
	if strings.TrimSpace(descriptor) == "" {
		return Shortcut{}, fmt.Errorf("%w: empty descriptor", ErrParse)
	}

	parts := strings.Split(descriptor, "+")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
		if parts[i] == "" {
			return Shortcut{}, fmt.Errorf("%w: empty key in %q", ErrParse, descriptor)
		}
	}

	keyStr := parts[len(parts)-1]
	key, ok := KeyMap[keyStr]
	if !ok {
		if _, isMod := lookupModifier(keyStr); isMod {
			return Shortcut{}, fmt.Errorf("%w: %q has no trigger key", ErrParse, descriptor)
		}
		return Shortcut{}, fmt.Errorf("%w: unsupported key %q", ErrParse, keyStr)
	}

	var mods Modifier
	for _, part := range parts[:len(parts)-1] {
		m, ok := lookupModifier(part)
		if !ok {
			return Shortcut{}, fmt.Errorf("%w: unsupported modifier %q", ErrParse, part)
		}
		if mods.Has(m) {
			return Shortcut{}, fmt.Errorf("%w: duplicate modifier %q", ErrParse, part)
		}
		mods |= m
	}

	return Shortcut{Mods: mods, Key: key}, nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(descriptor string) Shortcut {
	sc, err := Parse(descriptor)
	if err != nil {
		panic(err)
	}
	return sc
}

func lookupModifier(token string) (Modifier, bool) {
	switch token {
	case "cmdorctrl", "commandorcontrol":
		// Platform primary modifier: Cmd on macOS, Ctrl elsewhere.
		if runtime.GOOS == "darwin" {
			return ModSuper, true
		}
		return ModCtrl, true
	}
	m, ok := modifierAliases[token]
	return m, ok
}
