//go:build darwin || windows

package native

import (
	"fmt"

	"github.com/petems/hotkey-bridge/internal/hotkey"
	xhotkey "golang.design/x/hotkey"
)

// keyMap translates canonical key names into library key codes
var keyMap = map[hotkey.Key]xhotkey.Key{
	"A": xhotkey.KeyA,
	"B": xhotkey.KeyB,
	"C": xhotkey.KeyC,
	"D": xhotkey.KeyD,
	"E": xhotkey.KeyE,
	"F": xhotkey.KeyF,
	"G": xhotkey.KeyG,
	"H": xhotkey.KeyH,
	"I": xhotkey.KeyI,
	"J": xhotkey.KeyJ,
	"K": xhotkey.KeyK,
	"L": xhotkey.KeyL,
	"M": xhotkey.KeyM,
	"N": xhotkey.KeyN,
	"O": xhotkey.KeyO,
	"P": xhotkey.KeyP,
	"Q": xhotkey.KeyQ,
	"R": xhotkey.KeyR,
	"S": xhotkey.KeyS,
	"T": xhotkey.KeyT,
	"U": xhotkey.KeyU,
	"V": xhotkey.KeyV,
	"W": xhotkey.KeyW,
	"X": xhotkey.KeyX,
	"Y": xhotkey.KeyY,
	"Z": xhotkey.KeyZ,

	"0": xhotkey.Key0,
	"1": xhotkey.Key1,
	"2": xhotkey.Key2,
	"3": xhotkey.Key3,
	"4": xhotkey.Key4,
	"5": xhotkey.Key5,
	"6": xhotkey.Key6,
	"7": xhotkey.Key7,
	"8": xhotkey.Key8,
	"9": xhotkey.Key9,

	"F1":  xhotkey.KeyF1,
	"F2":  xhotkey.KeyF2,
	"F3":  xhotkey.KeyF3,
	"F4":  xhotkey.KeyF4,
	"F5":  xhotkey.KeyF5,
	"F6":  xhotkey.KeyF6,
	"F7":  xhotkey.KeyF7,
	"F8":  xhotkey.KeyF8,
	"F9":  xhotkey.KeyF9,
	"F10": xhotkey.KeyF10,
	"F11": xhotkey.KeyF11,
	"F12": xhotkey.KeyF12,

	"Space":  xhotkey.KeySpace,
	"Tab":    xhotkey.KeyTab,
	"Enter":  xhotkey.KeyReturn,
	"Escape": xhotkey.KeyEscape,
	"Delete": xhotkey.KeyDelete,
	"Left":   xhotkey.KeyLeft,
	"Right":  xhotkey.KeyRight,
	"Up":     xhotkey.KeyUp,
	"Down":   xhotkey.KeyDown,
}

func toNative(sc hotkey.Shortcut) ([]xhotkey.Modifier, xhotkey.Key, error) {
	key, ok := keyMap[sc.Key]
	if !ok {
		return nil, 0, fmt.Errorf("%w: key %q has no native code", hotkey.ErrParse, sc.Key)
	}

	var mods []xhotkey.Modifier
	for _, m := range sc.Mods.List() {
		nm, ok := modifierMap[m]
		if !ok {
			return nil, 0, fmt.Errorf("%w: modifier %s has no native code", hotkey.ErrParse, m)
		}
		mods = append(mods, nm)
	}
	return mods, key, nil
}
