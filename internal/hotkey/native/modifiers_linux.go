//go:build linux

package native

import (
	"fmt"

	"github.com/jezek/xgb/xproto"
	"github.com/petems/hotkey-bridge/internal/hotkey"
)

// On X11 Alt is Mod1 and Super is Mod4.
var modifierMap = map[hotkey.Modifier]uint16{
	hotkey.ModCtrl:  xproto.ModMaskControl,
	hotkey.ModShift: xproto.ModMaskShift,
	hotkey.ModAlt:   xproto.ModMask1,
	hotkey.ModSuper: xproto.ModMask4,
}

// shortcutMask keeps the modifier bits a shortcut can name.
const shortcutMask = xproto.ModMaskControl | xproto.ModMaskShift | xproto.ModMask1 | xproto.ModMask4

// lockVariants are the extra masks each shortcut is grabbed with. XGrabKey
// matches modifier state exactly, so NumLock (usually Mod2) and CapsLock
// would otherwise swallow it.
var lockVariants = []uint16{
	0,
	xproto.ModMask2,
	xproto.ModMaskLock,
	xproto.ModMask2 | xproto.ModMaskLock,
}

func modifierMask(mods hotkey.Modifier) uint16 {
	var mask uint16
	for _, m := range mods.List() {
		mask |= modifierMap[m]
	}
	return mask
}

// keysyms translates canonical key names into X keysyms.
var keysyms = map[hotkey.Key]xproto.Keysym{
	"Space":  0x0020,
	"Tab":    0xff09,
	"Enter":  0xff0d,
	"Escape": 0xff1b,
	"Delete": 0xffff,
	"Left":   0xff51,
	"Up":     0xff52,
	"Right":  0xff53,
	"Down":   0xff54,
}

func init() {
	// Letters grab by their lower-case keysym.
	for c := 'A'; c <= 'Z'; c++ {
		keysyms[hotkey.Key(string(c))] = xproto.Keysym(c - 'A' + 'a')
	}
	for c := '0'; c <= '9'; c++ {
		keysyms[hotkey.Key(string(c))] = xproto.Keysym(c)
	}
	for i := 1; i <= 12; i++ {
		keysyms[hotkey.Key(fmt.Sprintf("F%d", i))] = xproto.Keysym(0xffbe + i - 1)
	}
}
