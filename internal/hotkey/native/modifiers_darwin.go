//go:build darwin

package native

import (
	"github.com/petems/hotkey-bridge/internal/hotkey"
	xhotkey "golang.design/x/hotkey"
)

var modifierMap = map[hotkey.Modifier]xhotkey.Modifier{
	hotkey.ModCtrl:  xhotkey.ModCtrl,
	hotkey.ModShift: xhotkey.ModShift,
	hotkey.ModAlt:   xhotkey.ModOption,
	hotkey.ModSuper: xhotkey.ModCmd,
}

func expandModifiers(mods []xhotkey.Modifier) [][]xhotkey.Modifier {
	return [][]xhotkey.Modifier{mods}
}
