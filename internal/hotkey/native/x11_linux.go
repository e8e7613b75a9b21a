//go:build linux

package native

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/petems/hotkey-bridge/internal/hotkey"
	"github.com/rs/zerolog"
)

// Manager is a hotkey.Manager that grabs keys on the X11 root window.
type Manager struct {
	log      zerolog.Logger
	conn     *xgb.Conn
	root     xproto.Window
	keyboard keyboardMapping

	mu     sync.Mutex
	regs   map[hotkey.Shortcut]*grab
	byKey  map[grabKey]*grab
	held   map[xproto.Keycode]*grab
	closed bool
}

var _ hotkey.Manager = (*Manager)(nil)

// grabKey is a keycode plus the modifier state it was grabbed with,
// lock masks excluded.
type grabKey struct {
	code xproto.Keycode
	mods uint16
}

// grab owns the root window grabs for one shortcut.
type grab struct {
	shortcut hotkey.Shortcut
	callback func(hotkey.State)
	key      grabKey
	masks    []uint16
}

// New connects to the X server named by $DISPLAY. Sessions without one
// get ErrUnavailable instead of a crash.
func New(log zerolog.Logger) (*Manager, error) {
	ds := DetectDisplayServer()
	if !ds.SupportsGlobalShortcuts() {
		return nil, fmt.Errorf("%w: display server %s", ErrUnavailable, ds)
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: connect to X server: %v", ErrUnavailable, err)
	}

	setup := xproto.Setup(conn)
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)
	reply, err := xproto.GetKeyboardMapping(conn, setup.MinKeycode, count).Reply()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: read keyboard mapping: %v", ErrUnavailable, err)
	}

	m := newManager(log)
	m.conn = conn
	m.root = setup.DefaultScreen(conn).Root
	m.keyboard = keyboardMapping{
		min:        setup.MinKeycode,
		perKeycode: int(reply.KeysymsPerKeycode),
		keysyms:    reply.Keysyms,
	}
	go m.loop()

	log.Debug().Str("display_server", ds.String()).Msg("Native hotkey manager ready")
	return m, nil
}

func newManager(log zerolog.Logger) *Manager {
	return &Manager{
		log:   log,
		regs:  make(map[hotkey.Shortcut]*grab),
		byKey: make(map[grabKey]*grab),
		held:  make(map[xproto.Keycode]*grab),
	}
}

// Register grabs the shortcut synchronously. A combination already
// grabbed by another client fails with hotkey.ErrAlreadyRegistered.
func (m *Manager) Register(sc hotkey.Shortcut, callback func(hotkey.State)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return hotkey.ErrClosed
	}
	if _, exists := m.regs[sc]; exists {
		return fmt.Errorf("%w: %s", hotkey.ErrAlreadyRegistered, sc)
	}

	sym, ok := keysyms[sc.Key]
	if !ok {
		return fmt.Errorf("%w: key %q has no keysym", hotkey.ErrParse, sc.Key)
	}
	code, ok := m.keyboard.keycode(sym)
	if !ok {
		return fmt.Errorf("failed to register %s: no keycode for keysym %#x", sc, sym)
	}

	g := &grab{
		shortcut: sc,
		callback: callback,
		key:      grabKey{code: code, mods: modifierMask(sc.Mods)},
	}
	for i, lock := range lockVariants {
		mask := g.key.mods | lock
		err := xproto.GrabKeyChecked(m.conn, true, m.root, mask, code,
			xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
		if err != nil {
			if i == 0 {
				return fmt.Errorf("failed to register %s: %w", sc, grabError(err))
			}
			// Lock-mask variants are best effort.
			m.log.Debug().Err(err).Str("shortcut", sc.String()).Uint16("mask", mask).Msg("Lock-mask variant not grabbed")
			continue
		}
		g.masks = append(g.masks, mask)
	}

	m.regs[sc] = g
	m.byKey[g.key] = g
	m.log.Debug().Str("shortcut", sc.String()).Int("grabs", len(g.masks)).Msg("Registered global shortcut")
	return nil
}

func (m *Manager) Unregister(sc hotkey.Shortcut) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, exists := m.regs[sc]
	if !exists {
		return fmt.Errorf("%w: %s", hotkey.ErrNotRegistered, sc)
	}
	m.forget(g)
	return m.ungrab(g)
}

// Close ungrabs every shortcut and drops the X connection. The manager
// cannot be reused.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var firstErr error
	for sc, g := range m.regs {
		if err := m.ungrab(g); err != nil {
			m.log.Warn().Err(err).Str("shortcut", sc.String()).Msg("Failed to unregister shortcut")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	m.regs = nil
	m.byKey = nil
	m.held = nil

	if m.conn != nil {
		m.conn.Close()
	}
	return firstErr
}

// forget removes g from the lookup tables. Requires m.mu.
func (m *Manager) forget(g *grab) {
	delete(m.regs, g.shortcut)
	delete(m.byKey, g.key)
	if m.held[g.key.code] == g {
		delete(m.held, g.key.code)
	}
}

// ungrab releases g's grabs. UngrabKey returns as soon as the server
// replies. Requires m.mu.
func (m *Manager) ungrab(g *grab) error {
	var firstErr error
	for _, mask := range g.masks {
		err := xproto.UngrabKeyChecked(m.conn, g.key.code, m.root, mask).Check()
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to unregister %s: %w", g.shortcut, err)
		}
	}
	return firstErr
}

// loop reads X events until the connection closes.
func (m *Manager) loop() {
	var pending xgb.Event
	for {
		ev := pending
		pending = nil
		if ev == nil {
			var xerr xgb.Error
			ev, xerr = m.conn.WaitForEvent()
			if ev == nil && xerr == nil {
				m.log.Debug().Msg("X connection closed")
				return
			}
			if xerr != nil {
				m.log.Debug().Err(xerr).Msg("X error")
				continue
			}
		}

		switch e := ev.(type) {
		case xproto.KeyPressEvent:
			m.handleKey(e.Detail, e.State, hotkey.Pressed)
		case xproto.KeyReleaseEvent:
			next, _ := m.conn.PollForEvent()
			if isAutoRepeat(e, next) {
				continue
			}
			m.handleKey(e.Detail, e.State, hotkey.Released)
			pending = next
		}
	}
}

// handleKey routes one key event to its shortcut. A press is matched on
// keycode and modifiers; the release goes to whichever grab the press
// activated, since modifiers may already be up by then.
func (m *Manager) handleKey(code xproto.Keycode, state uint16, s hotkey.State) {
	m.mu.Lock()
	var g *grab
	switch s {
	case hotkey.Pressed:
		g = m.byKey[grabKey{code: code, mods: state & shortcutMask}]
		if g == nil || m.held[code] == g {
			m.mu.Unlock()
			return
		}
		m.held[code] = g
	case hotkey.Released:
		g = m.held[code]
		if g == nil {
			m.mu.Unlock()
			return
		}
		delete(m.held, code)
	}
	m.mu.Unlock()

	dispatch(m.log, g.shortcut, g.callback, s)
}

func dispatch(log zerolog.Logger, sc hotkey.Shortcut, callback func(hotkey.State), state hotkey.State) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("shortcut", sc.String()).Msg("Recovered from panic in shortcut callback")
		}
	}()
	callback(state)
}

// isAutoRepeat reports whether release and next are the synthetic pair X
// sends while a key is held down.
func isAutoRepeat(release xproto.KeyReleaseEvent, next xgb.Event) bool {
	press, ok := next.(xproto.KeyPressEvent)
	return ok && press.Detail == release.Detail && press.Time == release.Time
}

// grabError maps BadAccess, the X reply for a combination another client
// already grabbed, onto hotkey.ErrAlreadyRegistered.
func grabError(err error) error {
	var access xproto.AccessError
	if errors.As(err, &access) {
		return fmt.Errorf("%w: grabbed by another X client", hotkey.ErrAlreadyRegistered)
	}
	return err
}

// keyboardMapping is the server's keycode to keysym table.
type keyboardMapping struct {
	min        xproto.Keycode
	perKeycode int
	keysyms    []xproto.Keysym
}

// keycode returns the lowest keycode producing sym in any column.
func (k keyboardMapping) keycode(sym xproto.Keysym) (xproto.Keycode, bool) {
	if k.perKeycode <= 0 {
		return 0, false
	}
	for i, s := range k.keysyms {
		if s == sym {
			return k.min + xproto.Keycode(i/k.perKeycode), true
		}
	}
	return 0, false
}
