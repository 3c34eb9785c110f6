package events

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
)

// KeyCode is a raw key value as reported by a Surface. Printable keys carry
// their character code; the special keys below keep fixed codes.
type KeyCode int

const (
	KeyNone   KeyCode = -1
	KeyEnter  KeyCode = 10
	KeyReturn KeyCode = 13
	KeyEsc    KeyCode = 27
	KeySpace  KeyCode = 32
	KeyLeft   KeyCode = 81
	KeyUp     KeyCode = 82
	KeyRight  KeyCode = 83
	KeyDown   KeyCode = 84
)

var keyNames = map[KeyCode]string{
	KeyNone:   "none",
	KeyEnter:  "enter",
	KeyReturn: "enter",
	KeyEsc:    "esc",
	KeySpace:  "space",
	KeyLeft:   "left",
	KeyUp:     "up",
	KeyRight:  "right",
	KeyDown:   "down",
}

func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if r, ok := k.Char(); ok {
		return string(r)
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// Char returns the printable character for k. Special keys report false.
func (k KeyCode) Char() (rune, bool) {
	if _, special := keyNames[k]; special {
		return 0, false
	}
	if k <= KeySpace || k > 126 {
		return 0, false
	}
	return rune(k), true
}

// Is compares two codes, treating carriage return as Enter.
func (k KeyCode) Is(other KeyCode) bool {
	return k.normalize() == other.normalize()
}

// IsQuit reports whether k ends an interactive session.
func (k KeyCode) IsQuit() bool {
	return k == 'q' || k == KeyEsc
}

func (k KeyCode) normalize() KeyCode {
	if k == KeyReturn {
		return KeyEnter
	}
	return k
}

// ParseKey maps a configured key name to a code. It accepts "enter",
// "return", "space" and single printable characters. Quit keys are rejected
// because the bridge consumes them before any task sees them.
func ParseKey(name string) (KeyCode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "enter", "return":
		return KeyEnter, nil
	case "space":
		return KeySpace, nil
	}

	if utf8.RuneCountInString(name) != 1 {
		return KeyNone, apperrors.InvalidArgument("unknown key %q", name)
	}
	r, _ := utf8.DecodeRuneInString(name)
	k := KeyCode(r)
	if k.IsQuit() {
		return KeyNone, apperrors.InvalidArgument("key %q is reserved for quitting", name)
	}
	if _, ok := k.Char(); !ok {
		return KeyNone, apperrors.InvalidArgument("key %q is not printable", name)
	}
	return k, nil
}
