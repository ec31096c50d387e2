package app

// KeyCode abstracts terminal key input away from any terminal library.
// Unrecognized codes are no-ops in the navigation reducer.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyEnter
	KeyEsc
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyOther
)

// Key is one keyboard input. Rune is set when Code == KeyRune.
type Key struct {
	Code KeyCode
	Rune rune
	Ctrl bool
}

// RuneKey builds a plain character key.
func RuneKey(r rune) Key {
	return Key{Code: KeyRune, Rune: r}
}

// CtrlKey builds a control-modified character key.
func CtrlKey(r rune) Key {
	return Key{Code: KeyRune, Rune: r, Ctrl: true}
}
