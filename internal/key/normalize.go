package key

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// specialTokens maps semantic key identifiers to their bracketed log form.
// Both backends emit identifiers from this vocabulary for non-printable keys.
var specialTokens = map[string]string{
	"backspace": "[BACKSPACE]",
	"enter":     "[ENTER]",
	"tab":       "[TAB]",
	"space":     "[SPACE]",
	"esc":       "[ESC]",
	"escape":    "[ESC]",
	"left":      "[ARROW_LEFT]",
	"right":     "[ARROW_RIGHT]",
	"up":        "[ARROW_UP]",
	"down":      "[ARROW_DOWN]",
	"shift":     "[SHIFT]",
	"ctrl":      "[CTRL]",
	"alt":       "[ALT]",
	"delete":    "[DELETE]",
	"home":      "[HOME]",
	"end":       "[END]",
	"pgup":      "[PAGE_UP]",
	"pgdown":    "[PAGE_DOWN]",
	"f1":        "[F1]",
	"f2":        "[F2]",
	"f3":        "[F3]",
	"f4":        "[F4]",
	"f5":        "[F5]",
	"f6":        "[F6]",
	"f7":        "[F7]",
	"f8":        "[F8]",
	"f9":        "[F9]",
	"f10":       "[F10]",
	"f11":       "[F11]",
	"f12":       "[F12]",
}

// Normalize maps an event to its log token. It is pure and total: printable
// characters pass through case-preserving, known special keys take their
// bracketed name, and anything else becomes a [KEY_<code>] placeholder so
// unknown keys are recorded rather than dropped.
func Normalize(ev Event) string {
	if r, size := utf8.DecodeRuneInString(ev.Identifier); size == len(ev.Identifier) && size > 0 {
		if r == ' ' {
			return "[SPACE]"
		}
		if r != utf8.RuneError && unicode.IsGraphic(r) {
			return ev.Identifier
		}
	}
	if tok, ok := specialTokens[strings.ToLower(ev.Identifier)]; ok {
		return tok
	}
	return "[KEY_" + sanitizeIdentifier(ev.Identifier) + "]"
}

// sanitizeIdentifier uppercases the raw identifier and squashes anything
// that would break the one-token-per-line format.
func sanitizeIdentifier(id string) string {
	if id == "" {
		return "UNKNOWN"
	}
	var b strings.Builder
	for _, r := range id {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case unicode.IsControl(r) || r == utf8.RuneError:
			b.WriteRune('?')
		default:
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
