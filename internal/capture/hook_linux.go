//go:build linux

package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/astny1/PRODIGY-CS-04/internal/key"
)

// evdev input_event constants and layout (64-bit userspace):
// 8 bytes tv_sec, 8 bytes tv_usec, 2 bytes type, 2 bytes code, 4 bytes value.
const (
	inputEventSize = 24
	evKey          = 0x01
	keyDown        = 1
)

// Shift keycodes, tracked so letter and symbol keys log with case.
const (
	codeLeftShift  = 42
	codeRightShift = 54
)

// evdevListener reads key-down events from a /dev/input keyboard device.
type evdevListener struct {
	f         *os.File
	closeOnce sync.Once
	closeErr  error
}

// newPlatformListener opens the configured or first discovered keyboard
// device. Missing devices or denied read permission surface as
// ErrUnavailable so the caller can stay in in-app mode.
func newPlatformListener(device string) (Listener, error) {
	path := device
	if path == "" {
		var err error
		path, err = discoverKeyboard()
		if err != nil {
			return nil, err
		}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return nil, fmt.Errorf("%w: no read permission on %s (add your user to the input group): %v",
			ErrUnavailable, path, err)
	}
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrUnavailable, path, err)
	}
	return &evdevListener{f: f}, nil
}

// discoverKeyboard locates a keyboard event device. The by-path and by-id
// trees carry an explicit -event-kbd suffix for keyboards, which avoids
// parsing /proc/bus/input/devices.
func discoverKeyboard() (string, error) {
	for _, pattern := range []string{
		"/dev/input/by-path/*-event-kbd",
		"/dev/input/by-id/*-event-kbd",
	} {
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		return matches[0], nil
	}
	return "", fmt.Errorf("%w: no keyboard device found under /dev/input", ErrUnavailable)
}

// Listen decodes input events until stop is closed or the device goes away.
// Only key-down events are emitted; key-up is used solely to track the
// shift modifier.
func (l *evdevListener) Listen(stop <-chan struct{}, emit func(key.Event)) error {
	// Closing the device from a watcher goroutine unblocks the pending read.
	go func() {
		<-stop
		l.Close()
	}()

	var (
		buf       [inputEventSize]byte
		shiftHeld bool
	)
	for {
		if _, err := io.ReadFull(l.f, buf[:]); err != nil {
			select {
			case <-stop:
				return nil
			default:
			}
			if errors.Is(err, os.ErrClosed) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading input device: %w", err)
		}

		typ := binary.LittleEndian.Uint16(buf[16:18])
		code := binary.LittleEndian.Uint16(buf[18:20])
		value := int32(binary.LittleEndian.Uint32(buf[20:24]))
		if typ != evKey {
			continue
		}

		if code == codeLeftShift || code == codeRightShift {
			shiftHeld = value != 0
			if value != keyDown {
				continue
			}
		} else if value != keyDown {
			continue
		}

		emit(key.Event{
			Identifier: identifierFor(code, shiftHeld),
			Source:     key.SourceGlobal,
			Time:       time.Now(),
		})
	}
}

// Close releases the device. Safe to call from the stop watcher and from
// Deactivate concurrently.
func (l *evdevListener) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.f.Close()
	})
	return l.closeErr
}

// keycodeEntry holds the unshifted and shifted identifier for one keycode.
type keycodeEntry struct {
	base    string
	shifted string
}

// keycodeTable maps Linux KEY_* codes to semantic identifiers. Printable
// keys carry both a base and a shifted character; special keys use the
// normalizer's vocabulary and ignore shift.
var keycodeTable = map[uint16]keycodeEntry{
	1:   {"esc", ""},
	2:   {"1", "!"},
	3:   {"2", "@"},
	4:   {"3", "#"},
	5:   {"4", "$"},
	6:   {"5", "%"},
	7:   {"6", "^"},
	8:   {"7", "&"},
	9:   {"8", "*"},
	10:  {"9", "("},
	11:  {"0", ")"},
	12:  {"-", "_"},
	13:  {"=", "+"},
	14:  {"backspace", ""},
	15:  {"tab", ""},
	16:  {"q", "Q"},
	17:  {"w", "W"},
	18:  {"e", "E"},
	19:  {"r", "R"},
	20:  {"t", "T"},
	21:  {"y", "Y"},
	22:  {"u", "U"},
	23:  {"i", "I"},
	24:  {"o", "O"},
	25:  {"p", "P"},
	26:  {"[", "{"},
	27:  {"]", "}"},
	28:  {"enter", ""},
	29:  {"ctrl", ""},
	30:  {"a", "A"},
	31:  {"s", "S"},
	32:  {"d", "D"},
	33:  {"f", "F"},
	34:  {"g", "G"},
	35:  {"h", "H"},
	36:  {"j", "J"},
	37:  {"k", "K"},
	38:  {"l", "L"},
	39:  {";", ":"},
	40:  {"'", "\""},
	41:  {"`", "~"},
	42:  {"shift", ""},
	43:  {"\\", "|"},
	44:  {"z", "Z"},
	45:  {"x", "X"},
	46:  {"c", "C"},
	47:  {"v", "V"},
	48:  {"b", "B"},
	49:  {"n", "N"},
	50:  {"m", "M"},
	51:  {",", "<"},
	52:  {".", ">"},
	53:  {"/", "?"},
	54:  {"shift", ""},
	56:  {"alt", ""},
	57:  {"space", ""},
	58:  {"capslock", ""},
	59:  {"f1", ""},
	60:  {"f2", ""},
	61:  {"f3", ""},
	62:  {"f4", ""},
	63:  {"f5", ""},
	64:  {"f6", ""},
	65:  {"f7", ""},
	66:  {"f8", ""},
	67:  {"f9", ""},
	68:  {"f10", ""},
	87:  {"f11", ""},
	88:  {"f12", ""},
	96:  {"enter", ""},
	97:  {"ctrl", ""},
	100: {"alt", ""},
	102: {"home", ""},
	103: {"up", ""},
	104: {"pgup", ""},
	105: {"left", ""},
	106: {"right", ""},
	107: {"end", ""},
	108: {"down", ""},
	109: {"pgdown", ""},
	110: {"insert", ""},
	111: {"delete", ""},
}

// identifierFor resolves a keycode to a normalizer identifier. Unknown
// codes keep the numeric code so the normalizer's fallback records them.
func identifierFor(code uint16, shift bool) string {
	entry, ok := keycodeTable[code]
	if !ok {
		return fmt.Sprintf("code_%d", code)
	}
	if shift && entry.shifted != "" {
		return entry.shifted
	}
	return entry.base
}
