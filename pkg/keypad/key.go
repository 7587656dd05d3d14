package keypad

import (
	"fmt"
	"sort"
)

// Key is a decoded key press.
type Key byte

// Keys
const (
	Blank  Key = ' '
	Enter  Key = 'e'
	Cancel Key = 'c'
	Exit   Key = 'x'
)

// IsDigit reports whether k is one of 0-9.
func (k Key) IsDigit() bool {
	return k >= '0' && k <= '9'
}

// String implements fmt.Stringer.
func (k Key) String() string {
	switch k {
	case Blank:
		return "blank"
	case Enter:
		return "enter"
	case Cancel:
		return "cancel"
	case Exit:
		return "exit"
	}
	if k.IsDigit() {
		return string(rune(k))
	}
	return fmt.Sprintf("key(%#02x)", byte(k))
}

// ParseKey parses the String form of a Key.
func ParseKey(s string) (Key, error) {
	switch s {
	case "enter", "e":
		return Enter, nil
	case "cancel", "c":
		return Cancel, nil
	case "exit", "x":
		return Exit, nil
	case "blank", " ":
		return Blank, nil
	}
	if len(s) == 1 && Key(s[0]).IsDigit() {
		return Key(s[0]), nil
	}
	return Blank, fmt.Errorf("unknown key %q", s)
}

// Map is the layout of a keypad matrix. Keys[r][c] is the key at row r
// and column c; Blank marks an unpopulated cell.
type Map struct {
	Name    string
	Columns []byte
	Rows    []byte
	Keys    [][]Key
}

// Validate checks the table dimensions.
func (m *Map) Validate() error {
	if len(m.Columns) == 0 || len(m.Rows) == 0 {
		return fmt.Errorf("keymap %q: no columns or rows", m.Name)
	}
	if len(m.Keys) > len(m.Rows) {
		return fmt.Errorf("keymap %q: %d key rows for %d row masks", m.Name, len(m.Keys), len(m.Rows))
	}
	for r, row := range m.Keys {
		if len(row) != len(m.Columns) {
			return fmt.Errorf("keymap %q: row %d has %d keys for %d columns", m.Name, r, len(row), len(m.Columns))
		}
	}
	for r, mask := range m.Rows {
		if mask == 0 {
			return fmt.Errorf("keymap %q: row %d has an empty mask", m.Name, r)
		}
	}
	return nil
}

// At returns the key at row r and column c, Blank if unpopulated.
func (m *Map) At(r, c int) Key {
	if r < 0 || r >= len(m.Keys) || c < 0 || c >= len(m.Keys[r]) {
		return Blank
	}
	return m.Keys[r][c]
}

// Locate finds the matrix position of k.
func (m *Map) Locate(k Key) (row, col int, ok bool) {
	for r, keys := range m.Keys {
		for c, key := range keys {
			if key == k {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

var (
	columnMasks = []byte{0x0b, 0x0d, 0x0e}
	rowMasks    = []byte{0x01, 0x02, 0x04, 0x08, 0x10}
)

// Maps are the known keypads.
var Maps = map[string]Map{
	"gate": {
		Name:    "gate",
		Columns: columnMasks,
		Rows:    rowMasks[:4],
		Keys: [][]Key{
			{'7', '8', '9'},
			{'4', '5', '6'},
			{'1', '2', '3'},
			{Enter, Exit, Cancel},
		},
	},
	// legacy: the five-row membrane of the older card. The fifth row
	// is wired but unpopulated; X exits and M confirms.
	"legacy": {
		Name:    "legacy",
		Columns: columnMasks,
		Rows:    rowMasks,
		Keys: [][]Key{
			{'1', '5', '8'},
			{'2', '6', Blank},
			{'3', '7', Blank},
			{'4', Exit, Enter},
		},
	},
}

// DefaultMap is the keypad used when none is selected.
const DefaultMap = "gate"

// Lookup finds a known keymap by name.
func Lookup(name string) (Map, error) {
	m, ok := Maps[name]
	if !ok {
		return Map{}, fmt.Errorf("unknown keymap %q (known: %v)", name, MapNames())
	}
	return m, nil
}

// MapNames lists known keymaps in sorted order.
func MapNames() []string {
	names := make([]string, 0, len(Maps))
	for name := range Maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
