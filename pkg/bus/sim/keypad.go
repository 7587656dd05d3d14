package sim

// Position addresses a key in the matrix.
type Position struct {
	Row int
	Col int
}

// Keypad is a diode matrix. The driver selects a column by writing its
// mask; every pressed key in that column clears its row bit on read.
//
// Presses come from a queue. A press starts on the first column sweep
// after the previous one ended and lasts hold sweeps; a sweep begins
// whenever the first column is selected.
type Keypad struct {
	columns []byte
	rows    []byte
	hold    int

	column byte
	queue  []Position
	active *Position
	left   int
}

func (k *Keypad) init(columns, rows []byte) {
	k.columns = append([]byte(nil), columns...)
	k.rows = append([]byte(nil), rows...)
	k.hold = 2
}

func (k *Keypad) selectColumn(mask byte) {
	k.column = mask
	if len(k.columns) > 0 && mask == k.columns[0] {
		k.sweep()
	}
}

func (k *Keypad) sweep() {
	if k.left == 0 {
		k.active = nil
		if len(k.queue) > 0 {
			pos := k.queue[0]
			k.queue = k.queue[1:]
			k.active, k.left = &pos, k.hold
		}
	}
	if k.left > 0 {
		k.left--
	}
}

func (k *Keypad) rowBits() byte {
	bits := byte(0xff)
	p := k.active
	if p == nil || p.Col < 0 || p.Col >= len(k.columns) || p.Row < 0 || p.Row >= len(k.rows) {
		return bits
	}
	if k.columns[p.Col] == k.column {
		bits &^= k.rows[p.Row]
	}
	return bits
}
