package sim

// HD44780 instruction groups.
const (
	lcdClear      byte = 0x01
	lcdDisplayCtl byte = 0x08
	lcdFunction   byte = 0x20
	lcdSetDDRAM   byte = 0x80
	lcdDisplayOn  byte = 0x04
	lcdRowOffset       = 0x40
	lcdWidth           = 16
	lcdRows            = 2
)

// LCD models the display data RAM of a two-line character display.
type LCD struct {
	ddram    [0x80]byte
	cursor   int
	on       bool
	function byte
}

func (d *LCD) init() {
	for i := range d.ddram {
		d.ddram[i] = ' '
	}
}

func (d *LCD) instruction(v byte) {
	switch {
	case v&lcdSetDDRAM != 0:
		d.cursor = int(v &^ lcdSetDDRAM)
	case v&lcdFunction != 0:
		d.function = v
	case v&lcdDisplayCtl != 0:
		d.on = v&lcdDisplayOn != 0
	case v == lcdClear:
		d.init()
		d.cursor = 0
	}
}

func (d *LCD) data(v byte) {
	d.ddram[d.cursor%len(d.ddram)] = v
	d.cursor = (d.cursor + 1) % len(d.ddram)
}

func (d *LCD) status() byte {
	// busy flag never set
	return byte(d.cursor) & 0x7f
}

func (d *LCD) line(row int) string {
	if row < 0 || row >= lcdRows {
		return ""
	}
	start := row * lcdRowOffset
	return string(d.ddram[start : start+lcdWidth])
}
