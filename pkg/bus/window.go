package bus

// Window is a block of byte-addressable hardware registers.
// Offsets are relative to the start of the window.
type Window interface {
	// Len returns the size of the window in bytes.
	Len() int
	// Load reads the register at off.
	Load(off int) byte
	// Store writes v to the register at off.
	Store(off int, v byte)
}

// MemWindow is a Window over mapped memory.
//
// Load and Store are never inlined: consecutive stores to the Control
// register are distinct bus events and must all reach the device.
type MemWindow []byte

// Len implements Window.
func (w MemWindow) Len() int {
	return len(w)
}

// Load implements Window.
//
//go:noinline
func (w MemWindow) Load(off int) byte {
	return w[off]
}

// Store implements Window.
//
//go:noinline
func (w MemWindow) Store(off int, v byte) {
	w[off] = v
}
