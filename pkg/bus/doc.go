// Package bus drives the peripheral bus of the gate terminal card.
//
// The card exposes a window of memory-mapped registers. Four of them
// matter: Control, Address-select, Data-out and Data-in. A byte is moved
// to or from a peripheral on the card by selecting its bus address,
// presenting or sampling data and pulsing the read or write strobe while
// chip-select is held. The bus has no acknowledge line, so nothing here
// can detect a failed transfer; correctness relies on ordering and on the
// settle delays of the selected Layout.
//
// Strobe sequence, write:
//
//	ADDR, DATA_OUT, WR, WR|CS, hold, WR, idle
//
// Strobe sequence, read:
//
//	ADDR, RD, RD|CS, hold, sample DATA_IN, RD, idle
//
// Chip-select is always released before the strobe.
package bus
