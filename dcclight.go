/*
	package dcclight implements the configuration and light-rendering core of a
	DCC mobile function decoder.

The package maps a small bank of persistent configuration variables and the
live locomotive state (speed, direction, active functions) onto gamma-corrected
brightness values for four lighting outputs, and implements the CV access
protocol (verify byte, write byte, bit manipulation) used by a programming
track or a program-on-main command.

Decoding the track-side DCC bitstream, driving the PWM hardware and shaping
the acknowledgment current pulse are collaborator concerns: the host firmware
calls into [Decoder] with already-decoded commands and reads brightness back
out of it once per control-loop iteration.

# Glossary

  - CV: Configuration Variable. A numbered persistent configuration byte.
  - Service mode: programming mode on a dedicated track. A successful verify
    or write is answered with a basic acknowledgment pulse.
  - PoM: Program on Main. CV access during normal operation. No local
    acknowledgment pulse is produced.
  - Function group: bitfield carrying the on/off state of a contiguous range
    of locomotive functions (F0..F28).
  - Gamma correction: lookup table converting a linear brightness value into
    a perceptually linear PWM duty value.

# CV Map

	CV1     Primary Address
	CV7     Manufacturer Version Number (read-only)
	CV8     Manufacturer ID Number (writing 8 triggers a factory reset)
	CV29    Mode Control

	CV50+10n  Light n Brightness (0..255)
	CV51+10n  Light n Control Function (0..28, 31 = always on)
	CV52+10n  Light n Direction Sensitivity (0 both, 1 forward, 2 reverse)
	CV53+10n  Light n Speed Sensitivity (0 always, 1 only when moving)
	CV54+10n  Light n Effect (0 steady, 1 strobe, 2 rotating flash)
*/
package dcclight

import "sync"

// Exception represents a CV bank access result. The zero value means success.
// Exceptions stay plain numeric codes rather than wrapped errors so that bank
// access never allocates on a microcontroller.
type Exception uint8

const (
	ExceptionNone Exception = iota
	// ExceptionIllegalAddr is returned on access to a CV outside the bank.
	ExceptionIllegalAddr
	// ExceptionReadOnlyCV is returned on a write to a read-only CV.
	ExceptionReadOnlyCV
)

func (e Exception) Error() (s string) {
	switch e {
	case ExceptionNone:
		s = "no exception"
	case ExceptionIllegalAddr:
		s = "CV address outside bank"
	case ExceptionReadOnlyCV:
		s = "CV is read-only"
	default:
		s = "unknown exception"
	}
	return s
}

// Store is the byte-addressable non-volatile memory that backs the CV bank.
// Addresses 0..NumCVs-1 hold the CVs; the StoreSize-NumCVs bytes that follow
// are reserved for the optional function-state backup region.
//
// Store I/O is modeled as infallible: the decoder has no error channel back to
// the programmer beyond withholding an acknowledgment, so a store
// implementation must absorb its own failures.
type Store interface {
	// ReadByte returns the byte stored at addr.
	ReadByte(addr uint8) uint8
	// WriteByte stores value at addr.
	WriteByte(addr, value uint8)
}

// StoreSize is the number of bytes of non-volatile memory the decoder uses:
// the CV bank followed by the function-state backup region.
const StoreSize = NumCVs + functionBackupLen

// MemStore is a memory-backed Store implementation. It is the default store
// of a [Decoder] and doubles as the EEPROM stand-in on host builds.
// A non-nil MemStore is ready for use after being declared.
type MemStore struct {
	mem [StoreSize]byte
}

var _ Store = &MemStore{}

func (m *MemStore) ReadByte(addr uint8) uint8 {
	if int(addr) >= len(m.mem) {
		return 0
	}
	return m.mem[addr]
}

func (m *MemStore) WriteByte(addr, value uint8) {
	if int(addr) >= len(m.mem) {
		return
	}
	m.mem[addr] = value
}

// ConcurrencySafeStore returns a Store that is safe for concurrent use
// from an existing store. Use it when the host delivers decoded commands
// from a different goroutine than the render loop.
func ConcurrencySafeStore(s Store) Store {
	if s == nil {
		panic("nil Store")
	}
	return &lockedStore{s: s}
}

type lockedStore struct {
	mu sync.Mutex
	s  Store
}

func (l *lockedStore) ReadByte(addr uint8) uint8 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.ReadByte(addr)
}

func (l *lockedStore) WriteByte(addr, value uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.s.WriteByte(addr, value)
}
