// Package state provides the byte-cursor used to serialize and restore the
// core's save-state stream. Every stateful component implements Stater and
// is responsible for writing and reading its own fields in a fixed order;
// the stream has no self-describing framing beyond the top-level magic and
// version.
package state

// Stater is implemented by any component that participates in save states.
type Stater interface {
	Save(*State)
	Load(*State)
}

// State is a growable write cursor / shrinking read cursor over a single
// byte slice. A save walks the component tree calling Write*, a load walks
// the same tree in the same order calling Read*.
type State struct {
	raw  []byte
	read int
}

// New returns an empty State ready for writing.
func New() *State {
	return &State{raw: make([]byte, 0, 4096)}
}

// FromBytes returns a State ready for reading back a previously saved
// stream.
func FromBytes(raw []byte) *State {
	return &State{raw: raw}
}

// Bytes returns the accumulated stream written so far.
func (s *State) Bytes() []byte {
	return s.raw
}

func (s *State) Write8(v uint8) {
	s.raw = append(s.raw, v)
}

func (s *State) Write16(v uint16) {
	s.raw = append(s.raw, byte(v), byte(v>>8))
}

func (s *State) Write32(v uint32) {
	s.raw = append(s.raw, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func (s *State) Write64(v uint64) {
	for i := 0; i < 8; i++ {
		s.raw = append(s.raw, byte(v>>(8*i)))
	}
}

func (s *State) WriteBool(v bool) {
	if v {
		s.raw = append(s.raw, 1)
	} else {
		s.raw = append(s.raw, 0)
	}
}

func (s *State) WriteData(data []byte) {
	s.raw = append(s.raw, data...)
}

func (s *State) Read8() uint8 {
	v := s.raw[s.read]
	s.read++
	return v
}

func (s *State) Read16() uint16 {
	v := uint16(s.raw[s.read]) | uint16(s.raw[s.read+1])<<8
	s.read += 2
	return v
}

func (s *State) Read32() uint32 {
	v := uint32(s.raw[s.read]) | uint32(s.raw[s.read+1])<<8 | uint32(s.raw[s.read+2])<<16 | uint32(s.raw[s.read+3])<<24
	s.read += 4
	return v
}

func (s *State) Read64() uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(s.raw[s.read+i]) << (8 * i)
	}
	s.read += 8
	return v
}

func (s *State) ReadBool() bool {
	v := s.raw[s.read] != 0
	s.read++
	return v
}

func (s *State) ReadData(p []byte) {
	copy(p, s.raw[s.read:])
	s.read += len(p)
}
