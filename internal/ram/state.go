package ram

import (
	"math/rand"

	"github.com/8bitlab/gbcore/internal/state"
)

func (w *WorkRAM) Save(s *state.State) {
	for _, b := range w.banks {
		s.WriteData(b)
	}
	s.Write8(w.svbk)
}

func (w *WorkRAM) Load(s *state.State) {
	for i := range w.banks {
		s.ReadData(w.banks[i])
	}
	w.svbk = s.Read8()
}

// HRAM is the 127-byte high RAM region at 0xFF80-0xFFFE.
type HRAM struct {
	data Bank
}

func NewHRAM() *HRAM {
	return &HRAM{data: NewBank(0x7F)}
}

func (h *HRAM) Read(address uint16) uint8     { return h.data.Read(address - 0xFF80) }
func (h *HRAM) Write(address uint16, v uint8) { h.data.Write(address-0xFF80, v) }
func (h *HRAM) Randomize(r *rand.Rand)        { h.data.Randomize(r) }

func (h *HRAM) Save(s *state.State) { s.WriteData(h.data) }
func (h *HRAM) Load(s *state.State) { s.ReadData(h.data) }
