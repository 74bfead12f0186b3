package cartridge

// ROM is an immutable two-dimensional view over a cartridge image: banks[n]
// is a 16 KiB slice into the one contiguous backing array, so there is no
// aliasing between banks despite all of them sharing storage.
type ROM struct {
	banks [][]byte
}

// NewROM splits raw into 16 KiB banks, padding the final bank with 0xFF if
// the image is not an exact multiple of the bank size.
func NewROM(raw []byte) ROM {
	n := romBankCount(len(raw))
	padded := raw
	if len(raw) < n*0x4000 {
		padded = make([]byte, n*0x4000)
		copy(padded, raw)
		for i := len(raw); i < len(padded); i++ {
			padded[i] = 0xFF
		}
	}
	banks := make([][]byte, n)
	for i := 0; i < n; i++ {
		banks[i] = padded[i*0x4000 : (i+1)*0x4000]
	}
	return ROM{banks: banks}
}

func (r ROM) BankCount() int { return len(r.banks) }

// Read reads a byte from the given bank, offset modulo the bank count so an
// out-of-range selected bank wraps rather than panics.
func (r ROM) Read(bank int, offset uint16) uint8 {
	return r.banks[bank%len(r.banks)][offset]
}
