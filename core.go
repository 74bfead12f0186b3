// Package gbcore is a Game Boy / Game Boy Color emulation core: cartridge
// loading, the Sharp LR35902 CPU, the PPU's LCD state machine and
// scanline renderer, and the bus tying them together with the timer,
// joypad, and serial port. It deliberately stops at the core: no audio
// synthesis, no link-cable transport, no windowing, no debugger.
package gbcore

import (
	"bytes"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/8bitlab/gbcore/internal/cartridge"
	"github.com/8bitlab/gbcore/internal/joypad"
	"github.com/8bitlab/gbcore/internal/motherboard"
	"github.com/8bitlab/gbcore/internal/state"
)

// FrameStatus reports the outcome of a TickFrame call.
type FrameStatus int

const (
	// Ok means a full frame was rendered normally.
	Ok FrameStatus = iota
	// Stopped means the CPU halted with no interrupt source that could
	// ever wake it again; the core will never produce another frame.
	Stopped
)

const (
	saveStateMagic   = "PYBOY"
	saveStateVersion = 1
)

// Core is the public handle onto a running emulator instance.
type Core struct {
	mb   *motherboard.Motherboard
	opts *Options
}

// New parses romBytes as a cartridge image and constructs a Core ready to
// run from its post-boot power-on state (or from boot-ROM entry, if
// WithBootROM was given).
func New(romBytes []byte, opts ...Option) (*Core, error) {
	o := newOptions(opts)

	cart, err := cartridge.New(romBytes, cartridge.WithInitialRAM(o.saveRAM))
	if err != nil {
		return nil, errors.Wrap(err, "gbcore: loading cartridge")
	}

	cgb := o.forceCGB || cart.Header().IsCGB()
	mb := motherboard.New(cart, cgb)
	mb.Bus.Log = o.logger

	if o.dmgPalette != nil {
		mb.Bus.PPU.SetDMGPalette(*o.dmgPalette)
	}
	if cgb && o.cgbColourise != nil {
		mb.Bus.PPU.SetCGBColourisation(o.cgbColourise.bg, o.cgbColourise.obj0, o.cgbColourise.obj1)
	}

	if o.randomize {
		randomizeMemory(mb)
	}

	if len(o.bootROM) > 0 {
		mb.Bus.SetBootROM(o.bootROM)
		mb.CPU.PC = 0
		mb.CPU.SP = 0xFFFE
	} else {
		initializePostBootState(mb, cgb)
	}

	return &Core{mb: mb, opts: o}, nil
}

// initializePostBootState seeds CPU registers and the handful of IO
// registers the boot ROM would otherwise have left behind, so a core
// started without WithBootROM begins exactly where hardware boot ends.
func initializePostBootState(mb *motherboard.Motherboard, cgb bool) {
	mb.CPU.PC = 0x100
	mb.CPU.SP = 0xFFFE
	if cgb {
		mb.CPU.A, mb.CPU.F = 0x11, 0x80
		mb.CPU.B, mb.CPU.C = 0x00, 0x00
		mb.CPU.D, mb.CPU.E = 0xFF, 0x56
		mb.CPU.H, mb.CPU.L = 0x00, 0x0D
	} else {
		mb.CPU.A, mb.CPU.F = 0x01, 0xB0
		mb.CPU.B, mb.CPU.C = 0x00, 0x13
		mb.CPU.D, mb.CPU.E = 0x00, 0xD8
		mb.CPU.H, mb.CPU.L = 0x01, 0x4D
	}

	for addr, val := range postBootIORegisters {
		mb.Bus.Write(addr, val)
	}
}

// postBootIORegisters mirrors the values the DMG/CGB boot ROM leaves in
// the IO register window, excluding sound (out of scope) and registers
// the PPU/timer already default to on construction.
var postBootIORegisters = map[uint16]uint8{
	0xFF05: 0x00, // TIMA
	0xFF06: 0x00, // TMA
	0xFF07: 0x00, // TAC
	0xFF40: 0x91, // LCDC
	0xFF42: 0x00, // SCY
	0xFF43: 0x00, // SCX
	0xFF45: 0x00, // LYC
	0xFF47: 0xFC, // BGP
	0xFF48: 0xFF, // OBP0
	0xFF49: 0xFF, // OBP1
	0xFF4A: 0x00, // WY
	0xFF4B: 0x00, // WX
}

func randomizeMemory(mb *motherboard.Motherboard) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	mb.Bus.WRAM.Randomize(r)
	mb.Bus.HRAM.Randomize(r)
	mb.Bus.PPU.Randomize(r)
}

// TickFrame runs the core until the PPU completes one frame.
func (c *Core) TickFrame() FrameStatus {
	if !c.mb.TickFrame() {
		return Stopped
	}
	return Ok
}

// ButtonPress reports a button being held down.
func (c *Core) ButtonPress(b joypad.Button) { c.mb.Bus.Joypad.Press(b) }

// ButtonRelease reports a button being released.
func (c *Core) ButtonRelease(b joypad.Button) { c.mb.Bus.Joypad.Release(b) }

// ReadScreen returns a read-only view of the current frame buffer, packed
// BGRA32 (blue in the low byte), 160x144 pixels row-major.
func (c *Core) ReadScreen() *[160 * 144]uint32 {
	var out [160 * 144]uint32
	for y := 0; y < 144; y++ {
		for x := 0; x < 160; x++ {
			rgb := c.mb.Bus.PPU.ResolveColour(x, y)
			out[y*160+x] = uint32(rgb[0])<<16 | uint32(rgb[1])<<8 | uint32(rgb[2]) | 0xFF000000
		}
	}
	return &out
}

// SaveState writes a complete save state: a 5-byte magic, a version byte,
// then every stateful component in a fixed order (cartridge RAM/RTC, CPU
// registers and interrupt fabric, RAM banks, the full PPU, then the
// peripherals this core adds beyond the distilled component list, and
// finally the frame counter).
func (c *Core) SaveState(w io.Writer) error {
	s := state.New()
	c.mb.Save(s)

	if _, err := w.Write([]byte(saveStateMagic)); err != nil {
		return errors.Wrap(err, "gbcore: writing save-state magic")
	}
	if _, err := w.Write([]byte{saveStateVersion}); err != nil {
		return errors.Wrap(err, "gbcore: writing save-state version")
	}
	if _, err := w.Write(s.Bytes()); err != nil {
		return errors.Wrap(err, "gbcore: writing save-state body")
	}
	return nil
}

// LoadState restores a save state written by SaveState, rejecting streams
// with the wrong magic or an unsupported version.
func (c *Core) LoadState(r io.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return errors.Wrap(err, "gbcore: reading save-state stream")
	}
	raw := buf.Bytes()
	if len(raw) < len(saveStateMagic)+1 || string(raw[:len(saveStateMagic)]) != saveStateMagic {
		return errors.New("gbcore: not a gbcore save state (bad magic)")
	}
	version := raw[len(saveStateMagic)]
	if version != saveStateVersion {
		return errors.Errorf("gbcore: unsupported save-state version %d", version)
	}

	s := state.FromBytes(raw[len(saveStateMagic)+1:])
	c.mb.Load(s)
	return nil
}

// Stop halts the core and, if save is true and the cartridge has a
// battery, persists its SRAM to a file named after the cartridge's content
// hash in the current directory. The file holds the RAM bytes only; an
// MBC3 real-time clock is not written to it. The write
// goes through a temp file and an atomic rename so a crash mid-write
// never leaves a truncated save behind.
func (c *Core) Stop(save bool) error {
	if !save || !c.mb.Bus.Cart.HasBattery() {
		return nil
	}

	data := c.mb.Bus.Cart.SaveRAM()
	path := c.mb.Bus.Cart.Filename() + ".sav"

	tmp, err := os.CreateTemp(".", c.mb.Bus.Cart.Filename()+".sav.*")
	if err != nil {
		return errors.Wrap(err, "gbcore: creating save-RAM temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "gbcore: writing save-RAM temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "gbcore: closing save-RAM temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "gbcore: renaming save-RAM into place")
	}
	return nil
}

// SaveRAM returns the cartridge's current battery-backed SRAM contents, or
// nil if the cartridge has no battery. The MBC3 real-time clock registers
// are not included; they are carried in SaveState only.
func (c *Core) SaveRAM() []byte {
	if !c.mb.Bus.Cart.HasBattery() {
		return nil
	}
	return c.mb.Bus.Cart.SaveRAM()
}

// CPUStuck reports whether some executed instruction left PC and SP both
// unchanged (PyBoy's is_stuck), or an illegal opcode was executed - a
// diagnostic surface for headless runners
// and crash reports. It fires on any self-jump idle loop exactly as it
// would on a genuine infinite loop, and never stops TickFrame by itself;
// TickFrame's FrameStatus is the authoritative signal for that.
func (c *Core) CPUStuck() bool { return c.mb.CPU.CPUStuck() }

// DumpCPUState returns a human-readable snapshot of CPU registers, for
// diagnostics and crash reports.
func (c *Core) DumpCPUState() string { return c.mb.CPU.DumpCPUState() }

// SerialOutput returns the last byte shifted out over the serial port, the
// channel test ROMs commonly use to report pass/fail status without a
// connected peer.
func (c *Core) SerialOutput() uint8 { return c.mb.Bus.Serial.Output() }
