package gbcore

import "github.com/8bitlab/gbcore/pkg/log"

// Options collects the construction-time choices New accepts. Built up via
// the functional-options pattern rather than a public struct literal, so
// new fields can be added without breaking existing callers.
type Options struct {
	forceCGB       bool
	randomize      bool
	dmgPalette     *[4][3]uint8
	cgbColourise   *cgbColourisation
	bootROM        []byte
	logger         log.Logger
	saveRAM        []byte
}

type cgbColourisation struct {
	bg, obj0, obj1 [4][3]uint8
}

// Option configures a Core at construction time.
type Option func(*Options)

func newOptions(opts []Option) *Options {
	o := &Options{logger: log.NewNullLogger()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCGBForced runs the core in Game Boy Color mode even if the
// cartridge header doesn't request CGB features.
func WithCGBForced() Option {
	return func(o *Options) { o.forceCGB = true }
}

// WithRandomize fills work RAM, VRAM, and OAM with pseudo-random bytes
// instead of zeroes at power-on, matching the indeterminate state real
// hardware powers up with and surfacing bugs that depend on zeroed memory.
func WithRandomize() Option {
	return func(o *Options) { o.randomize = true }
}

// WithDMGPalette overrides the four grayscale shades used to render
// output on a non-CGB core, e.g. to reproduce the classic green palette.
func WithDMGPalette(ramp [4][3]uint8) Option {
	return func(o *Options) { o.dmgPalette = &ramp }
}

// WithCGBColourisationPalette seeds the CGB's "tinted DMG" colourisation
// palette (background, then the two object palettes) for cartridges that
// don't request CGB features themselves. Has no effect unless the core
// ends up running in CGB mode.
func WithCGBColourisationPalette(bg, obj0, obj1 [4][3]uint8) Option {
	return func(o *Options) { o.cgbColourise = &cgbColourisation{bg, obj0, obj1} }
}

// WithBootROM supplies a boot ROM image to execute before the cartridge's
// own entry point runs, instead of the core jumping straight to the
// post-boot register state. Not required: booting straight to 0x0100 with
// power-on register values is the default and sufficient for ordinary
// emulation.
func WithBootROM(rom []byte) Option {
	return func(o *Options) { o.bootROM = rom }
}

// WithLogger supplies the logger the core stores on its bus (mmu.Bus.Log);
// no component writes to it. Defaults to a logger that discards everything.
func WithLogger(l log.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithSaveRAM preloads the cartridge's battery-backed SRAM from a prior
// session, the counterpart to Stop(true)'s output. Only RAM bytes are
// restored; the MBC3 clock is not part of the image.
func WithSaveRAM(data []byte) Option {
	return func(o *Options) { o.saveRAM = data }
}
