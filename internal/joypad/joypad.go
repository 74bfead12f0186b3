// Package joypad translates external button events into the P1 (0xFF00)
// register and raises the joypad interrupt on a 1->0 transition of a
// selected line.
package joypad

import (
	"github.com/8bitlab/gbcore/internal/interrupts"
	"github.com/8bitlab/gbcore/internal/state"
	"github.com/8bitlab/gbcore/pkg/bits"
)

// Button is a physical button on the handheld.
type Button = uint8

const (
	ButtonA      Button = 0x01
	ButtonB      Button = 0x02
	ButtonSelect Button = 0x04
	ButtonStart  Button = 0x08
	ButtonRight  Button = 0x10
	ButtonLeft   Button = 0x20
	ButtonUp     Button = 0x40
	ButtonDown   Button = 0x80
)

// Controller tracks which buttons are held and the selection written to P1.
type Controller struct {
	register uint8 // the two select bits the game last wrote
	held     Button

	irq *interrupts.Service
}

func New(irq *interrupts.Service) *Controller {
	return &Controller{register: 0x3F, irq: irq}
}

// Read returns the current value of P1 given the game's nibble selection.
func (c *Controller) Read() uint8 {
	if c.register&0x10 == 0 {
		return c.register & ^(c.held >> 4)
	}
	if c.register&0x20 == 0 {
		return c.register & ^(c.held & 0x0F)
	}
	return c.register | 0x0F
}

// Write updates the nibble-select bits (4,5) of P1.
func (c *Controller) Write(value uint8) {
	c.register = (c.register & 0xCF) | (value & 0x30)
}

// Press marks a button held, requesting the joypad interrupt on a
// previously-unset, currently-selected line.
func (c *Controller) Press(key Button) {
	alreadyHeld := bits.Test(c.held, buttonBit(key))
	c.held |= key

	listening := key <= ButtonStart && !bits.Test(c.register, 5) ||
		key > ButtonStart && !bits.Test(c.register, 4)

	if !alreadyHeld && listening {
		c.irq.Request(interrupts.JoypadFlag)
	}
}

// Release marks a button no longer held.
func (c *Controller) Release(key Button) {
	c.held &^= key
}

// buttonBit returns the bit index of a Button constant for bits.Test.
func buttonBit(key Button) uint8 {
	i := uint8(0)
	for key > 1 {
		key >>= 1
		i++
	}
	return i
}

var _ state.Stater = (*Controller)(nil)

func (c *Controller) Save(s *state.State) {
	s.Write8(c.register)
	s.Write8(c.held)
}

func (c *Controller) Load(s *state.State) {
	c.register = s.Read8()
	c.held = s.Read8()
}
