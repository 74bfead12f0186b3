package serial

import (
	"testing"

	"github.com/8bitlab/gbcore/internal/interrupts"
)

func TestTransferCompletesAndFiresInterrupt(t *testing.T) {
	irq := interrupts.NewService()
	c := NewController(irq)
	c.Write(0xFF01, 0x42)
	c.Write(0xFF02, 0x81)

	c.Tick(transferCycles)

	if c.Output() != 0x42 {
		t.Errorf("Output() = 0x%02X, want 0x42", c.Output())
	}
	if c.Read(0xFF01) != 0xFF {
		t.Errorf("SB after transfer = 0x%02X, want 0xFF (floating line)", c.Read(0xFF01))
	}
	if irq.Flag&(1<<interrupts.SerialFlag) == 0 {
		t.Error("expected serial interrupt to be requested")
	}
}
