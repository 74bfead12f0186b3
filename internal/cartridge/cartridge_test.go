package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeROM builds a minimal well-formed header at 0x100-0x14F inside an
// image large enough for the given cartridge type and bank counts.
func makeROM(cartType Type, romBanks, ramSizeByte int) []byte {
	rom := make([]byte, romBanks*0x4000)
	if len(rom) < 0x8000 {
		rom = make([]byte, 0x8000)
	}
	copy(rom[0x134:0x144], "TESTGAME")
	rom[0x147] = uint8(cartType)
	// ROM size byte: 32KiB << n banks
	n := 0
	for banks := 2; banks < romBanks; banks *= 2 {
		n++
	}
	rom[0x148] = uint8(n)
	rom[0x149] = uint8(ramSizeByte)
	return rom
}

func TestParseHeaderTitleAndType(t *testing.T) {
	rom := makeROM(MBC1, 4, 0x02)
	h, err := ParseHeader(rom[0x100:0x150])
	require.NoError(t, err)
	assert.Equal(t, "TESTGAME", h.Title)
	assert.Equal(t, MBC1, h.CartridgeType)
	assert.Equal(t, uint(8*1024), h.RAMSize)
}

func TestParseHeaderRejectsShortWindow(t *testing.T) {
	_, err := ParseHeader(make([]byte, 10))
	assert.Error(t, err)
}

func TestNewRejectsUndersizedImage(t *testing.T) {
	_, err := New(make([]byte, 0x10))
	assert.Error(t, err)
}

func TestROMOnlyReadWrite(t *testing.T) {
	rom := makeROM(ROMRAMBattery, 2, 0x02)
	c, err := New(rom)
	require.NoError(t, err)

	c.Write(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), c.Read(0xA000))
	assert.True(t, c.HasBattery())
}

func TestMBC1BankSwitchAndZeroPromotion(t *testing.T) {
	rom := makeROM(MBC1RAMBattery, 8, 0x02)
	// stamp bank 3 so we can tell it apart from bank 1
	rom[3*0x4000] = 0xAA
	c, err := New(rom)
	require.NoError(t, err)

	c.Write(0x2000, 0x03)
	assert.Equal(t, uint8(0xAA), c.Read(0x4000))

	// selecting bank 0 promotes to bank 1
	c.Write(0x2000, 0x00)
	assert.NotEqual(t, uint8(0xAA), c.Read(0x4000))
}

func TestMBC1RAMEnableGate(t *testing.T) {
	rom := makeROM(MBC1RAMBattery, 2, 0x02)
	c, err := New(rom)
	require.NoError(t, err)

	c.Write(0xA000, 0x55) // RAM disabled, write dropped
	assert.Equal(t, uint8(0xFF), c.Read(0xA000))

	c.Write(0x0000, 0x0A) // enable
	c.Write(0xA000, 0x55)
	assert.Equal(t, uint8(0x55), c.Read(0xA000))
}

func TestMBC2NibbleRAM(t *testing.T) {
	rom := makeROM(MBC2Battery, 2, 0x00)
	c, err := New(rom)
	require.NoError(t, err)

	c.Write(0x0000, 0x0A) // enable (bit8 clear)
	c.Write(0xA1FF, 0x3)
	assert.Equal(t, uint8(0xF3), c.Read(0xA1FF))
}

func TestMBC3RTCLatchAndTick(t *testing.T) {
	rom := makeROM(MBC3TimerBattery, 2, 0x00)
	c, err := New(rom)
	require.NoError(t, err)

	mbc3 := c.MemoryBankController.(*MBC3)
	mbc3.Tick(dmgClockHz * 61) // 61 seconds -> 1 minute, 1 second

	c.Write(0x6000, 0x00)
	c.Write(0x6000, 0x01)

	c.Write(0x0000, 0x0A) // enable RAM/RTC register access
	c.Write(0x4000, 0x08) // select seconds register
	assert.Equal(t, uint8(1), c.Read(0xA000))
	c.Write(0x4000, 0x09) // select minutes register
	assert.Equal(t, uint8(1), c.Read(0xA000))
}

func TestMBC5Bank0Selectable(t *testing.T) {
	rom := makeROM(MBC5RAMBattery, 4, 0x02)
	rom[0] = 0x11
	c, err := New(rom)
	require.NoError(t, err)

	c.Write(0x2000, 0x00)
	assert.Equal(t, uint8(0x11), c.Read(0x4000))
}

func TestCartridgeSaveLoadRoundTrip(t *testing.T) {
	rom := makeROM(MBC1RAMBattery, 4, 0x02)
	c, err := New(rom)
	require.NoError(t, err)
	c.Write(0x0000, 0x0A)
	c.Write(0xA000, 0x7E)

	data := c.SaveRAM()
	c2, err := New(rom)
	require.NoError(t, err)
	c2.LoadRAM(data)
	c2.Write(0x0000, 0x0A)
	assert.Equal(t, uint8(0x7E), c2.Read(0xA000))
}
