package cpu

// executeCB decodes a CB-prefixed opcode: bits 6-7 select the operation
// group (rotate/shift family, BIT, RES, SET), bits 3-5 the bit index or
// rotate-family member, and bits 0-2 the r8 operand.
func (c *CPU) executeCB(op uint8) {
	reg := op & 0x07
	v := c.r8(reg)

	switch op >> 6 {
	case 0x01: // BIT n,r
		c.bit(v, (op>>3)&0x07)
		return
	case 0x02: // RES n,r
		c.setR8(reg, c.res(v, (op>>3)&0x07))
		return
	case 0x03: // SET n,r
		c.setR8(reg, c.set(v, (op>>3)&0x07))
		return
	}

	// rotate/shift family (bits 6-7 == 0)
	switch (op >> 3) & 0x07 {
	case 0:
		c.setR8(reg, c.rlc(v))
	case 1:
		c.setR8(reg, c.rrc(v))
	case 2:
		c.setR8(reg, c.rl(v))
	case 3:
		c.setR8(reg, c.rr(v))
	case 4:
		c.setR8(reg, c.sla(v))
	case 5:
		c.setR8(reg, c.sra(v))
	case 6:
		c.setR8(reg, c.swap(v))
	case 7:
		c.setR8(reg, c.srl(v))
	}
}
