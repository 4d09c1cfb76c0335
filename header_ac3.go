package eac3

// ac3Info is the AC-3 bitstream information following acmod.
type ac3Info struct {
	cmixlev   uint32
	surmixlev uint32
	dsurmod   uint32

	dialnorm uint32
	compr    Optional
	langcod  Optional
	audprodi Optional // mixlevel and roomtyp

	dialnorm2 uint32
	compr2    Optional
	langcod2  Optional
	audprodi2 Optional

	copyrightb bool
	origbs     bool

	// timecod1 and timecod2, or xbsi1 and xbsi2 in the alternate bitstream
	// syntax. Both take 14 bits behind a flag.
	extra1 Optional
	extra2 Optional

	addbsi []byte
}

func (h *Header) decodeAC3(c *BitCursor) {
	info := &h.ac3
	*info = ac3Info{}
	h.channelMapping = Optional{}

	if h.ChannelMode&1 == 1 && h.ChannelMode != 1 {
		info.cmixlev = c.ReadBits(2)
	}
	if h.ChannelMode&4 == 4 {
		info.surmixlev = c.ReadBits(2)
	}
	if h.ChannelMode == 2 {
		info.dsurmod = c.ReadBits(2)
	}
	h.LFE = c.ReadBit()

	info.dialnorm = c.ReadBits(5)
	info.compr = c.ReadConditional(8)
	info.langcod = c.ReadConditional(8)
	info.audprodi = c.ReadConditional(7)
	if h.ChannelMode == 0 {
		info.dialnorm2 = c.ReadBits(5)
		info.compr2 = c.ReadConditional(8)
		info.langcod2 = c.ReadConditional(8)
		info.audprodi2 = c.ReadConditional(7)
	}

	info.copyrightb = c.ReadBit()
	info.origbs = c.ReadBit()
	info.extra1 = c.ReadConditional(14)
	info.extra2 = c.ReadConditional(14)

	if c.ReadBit() {
		info.addbsi = c.ReadBytes(int(c.ReadBits(6)) + 1)
	}
}

func (h *Header) encodeAC3(w *BitWriter) {
	info := &h.ac3

	if h.ChannelMode&1 == 1 && h.ChannelMode != 1 {
		w.WriteBits(info.cmixlev, 2)
	}
	if h.ChannelMode&4 == 4 {
		w.WriteBits(info.surmixlev, 2)
	}
	if h.ChannelMode == 2 {
		w.WriteBits(info.dsurmod, 2)
	}
	w.WriteBit(h.LFE)

	w.WriteBits(info.dialnorm, 5)
	w.WriteConditional(info.compr, 8)
	w.WriteConditional(info.langcod, 8)
	w.WriteConditional(info.audprodi, 7)
	if h.ChannelMode == 0 {
		w.WriteBits(info.dialnorm2, 5)
		w.WriteConditional(info.compr2, 8)
		w.WriteConditional(info.langcod2, 8)
		w.WriteConditional(info.audprodi2, 7)
	}

	w.WriteBit(info.copyrightb)
	w.WriteBit(info.origbs)
	w.WriteConditional(info.extra1, 14)
	w.WriteConditional(info.extra2, 14)

	w.WriteBit(info.addbsi != nil)
	if info.addbsi != nil {
		w.WriteBits(uint32(len(info.addbsi)-1), 6)
		w.WriteBytes(info.addbsi, len(info.addbsi))
	}
}
