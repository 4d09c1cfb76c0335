package eac3

// eac3Info is the E-AC-3 bitstream information following bsid.
// Packed groups of fields that are only carried over are kept as one value.
type eac3Info struct {
	dialnorm  uint32
	compr     Optional
	dialnorm2 uint32
	compr2    Optional

	mixing      *eac3Mixing
	information *eac3Information

	convsync bool
	blkid    bool

	addbsi []byte
}

// eac3Mixing is the mixing metadata (mixmdate).
type eac3Mixing struct {
	dmixmod       uint32
	ltrtcmixlev   uint32 // with lorocmixlev
	ltrtsurmixlev uint32 // with lorosurmixlev
	lfemixlevcod  Optional

	// Independent substreams only
	pgmscl    Optional
	pgmscl2   Optional
	extpgmscl Optional
	mixdef    uint32
	mixdata   uint32
	mixdata4  []byte
	paninfo   Optional // panmean and paninfo
	paninfo2  Optional
	mixcfg    bool
	blkmixcfg []Optional
}

// eac3Information is the informational metadata (infomdate).
type eac3Information struct {
	copyrightb  bool
	origbs      bool
	dsurmod     uint32 // with dheadphonmod
	dsurexmod   uint32
	audprodi    Optional // mixlevel, roomtyp and adconvtyp
	audprodi2   Optional
	sourcefscod bool
}

func (h *Header) decodeEAC3(c *BitCursor) {
	info := &h.eac3
	*info = eac3Info{}

	info.dialnorm = c.ReadBits(5)
	info.compr = c.ReadConditional(8)
	if h.ChannelMode == 0 {
		info.dialnorm2 = c.ReadBits(5)
		info.compr2 = c.ReadConditional(8)
	}

	h.channelMapping = Optional{}
	if h.StreamType == StreamDependent {
		h.channelMapping = c.ReadConditional(16)
	}

	if c.ReadBit() {
		info.mixing = h.decodeMixing(c)
	}

	if c.ReadBit() {
		info.information = h.decodeInformation(c)
	}

	if h.StreamType == StreamIndependent && h.Blocks != 6 {
		info.convsync = c.ReadBit()
	}

	if h.StreamType == StreamRepackaged {
		info.blkid = h.Blocks == 6 || c.ReadBit()
		if info.blkid {
			h.frameSizeCode = int(c.ReadBits(6))
		}
	}

	if c.ReadBit() {
		info.addbsi = c.ReadBytes(int(c.ReadBits(6)) + 1)
	}
}

func (h *Header) decodeMixing(c *BitCursor) *eac3Mixing {
	m := &eac3Mixing{}

	if h.ChannelMode > 2 {
		m.dmixmod = c.ReadBits(2)
	}
	if h.ChannelMode&1 == 1 && h.ChannelMode > 2 {
		m.ltrtcmixlev = c.ReadBits(6)
	}
	if h.ChannelMode&4 == 4 {
		m.ltrtsurmixlev = c.ReadBits(6)
	}
	if h.LFE {
		m.lfemixlevcod = c.ReadConditional(5)
	}

	if h.StreamType != StreamIndependent {
		return m
	}

	m.pgmscl = c.ReadConditional(6)
	if h.ChannelMode == 0 {
		m.pgmscl2 = c.ReadConditional(6)
	}
	m.extpgmscl = c.ReadConditional(6)

	m.mixdef = c.ReadBits(2)
	switch m.mixdef {
	case 1:
		m.mixdata = c.ReadBits(5)
	case 2:
		m.mixdata = c.ReadBits(12)
	case 3:
		m.mixdata = c.ReadBits(5)
		m.mixdata4 = c.ReadBytes(int(m.mixdata) + 2)
	}

	if h.ChannelMode < 2 {
		m.paninfo = c.ReadConditional(14)
		if h.ChannelMode == 0 {
			m.paninfo2 = c.ReadConditional(14)
		}
	}

	m.mixcfg = c.ReadBit()
	if m.mixcfg {
		if h.Blocks == 1 {
			m.blkmixcfg = []Optional{Some(c.ReadBits(5))}
		} else {
			m.blkmixcfg = make([]Optional, h.Blocks)
			for blk := range m.blkmixcfg {
				m.blkmixcfg[blk] = c.ReadConditional(5)
			}
		}
	}

	return m
}

func (h *Header) decodeInformation(c *BitCursor) *eac3Information {
	i := &eac3Information{}

	h.bitstreamMode = int(c.ReadBits(3))
	i.copyrightb = c.ReadBit()
	i.origbs = c.ReadBit()
	if h.ChannelMode == 2 {
		i.dsurmod = c.ReadBits(4)
	}
	if h.ChannelMode >= 6 {
		i.dsurexmod = c.ReadBits(2)
	}
	i.audprodi = c.ReadConditional(8)
	if h.ChannelMode == 0 {
		i.audprodi2 = c.ReadConditional(8)
	}
	if h.SampleRateCode < 3 {
		i.sourcefscod = c.ReadBit()
	}

	return i
}

func (h *Header) encodeEAC3(w *BitWriter) {
	info := &h.eac3

	w.WriteBits(info.dialnorm, 5)
	w.WriteConditional(info.compr, 8)
	if h.ChannelMode == 0 {
		w.WriteBits(info.dialnorm2, 5)
		w.WriteConditional(info.compr2, 8)
	}

	if h.StreamType == StreamDependent {
		w.WriteConditional(h.channelMapping, 16)
	}

	w.WriteBit(info.mixing != nil)
	if info.mixing != nil {
		h.encodeMixing(w, info.mixing)
	}

	w.WriteBit(info.information != nil)
	if info.information != nil {
		h.encodeInformation(w, info.information)
	}

	if h.StreamType == StreamIndependent && h.Blocks != 6 {
		w.WriteBit(info.convsync)
	}

	if h.StreamType == StreamRepackaged {
		if h.Blocks != 6 {
			w.WriteBit(info.blkid)
		}
		if info.blkid || h.Blocks == 6 {
			w.WriteBits(uint32(h.frameSizeCode), 6)
		}
	}

	w.WriteBit(info.addbsi != nil)
	if info.addbsi != nil {
		w.WriteBits(uint32(len(info.addbsi)-1), 6)
		w.WriteBytes(info.addbsi, len(info.addbsi))
	}
}

func (h *Header) encodeMixing(w *BitWriter, m *eac3Mixing) {
	if h.ChannelMode > 2 {
		w.WriteBits(m.dmixmod, 2)
	}
	if h.ChannelMode&1 == 1 && h.ChannelMode > 2 {
		w.WriteBits(m.ltrtcmixlev, 6)
	}
	if h.ChannelMode&4 == 4 {
		w.WriteBits(m.ltrtsurmixlev, 6)
	}
	if h.LFE {
		w.WriteConditional(m.lfemixlevcod, 5)
	}

	if h.StreamType != StreamIndependent {
		return
	}

	w.WriteConditional(m.pgmscl, 6)
	if h.ChannelMode == 0 {
		w.WriteConditional(m.pgmscl2, 6)
	}
	w.WriteConditional(m.extpgmscl, 6)

	w.WriteBits(m.mixdef, 2)
	switch m.mixdef {
	case 1:
		w.WriteBits(m.mixdata, 5)
	case 2:
		w.WriteBits(m.mixdata, 12)
	case 3:
		w.WriteBits(uint32(len(m.mixdata4)-2), 5)
		w.WriteBytes(m.mixdata4, len(m.mixdata4))
	}

	if h.ChannelMode < 2 {
		w.WriteConditional(m.paninfo, 14)
		if h.ChannelMode == 0 {
			w.WriteConditional(m.paninfo2, 14)
		}
	}

	w.WriteBit(m.mixcfg)
	if !m.mixcfg {
		return
	}
	if h.Blocks == 1 {
		var first Optional
		if len(m.blkmixcfg) != 0 {
			first = m.blkmixcfg[0]
		}
		w.WriteBits(first.Value, 5)

		return
	}
	for blk := 0; blk < h.Blocks; blk++ {
		var cfg Optional
		if blk < len(m.blkmixcfg) {
			cfg = m.blkmixcfg[blk]
		}
		w.WriteConditional(cfg, 5)
	}
}

func (h *Header) encodeInformation(w *BitWriter, i *eac3Information) {
	w.WriteBits(uint32(h.bitstreamMode), 3)
	w.WriteBit(i.copyrightb)
	w.WriteBit(i.origbs)
	if h.ChannelMode == 2 {
		w.WriteBits(i.dsurmod, 4)
	}
	if h.ChannelMode >= 6 {
		w.WriteBits(i.dsurexmod, 2)
	}
	w.WriteConditional(i.audprodi, 8)
	if h.ChannelMode == 0 {
		w.WriteConditional(i.audprodi2, 8)
	}
	if h.SampleRateCode < 3 {
		w.WriteBit(i.sourcefscod)
	}
}
