package eac3

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Header is the header of AC-3 and E-AC-3 syncframes of one substream.
//
// A Header is meant to be reused for every frame of the same substream: Decode
// fills it from the next frame, Encode writes it back. Besides the exported
// fields, it keeps the remaining bitstream information of the last decoded
// frame, so Encode reproduces it bit by bit.
type Header struct {
	// StreamType is the type of the substream. Legacy frames are reported as StreamRepackaged.
	StreamType StreamType
	// SubstreamID is 0-7 for independent substreams and 8-15 for dependent substreams.
	SubstreamID int
	// WordsPerSyncframe is the length of the frame in 16-bit words.
	WordsPerSyncframe int
	// SampleRateCode selects 48, 44.1 or 32 kHz.
	SampleRateCode int
	// Blocks is the count of audio blocks in the frame: 1, 2, 3 or 6.
	Blocks int
	// ChannelMode (acmod) selects the base channel arrangement.
	ChannelMode int
	// LFE is true if the frame carries a low frequency effects channel.
	LFE bool
	// Decoder is the decoder variant the frame is coded for.
	Decoder Decoder

	bsid           int
	channelMapping Optional
	frameSizeCode  int
	bitstreamMode  int
	crc1           uint16

	ac3  ac3Info
	eac3 eac3Info
}

// Decode reads the next frame from src. The returned cursor holds the frame from
// the byte containing the payload start and is positioned at that payload.
//
// At the end of data, which is an empty source or a zero syncword (padding),
// Decode returns io.EOF. Every other error is fatal for the stream, there is no
// attempt to find the next syncword.
func (h *Header) Decode(src Source) (*BitCursor, error) {
	prefix, err := src.Read(prefixLength)
	if err != nil {
		return nil, err
	}

	c := NewBitCursor(prefix)

	word := uint16(c.ReadBits(16))
	if word != SyncWord {
		if word == 0 {
			return nil, io.EOF
		}

		return nil, &SyncError{Word: word}
	}

	h.StreamType = StreamType(c.ReadBits(2))
	h.SubstreamID = int(c.ReadBits(3))
	h.WordsPerSyncframe = int(c.ReadBits(11)) + 1
	h.SampleRateCode = int(c.ReadBits(2))
	h.Blocks = numberOfBlocks[c.ReadBits(2)]
	h.ChannelMode = int(c.ReadBits(3))
	h.LFE = c.ReadBit()
	h.bsid = int(c.ReadBits(5))

	decoder, ok := decoderOf(h.bsid)
	if !ok {
		return nil, &UnsupportedFeatureError{Feature: fmt.Sprintf("decoder id (bsid) %d", h.bsid)}
	}
	h.Decoder = decoder

	if decoder != DecoderEnhancedAC3 {
		h.StreamType = StreamRepackaged
		h.SubstreamID = 0
		h.Blocks = 6

		// Fields before bsid are laid out differently in legacy frames
		h.crc1 = uint16(c.Byte(2))<<8 | uint16(c.Byte(3))
		h.SampleRateCode = int(c.Byte(4) >> 6)
		h.frameSizeCode = int(c.Byte(4) & 0x3f)

		h.WordsPerSyncframe, ok = legacyFrameWords(h.SampleRateCode, h.frameSizeCode)
		if !ok {
			return nil, &ReservedValueError{Field: "frame size code", Value: h.frameSizeCode}
		}

		h.bitstreamMode = int(c.ReadBits(3))
		h.ChannelMode = int(c.ReadBits(3))
	}

	if h.WordsPerSyncframe*2 < prefixLength {
		return nil, &CorruptionError{Reason: fmt.Sprintf("frame of %d words is shorter than its header", h.WordsPerSyncframe)}
	}

	rest, err := src.Read(h.WordsPerSyncframe*2 - prefixLength)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CorruptionError{Reason: "stream ended inside a frame"}
		}

		return nil, errors.Wrap(err, "reading frame")
	}
	c.Expand(rest)

	if h.StreamType == StreamDependent {
		h.SubstreamID += 8
	}

	if h.StreamType == StreamReserved {
		return nil, &ReservedValueError{Field: "stream type", Value: int(h.StreamType)}
	}
	if h.SampleRateCode == 3 {
		return nil, &ReservedValueError{Field: "sample rate code", Value: h.SampleRateCode}
	}

	if decoder == DecoderEnhancedAC3 {
		h.decodeEAC3(c)
	} else {
		h.decodeAC3(c)
	}

	return c, nil
}

// Encode writes the header. The payload can be appended to the returned writer.
func (h *Header) Encode() (*BitWriter, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}

	code, _ := blocksCode(h.Blocks)

	substreamID := h.SubstreamID
	if h.StreamType == StreamDependent && substreamID >= 8 {
		substreamID -= 8
	}

	w := NewBitWriter(h.WordsPerSyncframe * 2)
	w.WriteBits(SyncWord, 16)
	w.WriteBits(uint32(h.StreamType), 2)
	w.WriteBits(uint32(substreamID), 3)
	w.WriteBits(uint32(h.WordsPerSyncframe-1), 11)
	w.WriteBits(uint32(h.SampleRateCode), 2)
	w.WriteBits(uint32(code), 2)
	w.WriteBits(uint32(h.ChannelMode), 3)
	w.WriteBit(h.LFE)
	w.WriteBits(uint32(h.decoderID()), 5)

	if h.Decoder == DecoderEnhancedAC3 {
		h.encodeEAC3(w)

		return w, nil
	}

	// Legacy frames have the crc and the frame size code before bsid
	w.Overwrite(16, uint32(h.crc1), 16)
	w.Overwrite(32, uint32(h.SampleRateCode), 2)
	w.Overwrite(34, uint32(h.frameSizeCode), 6)

	w.WriteBits(uint32(h.bitstreamMode), 3)
	w.WriteBits(uint32(h.ChannelMode), 3)
	h.encodeAC3(w)

	return w, nil
}

func (h *Header) validate() error {
	if h.StreamType == StreamReserved || h.StreamType < 0 {
		return &ReservedValueError{Field: "stream type", Value: int(h.StreamType)}
	}
	if h.SampleRateCode == 3 {
		return &ReservedValueError{Field: "sample rate code", Value: h.SampleRateCode}
	}
	if h.SampleRateCode < 0 || h.SampleRateCode > 3 {
		return errors.Errorf("eac3: invalid sample rate code %d", h.SampleRateCode)
	}
	if _, ok := blocksCode(h.Blocks); !ok {
		return errors.Errorf("eac3: invalid block count %d", h.Blocks)
	}
	if h.ChannelMode < 0 || h.ChannelMode >= len(channelArrangements) {
		return errors.Errorf("eac3: invalid channel mode %d", h.ChannelMode)
	}
	if h.WordsPerSyncframe < 1 || h.WordsPerSyncframe > 2048 {
		return errors.Errorf("eac3: invalid frame length of %d words", h.WordsPerSyncframe)
	}
	if h.SubstreamID < 0 || h.SubstreamID > 15 {
		return errors.Errorf("eac3: invalid substream id %d", h.SubstreamID)
	}

	return nil
}

// decoderID returns the bsid to write, the decoded one if it matches Decoder.
func (h *Header) decoderID() int {
	if decoder, ok := decoderOf(h.bsid); ok && decoder == h.Decoder {
		return h.bsid
	}

	switch h.Decoder {
	case DecoderAlternateAC3:
		return bsidAlternateAC3
	case DecoderAC3:
		return bsidAC3
	}

	return bsidEnhancedAC3
}

// SampleRate returns the sample rate in samples per second.
func (h *Header) SampleRate() int {
	if h.SampleRateCode < 0 || h.SampleRateCode >= len(sampleRates) {
		return 0
	}

	return sampleRates[h.SampleRateCode]
}

// FrameSize returns the length of the frame in bytes.
func (h *Header) FrameSize() int {
	return h.WordsPerSyncframe * 2
}

// Samples returns the count of samples per channel in the frame.
func (h *Header) Samples() int {
	return h.Blocks * SamplesPerBlock
}

// ChannelCount returns the count of channels including the LFE channel.
func (h *Header) ChannelCount() int {
	count := 0
	if h.ChannelMode >= 0 && h.ChannelMode < len(channelArrangements) {
		count = len(channelArrangements[h.ChannelMode])
	}
	if h.LFE {
		count++
	}

	return count
}

// ChannelMapping returns the custom channel mapping bitmask, if present.
func (h *Header) ChannelMapping() Optional {
	return h.channelMapping
}

// BitstreamMode returns the service type (bsmod) of the last frame that carried it.
func (h *Header) BitstreamMode() int {
	return h.bitstreamMode
}

// FrameSizeCode returns the AC-3 frame size code of legacy or repackaged frames.
func (h *Header) FrameSizeCode() int {
	return h.frameSizeCode
}

func (h *Header) String() string {
	lfe := ""
	if h.LFE {
		lfe = "+LFE"
	}

	return fmt.Sprintf("%s %s substream %d, %d bytes, %d Hz, %d blocks, mode %d%s",
		h.Decoder, h.StreamType, h.SubstreamID, h.FrameSize(), h.SampleRate(), h.Blocks, h.ChannelMode, lfe)
}
