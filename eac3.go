// Package eac3 implements the framing layer of AC-3 and Enhanced AC-3 (Dolby Digital Plus) bitstreams.
//
// This library decodes and re-encodes syncframe headers, resolves the channel topology they describe,
// and merges several coded substreams into one stream. The transform coded audio payload is never
// decoded, it is carried bit by bit behind the header it belongs to.
//
// The lower level parts can be used on their own:
//
// 1. BitCursor and BitWriter read and write MSB-first bit fields. BitWriter can patch already written
// fields, which legacy AC-3 headers need as some of their fields sit inside bytes emitted earlier.
//
// 2. ChunkFeed reads byte counts of any length from a source producing chunks of arbitrary size,
// e.g. a file, an io.Reader or an HTTP response supporting range requests.
//
// 3. Header decodes one syncframe header per Decode call and is kept for the whole life of a substream,
// as some of its state carries over between frames. Decode returns a BitCursor positioned at the payload,
// Encode returns a BitWriter holding the header, to which the payload can be appended.
//
// With the high-level Merger, N streams (e.g. a 5.1 stream and a stereo stream carrying the rear channels)
// are combined into one stream of an independent substream and N-1 dependent substreams:
//
//	merger, err := eac3.NewMerger(sources, output, []eac3.Channel{
//	    eac3.FrontLeft, eac3.FrontRight, eac3.FrontCenter, eac3.ScreenLFE,
//	    eac3.SideLeft, eac3.SideRight, eac3.RearLeft, eac3.RearRight,
//	})
//	for {
//	    done, err := merger.ProcessFrame()
//	    if err != nil || done {
//	        break
//	    }
//	}
//
// None of the types are safe for concurrent use.
package eac3

const (
	// SyncWord starts every syncframe.
	SyncWord = 0x0B77

	// SamplesPerBlock is the count of samples per channel in an audio block.
	SamplesPerBlock = 256

	// prefixLength is the count of bytes needed to learn the frame length.
	prefixLength = 7
)

// StreamType is the type of a substream.
type StreamType int

// Stream types.
const (
	StreamIndependent StreamType = iota
	StreamDependent
	StreamRepackaged
	StreamReserved
)

func (t StreamType) String() string {
	switch t {
	case StreamIndependent:
		return "independent"
	case StreamDependent:
		return "dependent"
	case StreamRepackaged:
		return "repackaged"
	}

	return "reserved"
}

// Decoder is the decoder variant a frame is coded for.
type Decoder int

// Decoder variants.
const (
	DecoderAlternateAC3 Decoder = iota
	DecoderAC3
	DecoderEnhancedAC3
)

func (d Decoder) String() string {
	switch d {
	case DecoderAlternateAC3:
		return "AC-3 (alternate bitstream)"
	case DecoderAC3:
		return "AC-3"
	case DecoderEnhancedAC3:
		return "E-AC-3"
	}

	return "unknown"
}

// Decoder ids written for headers that were not decoded from a stream.
const (
	bsidAlternateAC3 = 6
	bsidAC3          = 8
	bsidEnhancedAC3  = 16
)

// decoderOf classifies a bsid.
func decoderOf(bsid int) (Decoder, bool) {
	switch {
	case bsid == bsidAlternateAC3:
		return DecoderAlternateAC3, true
	case bsid <= bsidAC3:
		return DecoderAC3, true
	case bsid == bsidEnhancedAC3:
		return DecoderEnhancedAC3, true
	}

	return 0, false
}

var sampleRates = [3]int{48000, 44100, 32000}

var numberOfBlocks = [4]int{1, 2, 3, 6}

// Legacy frame sizes in words at 48 kHz, indexed by frame size code >> 1.
var frameSizes = [...]int{
	64, 80, 96, 112, 128, 160, 192, 224, 256, 320,
	384, 448, 512, 640, 768, 896, 1024, 1152, 1280,
}

// legacyFrameWords returns the words per syncframe of a legacy frame.
func legacyFrameWords(sampleRateCode, frameSizeCode int) (int, bool) {
	if frameSizeCode>>1 >= len(frameSizes) {
		return 0, false
	}

	words := frameSizes[frameSizeCode>>1]
	switch sampleRateCode {
	case 1:
		words = words*1393/1280 + frameSizeCode&1
	case 2:
		words += words >> 1
	}

	return words, true
}

// blocksCode returns the code of a block count.
func blocksCode(blocks int) (int, bool) {
	for code, b := range numberOfBlocks {
		if b == blocks {
			return code, true
		}
	}

	return 0, false
}
