package eac3

import (
	"errors"
	"fmt"
	"io"

	pkgerrors "github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrClosed is the error returned when using a Merger that has finished or was closed.
var ErrClosed = errors.New("eac3: merger is closed")

// MergerOption configures a Merger.
type MergerOption func(m *Merger)

// WithLogger sets the logger of the merger. By default, nothing is logged.
func WithLogger(logger *zap.SugaredLogger) MergerOption {
	return func(m *Merger) {
		m.logger = logger
	}
}

type mergeSource struct {
	src      Source
	header   *Header
	cursor   *BitCursor
	channels int
}

// Merger combines several streams into one stream of substreams.
//
// The first source becomes the independent substream and has to carry the
// leading channels of the target layout in order. Every further source becomes a
// dependent substream carrying the next channels of the layout, using a custom
// channel mapping where needed. Frames are emitted in lockstep: the k-th frame of
// every source is written before any (k+1)-th frame, and merging ends with the
// first source that runs out of frames.
type Merger struct {
	sources []*mergeSource
	output  io.Writer
	layout  []Channel
	logger  *zap.SugaredLogger

	frames int
	closed bool
}

// NewMerger reads the first frame of every source and checks that their
// channels add up to layout.
func NewMerger(sources []Source, output io.Writer, layout []Channel, opts ...MergerOption) (*Merger, error) {
	m := &Merger{
		output: output,
		layout: layout,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if len(sources) == 0 {
		return nil, pkgerrors.New("eac3: no sources to merge")
	}

	for i, src := range sources {
		s := &mergeSource{
			src:    src,
			header: &Header{},
		}

		cursor, err := s.header.Decode(src)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, &CorruptionError{Reason: fmt.Sprintf("merge source %d has no frames", i)}
			}

			return nil, pkgerrors.Wrapf(err, "decoding first frame of source %d", i)
		}
		if i != 0 && s.header.Decoder != DecoderEnhancedAC3 {
			return nil, &UnsupportedFeatureError{
				Feature: fmt.Sprintf("%s as dependent substream (source %d)", s.header.Decoder, i),
			}
		}

		s.cursor = cursor
		s.channels = s.header.ChannelCount()
		m.sources = append(m.sources, s)

		m.logger.Infow("merge source", "source", i, "header", s.header.String(), "channels", s.channels)
	}

	total := lo.SumBy(m.sources, func(s *mergeSource) int {
		return s.channels
	})
	if total != len(layout) {
		return nil, &CorruptionError{
			Reason: fmt.Sprintf("sources have %d channels, the target layout has %d", total, len(layout)),
		}
	}

	if err := m.setupHeaders(); err != nil {
		return nil, err
	}

	return m, nil
}

// Frames returns the count of merged frames written so far.
func (m *Merger) Frames() int {
	return m.frames
}

// ProcessFrame writes the current frame of every source, then reads the next
// ones. It returns true once any source is exhausted, after closing the output.
func (m *Merger) ProcessFrame() (bool, error) {
	if m.closed {
		return false, ErrClosed
	}

	// A frame group is only written once every frame of it is built
	group := make([]*BitWriter, len(m.sources))
	for i, s := range m.sources {
		w, err := m.buildFrame(s)
		if err != nil {
			return false, pkgerrors.Wrapf(err, "building frame %d of source %d", m.frames, i)
		}
		group[i] = w
	}
	for i, w := range group {
		if _, err := w.WriteTo(m.output); err != nil {
			return false, pkgerrors.Wrapf(err, "writing frame %d of source %d", m.frames, i)
		}
	}
	m.frames++

	for i, s := range m.sources {
		cursor, err := s.header.Decode(s.src)
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.logger.Infow("merge complete", "frames", m.frames, "exhausted", i)

				return true, m.Close()
			}

			return false, pkgerrors.Wrapf(err, "decoding frame %d of source %d", m.frames, i)
		}
		s.cursor = cursor
	}

	return false, m.setupHeaders()
}

// Close closes the output and the sources that are closable.
func (m *Merger) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	var err error
	if closer, ok := m.output.(io.Closer); ok {
		err = multierr.Append(err, closer.Close())
	}
	for _, s := range m.sources {
		if closer, ok := s.src.(io.Closer); ok {
			err = multierr.Append(err, closer.Close())
		}
	}

	return err
}

// setupHeaders turns every source after the first into a dependent substream
// carrying its part of the layout.
func (m *Merger) setupHeaders() error {
	offset := m.sources[0].channels
	for i := 1; i < len(m.sources); i++ {
		s := m.sources[i]

		part := m.layout[offset : offset+s.channels]
		if err := s.header.SetChannelArrangement(part); err != nil {
			return pkgerrors.Wrapf(err, "mapping source %d to %v", i, part)
		}
		s.header.SubstreamID = 8 + i
		s.header.StreamType = StreamDependent

		offset += s.channels
	}

	return nil
}

// buildFrame encodes the header of a source followed by its payload, padded to
// the declared frame length.
func (m *Merger) buildFrame(s *mergeSource) (*BitWriter, error) {
	w, err := s.header.Encode()
	if err != nil {
		return nil, err
	}

	for remaining := s.cursor.Remaining(); remaining > 0; remaining = s.cursor.Remaining() {
		n := remaining
		if n > 31 {
			n = 31
		}
		w.WriteBits(s.cursor.ReadBits(n), n)
	}

	length := s.header.WordsPerSyncframe * 16
	if w.Len() > length {
		if s.header.Decoder != DecoderEnhancedAC3 {
			return nil, &CorruptionError{Reason: "legacy frame does not fit its frame size"}
		}

		words := (w.Len() + 15) >> 4
		if words > 2048 {
			return nil, &CorruptionError{Reason: fmt.Sprintf("frame of %d words exceeds the maximum frame size", words)}
		}
		m.logger.Warnw("frame grown to fit its header", "words", words, "declared", s.header.WordsPerSyncframe)

		s.header.WordsPerSyncframe = words
		w.Overwrite(21, uint32(words-1), 11)
		length = words * 16
	}
	w.PadTo(length)

	m.logger.Debugw("frame", "index", m.frames, "header", s.header.String())

	return w, nil
}
