package eac3

import (
	"errors"
	"io"
	"net/http"

	"github.com/jfbus/httprs"
)

var (
	// ChunkSize is the default chunk size for reader backed feeds.
	ChunkSize = 64 * 1024
)

// ErrNotSeekable is the error returned when seeking a feed without a seek callback.
var ErrNotSeekable = errors.New("eac3: feed is not seekable")

// FetchFunc returns the next chunk of a byte source. An empty chunk or io.EOF
// signals the end of data. A chunk returned together with io.EOF is still used.
type FetchFunc func() ([]byte, error)

// SeekFunc repositions the byte source, with io.Seeker semantics.
type SeekFunc func(offset int64, whence int) (int64, error)

// Source provides exactly n bytes per call, or io.EOF when no data is left.
type Source interface {
	Read(n int) ([]byte, error)
}

// ChunkFeed turns a chunk-producing source into reads of arbitrary length.
//
// Frame decoding first needs a short fixed prefix, then a length declared in
// that prefix. ChunkFeed decouples both from the chunk size of the source,
// which may be irregular (e.g. network packets).
type ChunkFeed struct {
	fetch  FetchFunc
	seek   SeekFunc
	closer io.Closer

	chunk    []byte
	pos      int
	hasEnded bool
}

// NewChunkFeed creates a feed. seek may be nil.
func NewChunkFeed(fetch FetchFunc, seek SeekFunc) *ChunkFeed {
	return &ChunkFeed{
		fetch: fetch,
		seek:  seek,
	}
}

// NewReaderFeed creates a feed pulling chunkSize bytes at a time from r.
// The feed is seekable if r is an io.Seeker, and Close closes r if it is an io.Closer.
func NewReaderFeed(r io.Reader, chunkSize int) *ChunkFeed {
	if chunkSize <= 0 {
		chunkSize = ChunkSize
	}

	feed := &ChunkFeed{}
	feed.fetch = func() ([]byte, error) {
		p := make([]byte, chunkSize)

		n, err := io.ReadFull(r, p)
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return p[:n], io.EOF
			}

			return nil, err
		}

		return p, nil
	}

	if seeker, ok := r.(io.Seeker); ok {
		feed.seek = seeker.Seek
	}
	if closer, ok := r.(io.Closer); ok {
		feed.closer = closer
	}

	return feed
}

// NewHTTPFeed creates a seekable feed over an HTTP response. Seeking issues
// range requests, so the server has to support them.
func NewHTTPFeed(res *http.Response, chunkSize int, client ...*http.Client) *ChunkFeed {
	return NewReaderFeed(httprs.NewHttpReadSeeker(res, client...), chunkSize)
}

// HasEnded checks whether the source signalled the end of data.
func (f *ChunkFeed) HasEnded() bool {
	return f.hasEnded && f.pos == len(f.chunk)
}

// Read returns the next n bytes. When the source ends part-way, the result is
// padded with zeros. When no bytes are left at all, it returns io.EOF.
func (f *ChunkFeed) Read(n int) ([]byte, error) {
	out := make([]byte, n)

	filled := 0
	for filled < n {
		if f.pos == len(f.chunk) {
			ok, err := f.load()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
		}

		c := copy(out[filled:], f.chunk[f.pos:])
		f.pos += c
		filled += c
	}

	if filled == 0 && n != 0 {
		return nil, io.EOF
	}

	return out, nil
}

// ReadByte returns the next byte, or io.EOF at the end of data.
func (f *ChunkFeed) ReadByte() (byte, error) {
	b, err := f.Read(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// Clear discards the cached chunk. The next read fetches from the source.
// Call it whenever the source position was changed externally.
func (f *ChunkFeed) Clear() {
	f.chunk = nil
	f.pos = 0
	f.hasEnded = false
}

// Seek clears the feed and repositions the source.
func (f *ChunkFeed) Seek(offset int64, whence int) (int64, error) {
	if f.seek == nil {
		return 0, ErrNotSeekable
	}

	f.Clear()

	return f.seek(offset, whence)
}

// Close closes the underlying source if it is closable.
func (f *ChunkFeed) Close() error {
	if f.closer == nil {
		return nil
	}

	return f.closer.Close()
}

// load fetches the next chunk. It reports false at the end of data.
func (f *ChunkFeed) load() (bool, error) {
	if f.hasEnded {
		return false, nil
	}

	chunk, err := f.fetch()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return false, err
		}
		f.hasEnded = true
	}

	if len(chunk) == 0 {
		f.hasEnded = true

		return false, nil
	}

	f.chunk = chunk
	f.pos = 0

	return true, nil
}
