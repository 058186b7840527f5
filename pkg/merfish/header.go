package merfish

import (
	"fmt"
	"io"
	"math"
	"math/bits"
	"unicode/utf8"
)

// Header is the decoded file preamble and record layout.
type Header struct {
	Version    uint8
	Corrupt    bool
	NumEntries uint32
	HeaderLen  uint32
	DataOffset uint64
	LayoutText string
	Layout     *Layout
}

// RecordSize returns the byte size of one record.
func (h *Header) RecordSize() int {
	if h.Layout == nil {
		return 0
	}
	return h.Layout.Size()
}

// ExpectedSize returns DataOffset + RecordSize * NumEntries.
// ok is false when the result does not fit in 64 bits.
func (h *Header) ExpectedSize() (size uint64, ok bool) {
	hi, lo := bits.Mul64(uint64(h.RecordSize()), uint64(h.NumEntries))
	if hi != 0 {
		return 0, false
	}
	sum, carry := bits.Add64(h.DataOffset, lo, 0)
	if carry != 0 {
		return 0, false
	}
	return sum, true
}

// ReadHeader decodes and validates the header of a file of the given size.
// Steps run strictly in order and the first failure aborts the parse.
func ReadHeader(r io.ReaderAt, size int64, opts ...Option) (*Header, error) {
	return readHeader(r, size, buildOptions(opts))
}

func readHeader(r io.ReaderAt, size int64, o *options) (*Header, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative file size %d", size)
	}
	d := NewDecoder(r, o.order)
	h := &Header{}

	version, err := d.ReadUint(1)
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	h.Version = uint8(version)
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	raw, err := d.ReadRawBool()
	if err != nil {
		return nil, fmt.Errorf("read corruption flag: %w", err)
	}
	if o.strictBool && raw > 1 {
		return nil, fmt.Errorf("%w: invalid corruption flag byte 0x%02x", ErrCorruptSource, raw)
	}
	h.Corrupt = raw != 0
	if h.Corrupt {
		return nil, ErrCorruptSource
	}

	n, err := d.ReadUint(4)
	if err != nil {
		return nil, fmt.Errorf("read entry count: %w", err)
	}
	h.NumEntries = uint32(n)

	n, err = d.ReadUint(4)
	if err != nil {
		return nil, fmt.Errorf("read layout length: %w", err)
	}
	h.HeaderLen = uint32(n)
	if int64(h.HeaderLen) > size-PreambleSize || uint64(h.HeaderLen) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: layout length %d exceeds file size %d", ErrTruncatedInput, h.HeaderLen, size)
	}

	text, err := d.ReadBytes(int(h.HeaderLen))
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	if !utf8.Valid(text) {
		return nil, fmt.Errorf("%w: layout text is not valid UTF-8", ErrMalformedLayout)
	}
	h.LayoutText = string(text)
	h.Layout, err = ParseLayout(h.LayoutText)
	if err != nil {
		return nil, err
	}

	h.DataOffset = uint64(d.Pos())

	if o.checkSize {
		expected, ok := h.ExpectedSize()
		if !ok {
			return nil, fmt.Errorf("%w: record size %d x %d entries overflows", ErrSizeMismatch, h.RecordSize(), h.NumEntries)
		}
		if expected != uint64(size) {
			return nil, &SizeMismatchError{Expected: expected, Actual: uint64(size)}
		}
	}
	return h, nil
}
