package merfish

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Decoder reads fixed-width primitives from a random-access source.
// Every read consumes exactly the requested number of bytes.
type Decoder struct {
	r     io.ReaderAt
	order binary.ByteOrder
	pos   int64
}

// NewDecoder creates a decoder positioned at offset 0.
func NewDecoder(r io.ReaderAt, order binary.ByteOrder) *Decoder {
	if order == nil {
		order = binary.NativeEndian
	}
	return &Decoder{r: r, order: order}
}

// Pos returns the current read position.
func (d *Decoder) Pos() int64 {
	return d.pos
}

// ByteOrder returns the configured byte order.
func (d *Decoder) ByteOrder() binary.ByteOrder {
	return d.order
}

// ReadBytes reads exactly n bytes from the current position.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative read length %d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	got, err := d.r.ReadAt(buf, d.pos)
	if got < n {
		if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedInput, n, d.pos, got)
		}
		return nil, err
	}
	d.pos += int64(n)
	return buf, nil
}

// ReadUint reads an unsigned integer of n bytes (1, 2, 4 or 8).
func (d *Decoder) ReadUint(n int) (uint64, error) {
	if !validWidth(n) {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedWidth, n)
	}
	buf, err := d.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	return decodeUint(buf, d.order), nil
}

// ReadInt reads a two's complement signed integer of n bytes.
func (d *Decoder) ReadInt(n int) (int64, error) {
	if !validWidth(n) {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedWidth, n)
	}
	buf, err := d.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	return decodeInt(buf, d.order), nil
}

// ReadBool reads one byte. Any non-zero value is true.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadRawBool()
	return b != 0, err
}

// ReadRawBool reads the single byte encoding a boolean without interpreting it.
func (d *Decoder) ReadRawBool() (byte, error) {
	buf, err := d.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func validWidth(n int) bool {
	return n == 1 || n == 2 || n == 4 || n == 8
}

// decodeUint expects len(buf) to be a valid width.
func decodeUint(buf []byte, order binary.ByteOrder) uint64 {
	switch len(buf) {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(order.Uint16(buf))
	case 4:
		return uint64(order.Uint32(buf))
	default:
		return order.Uint64(buf)
	}
}

func decodeInt(buf []byte, order binary.ByteOrder) int64 {
	switch len(buf) {
	case 1:
		return int64(int8(buf[0]))
	case 2:
		return int64(int16(order.Uint16(buf)))
	case 4:
		return int64(int32(order.Uint32(buf)))
	default:
		return int64(order.Uint64(buf))
	}
}
