package merfish

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Option configures how a file is opened and validated.
type Option func(*options)

type options struct {
	order      binary.ByteOrder
	checkSize  bool
	strictBool bool
	mmap       bool
}

func defaultOptions() *options {
	return &options{
		order:     binary.NativeEndian,
		checkSize: true,
		mmap:      true,
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithByteOrder sets the byte order of every integer and float in the file.
// The producing tool writes host order, so the default is binary.NativeEndian.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *options) {
		if order != nil {
			o.order = order
		}
	}
}

// WithoutSizeCheck skips the file size validation. Only diagnostic tooling
// should use it: the view then exposes the whole records actually present.
func WithoutSizeCheck() Option {
	return func(o *options) {
		o.checkSize = false
	}
}

// WithStrictBool rejects a corruption flag byte other than 0 or 1.
func WithStrictBool() Option {
	return func(o *options) {
		o.strictBool = true
	}
}

// WithoutMmap loads the file with ReadAt instead of mapping it.
func WithoutMmap() Option {
	return func(o *options) {
		o.mmap = false
	}
}

// ParseByteOrder maps a configuration value to a byte order.
// The empty string and "native" select the host order.
func ParseByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native", "host":
		return binary.NativeEndian, nil
	case "little", "le", "little-endian":
		return binary.LittleEndian, nil
	case "big", "be", "big-endian":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", s)
	}
}
