package merfish

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// File is an open record file. It owns the backing bytes, usually a
// read-only memory mapping, and every Column derived from it.
// A File is safe for concurrent readers.
type File struct {
	data    []byte
	records []byte
	header  *Header
	order   binary.ByteOrder
	count   int
	mmapped bool
}

// Open maps a record file read-only and validates its header.
// If mmap is unavailable, it falls back to ReadAt-based loading.
// The returned file must be closed to release the mapping.
func Open(path string, opts ...Option) (*File, error) {
	o := buildOptions(opts)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, errors.New("merfish: file too large to map")
	}
	size := int(size64)
	if size < PreambleSize {
		return nil, ErrTruncatedInput
	}

	if o.mmap {
		data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
		if err == nil {
			// Columns stride through the records front to back.
			_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
			mf, parseErr := parseFileData(data, true, o)
			if parseErr != nil {
				_ = unix.Munmap(data)
				return nil, parseErr
			}
			return mf, nil
		}
	}

	data, err := readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return parseFileData(data, false, o)
}

// OpenReaderAt loads and validates a record file from a random-access reader
// without mmap.
func OpenReaderAt(r io.ReaderAt, size int64, opts ...Option) (*File, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, errors.New("merfish: invalid source size")
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return parseFileData(data, false, buildOptions(opts))
}

// OpenBytes validates a record file held in memory. The slice is retained.
func OpenBytes(data []byte, opts ...Option) (*File, error) {
	return parseFileData(data, false, buildOptions(opts))
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		if err == io.EOF {
			return nil, ErrTruncatedInput
		}
		return nil, err
	}
	return out, nil
}

func parseFileData(data []byte, mmapped bool, o *options) (*File, error) {
	hdr, err := readHeader(bytes.NewReader(data), int64(len(data)), o)
	if err != nil {
		return nil, err
	}

	records := data[hdr.DataOffset:]
	count := int(hdr.NumEntries)
	if rs := hdr.RecordSize(); !o.checkSize && rs > 0 {
		// Diagnostic mode: expose only the whole records that are present.
		count = min(count, len(records)/rs)
	}
	records = records[:count*hdr.RecordSize()]

	return &File{
		data:    data,
		records: records,
		header:  hdr,
		order:   o.order,
		count:   count,
		mmapped: mmapped,
	}, nil
}

// Close releases the mapping. Columns and slices obtained from the file
// must not be used afterwards.
func (f *File) Close() error {
	if f == nil || f.data == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.data)
	}
	f.data = nil
	f.records = nil
	f.mmapped = false
	return err
}

// Header returns the decoded header.
func (f *File) Header() *Header {
	return f.header
}

// Layout returns the record layout.
func (f *File) Layout() *Layout {
	return f.header.Layout
}

// Len returns the number of records.
func (f *File) Len() int {
	return f.count
}

// Mapped reports whether the file is backed by a memory mapping.
func (f *File) Mapped() bool {
	return f.mmapped
}

// Record returns a zero-copy slice covering record i, or nil if i is out of
// range. The slice must not be modified or retained after Close.
func (f *File) Record(i int) []byte {
	if f == nil || f.data == nil || i < 0 || i >= f.count {
		return nil
	}
	rs := f.header.RecordSize()
	return f.records[i*rs : (i+1)*rs : (i+1)*rs]
}
