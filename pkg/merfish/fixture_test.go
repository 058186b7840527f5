package merfish

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const xyidLayout = "x, repeat 1, float,y, repeat 1, float,id, repeat 1, uint32"

// testFile builds record files in memory.
type testFile struct {
	order   binary.ByteOrder
	version uint8
	corrupt byte
	layout  string
	entries uint32
	records bytes.Buffer
}

func newTestFile(layout string, entries uint32) *testFile {
	return &testFile{
		order:   binary.NativeEndian,
		version: Version,
		layout:  layout,
		entries: entries,
	}
}

// record appends one record; values must be fixed-size types in layout order.
func (tf *testFile) record(t *testing.T, vals ...any) *testFile {
	t.Helper()
	for _, v := range vals {
		if err := binary.Write(&tf.records, tf.order, v); err != nil {
			t.Fatalf("encode record value %v: %v", v, err)
		}
	}
	return tf
}

func (tf *testFile) bytes() []byte {
	var b bytes.Buffer
	b.WriteByte(tf.version)
	b.WriteByte(tf.corrupt)
	var u32 [4]byte
	tf.order.PutUint32(u32[:], tf.entries)
	b.Write(u32[:])
	tf.order.PutUint32(u32[:], uint32(len(tf.layout)))
	b.Write(u32[:])
	b.WriteString(tf.layout)
	b.Write(tf.records.Bytes())
	return b.Bytes()
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

// xyidFile returns a three record file using xyidLayout.
func xyidFile(t *testing.T) *testFile {
	t.Helper()
	tf := newTestFile(xyidLayout, 3)
	tf.record(t, float32(1.5), float32(-2), uint32(7))
	tf.record(t, float32(3.25), float32(4.5), uint32(42))
	tf.record(t, float32(-0.5), float32(8), uint32(1<<31))
	return tf
}
