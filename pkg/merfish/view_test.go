package merfish

import (
	"errors"
	"testing"
)

const mixedLayout = "pos, repeat 2, single,area, repeat 1, uint16,flag, repeat 1, uint8," +
	"delta, repeat 1, int16,dist, repeat 1, double,tag, repeat 3, char"

func mixedFile(t *testing.T) *File {
	t.Helper()
	tf := newTestFile(mixedLayout, 2)
	tf.record(t, [2]float32{1, 2}, uint16(10), uint8(1), int16(-5), float64(0.25), [3]byte{'a', 'b', 'c'})
	tf.record(t, [2]float32{-3, 4}, uint16(65535), uint8(0), int16(300), float64(-1e9), [3]byte{'x', 0, 0xff})
	f, err := OpenBytes(tf.bytes())
	if err != nil {
		t.Fatalf("open mixed file: %v", err)
	}
	return f
}

func TestFieldNotFound(t *testing.T) {
	t.Parallel()

	f := mixedFile(t)
	before := f.Len()
	if _, err := f.Field("nonexistent"); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
	if f.Len() != before {
		t.Fatalf("failed lookup changed the view")
	}
	if _, err := f.Field("area"); err != nil {
		t.Fatalf("view unusable after failed lookup: %v", err)
	}
}

func TestRepeatedField(t *testing.T) {
	t.Parallel()

	f := mixedFile(t)
	pos, err := f.Field("pos")
	if err != nil {
		t.Fatalf("field pos: %v", err)
	}
	if pos.Count() != 2 || pos.Offset() != 0 || pos.Stride() != 24 {
		t.Fatalf("unexpected geometry: count=%d off=%d stride=%d", pos.Count(), pos.Offset(), pos.Stride())
	}
	got := pos.Float64s()
	want := []float64{1, 2, -3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pos[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if len(pos.Raw(1)) != 8 {
		t.Fatalf("raw length = %d, want 8", len(pos.Raw(1)))
	}
}

func TestScalarConversions(t *testing.T) {
	t.Parallel()

	f := mixedFile(t)
	col := func(name string) *Column {
		c, err := f.Field(name)
		if err != nil {
			t.Fatalf("field %s: %v", name, err)
		}
		return c
	}

	if v := col("area").Uint(1, 0); v != 65535 {
		t.Fatalf("area[1] = %d", v)
	}
	if v := col("delta").Int(0, 0); v != -5 {
		t.Fatalf("delta[0] = %d", v)
	}
	if v := col("delta").Float(1, 0); v != 300 {
		t.Fatalf("delta[1] = %v", v)
	}
	if v := col("dist").Float(1, 0); v != -1e9 {
		t.Fatalf("dist[1] = %v", v)
	}
	if v := col("tag").Uint(1, 2); v != 0xff {
		t.Fatalf("tag[1][2] = %d", v)
	}
	if v := col("flag").Int(0, 0); v != 1 {
		t.Fatalf("flag[0] = %d", v)
	}
}

func TestValuesIsIndependentCopy(t *testing.T) {
	t.Parallel()

	f := mixedFile(t)
	area, err := f.Field("area")
	if err != nil {
		t.Fatalf("field area: %v", err)
	}
	vals, err := Values[uint16](area)
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	vals[0] = 99
	if area.Uint(0, 0) != 10 {
		t.Fatalf("mutating a materialised copy changed the view")
	}

	tag, err := f.Field("tag")
	if err != nil {
		t.Fatalf("field tag: %v", err)
	}
	chars, err := Values[uint8](tag)
	if err != nil {
		t.Fatalf("char values: %v", err)
	}
	if string(chars[:3]) != "abc" {
		t.Fatalf("tag[0] = %q", chars[:3])
	}
	signed, err := Values[int8](tag)
	if err != nil {
		t.Fatalf("signed char values: %v", err)
	}
	if signed[5] != -1 {
		t.Fatalf("tag[1][2] as int8 = %d, want -1", signed[5])
	}
}

func TestValuesTypeMismatch(t *testing.T) {
	t.Parallel()

	f := mixedFile(t)
	area, err := f.Field("area")
	if err != nil {
		t.Fatalf("field area: %v", err)
	}
	if _, err := Values[float32](area); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	if _, err := Values[int16](area); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestElementOutOfRangePanics(t *testing.T) {
	t.Parallel()

	f := mixedFile(t)
	pos, err := f.Field("pos")
	if err != nil {
		t.Fatalf("field pos: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for element index 2")
		}
	}()
	_ = pos.Float(0, 2)
}
