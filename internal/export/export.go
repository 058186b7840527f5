// Package export writes record columns to JSON Lines, one object per record,
// optionally zstd compressed, alongside a JSON manifest.
package export

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/EQt/barnacleboy/internal/logger"
	"github.com/EQt/barnacleboy/pkg/merfish"
)

const progressEvery = 1 << 16

// Options selects what is exported.
type Options struct {
	Fields   []string // empty selects every field in layout order
	Limit    int      // 0 exports every record
	Compress bool
	Source   string // recorded in the manifest
}

// Manifest describes an export.
type Manifest struct {
	ID          string          `json:"id"`
	Source      string          `json:"source,omitempty"`
	Created     time.Time       `json:"created"`
	Records     int             `json:"records"`
	RecordSize  int             `json:"record_size"`
	DataOffset  uint64          `json:"data_offset"`
	Layout      string          `json:"layout"`
	Fields      []ManifestField `json:"fields"`
	Compression string          `json:"compression"`
}

type ManifestField struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Write streams the selected columns of f to w.
func Write(ctx context.Context, w io.Writer, f *merfish.File, opts Options) (*Manifest, error) {
	log := logger.FromContext(ctx)

	cols, err := selectColumns(f, opts.Fields)
	if err != nil {
		return nil, err
	}
	n := f.Len()
	if opts.Limit > 0 {
		n = min(n, opts.Limit)
	}

	m := &Manifest{
		ID:          uuid.NewString(),
		Source:      opts.Source,
		Created:     time.Now().UTC(),
		Records:     n,
		RecordSize:  f.Header().RecordSize(),
		DataOffset:  f.Header().DataOffset,
		Layout:      f.Layout().String(),
		Compression: "none",
	}
	for _, c := range cols {
		m.Fields = append(m.Fields, ManifestField{Name: c.Name(), Type: c.Type().String(), Count: c.Count()})
	}

	out := w
	var zw *zstd.Encoder
	if opts.Compress {
		zw, err = zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		defer func() {
			if zw != nil {
				_ = zw.Close()
			}
		}()
		out = zw
		m.Compression = "zstd"
	}
	bw := bufio.NewWriterSize(out, 1<<20)

	keys := make([][]byte, len(cols))
	for i, c := range cols {
		keys[i], err = json.Marshal(c.Name())
		if err != nil {
			return nil, err
		}
	}

	var line bytes.Buffer
	for i := 0; i < n; i++ {
		if i%progressEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if i > 0 {
				log.Debug("export progress", "records", i, "total", n)
			}
		}
		line.Reset()
		if err := encodeRecord(&line, keys, cols, i); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, err := bw.Write(line.Bytes()); err != nil {
			return nil, err
		}
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}
	if zw != nil {
		err := zw.Close()
		zw = nil
		if err != nil {
			return nil, fmt.Errorf("zstd close: %w", err)
		}
	}
	log.Info("exported records", "records", n, "fields", len(cols), "compression", m.Compression)
	return m, nil
}

// WriteFile exports to path and writes the manifest to path + ".manifest.json".
func WriteFile(ctx context.Context, path string, f *merfish.File, opts Options) (*Manifest, error) {
	out, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	m, err := Write(ctx, out, f, opts)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path+".manifest.json", append(raw, '\n'), 0o644); err != nil {
		return nil, err
	}
	return m, nil
}

func selectColumns(f *merfish.File, names []string) ([]*merfish.Column, error) {
	if len(names) == 0 {
		for _, fd := range f.Layout().Fields() {
			names = append(names, fd.Name)
		}
	}
	cols := make([]*merfish.Column, 0, len(names))
	for _, name := range names {
		c, err := f.Field(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}

func encodeRecord(buf *bytes.Buffer, keys [][]byte, cols []*merfish.Column, i int) error {
	buf.WriteByte('{')
	for k, c := range cols {
		if k > 0 {
			buf.WriteByte(',')
		}
		buf.Write(keys[k])
		buf.WriteByte(':')
		raw, err := json.Marshal(value(c, i))
		if err != nil {
			return fmt.Errorf("field %s: %w", c.Name(), err)
		}
		buf.Write(raw)
	}
	buf.WriteString("}\n")
	return nil
}

// value returns record i of c as a JSON friendly value. Repeated fields
// become arrays and char arrays become strings with trailing NULs removed.
func value(c *merfish.Column, i int) any {
	t := c.Type()
	if t == merfish.TypeChar && c.Count() > 1 {
		return string(bytes.TrimRight(c.Raw(i), "\x00"))
	}
	if c.Count() == 1 {
		return scalar(c, t, i, 0)
	}
	vals := make([]any, c.Count())
	for j := range vals {
		vals[j] = scalar(c, t, i, j)
	}
	return vals
}

func scalar(c *merfish.Column, t merfish.ScalarType, i, j int) any {
	switch {
	case t.IsFloat():
		v := c.Float(i, j)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		if t == merfish.TypeFloat32 {
			return float32(v)
		}
		return v
	case t.IsSigned():
		return c.Int(i, j)
	default:
		return c.Uint(i, j)
	}
}
