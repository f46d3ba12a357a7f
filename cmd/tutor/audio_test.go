package main

import (
	"io"
	"math"
	"testing"

	"github.com/fluentloop/voice-tutor/internal/audio"
)

type chunkedReader struct {
	data  []byte
	sizes []int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := len(p)
	if len(c.sizes) > 0 {
		n = c.sizes[0]
		c.sizes = c.sizes[1:]
	}
	if n > len(c.data) {
		n = len(c.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func (c *chunkedReader) Close() error { return nil }

func TestMicSource_Read(t *testing.T) {
	samples := []int16{0, 16384, -16384, 32767}
	src := &micSource{out: &chunkedReader{data: audio.Int16ToPCMBytes(samples)}}

	p := make([]float32, 4)
	n, err := src.Read(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 samples, got %d", n)
	}

	want := audio.Int16ToFloat32(samples)
	for i := range want {
		if math.Abs(float64(p[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d: expected %f, got %f", i, want[i], p[i])
		}
	}
}

func TestMicSource_Read_OddChunk(t *testing.T) {
	samples := []int16{100, -200, 300}
	src := &micSource{out: &chunkedReader{
		data: audio.Int16ToPCMBytes(samples),
		// First read ends mid-sample; Read must top the byte up rather
		// than shift every later sample by one byte.
		sizes: []int{3, 1, 2},
	}}

	p := make([]float32, 3)
	total := 0
	for total < 3 {
		n, err := src.Read(p[total:])
		if err != nil && err != io.EOF {
			t.Fatalf("unexpected error: %v", err)
		}
		total += n
		if err == io.EOF {
			break
		}
	}
	if total != 3 {
		t.Fatalf("expected 3 samples, got %d", total)
	}

	want := audio.Int16ToFloat32(samples)
	for i := range want {
		if math.Abs(float64(p[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d: expected %f, got %f", i, want[i], p[i])
		}
	}
}

func TestMicSource_Read_Empty(t *testing.T) {
	src := &micSource{out: &chunkedReader{}}
	if n, err := src.Read(nil); n != 0 || err != nil {
		t.Fatalf("expected 0, nil for empty read, got %d, %v", n, err)
	}

	p := make([]float32, 8)
	n, err := src.Read(p)
	if n != 0 {
		t.Errorf("expected 0 samples at EOF, got %d", n)
	}
	if err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

