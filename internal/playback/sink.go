package playback

import (
	"context"
	"io"
	"time"

	"github.com/fluentloop/voice-tutor/internal/audio"
)

// StreamSink renders chunks by writing PCM16 to a byte stream, such as
// an audio player's stdin pipe. Play paces itself to the chunk's wall
// clock duration so the engine's queue drains in real time, and honors
// cancellation mid-chunk.
type StreamSink struct {
	w    io.Writer
	rate int
}

func NewStreamSink(w io.Writer, sampleRate int) *StreamSink {
	if sampleRate <= 0 {
		sampleRate = SampleRate
	}
	return &StreamSink{w: w, rate: sampleRate}
}

func (s *StreamSink) Play(ctx context.Context, samples []float32) error {
	if len(samples) == 0 {
		return nil
	}

	start := time.Now()
	pcm := audio.Int16ToPCMBytes(audio.Float32ToInt16(samples))
	if _, err := s.w.Write(pcm); err != nil {
		return err
	}

	duration := time.Duration(len(samples)) * time.Second / time.Duration(s.rate)
	if sleep := duration - time.Since(start); sleep > 0 {
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
