package playback

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fluentloop/voice-tutor/internal/audio"
	"github.com/fluentloop/voice-tutor/internal/shared"
)

// SampleRate is the rate of inbound model audio.
const SampleRate = 24000

// Sink renders a decoded chunk. Play blocks until the chunk finishes
// rendering or ctx is canceled; cancellation must stop output promptly
// rather than letting the chunk finish.
type Sink interface {
	Play(ctx context.Context, samples []float32) error
}

// Engine renders inbound PCM16 chunks strictly in arrival order. A
// single drain loop is started on the empty-to-nonempty transition and
// exits once it observes an empty queue; the playing flag is the sole
// guard against two loops running at once, so it is only touched under
// the mutex.
type Engine struct {
	sink   Sink
	logger *slog.Logger

	mu      sync.Mutex
	queue   [][]byte
	ctx     context.Context
	cancel  context.CancelFunc
	playing bool
	started bool
	onStart func()
	onEnd   func()
}

func NewEngine(sink Sink, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		sink:   sink,
		logger: logger,
		queue:  make([][]byte, 0),
	}
}

// SetCallbacks registers hooks for the start and end of a playback
// burst. onEnd also fires when a burst is cut short by Clear.
func (e *Engine) SetCallbacks(onStart, onEnd func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onStart = onStart
	e.onEnd = onEnd
}

// Enqueue appends one PCM16 chunk and starts the drain loop if none is
// active. Chunk ownership passes to the engine.
func (e *Engine) Enqueue(ctx context.Context, pcm []byte) {
	e.mu.Lock()
	wasEmpty := len(e.queue) == 0 && !e.playing
	e.queue = append(e.queue, pcm)

	var loopCtx context.Context
	if wasEmpty {
		loopCtx, e.cancel = context.WithCancel(ctx)
		e.ctx = loopCtx
		e.started = false
	}
	e.mu.Unlock()

	if wasEmpty {
		go e.drain(loopCtx)
	}
}

// drain pops and renders chunks until the queue empties or ctx is
// canceled. The ctx check happens under the mutex so a loop canceled by
// Clear can never pop a chunk that belongs to its successor.
func (e *Engine) drain(ctx context.Context) {
	e.mu.Lock()
	if ctx.Err() != nil {
		e.mu.Unlock()
		return
	}
	onStart := e.onStart
	e.started = true
	e.mu.Unlock()

	if onStart != nil {
		onStart()
	}

	for {
		e.mu.Lock()
		if ctx.Err() != nil {
			// Clear already reset the flags and fired onEnd
			e.mu.Unlock()
			return
		}
		if len(e.queue) == 0 {
			e.playing = false
			e.started = false
			onEnd := e.onEnd
			e.mu.Unlock()

			if onEnd != nil {
				onEnd()
			}
			return
		}

		pcm := e.queue[0]
		e.queue = e.queue[1:]
		e.playing = true
		e.mu.Unlock()

		samples := audio.Int16ToFloat32(audio.PCMBytesToInt16(pcm))
		if err := e.sink.Play(ctx, samples); err != nil {
			if ctx.Err() != nil {
				return
			}
			e.logger.Warn("skipping chunk", "error", shared.PlaybackError("playback.render", err))
		}
	}
}

// Clear atomically empties the queue and stops the chunk currently
// rendering. The next Enqueue starts a fresh loop from a clean state.
func (e *Engine) Clear() {
	e.mu.Lock()
	wasStarted := e.started
	e.queue = nil
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.ctx = nil
	e.playing = false
	e.started = false
	onEnd := e.onEnd
	e.mu.Unlock()

	if wasStarted && onEnd != nil {
		onEnd()
	}
}

func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing || len(e.queue) > 0
}
