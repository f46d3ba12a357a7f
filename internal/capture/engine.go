package capture

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fluentloop/voice-tutor/internal/audio"
	"github.com/fluentloop/voice-tutor/internal/shared"
)

// SampleRate is the rate microphone sources must deliver samples at.
const SampleRate = 16000

const (
	DefaultChunkDuration     = 250 * time.Millisecond
	DefaultMaxBufferedChunks = 8
)

var (
	ErrAlreadyRunning = errors.New("capture already running")

	// ErrPermissionDenied is what openers return when the platform
	// refuses microphone access.
	ErrPermissionDenied = errors.New("microphone permission denied")
)

// Source is a live microphone stream of mono float32 samples, delivered
// at Config.SourceRate. Read follows io.Reader semantics over samples
// and must be unblocked by Close.
type Source interface {
	Read(p []float32) (int, error)
	Close() error
}

// OpenFunc acquires the microphone. It runs under the caller's context
// so a canceled start does not leave a stream open.
type OpenFunc func(ctx context.Context) (Source, error)

// Uplink is where encoded chunks go, normally the live client.
type Uplink interface {
	SendAudioChunk(pcm []byte) error
	IsConnected() bool
}

type Config struct {
	// ChunkDuration sets the window size handed to the uplink.
	ChunkDuration time.Duration

	// SourceRate is the rate the source actually delivers at, for
	// hardware that cannot produce SampleRate natively; the engine
	// resamples each window down. Zero means the source already
	// delivers SampleRate.
	SourceRate int

	// BufferWhileDisconnected holds chunks produced while the uplink
	// is down and replays them on reconnect, keeping at most
	// MaxBufferedChunks. The zero value drops such chunks instead,
	// which bounds memory and keeps the session live-only.
	BufferWhileDisconnected bool
	MaxBufferedChunks       int
}

func (cfg Config) normalized() Config {
	if cfg.ChunkDuration <= 0 {
		cfg.ChunkDuration = DefaultChunkDuration
	}
	if cfg.SourceRate <= 0 {
		cfg.SourceRate = SampleRate
	}
	if cfg.MaxBufferedChunks <= 0 {
		cfg.MaxBufferedChunks = DefaultMaxBufferedChunks
	}
	return cfg
}

// Callbacks are invoked from the capture goroutine. Nil entries are
// skipped. OnLevel receives the window's RMS energy and must not
// retain the underlying samples.
type Callbacks struct {
	OnError func(error)
	OnLevel func(rms float64)
}

// Engine windows microphone samples into fixed-size chunks, encodes
// them to PCM16 and hands them to the uplink. Chunks produced while
// the uplink is not connected are dropped or buffered per Config.
type Engine struct {
	cfg    Config
	uplink Uplink
	cb     Callbacks
	logger *slog.Logger

	mu      sync.Mutex
	source  Source
	cancel  context.CancelFunc
	done    chan struct{}
	backlog [][]byte
	running bool

	dropped atomic.Uint64
}

func NewEngine(cfg Config, uplink Uplink, cb Callbacks, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg.normalized(),
		uplink: uplink,
		cb:     cb,
		logger: logger,
	}
}

// Start opens the microphone and begins streaming. Open failures are
// permission errors and leave the engine stopped; they never affect
// playback or the connection. The stream runs until Stop, even if the
// source ends or fails first.
func (e *Engine) Start(ctx context.Context, open OpenFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrAlreadyRunning
	}

	src, err := open(ctx)
	if err != nil {
		return shared.PermissionError("capture.open", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.source = src
	e.cancel = cancel
	e.done = done
	e.running = true

	e.logger.Info("capture started",
		"chunk_ms", e.cfg.ChunkDuration.Milliseconds(),
		"buffer_while_disconnected", e.cfg.BufferWhileDisconnected)

	go e.run(runCtx, src, done)
	return nil
}

// Stop releases the microphone and waits for the capture goroutine to
// exit. Calling it again, or before Start, is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	cancel := e.cancel
	src := e.source
	done := e.done
	e.cancel = nil
	e.source = nil
	e.done = nil
	e.backlog = nil
	e.mu.Unlock()

	cancel()
	if err := src.Close(); err != nil {
		e.logger.Debug("closing capture source", "error", err)
	}
	<-done

	e.logger.Info("capture stopped", "dropped_chunks", e.dropped.Load())
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Dropped reports how many chunks were discarded, whether by the
// disconnect policy, backlog overflow or send failures.
func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

// Buffered reports how many chunks are waiting for a reconnect.
func (e *Engine) Buffered() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.backlog)
}

func (e *Engine) run(ctx context.Context, src Source, done chan struct{}) {
	defer close(done)

	window := int(e.cfg.ChunkDuration * time.Duration(e.cfg.SourceRate) / time.Second)
	if window < 1 {
		window = 1
	}
	buf := make([]float32, window)
	filled := 0

	for {
		n, err := src.Read(buf[filled:])
		if n > 0 {
			filled += n
			if filled == len(buf) {
				e.flushWindow(buf)
				filled = 0
			}
		}
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			serr := shared.PermissionError("capture.read", err)
			e.logger.Error("capture stream failed", "error", serr)
			if e.cb.OnError != nil {
				e.cb.OnError(serr)
			}
			return
		}
	}
}

// flushWindow encodes one full window and applies the disconnect
// policy at the moment the chunk is ready.
func (e *Engine) flushWindow(samples []float32) {
	if e.cb.OnLevel != nil {
		e.cb.OnLevel(audio.RMSEnergy(samples))
	}
	if e.cfg.SourceRate != SampleRate {
		samples = audio.Resample(samples, e.cfg.SourceRate, SampleRate)
	}
	pcm := audio.Int16ToPCMBytes(audio.Float32ToInt16(samples))

	if !e.uplink.IsConnected() {
		if e.cfg.BufferWhileDisconnected {
			e.stash(pcm)
		} else {
			e.dropped.Add(1)
			e.logger.Debug("dropping capture chunk while disconnected")
		}
		return
	}

	e.flushBacklog()

	if err := e.uplink.SendAudioChunk(pcm); err != nil {
		e.dropped.Add(1)
		e.logger.Debug("capture chunk not sent", "error", err)
	}
}

func (e *Engine) stash(pcm []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.backlog = append(e.backlog, pcm)
	if over := len(e.backlog) - e.cfg.MaxBufferedChunks; over > 0 {
		e.backlog = e.backlog[over:]
		e.dropped.Add(uint64(over))
		e.logger.Debug("capture backlog full, dropping oldest chunk")
	}
}

func (e *Engine) flushBacklog() {
	e.mu.Lock()
	backlog := e.backlog
	e.backlog = nil
	e.mu.Unlock()

	if len(backlog) == 0 {
		return
	}
	e.logger.Debug("flushing buffered capture chunks", "count", len(backlog))
	for _, pcm := range backlog {
		if err := e.uplink.SendAudioChunk(pcm); err != nil {
			e.dropped.Add(1)
		}
	}
}
