package tutor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fluentloop/voice-tutor/internal/capture"
	"github.com/fluentloop/voice-tutor/internal/live"
	"github.com/fluentloop/voice-tutor/internal/playback"
	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/fluentloop/voice-tutor/internal/token"
)

// Recorder persists transcript lines as they arrive. Failures are
// logged and never interrupt the session.
type Recorder interface {
	Record(ctx context.Context, evt live.TranscriptEvent) error
}

// Events is the observer surface a UI hangs off the session. Nil
// entries are skipped. OnAssistantAudio reports when model speech
// starts and stops rendering, including stops caused by barge-in.
type Events struct {
	OnState          func(live.State)
	OnTranscript     func(live.TranscriptEvent)
	OnAssistantAudio func(speaking bool)
	OnLevel          func(rms float64)
	OnError          func(error)
}

type Config struct {
	Live    live.Config
	Capture capture.Config

	// Mic acquires the microphone at Start. Nil runs a text-only
	// session.
	Mic capture.OpenFunc

	// Sink renders model audio. Required.
	Sink playback.Sink

	// Recorder receives every transcript line. Optional.
	Recorder Recorder

	Events Events
}

// Session wires the live client, the capture engine and the playback
// engine into one tutoring conversation. Model interruptions clear
// playback, transcripts fan out to the recorder and the observer, and
// Close tears the parts down in input-to-output order.
type Session struct {
	id       string
	client   *live.Client
	mic      *capture.Engine
	speaker  *playback.Engine
	micOpen  capture.OpenFunc
	recorder Recorder
	events   Events
	log      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func New(cfg Config, tokens token.Provider, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}

	id := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		id:       id,
		micOpen:  cfg.Mic,
		recorder: cfg.Recorder,
		events:   cfg.Events,
		log:      log.With("session_id", id),
		ctx:      ctx,
		cancel:   cancel,
	}

	s.speaker = playback.NewEngine(cfg.Sink, s.log)
	s.speaker.SetCallbacks(
		func() { s.emitAssistantAudio(true) },
		func() { s.emitAssistantAudio(false) },
	)

	s.client = live.NewClient(cfg.Live, tokens, live.Callbacks{
		OnStateChange:  s.onStateChange,
		OnAudio:        s.onAudio,
		OnTranscript:   s.onTranscript,
		OnInterrupted:  s.onInterrupted,
		OnTurnComplete: s.onTurnComplete,
		OnError:        s.onError,
	}, s.log)

	s.mic = capture.NewEngine(cfg.Capture, s.client, capture.Callbacks{
		OnError: s.onError,
		OnLevel: cfg.Events.OnLevel,
	}, s.log)

	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() live.State {
	return s.client.State()
}

// Start connects the live session and then opens the microphone. A
// microphone permission failure is reported through OnError but does
// not fail the start: the session stays connected for text and
// playback.
func (s *Session) Start(ctx context.Context) error {
	if err := s.client.Connect(ctx); err != nil {
		return err
	}

	if s.micOpen == nil {
		s.log.Info("session started without microphone")
		return nil
	}

	if err := s.mic.Start(ctx, s.micOpen); err != nil {
		if shared.KindOf(err) == shared.KindPermission {
			s.log.Warn("microphone unavailable, continuing without capture", "error", err)
			s.onError(err)
			return nil
		}
		return err
	}
	return nil
}

// SendText forwards a typed utterance. It fails when the session is
// not connected and then has no side effects.
func (s *Session) SendText(text string) error {
	return s.client.SendText(text)
}

// Interrupt cuts model speech off locally, exactly as a detected
// barge-in from the server would.
func (s *Session) Interrupt() {
	s.speaker.Clear()
}

// Close stops capture, drops any queued playback and disconnects.
// It is safe to call from any session state, repeatedly.
func (s *Session) Close() error {
	s.mic.Stop()
	s.speaker.Clear()
	s.client.Disconnect()
	s.cancel()
	s.log.Info("session closed")
	return nil
}

func (s *Session) onStateChange(state live.State) {
	// a session that is no longer connected holds no audio resources:
	// the microphone is released and queued playback dropped
	if state == live.StateError || state == live.StateDisconnected {
		s.mic.Stop()
		s.speaker.Clear()
	}
	if s.events.OnState != nil {
		s.events.OnState(state)
	}
}

func (s *Session) onAudio(pcm []byte) {
	s.speaker.Enqueue(s.ctx, pcm)
}

func (s *Session) onTranscript(evt live.TranscriptEvent) {
	if s.recorder != nil {
		if err := s.recorder.Record(s.ctx, evt); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Error("recording transcript", "role", evt.Role, "error", err)
		}
	}
	if s.events.OnTranscript != nil {
		s.events.OnTranscript(evt)
	}
}

func (s *Session) onInterrupted() {
	s.log.Debug("model interrupted, clearing playback")
	s.speaker.Clear()
}

func (s *Session) onTurnComplete() {
	s.log.Debug("model turn complete")
}

func (s *Session) onError(err error) {
	if s.events.OnError != nil {
		s.events.OnError(err)
	}
}

func (s *Session) emitAssistantAudio(speaking bool) {
	if s.events.OnAssistantAudio != nil {
		s.events.OnAssistantAudio(speaking)
	}
}
