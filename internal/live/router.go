package live

import (
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"github.com/fluentloop/voice-tutor/internal/shared"
)

// router turns inbound frames into callback invocations. A malformed
// frame is logged and dropped; the connection stays open.
type router struct {
	cb     Callbacks
	logger *slog.Logger
}

func newRouter(cb Callbacks, logger *slog.Logger) *router {
	return &router{cb: cb, logger: logger}
}

func (r *router) dispatch(data []byte) {
	frame, err := parseServerFrame(data)
	if err != nil {
		r.logger.Warn("dropping malformed frame", "error", shared.ProtocolError("live.parse", err))
		return
	}

	switch {
	case frame.SetupComplete != nil:
		r.logger.Debug("setup acknowledged")
	case frame.ServerContent != nil:
		r.handleServerContent(frame.ServerContent)
	default:
		r.logger.Debug("ignoring unrecognized frame")
	}
}

func (r *router) handleServerContent(sc *serverContent) {
	if sc.Interrupted {
		r.logger.Debug("model turn interrupted")
		if r.cb.OnInterrupted != nil {
			r.cb.OnInterrupted()
		}
		return
	}

	if sc.ModelTurn != nil {
		for _, p := range sc.ModelTurn.Parts {
			r.handlePart(p)
		}
	}

	if sc.TurnComplete {
		r.logger.Debug("model turn complete")
		if r.cb.OnTurnComplete != nil {
			r.cb.OnTurnComplete()
		}
	}
}

func (r *router) handlePart(p part) {
	switch {
	case p.InlineData != nil:
		if !strings.HasPrefix(p.InlineData.MimeType, audioMimePrefix) {
			r.logger.Warn("dropping part with unsupported mime type", "mime_type", p.InlineData.MimeType)
			return
		}
		pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
		if err != nil {
			r.logger.Warn("dropping undecodable audio part", "error", shared.ProtocolError("live.decode", err))
			return
		}
		if r.cb.OnAudio != nil {
			r.cb.OnAudio(pcm)
		}
	case p.Text != "":
		if r.cb.OnTranscript != nil {
			r.cb.OnTranscript(TranscriptEvent{
				Text:      p.Text,
				Role:      RoleAssistant,
				Timestamp: time.Now(),
			})
		}
	}
}
