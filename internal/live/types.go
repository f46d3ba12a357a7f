package live

import "time"

// Sample rates fixed by the live protocol: capture uploads 16 kHz mono
// PCM16, model audio arrives as 24 kHz mono PCM16.
const (
	CaptureSampleRate  = 16000
	PlaybackSampleRate = 24000
)

// State is the lifecycle of the live connection. It is mutated only by
// the Client.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Role identifies the speaker of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TranscriptEvent is one text fragment attributed to a speaker.
type TranscriptEvent struct {
	Text      string    `json:"text"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionConfig is fixed once a connection attempt starts. The model
// and system instruction come from the token grant, the voice from
// client configuration.
type SessionConfig struct {
	Model             string
	Voice             string
	SystemInstruction string
}

// Callbacks deliver session events. Nil entries are skipped. Inbound
// events arrive on the client's reader goroutine and must not block;
// user transcripts from SendText arrive on the caller's goroutine.
type Callbacks struct {
	OnStateChange  func(State)
	OnAudio        func(pcm []byte)
	OnTranscript   func(TranscriptEvent)
	OnInterrupted  func()
	OnTurnComplete func()
	OnError        func(error)
}
