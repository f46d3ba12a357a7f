package live

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/fluentloop/voice-tutor/internal/token"
)

type liveTestServer struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu       sync.Mutex
	conns    []*websocket.Conn
	received [][]byte
}

func newLiveTestServer(t *testing.T) *liveTestServer {
	ts := &liveTestServer{}
	ts.srv = httptest.NewServer(http.HandlerFunc(ts.handle))
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *liveTestServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := ts.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ts.mu.Lock()
	ts.conns = append(ts.conns, conn)
	ts.mu.Unlock()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		ts.mu.Lock()
		ts.received = append(ts.received, data)
		ts.mu.Unlock()
	}
}

func (ts *liveTestServer) host() string {
	return strings.TrimPrefix(ts.srv.URL, "http://")
}

func (ts *liveTestServer) connCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.conns)
}

func (ts *liveTestServer) frames() [][]byte {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([][]byte, len(ts.received))
	copy(out, ts.received)
	return out
}

func (ts *liveTestServer) lastConn(t *testing.T) *websocket.Conn {
	t.Helper()
	waitFor(t, func() bool { return ts.connCount() > 0 }, "server connection")
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.conns[len(ts.conns)-1]
}

func (ts *liveTestServer) push(t *testing.T, frame string) {
	t.Helper()
	conn := ts.lastConn(t)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("push frame: %v", err)
	}
}

type stubTokens struct {
	mu             sync.Mutex
	grant          token.Grant
	err            error
	calls          int
	gotInstruction string
}

func (s *stubTokens) Token(_ context.Context, instruction string) (*token.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.gotInstruction = instruction
	if s.err != nil {
		return nil, s.err
	}
	g := s.grant
	if instruction != "" {
		g.SystemInstruction = instruction
	}
	return &g, nil
}

type sessionRecorder struct {
	mu          sync.Mutex
	states      []State
	transcripts []TranscriptEvent
	audio       [][]byte
	interrupts  int
	errs        []error
}

func (r *sessionRecorder) callbacks() Callbacks {
	return Callbacks{
		OnStateChange: func(s State) {
			r.mu.Lock()
			r.states = append(r.states, s)
			r.mu.Unlock()
		},
		OnAudio: func(pcm []byte) {
			r.mu.Lock()
			r.audio = append(r.audio, pcm)
			r.mu.Unlock()
		},
		OnTranscript: func(ev TranscriptEvent) {
			r.mu.Lock()
			r.transcripts = append(r.transcripts, ev)
			r.mu.Unlock()
		},
		OnInterrupted: func() {
			r.mu.Lock()
			r.interrupts++
			r.mu.Unlock()
		},
		OnError: func(err error) {
			r.mu.Lock()
			r.errs = append(r.errs, err)
			r.mu.Unlock()
		},
	}
}

func (r *sessionRecorder) stateSeq() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.states))
	copy(out, r.states)
	return out
}

func (r *sessionRecorder) audioChunks() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.audio))
	copy(out, r.audio)
	return out
}

func (r *sessionRecorder) transcriptEvents() []TranscriptEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TranscriptEvent, len(r.transcripts))
	copy(out, r.transcripts)
	return out
}

func (r *sessionRecorder) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func (r *sessionRecorder) interruptCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interrupts
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestClient(ts *liveTestServer) (*Client, *sessionRecorder, *stubTokens) {
	rec := &sessionRecorder{}
	tokens := &stubTokens{grant: token.Grant{
		Token:             "test-key",
		Model:             "models/gemini-2.0-flash-live-001",
		SystemInstruction: "You are a patient language tutor.",
	}}
	c := NewClient(
		Config{Host: ts.host(), Voice: "Kore", Insecure: true},
		tokens, rec.callbacks(), discardLogger())
	return c, rec, tokens
}

func TestClient_ConnectHandshake(t *testing.T) {
	ts := newLiveTestServer(t)
	c, rec, _ := newTestClient(ts)
	defer c.Disconnect()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	seq := rec.stateSeq()
	if len(seq) != 2 || seq[0] != StateConnecting || seq[1] != StateConnected {
		t.Errorf("expected [connecting connected], got %v", seq)
	}
	if c.State() != StateConnected {
		t.Errorf("expected Connected, got %s", c.State())
	}

	waitFor(t, func() bool { return len(ts.frames()) > 0 }, "setup frame")
	var frame map[string]json.RawMessage
	if err := json.Unmarshal(ts.frames()[0], &frame); err != nil {
		t.Fatalf("decode first frame: %v", err)
	}
	raw, ok := frame["setup"]
	if !ok {
		t.Fatal("first outbound frame is not the session setup")
	}
	var setup struct {
		Model            string `json:"model"`
		GenerationConfig struct {
			ResponseModalities []string `json:"responseModalities"`
			SpeechConfig       struct {
				VoiceConfig struct {
					PrebuiltVoiceConfig struct {
						VoiceName string `json:"voiceName"`
					} `json:"prebuiltVoiceConfig"`
				} `json:"voiceConfig"`
			} `json:"speechConfig"`
		} `json:"generationConfig"`
		SystemInstruction struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"systemInstruction"`
	}
	if err := json.Unmarshal(raw, &setup); err != nil {
		t.Fatalf("decode setup payload: %v", err)
	}
	if setup.Model != "models/gemini-2.0-flash-live-001" {
		t.Errorf("unexpected model '%s'", setup.Model)
	}
	if len(setup.GenerationConfig.ResponseModalities) != 1 || setup.GenerationConfig.ResponseModalities[0] != "AUDIO" {
		t.Errorf("expected AUDIO modality, got %v", setup.GenerationConfig.ResponseModalities)
	}
	if setup.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Kore" {
		t.Error("expected voice selection in setup frame")
	}
	if len(setup.SystemInstruction.Parts) != 1 || setup.SystemInstruction.Parts[0].Text != "You are a patient language tutor." {
		t.Error("expected system instruction in setup frame")
	}
}

func TestClient_SetupFrameSentOnce(t *testing.T) {
	ts := newLiveTestServer(t)
	c, _, _ := newTestClient(ts)
	defer c.Disconnect()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := c.SendText("bom dia"); err != nil {
		t.Fatalf("send text: %v", err)
	}
	if err := c.SendAudioChunk([]byte{0x01, 0x02}); err != nil {
		t.Fatalf("send audio: %v", err)
	}

	waitFor(t, func() bool { return len(ts.frames()) >= 3 }, "outbound frames")
	setups := 0
	for _, data := range ts.frames() {
		var frame map[string]json.RawMessage
		if err := json.Unmarshal(data, &frame); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if _, ok := frame["setup"]; ok {
			setups++
		}
	}
	if setups != 1 {
		t.Errorf("expected exactly one setup frame, got %d", setups)
	}
}

func TestClient_SecondConnectRejected(t *testing.T) {
	ts := newLiveTestServer(t)
	c, _, tokens := newTestClient(ts)
	defer c.Disconnect()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	err := c.Connect(context.Background())
	if err == nil {
		t.Fatal("expected second connect to be rejected")
	}
	if !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("expected ErrAlreadyConnected, got %v", err)
	}
	if ts.connCount() != 1 {
		t.Errorf("expected a single socket, got %d", ts.connCount())
	}
	if tokens.calls != 1 {
		t.Errorf("rejected connect should not fetch a token, got %d calls", tokens.calls)
	}
	if c.State() != StateConnected {
		t.Errorf("active session should be untouched, state %s", c.State())
	}
}

func TestClient_SendText_Connected(t *testing.T) {
	ts := newLiveTestServer(t)
	c, rec, _ := newTestClient(ts)
	defer c.Disconnect()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := c.SendText("Oi"); err != nil {
		t.Fatalf("send text: %v", err)
	}

	events := rec.transcriptEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 transcript event, got %d", len(events))
	}
	if events[0].Text != "Oi" || events[0].Role != RoleUser {
		t.Errorf("expected user transcript 'Oi', got %+v", events[0])
	}

	waitFor(t, func() bool { return len(ts.frames()) >= 2 }, "client content frame")
	var frame struct {
		ClientContent struct {
			Turns []struct {
				Role  string `json:"role"`
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"turns"`
			TurnComplete bool `json:"turnComplete"`
		} `json:"clientContent"`
	}
	if err := json.Unmarshal(ts.frames()[1], &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if len(frame.ClientContent.Turns) != 1 {
		t.Fatal("expected one turn")
	}
	turn := frame.ClientContent.Turns[0]
	if turn.Role != "user" || len(turn.Parts) != 1 || turn.Parts[0].Text != "Oi" {
		t.Errorf("unexpected turn %+v", turn)
	}
	if !frame.ClientContent.TurnComplete {
		t.Error("text injection must mark the turn complete")
	}
}

func TestClient_SendText_NotConnected(t *testing.T) {
	ts := newLiveTestServer(t)
	c, rec, _ := newTestClient(ts)

	err := c.SendText("Oi")
	if err == nil {
		t.Fatal("expected not-connected error")
	}
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if shared.KindOf(err) != shared.KindTransport {
		t.Errorf("expected transport kind, got %q", shared.KindOf(err))
	}
	if len(rec.transcriptEvents()) != 0 {
		t.Error("rejected send must not emit a transcript event")
	}
	if ts.connCount() != 0 {
		t.Error("rejected send must not open a socket")
	}
}

func TestClient_SendAudioChunk(t *testing.T) {
	ts := newLiveTestServer(t)
	c, _, _ := newTestClient(ts)
	defer c.Disconnect()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	pcm := []byte{0x10, 0x20, 0x30, 0x40}
	if err := c.SendAudioChunk(pcm); err != nil {
		t.Fatalf("send audio: %v", err)
	}

	waitFor(t, func() bool { return len(ts.frames()) >= 2 }, "audio frame")
	var frame struct {
		RealtimeInput struct {
			MediaChunks []struct {
				MimeType string `json:"mimeType"`
				Data     string `json:"data"`
			} `json:"mediaChunks"`
		} `json:"realtimeInput"`
	}
	if err := json.Unmarshal(ts.frames()[1], &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if len(frame.RealtimeInput.MediaChunks) != 1 {
		t.Fatal("expected one media chunk")
	}
	chunk := frame.RealtimeInput.MediaChunks[0]
	if chunk.MimeType != "audio/pcm;rate=16000" {
		t.Errorf("unexpected mime type '%s'", chunk.MimeType)
	}
	decoded, err := base64.StdEncoding.DecodeString(chunk.Data)
	if err != nil {
		t.Fatalf("chunk data is not base64: %v", err)
	}
	if !bytes.Equal(decoded, pcm) {
		t.Errorf("expected pcm %v, got %v", pcm, decoded)
	}
}

func TestClient_InboundAudio(t *testing.T) {
	ts := newLiveTestServer(t)
	c, rec, _ := newTestClient(ts)
	defer c.Disconnect()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	pcm := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	ts.push(t, string(audioFrameJSON(pcm)))

	waitFor(t, func() bool { return len(rec.audioChunks()) > 0 }, "inbound audio")
	chunks := rec.audioChunks()
	if len(chunks) != 1 {
		t.Fatalf("expected exactly one chunk, got %d", len(chunks))
	}
	if !bytes.Equal(chunks[0], pcm) {
		t.Errorf("expected pcm %v, got %v", pcm, chunks[0])
	}
}

func TestClient_Interrupted(t *testing.T) {
	ts := newLiveTestServer(t)
	c, rec, _ := newTestClient(ts)
	defer c.Disconnect()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	ts.push(t, `{"serverContent":{"interrupted":true}}`)

	waitFor(t, func() bool { return rec.interruptCount() == 1 }, "interruption")
}

func TestClient_MalformedFrameKeepsSessionOpen(t *testing.T) {
	ts := newLiveTestServer(t)
	c, rec, _ := newTestClient(ts)
	defer c.Disconnect()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	ts.push(t, `this is not json`)
	ts.push(t, string(audioFrameJSON([]byte{0x01, 0x02})))

	waitFor(t, func() bool { return len(rec.audioChunks()) == 1 }, "audio after malformed frame")
	if c.State() != StateConnected {
		t.Errorf("a bad frame must not close the session, state %s", c.State())
	}
	if rec.errorCount() != 0 {
		t.Errorf("frame-level errors must stay contained, got %d", rec.errorCount())
	}
}

func TestClient_DisconnectIdempotent(t *testing.T) {
	ts := newLiveTestServer(t)
	c, rec, _ := newTestClient(ts)

	// never connected
	c.Disconnect()
	if c.State() != StateDisconnected {
		t.Errorf("expected Disconnected, got %s", c.State())
	}
	if len(rec.stateSeq()) != 0 {
		t.Error("disconnect from Disconnected should not emit a transition")
	}

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	c.Disconnect()
	c.Disconnect()
	c.Disconnect()

	if c.State() != StateDisconnected {
		t.Errorf("expected Disconnected, got %s", c.State())
	}
	seq := rec.stateSeq()
	disconnects := 0
	for _, s := range seq {
		if s == StateDisconnected {
			disconnects++
		}
	}
	if disconnects != 1 {
		t.Errorf("repeated disconnects should emit a single transition, got %d in %v", disconnects, seq)
	}
}

func TestClient_ReconnectAfterDisconnect(t *testing.T) {
	ts := newLiveTestServer(t)
	c, _, tokens := newTestClient(ts)
	defer c.Disconnect()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("first connect: %v", err)
	}
	c.Disconnect()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("second connect: %v", err)
	}
	if c.State() != StateConnected {
		t.Errorf("expected Connected, got %s", c.State())
	}
	if tokens.calls != 2 {
		t.Errorf("each connect consumes a fresh token, got %d calls", tokens.calls)
	}
	if ts.connCount() != 2 {
		t.Errorf("expected a fresh socket per connect, got %d", ts.connCount())
	}
}

func TestClient_TokenFailure(t *testing.T) {
	ts := newLiveTestServer(t)
	rec := &sessionRecorder{}
	tokens := &stubTokens{err: errors.New("mint service down")}
	c := NewClient(Config{Host: ts.host(), Insecure: true}, tokens, rec.callbacks(), discardLogger())

	err := c.Connect(context.Background())
	if err == nil {
		t.Fatal("expected connect to fail")
	}
	if shared.KindOf(err) != shared.KindTokenAcquisition {
		t.Errorf("expected token_acquisition kind, got %q", shared.KindOf(err))
	}
	if ts.connCount() != 0 {
		t.Error("token failure must prevent the dial")
	}

	seq := rec.stateSeq()
	want := []State{StateConnecting, StateError, StateDisconnected}
	if len(seq) != len(want) {
		t.Fatalf("expected states %v, got %v", want, seq)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("expected states %v, got %v", want, seq)
		}
	}
	if rec.errorCount() != 1 {
		t.Errorf("expected one error event, got %d", rec.errorCount())
	}
	if c.State() != StateDisconnected {
		t.Errorf("expected Disconnected, got %s", c.State())
	}
}

func TestClient_RemoteClose(t *testing.T) {
	ts := newLiveTestServer(t)
	c, rec, _ := newTestClient(ts)

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	conn := ts.lastConn(t)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(time.Second))
	conn.Close()

	waitFor(t, func() bool { return c.State() == StateDisconnected }, "disconnected state")
	if rec.errorCount() != 0 {
		t.Errorf("clean remote close is not an error, got %d events", rec.errorCount())
	}
}

func TestClient_TransportFailure(t *testing.T) {
	ts := newLiveTestServer(t)
	c, rec, _ := newTestClient(ts)

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	// kill the socket without a close frame
	ts.lastConn(t).Close()

	waitFor(t, func() bool { return c.State() == StateDisconnected }, "disconnected state")
	if rec.errorCount() != 1 {
		t.Fatalf("expected one transport error, got %d", rec.errorCount())
	}
	rec.mu.Lock()
	kind := shared.KindOf(rec.errs[0])
	rec.mu.Unlock()
	if kind != shared.KindTransport {
		t.Errorf("expected transport kind, got %q", kind)
	}

	seq := rec.stateSeq()
	if len(seq) < 2 || seq[len(seq)-2] != StateError || seq[len(seq)-1] != StateDisconnected {
		t.Errorf("expected ...error,disconnected, got %v", seq)
	}
}

func TestClient_InstructionOverride(t *testing.T) {
	ts := newLiveTestServer(t)
	rec := &sessionRecorder{}
	tokens := &stubTokens{grant: token.Grant{
		Token:             "test-key",
		Model:             "models/gemini-2.0-flash-live-001",
		SystemInstruction: "default prompt",
	}}
	c := NewClient(
		Config{Host: ts.host(), SystemInstruction: "Focus on past tense drills.", Insecure: true},
		tokens, rec.callbacks(), discardLogger())
	defer c.Disconnect()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if tokens.gotInstruction != "Focus on past tense drills." {
		t.Errorf("override not forwarded to provider, got '%s'", tokens.gotInstruction)
	}

	waitFor(t, func() bool { return len(ts.frames()) > 0 }, "setup frame")
	var frame struct {
		Setup struct {
			SystemInstruction struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"systemInstruction"`
		} `json:"setup"`
	}
	if err := json.Unmarshal(ts.frames()[0], &frame); err != nil {
		t.Fatalf("decode setup: %v", err)
	}
	parts := frame.Setup.SystemInstruction.Parts
	if len(parts) != 1 || parts[0].Text != "Focus on past tense drills." {
		t.Errorf("setup should carry the resolved instruction, got %+v", parts)
	}
}
