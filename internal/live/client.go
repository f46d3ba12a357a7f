package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fluentloop/voice-tutor/internal/shared"
	"github.com/fluentloop/voice-tutor/internal/token"
)

const (
	defaultHost = "generativelanguage.googleapis.com"
	livePath    = "/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	writeWait      = 10 * time.Second
	maxMessageSize = 512 * 1024
)

var (
	ErrAlreadyConnected = errors.New("connection already active")
	ErrNotConnected     = errors.New("not connected")
)

// Config controls how the client reaches the live endpoint. The system
// instruction is an override forwarded to the token provider; when
// empty the provider's default applies.
type Config struct {
	Host              string
	Voice             string
	SystemInstruction string

	// Insecure dials ws instead of wss. Tests only.
	Insecure bool
}

// Client owns the live socket and drives its state machine. At most
// one connection is active at a time, and a transport failure is
// terminal for the session: there is no automatic reconnect, the
// caller must Connect again.
type Client struct {
	cfg    Config
	tokens token.Provider
	cb     Callbacks
	router *router
	logger *slog.Logger

	mu    sync.Mutex
	state State
	conn  *websocket.Conn
	// gen bumps on every teardown so stale dials and readers detect
	// they lost to a disconnect.
	gen uint64

	writeMu sync.Mutex
}

func NewClient(cfg Config, tokens token.Provider, cb Callbacks, logger *slog.Logger) *Client {
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		cb:     cb,
		router: newRouter(cb, logger),
		logger: logger,
	}
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Connect acquires a token, opens the socket and sends the session
// setup frame, which is always the first outbound frame and is sent
// exactly once per handshake. A Connect while already Connecting or
// Connected is rejected without touching the active socket.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateConnected {
		c.mu.Unlock()
		return shared.TransportError("live.connect", ErrAlreadyConnected)
	}
	c.state = StateConnecting
	gen := c.gen
	c.mu.Unlock()
	c.emitState(StateConnecting)

	grant, err := c.tokens.Token(ctx, c.cfg.SystemInstruction)
	if err != nil {
		return c.failConnect(gen, shared.TokenError("live.token", err))
	}

	c.logger.Info("dialing live endpoint", "host", c.cfg.Host, "model", grant.Model)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.dialURL(grant), nil)
	if err != nil {
		return c.failConnect(gen, shared.TransportError("live.dial", err))
	}

	c.mu.Lock()
	if c.gen != gen || c.state != StateConnecting {
		c.mu.Unlock()
		conn.Close()
		return shared.TransportError("live.connect", ErrNotConnected)
	}
	c.conn = conn
	c.mu.Unlock()

	if err := c.writeFrame("live.setup", conn, newSetupFrame(c.sessionConfig(grant))); err != nil {
		c.releaseConn(gen)
		conn.Close()
		return c.failConnect(gen, err)
	}
	c.logger.Debug("session setup sent", "voice", c.cfg.Voice)

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return shared.TransportError("live.connect", ErrNotConnected)
	}
	c.state = StateConnected
	c.mu.Unlock()
	c.emitState(StateConnected)
	c.logger.Info("live session established")

	go c.readLoop(conn, gen)
	return nil
}

// Disconnect tears the session down from any state and converges on
// Disconnected. Repeated calls are no-ops.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.state == StateDisconnected {
		c.mu.Unlock()
		return
	}
	conn := c.conn
	c.conn = nil
	c.gen++
	c.state = StateDisconnected
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		_ = conn.Close()
	}
	c.logger.Info("live session closed")
	c.emitState(StateDisconnected)
}

// SendAudioChunk transmits one capture window of 16 kHz PCM16 audio.
// It fails with a not-connected transport error when no session is
// established; the caller decides whether that loss matters.
func (c *Client) SendAudioChunk(pcm []byte) error {
	return c.send("live.audio", newAudioFrame(pcm))
}

// SendText injects a complete user turn as plain text. On success the
// utterance is also delivered to OnTranscript with the user role; a
// rejected send has no side effects.
func (c *Client) SendText(text string) error {
	if err := c.send("live.text", newTextFrame(text)); err != nil {
		return err
	}
	if c.cb.OnTranscript != nil {
		c.cb.OnTranscript(TranscriptEvent{Text: text, Role: RoleUser, Timestamp: time.Now()})
	}
	return nil
}

func (c *Client) send(op string, frame any) error {
	c.mu.Lock()
	if c.state != StateConnected || c.conn == nil {
		c.mu.Unlock()
		return shared.TransportError(op, ErrNotConnected)
	}
	conn := c.conn
	c.mu.Unlock()
	return c.writeFrame(op, conn, frame)
}

func (c *Client) writeFrame(op string, conn *websocket.Conn, frame any) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return shared.ProtocolError(op, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return shared.TransportError(op, err)
	}
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn, gen uint64) {
	conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleReadError(conn, gen, err)
			return
		}
		c.router.dispatch(data)
	}
}

func (c *Client) handleReadError(conn *websocket.Conn, gen uint64, err error) {
	remoteClose := websocket.IsCloseError(err,
		websocket.CloseNormalClosure, websocket.CloseGoingAway)

	c.mu.Lock()
	if c.gen != gen {
		// a local Disconnect already tore this session down
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.gen++
	if remoteClose {
		c.state = StateDisconnected
		c.mu.Unlock()
		conn.Close()
		c.logger.Info("live session closed by remote")
		c.emitState(StateDisconnected)
		return
	}
	c.state = StateError
	c.mu.Unlock()
	conn.Close()

	serr := shared.TransportError("live.read", err)
	c.logger.Error("live transport failure", "error", serr)
	c.emitState(StateError)
	c.emitError(serr)
	c.settleDisconnected()
}

// failConnect reports a failed connection attempt: Error state, error
// event, then forced back to Disconnected. If a concurrent Disconnect
// already tore the attempt down, only the error is returned.
func (c *Client) failConnect(gen uint64, serr error) error {
	c.logger.Error("connect failed", "kind", shared.KindOf(serr), "error", serr)

	c.mu.Lock()
	if c.gen != gen || c.state != StateConnecting {
		c.mu.Unlock()
		return serr
	}
	c.state = StateError
	c.mu.Unlock()

	c.emitState(StateError)
	c.emitError(serr)
	c.settleDisconnected()
	return serr
}

// settleDisconnected forces the terminal Error state back down to
// Disconnected unless a callback already disconnected or reconnected.
func (c *Client) settleDisconnected() {
	c.mu.Lock()
	if c.state != StateError {
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnected
	c.gen++
	c.mu.Unlock()
	c.emitState(StateDisconnected)
}

func (c *Client) releaseConn(gen uint64) {
	c.mu.Lock()
	if c.gen == gen {
		c.conn = nil
	}
	c.mu.Unlock()
}

func (c *Client) sessionConfig(grant *token.Grant) SessionConfig {
	return SessionConfig{
		Model:             grant.Model,
		Voice:             c.cfg.Voice,
		SystemInstruction: grant.SystemInstruction,
	}
}

func (c *Client) dialURL(grant *token.Grant) string {
	scheme := "wss"
	if c.cfg.Insecure {
		scheme = "ws"
	}
	u := url.URL{Scheme: scheme, Host: c.cfg.Host, Path: livePath}
	q := u.Query()
	if grant.Ephemeral {
		q.Set("access_token", grant.Token)
	} else {
		q.Set("key", grant.Token)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) emitState(s State) {
	c.logger.Info("live session state", "state", s.String())
	if c.cb.OnStateChange != nil {
		c.cb.OnStateChange(s)
	}
}

func (c *Client) emitError(err error) {
	if c.cb.OnError != nil {
		c.cb.OnError(err)
	}
}
