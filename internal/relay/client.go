package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ColonelBlimp/morsechat/internal/chat"
	"github.com/ColonelBlimp/morsechat/internal/effect"
	"github.com/ColonelBlimp/morsechat/internal/recovery"
)

const (
	writeTimeout = 5 * time.Second
	// DefaultReconnectDelay is the pause between connection attempts
	DefaultReconnectDelay = 2 * time.Second
	defaultSendBuffer     = 64
	defaultEventBuffer    = 64
)

var (
	// ErrInvalidURL indicates the relay URL is not a ws:// or wss:// URL
	ErrInvalidURL = errors.New("relay url must use ws or wss scheme")
	// ErrUsernameRequired indicates the client needs a username to join
	ErrUsernameRequired = errors.New("username is required")
)

// Config holds relay client configuration
type Config struct {
	URL            string
	Room           string
	Username       string
	ReconnectDelay time.Duration
	Header         http.Header
	SendBuffer     int
}

// Client is a reconnecting websocket client for the room relay.
// Sends are fire-and-forget: they are queued and fail fast with
// ErrTransportUnavailable while disconnected.
type Client struct {
	config Config
	log    *slog.Logger
	dialer *websocket.Dialer
	now    func() time.Time

	out       chan []byte
	events    chan chat.Event
	errs      chan error
	connected atomic.Bool
}

// NewClient validates cfg and creates a client. Call Run to connect.
func NewClient(cfg Config, log *slog.Logger) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, cfg.URL)
	}
	if cfg.Username == "" {
		return nil, ErrUsernameRequired
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultSendBuffer
	}
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		config: cfg,
		log:    log.With("component", "relay"),
		dialer: websocket.DefaultDialer,
		now:    time.Now,
		out:    make(chan []byte, cfg.SendBuffer),
		events: make(chan chat.Event, defaultEventBuffer),
		errs:   make(chan error, defaultEventBuffer),
	}, nil
}

// Events delivers inbound events in arrival order.
func (c *Client) Events() <-chan chat.Event {
	return c.events
}

// Errors delivers recoverable errors: malformed frames and connection loss.
func (c *Client) Errors() <-chan error {
	return c.errs
}

// Connected reports whether a relay connection is currently up.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// SendMorse queues a transmit frame.
func (c *Client) SendMorse(_ context.Context, tx effect.Transmit) error {
	frame, err := EncodeMorse(tx, c.now())
	if err != nil {
		return fmt.Errorf("encode morse frame: %w", err)
	}
	return c.enqueue(frame)
}

// SendText queues a plain text frame.
func (c *Client) SendText(_ context.Context, text string) error {
	frame, err := EncodeText(text, c.now())
	if err != nil {
		return fmt.Errorf("encode text frame: %w", err)
	}
	return c.enqueue(frame)
}

func (c *Client) enqueue(frame []byte) error {
	if !c.connected.Load() {
		return fmt.Errorf("%w: not connected", ErrTransportUnavailable)
	}
	select {
	case c.out <- frame:
		return nil
	default:
		return fmt.Errorf("%w: send queue full", ErrTransportUnavailable)
	}
}

// Run connects and keeps reconnecting until ctx is canceled.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		c.connected.Store(false)
		if ctx.Err() != nil {
			return nil
		}
		c.log.Warn("relay connection lost", "error", err, "retry_in", c.config.ReconnectDelay)
		c.report(fmt.Errorf("%w: %v", ErrTransportUnavailable, err))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.config.ReconnectDelay):
		}
	}
}

// session runs one connection from dial to close.
func (c *Client) session(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.config.URL, c.config.Header)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	join, err := EncodeJoin(c.config.Room, c.config.Username)
	if err != nil {
		return fmt.Errorf("encode join: %w", err)
	}
	if err := c.write(conn, join); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	c.drainStale()
	c.connected.Store(true)
	c.log.Info("joined relay", "url", c.config.URL, "room", c.config.Room, "user", c.config.Username)

	readErr := make(chan error, 1)
	go func() {
		defer recovery.Recover(c.log, func(r any) { readErr <- fmt.Errorf("reader panic: %v", r) })
		readErr <- c.readLoop(ctx, conn)
	}()

	for {
		select {
		case <-ctx.Done():
			c.connected.Store(false)
			c.goodbye(conn)
			return ctx.Err()
		case err := <-readErr:
			return fmt.Errorf("read: %w", err)
		case frame := <-c.out:
			if err := c.write(conn, frame); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		ev, err := DecodeEvent(data)
		if err != nil {
			c.log.Warn("dropping inbound frame", "error", err)
			c.report(err)
			continue
		}
		select {
		case c.events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) write(conn *websocket.Conn, frame []byte) error {
	if err := conn.SetWriteDeadline(c.now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, frame)
}

// goodbye sends leave and a close frame, best-effort.
func (c *Client) goodbye(conn *websocket.Conn) {
	if leave, err := EncodeLeave(); err == nil {
		_ = c.write(conn, leave)
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, c.now().Add(writeTimeout))
}

// drainStale drops frames queued against a previous connection.
func (c *Client) drainStale() {
	for {
		select {
		case <-c.out:
		default:
			return
		}
	}
}

// report hands a recoverable error to the consumer without blocking.
func (c *Client) report(err error) {
	select {
	case c.errs <- err:
	default:
		c.log.Debug("relay error dropped, consumer too slow", "error", err)
	}
}
