package client

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ConnState is the connection state of the push channel
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

const (
	// DefaultReconnectAttempts bounds automatic reconnection; after this
	// many consecutive failures the channel stays disconnected until
	// Reconnect is called.
	DefaultReconnectAttempts = 5
	// DefaultReconnectDelay is the base delay between reconnection attempts
	DefaultReconnectDelay = 1 * time.Second
	// maxReconnectDelay caps the backoff between attempts
	maxReconnectDelay = 30 * time.Second
)

// frame is the wire format of every server push message
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// listenerHandle identifies one registered dispatch function. Removal is
// by handle identity, so deregistering detaches exactly the function
// that was registered.
type listenerHandle struct {
	fn func(json.RawMessage)
}

// Channel is one realtime connection to the server. The process holds at
// most one, owned by Acquire; it outlives any single consumer and keeps
// its listener registry across reconnects.
type Channel struct {
	endpoint    string
	maxAttempts int
	baseDelay   time.Duration

	mu        sync.Mutex
	conn      *websocket.Conn
	state     ConnState
	sid       string
	listeners map[string]map[*listenerHandle]struct{}
	running   bool

	stopOnce sync.Once
	stop     chan struct{}
}

// Module-level singleton channel: one connection for the whole process.
var (
	singletonMu  sync.Mutex
	singleton    *Channel
	endpointOpts = struct {
		url string
	}{}
)

// SetSocketURL overrides the push endpoint for channels created by later
// Acquire calls. Call before the first Acquire (or after ResetForTest).
func SetSocketURL(rawURL string) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	endpointOpts.url = rawURL
}

// Acquire returns the process-wide push channel, creating and connecting
// it on first use. Connection failures are retried in the background and
// never surface to the caller; listeners registered before the channel
// connects receive events once it does.
func Acquire() *Channel {
	singletonMu.Lock()
	defer singletonMu.Unlock()

	if singleton == nil {
		singleton = newChannel(resolveSocketURL(endpointOpts.url))
		singleton.startLocked()
	}
	return singleton
}

// ResetForTest tears down the singleton so test cases start from a clean
// connection state. Not for production use.
func ResetForTest() {
	singletonMu.Lock()
	defer singletonMu.Unlock()

	if singleton != nil {
		singleton.shutdown()
		singleton = nil
	}
	endpointOpts.url = ""
}

func resolveSocketURL(override string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv("SOCKET_URL"); env != "" {
		return env
	}
	return "http://localhost:5000"
}

func newChannel(rawURL string) *Channel {
	return &Channel{
		endpoint:    rawURL,
		maxAttempts: DefaultReconnectAttempts,
		baseDelay:   DefaultReconnectDelay,
		state:       StateDisconnected,
		listeners:   make(map[string]map[*listenerHandle]struct{}),
		stop:        make(chan struct{}),
	}
}

// wsURL converts the configured HTTP endpoint into the websocket URL
func (c *Channel) wsURL() (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid socket URL %q: %w", c.endpoint, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported socket URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}

// State returns the current connection state
func (c *Channel) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the session id assigned by the server on the most
// recent successful connect, or "" if never connected.
func (c *Channel) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sid
}

// Reconnect forces a fresh connection attempt. Used after the bounded
// automatic retries have been exhausted; a no-op while the channel is
// still connecting or connected.
func (c *Channel) Reconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.startLocked()
}

func (c *Channel) startLocked() {
	c.running = true
	go c.run()
}

func (c *Channel) shutdown() {
	c.stopOnce.Do(func() { close(c.stop) })
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.mu.Unlock()
}

func (c *Channel) stopped() bool {
	select {
	case <-c.stop:
		return true
	default:
		return false
	}
}

// run dials, reads until the connection drops, and reconnects with
// capped backoff up to the configured bound. Listener registrations are
// independent of the connection, so nothing re-subscribes on reconnect.
func (c *Channel) run() {
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	target, err := c.wsURL()
	if err != nil {
		log.Printf("[WARNING] Push channel disabled: %v", err)
		return
	}

	attempts := 0
	for {
		if c.stopped() {
			return
		}

		c.setState(StateConnecting)
		conn, _, err := websocket.DefaultDialer.Dial(target, nil)
		if err != nil {
			c.setState(StateDisconnected)
			attempts++
			if attempts > c.maxAttempts {
				log.Printf("[WARNING] Push channel gave up after %d attempts: %v", c.maxAttempts, err)
				return
			}
			if !c.waitBackoff(attempts) {
				return
			}
			continue
		}

		attempts = 0
		c.mu.Lock()
		c.conn = conn
		c.state = StateConnected
		c.mu.Unlock()

		c.readLoop(conn)

		c.mu.Lock()
		c.conn = nil
		c.state = StateDisconnected
		c.mu.Unlock()

		if c.stopped() {
			return
		}
		log.Printf("Push channel disconnected, reconnecting")
		attempts++
		if attempts > c.maxAttempts {
			log.Printf("[WARNING] Push channel gave up after %d reconnect attempts", c.maxAttempts)
			return
		}
		if !c.waitBackoff(attempts) {
			return
		}
	}
}

// waitBackoff sleeps for the capped backoff delay; false means the
// channel was shut down while waiting.
func (c *Channel) waitBackoff(attempt int) bool {
	delay := c.baseDelay * time.Duration(attempt)
	if delay > maxReconnectDelay {
		delay = maxReconnectDelay
	}
	select {
	case <-time.After(delay):
		return true
	case <-c.stop:
		return false
	}
}

func (c *Channel) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var f frame
		if err := json.Unmarshal(payload, &f); err != nil {
			log.Printf("[WARNING] Dropping malformed push frame: %v", err)
			continue
		}

		if f.Event == "connected" {
			var hello struct {
				SID string `json:"sid"`
			}
			if err := json.Unmarshal(f.Data, &hello); err == nil {
				c.mu.Lock()
				c.sid = hello.SID
				c.mu.Unlock()
				log.Printf("Push channel connected: %s", hello.SID)
			}
		}

		c.dispatch(f.Event, f.Data)
	}
}

// dispatch invokes every listener registered for the event. Handles are
// snapshotted under the lock so a listener may deregister itself.
func (c *Channel) dispatch(event string, data json.RawMessage) {
	c.mu.Lock()
	handles := make([]*listenerHandle, 0, len(c.listeners[event]))
	for h := range c.listeners[event] {
		handles = append(handles, h)
	}
	c.mu.Unlock()

	for _, h := range handles {
		h.fn(data)
	}
}

// on registers fn for an event and returns the handle needed to
// deregister it.
func (c *Channel) on(event string, fn func(json.RawMessage)) *listenerHandle {
	h := &listenerHandle{fn: fn}
	c.mu.Lock()
	set, ok := c.listeners[event]
	if !ok {
		set = make(map[*listenerHandle]struct{})
		c.listeners[event] = set
	}
	set[h] = struct{}{}
	c.mu.Unlock()
	return h
}

// off deregisters a specific handle
func (c *Channel) off(event string, h *listenerHandle) {
	if h == nil {
		return
	}
	c.mu.Lock()
	if set, ok := c.listeners[event]; ok {
		delete(set, h)
		if len(set) == 0 {
			delete(c.listeners, event)
		}
	}
	c.mu.Unlock()
}
