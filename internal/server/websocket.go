package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/magefree/battle-engine-go/internal/battle/autopilot"
	"github.com/magefree/battle-engine-go/internal/battle/encounter"
	"github.com/magefree/battle-engine-go/internal/battle/engine"
	"github.com/magefree/battle-engine-go/internal/battle/rules"
	"github.com/magefree/battle-engine-go/internal/config"
	"go.uber.org/zap"
)

// Client message types.
const (
	MsgStart  = "start"
	MsgAction = "action"
	MsgState  = "state"
)

// Server message types.
const (
	RespWelcome  = "welcome"
	RespStarted  = "started"
	RespEvent    = "event"
	RespState    = "state"
	RespFinished = "finished"
	RespSummary  = "summary"
	RespError    = "error"
)

// Battle modes for MsgStart.
const (
	ModeManual    = "manual"
	ModeAutopilot = "autopilot"
)

// WSMessage is a client request.
type WSMessage struct {
	Type   string           `json:"type"`
	Setup  *encounter.Setup `json:"setup,omitempty"`
	Seed   string           `json:"seed,omitempty"`
	Mode   string           `json:"mode,omitempty"`
	Action *rules.Action    `json:"action,omitempty"`
}

// WSResponse is a server push.
type WSResponse struct {
	Type     string       `json:"type"`
	ClientID string       `json:"client_id,omitempty"`
	BattleID string       `json:"battle_id,omitempty"`
	Seed     string       `json:"seed,omitempty"`
	Event    *rules.Event `json:"event,omitempty"`
	State    *StateView   `json:"state,omitempty"`
	Accepted *bool        `json:"accepted,omitempty"`
	Won      *bool        `json:"won,omitempty"`
	Digest   string       `json:"digest,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// Hub tracks connected clients and fans battle summaries out to all of them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stopped    chan struct{}
	count      atomic.Int64
	logger     *zap.Logger
}

// NewHub creates a hub; call Run to start it.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		stopped:    make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			h.logger.Debug("client connected", zap.String("client_id", client.id))
		case client := <-h.unregister:
			if h.clients[client] {
				delete(h.clients, client)
				h.count.Store(int64(len(h.clients)))
				h.logger.Debug("client disconnected", zap.String("client_id", client.id))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
				}
			}
		case <-ctx.Done():
			close(h.stopped)
			for client := range h.clients {
				client.close()
			}
			h.clients = make(map[*Client]bool)
			h.count.Store(0)
			return
		}
	}
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.stopped:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	return int(h.count.Load())
}

// Broadcast queues resp for every client. It drops the message when the hub
// is backed up.
func (h *Hub) Broadcast(resp WSResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("failed to encode broadcast", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast dropped", zap.String("type", resp.Type))
	}
}

// Client is one websocket connection. It runs at most one battle at a time;
// the battle is only touched from the read loop.
type Client struct {
	id     string
	hub    *Hub
	svc    *BattleService
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once

	writeTimeout time.Duration
	stepDelay    time.Duration
	logger       *zap.Logger

	battle  *engine.Engine
	setup   encounter.Setup
	actions []rules.Action
	handle  int
}

// WebSocketHandler upgrades requests and runs a Client per connection.
type WebSocketHandler struct {
	hub      *Hub
	svc      *BattleService
	cfg      config.WebSocketConfig
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler creates the battle feed handler.
func NewWebSocketHandler(hub *Hub, svc *BattleService, cfg config.WebSocketConfig, logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &WebSocketHandler{hub: hub, svc: svc, cfg: cfg, logger: logger}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range h.cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		id:           uuid.NewString(),
		hub:          h.hub,
		svc:          h.svc,
		conn:         conn,
		send:         make(chan []byte, 256),
		done:         make(chan struct{}),
		cancel:       cancel,
		writeTimeout: h.cfg.WriteTimeout,
		stepDelay:    h.cfg.StepDelay,
		logger:       h.logger,
	}
	if !h.hub.add(client) {
		client.close()
		return
	}

	go client.writePump()
	client.enqueue(WSResponse{Type: RespWelcome, ClientID: client.id})
	client.readPump(ctx)
}

func (c *Client) close() {
	c.once.Do(func() {
		c.cancel()
		close(c.done)
		c.conn.Close()
	})
}

// enqueue blocks until the writer accepts the message or the client closes.
func (c *Client) enqueue(resp WSResponse) bool {
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Error("failed to encode message", zap.Error(err))
		return false
	}
	select {
	case c.send <- data:
		return true
	case <-c.done:
		return false
	}
}

func (c *Client) fail(message string) {
	c.enqueue(WSResponse{Type: RespError, Error: message})
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.remove(c)
		c.close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.fail("malformed message")
			continue
		}
		c.handleMessage(ctx, msg)
	}
}

func (c *Client) writePump() {
	defer c.close()

	for {
		select {
		case message := <-c.send:
			if c.writeTimeout > 0 {
				c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) handleMessage(ctx context.Context, msg WSMessage) {
	switch msg.Type {
	case MsgStart:
		c.start(ctx, msg)
	case MsgAction:
		if c.battle == nil {
			c.fail("no battle is running")
			return
		}
		if msg.Action == nil {
			c.fail("action is required")
			return
		}
		c.dispatch(*msg.Action)
		c.sendState()
		if c.battle.IsOver() {
			c.finish(ctx)
		}
	case MsgState:
		if c.battle == nil {
			c.fail("no battle is running")
			return
		}
		c.sendState()
	default:
		c.fail("unknown message type " + strconv.Quote(msg.Type))
	}
}

func (c *Client) start(ctx context.Context, msg WSMessage) {
	if c.battle != nil {
		c.fail("a battle is already running")
		return
	}
	if msg.Setup == nil {
		c.fail(encounter.ErrEmptySetup.Error())
		return
	}
	var seed uint64
	if msg.Seed != "" {
		parsed, err := strconv.ParseUint(msg.Seed, 10, 64)
		if err != nil {
			c.fail("invalid seed")
			return
		}
		seed = parsed
	}
	mode := msg.Mode
	if mode == "" {
		mode = ModeManual
	}
	if mode != ModeManual && mode != ModeAutopilot {
		c.fail("unknown mode " + strconv.Quote(mode))
		return
	}

	e, setup, err := c.svc.NewBattle(*msg.Setup, seed)
	if err != nil {
		c.fail(err.Error())
		return
	}
	c.battle, c.setup, c.actions = e, setup, nil
	c.handle = e.Subscribe(func(event rules.Event) {
		c.enqueue(WSResponse{Type: RespEvent, Event: &event})
	})

	c.enqueue(WSResponse{Type: RespStarted, Seed: strconv.FormatUint(e.Seed(), 10)})
	e.StartBattle()
	c.sendState()

	if mode == ModeAutopilot {
		c.runAutopilot(ctx)
	}
	if c.battle != nil && c.battle.IsOver() {
		c.finish(ctx)
	}
}

func (c *Client) runAutopilot(ctx context.Context) {
	limit := c.svc.battle.MaxActions
	for !c.battle.IsOver() {
		if limit > 0 && len(c.actions) >= limit {
			c.fail(autopilot.ErrActionLimit.Error())
			c.reset()
			return
		}
		if c.stepDelay > 0 {
			select {
			case <-time.After(c.stepDelay):
			case <-ctx.Done():
				c.reset()
				return
			}
		} else if ctx.Err() != nil {
			c.reset()
			return
		}
		c.dispatch(autopilot.Choose(c.battle, c.svc.Library()))
	}
	c.sendState()
}

func (c *Client) dispatch(action rules.Action) {
	c.actions = append(c.actions, action)
	accepted := c.battle.Dispatch(action)
	if !accepted {
		c.enqueue(WSResponse{Type: RespState, Accepted: &accepted})
	}
}

func (c *Client) sendState() {
	view := newStateView(c.battle)
	c.enqueue(WSResponse{Type: RespState, State: &view})
}

func (c *Client) finish(ctx context.Context) {
	rec, err := c.svc.Record(ctx, c.battle, c.setup, c.actions)
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Error("failed to record battle", zap.String("client_id", c.id), zap.Error(err))
	}
	won := c.battle.State().PlayerWon
	seed := strconv.FormatUint(c.battle.Seed(), 10)
	c.enqueue(WSResponse{Type: RespFinished, BattleID: rec.BattleID, Seed: seed, Won: &won, Digest: rec.Digest})
	c.hub.Broadcast(WSResponse{Type: RespSummary, ClientID: c.id, BattleID: rec.BattleID, Seed: seed, Won: &won})
	c.reset()
}

func (c *Client) reset() {
	if c.battle != nil {
		c.battle.Unsubscribe(c.handle)
	}
	c.battle, c.actions = nil, nil
}

// StartWebSocketServer serves the battle feed on cfg.Address until ctx is
// done.
func StartWebSocketServer(ctx context.Context, cfg config.WebSocketConfig, handler http.Handler, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, handler)
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting WebSocket server", zap.String("address", cfg.Address), zap.String("path", cfg.Path))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
