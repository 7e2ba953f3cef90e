package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/service"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Time allowed for the input handler to finish one action
	inputTimeout = 5 * time.Second
)

// Events sent to clients
const (
	EventStateUpdate = "state_update"
	EventError       = "error"
)

// Actions accepted from clients
const (
	ActionMove    = "move"
	ActionAdvance = "advance"
	ActionRestart = "restart"
	ActionReset   = "reset"
	ActionState   = "state"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the envelope pushed to every client of a session
type Message struct {
	SessionID string              `json:"sessionId"`
	GameState *engine.GameState   `json:"gameState,omitempty"`
	Event     string              `json:"event"`
	Events    []service.GameEvent `json:"events,omitempty"`
	Data      interface{}         `json:"data,omitempty"`
}

// ClientMessage is an action sent by a client over its connection
type ClientMessage struct {
	Action    string `json:"action"`
	Direction string `json:"direction,omitempty"`
}

// InputHandler applies a client action to a session. The hub broadcasts the
// returned state to every client of the session; an error is sent back to the
// client that sent the action only.
type InputHandler func(ctx context.Context, sessionID string, msg ClientMessage) (*engine.GameState, []service.GameEvent, error)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type reply struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients per session
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	broadcast  chan *Message
	direct     chan *reply
	register   chan *Client
	unregister chan *Client

	input InputHandler
}

// NewHub creates a hub. input may be nil, in which case inbound actions are ignored.
func NewHub(input InputHandler) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, engine.WebSocketBufferSize),
		direct:     make(chan *reply, engine.WebSocketBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		input:      input,
	}
}

// Run serves the hub channels until ctx is cancelled. All access to the
// session map happens on this goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.sessions {
				for client := range clients {
					close(client.send)
				}
			}
			h.sessions = make(map[string]map[*Client]bool)
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.deliver(message)

		case r := <-h.direct:
			if clients, ok := h.sessions[r.client.sessionID]; ok && clients[r.client] {
				select {
				case r.client.send <- r.data:
				default:
					h.unregisterClient(r.client)
				}
			}
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true
	log.WithFields(log.Fields{
		"session": client.sessionID,
		"clients": len(h.sessions[client.sessionID]),
	}).Debug("websocket client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}
	log.WithField("session", client.sessionID).Debug("websocket client unregistered")
}

// deliver queues the message for every client of its session and drops
// clients whose buffers are full
func (h *Hub) deliver(message *Message) {
	clients := h.sessions[message.SessionID]
	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.WithError(err).WithField("session", message.SessionID).Error("failed to marshal websocket message")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.unregisterClient(client)
		}
	}
}

// ServeWS upgrades the request and attaches the connection to sessionID
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("session", sessionID).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, engine.WebSocketBufferSize),
		sessionID: sessionID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastToSession sends the current state to all clients of a session
func (h *Hub) BroadcastToSession(sessionID string, state *engine.GameState, events ...service.GameEvent) {
	h.enqueue(&Message{
		SessionID: sessionID,
		GameState: state,
		Event:     EventStateUpdate,
		Events:    events,
	})
}

// BroadcastUpdate forwards a timed transition reported by the game service
func (h *Hub) BroadcastUpdate(update *service.SessionUpdate) {
	if update == nil {
		return
	}
	h.BroadcastToSession(update.SessionID, update.GameState, update.Events...)
}

// BroadcastEvent sends a custom event to all clients of a session
func (h *Hub) BroadcastEvent(sessionID, event string, data interface{}) {
	h.enqueue(&Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	})
}

func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		log.WithField("session", message.SessionID).Warn("websocket broadcast queue full, dropping message")
	}
}

// handle runs one inbound action through the input handler
func (c *Client) handle(raw []byte) {
	if c.hub.input == nil {
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.replyError(err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), inputTimeout)
	defer cancel()

	state, events, err := c.hub.input(ctx, c.sessionID, msg)
	if err != nil {
		c.replyError(err)
		return
	}
	if state != nil {
		c.hub.BroadcastToSession(c.sessionID, state, events...)
	}
}

func (c *Client) replyError(err error) {
	data, mErr := json.Marshal(&Message{
		SessionID: c.sessionID,
		Event:     EventError,
		Data:      err.Error(),
	})
	if mErr != nil {
		return
	}
	select {
	case c.hub.direct <- &reply{client: c, data: data}:
	default:
	}
}

// readPump pumps actions from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).WithField("session", c.sessionID).Warn("websocket read error")
			}
			break
		}
		c.handle(raw)
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
