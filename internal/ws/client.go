package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// Connection roles
const (
	RoleRed      = "red"
	RoleBlue     = "blue"
	RoleAudience = "audience"
	RoleGM       = "gm"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Same-origin policy is handled by the deployment; the game runs
	// on a trusted LAN or behind a reverse proxy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Client is one websocket connection with its role and outbound queue.
// done signals shutdown; send is never closed, so a broadcast in flight
// during a disconnect cannot hit a closed channel.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	role string
	send chan models.Event
	done chan struct{}
}

// Handler upgrades HTTP requests to websocket connections. The role
// comes from the ?role= query parameter and defaults to audience. On
// connect the client receives a replay of recent events so late
// joiners can rebuild the timeline.
func Handler(hub *Hub, history func() []models.Event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		switch role {
		case RoleRed, RoleBlue, RoleAudience, RoleGM:
		default:
			role = RoleAudience
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warn().Err(err).Msg("ws upgrade failed")
			return
		}

		client := &Client{
			hub:  hub,
			conn: conn,
			role: role,
			send: make(chan models.Event, sendBuffer),
			done: make(chan struct{}),
		}
		hub.register(client)

		if history != nil {
			for _, ev := range history() {
				select {
				case client.send <- ev:
				default:
				}
			}
		}

		go client.writePump()
		go client.readPump()
	}
}

// readPump drains inbound frames. Clients send nothing the server
// acts on; the read loop exists to process control frames and detect
// disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump serializes queued events onto the connection and keeps it
// alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
