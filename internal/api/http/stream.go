package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/i474232898/city-weather/internal/session"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

// pingPeriod also paces how often a watched session's lifetime is extended.
var pingPeriod = (pongWait * 9) / 10

// registerStream exposes GET /sessions/:id/stream, a WebSocket that pushes the
// session view after every state change.
func registerStream(router fiber.Router, service *session.Service, bus *session.Bus) {
	handler := websocket.New(func(conn *websocket.Conn) {
		ctrl, ok := conn.Locals("session").(*session.Controller)
		if !ok {
			return
		}
		// Looking the session up keeps it alive while it is being watched.
		alive := func() bool {
			_, err := service.Get(ctrl.ID())
			return err == nil
		}
		streamSession(conn, ctrl, bus, alive)
	})

	router.Get("/sessions/:id/stream", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		ctrl, err := service.Get(c.Params("id"))
		if err != nil {
			return sessionError(err)
		}
		c.Locals("session", ctrl)
		return handler(c)
	})
}

// streamSession pushes views until the client leaves or alive reports the
// session gone.
func streamSession(conn *websocket.Conn, ctrl *session.Controller, bus *session.Bus, alive func() bool) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	states, err := bus.SubscribeState(ctx, ctrl.ID())
	if err != nil {
		return
	}

	// The read side only watches for close frames and pongs.
	go func() {
		defer cancel()
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	current := ctrl.View()
	last := current.Version
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(current); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			if st.Version <= last {
				continue
			}
			last = st.Version
			if !alive() {
				return
			}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(session.ViewOf(ctrl.ID(), ctrl.Mode(), st)); err != nil {
				return
			}
		case <-ticker.C:
			if !alive() {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
