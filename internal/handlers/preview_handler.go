package handlers

import (
	"log"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/realtime"
)

// PreviewSocket is the builder→preview live sync channel. A builder and
// its preview windows share a session id; builder frames are relayed
// one-way to the previews (the same-origin postMessage path still works
// when the preview is an embedded iframe — this socket covers detached
// preview windows and cross-device previews).
func PreviewSocket(hub *realtime.Hub) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		session := conn.Query("session")
		role := conn.Query("role", realtime.RolePreview)
		if session == "" {
			_ = conn.Close()
			return
		}
		if role != realtime.RoleBuilder {
			role = realtime.RolePreview
		}

		client := &realtime.Client{
			ID:      uuid.NewString(),
			Session: session,
			Role:    role,
			Conn:    realtime.NewWebSocketConn(conn),
			Send:    make(chan []byte, 16),
		}
		hub.RegisterClient(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			// previews are listeners only; their frames are dropped
			if role == realtime.RoleBuilder {
				hub.Push(session, raw)
			}
		}

		// unregistering closes client.Send, which ends the writer
		hub.UnregisterClient(client)
		<-done
		_ = conn.Close()
		log.Printf("Preview socket closed: %s (session %s)", client.ID, session)
	}
}
