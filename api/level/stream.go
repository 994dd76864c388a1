package levelapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 2 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow connections from any origin
	},
}

// events streams binary snapshots of a level over a websocket until the level closes
// or the client goes away.
func (lc *LevelController) events(ctx *gin.Context) {
	id, ok := levelID(ctx)
	if !ok {
		return
	}
	_, enc, ok := lc.encoder(ctx)
	if !ok {
		return
	}
	snapshots, cancel, err := lc.levels.Subscribe(id)
	if err != nil {
		lc.fail(ctx, err)
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		lc.logger.Warning(fmt.Sprintf("Upgrading stream of level %s: %v", id, err))
		return
	}
	defer conn.Close()

	// The reader only watches for the client closing the connection.
	gone := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	lc.logger.Info(fmt.Sprintf("Streaming level %s to %s", id, ctx.Request.RemoteAddr))

	for {
		select {
		case <-gone:
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case snap, ok := <-snapshots:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "level closed"),
					time.Now().Add(writeWait))
				return
			}
			data, err := enc.MarshalSnapshot(snap)
			if err != nil {
				lc.logger.Error(fmt.Sprintf("Encoding snapshot of level %s: %v", id, err))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		}
	}
}
