package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hoshinonyaruko/gridsnake/snake"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamHandler upgrades to a websocket, pushes one JSON snapshot per tick
// and reads direction names ("up", "down", "left", "right") from the client.
func StreamHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := openFromQuery(c, m)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("upgrade %s: %v", s.ID, err)
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		// 读协程: 只负责方向输入
		go func() {
			defer cancel()
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				if d, ok := structs.ParseDirection(strings.TrimSpace(string(msg))); ok {
					s.PushDirection(d)
				}
			}
		}()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		err = snake.Drive(ctx, ticker.C, s, func(snap structs.RenderSnapshot) error {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			return conn.WriteJSON(snap)
		})
		switch {
		case errors.Is(err, snake.ErrBoardFull):
			closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, snake.StateBoardFull.String())
			if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait)); err != nil {
				log.Printf("close %s: %v", s.ID, err)
			}
		case err != nil && !errors.Is(err, context.Canceled):
			log.Printf("stream %s: %v", s.ID, err)
		}

		if err := m.Save(s); err != nil {
			log.Printf("save %s: %v", s.ID, err)
		}
	}
}
