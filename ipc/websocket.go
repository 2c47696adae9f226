package ipc

import (
	"context"
	"errors"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/lixenwraith/liquid-glass/command"
	"github.com/lixenwraith/liquid-glass/engine"
	"github.com/lixenwraith/liquid-glass/parameter"
)

// handleWebsocket serves command frames and pushes a config event after every commit
func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	scoped := s.logger.With().Str("remote", c.Request.RemoteAddr).Logger()
	scoped.Debug().Msg("websocket client connected")

	updates, unsubscribe := s.eng.Subscribe(parameter.SubscriberBuffer)
	defer unsubscribe()
	go s.pushConfig(ctx, conn, updates)

	for {
		var msg Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				scoped.Debug().Msg("websocket client disconnected")
			} else {
				scoped.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}

		reply := Message{ID: msg.ID}
		switch msg.Type {
		case TypeCommand:
			err := s.eng.Execute(ctx, command.ForNode(msg.Node), msg.Command)
			res := command.NewResult(err)
			reply.Type = TypeResult
			reply.Result = &res
		default:
			reply.Type = TypeError
			reply.Error = "unknown message type " + msg.Type
		}

		if err := s.write(ctx, conn, reply); err != nil {
			scoped.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}
}

func (s *Server) pushConfig(ctx context.Context, conn *websocket.Conn, updates <-chan engine.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "engine stopped")
				return
			}
			ev := Message{
				Type:   TypeConfig,
				Config: &ConfigReply{Generation: u.Generation, Params: u.Params},
			}
			if err := s.write(ctx, conn, ev); err != nil {
				return
			}
		}
	}
}

func (s *Server) write(ctx context.Context, conn *websocket.Conn, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, parameter.WebsocketWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}
