package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"Skirmish/modules/kit/logx"
)

// Server 把 HTTP 请求升级成 ws 连接，挂在 gin 的 /ws 上。
type Server struct {
	router   *Router
	codec    Codec
	upgrader websocket.Upgrader
	log      logx.Logger
}

func NewServer(r *Router, needSecret bool, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router: r,
		codec:  NewCodec(needSecret),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: l,
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	conn := NewWsServer(wsConn, s.router, s.codec, s.log)
	s.log.Info("websocket upgrade success",
		zap.String("conn_id", conn.ID()),
		zap.String("addr", conn.Addr()),
	)
	conn.Run()
}
