package interfaces

import (
	nethttp "net/http"

	"Skirmish/internal/battle/interfaces/handler"
	battlehttp "Skirmish/internal/battle/interfaces/handler/http"
	battlews "Skirmish/internal/battle/interfaces/handler/ws"
	"Skirmish/internal/shared/transport/ws"
	"Skirmish/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Module 把对局的 http 路由、/ws 升级入口和 /metrics 挂到同一个 gin 上。
type Module struct {
	http    *battlehttp.HttpHandler
	ws      *ws.Server
	metrics nethttp.Handler
}

// NewModule metrics 为空时不挂 /metrics。
func NewModule(b *handler.Battle, needSecret bool, metrics nethttp.Handler, l logx.Logger) *Module {
	if l == nil {
		l = logx.Nop()
	}
	router := ws.NewRouter(l)
	battlews.NewWsHandler(b).RegisterRoutes(router)
	l.Info("ws routes registered", zap.Strings("routes", router.Routes()))

	return &Module{
		http:    battlehttp.NewHttpHandler(b),
		ws:      ws.NewServer(router, needSecret, l),
		metrics: metrics,
	}
}

func (m *Module) RegisterHTTP(r gin.IRouter) {
	m.http.RegisterRoutes(r)
	r.GET("/ws", gin.WrapH(m.ws))
	if m.metrics != nil {
		r.GET("/metrics", gin.WrapH(m.metrics))
	}
}
