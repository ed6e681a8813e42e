package ws

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"

	"go.uber.org/zap"

	"Skirmish/internal/shared/transport"
	"Skirmish/modules/kit/logx"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Group 同一前缀下的路由，battle.build 里 battle 是组，build 是处理器。
type Group struct {
	prefix string
	router *Router
}

func (g *Group) Handle(name string, h HandlerFunc) {
	full := g.prefix + "." + name
	if _, _, ok := parseRouteName(full); !ok {
		panic(fmt.Sprintf("ws: invalid route %q", full))
	}
	if _, dup := g.router.routes[full]; dup {
		panic(fmt.Sprintf("ws: route %q registered twice", full))
	}
	g.router.routes[full] = h
}

type Router struct {
	routes map[string]HandlerFunc
	log    logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.Nop()
	}
	return &Router{
		routes: make(map[string]HandlerFunc),
		log:    l,
	}
}

func (r *Router) Group(prefix string) *Group {
	return &Group{prefix: prefix, router: r}
}

// Routes 返回已注册的完整路由名，按字典序。
func (r *Router) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for name := range r.routes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dispatch 按 req.Body.Name 分发。parent 一般是连接级 context，连接关闭时 handler
// 里的阻塞调用随之取消。handler panic 时回 SystemError，不影响连接上的后续请求。
func (r *Router) Dispatch(parent context.Context, req *WsMsgReq, resp *WsMsgResp) {
	action := "WS unknown"
	if req != nil && req.Body != nil {
		action = "WS " + req.Body.Name
	}
	ctx := transport.NewContextWithParent(parent, action)
	defer r.writeAccessLog(ctx, resp)

	if req == nil || req.Body == nil || resp == nil || resp.Body == nil {
		setError(resp, transport.InvalidParam, "参数有误")
		return
	}
	// 先置系统错误，handler 漏设业务码时不会被当成成功
	resp.Body.Code = transport.SystemError
	resp.Body.Msg = nil

	if _, _, ok := parseRouteName(req.Body.Name); !ok {
		setError(resp, transport.InvalidParam, "路由参数有误")
		return
	}
	h := r.routes[req.Body.Name]
	if h == nil {
		setError(resp, transport.InvalidParam, "路由不存在")
		return
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.WithContext(ctx).Error("ws handler panic",
				zap.String("route", req.Body.Name),
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()),
			)
			setError(resp, transport.SystemError, transport.CodeText(transport.SystemError))
		}
	}()
	h(ctx, req, resp)
}

func parseRouteName(name string) (string, string, bool) {
	prefix, handler, ok := strings.Cut(name, ".")
	if !ok || prefix == "" || handler == "" || strings.Contains(handler, ".") {
		return "", "", false
	}
	return prefix, handler, true
}

func setError(resp *WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	resp.Body.Msg = msg
}

func (r *Router) writeAccessLog(ctx context.Context, resp *WsMsgResp) {
	bizCode := transport.SystemError
	if resp != nil && resp.Body != nil {
		bizCode = resp.Body.Code
	}
	transport.SetBizCode(ctx, transport.BizCode(bizCode))
	transport.WriteAccessLog(ctx, r.log)
}
