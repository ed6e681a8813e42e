package ws

import (
	"context"

	"Skirmish/internal/battle/app"
	"Skirmish/internal/battle/app/model"
	"Skirmish/internal/battle/interfaces/handler"
	"Skirmish/internal/shared/session"
	"Skirmish/internal/shared/transport"
	"Skirmish/internal/shared/transport/ws"
)

const (
	ConnKeyMatchID  = "match_id"
	ConnKeyPlayerID = "player_id"
)

type WsHandler struct {
	battle *handler.Battle
}

func NewWsHandler(b *handler.Battle) *WsHandler {
	return &WsHandler{battle: b}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	g := r.Group("battle")
	g.Handle("create", h.create)
	g.Handle("join", h.join)
	g.Handle("build", h.build)
	g.Handle("move", h.move)
	g.Handle("attack", h.attack)
	g.Handle("snapshot", h.snapshot)
	g.Handle("debug", h.debug)
}

func (h *WsHandler) create(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	var req model.CreateMatchReq
	if wsReq.Body.Msg != nil {
		if err := ws.BindJSON(wsReq, &req); err != nil {
			h.fail(wsResp, transport.InvalidParam, "参数有误")
			return
		}
	}
	resp, err := h.battle.Service.CreateMatch(ctx, req)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	h.ok(wsResp, resp)
}

// join 成功后把连接绑定到席位，之后这条连接会收到该局的 tick 推送。
func (h *WsHandler) join(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq.Conn == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	var req model.JoinReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	resp, err := h.battle.Service.Join(ctx, req)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	if resp == nil {
		h.error(ctx, wsResp, app.ErrInternalServer.WithReason(app.ReasonActorInternal))
		return
	}

	wsReq.Conn.SetProperty(ConnKeyMatchID, resp.MatchID.String())
	wsReq.Conn.SetProperty(ConnKeyPlayerID, resp.PlayerID)
	if h.battle.Session != nil {
		h.battle.Session.Bind(session.Key{MatchID: resp.MatchID.String(), PlayerID: resp.PlayerID}, wsReq.Conn)
	}
	h.ok(wsResp, resp)
}

func (h *WsHandler) build(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	var req model.BuildReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	resp, err := h.battle.Service.Build(ctx, req)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	h.ok(wsResp, resp)
}

func (h *WsHandler) move(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	var req model.MoveReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	if err := h.battle.Service.Move(ctx, req); err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	h.ok(wsResp, struct{}{})
}

func (h *WsHandler) attack(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	var req model.AttackReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	if err := h.battle.Service.Attack(ctx, req); err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	h.ok(wsResp, struct{}{})
}

func (h *WsHandler) snapshot(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	req, ok := h.matchReq(wsReq)
	if !ok {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	resp, err := h.battle.Service.Snapshot(ctx, req)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	h.ok(wsResp, resp)
}

func (h *WsHandler) debug(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	req, ok := h.matchReq(wsReq)
	if !ok {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	resp, err := h.battle.Service.ToggleDebug(ctx, req)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	h.ok(wsResp, resp)
}

// matchReq 没带 match_id 时用连接上已绑定的对局。
func (h *WsHandler) matchReq(wsReq *ws.WsMsgReq) (model.MatchReq, bool) {
	var req model.MatchReq
	if wsReq.Body.Msg != nil {
		if err := ws.BindJSON(wsReq, &req); err != nil {
			return req, false
		}
	}
	if req.MatchID == "" && wsReq.Conn != nil {
		if id, ok := wsReq.Conn.GetProperty(ConnKeyMatchID).(string); ok {
			req.MatchID = id
		}
	}
	return req, true
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(resp, code, msg)
}
