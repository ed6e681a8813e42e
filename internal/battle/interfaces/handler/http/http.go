package http

import (
	"context"
	"errors"
	"io"
	nethttp "net/http"

	"Skirmish/internal/battle/app/model"
	"Skirmish/internal/battle/interfaces/handler"
	"Skirmish/internal/battle/interfaces/handler/http/dto"
	"Skirmish/internal/shared/transport"

	"github.com/gin-gonic/gin"
)

type HttpHandler struct {
	battle *handler.Battle
}

func NewHttpHandler(b *handler.Battle) *HttpHandler {
	return &HttpHandler{battle: b}
}

func (h *HttpHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/battle")
	g.POST("/matches", h.CreateMatch)
	g.GET("/matches/:id/snapshot", h.Snapshot)
	g.GET("/reports/:id", h.Report)
}

// CreateMatch 请求体可以为空。
func (h *HttpHandler) CreateMatch(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.CreateMatchReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	resp, err := h.battle.Service.CreateMatch(ctx, req)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, resp)
}

func (h *HttpHandler) Snapshot(c *gin.Context) {
	ctx := c.Request.Context()
	resp, err := h.battle.Service.Snapshot(ctx, model.MatchReq{MatchID: c.Param("id")})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, resp)
}

func (h *HttpHandler) Report(c *gin.Context) {
	ctx := c.Request.Context()
	resp, err := h.battle.Service.Report(ctx, c.Param("id"))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, resp)
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(c, code, msg)
}
