package handler

import (
	"context"

	"Skirmish/internal/battle/app"
	"Skirmish/internal/battle/reasoncode"
	"Skirmish/internal/shared/transport"
)

func mapBizReasonToClientCode(reason string) int {
	switch reason {
	case "":
		return transport.OK
	case reasoncode.UnitRejected, reasoncode.MoveRejected, reasoncode.AttackRejected, reasoncode.NotOwner:
		return transport.CommandRejected
	case reasoncode.TokenInvalid:
		return transport.SessionInvalid
	case reasoncode.MatchNotFound:
		return transport.MatchNotFound
	case reasoncode.MatchOver:
		return transport.MatchOver
	case reasoncode.MatchFull:
		return transport.MatchFull
	case reasoncode.ReportNotFound:
		return transport.ReportNotFound
	case reasoncode.InvalidParam:
		return transport.InvalidParam
	default:
		return transport.SystemError
	}
}

// HandleError 业务拒绝返回对应 code 和文案，系统错误统一返回兜底文案。
func HandleError(ctx context.Context, err error) (int, string) {
	reason := app.GetErrorReasonCode(err)
	if reason != "" {
		transport.SetErrorReason(ctx, reason)
	}

	if app.IsBizError(err) {
		bizCode := mapBizReasonToClientCode(reason)
		return bizCode, app.GetErrorMessage(err)
	}
	return transport.SystemError, "系统繁忙，请稍后重试"
}
