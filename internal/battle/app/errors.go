package app

import (
	"errors"

	"Skirmish/modules/kit/errx"
)

// Code 表示应用层错误码（通常更贴近“业务语义/对外协议”）。
type Code = errx.Code

const (
	CodeCommandRejected Code = "COMMAND_REJECTED"
	CodeMatchNotFound   Code = "MATCH_NOT_FOUND"
	CodeMatchOver       Code = "MATCH_OVER"
	CodeMatchFull       Code = "MATCH_FULL"
	CodeTokenInvalid    Code = "TOKEN_INVALID"
	CodeReportNotFound  Code = "REPORT_NOT_FOUND"
)

// 以下复用 kit 的统一码（跨服务一致，便于告警/排障）。
const (
	CodeInvalidParam   Code = errx.CodeBadRequest
	CodeInternalServer Code = errx.CodeInternal
	CodeUnavailable    Code = errx.CodeUnavailable
)

// Error 复用通用错误模型：对外语义(code/msg)、上下文(data)、溯源链(cause)、系统错误一次栈(stack)。
type Error = errx.Error

// NewError 创建业务类错误（不捕获栈）。
func NewError(code Code, msg string) *Error {
	return errx.NewBiz(code, msg)
}

// Wrap 创建系统类错误并挂载 cause（系统错误会在第一次 wrap/转换处捕获一次栈）。
func Wrap(code Code, msg string, cause error) *Error {
	return errx.NewSys(code, msg).WithCause(cause)
}

// 常用错误定义（哨兵错误）：禁止直接修改其 data/cause（通过 WithData/WithCause 派生新对象）。
var (
	ErrCommandRejected = NewError(CodeCommandRejected, "命令被拒绝")
	ErrMatchNotFound   = NewError(CodeMatchNotFound, "对局不存在")
	ErrMatchOver       = NewError(CodeMatchOver, "对局已结束")
	ErrMatchFull       = NewError(CodeMatchFull, "对局人数已满")
	ErrTokenInvalid    = NewError(CodeTokenInvalid, "令牌无效或已过期")
	ErrReportNotFound  = NewError(CodeReportNotFound, "战报不存在")
	ErrInvalidParam    = NewError(CodeInvalidParam, "参数有误")
	ErrInternalServer  = errx.ErrInternal
	ErrUnavailable     = errx.ErrUnavailable
)

// IsBizError 判断错误链里是否有业务拒绝。
func IsBizError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.IsBiz()
}

func GetErrorReasonCode(err error) string {
	var rp interface{ Reason() string }
	if !errors.As(err, &rp) {
		return ""
	}
	return rp.Reason()
}

func GetErrorMessage(err error) string {
	var mp interface{ Msg() string }
	if !errors.As(err, &mp) {
		return ""
	}
	return mp.Msg()
}
