package errx

// 跨包统一的系统类错误码。对局内的业务拒绝码由 battle/app 自己定义，不放在 kit 里。
const (
	CodeInternal    Code = "INTERNAL_ERROR"
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeTimeout     Code = "TIMEOUT"
	CodeBadRequest  Code = "BAD_REQUEST"
)

var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrBadRequest  = NewBiz(CodeBadRequest, "请求参数错误")
)
