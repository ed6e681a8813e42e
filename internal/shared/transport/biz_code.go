package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 对客户端暴露的业务码，HTTP 响应体和 ws 响应的 code 字段共用。
const (
	OK              = 0
	InvalidParam    = 1
	SessionInvalid  = 2
	CommandRejected = 3
	MatchNotFound   = 4
	MatchOver       = 5
	MatchFull       = 6
	ReportNotFound  = 7
	SystemError     = 500
)

var codeText = map[int]string{
	OK:              "ok",
	InvalidParam:    "invalid param",
	SessionInvalid:  "session invalid",
	CommandRejected: "command rejected",
	MatchNotFound:   "match not found",
	MatchOver:       "match over",
	MatchFull:       "match full",
	ReportNotFound:  "report not found",
	SystemError:     "system error",
}

// CodeText 返回业务码的默认文案。
func CodeText(code int) string {
	if s, ok := codeText[code]; ok {
		return s
	}
	return "unknown"
}
