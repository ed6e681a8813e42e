package reasoncode

// 对局内的业务拒绝原因，actor 回包、应用层错误和客户端业务码映射共用同一套字符串。
const (
	UnitRejected   = "UNIT_REJECTED"
	MoveRejected   = "MOVE_REJECTED"
	AttackRejected = "ATTACK_REJECTED"
	MatchNotFound  = "MATCH_NOT_FOUND"
	MatchOver      = "MATCH_OVER"
	MatchFull      = "MATCH_FULL"
	NotOwner       = "NOT_OWNER"
	TokenInvalid   = "TOKEN_INVALID"
	InvalidParam   = "INVALID_PARAM"
	ReportNotFound = "REPORT_NOT_FOUND"
	Internal       = "INTERNAL"
)
