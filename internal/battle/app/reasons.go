package app

import "Skirmish/internal/battle/reasoncode"

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 业务拒绝 reason，由接口层统一映射为客户端 code。
	ReasonUnitRejected   = NewReason(reasoncode.UnitRejected, "无法建造该单位")
	ReasonMoveRejected   = NewReason(reasoncode.MoveRejected, "单位无法移动")
	ReasonAttackRejected = NewReason(reasoncode.AttackRejected, "无法攻击该目标")
	ReasonMatchNotFound  = NewReason(reasoncode.MatchNotFound, "对局不存在")
	ReasonMatchOver      = NewReason(reasoncode.MatchOver, "对局已结束")
	ReasonMatchFull      = NewReason(reasoncode.MatchFull, "对局人数已满")
	ReasonNotOwner       = NewReason(reasoncode.NotOwner, "不能指挥别人的单位")
	ReasonTokenInvalid   = NewReason(reasoncode.TokenInvalid, "令牌无效或已过期")
	ReasonInvalidParam   = NewReason(reasoncode.InvalidParam, "参数有误")
	ReasonReportNotFound = NewReason(reasoncode.ReportNotFound, "战报不存在")
)

var (
	// 技术错误 reason，用于日志与排障。
	ReasonActorUnavailable      = NewReason("ACTOR_UNAVAILABLE", "对局 actor 不可用")
	ReasonActorInternal         = NewReason("ACTOR_INTERNAL", "对局 actor 内部错误")
	ReasonReportRepoUnavailable = NewReason("REPORT_REPO_UNAVAILABLE", "战报存储不可用")
	ReasonTokenIssue            = NewReason("TOKEN_ISSUE", "令牌签发失败")
)
