package messages

import "Skirmish/internal/battle/entity"

// Reply 每个回包都带的业务结果。OK=false 时 Reason 是 reasoncode 里的枚举。
type Reply struct {
	OK      bool
	Reason  string
	Message string
}

func (r *Reply) Result() *Reply {
	return r
}

// Result 由所有回包实现，Runtime 据此统一判断拒绝。
type Result interface {
	Result() *Reply
}

func Ok() Reply {
	return Reply{OK: true}
}

func Fail(reason, msg string) Reply {
	return Reply{Reason: reason, Message: msg}
}

// CreateMatch 发给 manager，宽高为 0 时用默认地图尺寸。
type CreateMatch struct {
	Width  float64
	Height float64
}

type CreateMatchReply struct {
	Reply
	MatchId entity.MatchID
}

// RejectError Runtime 把 OK=false 的回包转成这个错误，应用层按 Reason 映射。
type RejectError struct {
	Reason  string
	Message string
}

func (e *RejectError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" {
		return "rejected: " + e.Reason
	}
	return "rejected: " + e.Reason + ": " + e.Message
}
