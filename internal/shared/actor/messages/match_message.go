package messages

import (
	"Skirmish/internal/battle/engine"
	"Skirmish/internal/battle/entity"
)

// MatchMessage 由 manager 按 MatchID 转发给对应的 match actor。
type MatchMessage interface {
	MatchID() entity.MatchID
	PlayerID() int
}

type MatchBaseMessage struct {
	MatchId  entity.MatchID
	PlayerId int
}

func (m MatchBaseMessage) MatchID() entity.MatchID {
	return m.MatchId
}

func (m MatchBaseMessage) PlayerID() int {
	return m.PlayerId
}

// HMJoin 加入对局，PlayerId 不使用。
type HMJoin struct {
	MatchBaseMessage
	Name    string
	Faction engine.Faction
}

type MHJoin struct {
	Reply
	PlayerId int
	Base     engine.Vec
	Color    string
	Money    int
}

type HMBuild struct {
	MatchBaseMessage
	UnitType engine.UnitType
	Pos      engine.Vec
}

type MHBuild struct {
	Reply
	UnitId int
	Price  int
	Money  int
}

type HMMove struct {
	MatchBaseMessage
	UnitId int
	Pos    engine.Vec
}

type HMAttack struct {
	MatchBaseMessage
	UnitId   int
	TargetId int
}

// MHCommand move/attack 的回包只有结果。
type MHCommand struct {
	Reply
}

type HMSnapshot struct {
	MatchBaseMessage
}

type MHSnapshot struct {
	Reply
	Snapshot entity.TickSnapshot
	Over     bool
	Winner   int
}

type HMDebug struct {
	MatchBaseMessage
}

type MHDebug struct {
	Reply
	Debug bool
}
