package model

import (
	"Skirmish/internal/battle/engine"
	"Skirmish/internal/battle/entity"
)

type CreateMatchReq struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type CreateMatchResp struct {
	MatchID entity.MatchID `json:"match_id"`
}

type JoinReq struct {
	MatchID string `json:"match_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Faction string `json:"faction"`
}

type JoinResp struct {
	MatchID  entity.MatchID `json:"match_id"`
	PlayerID int            `json:"player_id"`
	Token    string         `json:"token"`
	Base     engine.Vec     `json:"base"`
	Color    string         `json:"color"`
	Money    int            `json:"money"`
}

type BuildReq struct {
	Token string  `json:"token"`
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type BuildResp struct {
	UnitID int `json:"unit_id"`
	Price  int `json:"price"`
	Money  int `json:"money"`
}

type MoveReq struct {
	Token  string  `json:"token"`
	UnitID int     `json:"unit_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type AttackReq struct {
	Token    string `json:"token"`
	UnitID   int    `json:"unit_id"`
	TargetID int    `json:"target_id"`
}

type MatchReq struct {
	MatchID string `json:"match_id"`
}

type SnapshotResp struct {
	MatchID entity.MatchID  `json:"match_id"`
	Version uint64          `json:"version"`
	Over    bool            `json:"over"`
	Winner  int             `json:"winner,omitempty"`
	State   engine.Snapshot `json:"state"`
}

type DebugResp struct {
	Debug bool `json:"debug"`
}

// Seat 令牌解析出来的席位。
type Seat struct {
	MatchID  entity.MatchID
	PlayerID int
}
