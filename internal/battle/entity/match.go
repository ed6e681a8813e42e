package entity

import (
	"errors"
	"strconv"
	"time"

	"Skirmish/internal/battle/engine"
)

// MatchID 对局 id，雪花 id 的十进制串。
type MatchID string

func NewMatchID(n int64) MatchID {
	return MatchID(strconv.FormatInt(n, 10))
}

func (id MatchID) String() string {
	return string(id)
}

var ErrReportNotFound = errors.New("match report not found")

// MatchReport 对局结束时的战报，落库后只读。
type MatchReport struct {
	MatchID    MatchID        `json:"match_id" bson:"_id"`
	Winner     int            `json:"winner" bson:"winner"` // 0 表示没有胜者（同归于尽）
	WinnerName string         `json:"winner_name" bson:"winner_name"`
	StartedAt  time.Time      `json:"started_at" bson:"started_at"`
	EndedAt    time.Time      `json:"ended_at" bson:"ended_at"`
	GameTime   float64        `json:"game_time" bson:"game_time"` // 游戏内经过的秒数
	Players    []PlayerReport `json:"players" bson:"players"`
}

type PlayerReport struct {
	PlayerID   int    `json:"player_id" bson:"player_id"`
	Name       string `json:"name" bson:"name"`
	Faction    string `json:"faction" bson:"faction"`
	Color      string `json:"color" bson:"color"`
	Built      int    `json:"built" bson:"built"`
	Kills      int    `json:"kills" bson:"kills"`
	Losses     int    `json:"losses" bson:"losses"`
	Collected  int    `json:"collected" bson:"collected"`
	Spent      int    `json:"spent" bson:"spent"`
	FinalMoney int    `json:"final_money" bson:"final_money"`
	Survivors  int    `json:"survivors" bson:"survivors"`
}

// NewMatchReport 从引擎当前状态生成战报，玩家按加入顺序排列。
func NewMatchReport(id MatchID, e *engine.Engine, threshold int, startedAt, endedAt time.Time) *MatchReport {
	r := &MatchReport{
		MatchID:   id,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		GameTime:  e.Time(),
	}
	if w, ok := e.Winner(threshold); ok {
		r.Winner = int(w)
		if p, ok := e.Player(w); ok {
			r.WinnerName = p.Name
		}
	}
	for _, p := range e.Players() {
		r.Players = append(r.Players, PlayerReport{
			PlayerID:   int(p.ID),
			Name:       p.Name,
			Faction:    p.Faction.String(),
			Color:      p.Color,
			Built:      p.Stats.Built,
			Kills:      p.Stats.Kills,
			Losses:     p.Stats.Losses,
			Collected:  p.Stats.Collected,
			Spent:      p.Stats.Spent,
			FinalMoney: p.Money,
			Survivors:  len(e.LivingUnits(p.ID)),
		})
	}
	return r
}

// TickSnapshot 一帧推送给客户端的状态，Version 单调递增，推送端只发最新一帧。
type TickSnapshot struct {
	MatchID MatchID         `json:"match_id"`
	Version uint64          `json:"version"`
	State   engine.Snapshot `json:"state"`
}
