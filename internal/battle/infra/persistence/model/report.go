package model

import (
	"time"

	"Skirmish/internal/battle/entity"
)

// MatchReport mysql 战报主表
type MatchReport struct {
	MatchID    string    `gorm:"column:match_id;type:varchar(32);comment:对局id;primaryKey;not null;" json:"match_id"`
	Winner     int       `gorm:"column:winner;type:int;comment:胜者playerId，0为无;not null;default:0;" json:"winner"`
	WinnerName string    `gorm:"column:winner_name;type:varchar(64);comment:胜者名字;" json:"winner_name"`
	GameTime   float64   `gorm:"column:game_time;type:double;comment:游戏内秒数;not null;default:0;" json:"game_time"`
	StartedAt  time.Time `gorm:"column:started_at;type:timestamp;comment:开局时间;default:NULL;" json:"started_at"`
	EndedAt    time.Time `gorm:"column:ended_at;type:timestamp;comment:结束时间;default:NULL;" json:"ended_at"`

	Players []MatchPlayer `gorm:"foreignKey:MatchID;references:MatchID" json:"players"`
}

func (m *MatchReport) TableName() string {
	return "match_report"
}

// MatchPlayer 每局每个玩家一行
type MatchPlayer struct {
	Id         uint32 `gorm:"column:id;type:int UNSIGNED;comment:id;primaryKey;autoIncrement;" json:"id"`
	MatchID    string `gorm:"column:match_id;type:varchar(32);comment:对局id;index;not null;" json:"match_id"`
	Seat       int    `gorm:"column:seat;type:int;comment:加入顺序;not null;" json:"seat"`
	PlayerID   int    `gorm:"column:player_id;type:int;comment:playerId;not null;" json:"player_id"`
	Name       string `gorm:"column:name;type:varchar(64);comment:名字;" json:"name"`
	Faction    string `gorm:"column:faction;type:varchar(16);comment:阵营;" json:"faction"`
	Color      string `gorm:"column:color;type:varchar(16);comment:颜色;" json:"color"`
	Built      int    `gorm:"column:built;type:int;comment:建造数;not null;default:0;" json:"built"`
	Kills      int    `gorm:"column:kills;type:int;comment:击杀;not null;default:0;" json:"kills"`
	Losses     int    `gorm:"column:losses;type:int;comment:损失;not null;default:0;" json:"losses"`
	Collected  int    `gorm:"column:collected;type:int;comment:采集金钱;not null;default:0;" json:"collected"`
	Spent      int    `gorm:"column:spent;type:int;comment:花费金钱;not null;default:0;" json:"spent"`
	FinalMoney int    `gorm:"column:final_money;type:int;comment:结束时余额;not null;default:0;" json:"final_money"`
	Survivors  int    `gorm:"column:survivors;type:int;comment:存活单位数;not null;default:0;" json:"survivors"`
}

func (m *MatchPlayer) TableName() string {
	return "match_player"
}

func ReportToModel(r *entity.MatchReport) *MatchReport {
	m := &MatchReport{
		MatchID:    r.MatchID.String(),
		Winner:     r.Winner,
		WinnerName: r.WinnerName,
		GameTime:   r.GameTime,
		StartedAt:  r.StartedAt,
		EndedAt:    r.EndedAt,
		Players:    make([]MatchPlayer, 0, len(r.Players)),
	}
	for i, p := range r.Players {
		m.Players = append(m.Players, MatchPlayer{
			MatchID:    m.MatchID,
			Seat:       i,
			PlayerID:   p.PlayerID,
			Name:       p.Name,
			Faction:    p.Faction,
			Color:      p.Color,
			Built:      p.Built,
			Kills:      p.Kills,
			Losses:     p.Losses,
			Collected:  p.Collected,
			Spent:      p.Spent,
			FinalMoney: p.FinalMoney,
			Survivors:  p.Survivors,
		})
	}
	return m
}

// ModelToReport 玩家按 Seat 还原加入顺序，调用方负责按 seat 排序查询。
func ModelToReport(m *MatchReport) *entity.MatchReport {
	r := &entity.MatchReport{
		MatchID:    entity.MatchID(m.MatchID),
		Winner:     m.Winner,
		WinnerName: m.WinnerName,
		GameTime:   m.GameTime,
		StartedAt:  m.StartedAt,
		EndedAt:    m.EndedAt,
		Players:    make([]entity.PlayerReport, 0, len(m.Players)),
	}
	for _, p := range m.Players {
		r.Players = append(r.Players, entity.PlayerReport{
			PlayerID:   p.PlayerID,
			Name:       p.Name,
			Faction:    p.Faction,
			Color:      p.Color,
			Built:      p.Built,
			Kills:      p.Kills,
			Losses:     p.Losses,
			Collected:  p.Collected,
			Spent:      p.Spent,
			FinalMoney: p.FinalMoney,
			Survivors:  p.Survivors,
		})
	}
	return r
}
