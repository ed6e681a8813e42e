package engine

import (
	"math"
	"strings"
)

type PlayerID int
type UnitID int
type ResourceID int

// Vec 是地图上的二维坐标，单位为距离单位。
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec) Scale(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec) DistanceTo(o Vec) float64 {
	return o.Sub(v).Len()
}

// Faction 阵营，只影响外观和开局风格，不参与结算。
type Faction int8

const (
	FactionVanguard Faction = iota + 1
	FactionBastion
	FactionRaider
)

var factionNames = map[Faction]string{
	FactionVanguard: "vanguard",
	FactionBastion:  "bastion",
	FactionRaider:   "raider",
}

func (f Faction) String() string {
	if s, ok := factionNames[f]; ok {
		return s
	}
	return "unknown"
}

func ParseFaction(s string) (Faction, bool) {
	for f, name := range factionNames {
		if strings.EqualFold(name, s) {
			return f, true
		}
	}
	return 0, false
}

type UnitType int8

const (
	Soldier UnitType = iota + 1
	Tank
	Helicopter
)

func (t UnitType) String() string {
	switch t {
	case Soldier:
		return "soldier"
	case Tank:
		return "tank"
	case Helicopter:
		return "helicopter"
	default:
		return "unknown"
	}
}

func ParseUnitType(s string) (UnitType, bool) {
	for _, t := range []UnitType{Soldier, Tank, Helicopter} {
		if strings.EqualFold(t.String(), s) {
			return t, true
		}
	}
	return 0, false
}

// IsAir 直升机是唯一的空中单位。
func (t UnitType) IsAir() bool {
	return t == Helicopter
}

// Stats 兵种基础属性，建造时整份拷贝到单位上。
type Stats struct {
	Health          float64 `json:"health"`
	Attack          float64 `json:"attack"`
	Defense         float64 `json:"defense"`
	Range           float64 `json:"range"`
	Speed           float64 `json:"speed"`
	Cost            int     `json:"cost"`
	CanAttackAir    bool    `json:"can_attack_air"`
	CanAttackGround bool    `json:"can_attack_ground"`
}

var baseStats = map[UnitType]Stats{
	Soldier: {
		Health: 100, Attack: 10, Defense: 5, Range: 3, Speed: 1.5, Cost: 50,
		CanAttackAir: true, CanAttackGround: true,
	},
	Tank: {
		Health: 300, Attack: 30, Defense: 20, Range: 5, Speed: 0.8, Cost: 150,
		CanAttackAir: false, CanAttackGround: true,
	},
	Helicopter: {
		Health: 150, Attack: 20, Defense: 10, Range: 4, Speed: 2.5, Cost: 200,
		CanAttackAir: true, CanAttackGround: true,
	},
}

func StatsOf(t UnitType) (Stats, bool) {
	s, ok := baseStats[t]
	return s, ok
}

// Covers 判断这组属性能否攻击 target 所属的空/地类别。
func (s Stats) Covers(target UnitType) bool {
	if target.IsAir() {
		return s.CanAttackAir
	}
	return s.CanAttackGround
}

// CheapestCost 重建一支部队至少需要的钱，游戏结束判定默认用它做阈值。
func CheapestCost() int {
	cheapest := 0
	for _, s := range baseStats {
		if cheapest == 0 || s.Cost < cheapest {
			cheapest = s.Cost
		}
	}
	return cheapest
}

// Price 第 count+1 个单位的价格：floor(base × (1 + count × 0.1))。
// 用整数运算避免浮点误差让结果落到整数下方。
func Price(t UnitType, count int) (int, bool) {
	s, ok := baseStats[t]
	if !ok {
		return 0, false
	}
	if count < 0 {
		count = 0
	}
	return s.Cost * (10 + count) / 10, true
}

type ResourceType int8

const (
	Money ResourceType = iota + 1
)

func (r ResourceType) String() string {
	if r == Money {
		return "money"
	}
	return "unknown"
}

// Life 单位的生死标记，死亡不可逆。
type Life int8

const (
	Alive Life = iota
	Dead
)

func (l Life) String() string {
	if l == Dead {
		return "dead"
	}
	return "alive"
}
