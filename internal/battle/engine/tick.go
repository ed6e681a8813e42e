package engine

import (
	"math"

	"go.uber.org/zap"
)

// Step 把世界推进 delta 秒。负数、NaN、Inf 都按 0 处理：时间不会倒流，其它阶段照常执行。
//
// 单位按建造顺序单遍处理（自动索敌 → 航点移动 → 战斗），本帧被击杀的单位对后面的单位立即可见。
// 之后依次是资源刷新和资源采集。
func (e *Engine) Step(delta float64) {
	if delta < 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		e.log.Warn("invalid tick delta clamped", zap.Float64("delta", delta))
		delta = 0
	}

	before := e.world.Time
	e.world.Time += delta
	hits := int(math.Floor(e.world.Time) - math.Floor(before))

	for _, id := range e.world.unitOrder {
		u := e.world.Units[id]
		if !u.Alive() {
			continue
		}
		if u.Idle() {
			e.autoEngage(u)
		}
		if len(u.Waypoints) > 0 {
			e.followWaypoint(u, delta)
		}
		if u.Attacking {
			e.engage(u, delta, hits)
		}
	}

	e.respawnResources(delta)
	e.collectResources()
}

// autoEngage 在索敌半径内找最近的可攻击敌人，距离相同时先遍历到的胜出。
func (e *Engine) autoEngage(u *Unit) {
	radius := u.Stats.Range * e.cfg.DetectFactor
	var (
		best     *Unit
		bestDist = math.Inf(1)
	)
	for _, id := range e.world.unitOrder {
		other := e.world.Units[id]
		if !other.Alive() || other.Owner == u.Owner || !u.CanTarget(other) {
			continue
		}
		d := u.Pos.DistanceTo(other.Pos)
		if d <= radius && d < bestDist {
			best, bestDist = other, d
		}
	}
	if best != nil {
		e.Attack(u.ID, best.ID)
	}
}

func (e *Engine) followWaypoint(u *Unit, delta float64) {
	next := u.Waypoints[0]
	if u.Pos.DistanceTo(next) < e.cfg.ArriveThreshold {
		u.Waypoints = u.Waypoints[1:]
		if len(u.Waypoints) == 0 {
			u.Waypoints = nil
			u.Moving = false
		}
		return
	}
	e.stepToward(u, next, delta)
}

// stepToward 沿直线前进 speed × delta × SpeedFactor，不越过目标点。
func (e *Engine) stepToward(u *Unit, dest Vec, delta float64) {
	diff := dest.Sub(u.Pos)
	dist := diff.Len()
	if dist == 0 {
		return
	}
	ratio := math.Min(1, u.Stats.Speed*delta*e.cfg.SpeedFactor/dist)
	u.Pos = u.Pos.Add(diff.Scale(ratio))
}

func (e *Engine) engage(u *Unit, delta float64, hits int) {
	target, ok := e.world.Units[u.Target]
	if !ok || !target.Alive() || !u.CanTarget(target) {
		u.Attacking = false
		u.Target = 0
		return
	}
	if u.Pos.DistanceTo(target.Pos) > u.Stats.Range*e.cfg.AttackFactor {
		e.stepToward(u, target.Pos, delta)
		return
	}
	if hits <= 0 {
		return
	}
	dmg := Damage(u.Stats, target.Stats)
	for i := 0; i < hits && target.Alive(); i++ {
		target.Health -= dmg
		if target.Health <= 0 {
			e.kill(target, u)
		}
	}
}

// Damage 单次命中伤害 max(1, attack − defense/2)，不取整。
func Damage(attacker, target Stats) float64 {
	return math.Max(1, attacker.Attack-target.Defense/2)
}

// kill 是单位死亡的唯一入口：血量归零、清空状态、从花名册移除，单位记录保留在 World.Units。
func (e *Engine) kill(u, killer *Unit) {
	u.Health = 0
	u.Life = Dead
	u.Moving = false
	u.Attacking = false
	u.Target = 0
	u.Waypoints = nil

	if p, ok := e.world.Players[u.Owner]; ok {
		p.Units = removeUnitID(p.Units, u.ID)
		p.Stats.Losses++
	}
	if p, ok := e.world.Players[killer.Owner]; ok {
		p.Stats.Kills++
	}
	e.log.Debug("unit destroyed",
		zap.Int("unit_id", int(u.ID)),
		zap.String("type", u.Type.String()),
		zap.Int("owner", int(u.Owner)),
		zap.Int("killer", int(killer.ID)),
		zap.Float64("time", e.world.Time),
	)
}

func removeUnitID(ids []UnitID, id UnitID) []UnitID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
