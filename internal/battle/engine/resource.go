package engine

import "go.uber.org/zap"

func (e *Engine) respawnResources(delta float64) {
	for _, id := range e.world.resourceOrder {
		r := e.world.Resources[id]
		if !r.Collected {
			continue
		}
		r.Respawn -= delta
		if r.Respawn <= 0 {
			r.Collected = false
			r.Amount = e.cfg.ResourceAmount
			r.Respawn = e.cfg.RespawnPeriod
			e.log.Debug("resource respawned", zap.Int("resource_id", int(r.ID)))
		}
	}
}

// collectResources 每个资源点每帧最多被采集一次，按玩家加入顺序先到先得。只有步兵能采集。
func (e *Engine) collectResources() {
	for _, rid := range e.world.resourceOrder {
		r := e.world.Resources[rid]
		if r.Collected {
			continue
		}
		for _, pid := range e.world.playerOrder {
			p := e.world.Players[pid]
			if !e.hasCollectorNear(p, r.Pos) {
				continue
			}
			p.Money += r.Amount
			p.Stats.Collected += r.Amount
			r.Collected = true
			r.Amount = 0
			r.Respawn = e.cfg.RespawnPeriod
			e.log.Debug("resource collected",
				zap.Int("resource_id", int(r.ID)),
				zap.Int("player_id", int(p.ID)),
				zap.Int("money", p.Money),
			)
			break
		}
	}
}

func (e *Engine) hasCollectorNear(p *Player, pos Vec) bool {
	for _, id := range p.Units {
		u := e.world.Units[id]
		if u.Alive() && u.Type == Soldier && u.Pos.DistanceTo(pos) <= e.cfg.CollectRadius {
			return true
		}
	}
	return false
}
