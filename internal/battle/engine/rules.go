package engine

// Defeated 玩家没有存活单位且余额低于 threshold 时视为战败。threshold <= 0 时用最便宜兵种的基础价。
// 未知玩家视为战败。
func (e *Engine) Defeated(id PlayerID, threshold int) bool {
	p, ok := e.world.Players[id]
	if !ok {
		return true
	}
	if threshold <= 0 {
		threshold = CheapestCost()
	}
	if p.Money >= threshold {
		return false
	}
	for _, uid := range p.Units {
		if e.world.Units[uid].Alive() {
			return false
		}
	}
	return true
}

// Contenders 返回尚未战败的玩家，按加入顺序。
func (e *Engine) Contenders(threshold int) []PlayerID {
	var out []PlayerID
	for _, id := range e.world.playerOrder {
		if !e.Defeated(id, threshold) {
			out = append(out, id)
		}
	}
	return out
}

// GameOver 至多剩一个未战败玩家。由驱动方每帧轮询，引擎自身不会停表。
func (e *Engine) GameOver(threshold int) bool {
	return len(e.Contenders(threshold)) <= 1
}

// Winner 只在恰好剩一个未战败玩家时返回它。
func (e *Engine) Winner(threshold int) (PlayerID, bool) {
	c := e.Contenders(threshold)
	if len(c) != 1 {
		return 0, false
	}
	return c[0], true
}
