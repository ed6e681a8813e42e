package engine

// Snapshot 是 World 的深拷贝，给网络推送和渲染端用，修改它不会影响引擎。
type Snapshot struct {
	Time      float64        `json:"time"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Debug     bool           `json:"debug"`
	Players   []PlayerView   `json:"players"`
	Units     []UnitView     `json:"units"`
	Resources []ResourceView `json:"resources"`
}

type PlayerView struct {
	ID      PlayerID    `json:"id"`
	Name    string      `json:"name"`
	Faction string      `json:"faction"`
	Money   int         `json:"money"`
	Units   []UnitID    `json:"units"`
	Base    Vec         `json:"base"`
	Color   string      `json:"color"`
	Stats   PlayerStats `json:"stats"`
}

type UnitView struct {
	ID        UnitID   `json:"id"`
	Type      string   `json:"type"`
	Owner     PlayerID `json:"owner"`
	Pos       Vec      `json:"pos"`
	Health    float64  `json:"health"`
	MaxHealth float64  `json:"max_health"`
	Waypoints []Vec    `json:"waypoints,omitempty"`
	Target    UnitID   `json:"target,omitempty"`
	Moving    bool     `json:"moving"`
	Attacking bool     `json:"attacking"`
	Dead      bool     `json:"dead"`
}

type ResourceView struct {
	ID        ResourceID `json:"id"`
	Type      string     `json:"type"`
	Pos       Vec        `json:"pos"`
	Amount    int        `json:"amount"`
	Respawn   float64    `json:"respawn"`
	Collected bool       `json:"collected"`
}

func (e *Engine) Snapshot() Snapshot {
	w := e.world
	s := Snapshot{
		Time:      w.Time,
		Width:     w.Width,
		Height:    w.Height,
		Debug:     e.debug,
		Players:   make([]PlayerView, 0, len(w.playerOrder)),
		Units:     make([]UnitView, 0, len(w.unitOrder)),
		Resources: make([]ResourceView, 0, len(w.resourceOrder)),
	}
	for _, id := range w.playerOrder {
		p := w.Players[id]
		s.Players = append(s.Players, PlayerView{
			ID:      p.ID,
			Name:    p.Name,
			Faction: p.Faction.String(),
			Money:   p.Money,
			Units:   append([]UnitID{}, p.Units...),
			Base:    p.Base,
			Color:   p.Color,
			Stats:   p.Stats,
		})
	}
	for _, id := range w.unitOrder {
		u := w.Units[id]
		s.Units = append(s.Units, UnitView{
			ID:        u.ID,
			Type:      u.Type.String(),
			Owner:     u.Owner,
			Pos:       u.Pos,
			Health:    u.Health,
			MaxHealth: u.Stats.Health,
			Waypoints: append([]Vec(nil), u.Waypoints...),
			Target:    u.Target,
			Moving:    u.Moving,
			Attacking: u.Attacking,
			Dead:      u.Life == Dead,
		})
	}
	for _, id := range w.resourceOrder {
		r := w.Resources[id]
		s.Resources = append(s.Resources, ResourceView{
			ID:        r.ID,
			Type:      r.Type.String(),
			Pos:       r.Pos,
			Amount:    r.Amount,
			Respawn:   r.Respawn,
			Collected: r.Collected,
		})
	}
	return s
}

// Unit 在快照里按 id 查单位，找不到返回 false。
func (s Snapshot) Unit(id UnitID) (UnitView, bool) {
	for _, u := range s.Units {
		if u.ID == id {
			return u, true
		}
	}
	return UnitView{}, false
}

func (s Snapshot) Player(id PlayerID) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}
