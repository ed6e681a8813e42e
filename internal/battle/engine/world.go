package engine

// PlayerStats 对局统计，只用于战报，不参与结算。
type PlayerStats struct {
	Built     int `json:"built"`
	Kills     int `json:"kills"`
	Losses    int `json:"losses"`
	Spent     int `json:"spent"`
	Collected int `json:"collected"`
}

type Player struct {
	ID      PlayerID
	Name    string
	Faction Faction
	Money   int
	// Units 按建造顺序记录存活单位的 id，单位本体只存在 World.Units 里。
	// 建造和阵亡走同一条代码路径维护它。
	Units []UnitID
	Base  Vec
	Color string
	Stats PlayerStats
}

type Unit struct {
	ID        UnitID
	Type      UnitType
	Owner     PlayerID
	Stats     Stats
	Pos       Vec
	Health    float64
	Waypoints []Vec
	Target    UnitID // 0 表示没有目标
	Moving    bool
	Attacking bool
	Life      Life
}

func (u *Unit) Alive() bool {
	return u != nil && u.Life == Alive
}

func (u *Unit) Idle() bool {
	return !u.Moving && !u.Attacking
}

// CanTarget 只看空/地能力，不看阵营和死活。
func (u *Unit) CanTarget(target *Unit) bool {
	return u.Stats.Covers(target.Type)
}

type Resource struct {
	ID        ResourceID
	Type      ResourceType
	Pos       Vec
	Amount    int
	Respawn   float64 // 距离刷新还剩多少秒
	Collected bool
}

// World 是引擎持有的全部状态。三个 order 切片保证遍历顺序稳定（按创建顺序）。
type World struct {
	Width     float64
	Height    float64
	Time      float64
	Players   map[PlayerID]*Player
	Units     map[UnitID]*Unit
	Resources map[ResourceID]*Resource

	playerOrder   []PlayerID
	unitOrder     []UnitID
	resourceOrder []ResourceID
}

func newWorld(width, height float64) *World {
	return &World{
		Width:     width,
		Height:    height,
		Players:   make(map[PlayerID]*Player),
		Units:     make(map[UnitID]*Unit),
		Resources: make(map[ResourceID]*Resource),
	}
}

func (w *World) addPlayer(p *Player) {
	w.Players[p.ID] = p
	w.playerOrder = append(w.playerOrder, p.ID)
}

func (w *World) addUnit(u *Unit) {
	w.Units[u.ID] = u
	w.unitOrder = append(w.unitOrder, u.ID)
}

func (w *World) addResource(r *Resource) {
	w.Resources[r.ID] = r
	w.resourceOrder = append(w.resourceOrder, r.ID)
}

// PlayerIDs 按加入顺序返回。
func (w *World) PlayerIDs() []PlayerID {
	return append([]PlayerID(nil), w.playerOrder...)
}

// UnitIDs 按建造顺序返回，包含已阵亡单位。
func (w *World) UnitIDs() []UnitID {
	return append([]UnitID(nil), w.unitOrder...)
}

func (w *World) ResourceIDs() []ResourceID {
	return append([]ResourceID(nil), w.resourceOrder...)
}
