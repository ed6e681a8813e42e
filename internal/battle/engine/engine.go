package engine

import (
	"math/rand"
	"time"

	"Skirmish/modules/kit/logx"

	"go.uber.org/zap"
)

// 开局赠送的三个单位相对基地的偏移：两个步兵在两侧，坦克在后方。
var starterRoster = []struct {
	typ    UnitType
	offset Vec
}{
	{Soldier, Vec{X: -30, Y: 0}},
	{Soldier, Vec{X: 30, Y: 0}},
	{Tank, Vec{X: 0, Y: 30}},
}

// Engine 单局模拟引擎。单线程使用：命令和 Step 必须由同一个调用方串行驱动，
// 服务端由 MatchActor 保证这一点。
type Engine struct {
	cfg   Config
	world *World
	rnd   *rand.Rand
	log   logx.Logger
	debug bool

	nextPlayer   PlayerID
	nextUnit     UnitID
	nextResource ResourceID
}

type Option func(*Engine)

// WithRand 注入随机源，测试里用固定种子让资源点和基地位置可复现。
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rnd = r
		}
	}
}

func WithLogger(l logx.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func New(cfg Config, opts ...Option) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:   cfg,
		world: newWorld(cfg.Width, cfg.Height),
		log:   logx.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.spawnResources()
	return e
}

func (e *Engine) spawnResources() {
	for i := 0; i < e.cfg.ResourceCount; i++ {
		e.nextResource++
		e.world.addResource(&Resource{
			ID:      e.nextResource,
			Type:    Money,
			Pos:     e.randomPoint(e.cfg.ResourceMargin),
			Amount:  e.cfg.ResourceAmount,
			Respawn: e.cfg.RespawnPeriod,
		})
	}
}

// randomPoint 在离边缘至少 margin 的矩形内均匀取点；地图太小时退化为中心点。
func (e *Engine) randomPoint(margin float64) Vec {
	return Vec{
		X: e.randomIn(margin, e.world.Width-margin),
		Y: e.randomIn(margin, e.world.Height-margin),
	}
}

func (e *Engine) randomIn(lo, hi float64) float64 {
	if hi <= lo {
		return (lo + hi) / 2
	}
	return lo + e.rnd.Float64()*(hi-lo)
}

func (e *Engine) Config() Config {
	return e.cfg
}

// AddPlayer 加入一个玩家并发放开局部队，总是成功。
func (e *Engine) AddPlayer(name string, faction Faction) PlayerID {
	e.nextPlayer++
	p := &Player{
		ID:      e.nextPlayer,
		Name:    name,
		Faction: faction,
		Money:   e.cfg.StartingMoney,
		Base:    e.randomPoint(e.cfg.BaseMargin),
		Color:   e.cfg.Palette[len(e.world.playerOrder)%len(e.cfg.Palette)],
	}
	e.world.addPlayer(p)

	for _, s := range starterRoster {
		if _, ok := e.CreateUnit(p.ID, s.typ, p.Base.Add(s.offset)); !ok {
			e.log.Warn("starter unit skipped",
				zap.Int("player_id", int(p.ID)),
				zap.String("type", s.typ.String()),
				zap.Int("money", p.Money),
			)
		}
	}
	e.log.Debug("player joined",
		zap.Int("player_id", int(p.ID)),
		zap.String("name", name),
		zap.String("faction", faction.String()),
	)
	return p.ID
}

// Price 返回 owner 再造一个 t 需要的钱。
func (e *Engine) Price(owner PlayerID, t UnitType) (int, bool) {
	p, ok := e.world.Players[owner]
	if !ok {
		return 0, false
	}
	return Price(t, len(p.Units))
}

// CreateUnit 扣钱并建造单位。玩家不存在、兵种未知或余额不足时返回 (0, false)，且不改动任何状态。
func (e *Engine) CreateUnit(owner PlayerID, t UnitType, pos Vec) (UnitID, bool) {
	p, ok := e.world.Players[owner]
	if !ok {
		return 0, false
	}
	stats, ok := StatsOf(t)
	if !ok {
		return 0, false
	}
	price, _ := Price(t, len(p.Units))
	if p.Money < price {
		return 0, false
	}

	p.Money -= price
	p.Stats.Spent += price
	p.Stats.Built++

	e.nextUnit++
	u := &Unit{
		ID:     e.nextUnit,
		Type:   t,
		Owner:  owner,
		Stats:  stats,
		Pos:    pos,
		Health: stats.Health,
		Life:   Alive,
	}
	e.world.addUnit(u)
	p.Units = append(p.Units, u.ID)
	return u.ID, true
}

// Move 用单个航点覆盖旧路径，同时放弃当前攻击目标。
func (e *Engine) Move(id UnitID, pos Vec) bool {
	u, ok := e.world.Units[id]
	if !ok || !u.Alive() {
		return false
	}
	u.Waypoints = []Vec{pos}
	u.Moving = true
	u.Attacking = false
	u.Target = 0
	return true
}

// Attack 指定攻击目标。不会清掉正在执行的移动：移动中下达攻击的单位会同时保留航点和攻击状态。
func (e *Engine) Attack(attacker, target UnitID) bool {
	a, ok := e.world.Units[attacker]
	if !ok || !a.Alive() {
		return false
	}
	t, ok := e.world.Units[target]
	if !ok || !t.Alive() {
		return false
	}
	if a.Owner == t.Owner || !a.CanTarget(t) {
		return false
	}
	a.Target = t.ID
	a.Attacking = true
	return true
}

// World 返回引擎内部状态的引用，调用方只读。
func (e *Engine) World() *World {
	return e.world
}

func (e *Engine) Time() float64 {
	return e.world.Time
}

func (e *Engine) Player(id PlayerID) (*Player, bool) {
	p, ok := e.world.Players[id]
	return p, ok
}

func (e *Engine) Unit(id UnitID) (*Unit, bool) {
	u, ok := e.world.Units[id]
	return u, ok
}

func (e *Engine) Resource(id ResourceID) (*Resource, bool) {
	r, ok := e.world.Resources[id]
	return r, ok
}

// Players 按加入顺序。
func (e *Engine) Players() []*Player {
	out := make([]*Player, 0, len(e.world.playerOrder))
	for _, id := range e.world.playerOrder {
		out = append(out, e.world.Players[id])
	}
	return out
}

// Units 按建造顺序，含阵亡单位。
func (e *Engine) Units() []*Unit {
	out := make([]*Unit, 0, len(e.world.unitOrder))
	for _, id := range e.world.unitOrder {
		out = append(out, e.world.Units[id])
	}
	return out
}

func (e *Engine) Resources() []*Resource {
	out := make([]*Resource, 0, len(e.world.resourceOrder))
	for _, id := range e.world.resourceOrder {
		out = append(out, e.world.Resources[id])
	}
	return out
}

// LivingUnits 返回 owner 名下的存活单位，顺序同花名册。
func (e *Engine) LivingUnits(owner PlayerID) []*Unit {
	p, ok := e.world.Players[owner]
	if !ok {
		return nil
	}
	out := make([]*Unit, 0, len(p.Units))
	for _, id := range p.Units {
		if u := e.world.Units[id]; u.Alive() {
			out = append(out, u)
		}
	}
	return out
}

// ToggleDebug 只影响渲染端是否画调试信息。
func (e *Engine) ToggleDebug() bool {
	e.debug = !e.debug
	return e.debug
}

func (e *Engine) Debug() bool {
	return e.debug
}
