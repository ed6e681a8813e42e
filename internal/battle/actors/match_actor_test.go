package actors

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"Skirmish/internal/battle/engine"
	"Skirmish/internal/battle/entity"
	"Skirmish/internal/battle/reasoncode"
	"Skirmish/internal/shared/actor/messages"
	"Skirmish/internal/shared/serverconfig"

	"github.com/asynkron/protoactor-go/actor"
)

type fakePublisher struct {
	mu    sync.Mutex
	ticks int
	overs []*entity.MatchReport
}

func (p *fakePublisher) PublishTick(id entity.MatchID, s *entity.TickSnapshot) {
	p.mu.Lock()
	p.ticks++
	p.mu.Unlock()
}

func (p *fakePublisher) PublishOver(id entity.MatchID, r *entity.MatchReport) {
	p.mu.Lock()
	p.overs = append(p.overs, r)
	p.mu.Unlock()
}

type fakeReports struct {
	saved chan *entity.MatchReport
}

func newFakeReports() *fakeReports {
	return &fakeReports{saved: make(chan *entity.MatchReport, 4)}
}

func (r *fakeReports) Save(ctx context.Context, report *entity.MatchReport) error {
	r.saved <- report
	return nil
}

func (r *fakeReports) Get(ctx context.Context, id entity.MatchID) (*entity.MatchReport, error) {
	return nil, entity.ErrReportNotFound
}

func testSettings() MatchSettings {
	cfg := engine.DefaultConfig()
	cfg.ResourceCount = 0
	return MatchSettings{
		Engine:       cfg,
		TickInterval: time.Hour,
		MaxPlayers:   2,
	}
}

func testDeps(pub *fakePublisher, reports *fakeReports) Deps {
	var seq int64
	return Deps{
		Publisher: pub,
		Reports:   reports,
		NewRand:   func() *rand.Rand { return rand.New(rand.NewSource(7)) },
		NextID: func() (int64, error) {
			seq++
			return 1000 + seq, nil
		},
	}
}

// defeat 清空玩家的钱和部队，让它满足战败条件。
func defeat(e *engine.Engine, id engine.PlayerID) {
	p, _ := e.Player(id)
	p.Money = 0
	for _, u := range e.LivingUnits(id) {
		u.Life = engine.Dead
	}
}

func request[T any](t *testing.T, root *actor.RootContext, pid *actor.PID, msg any) T {
	t.Helper()
	res, err := root.RequestFuture(pid, msg, time.Second).Result()
	if err != nil {
		t.Fatalf("请求 %T 失败: %v", msg, err)
	}
	v, ok := res.(T)
	if !ok {
		var zero T
		t.Fatalf("期望回包 %T，实际 %#v", zero, res)
	}
	return v
}

func TestManager_建局加入并下达命令(t *testing.T) {
	system := actor.NewActorSystem()
	defer system.Shutdown()
	root := system.Root
	mgr := root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewManagerActor(testSettings(), testDeps(&fakePublisher{}, newFakeReports()))
	}))

	created := request[*messages.CreateMatchReply](t, root, mgr, &messages.CreateMatch{})
	if !created.OK || created.MatchId != "1001" {
		t.Fatalf("期望建局成功且 id 为 1001，实际 %+v", created)
	}
	base := messages.MatchBaseMessage{MatchId: created.MatchId}

	alice := request[*messages.MHJoin](t, root, mgr, &messages.HMJoin{MatchBaseMessage: base, Name: "alice", Faction: engine.FactionVanguard})
	bob := request[*messages.MHJoin](t, root, mgr, &messages.HMJoin{MatchBaseMessage: base, Name: "bob", Faction: engine.FactionRaider})
	if !alice.OK || !bob.OK || alice.PlayerId == bob.PlayerId {
		t.Fatalf("期望两人都加入成功，实际 %+v %+v", alice, bob)
	}
	if alice.Money != 715 || alice.Color != "#e74c3c" || bob.Color != "#3498db" {
		t.Fatalf("开局金钱或颜色不正确: %+v %+v", alice, bob)
	}
}

func TestManager_人满和对局不存在(t *testing.T) {
	system := actor.NewActorSystem()
	defer system.Shutdown()
	root := system.Root
	mgr := root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewManagerActor(testSettings(), testDeps(&fakePublisher{}, newFakeReports()))
	}))

	created := request[*messages.CreateMatchReply](t, root, mgr, &messages.CreateMatch{Width: 400, Height: 300})
	base := messages.MatchBaseMessage{MatchId: created.MatchId}
	for _, name := range []string{"a", "b"} {
		request[*messages.MHJoin](t, root, mgr, &messages.HMJoin{MatchBaseMessage: base, Name: name})
	}

	full := request[*messages.Reply](t, root, mgr, &messages.HMJoin{MatchBaseMessage: base, Name: "c"})
	if full.OK || full.Reason != reasoncode.MatchFull {
		t.Fatalf("期望 MATCH_FULL，实际 %+v", full)
	}

	missing := request[*messages.Reply](t, root, mgr, &messages.HMSnapshot{MatchBaseMessage: messages.MatchBaseMessage{MatchId: "nope"}})
	if missing.Reason != reasoncode.MatchNotFound {
		t.Fatalf("期望 MATCH_NOT_FOUND，实际 %+v", missing)
	}

	snap := request[*messages.MHSnapshot](t, root, mgr, &messages.HMSnapshot{MatchBaseMessage: base})
	if snap.Snapshot.State.Width != 400 || snap.Snapshot.State.Height != 300 {
		t.Fatalf("期望地图尺寸 400x300，实际 %vx%v", snap.Snapshot.State.Width, snap.Snapshot.State.Height)
	}
}

func TestMatchActor_建造移动攻击和归属校验(t *testing.T) {
	system := actor.NewActorSystem()
	defer system.Shutdown()
	root := system.Root
	mgr := root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewManagerActor(testSettings(), testDeps(&fakePublisher{}, newFakeReports()))
	}))
	created := request[*messages.CreateMatchReply](t, root, mgr, &messages.CreateMatch{})
	base := messages.MatchBaseMessage{MatchId: created.MatchId}
	alice := request[*messages.MHJoin](t, root, mgr, &messages.HMJoin{MatchBaseMessage: base, Name: "alice"})
	bob := request[*messages.MHJoin](t, root, mgr, &messages.HMJoin{MatchBaseMessage: base, Name: "bob"})

	asAlice := messages.MatchBaseMessage{MatchId: created.MatchId, PlayerId: alice.PlayerId}
	built := request[*messages.MHBuild](t, root, mgr, &messages.HMBuild{MatchBaseMessage: asAlice, UnitType: engine.Helicopter, Pos: engine.Vec{X: 10, Y: 10}})
	// 已有 3 个单位，直升机价格 200*1.3=260
	if built.Price != 260 || built.Money != 715-260 {
		t.Fatalf("期望价格 260 余额 455，实际 %+v", built)
	}

	snap := request[*messages.MHSnapshot](t, root, mgr, &messages.HMSnapshot{MatchBaseMessage: base})
	bobPlayer, _ := snap.Snapshot.State.Player(engine.PlayerID(bob.PlayerId))
	heli := built.UnitId
	bobTank := int(bobPlayer.Units[2])

	moved := request[*messages.MHCommand](t, root, mgr, &messages.HMMove{MatchBaseMessage: asAlice, UnitId: heli, Pos: engine.Vec{X: 200, Y: 200}})
	if !moved.OK {
		t.Fatalf("期望移动成功，实际 %+v", moved)
	}

	notOwner := request[*messages.Reply](t, root, mgr, &messages.HMMove{MatchBaseMessage: asAlice, UnitId: bobTank, Pos: engine.Vec{}})
	if notOwner.Reason != reasoncode.NotOwner {
		t.Fatalf("期望 NOT_OWNER，实际 %+v", notOwner)
	}

	// 坦克打不了直升机
	asBob := messages.MatchBaseMessage{MatchId: created.MatchId, PlayerId: bob.PlayerId}
	rejected := request[*messages.Reply](t, root, mgr, &messages.HMAttack{MatchBaseMessage: asBob, UnitId: bobTank, TargetId: heli})
	if rejected.Reason != reasoncode.AttackRejected {
		t.Fatalf("期望 ATTACK_REJECTED，实际 %+v", rejected)
	}

	attacked := request[*messages.MHCommand](t, root, mgr, &messages.HMAttack{MatchBaseMessage: asAlice, UnitId: heli, TargetId: bobTank})
	if !attacked.OK {
		t.Fatalf("期望攻击命令成功，实际 %+v", attacked)
	}

	// 455 依次买 210 和 225 的坦克后只剩 20
	for _, want := range []int{210, 225} {
		tank := request[*messages.MHBuild](t, root, mgr, &messages.HMBuild{MatchBaseMessage: asAlice, UnitType: engine.Tank})
		if tank.Price != want {
			t.Fatalf("期望坦克价格 %d，实际 %d", want, tank.Price)
		}
	}
	poor := request[*messages.Reply](t, root, mgr, &messages.HMBuild{MatchBaseMessage: asAlice, UnitType: engine.Tank})
	if poor.Reason != reasoncode.UnitRejected {
		t.Fatalf("期望钱不够时 UNIT_REJECTED，实际 %+v", poor)
	}
}

func TestMatchActor_分出胜负后停止驱动并归档战报(t *testing.T) {
	pub := &fakePublisher{}
	reports := newFakeReports()
	t0 := time.Unix(1000, 0)
	p := NewMatchActor("9", testSettings(), testDeps(pub, reports))
	p.state = Online
	p.startedAt = t0
	p.lastTick = t0
	p.tickStop = make(chan struct{})

	a := p.engine.AddPlayer("alice", engine.FactionVanguard)
	b := p.engine.AddPlayer("bob", engine.FactionBastion)

	p.step(t0.Add(50 * time.Millisecond))
	if p.state != Online {
		t.Fatalf("双方都有部队时不应结束")
	}

	defeat(p.engine, b)
	p.step(t0.Add(100 * time.Millisecond))
	if p.state != Finished {
		t.Fatalf("期望对局结束，实际状态 %d", p.state)
	}
	if p.tickStop != nil {
		t.Fatalf("期望结束后停止 tick 循环")
	}

	select {
	case r := <-reports.saved:
		if r.Winner != int(a) || r.MatchID != "9" {
			t.Fatalf("战报胜者或 id 不正确: %+v", r)
		}
		if !r.EndedAt.Equal(t0.Add(100 * time.Millisecond)) {
			t.Fatalf("期望结束时间为最后一帧墙钟时间，实际 %v", r.EndedAt)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("期望战报被写入")
	}
	_ = p.dc.Close(context.Background())
	if len(pub.overs) != 1 || pub.ticks == 0 {
		t.Fatalf("期望推送过帧和一次结束，实际 ticks=%d overs=%d", pub.ticks, len(pub.overs))
	}
}

func TestMatchActor_只有一个玩家时不判负(t *testing.T) {
	t0 := time.Unix(0, 0)
	p := NewMatchActor("1", testSettings(), testDeps(&fakePublisher{}, newFakeReports()))
	p.state = Online
	p.lastTick = t0
	id := p.engine.AddPlayer("solo", engine.FactionRaider)
	defeat(p.engine, id)

	p.step(t0.Add(time.Second))
	if p.state != Online {
		t.Fatalf("人没到齐之前不应结束")
	}
	if p.engine.Time() != 1 {
		t.Fatalf("期望按墙钟差推进 1 秒，实际 %v", p.engine.Time())
	}
	_ = p.dc.Close(context.Background())
}

func TestMatchActor_结束后拒绝命令但仍可查询(t *testing.T) {
	system := actor.NewActorSystem()
	defer system.Shutdown()
	root := system.Root

	p := NewMatchActor("5", testSettings(), testDeps(&fakePublisher{}, newFakeReports()))
	a := p.engine.AddPlayer("alice", engine.FactionVanguard)
	b := p.engine.AddPlayer("bob", engine.FactionRaider)
	defeat(p.engine, b)
	pid := root.Spawn(actor.PropsFromProducer(func() actor.Actor { return p }))

	root.Send(pid, stepTick{})

	base := messages.MatchBaseMessage{MatchId: "5", PlayerId: int(a)}
	over := request[*messages.Reply](t, root, pid, &messages.HMBuild{MatchBaseMessage: base, UnitType: engine.Soldier})
	if over.Reason != reasoncode.MatchOver {
		t.Fatalf("期望 MATCH_OVER，实际 %+v", over)
	}
	joined := request[*messages.Reply](t, root, pid, &messages.HMJoin{MatchBaseMessage: base, Name: "late"})
	if joined.Reason != reasoncode.MatchOver {
		t.Fatalf("期望结束后不能加入，实际 %+v", joined)
	}

	snap := request[*messages.MHSnapshot](t, root, pid, &messages.HMSnapshot{MatchBaseMessage: base})
	if !snap.Over || snap.Winner != int(a) {
		t.Fatalf("期望快照标记结束且胜者为 alice，实际 over=%v winner=%d", snap.Over, snap.Winner)
	}

	dbg := request[*messages.MHDebug](t, root, pid, &messages.HMDebug{MatchBaseMessage: base})
	if !dbg.Debug {
		t.Fatalf("期望调试开关被打开")
	}
}

func writeBattleConf(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("写配置文件失败: %v", err)
	}
	return path
}

func TestManager_配置更新后新建的对局使用新参数(t *testing.T) {
	if _, err := serverconfig.Load(writeBattleConf(t, "battle:\n  tick_interval: 1h\n  starting_money: 1000\n  max_players: 2\n")); err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	system := actor.NewActorSystem()
	defer system.Shutdown()
	root := system.Root
	deps := testDeps(&fakePublisher{}, newFakeReports())
	deps.Settings = FromCurrentConfig(testSettings())
	mgr := root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewManagerActor(testSettings(), deps)
	}))

	first := request[*messages.CreateMatchReply](t, root, mgr, &messages.CreateMatch{})
	oldBase := messages.MatchBaseMessage{MatchId: first.MatchId}
	alice := request[*messages.MHJoin](t, root, mgr, &messages.HMJoin{MatchBaseMessage: oldBase, Name: "alice"})
	if alice.Money != 715 {
		t.Fatalf("期望旧配置下开局余额 715，实际 %d", alice.Money)
	}

	if _, err := serverconfig.Load(writeBattleConf(t, "battle:\n  tick_interval: 1h\n  starting_money: 2000\n  max_players: 1\n")); err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	second := request[*messages.CreateMatchReply](t, root, mgr, &messages.CreateMatch{})
	newBase := messages.MatchBaseMessage{MatchId: second.MatchId}
	carol := request[*messages.MHJoin](t, root, mgr, &messages.HMJoin{MatchBaseMessage: newBase, Name: "carol"})
	if carol.Money != 1715 {
		t.Fatalf("期望新配置下开局余额 1715，实际 %d", carol.Money)
	}
	full := request[*messages.Reply](t, root, mgr, &messages.HMJoin{MatchBaseMessage: newBase, Name: "dave"})
	if full.Reason != reasoncode.MatchFull {
		t.Fatalf("期望新对局按 max_players=1 判满，实际 %+v", full)
	}

	// 已经开始的对局不受影响
	bob := request[*messages.MHJoin](t, root, mgr, &messages.HMJoin{MatchBaseMessage: oldBase, Name: "bob"})
	if !bob.OK || bob.Money != 715 {
		t.Fatalf("期望旧对局仍按旧参数加入，实际 %+v", bob)
	}
}

func TestSettingsFromConfig_零值沿用基础参数(t *testing.T) {
	base := testSettings()
	got := SettingsFromConfig(base, serverconfig.BattleConfig{MapWidth: 400, StartingMoney: 300, MatchRetention: time.Second})
	if got.Engine.Width != base.Engine.Width {
		t.Fatalf("期望只给宽度时不改地图尺寸，实际 %v", got.Engine.Width)
	}
	if got.Engine.StartingMoney != 300 || got.Retention != time.Second {
		t.Fatalf("期望覆盖开局金钱和保留期，实际 %+v", got)
	}
	if got.TickInterval != base.TickInterval || got.MaxPlayers != base.MaxPlayers || got.Engine.ResourceCount != 0 {
		t.Fatalf("期望零值字段沿用 base，实际 %+v", got)
	}
}

func TestManager_结束的对局过了保留期被回收(t *testing.T) {
	system := actor.NewActorSystem()
	defer system.Shutdown()
	root := system.Root

	settings := testSettings()
	// 开局金钱为 0，两人加入后都没有部队，第一帧就结束
	settings.Engine.StartingMoney = 0
	settings.TickInterval = 5 * time.Millisecond
	settings.Retention = 50 * time.Millisecond
	reports := newFakeReports()
	mgr := root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewManagerActor(settings, testDeps(&fakePublisher{}, reports))
	}))

	created := request[*messages.CreateMatchReply](t, root, mgr, &messages.CreateMatch{})
	base := messages.MatchBaseMessage{MatchId: created.MatchId}
	request[*messages.MHJoin](t, root, mgr, &messages.HMJoin{MatchBaseMessage: base, Name: "alice"})
	request[*messages.MHJoin](t, root, mgr, &messages.HMJoin{MatchBaseMessage: base, Name: "bob"})

	select {
	case <-reports.saved:
	case <-time.After(2 * time.Second):
		t.Fatalf("期望对局结束并归档战报")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		res, err := root.RequestFuture(mgr, &messages.HMSnapshot{MatchBaseMessage: base}, time.Second).Result()
		switch {
		case errors.Is(err, actor.ErrDeadLetter):
			// match 已停，manager 还没处理 Terminated
		case err != nil:
			t.Fatalf("请求快照失败: %v", err)
		default:
			if r, ok := res.(*messages.Reply); ok && r.Reason == reasoncode.MatchNotFound {
				return
			}
			if snap, ok := res.(*messages.MHSnapshot); !ok || !snap.Over {
				t.Fatalf("期望回收前快照标记结束，实际 %#v", res)
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("期望保留期过后对局被回收")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
