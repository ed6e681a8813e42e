package engine

import (
	"math"
	"testing"
)

func TestStep_到达航点的那一帧停止移动(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 1000)
	u := mustCreate(t, e, a, Soldier, Vec{})
	e.Move(u.ID, Vec{X: 100})

	// 每帧前进 1.5 × 0.5 × 60 = 45
	e.Step(0.5)
	if !near(u.Pos.X, 45) || !u.Moving {
		t.Fatalf("第一帧期望 x=45 且仍在移动，实际 %v moving=%v", u.Pos, u.Moving)
	}
	e.Step(0.5)
	e.Step(0.5)
	if !near(u.Pos.X, 100) || !near(u.Pos.Y, 0) {
		t.Fatalf("期望不越过目标点，实际 %v", u.Pos)
	}
	if !u.Moving {
		t.Fatalf("期望距离降到 1 以内之前一直处于移动")
	}
	e.Step(0.5)
	if u.Moving || len(u.Waypoints) != 0 {
		t.Fatalf("期望到达后停止移动，moving=%v waypoints=%v", u.Moving, u.Waypoints)
	}
}

func TestStep_移动最终在一个单位距离内停下(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 1000)
	u := mustCreate(t, e, a, Helicopter, Vec{X: 10, Y: 10})
	dest := Vec{X: 333.3, Y: 251.7}
	e.Move(u.ID, dest)

	for i := 0; i < 1000 && u.Moving; i++ {
		if u.Pos.DistanceTo(dest) < 1 {
			e.Step(1.0 / 60)
			if u.Moving {
				t.Fatalf("期望距离小于 1 的下一帧就停止移动")
			}
			break
		}
		e.Step(1.0 / 60)
	}
	if u.Moving || u.Pos.DistanceTo(dest) >= 1 {
		t.Fatalf("期望停在目标附近，pos=%v moving=%v", u.Pos, u.Moving)
	}
}

func TestStep_伤害每个整秒只结算一次(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 1000)
	b := addBarePlayer(e, 1000)
	attacker := mustCreate(t, e, a, Soldier, Vec{})
	target := mustCreate(t, e, b, Tank, Vec{X: 40})

	if !e.Attack(attacker.ID, target.ID) {
		t.Fatalf("期望攻击命令成功")
	}
	for i := 0; i < 23; i++ {
		e.Step(0.1)
	}
	// 步兵对坦克每次 max(1, 10-20/2) = 1
	if !near(target.Health, 298) {
		t.Fatalf("2.3 秒内期望命中 2 次，坦克血量应为 298，实际 %v", target.Health)
	}
}

func TestStep_一帧跨过多个整秒按跨过次数结算(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 1000)
	b := addBarePlayer(e, 1000)
	attacker := mustCreate(t, e, a, Tank, Vec{})
	target := mustCreate(t, e, b, Tank, Vec{X: 50})
	e.Attack(attacker.ID, target.ID)

	e.Step(2.5)
	// 30 - 20/2 = 20，命中两次
	if !near(target.Health, 260) {
		t.Fatalf("期望命中 2 次剩 260，实际 %v", target.Health)
	}
}

func TestStep_两名步兵对射直到一方阵亡(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 100)
	b := addBarePlayer(e, 100)
	ua := mustCreate(t, e, a, Soldier, Vec{X: 100, Y: 100})
	ub := mustCreate(t, e, b, Soldier, Vec{X: 140, Y: 100})

	if !e.Attack(ua.ID, ub.ID) || !e.Attack(ub.ID, ua.ID) {
		t.Fatalf("期望双方攻击命令成功")
	}
	dmg := Damage(ua.Stats, ub.Stats)
	if dmg != 7.5 {
		t.Fatalf("期望单次伤害 7.5，实际 %v", dmg)
	}

	for step := 1; step <= 13; step++ {
		e.Step(1)
		want := 100 - float64(step)*dmg
		if !near(ua.Health, want) || !near(ub.Health, want) {
			t.Fatalf("第 %d 秒期望双方血量 %v，实际 a=%v b=%v", step, want, ua.Health, ub.Health)
		}
	}

	// 第 14 秒先结算的 a 把 b 打死，b 不再还手
	e.Step(1)
	if ub.Life != Dead || ub.Health != 0 {
		t.Fatalf("期望 b 阵亡且血量归零，实际 %v %v", ub.Life, ub.Health)
	}
	if ua.Life != Alive || !near(ua.Health, 2.5) {
		t.Fatalf("期望 a 存活剩 2.5 血，实际 %v %v", ua.Life, ua.Health)
	}
}

func TestStep_阵亡只发生一次且保留单位记录(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 1000)
	b := addBarePlayer(e, 1000)
	killer := mustCreate(t, e, a, Helicopter, Vec{})
	victim := mustCreate(t, e, b, Soldier, Vec{X: 30})
	other := mustCreate(t, e, b, Soldier, Vec{X: 700, Y: 500})
	e.Attack(killer.ID, victim.ID)

	for i := 0; i < 20 && victim.Alive(); i++ {
		e.Step(1)
		if victim.Health < 0 {
			t.Fatalf("血量不应为负: %v", victim.Health)
		}
	}
	if victim.Alive() {
		t.Fatalf("期望目标被击杀")
	}
	for i := 0; i < 3; i++ {
		e.Step(1)
	}

	pb, _ := e.Player(b)
	pa, _ := e.Player(a)
	if len(pb.Units) != 1 || pb.Units[0] != other.ID {
		t.Fatalf("期望阵亡单位移出花名册，实际 %v", pb.Units)
	}
	if pb.Stats.Losses != 1 || pa.Stats.Kills != 1 {
		t.Fatalf("期望只记一次阵亡，losses=%d kills=%d", pb.Stats.Losses, pa.Stats.Kills)
	}
	got, ok := e.Unit(victim.ID)
	if !ok || got.Life != Dead || got.Moving || got.Attacking || got.Target != 0 {
		t.Fatalf("期望阵亡单位仍可查到且状态清空: %+v", got)
	}
	if killer.Attacking || killer.Target != 0 {
		t.Fatalf("期望目标阵亡后攻击方回到空闲: %+v", killer)
	}
	if e.Move(victim.ID, Vec{}) {
		t.Fatalf("期望阵亡单位不能移动")
	}
}

func TestStep_空闲单位自动攻击最近的敌人(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 1000)
	b := addBarePlayer(e, 1000)
	u := mustCreate(t, e, a, Soldier, Vec{X: 100, Y: 100})
	far := mustCreate(t, e, b, Soldier, Vec{X: 150, Y: 100})
	closest := mustCreate(t, e, b, Soldier, Vec{X: 100, Y: 130})

	e.Step(0.1)
	if u.Target != closest.ID || !u.Attacking {
		t.Fatalf("期望锁定最近的敌人 %d，实际 %d", closest.ID, u.Target)
	}
	if far.Target != u.ID {
		t.Fatalf("期望敌方空闲单位同样反击，实际 %d", far.Target)
	}
}

func TestStep_等距时先遍历到的敌人胜出(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 1000)
	b := addBarePlayer(e, 1000)
	u := mustCreate(t, e, a, Soldier, Vec{X: 100, Y: 100})
	first := mustCreate(t, e, b, Soldier, Vec{X: 140, Y: 100})
	mustCreate(t, e, b, Soldier, Vec{X: 60, Y: 100})

	e.Step(0.1)
	if u.Target != first.ID {
		t.Fatalf("期望选中先建造的 %d，实际 %d", first.ID, u.Target)
	}
}

func TestStep_索敌半径外和打不到的目标不会自动攻击(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 1000)
	b := addBarePlayer(e, 1000)
	soldier := mustCreate(t, e, a, Soldier, Vec{X: 100, Y: 100})
	tank := mustCreate(t, e, a, Tank, Vec{X: 400, Y: 400})
	mustCreate(t, e, b, Soldier, Vec{X: 176, Y: 100})
	mustCreate(t, e, b, Helicopter, Vec{X: 420, Y: 400})

	e.Step(0.1)
	if soldier.Attacking {
		t.Fatalf("期望 76 距离外的敌人不触发索敌（半径 75）")
	}
	if tank.Attacking {
		t.Fatalf("期望坦克不会自动攻击直升机")
	}
}

func TestStep_目标超出射程时追击(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 1000)
	b := addBarePlayer(e, 1000)
	u := mustCreate(t, e, a, Soldier, Vec{})
	target := mustCreate(t, e, b, Tank, Vec{X: 300})
	e.Attack(u.ID, target.ID)

	e.Step(1)
	// 追击同样按 speed × delta × 60 前进，本帧不造成伤害
	if !near(u.Pos.X, 90) || !u.Attacking {
		t.Fatalf("期望向目标前进 90，实际 %v attacking=%v", u.Pos, u.Attacking)
	}
	if target.Health != 300 {
		t.Fatalf("射程外不应造成伤害，实际 %v", target.Health)
	}
}

func TestStep_非法时间增量按零处理(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 1000)
	u := mustCreate(t, e, a, Soldier, Vec{})
	e.Move(u.ID, Vec{X: 100})

	e.Step(1.5)
	for _, d := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		pos := u.Pos
		e.Step(d)
		if e.Time() != 1.5 || u.Pos != pos {
			t.Fatalf("delta=%v 期望时间和位置不变，time=%v pos=%v", d, e.Time(), u.Pos)
		}
	}
}
