package engine

import "testing"

func TestGameOver_只剩一个未战败玩家(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 1000)
	b := addBarePlayer(e, 49)
	ua := mustCreate(t, e, a, Soldier, Vec{})

	if !e.GameOver(0) {
		t.Fatalf("期望 b 没有单位且买不起步兵时对局结束")
	}
	if w, ok := e.Winner(0); !ok || w != a {
		t.Fatalf("期望胜者为 %d，实际 %d ok=%v", a, w, ok)
	}

	pb, _ := e.Player(b)
	pb.Money = 50
	if e.GameOver(0) {
		t.Fatalf("期望 b 余额够重建时对局继续")
	}
	if !e.GameOver(100) {
		t.Fatalf("期望阈值 100 时 b 视为战败")
	}

	pb.Money = 0
	pa, _ := e.Player(a)
	pa.Money = 0
	e.kill(ua, ua)
	if !e.GameOver(0) {
		t.Fatalf("期望双方都战败时对局结束")
	}
	if _, ok := e.Winner(0); ok {
		t.Fatalf("期望双方都战败时没有胜者")
	}
}

func TestContenders_没有单位但买得起仍在局内(t *testing.T) {
	e := newBareEngine(t)
	a := addBarePlayer(e, 1000)
	b := addBarePlayer(e, 50)
	ua := mustCreate(t, e, a, Soldier, Vec{})
	ub := mustCreate(t, e, b, Soldier, Vec{})
	e.kill(ua, ub)

	if len(e.LivingUnits(a)) != 0 {
		t.Fatalf("期望 a 的部队全灭")
	}
	if e.Defeated(a, 0) {
		t.Fatalf("期望 a 余额 %d 够重建时不算战败", 1000-50)
	}
	got := e.Contenders(0)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("期望 a b 都在局内，实际 %v", got)
	}
	if e.GameOver(0) {
		t.Fatalf("期望两名玩家都未战败时对局继续")
	}
}

func TestDefeated_未知玩家视为战败(t *testing.T) {
	e := newBareEngine(t)
	if !e.Defeated(PlayerID(7), 0) {
		t.Fatalf("期望未知玩家视为战败")
	}
	if CheapestCost() != 50 {
		t.Fatalf("期望最便宜的兵种价格为 50，实际 %d", CheapestCost())
	}
}
