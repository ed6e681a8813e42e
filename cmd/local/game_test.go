package main

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"Skirmish/internal/battle/engine"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("期望模拟屏幕初始化成功，实际 err=%v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	e := engine.New(engine.DefaultConfig(), engine.WithRand(rand.New(rand.NewSource(7))))
	return NewGame(screen, e, 0, nil)
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestViewport_格子和世界坐标互转(t *testing.T) {
	v := newViewport(800, 600, 80, 24)
	if v.rows != 22 {
		t.Fatalf("期望去掉状态栏后剩 22 行，实际 %d", v.rows)
	}
	x, y := v.toCell(engine.Vec{X: 405, Y: 0})
	if x != 40 || y != hudTop {
		t.Fatalf("期望 (40,%d)，实际 (%d,%d)", hudTop, x, y)
	}
	col, row := v.toCell(v.toWorld(12, 9))
	if col != 12 || row != 9 {
		t.Fatalf("期望格子中心换算回原格子，实际 (%d,%d)", col, row)
	}
	x, y = v.toCell(engine.Vec{X: 900, Y: -10})
	if x != 79 || y != hudTop {
		t.Fatalf("期望越界坐标夹到边缘，实际 (%d,%d)", x, y)
	}
}

func TestNewGame_两名玩家并选中首个单位(t *testing.T) {
	g := newTestGame(t)
	if len(g.engine.Players()) != 2 {
		t.Fatalf("期望 2 名玩家，实际 %d", len(g.engine.Players()))
	}
	units := g.engine.LivingUnits(g.human)
	if len(units) != 3 || g.selected != units[0].ID {
		t.Fatalf("期望默认选中第一个开局单位，实际 selected=%d", g.selected)
	}
	g.handleInput(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	if g.selected != units[1].ID {
		t.Fatalf("期望 tab 切到下一个单位，实际 %d", g.selected)
	}
}

func TestHandleInput_按键建造扣钱(t *testing.T) {
	g := newTestGame(t)
	g.handleInput(key('1'))

	p, _ := g.engine.Player(g.human)
	// 花名册已有 3 个单位，步兵价格 50*1.3
	if p.Money != 715-65 {
		t.Fatalf("期望余额 650，实际 %d", p.Money)
	}
	u, ok := g.engine.Unit(g.selected)
	if !ok || u.Type != engine.Soldier || u.Owner != g.human {
		t.Fatalf("期望新建的步兵被选中，实际 %+v", u)
	}
}

func TestHandleInput_移动和调试开关(t *testing.T) {
	g := newTestGame(t)
	g.handleInput(key('l'))
	g.handleInput(key('l'))
	g.handleInput(key('m'))

	u, _ := g.engine.Unit(g.selected)
	if !u.Moving || len(u.Waypoints) != 1 {
		t.Fatalf("期望选中单位开始移动，实际 %+v", u)
	}
	g.handleInput(key('d'))
	if !g.engine.Debug() {
		t.Fatalf("期望 d 打开调试模式")
	}
	g.handleInput(key('d'))
	if g.engine.Debug() {
		t.Fatalf("期望再按 d 关闭调试模式")
	}
}

func TestHandleInput_光标下没有敌人不能攻击(t *testing.T) {
	g := newTestGame(t)
	g.handleInput(key('a'))
	if !strings.Contains(g.message, "no enemy") {
		t.Fatalf("期望提示没有目标，实际 %q", g.message)
	}
}

func TestHandleInput_退出键(t *testing.T) {
	g := newTestGame(t)
	if g.handleInput(key('q')) {
		t.Fatalf("期望 q 退出")
	}
	if g.handleInput(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatalf("期望 esc 退出")
	}
}

func TestStep_对局结束后不再推进(t *testing.T) {
	g := newTestGame(t)
	g.over = true
	g.step(1)
	if g.engine.Time() != 0 {
		t.Fatalf("期望结束后时间不变，实际 %v", g.engine.Time())
	}
	g.over = false
	g.step(0.5)
	if g.engine.Time() != 0.5 {
		t.Fatalf("期望推进 0.5 秒，实际 %v", g.engine.Time())
	}
	if g.over {
		t.Fatalf("期望双方都有单位时对局未结束")
	}
}

func TestDraw_状态栏显示余额(t *testing.T) {
	g := newTestGame(t)
	g.draw()
	line := g.statusLine(80)
	if !strings.Contains(line, "money=715") || !strings.Contains(line, "tank:") {
		t.Fatalf("期望状态栏包含余额和价格，实际 %q", line)
	}
}
