package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"Skirmish/internal/battle/engine"
	"Skirmish/modules/kit/logx"
)

// Game 单机对局：一个真人玩家对一个只会自动索敌的对手，引擎在本进程里逐帧推进。
type Game struct {
	screen    tcell.Screen
	engine    *engine.Engine
	log       logx.Logger
	threshold int

	human    engine.PlayerID
	opponent engine.PlayerID
	selected engine.UnitID

	view             viewport
	cursorX, cursorY int
	message          string

	over   bool
	winner string
}

func NewGame(screen tcell.Screen, e *engine.Engine, threshold int, l logx.Logger) *Game {
	if l == nil {
		l = logx.Nop()
	}
	g := &Game{
		screen:    screen,
		engine:    e,
		log:       l,
		threshold: threshold,
	}
	g.human = e.AddPlayer("you", engine.FactionVanguard)
	g.opponent = e.AddPlayer("cpu", engine.FactionBastion)

	w, h := screen.Size()
	g.view = newViewport(e.World().Width, e.World().Height, w, h)
	if p, ok := e.Player(g.human); ok {
		g.cursorX, g.cursorY = g.view.toCell(p.Base)
	}
	g.cycleSelection()
	return g
}

// handleInput 返回 false 表示退出。
func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			g.moveCursor(0, -1)
		case tcell.KeyDown:
			g.moveCursor(0, 1)
		case tcell.KeyLeft:
			g.moveCursor(-1, 0)
		case tcell.KeyRight:
			g.moveCursor(1, 0)
		case tcell.KeyTab:
			g.cycleSelection()
		case tcell.KeyRune:
			return g.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		g.screen.Sync()
		w, h := g.screen.Size()
		g.view = newViewport(g.engine.World().Width, g.engine.World().Height, w, h)
		g.moveCursor(0, 0)
	}
	return true
}

func (g *Game) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'h':
		g.moveCursor(-1, 0)
	case 'j':
		g.moveCursor(0, 1)
	case 'k':
		g.moveCursor(0, -1)
	case 'l':
		g.moveCursor(1, 0)
	case 'd':
		on := g.engine.ToggleDebug()
		g.message = fmt.Sprintf("debug %v", on)
	case 'm':
		g.orderMove()
	case 'a':
		g.orderAttack()
	case '1':
		g.build(engine.Soldier)
	case '2':
		g.build(engine.Tank)
	case '3':
		g.build(engine.Helicopter)
	}
	return true
}

func (g *Game) moveCursor(dx, dy int) {
	g.cursorX = clamp(g.cursorX+dx, 0, g.view.cols-1)
	g.cursorY = clamp(g.cursorY+dy, hudTop, hudTop+g.view.rows-1)
}

func (g *Game) cursorWorld() engine.Vec {
	return g.view.toWorld(g.cursorX, g.cursorY)
}

// cycleSelection 按建造顺序轮选自己的下一个存活单位。
func (g *Game) cycleSelection() {
	units := g.engine.LivingUnits(g.human)
	if len(units) == 0 {
		g.selected = 0
		return
	}
	next := units[0].ID
	for i, u := range units {
		if u.ID == g.selected && i+1 < len(units) {
			next = units[i+1].ID
			break
		}
	}
	g.selected = next
}

func (g *Game) build(t engine.UnitType) {
	if g.over {
		return
	}
	price, _ := g.engine.Price(g.human, t)
	id, ok := g.engine.CreateUnit(g.human, t, g.cursorWorld())
	if !ok {
		g.message = fmt.Sprintf("%s needs %d", t, price)
		return
	}
	g.selected = id
	g.message = fmt.Sprintf("built %s #%d for %d", t, id, price)
}

func (g *Game) orderMove() {
	if g.over {
		return
	}
	if !g.engine.Move(g.selected, g.cursorWorld()) {
		g.message = "no unit selected"
		return
	}
	g.message = fmt.Sprintf("#%d moving", g.selected)
}

func (g *Game) orderAttack() {
	if g.over {
		return
	}
	target, ok := g.enemyUnderCursor()
	if !ok {
		g.message = "no enemy under cursor"
		return
	}
	if !g.engine.Attack(g.selected, target) {
		g.message = fmt.Sprintf("#%d cannot attack #%d", g.selected, target)
		return
	}
	g.message = fmt.Sprintf("#%d attacking #%d", g.selected, target)
}

// enemyUnderCursor 光标所在格子里离格子中心最近的敌方存活单位。
func (g *Game) enemyUnderCursor() (engine.UnitID, bool) {
	center := g.cursorWorld()
	var (
		best  engine.UnitID
		bestD float64
		found bool
	)
	for _, u := range g.engine.Units() {
		if !u.Alive() || u.Owner == g.human {
			continue
		}
		x, y := g.view.toCell(u.Pos)
		if x != g.cursorX || y != g.cursorY {
			continue
		}
		if d := u.Pos.DistanceTo(center); !found || d < bestD {
			best, bestD, found = u.ID, d, true
		}
	}
	return best, found
}

// step 推进一帧并检查胜负，结束后不再推进。
func (g *Game) step(delta float64) {
	if g.over {
		return
	}
	g.engine.Step(delta)
	if u, ok := g.engine.Unit(g.selected); !ok || !u.Alive() {
		g.cycleSelection()
	}
	if !g.engine.GameOver(g.threshold) {
		return
	}
	g.over = true
	if id, ok := g.engine.Winner(g.threshold); ok {
		if p, ok := g.engine.Player(id); ok {
			g.winner = p.Name
		}
	}
	g.log.Info("local match over", zap.String("winner", g.winner), zap.Float64("game_time", g.engine.Time()))
}

func (g *Game) run(frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	last := time.Now()
	g.draw()
	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}
			g.draw()
		case now := <-ticker.C:
			g.step(now.Sub(last).Seconds())
			last = now
			g.draw()
		}
	}
}
