package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"Skirmish/internal/battle/engine"
)

// 顶部一行状态栏，底部一行帮助。
const (
	hudTop    = 1
	hudBottom = 1
)

var (
	styleHud      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleResource = tcell.StyleDefault.Foreground(tcell.ColorGold)
	styleCursor   = tcell.StyleDefault.Reverse(true)
	styleDead     = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleBanner   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow).Bold(true)
)

// viewport 世界坐标和终端格子之间的换算。
type viewport struct {
	worldW, worldH float64
	cols, rows     int
}

func newViewport(worldW, worldH float64, screenW, screenH int) viewport {
	return viewport{
		worldW: worldW,
		worldH: worldH,
		cols:   max(1, screenW),
		rows:   max(1, screenH-hudTop-hudBottom),
	}
}

func (v viewport) toCell(p engine.Vec) (int, int) {
	x := int(math.Floor(p.X / v.worldW * float64(v.cols)))
	y := int(math.Floor(p.Y / v.worldH * float64(v.rows)))
	return clamp(x, 0, v.cols-1), clamp(y, 0, v.rows-1) + hudTop
}

// toWorld 返回格子中心对应的世界坐标。
func (v viewport) toWorld(col, row int) engine.Vec {
	row -= hudTop
	return engine.Vec{
		X: (float64(col) + 0.5) * v.worldW / float64(v.cols),
		Y: (float64(row) + 0.5) * v.worldH / float64(v.rows),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func glyph(t engine.UnitType) rune {
	switch t {
	case engine.Soldier:
		return 's'
	case engine.Tank:
		return 'T'
	case engine.Helicopter:
		return 'H'
	default:
		return '?'
	}
}

func playerStyle(p *engine.Player) tcell.Style {
	if p == nil {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(tcell.GetColor(p.Color))
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func (g *Game) draw() {
	s := g.screen
	s.Clear()
	w, h := s.Size()
	g.view = newViewport(g.engine.World().Width, g.engine.World().Height, w, h)

	for _, r := range g.engine.Resources() {
		if r.Collected {
			continue
		}
		x, y := g.view.toCell(r.Pos)
		s.SetContent(x, y, '$', nil, styleResource)
	}
	for _, p := range g.engine.Players() {
		x, y := g.view.toCell(p.Base)
		s.SetContent(x, y, 'B', nil, playerStyle(p).Bold(true))
	}
	debug := g.engine.Debug()
	for _, u := range g.engine.Units() {
		x, y := g.view.toCell(u.Pos)
		if !u.Alive() {
			if debug {
				s.SetContent(x, y, 'x', nil, styleDead)
			}
			continue
		}
		owner, _ := g.engine.Player(u.Owner)
		style := playerStyle(owner)
		if u.ID == g.selected {
			style = style.Reverse(true)
		}
		if debug && u.Attacking {
			style = style.Underline(true)
		}
		s.SetContent(x, y, glyph(u.Type), nil, style)
	}

	mainc, _, _, _ := s.GetContent(g.cursorX, g.cursorY)
	s.SetContent(g.cursorX, g.cursorY, mainc, nil, styleCursor)

	drawText(s, 0, 0, styleHud, g.statusLine(w))
	drawText(s, 0, h-1, styleHelp, "hjkl/arrows cursor  tab select  m move  a attack  1/2/3 build  d debug  q quit")
	if g.message != "" {
		drawText(s, max(0, w-len(g.message)-1), h-1, styleHelp, g.message)
	}
	if g.over {
		banner := " GAME OVER "
		if g.winner != "" {
			banner = fmt.Sprintf(" GAME OVER, %s WINS ", g.winner)
		}
		drawText(s, max(0, (w-len(banner))/2), h/2, styleBanner, banner)
	}
	s.Show()
}

func (g *Game) statusLine(width int) string {
	p, _ := g.engine.Player(g.human)
	line := fmt.Sprintf(" t=%.1fs", g.engine.Time())
	if p != nil {
		line += fmt.Sprintf("  money=%d  units=%d  kills=%d", p.Money, len(p.Units), p.Stats.Kills)
		for _, t := range []engine.UnitType{engine.Soldier, engine.Tank, engine.Helicopter} {
			price, _ := g.engine.Price(g.human, t)
			line += fmt.Sprintf("  %s:%d", t, price)
		}
	}
	if u, ok := g.engine.Unit(g.selected); ok && g.engine.Debug() {
		line += fmt.Sprintf("  [#%d %s hp=%.0f target=%d]", u.ID, u.Type, u.Health, u.Target)
	}
	if len(line) < width {
		line += fmt.Sprintf("%*s", width-len(line), "")
	}
	return line
}
