package actors

import (
	"context"
	"math/rand"
	"time"

	"Skirmish/internal/battle/dc"
	"Skirmish/internal/battle/engine"
	"Skirmish/internal/battle/entity"
	"Skirmish/internal/battle/reasoncode"
	"Skirmish/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Init
	Online
	Finished
	Offline
	Stopping
)

type MatchID = entity.MatchID

// MatchActor 独占一个引擎实例，命令和 tick 都经 mailbox 串行进入。
type MatchActor struct {
	state      State
	matchID    MatchID
	settings   MatchSettings
	deps       Deps
	engine     *engine.Engine
	dc         *dc.MatchDC
	dispatcher *Dispatcher
	tickStop   chan struct{}
	retire     *time.Timer
	self       *actor.PID
	root       *actor.RootContext
	lastTick   time.Time
	startedAt  time.Time
	report     *entity.MatchReport
}

type stepTick struct{}

func (stepTick) NotInfluenceReceiveTimeout() {}

func NewMatchActor(matchID MatchID, settings MatchSettings, deps Deps) *MatchActor {
	settings = settings.withDefaults()
	l := deps.logger()

	var rnd *rand.Rand
	if deps.NewRand != nil {
		rnd = deps.NewRand()
	}
	opts := []engine.Option{engine.WithLogger(l)}
	if rnd != nil {
		opts = append(opts, engine.WithRand(rnd))
	}

	var dcOpts []dc.Option
	if deps.Metrics != nil {
		backend := deps.ReportBackend
		dcOpts = append(dcOpts, dc.WithReportObserver(func(err error) {
			deps.Metrics.ReportSaved(backend, err)
		}))
	}

	return &MatchActor{
		state:      None,
		matchID:    matchID,
		settings:   settings,
		deps:       deps,
		engine:     engine.New(settings.Engine, opts...),
		dc:         dc.NewMatchDC(matchID, deps.Publisher, deps.Reports, l, dcOpts...),
		dispatcher: NewDispatcher(),
	}
}

func (p *MatchActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		p.init(ctx)
		return
	case *actor.Stopping:
		p.stopTickLoop()
		if p.retire != nil {
			p.retire.Stop()
		}
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := p.dc.Close(closeCtx); err != nil {
			p.deps.logger().Error("match dc close failed", zap.String("match_id", p.matchID.String()), zap.Error(err))
		}
		if p.state == Online {
			p.deps.Metrics.MatchEnded(p.matchID.String())
		}
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopTickLoop()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopTickLoop()
		p.state = Init
		return
	case stepTick:
		if p.state != Online {
			return
		}
		p.step(p.deps.now())
		return
	case messages.MatchMessage:
		if msg == nil {
			ctx.Respond(fail(reasoncode.InvalidParam, "nil request"))
			return
		}
		if p.state != Online && p.state != Finished {
			ctx.Respond(fail(reasoncode.MatchNotFound, "match not online"))
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
	default:
		return
	}
}

func (p *MatchActor) init(ctx actor.Context) {
	p.self = ctx.Self()
	p.root = ctx.ActorSystem().Root
	now := p.deps.now()
	p.startedAt = now
	p.lastTick = now
	p.state = Online
	p.deps.Metrics.MatchStarted()
	p.deps.logger().Info("match online",
		zap.String("match_id", p.matchID.String()),
		zap.Duration("tick_interval", p.settings.TickInterval),
	)
	p.startTickLoop()
}

// step 用两次 tick 之间的墙钟差推进引擎，之后检查是否分出胜负。
func (p *MatchActor) step(now time.Time) {
	delta := now.Sub(p.lastTick).Seconds()
	p.lastTick = now

	begin := time.Now()
	p.engine.Step(delta)
	p.deps.Metrics.ObserveTick(time.Since(begin))
	p.deps.Metrics.SetUnitsAlive(p.matchID.String(), p.livingUnits())

	p.dc.Publish(p.engine.Snapshot())

	// 人没到齐之前不判胜负
	if len(p.engine.World().Players) < 2 {
		return
	}
	if p.engine.GameOver(p.settings.RebuildThreshold) {
		p.finish(now)
	}
}

func (p *MatchActor) finish(now time.Time) {
	p.stopTickLoop()
	p.state = Finished
	p.report = entity.NewMatchReport(p.matchID, p.engine, p.settings.RebuildThreshold, p.startedAt, now)
	p.dc.Archive(p.report)
	p.deps.Metrics.MatchEnded(p.matchID.String())
	p.deps.logger().Info("match finished",
		zap.String("match_id", p.matchID.String()),
		zap.Int("winner", p.report.Winner),
		zap.Float64("game_time", p.report.GameTime),
	)
	p.scheduleRetire()
}

// scheduleRetire 保留期满后毒死自己，排在 mailbox 里的查询仍会先处理完。
func (p *MatchActor) scheduleRetire() {
	if p.self == nil || p.retire != nil {
		return
	}
	self, root := p.self, p.root
	p.retire = time.AfterFunc(p.settings.Retention, func() {
		root.Poison(self)
	})
}

func (p *MatchActor) livingUnits() int {
	n := 0
	for _, u := range p.engine.World().Units {
		if u.Alive() {
			n++
		}
	}
	return n
}

func (p *MatchActor) MatchID() MatchID {
	return p.matchID
}

func (p *MatchActor) Engine() *engine.Engine {
	return p.engine
}

func (p *MatchActor) State() State {
	return p.state
}

func (p *MatchActor) startTickLoop() {
	if p.tickStop != nil {
		return
	}
	interval := p.settings.TickInterval
	if interval <= 0 {
		return
	}
	p.tickStop = make(chan struct{})
	self, root := p.self, p.root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, stepTick{})
			case <-stop:
				return
			}
		}
	}(p.tickStop, interval)
}

func (p *MatchActor) stopTickLoop() {
	if p.tickStop == nil {
		return
	}
	close(p.tickStop)
	p.tickStop = nil
}
