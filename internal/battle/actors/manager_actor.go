package actors

import (
	"Skirmish/internal/battle/entity"
	"Skirmish/internal/battle/reasoncode"
	"Skirmish/internal/shared/actor/messages"
	"Skirmish/internal/shared/utils"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// ManagerActor 负责建局和按 MatchID 路由。结束的对局过了保留期自行停止，manager 收到 Terminated 后移除路由。
type ManagerActor struct {
	settings    MatchSettings
	deps        Deps
	matchActors map[MatchID]*actor.PID
}

func NewManagerActor(settings MatchSettings, deps Deps) *ManagerActor {
	return &ManagerActor{
		settings:    settings,
		deps:        deps,
		matchActors: make(map[MatchID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *messages.CreateMatch:
		m.createMatch(ctx, msg)
	case *actor.Terminated:
		m.forget(msg.Who)
	case messages.MatchMessage:
		if msg == nil {
			ctx.Respond(fail(reasoncode.InvalidParam, "nil request"))
			return
		}
		pid, ok := m.matchActors[msg.MatchID()]
		if !ok || pid == nil {
			ctx.Respond(fail(reasoncode.MatchNotFound, "对局不存在"))
			return
		}
		ctx.Forward(pid)
	default:
		return
	}
}

func (m *ManagerActor) createMatch(ctx actor.Context, req *messages.CreateMatch) {
	n, err := m.nextID()
	if err != nil {
		m.deps.logger().Error("match id alloc failed", zap.Error(err))
		ctx.Respond(fail(reasoncode.Internal, "match id alloc failed"))
		return
	}
	id := entity.NewMatchID(n)

	settings := m.settings
	if m.deps.Settings != nil {
		settings = m.deps.Settings()
	}
	if req != nil && req.Width > 0 && req.Height > 0 {
		settings.Engine.Width = req.Width
		settings.Engine.Height = req.Height
	}

	deps := m.deps
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMatchActor(id, settings, deps)
	})
	pid, err := ctx.SpawnNamed(props, "match-"+id.String())
	if err != nil {
		m.deps.logger().Error("match spawn failed", zap.String("match_id", id.String()), zap.Error(err))
		ctx.Respond(fail(reasoncode.Internal, "match spawn failed"))
		return
	}
	m.matchActors[id] = pid

	ctx.Respond(&messages.CreateMatchReply{Reply: messages.Ok(), MatchId: id})
}

func (m *ManagerActor) forget(pid *actor.PID) {
	for id, p := range m.matchActors {
		if p.Equal(pid) {
			delete(m.matchActors, id)
			m.deps.logger().Info("match retired", zap.String("match_id", id.String()))
			return
		}
	}
}

func (m *ManagerActor) nextID() (int64, error) {
	if m.deps.NextID != nil {
		return m.deps.NextID()
	}
	return utils.NextSnowflakeID()
}
