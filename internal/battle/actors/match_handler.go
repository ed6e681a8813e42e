package actors

import (
	"Skirmish/internal/battle/engine"
	"Skirmish/internal/battle/entity"
	"Skirmish/internal/battle/reasoncode"
	"Skirmish/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type MatchHandler struct{}

var MH = &MatchHandler{}

func (h *MatchHandler) HandleJoin(ctx actor.Context, p *MatchActor, req *messages.HMJoin) {
	if p.state == Finished {
		ctx.Respond(fail(reasoncode.MatchOver, "对局已结束"))
		return
	}
	if len(p.engine.World().Players) >= p.settings.MaxPlayers {
		ctx.Respond(fail(reasoncode.MatchFull, "对局人数已满"))
		return
	}
	if req.Name == "" {
		ctx.Respond(fail(reasoncode.InvalidParam, "名字不能为空"))
		return
	}

	id := p.engine.AddPlayer(req.Name, req.Faction)
	pl, _ := p.engine.Player(id)
	p.deps.logger().Info("player joined",
		zap.String("match_id", p.matchID.String()),
		zap.Int("player_id", int(id)),
		zap.String("name", req.Name),
	)
	ctx.Respond(&messages.MHJoin{
		Reply:    messages.Ok(),
		PlayerId: int(id),
		Base:     pl.Base,
		Color:    pl.Color,
		Money:    pl.Money,
	})
}

func (h *MatchHandler) HandleBuild(ctx actor.Context, p *MatchActor, req *messages.HMBuild) {
	if p.state == Finished {
		ctx.Respond(fail(reasoncode.MatchOver, "对局已结束"))
		return
	}
	owner := engine.PlayerID(req.PlayerId)
	price, ok := p.engine.Price(owner, req.UnitType)
	if !ok {
		ctx.Respond(fail(reasoncode.UnitRejected, "未知玩家或兵种"))
		return
	}
	id, ok := p.engine.CreateUnit(owner, req.UnitType, req.Pos)
	if !ok {
		ctx.Respond(fail(reasoncode.UnitRejected, "金钱不足"))
		return
	}
	pl, _ := p.engine.Player(owner)
	ctx.Respond(&messages.MHBuild{
		Reply:  messages.Ok(),
		UnitId: int(id),
		Price:  price,
		Money:  pl.Money,
	})
}

func (h *MatchHandler) HandleMove(ctx actor.Context, p *MatchActor, req *messages.HMMove) {
	if reply := p.checkCommand(engine.UnitID(req.UnitId), req.PlayerId); reply != nil {
		ctx.Respond(reply)
		return
	}
	if !p.engine.Move(engine.UnitID(req.UnitId), req.Pos) {
		ctx.Respond(fail(reasoncode.MoveRejected, "单位无法移动"))
		return
	}
	ctx.Respond(&messages.MHCommand{Reply: messages.Ok()})
}

func (h *MatchHandler) HandleAttack(ctx actor.Context, p *MatchActor, req *messages.HMAttack) {
	if reply := p.checkCommand(engine.UnitID(req.UnitId), req.PlayerId); reply != nil {
		ctx.Respond(reply)
		return
	}
	if !p.engine.Attack(engine.UnitID(req.UnitId), engine.UnitID(req.TargetId)) {
		ctx.Respond(fail(reasoncode.AttackRejected, "目标无效或无法攻击"))
		return
	}
	ctx.Respond(&messages.MHCommand{Reply: messages.Ok()})
}

func (h *MatchHandler) HandleSnapshot(ctx actor.Context, p *MatchActor, req *messages.HMSnapshot) {
	resp := &messages.MHSnapshot{
		Reply: messages.Ok(),
		Snapshot: entity.TickSnapshot{
			MatchID: p.matchID,
			Version: p.dc.Version(),
			State:   p.engine.Snapshot(),
		},
		Over: p.state == Finished,
	}
	if p.report != nil {
		resp.Winner = p.report.Winner
	}
	ctx.Respond(resp)
}

func (h *MatchHandler) HandleDebug(ctx actor.Context, p *MatchActor, req *messages.HMDebug) {
	ctx.Respond(&messages.MHDebug{
		Reply: messages.Ok(),
		Debug: p.engine.ToggleDebug(),
	})
}

// checkCommand 对局结束或单位不属于发令玩家时返回拒绝回包。
func (p *MatchActor) checkCommand(unitID engine.UnitID, playerID int) *messages.Reply {
	if p.state == Finished {
		return fail(reasoncode.MatchOver, "对局已结束")
	}
	u, ok := p.engine.Unit(unitID)
	if !ok {
		return fail(reasoncode.InvalidParam, "单位不存在")
	}
	if int(u.Owner) != playerID {
		return fail(reasoncode.NotOwner, "不能指挥别人的单位")
	}
	return nil
}
