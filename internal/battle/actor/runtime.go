package actor

import (
	"context"
	"errors"
	"time"

	"Skirmish/internal/battle/actors"
	"Skirmish/internal/battle/engine"
	"Skirmish/internal/battle/entity"
	"Skirmish/internal/shared/actor/messages"
	"Skirmish/internal/shared/transport"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(settings actors.MatchSettings, deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(settings, deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		// 先停 manager，子 actor 会随之停止并关闭各自的 dc
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) CreateMatch(ctx context.Context, width, height float64) (entity.MatchID, error) {
	res, err := ask[*messages.CreateMatchReply](ctx, r, &messages.CreateMatch{Width: width, Height: height})
	if err != nil {
		return "", err
	}
	return res.MatchId, nil
}

func (r *Runtime) Join(ctx context.Context, id entity.MatchID, name string, faction engine.Faction) (*messages.MHJoin, error) {
	return ask[*messages.MHJoin](ctx, r, &messages.HMJoin{
		MatchBaseMessage: messages.MatchBaseMessage{MatchId: id},
		Name:             name,
		Faction:          faction,
	})
}

func (r *Runtime) Build(ctx context.Context, id entity.MatchID, playerID int, t engine.UnitType, pos engine.Vec) (*messages.MHBuild, error) {
	return ask[*messages.MHBuild](ctx, r, &messages.HMBuild{
		MatchBaseMessage: messages.MatchBaseMessage{MatchId: id, PlayerId: playerID},
		UnitType:         t,
		Pos:              pos,
	})
}

func (r *Runtime) Move(ctx context.Context, id entity.MatchID, playerID, unitID int, pos engine.Vec) error {
	_, err := ask[*messages.MHCommand](ctx, r, &messages.HMMove{
		MatchBaseMessage: messages.MatchBaseMessage{MatchId: id, PlayerId: playerID},
		UnitId:           unitID,
		Pos:              pos,
	})
	return err
}

func (r *Runtime) Attack(ctx context.Context, id entity.MatchID, playerID, unitID, targetID int) error {
	_, err := ask[*messages.MHCommand](ctx, r, &messages.HMAttack{
		MatchBaseMessage: messages.MatchBaseMessage{MatchId: id, PlayerId: playerID},
		UnitId:           unitID,
		TargetId:         targetID,
	})
	return err
}

func (r *Runtime) Snapshot(ctx context.Context, id entity.MatchID) (*messages.MHSnapshot, error) {
	return ask[*messages.MHSnapshot](ctx, r, &messages.HMSnapshot{
		MatchBaseMessage: messages.MatchBaseMessage{MatchId: id},
	})
}

func (r *Runtime) ToggleDebug(ctx context.Context, id entity.MatchID) (bool, error) {
	res, err := ask[*messages.MHDebug](ctx, r, &messages.HMDebug{
		MatchBaseMessage: messages.MatchBaseMessage{MatchId: id},
	})
	if err != nil {
		return false, err
	}
	return res.Debug, nil
}

// ask 发给 manager 并等待回包。OK=false 的回包转成 *messages.RejectError。
func ask[T messages.Result](ctx context.Context, r *Runtime, msg any) (T, error) {
	var zero T
	if r == nil {
		return zero, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return zero, err
	}
	if reply, ok := res.(messages.Result); ok && !reply.Result().OK {
		return zero, &messages.RejectError{Reason: reply.Result().Reason, Message: reply.Result().Message}
	}
	out, ok := res.(T)
	if !ok {
		return zero, &RuntimeError{Code: transport.SystemError, Message: "actor 回包类型不匹配"}
	}
	return out, nil
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
