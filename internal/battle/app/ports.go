package app

import (
	"context"

	"Skirmish/internal/battle/engine"
	"Skirmish/internal/battle/entity"
	"Skirmish/internal/shared/actor/messages"
)

// MatchRuntime 对局 actor 的调用入口，拒绝以 *messages.RejectError 返回。
type MatchRuntime interface {
	CreateMatch(ctx context.Context, width, height float64) (entity.MatchID, error)
	Join(ctx context.Context, id entity.MatchID, name string, faction engine.Faction) (*messages.MHJoin, error)
	Build(ctx context.Context, id entity.MatchID, playerID int, t engine.UnitType, pos engine.Vec) (*messages.MHBuild, error)
	Move(ctx context.Context, id entity.MatchID, playerID, unitID int, pos engine.Vec) error
	Attack(ctx context.Context, id entity.MatchID, playerID, unitID, targetID int) error
	Snapshot(ctx context.Context, id entity.MatchID) (*messages.MHSnapshot, error)
	ToggleDebug(ctx context.Context, id entity.MatchID) (bool, error)
}

type ReportReader interface {
	Get(ctx context.Context, id entity.MatchID) (*entity.MatchReport, error)
}

// TokenIssuer 给加入对局的玩家签发命令令牌。
type TokenIssuer func(matchID string, playerID int) (string, error)

// TokenParser 校验令牌并取出席位。
type TokenParser func(token string) (matchID string, playerID int, err error)

type CommandObserver interface {
	CommandResult(command, result string)
}
