package app

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"Skirmish/internal/battle/app/model"
	"Skirmish/internal/battle/engine"
	"Skirmish/internal/battle/entity"
	"Skirmish/internal/battle/reasoncode"
	"Skirmish/internal/shared/actor/messages"
	"Skirmish/modules/kit/logx"

	"go.uber.org/zap"
)

const maxNameLen = 32

type BattleService struct {
	runtime  MatchRuntime
	reports  ReportReader
	issue    TokenIssuer
	parse    TokenParser
	observer CommandObserver
	log      logx.Logger
}

// NewBattleService observer 和 log 可以为空。
func NewBattleService(runtime MatchRuntime, reports ReportReader, issue TokenIssuer, parse TokenParser, observer CommandObserver, log logx.Logger) *BattleService {
	if log == nil {
		log = logx.Nop()
	}
	return &BattleService{
		runtime:  runtime,
		reports:  reports,
		issue:    issue,
		parse:    parse,
		observer: observer,
		log:      log,
	}
}

func (s *BattleService) CreateMatch(ctx context.Context, req model.CreateMatchReq) (*model.CreateMatchResp, error) {
	if req.Width < 0 || req.Height < 0 {
		return nil, ErrInvalidParam.WithReason(ReasonInvalidParam).WithData("width", req.Width).WithData("height", req.Height)
	}
	id, err := s.runtime.CreateMatch(ctx, req.Width, req.Height)
	if err != nil {
		return nil, wrapRuntimeErr(err)
	}
	s.log.WithContext(ctx).Info("match created", zap.String("match_id", id.String()))
	return &model.CreateMatchResp{MatchID: id}, nil
}

// Join 加入对局并签发令牌。阵营为空时默认 vanguard。
func (s *BattleService) Join(ctx context.Context, req model.JoinReq) (*model.JoinResp, error) {
	name := strings.TrimSpace(req.Name)
	if req.MatchID == "" || name == "" || utf8.RuneCountInString(name) > maxNameLen {
		return nil, ErrInvalidParam.WithReason(ReasonInvalidParam).WithData("name", req.Name)
	}
	faction := engine.FactionVanguard
	if req.Faction != "" {
		f, ok := engine.ParseFaction(req.Faction)
		if !ok {
			return nil, ErrInvalidParam.WithReason(ReasonInvalidParam).WithData("faction", req.Faction)
		}
		faction = f
	}

	id := entity.MatchID(req.MatchID)
	res, err := s.runtime.Join(ctx, id, name, faction)
	if err != nil {
		return nil, wrapRuntimeErr(err)
	}
	token, err := s.issue(id.String(), res.PlayerId)
	if err != nil {
		return nil, ErrInternalServer.WithReason(ReasonTokenIssue).WithData("player_id", res.PlayerId).WithCause(err)
	}
	return &model.JoinResp{
		MatchID:  id,
		PlayerID: res.PlayerId,
		Token:    token,
		Base:     res.Base,
		Color:    res.Color,
		Money:    res.Money,
	}, nil
}

func (s *BattleService) Build(ctx context.Context, req model.BuildReq) (*model.BuildResp, error) {
	seat, err := s.Seat(req.Token)
	if err != nil {
		return nil, err
	}
	t, ok := engine.ParseUnitType(req.Type)
	if !ok {
		s.observe("build", reasoncode.InvalidParam)
		return nil, ErrInvalidParam.WithReason(ReasonInvalidParam).WithData("type", req.Type)
	}
	res, err := s.runtime.Build(ctx, seat.MatchID, seat.PlayerID, t, engine.Vec{X: req.X, Y: req.Y})
	s.observeErr("build", err)
	if err != nil {
		return nil, wrapRuntimeErr(err)
	}
	return &model.BuildResp{UnitID: res.UnitId, Price: res.Price, Money: res.Money}, nil
}

func (s *BattleService) Move(ctx context.Context, req model.MoveReq) error {
	seat, err := s.Seat(req.Token)
	if err != nil {
		return err
	}
	err = s.runtime.Move(ctx, seat.MatchID, seat.PlayerID, req.UnitID, engine.Vec{X: req.X, Y: req.Y})
	s.observeErr("move", err)
	if err != nil {
		return wrapRuntimeErr(err)
	}
	return nil
}

func (s *BattleService) Attack(ctx context.Context, req model.AttackReq) error {
	seat, err := s.Seat(req.Token)
	if err != nil {
		return err
	}
	err = s.runtime.Attack(ctx, seat.MatchID, seat.PlayerID, req.UnitID, req.TargetID)
	s.observeErr("attack", err)
	if err != nil {
		return wrapRuntimeErr(err)
	}
	return nil
}

func (s *BattleService) Snapshot(ctx context.Context, req model.MatchReq) (*model.SnapshotResp, error) {
	if req.MatchID == "" {
		return nil, ErrInvalidParam.WithReason(ReasonInvalidParam)
	}
	res, err := s.runtime.Snapshot(ctx, entity.MatchID(req.MatchID))
	if err != nil {
		return nil, wrapRuntimeErr(err)
	}
	return &model.SnapshotResp{
		MatchID: res.Snapshot.MatchID,
		Version: res.Snapshot.Version,
		Over:    res.Over,
		Winner:  res.Winner,
		State:   res.Snapshot.State,
	}, nil
}

func (s *BattleService) ToggleDebug(ctx context.Context, req model.MatchReq) (*model.DebugResp, error) {
	if req.MatchID == "" {
		return nil, ErrInvalidParam.WithReason(ReasonInvalidParam)
	}
	on, err := s.runtime.ToggleDebug(ctx, entity.MatchID(req.MatchID))
	if err != nil {
		return nil, wrapRuntimeErr(err)
	}
	return &model.DebugResp{Debug: on}, nil
}

func (s *BattleService) Report(ctx context.Context, matchID string) (*entity.MatchReport, error) {
	if matchID == "" {
		return nil, ErrInvalidParam.WithReason(ReasonInvalidParam)
	}
	if s.reports == nil {
		return nil, ErrUnavailable.WithReason(ReasonReportRepoUnavailable)
	}
	r, err := s.reports.Get(ctx, entity.MatchID(matchID))
	switch {
	case err == nil:
		return r, nil
	case errors.Is(err, entity.ErrReportNotFound):
		return nil, ErrReportNotFound.WithReason(ReasonReportNotFound).WithData("match_id", matchID)
	default:
		return nil, ErrUnavailable.WithReason(ReasonReportRepoUnavailable).WithCause(err)
	}
}

// Seat 解析命令令牌。
func (s *BattleService) Seat(token string) (model.Seat, error) {
	if token == "" {
		return model.Seat{}, ErrTokenInvalid.WithReason(ReasonTokenInvalid)
	}
	matchID, playerID, err := s.parse(token)
	if err != nil || matchID == "" || playerID <= 0 {
		return model.Seat{}, ErrTokenInvalid.WithReason(ReasonTokenInvalid).WithCause(err)
	}
	return model.Seat{MatchID: entity.MatchID(matchID), PlayerID: playerID}, nil
}

func (s *BattleService) observe(command, result string) {
	if s.observer != nil {
		s.observer.CommandResult(command, result)
	}
}

func (s *BattleService) observeErr(command string, err error) {
	if err == nil {
		s.observe(command, "ok")
		return
	}
	var rej *messages.RejectError
	if errors.As(err, &rej) {
		s.observe(command, rej.Reason)
		return
	}
	s.observe(command, "error")
}

// wrapRuntimeErr 把 actor 的拒绝转成带 reason 的业务错误，其它错误视为 actor 不可用。
func wrapRuntimeErr(err error) error {
	if err == nil {
		return nil
	}
	var rej *messages.RejectError
	if !errors.As(err, &rej) {
		return ErrUnavailable.WithReason(ReasonActorUnavailable).WithCause(err)
	}
	switch rej.Reason {
	case reasoncode.UnitRejected:
		return rejected(CodeCommandRejected, ReasonUnitRejected, rej.Message)
	case reasoncode.MoveRejected:
		return rejected(CodeCommandRejected, ReasonMoveRejected, rej.Message)
	case reasoncode.AttackRejected:
		return rejected(CodeCommandRejected, ReasonAttackRejected, rej.Message)
	case reasoncode.NotOwner:
		return rejected(CodeCommandRejected, ReasonNotOwner, rej.Message)
	case reasoncode.MatchNotFound:
		return rejected(CodeMatchNotFound, ReasonMatchNotFound, rej.Message)
	case reasoncode.MatchOver:
		return rejected(CodeMatchOver, ReasonMatchOver, rej.Message)
	case reasoncode.MatchFull:
		return rejected(CodeMatchFull, ReasonMatchFull, rej.Message)
	case reasoncode.InvalidParam:
		return rejected(CodeInvalidParam, ReasonInvalidParam, rej.Message)
	default:
		return ErrInternalServer.WithReason(ReasonActorInternal).WithCause(err)
	}
}

func rejected(code Code, reason Reason, detail string) *Error {
	msg := detail
	if msg == "" {
		msg = reason.Message
	}
	return NewError(code, msg).WithReason(reason)
}
