package handler

import (
	"Skirmish/internal/battle/app"
	"Skirmish/internal/shared/session"
)

// Battle ws 和 http 两套 handler 共用的依赖。
type Battle struct {
	Service *app.BattleService
	Session session.Manager
}

func NewBattle(s *app.BattleService, sess session.Manager) *Battle {
	return &Battle{
		Service: s,
		Session: sess,
	}
}
