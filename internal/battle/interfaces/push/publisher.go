package push

import (
	"Skirmish/internal/battle/entity"
	"Skirmish/internal/shared/session"
)

const (
	TickMsg = "battle.tick"
	OverMsg = "battle.over"
)

// SessionPublisher 推给该局所有已绑定的连接。Push 本身不阻塞。
type SessionPublisher struct {
	session session.Manager
}

func NewSessionPublisher(s session.Manager) *SessionPublisher {
	return &SessionPublisher{session: s}
}

func (p *SessionPublisher) PublishTick(id entity.MatchID, s *entity.TickSnapshot) {
	for _, conn := range p.session.Conns(id.String()) {
		conn.Push(TickMsg, s)
	}
}

func (p *SessionPublisher) PublishOver(id entity.MatchID, r *entity.MatchReport) {
	for _, conn := range p.session.Conns(id.String()) {
		conn.Push(OverMsg, r)
	}
}
