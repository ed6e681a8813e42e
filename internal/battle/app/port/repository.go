package port

import (
	"context"

	"Skirmish/internal/battle/entity"
)

// ReportRepository 战报归档。Get 找不到时返回 entity.ErrReportNotFound。
type ReportRepository interface {
	Save(ctx context.Context, r *entity.MatchReport) error
	Get(ctx context.Context, id entity.MatchID) (*entity.MatchReport, error)
}

// Publisher 把一局的帧和战报推给在线的客户端。
type Publisher interface {
	PublishTick(id entity.MatchID, s *entity.TickSnapshot)
	PublishOver(id entity.MatchID, r *entity.MatchReport)
}
