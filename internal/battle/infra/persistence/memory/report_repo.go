package memory

import (
	"context"
	"sync"

	"Skirmish/internal/battle/entity"
)

type ReportRepository struct {
	mu      sync.RWMutex
	reports map[entity.MatchID]entity.MatchReport
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{reports: make(map[entity.MatchID]entity.MatchReport)}
}

func (r *ReportRepository) Save(ctx context.Context, report *entity.MatchReport) error {
	_ = ctx
	if report == nil {
		return nil
	}
	cp := *report
	cp.Players = append([]entity.PlayerReport(nil), report.Players...)

	r.mu.Lock()
	r.reports[report.MatchID] = cp
	r.mu.Unlock()
	return nil
}

func (r *ReportRepository) Get(ctx context.Context, id entity.MatchID) (*entity.MatchReport, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, entity.ErrReportNotFound
	}
	report.Players = append([]entity.PlayerReport(nil), report.Players...)
	return &report, nil
}
