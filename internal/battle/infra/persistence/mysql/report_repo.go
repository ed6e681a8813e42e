package mysql

import (
	"context"
	"errors"

	"Skirmish/internal/battle/entity"
	"Skirmish/internal/battle/infra/persistence/model"
	"Skirmish/modules/kit/errx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// AutoMigrate 建表，启动时调用一次。
func (r *ReportRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&model.MatchReport{}, &model.MatchPlayer{})
}

const OpSaveReport = "repo.report.Save"

// Save 同一局重复保存时覆盖旧数据。
func (r *ReportRepo) Save(ctx context.Context, report *entity.MatchReport) error {
	if report == nil {
		return nil
	}
	m := model.ReportToModel(report)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		players := m.Players
		m.Players = nil
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(m).Error; err != nil {
			return err
		}
		if err := tx.Where("match_id = ?", m.MatchID).Delete(&model.MatchPlayer{}).Error; err != nil {
			return err
		}
		if len(players) == 0 {
			return nil
		}
		return tx.Create(&players).Error
	})
	if err != nil {
		return errx.ErrUnavailable.WithData("op", OpSaveReport).WithData("match_id", m.MatchID).WithCause(err)
	}
	return nil
}

const OpGetReport = "repo.report.Get"

func (r *ReportRepo) Get(ctx context.Context, id entity.MatchID) (*entity.MatchReport, error) {
	var m model.MatchReport
	err := r.db.WithContext(ctx).
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("seat ASC") }).
		Where("match_id = ?", id.String()).
		First(&m).Error

	switch {
	case err == nil:
		return model.ModelToReport(&m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, entity.ErrReportNotFound
	default:
		return nil, errx.ErrUnavailable.WithData("op", OpGetReport).WithData("match_id", id.String()).WithCause(err)
	}
}
