package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
	"gorm.io/gorm"
)

type applicationRepository struct{ db *gorm.DB }

// NewApplicationRepository 创建申请仓储实例
func NewApplicationRepository(db *gorm.DB) domain.ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	db := r.getDB(ctx)
	model := toApplicationModel(app)
	if err := db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	app.CreatedAt = model.CreatedAt
	app.UpdatedAt = model.UpdatedAt
	for _, entry := range app.History {
		if err := db.WithContext(ctx).Create(toHistoryModel(app.ID, entry)).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *applicationRepository) Get(ctx context.Context, id string) (*domain.Application, error) {
	db := r.getDB(ctx)
	var model ApplicationModel
	err := db.WithContext(ctx).Where("application_id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	history, err := r.loadHistory(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return toApplication(&model, history[id]), nil
}

func (r *applicationRepository) List(ctx context.Context, scope domain.Scope, filter domain.ListFilter) ([]*domain.Application, int64, error) {
	db := r.getDB(ctx)
	query := r.scoped(db.WithContext(ctx).Model(&ApplicationModel{}), scope)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.JobID != "" {
		query = query.Where("job_id = ?", filter.JobID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	var models []ApplicationModel
	if err := query.Order("id DESC").Limit(limit).Offset(filter.Offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ApplicationID)
	}
	history, err := r.loadHistory(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	apps := make([]*domain.Application, 0, len(models))
	for i := range models {
		apps = append(apps, toApplication(&models[i], history[models[i].ApplicationID]))
	}
	return apps, total, nil
}

// ApplyTransition 条件更新：仅当当前状态仍为 t.From 时提交
// 历史条目与状态更新在同一事务内写入；丢失竞争返回 ErrConflict
func (r *applicationRepository) ApplyTransition(ctx context.Context, app *domain.Application, t *domain.Transition) error {
	db := r.getDB(ctx)

	t.Apply(app)
	app.Status = t.To
	model := toApplicationModel(app)

	res := db.WithContext(ctx).
		Model(&ApplicationModel{}).
		Where("application_id = ? AND status = ?", app.ID, string(t.From)).
		Updates(map[string]any{
			"status":            model.Status,
			"validity_until":    model.ValidityUntil,
			"extended_once":     model.ExtendedOnce,
			"interview":         model.Interview,
			"offer":             model.Offer,
			"offer_valid_until": model.OfferValidUntil,
			"rejection":         model.Rejection,
			"pdf_key":           model.PDFKey,
			"withdraw_reason":   model.WithdrawReason,
			"withdrawn_at":      model.WithdrawnAt,
			"accepted_at":       model.AcceptedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}

	if err := db.WithContext(ctx).Create(toHistoryModel(app.ID, t.Entry)).Error; err != nil {
		return err
	}
	app.History = append(app.History, t.Entry)
	return nil
}

// ExpireStale 批量自动撤回：逐条条件更新保证历史不丢失
func (r *applicationRepository) ExpireStale(ctx context.Context, scope domain.Scope, now time.Time) ([]*domain.Application, error) {
	db := r.getDB(ctx)

	var models []ApplicationModel
	query := r.scoped(db.WithContext(ctx).Model(&ApplicationModel{}), scope).
		Where("status = ? AND validity_until <= ?", string(domain.StatusNew), now)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	swept := make([]*domain.Application, 0, len(models))
	for i := range models {
		app := toApplication(&models[i], nil)
		t := domain.AutoWithdrawTransition(app, now)
		err := r.ApplyTransition(ctx, app, t)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		swept = append(swept, app)
	}
	return swept, nil
}

func (r *applicationRepository) UpdatePDFKey(ctx context.Context, id, key string) error {
	return r.getDB(ctx).WithContext(ctx).
		Model(&ApplicationModel{}).
		Where("application_id = ?", id).
		Update("pdf_key", key).Error
}

func (r *applicationRepository) ListOfferExpiring(ctx context.Context, before time.Time) ([]*domain.Application, error) {
	db := r.getDB(ctx)
	var models []ApplicationModel
	err := db.WithContext(ctx).
		Where("status = ? AND offer_valid_until IS NOT NULL AND offer_valid_until <= ?",
			string(domain.StatusPendingAcceptance), before).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	apps := make([]*domain.Application, 0, len(models))
	for i := range models {
		apps = append(apps, toApplication(&models[i], nil))
	}
	return apps, nil
}

func (r *applicationRepository) scoped(query *gorm.DB, scope domain.Scope) *gorm.DB {
	if scope.StudentID != "" {
		query = query.Where("student_id = ?", scope.StudentID)
	}
	if scope.CompanyID != "" {
		query = query.Where("company_id = ?", scope.CompanyID)
	}
	if len(scope.ExcludeStatuses) > 0 {
		excluded := make([]string, 0, len(scope.ExcludeStatuses))
		for _, s := range scope.ExcludeStatuses {
			excluded = append(excluded, string(s))
		}
		query = query.Where("status NOT IN ?", excluded)
	}
	return query
}

func (r *applicationRepository) loadHistory(ctx context.Context, ids []string) (map[string][]HistoryModel, error) {
	result := make(map[string][]HistoryModel, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	db := r.getDB(ctx)
	var models []HistoryModel
	if err := db.WithContext(ctx).Where("application_id IN ?", ids).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	for _, m := range models {
		result[m.ApplicationID] = append(result[m.ApplicationID], m)
	}
	return result, nil
}

func (r *applicationRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
