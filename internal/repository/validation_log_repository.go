package repository

import (
	"github.com/mautops/registration-gin/internal/model"
	"gorm.io/gorm"
)

// ValidationLogRepository 字段校验日志仓储接口
// 日志只追加,没有更新和删除方法
type ValidationLogRepository interface {
	Append(log *model.ValidationLogModel) error
	AppendAll(logs []*model.ValidationLogModel) error
	FindBySubmissionID(submissionID string) ([]*model.ValidationLogModel, error)
	FindByValidationType(validationType string) ([]*model.ValidationLogModel, error)
}

// validationLogRepository 字段校验日志仓储实现
type validationLogRepository struct {
	db *gorm.DB
}

// NewValidationLogRepository 创建字段校验日志仓储
func NewValidationLogRepository(db *gorm.DB) ValidationLogRepository {
	return &validationLogRepository{db: db}
}

// Append 追加一条校验日志
func (r *validationLogRepository) Append(log *model.ValidationLogModel) error {
	return r.db.Create(log).Error
}

// AppendAll 批量追加校验日志
func (r *validationLogRepository) AppendAll(logs []*model.ValidationLogModel) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.Create(&logs).Error
}

// FindBySubmissionID 查找某个提交的全部校验日志
func (r *validationLogRepository) FindBySubmissionID(submissionID string) ([]*model.ValidationLogModel, error) {
	var logs []*model.ValidationLogModel
	err := r.db.Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

// FindByValidationType 按校验类型查找日志
func (r *validationLogRepository) FindByValidationType(validationType string) ([]*model.ValidationLogModel, error) {
	var logs []*model.ValidationLogModel
	err := r.db.Where("validation_type = ?", validationType).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
