package repository

import (
	"github.com/mautops/registration-gin/internal/model"
	"gorm.io/gorm"
)

// SubmissionRepository 注册提交仓储接口
type SubmissionRepository interface {
	Create(sub *model.SubmissionModel) error
	Save(sub *model.SubmissionModel) error
	FindByID(id string) (*model.SubmissionModel, error)
	// FindActiveByNationalID 查找持有该身份号码的非 REJECTED 记录
	FindActiveByNationalID(nationalID string) (*model.SubmissionModel, error)
	// FindActiveByTaxID 查找持有该税号的非 REJECTED 记录
	FindActiveByTaxID(taxID string) (*model.SubmissionModel, error)
	FindByFilter(filter *SubmissionFilter) ([]*model.SubmissionModel, int64, error)
}

// SubmissionFilter 提交列表查询过滤器
type SubmissionFilter struct {
	Status *string
	Search *string // 模糊匹配企业名称/身份号码/税号/手机号
	Page   int
	Limit  int
}

// submissionRepository 注册提交仓储实现
type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository 创建注册提交仓储
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create 创建提交记录
func (r *submissionRepository) Create(sub *model.SubmissionModel) error {
	return r.db.Create(sub).Error
}

// Save 保存提交记录
func (r *submissionRepository) Save(sub *model.SubmissionModel) error {
	return r.db.Save(sub).Error
}

// FindByID 根据 ID 查找提交记录
func (r *submissionRepository) FindByID(id string) (*model.SubmissionModel, error) {
	var sub model.SubmissionModel
	if err := r.db.Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindActiveByNationalID 根据身份号码查找非 REJECTED 提交
func (r *submissionRepository) FindActiveByNationalID(nationalID string) (*model.SubmissionModel, error) {
	var sub model.SubmissionModel
	err := r.db.Where("national_id = ? AND status <> ?", nationalID, model.StatusRejected).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindActiveByTaxID 根据税号查找非 REJECTED 提交
func (r *submissionRepository) FindActiveByTaxID(taxID string) (*model.SubmissionModel, error) {
	var sub model.SubmissionModel
	err := r.db.Where("tax_id = ? AND status <> ?", taxID, model.StatusRejected).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindByFilter 根据过滤器分页查找提交,返回当前页和总数
func (r *submissionRepository) FindByFilter(filter *SubmissionFilter) ([]*model.SubmissionModel, int64, error) {
	query := r.db.Model(&model.SubmissionModel{})

	if filter != nil {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.Search != nil && *filter.Search != "" {
			pattern := "%" + *filter.Search + "%"
			query = query.Where(
				"business_name LIKE ? OR national_id LIKE ? OR tax_id LIKE ? OR mobile_number LIKE ?",
				pattern, pattern, pattern, pattern,
			)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := 1
	limit := 20
	if filter != nil {
		if filter.Page > 0 {
			page = filter.Page
		}
		if filter.Limit > 0 {
			limit = filter.Limit
		}
	}

	var subs []*model.SubmissionModel
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&subs).Error
	return subs, total, err
}
