package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mautops/registration-gin/internal/metrics"
	"github.com/mautops/registration-gin/internal/model"
	"github.com/mautops/registration-gin/internal/repository"
	"github.com/mautops/registration-gin/internal/validation"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SubmissionService 注册提交服务接口
type SubmissionService interface {
	Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error)
	Get(ctx context.Context, id string) (*SubmissionDetail, error)
	List(ctx context.Context, filter *ListFilter) ([]*model.SubmissionModel, *Pagination, error)
	UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*model.SubmissionModel, error)
	// Delete 软删除: 状态迁移到 REJECTED 并附说明,不做物理删除
	Delete(ctx context.Context, id string, reason string) (*model.SubmissionModel, error)
}

// SubmitRequest 提交注册的请求参数
// 指针字段用于区分"缺少键"和"空值": 结构性缺键快速失败,不进入字段校验
type SubmitRequest struct {
	NationalID       *string `json:"nationalId"`
	EntrepreneurName *string `json:"entrepreneurName"`
	MobileNumber     *string `json:"mobileNumber"`
	EmailAddress     *string `json:"emailAddress"`
	OTPVerified      *bool   `json:"otpVerified"`
	TaxID            *string `json:"taxId"`
	BusinessName     *string `json:"businessName"`
	BusinessType     *string `json:"businessType"`
	AddressLine1     *string `json:"addressLine1"`
	AddressLine2     *string `json:"addressLine2"` // 可选
	City             *string `json:"city"`
	State            *string `json:"state"`
	Pincode          *string `json:"pincode"`
}

// SubmitResult 创建成功的返回数据
type SubmitResult struct {
	ID          string                 `json:"id"`
	Status      model.SubmissionStatus `json:"status"`
	SubmittedAt time.Time              `json:"submittedAt"`
}

// UpdateStatusRequest 状态更新请求
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// ListFilter 列表查询过滤器
type ListFilter struct {
	Status *string
	Search *string
	Page   int
	Limit  int
}

// Pagination 分页元数据
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// SubmissionDetail 提交详情,含该提交的全部字段校验日志
type SubmissionDetail struct {
	*model.SubmissionModel
	ValidationLogs []*model.ValidationLogModel `json:"validationLogs"`
}

// submissionService 注册提交服务实现
type submissionService struct {
	db         *gorm.DB
	subRepo    repository.SubmissionRepository
	logRepo    repository.ValidationLogRepository
	aggregator *validation.Aggregator
	logger     *logrus.Logger
}

// NewSubmissionService 创建注册提交服务
func NewSubmissionService(db *gorm.DB, aggregator *validation.Aggregator, logger *logrus.Logger) SubmissionService {
	return &submissionService{
		db:         db,
		subRepo:    repository.NewSubmissionRepository(db),
		logRepo:    repository.NewValidationLogRepository(db),
		aggregator: aggregator,
		logger:     logger,
	}
}

// requiredKeys 必填键与取值器,按表单顺序
var requiredKeys = []struct {
	name  string
	value func(*SubmitRequest) *string
}{
	{"nationalId", func(r *SubmitRequest) *string { return r.NationalID }},
	{"entrepreneurName", func(r *SubmitRequest) *string { return r.EntrepreneurName }},
	{"mobileNumber", func(r *SubmitRequest) *string { return r.MobileNumber }},
	{"emailAddress", func(r *SubmitRequest) *string { return r.EmailAddress }},
	{"taxId", func(r *SubmitRequest) *string { return r.TaxID }},
	{"businessName", func(r *SubmitRequest) *string { return r.BusinessName }},
	{"businessType", func(r *SubmitRequest) *string { return r.BusinessType }},
	{"addressLine1", func(r *SubmitRequest) *string { return r.AddressLine1 }},
	{"city", func(r *SubmitRequest) *string { return r.City }},
	{"state", func(r *SubmitRequest) *string { return r.State }},
	{"pincode", func(r *SubmitRequest) *string { return r.Pincode }},
}

// Submit 处理完整的注册提交
// 步骤: 结构性缺键检查 -> OTP 标志检查 -> 字段校验 -> 重复守卫 -> 事务内落库
func (s *submissionService) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	// (a) 结构性缺键检查,任一缺失立即失败,不做后续工作
	var missing []FieldError
	for _, k := range requiredKeys {
		if k.value(req) == nil {
			missing = append(missing, FieldError{Field: k.name, Message: k.name + " is required"})
		}
	}
	if req.OTPVerified == nil {
		missing = append(missing, FieldError{Field: "otpVerified", Message: "otpVerified is required"})
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Errors: missing}
	}

	// (b) OTP 必须已在外部渠道确认,本系统不生成也不核对验证码
	if !*req.OTPVerified {
		return nil, &ValidationError{Errors: []FieldError{
			{Field: "otpVerified", Message: "OTP verification must be completed before submission"},
		}}
	}

	// (c) 对全部领域字段执行校验,不短路,收集完整结果
	fields := s.domainFields(req)
	results, allValid := s.aggregator.ValidateAll(fields)
	if !allValid {
		// 未创建记录,日志不关联提交 ID
		s.appendLogs(nil, results, fields)
		var fieldErrs []FieldError
		for _, r := range results {
			if !r.Valid {
				fieldErrs = append(fieldErrs, FieldError{Field: r.Field, Message: r.Message})
			}
		}
		return nil, &ValidationError{Errors: fieldErrs}
	}

	// 校验通过后把标识字段归一化成校验器接受的形式,唯一性比较必须在规范形式上进行
	s.normalizeIdentifiers(req)

	// (d) 重复守卫: 先查身份号码,再查税号,两者都冲突时报身份号码
	// 先查后写对并发提交不原子,数据库唯一索引在 (e) 中兜底
	if conflictField, err := s.checkDuplicate(req); err != nil {
		return nil, err
	} else if conflictField != "" {
		s.appendLogs(nil, results, fields)
		return nil, &ConflictError{Field: conflictField}
	}

	// (e) 事务内创建提交记录和关联的字段校验日志
	sub := s.buildSubmission(req)
	logs := buildValidationLogs(&sub.ID, results, fields)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewSubmissionRepository(tx).Create(sub); err != nil {
			return err
		}
		return repository.NewValidationLogRepository(tx).AppendAll(logs)
	})
	if err != nil {
		if isUniqueViolation(err) {
			// 并发提交穿过了守卫,由唯一索引拦下
			return nil, &ConflictError{Field: uniqueViolationField(err)}
		}
		s.logger.WithError(err).Error("failed to persist submission")
		return nil, &StorageError{Op: "create submission", Err: err}
	}

	metrics.RecordSubmissionCreated()
	s.logger.WithFields(logrus.Fields{
		"submission_id": sub.ID,
		"status":        sub.Status,
	}).Info("submission created")

	// (f) 返回生成的标识、状态和创建时间
	return &SubmitResult{
		ID:          sub.ID,
		Status:      sub.Status,
		SubmittedAt: sub.CreatedAt,
	}, nil
}

// Get 获取提交详情及其校验日志
func (s *submissionService) Get(ctx context.Context, id string) (*SubmissionDetail, error) {
	sub, err := s.subRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, &StorageError{Op: "find submission", Err: err}
	}

	logs, err := s.logRepo.FindBySubmissionID(id)
	if err != nil {
		return nil, &StorageError{Op: "find validation logs", Err: err}
	}

	return &SubmissionDetail{SubmissionModel: sub, ValidationLogs: logs}, nil
}

// List 分页列出提交,支持状态过滤和自由文本搜索
func (s *submissionService) List(ctx context.Context, filter *ListFilter) ([]*model.SubmissionModel, *Pagination, error) {
	if filter == nil {
		filter = &ListFilter{}
	}
	if filter.Status != nil && !model.SubmissionStatus(*filter.Status).IsValid() {
		return nil, nil, &ValidationError{Errors: []FieldError{
			{Field: "status", Message: "please select a valid status"},
		}}
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	subs, total, err := s.subRepo.FindByFilter(&repository.SubmissionFilter{
		Status: filter.Status,
		Search: filter.Search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, nil, &StorageError{Op: "list submissions", Err: err}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	pagination := &Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1 && total > 0,
	}
	return subs, pagination, nil
}

// UpdateStatus 更新提交状态,状态必须属于封闭枚举
func (s *submissionService) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*model.SubmissionModel, error) {
	status := model.SubmissionStatus(req.Status)
	if !status.IsValid() {
		return nil, &ValidationError{Errors: []FieldError{
			{Field: "status", Message: fmt.Sprintf("invalid status: %q", req.Status)},
		}}
	}

	sub, err := s.subRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, &StorageError{Op: "find submission", Err: err}
	}

	sub.Status = status
	if req.Notes != "" {
		sub.Notes = req.Notes
	}
	sub.UpdatedAt = time.Now()
	if err := s.subRepo.Save(sub); err != nil {
		return nil, &StorageError{Op: "update submission status", Err: err}
	}

	metrics.RecordStatusTransition(string(status))
	s.logger.WithFields(logrus.Fields{
		"submission_id": id,
		"status":        status,
	}).Info("submission status updated")
	return sub, nil
}

// Delete 软删除: 迁移到 REJECTED 并记录原因
func (s *submissionService) Delete(ctx context.Context, id string, reason string) (*model.SubmissionModel, error) {
	if reason == "" {
		reason = "submission removed by administrator"
	}
	return s.UpdateStatus(ctx, id, &UpdateStatusRequest{
		Status: string(model.StatusRejected),
		Notes:  reason,
	})
}

// domainFields 按表单顺序构造待校验字段列表
// addressLine2 可选,仅在提供且非空时参与校验
func (s *submissionService) domainFields(req *SubmitRequest) []validation.Field {
	fields := []validation.Field{
		{Name: "nationalId", Value: *req.NationalID},
		{Name: "entrepreneurName", Value: *req.EntrepreneurName},
		{Name: "mobileNumber", Value: *req.MobileNumber},
		{Name: "emailAddress", Value: *req.EmailAddress},
		{Name: "taxId", Value: *req.TaxID},
		{Name: "businessName", Value: *req.BusinessName},
		{Name: "businessType", Value: *req.BusinessType},
		{Name: "addressLine1", Value: *req.AddressLine1},
	}
	if req.AddressLine2 != nil && *req.AddressLine2 != "" {
		fields = append(fields, validation.Field{Name: "addressLine2", Value: *req.AddressLine2})
	}
	fields = append(fields,
		validation.Field{Name: "city", Value: *req.City},
		validation.Field{Name: "state", Value: *req.State},
		validation.Field{Name: "pincode", Value: *req.Pincode},
	)
	return fields
}

// normalizeIdentifiers 归一化标识字段
func (s *submissionService) normalizeIdentifiers(req *SubmitRequest) {
	*req.NationalID = validation.NormalizeNationalID(*req.NationalID)
	*req.TaxID = validation.NormalizeTaxID(*req.TaxID)
	*req.MobileNumber = validation.NormalizeMobile(*req.MobileNumber)
	*req.Pincode = validation.NormalizePincode(*req.Pincode)
}

// checkDuplicate 重复守卫,返回冲突字段名,无冲突返回空串
func (s *submissionService) checkDuplicate(req *SubmitRequest) (string, error) {
	if _, err := s.subRepo.FindActiveByNationalID(*req.NationalID); err == nil {
		return "nationalId", nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", &StorageError{Op: "check national ID uniqueness", Err: err}
	}

	if _, err := s.subRepo.FindActiveByTaxID(*req.TaxID); err == nil {
		return "taxId", nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", &StorageError{Op: "check tax ID uniqueness", Err: err}
	}

	return "", nil
}

// buildSubmission 由请求构造提交模型,初始状态 PENDING
func (s *submissionService) buildSubmission(req *SubmitRequest) *model.SubmissionModel {
	now := time.Now()
	addressLine2 := ""
	if req.AddressLine2 != nil {
		addressLine2 = *req.AddressLine2
	}
	return &model.SubmissionModel{
		ID:               uuid.New().String(),
		NationalID:       *req.NationalID,
		EntrepreneurName: *req.EntrepreneurName,
		MobileNumber:     *req.MobileNumber,
		EmailAddress:     *req.EmailAddress,
		OTPVerified:      *req.OTPVerified,
		TaxID:            *req.TaxID,
		BusinessName:     *req.BusinessName,
		BusinessType:     *req.BusinessType,
		AddressLine1:     *req.AddressLine1,
		AddressLine2:     addressLine2,
		City:             *req.City,
		State:            *req.State,
		Pincode:          *req.Pincode,
		Status:           model.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// appendLogs 追加不关联提交的校验日志,写入失败只告警
func (s *submissionService) appendLogs(submissionID *string, results []validation.FieldResult, fields []validation.Field) {
	logs := buildValidationLogs(submissionID, results, fields)
	if err := s.logRepo.AppendAll(logs); err != nil {
		s.logger.WithError(err).Warn("failed to append field validation logs")
	}
}
