package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/mautops/registration-gin/internal/metrics"
	"github.com/mautops/registration-gin/internal/model"
	"github.com/mautops/registration-gin/internal/repository"
	"github.com/mautops/registration-gin/internal/validation"
	"github.com/sirupsen/logrus"
)

// ValidationService 字段校验服务
// 每次校验尝试都追加到字段校验日志,无论通过与否
// 日志只用于审计,从不回读来短路后续校验
type ValidationService interface {
	ValidateField(fieldName string, value string) validation.FieldResult
	ValidateBatch(fields []validation.Field) ([]validation.FieldResult, bool)
}

// validationService 字段校验服务实现
type validationService struct {
	aggregator *validation.Aggregator
	logRepo    repository.ValidationLogRepository
	logger     *logrus.Logger
}

// NewValidationService 创建字段校验服务
func NewValidationService(aggregator *validation.Aggregator, logRepo repository.ValidationLogRepository, logger *logrus.Logger) ValidationService {
	return &validationService{
		aggregator: aggregator,
		logRepo:    logRepo,
		logger:     logger,
	}
}

// ValidateField 校验单个字段并记录尝试
func (s *validationService) ValidateField(fieldName string, value string) validation.FieldResult {
	result := s.aggregator.ValidateField(fieldName, value)
	s.appendLogs(nil, []validation.FieldResult{result}, []validation.Field{{Name: fieldName, Value: value}})
	return result
}

// ValidateBatch 批量校验,逐字段独立执行,不短路
func (s *validationService) ValidateBatch(fields []validation.Field) ([]validation.FieldResult, bool) {
	results, allValid := s.aggregator.ValidateAll(fields)
	s.appendLogs(nil, results, fields)
	return results, allValid
}

// appendLogs 把校验结果追加到字段校验日志
// 审计写入失败不影响校验结果本身,只记录告警
func (s *validationService) appendLogs(submissionID *string, results []validation.FieldResult, fields []validation.Field) {
	logs := buildValidationLogs(submissionID, results, fields)
	if err := s.logRepo.AppendAll(logs); err != nil {
		s.logger.WithError(err).Warn("failed to append field validation logs")
	}
}

// buildValidationLogs 由校验结果构造日志模型
func buildValidationLogs(submissionID *string, results []validation.FieldResult, fields []validation.Field) []*model.ValidationLogModel {
	now := time.Now()
	logs := make([]*model.ValidationLogModel, 0, len(results))
	for i, r := range results {
		value := ""
		if i < len(fields) {
			value = fields[i].Value
		}
		logs = append(logs, &model.ValidationLogModel{
			ID:             uuid.New().String(),
			SubmissionID:   submissionID,
			FieldName:      r.Field,
			FieldValue:     value,
			ValidationType: r.Type,
			IsValid:        r.Valid,
			ErrorMessage:   r.Message,
			CreatedAt:      now,
		})
		metrics.RecordValidation(r.Type, r.Valid)
	}
	return logs
}
