package model

import (
	"errors"
	"time"
)

// ValidationLogModel 字段校验日志数据模型
// 追加写入,创建后不再修改或删除
// SubmissionID 可为空: 独立字段校验(如提交前的单字段检查)不关联任何提交记录
type ValidationLogModel struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	SubmissionID   *string   `gorm:"type:varchar(64);index" json:"submissionId,omitempty"`
	FieldName      string    `gorm:"type:varchar(64);not null;index" json:"fieldName"`
	FieldValue     string    `gorm:"type:text" json:"fieldValue"`
	ValidationType string    `gorm:"type:varchar(32);not null;index" json:"validationType"`
	IsValid        bool      `gorm:"not null" json:"isValid"`
	ErrorMessage   string    `gorm:"type:text" json:"errorMessage,omitempty"`
	CreatedAt      time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName 指定表名
func (ValidationLogModel) TableName() string {
	return "field_validation_logs"
}

// Validate 验证校验日志模型
func (vl *ValidationLogModel) Validate() error {
	if vl.ID == "" {
		return errors.New("validation log ID is required")
	}
	if vl.FieldName == "" {
		return errors.New("field name is required")
	}
	if vl.ValidationType == "" {
		return errors.New("validation type is required")
	}
	if !vl.IsValid && vl.ErrorMessage == "" {
		return errors.New("error message is required for failed validations")
	}
	return nil
}
