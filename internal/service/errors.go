package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSubmissionNotFound 提交记录不存在
// 与校验失败严格区分: not-found 对当前请求是终态
var ErrSubmissionNotFound = errors.New("submission not found")

// FieldError 字段级错误,返回给调用方用于行内展示
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 一个或多个字段规则违反
// 可恢复错误,调用方修正输入后可重试,不作为服务端故障记录
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation failed on %d fields", len(e.Errors))
}

// ConflictError 标识字段与已有记录冲突
type ConflictError struct {
	Field string // "nationalId" 或 "taxId"
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a submission with this %s already exists", fieldLabel(e.Field))
}

// StorageError 持久化层不可用或写入被拒绝
// 对外表现为不透明的内部错误,完整细节只记录在服务端日志
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// fieldLabel 把 JSON 字段名转成用户可读标签
func fieldLabel(field string) string {
	switch field {
	case "nationalId":
		return "national ID"
	case "taxId":
		return "tax ID"
	default:
		return field
	}
}

// isUniqueViolation 判断写入错误是否为唯一约束冲突
// postgres 报 "duplicate key value violates unique constraint",
// sqlite 报 "UNIQUE constraint failed"
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// uniqueViolationField 从唯一冲突错误中识别冲突字段
// 两个索引都命中时报身份号码冲突
func uniqueViolationField(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "national_id") {
		return "nationalId"
	}
	if strings.Contains(msg, "tax_id") {
		return "taxId"
	}
	return "nationalId"
}
