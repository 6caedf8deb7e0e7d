package model

import (
	"errors"
	"time"
)

// SubmissionStatus 注册提交的生命周期状态
type SubmissionStatus string

const (
	StatusPending     SubmissionStatus = "PENDING"
	StatusUnderReview SubmissionStatus = "UNDER_REVIEW"
	StatusApproved    SubmissionStatus = "APPROVED"
	StatusRejected    SubmissionStatus = "REJECTED"
)

// AllStatuses 返回全部合法状态
func AllStatuses() []SubmissionStatus {
	return []SubmissionStatus{StatusPending, StatusUnderReview, StatusApproved, StatusRejected}
}

// IsValid 判断状态是否属于封闭枚举
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// SubmissionModel 注册提交数据模型
// national_id 和 tax_id 在非 REJECTED 记录间唯一,唯一性由数据库部分索引兜底
// 删除是到 REJECTED 的状态迁移,不做物理删除
type SubmissionModel struct {
	ID               string           `gorm:"primaryKey;type:varchar(64)" json:"id"`
	NationalID       string           `gorm:"column:national_id;type:varchar(12);not null;index" json:"nationalId"`
	EntrepreneurName string           `gorm:"type:varchar(100);not null" json:"entrepreneurName"`
	MobileNumber     string           `gorm:"type:varchar(10);not null;index" json:"mobileNumber"`
	EmailAddress     string           `gorm:"type:varchar(255);not null" json:"emailAddress"`
	OTPVerified      bool             `gorm:"column:otp_verified;not null" json:"otpVerified"`
	TaxID            string           `gorm:"column:tax_id;type:varchar(10);not null;index" json:"taxId"`
	BusinessName     string           `gorm:"type:varchar(100);not null;index" json:"businessName"`
	BusinessType     string           `gorm:"type:varchar(64);not null" json:"businessType"`
	AddressLine1     string           `gorm:"type:varchar(200);not null" json:"addressLine1"`
	AddressLine2     string           `gorm:"type:varchar(200)" json:"addressLine2,omitempty"`
	City             string           `gorm:"type:varchar(50);not null" json:"city"`
	State            string           `gorm:"type:varchar(50);not null" json:"state"`
	Pincode          string           `gorm:"type:varchar(6);not null" json:"pincode"`
	Status           SubmissionStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	Notes            string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time        `gorm:"not null;index" json:"createdAt"`
	UpdatedAt        time.Time        `gorm:"not null" json:"updatedAt"`
}

// TableName 指定表名
func (SubmissionModel) TableName() string {
	return "submissions"
}

// Validate 验证提交模型
func (sm *SubmissionModel) Validate() error {
	if sm.ID == "" {
		return errors.New("submission ID is required")
	}
	if sm.NationalID == "" {
		return errors.New("national ID is required")
	}
	if sm.TaxID == "" {
		return errors.New("tax ID is required")
	}
	if !sm.Status.IsValid() {
		return errors.New("submission status is invalid")
	}
	if !sm.OTPVerified {
		return errors.New("OTP must be verified before a submission is created")
	}
	return nil
}
