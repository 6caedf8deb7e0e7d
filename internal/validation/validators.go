package validation

import (
	"regexp"
	"strings"
)

var (
	nationalIDPattern   = regexp.MustCompile(`^[0-9]{12}$`)
	taxIDPattern        = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	mobilePattern       = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	emailPattern        = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	pincodePattern      = regexp.MustCompile(`^[0-9]{6}$`)
	otpPattern          = regexp.MustCompile(`^[0-9]{6}$`)
	businessNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 .,\-&()]+$`)
	namePattern         = regexp.MustCompile(`^[a-zA-Z. ]+$`)
)

// Validator 持有参考数据的字段校验器集合
// 所有方法都是确定性的、无副作用的,对任意字符串输入都不会 panic
type Validator struct {
	rules             Rules
	disposableDomains map[string]struct{}
	businessTypes     map[string]struct{}
}

// NewValidator 基于参考数据创建校验器
func NewValidator(rules Rules) *Validator {
	return &Validator{
		rules:             rules,
		disposableDomains: domainSet(rules.DisposableDomains),
		businessTypes:     typeSet(rules.BusinessTypes),
	}
}

// Rules 返回校验器当前使用的参考数据
func (v *Validator) Rules() Rules {
	return v.rules
}

// NationalID 校验 12 位国民身份号码
// 启发式检查: 全同数字、首位 0/1、连续递增序列都视为无效
// 注意这不是真正的校验位算法,只是演示级别的反模式过滤
func (v *Validator) NationalID(value string) Result {
	cleaned := stripSeparators(value)
	if cleaned == "" {
		return fail("national ID is required")
	}
	if !nationalIDPattern.MatchString(cleaned) {
		return fail("national ID must be exactly 12 digits")
	}
	if allSameRune(cleaned) {
		return fail("invalid national ID")
	}
	if cleaned[0] == '0' || cleaned[0] == '1' {
		return fail("invalid national ID")
	}
	if hasAscendingRun(cleaned, 3) {
		return fail("invalid national ID")
	}
	return ok()
}

// TaxID 校验 10 位税号(5 字母 + 4 数字 + 1 字母)
// 输入在匹配前先去空白并转大写
func (v *Validator) TaxID(value string) Result {
	cleaned := strings.ToUpper(stripWhitespace(value))
	if cleaned == "" {
		return fail("tax ID is required")
	}
	if !taxIDPattern.MatchString(cleaned) {
		return fail("tax ID must be in the format: 5 letters, 4 digits, 1 letter")
	}
	if allSameRune(cleaned) {
		return fail("invalid tax ID")
	}
	return ok()
}

// Mobile 校验 10 位手机号,首位必须为 6-9
func (v *Validator) Mobile(value string) Result {
	cleaned := strings.TrimPrefix(stripSeparators(value), "+")
	if cleaned == "" {
		return fail("mobile number is required")
	}
	if !mobilePattern.MatchString(cleaned) {
		return fail("mobile number must be 10 digits starting with 6-9")
	}
	return ok()
}

// Email 校验邮箱格式并拒绝一次性邮箱域名
func (v *Validator) Email(value string) Result {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return fail("email address is required")
	}
	if !emailPattern.MatchString(cleaned) {
		return fail("invalid email format")
	}
	at := strings.LastIndex(cleaned, "@")
	domain := strings.ToLower(cleaned[at+1:])
	if _, blocked := v.disposableDomains[domain]; blocked {
		return fail("disposable email addresses are not allowed")
	}
	return ok()
}

// Pincode 校验 6 位邮政编码
func (v *Validator) Pincode(value string) Result {
	cleaned := stripWhitespace(value)
	if cleaned == "" {
		return fail("PIN code is required")
	}
	if !pincodePattern.MatchString(cleaned) {
		return fail("PIN code must be exactly 6 digits")
	}
	if allSameRune(cleaned) {
		return fail("invalid PIN code")
	}
	return ok()
}

// BusinessName 校验企业名称
func (v *Validator) BusinessName(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fail("business name is required")
	}
	if len(trimmed) < 2 || len(trimmed) > 100 {
		return fail("business name must be between 2 and 100 characters")
	}
	if !businessNamePattern.MatchString(trimmed) {
		return fail("business name contains invalid characters")
	}
	return ok()
}

// BusinessType 校验企业类型是否属于封闭枚举
func (v *Validator) BusinessType(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fail("business type is required")
	}
	if _, known := v.businessTypes[trimmed]; !known {
		return fail("please select a valid business type")
	}
	return ok()
}

// AddressLine 校验地址行,错误消息使用调用方提供的字段标签
func (v *Validator) AddressLine(value string, label string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fail(label + " is required")
	}
	if len(trimmed) < 5 || len(trimmed) > 200 {
		return fail(label + " must be between 5 and 200 characters")
	}
	return ok()
}

// Name 校验城市/邦/人名类字段: 仅允许字母、空格和点
func (v *Validator) Name(value string, label string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fail(label + " is required")
	}
	if len(trimmed) < 2 || len(trimmed) > 50 {
		return fail(label + " must be between 2 and 50 characters")
	}
	if !namePattern.MatchString(trimmed) {
		return fail(label + " contains invalid characters")
	}
	return ok()
}

// OTP 校验 6 位一次性验证码的格式
// 验证码与下发渠道的比对由外部系统完成,这里只做格式检查
func (v *Validator) OTP(value string) Result {
	cleaned := stripWhitespace(value)
	if cleaned == "" {
		return fail("OTP is required")
	}
	if !otpPattern.MatchString(cleaned) {
		return fail("OTP must be exactly 6 digits")
	}
	return ok()
}

// NormalizeNationalID 返回身份号码的规范形式,与校验时的清理规则一致
func NormalizeNationalID(s string) string {
	return stripSeparators(s)
}

// NormalizeTaxID 返回税号的规范形式
func NormalizeTaxID(s string) string {
	return strings.ToUpper(stripWhitespace(s))
}

// NormalizeMobile 返回手机号的规范形式
func NormalizeMobile(s string) string {
	return strings.TrimPrefix(stripSeparators(s), "+")
}

// NormalizePincode 返回邮编的规范形式
func NormalizePincode(s string) string {
	return stripWhitespace(s)
}

// stripWhitespace 移除所有空白字符
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

// stripSeparators 移除空白字符和连字符
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-':
			return -1
		}
		return r
	}, s)
}

// allSameRune 判断字符串是否由同一字符重复构成
func allSameRune(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// hasAscendingRun 判断数字串中是否存在长度 >= runLen 的逐位递增序列
func hasAscendingRun(digits string, runLen int) bool {
	run := 1
	for i := 1; i < len(digits); i++ {
		if digits[i] == digits[i-1]+1 {
			run++
			if run >= runLen {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
