package validation

import (
	"strings"
	"sync"
)

// 校验类型标签,写入字段校验日志
const (
	TypeNationalID   = "national_id"
	TypeTaxID        = "tax_id"
	TypeMobile       = "mobile"
	TypeEmail        = "email"
	TypePincode      = "pincode"
	TypeBusinessName = "business_name"
	TypeBusinessType = "business_type"
	TypeAddress      = "address"
	TypeCity         = "city"
	TypeState        = "state"
	TypeGeneral      = "general"
)

// Field 待校验的字段名/原始值对
type Field struct {
	Name  string `json:"fieldName"`
	Value string `json:"value"`
}

// FieldResult 单字段校验结果及其分类标签
type FieldResult struct {
	Field string `json:"fieldName"`
	Type  string `json:"validationType"`
	Result
}

// fieldSpec 字段名到校验器的静态映射项
type fieldSpec struct {
	vtype    string
	validate func(v *Validator, value string) Result
}

// fieldTable 封闭的字段名映射表,键为规范化后的字段名
// 未命中的字段名归入 general 并返回 unknown field 失败结果
var fieldTable = map[string]fieldSpec{
	"nationalid": {TypeNationalID, func(v *Validator, s string) Result { return v.NationalID(s) }},
	"taxid":      {TypeTaxID, func(v *Validator, s string) Result { return v.TaxID(s) }},
	"mobilenumber": {TypeMobile, func(v *Validator, s string) Result { return v.Mobile(s) }},
	"mobile":       {TypeMobile, func(v *Validator, s string) Result { return v.Mobile(s) }},
	"emailaddress": {TypeEmail, func(v *Validator, s string) Result { return v.Email(s) }},
	"email":        {TypeEmail, func(v *Validator, s string) Result { return v.Email(s) }},
	"pincode":      {TypePincode, func(v *Validator, s string) Result { return v.Pincode(s) }},
	"businessname": {TypeBusinessName, func(v *Validator, s string) Result { return v.BusinessName(s) }},
	"businesstype": {TypeBusinessType, func(v *Validator, s string) Result { return v.BusinessType(s) }},
	"addressline1": {TypeAddress, func(v *Validator, s string) Result { return v.AddressLine(s, "address line 1") }},
	"addressline2": {TypeAddress, func(v *Validator, s string) Result { return v.AddressLine(s, "address line 2") }},
	"address":      {TypeAddress, func(v *Validator, s string) Result { return v.AddressLine(s, "address") }},
	"city":         {TypeCity, func(v *Validator, s string) Result { return v.Name(s, "city") }},
	"state":        {TypeState, func(v *Validator, s string) Result { return v.Name(s, "state") }},
	"entrepreneurname": {TypeGeneral, func(v *Validator, s string) Result { return v.Name(s, "entrepreneur name") }},
	"otp":              {TypeGeneral, func(v *Validator, s string) Result { return v.OTP(s) }},
}

// Aggregator 按字段名分发校验请求
// 参考数据可以在运行时整体替换(配置热更新),读路径用 RWMutex 保护
type Aggregator struct {
	mu sync.RWMutex
	v  *Validator
}

// NewAggregator 创建聚合器
func NewAggregator(rules Rules) *Aggregator {
	return &Aggregator{v: NewValidator(rules)}
}

// Reload 用新的参考数据替换校验器
func (a *Aggregator) Reload(rules Rules) {
	v := NewValidator(rules)
	a.mu.Lock()
	a.v = v
	a.mu.Unlock()
}

// Rules 返回当前生效的参考数据
func (a *Aggregator) Rules() Rules {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.v.Rules()
}

// ValidateField 校验单个字段,字段名大小写不敏感
// 未知字段名返回失败结果而不是错误
func (a *Aggregator) ValidateField(name, value string) FieldResult {
	a.mu.RLock()
	v := a.v
	a.mu.RUnlock()

	spec, known := fieldTable[normalizeFieldName(name)]
	if !known {
		return FieldResult{
			Field:  name,
			Type:   TypeGeneral,
			Result: fail("unknown field: " + name),
		}
	}
	return FieldResult{
		Field:  name,
		Type:   spec.vtype,
		Result: spec.validate(v, value),
	}
}

// ValidateAll 逐个校验全部字段,不短路,返回完整结果列表和总体通过标志
func (a *Aggregator) ValidateAll(fields []Field) ([]FieldResult, bool) {
	results := make([]FieldResult, 0, len(fields))
	allValid := true
	for _, f := range fields {
		r := a.ValidateField(f.Name, f.Value)
		if !r.Valid {
			allValid = false
		}
		results = append(results, r)
	}
	return results, allValid
}

// normalizeFieldName 规范化字段名: 转小写并移除下划线和连字符
// 使 nationalId / national_id / NATIONAL-ID 等写法都能命中同一映射项
func normalizeFieldName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return -1
		}
		return r
	}, lower)
}
