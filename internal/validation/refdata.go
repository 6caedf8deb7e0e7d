package validation

import "strings"

// Rules 校验器使用的领域参考数据
// 这些数据是配置而不是代码,可以在不修改校验逻辑的情况下更新
type Rules struct {
	DisposableDomains []string // 一次性邮箱域名黑名单
	BusinessTypes     []string // 企业类型枚举
	States            []string // 邦/联邦属地名称
}

// DefaultRules 返回内置的默认参考数据
// 与 config 包中的默认值保持一致,用于测试和独立使用
func DefaultRules() Rules {
	return Rules{
		DisposableDomains: []string{
			"mailinator.com",
			"guerrillamail.com",
			"10minutemail.com",
			"tempmail.com",
			"temp-mail.org",
			"throwaway.email",
			"yopmail.com",
			"trashmail.com",
			"getnada.com",
			"fakeinbox.com",
			"sharklasers.com",
			"maildrop.cc",
			"dispostable.com",
		},
		BusinessTypes: []string{
			"Proprietorship",
			"Partnership",
			"Hindu Undivided Family",
			"Private Limited Company",
			"Public Limited Company",
			"Limited Liability Partnership",
			"Co-operative Society",
			"Society",
			"Trust",
		},
		States: []string{
			"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar",
			"Chhattisgarh", "Goa", "Gujarat", "Haryana", "Himachal Pradesh",
			"Jharkhand", "Karnataka", "Kerala", "Madhya Pradesh",
			"Maharashtra", "Manipur", "Meghalaya", "Mizoram", "Nagaland",
			"Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu",
			"Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand",
			"West Bengal", "Andaman and Nicobar Islands", "Chandigarh",
			"Dadra and Nagar Haveli and Daman and Diu", "Delhi",
			"Jammu and Kashmir", "Ladakh", "Lakshadweep", "Puducherry",
		},
	}
}

// domainSet 构建小写域名集合,用于大小写不敏感的黑名单匹配
func domainSet(domains []string) map[string]struct{} {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		set[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	return set
}

// typeSet 构建企业类型集合
func typeSet(types []string) map[string]struct{} {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}
