package validation

// Result 单个字段的校验结果
// Message 仅在校验失败时非空
type Result struct {
	Valid   bool   `json:"isValid"`
	Message string `json:"errorMessage,omitempty"`
}

// ok 返回通过结果
func ok() Result {
	return Result{Valid: true}
}

// fail 返回失败结果
func fail(message string) Result {
	return Result{Valid: false, Message: message}
}
