package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mautops/registration-gin/internal/service"
)

// Response 成功响应格式
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse 错误响应格式
// 单条错误用 Error,字段级错误列表用 Errors,两者至少有一个非空
type ErrorResponse struct {
	Success bool                 `json:"success"`
	Error   string               `json:"error,omitempty"`
	Errors  []service.FieldError `json:"errors,omitempty"`
}

// ListResponse 提交列表响应,含分页元数据
type ListResponse struct {
	Submissions interface{}         `json:"submissions"`
	Pagination  *service.Pagination `json:"pagination"`
}

// Success 成功响应
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// Error 单条消息的错误响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// FieldErrors 字段级错误列表响应
func FieldErrors(c *gin.Context, status int, errs []service.FieldError) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Errors:  errs,
	})
}

// Paginated 分页响应
func Paginated(c *gin.Context, status int, items interface{}, pagination *service.Pagination) {
	c.JSON(status, ListResponse{
		Submissions: items,
		Pagination:  pagination,
	})
}
