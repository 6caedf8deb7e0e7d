package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/registration-gin/internal/service"
	"github.com/sirupsen/logrus"
)

// HandleServiceError 把服务层错误翻译成 HTTP 响应
// 校验失败 400,重复冲突统一 409,未找到 404,其余一律不透明 500
// 存储层细节只进服务端日志,绝不原样返回给客户端
func HandleServiceError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		FieldErrors(c, http.StatusBadRequest, vErr.Errors)
		return
	}

	var cErr *service.ConflictError
	if errors.As(err, &cErr) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Success: false,
			Error:   cErr.Error(),
			Errors:  []service.FieldError{{Field: cErr.Field, Message: cErr.Error()}},
		})
		return
	}

	if errors.Is(err, service.ErrSubmissionNotFound) {
		Error(c, http.StatusNotFound, "Form submission not found")
		return
	}

	logger := GetLogger()
	logger.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.Request.URL.Path,
	}).Error("internal server error")
	Error(c, http.StatusInternalServerError, "internal server error")
}
