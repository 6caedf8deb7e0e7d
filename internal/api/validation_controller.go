package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/registration-gin/internal/service"
	"github.com/mautops/registration-gin/internal/validation"
)

// ValidationController 字段校验控制器
// 供表单层在提交前做单字段/批量校验,每次尝试都会进入校验日志
type ValidationController struct {
	validationService service.ValidationService
}

// NewValidationController 创建字段校验控制器
func NewValidationController(validationService service.ValidationService) *ValidationController {
	return &ValidationController{
		validationService: validationService,
	}
}

// ValidateFieldRequest 单字段校验请求
type ValidateFieldRequest struct {
	FieldName string `json:"fieldName" binding:"required"`
	Value     string `json:"value"`
}

// ValidateBatchRequest 批量校验请求
type ValidateBatchRequest struct {
	Fields []validation.Field `json:"fields" binding:"required"`
}

// BatchResult 批量校验结果
type BatchResult struct {
	Results  []validation.FieldResult `json:"results"`
	AllValid bool                     `json:"allValid"`
}

// ValidateField 校验单个字段
func (c *ValidationController) ValidateField(ctx *gin.Context) {
	var req ValidateFieldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "fieldName is required")
		return
	}

	result := c.validationService.ValidateField(req.FieldName, req.Value)
	Success(ctx, http.StatusOK, result)
}

// ValidateBatch 批量校验,逐字段独立执行并返回总体通过标志
func (c *ValidationController) ValidateBatch(ctx *gin.Context) {
	var req ValidateBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "fields is required")
		return
	}

	results, allValid := c.validationService.ValidateBatch(req.Fields)
	Success(ctx, http.StatusOK, BatchResult{
		Results:  results,
		AllValid: allValid,
	})
}
