package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/registration-gin/internal/validation"
)

// ReferenceController 参考数据控制器
// 向表单层提供下拉框选项,数据来自注入的校验参考数据,随配置热更新
type ReferenceController struct {
	aggregator *validation.Aggregator
}

// NewReferenceController 创建参考数据控制器
func NewReferenceController(aggregator *validation.Aggregator) *ReferenceController {
	return &ReferenceController{aggregator: aggregator}
}

// BusinessTypes 返回企业类型枚举
func (c *ReferenceController) BusinessTypes(ctx *gin.Context) {
	Success(ctx, http.StatusOK, c.aggregator.Rules().BusinessTypes)
}

// States 返回邦/联邦属地名称列表
func (c *ReferenceController) States(ctx *gin.Context) {
	Success(ctx, http.StatusOK, c.aggregator.Rules().States)
}
