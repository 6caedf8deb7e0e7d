package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mautops/registration-gin/internal/service"
)

// SubmissionController 注册提交控制器
type SubmissionController struct {
	submissionService service.SubmissionService
}

// NewSubmissionController 创建注册提交控制器
func NewSubmissionController(submissionService service.SubmissionService) *SubmissionController {
	return &SubmissionController{
		submissionService: submissionService,
	}
}

// Submit 提交注册表单
func (c *SubmissionController) Submit(ctx *gin.Context) {
	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := c.submissionService.Submit(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, http.StatusCreated, result)
}

// Get 获取提交详情(含字段校验日志)
func (c *SubmissionController) Get(ctx *gin.Context) {
	id := ctx.Param("id")

	detail, err := c.submissionService.Get(ctx.Request.Context(), id)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, http.StatusOK, detail)
}

// List 分页列出提交
// 查询参数: page, limit, status, search
func (c *SubmissionController) List(ctx *gin.Context) {
	filter := &service.ListFilter{
		Page:  parseIntQuery(ctx, "page", 1),
		Limit: parseIntQuery(ctx, "limit", 20),
	}
	if status := ctx.Query("status"); status != "" {
		filter.Status = &status
	}
	if search := ctx.Query("search"); search != "" {
		filter.Search = &search
	}

	subs, pagination, err := c.submissionService.List(ctx.Request.Context(), filter)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Paginated(ctx, http.StatusOK, subs, pagination)
}

// UpdateStatus 更新提交状态
func (c *SubmissionController) UpdateStatus(ctx *gin.Context) {
	id := ctx.Param("id")

	var req service.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := c.submissionService.UpdateStatus(ctx.Request.Context(), id, &req)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, http.StatusOK, sub)
}

// Delete 软删除提交(状态迁移到 REJECTED)
// 请求体可选,可携带 {"reason": "..."} 说明原因
func (c *SubmissionController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	var req struct {
		Reason string `json:"reason"`
	}
	// DELETE 请求体可选,解析失败按空原因处理
	_ = ctx.ShouldBindJSON(&req)

	sub, err := c.submissionService.Delete(ctx.Request.Context(), id, req.Reason)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, http.StatusOK, sub)
}

// parseIntQuery 解析整数查询参数,非法值回退默认值
func parseIntQuery(ctx *gin.Context, key string, fallback int) int {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
