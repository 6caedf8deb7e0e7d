package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mautops/registration-gin/internal/config"
	"github.com/mautops/registration-gin/internal/database"
	"github.com/mautops/registration-gin/internal/repository"
	"github.com/mautops/registration-gin/internal/service"
	"github.com/mautops/registration-gin/internal/validation"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestRouter 构造接入内存数据库的完整路由
func setupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetLoggerOutput(io.Discard)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	aggregator := validation.NewAggregator(validation.DefaultRules())
	subSvc := service.NewSubmissionService(db, aggregator, log)
	valSvc := service.NewValidationService(aggregator, repository.NewValidationLogRepository(db), log)

	cfg := config.Default()
	cfg.RateLimit.Enabled = false

	return SetupRoutes(db, Controllers{
		Submission: NewSubmissionController(subSvc),
		Validation: NewValidationController(valSvc),
		Reference:  NewReferenceController(aggregator),
	}, cfg)
}

// doJSON 发送 JSON 请求并返回响应
func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decode 解析响应体
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

// validSubmitBody 构造合法的提交请求体
func validSubmitBody(nationalID, taxID string) map[string]interface{} {
	return map[string]interface{}{
		"nationalId":       nationalID,
		"entrepreneurName": "Asha Kumar",
		"mobileNumber":     "9876543210",
		"emailAddress":     "asha@example.com",
		"otpVerified":      true,
		"taxId":            taxID,
		"businessName":     "Kumar Textiles",
		"businessType":     "Proprietorship",
		"addressLine1":     "12 MG Road",
		"city":             "Mumbai",
		"state":            "Maharashtra",
		"pincode":          "400001",
	}
}

// submit 提交一份合法表单并返回新记录 ID
func submit(t *testing.T, router *gin.Engine, nationalID, taxID string) string {
	w := doJSON(router, http.MethodPost, "/api/v1/registrations/submit", validSubmitBody(nationalID, taxID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]interface{})
	return data["id"].(string)
}

// TestSubmitEndpoint 合法提交返回 201 和新记录标识
func TestSubmitEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/registrations/submit", validSubmitBody("987654321098", "ABCDE1234F"))
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "PENDING", data["status"])
	assert.NotEmpty(t, data["submittedAt"])
}

// TestSubmitEndpointMalformedBody 非法 JSON 返回 400
func TestSubmitEndpointMalformedBody(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registrations/submit", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "invalid request body", resp["error"])
}

// TestSubmitEndpointValidationErrors 字段校验失败返回 400 和字段错误列表
func TestSubmitEndpointValidationErrors(t *testing.T) {
	router := setupTestRouter(t)

	body := validSubmitBody("987654321098", "ABCDE1234F")
	body["emailAddress"] = "user@mailinator.com"
	body["pincode"] = "111111"

	w := doJSON(router, http.MethodPost, "/api/v1/registrations/submit", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	errs := resp["errors"].([]interface{})
	require.Len(t, errs, 2)
	first := errs[0].(map[string]interface{})
	assert.Equal(t, "emailAddress", first["field"])
	assert.Equal(t, "disposable email addresses are not allowed", first["message"])
}

// TestSubmitEndpointMissingKey 缺键返回 400
func TestSubmitEndpointMissingKey(t *testing.T) {
	router := setupTestRouter(t)

	body := validSubmitBody("987654321098", "ABCDE1234F")
	delete(body, "taxId")

	w := doJSON(router, http.MethodPost, "/api/v1/registrations/submit", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode(t, w)
	errs := resp["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "taxId", errs[0].(map[string]interface{})["field"])
}

// TestSubmitEndpointDuplicate 重复标识返回 409
func TestSubmitEndpointDuplicate(t *testing.T) {
	router := setupTestRouter(t)

	submit(t, router, "987654321098", "ABCDE1234F")

	w := doJSON(router, http.MethodPost, "/api/v1/registrations/submit", validSubmitBody("987654321098", "ABCDE1234G"))
	require.Equal(t, http.StatusConflict, w.Code)

	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "a submission with this national ID already exists", resp["error"])
	errs := resp["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "nationalId", errs[0].(map[string]interface{})["field"])
}

// TestGetEndpoint 详情查询返回记录和校验日志
func TestGetEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	id := submit(t, router, "987654321098", "ABCDE1234F")

	w := doJSON(router, http.MethodGet, "/api/v1/registrations/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, id, data["id"])
	assert.Equal(t, "987654321098", data["nationalId"])
	assert.Equal(t, "PENDING", data["status"])
	logs := data["validationLogs"].([]interface{})
	assert.Len(t, logs, 11)
}

// TestGetEndpointNotFound 未知 ID 返回 404 和固定消息
func TestGetEndpointNotFound(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/registrations/no-such-id", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Form submission not found", resp["error"])
}

// TestListEndpoint 列表返回分页元数据
func TestListEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	submit(t, router, "987654321098", "ABCDE1234F")
	submit(t, router, "876543210987", "ABCDE1234G")
	submit(t, router, "765432109876", "ABCDE1234H")

	w := doJSON(router, http.MethodGet, "/api/v1/registrations?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	subs := resp["submissions"].([]interface{})
	assert.Len(t, subs, 2)
	pagination := resp["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["total"])
	assert.Equal(t, float64(2), pagination["totalPages"])
	assert.Equal(t, true, pagination["hasNext"])
	assert.Equal(t, false, pagination["hasPrevious"])

	// 非法分页参数回退默认值
	w = doJSON(router, http.MethodGet, "/api/v1/registrations?page=abc&limit=-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	pagination = decode(t, w)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["page"])
	assert.Equal(t, float64(20), pagination["limit"])

	// 非法状态过滤返回 400
	w = doJSON(router, http.MethodGet, "/api/v1/registrations?status=SHIPPED", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestUpdateStatusEndpoint 状态更新
func TestUpdateStatusEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	id := submit(t, router, "987654321098", "ABCDE1234F")

	w := doJSON(router, http.MethodPut, "/api/v1/registrations/"+id+"/status", map[string]interface{}{
		"status": "APPROVED",
		"notes":  "all documents verified",
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "APPROVED", data["status"])
	assert.Equal(t, "all documents verified", data["notes"])

	// 非法状态
	w = doJSON(router, http.MethodPut, "/api/v1/registrations/"+id+"/status", map[string]interface{}{
		"status": "SHIPPED",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 未知 ID
	w = doJSON(router, http.MethodPut, "/api/v1/registrations/missing/status", map[string]interface{}{
		"status": "APPROVED",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestDeleteEndpoint 删除是到 REJECTED 的状态迁移
func TestDeleteEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	id := submit(t, router, "987654321098", "ABCDE1234F")

	w := doJSON(router, http.MethodDelete, "/api/v1/registrations/"+id, map[string]interface{}{
		"reason": "withdrawn by applicant",
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "REJECTED", data["status"])
	assert.Equal(t, "withdrawn by applicant", data["notes"])

	// 删除后同一标识可以重新提交
	w = doJSON(router, http.MethodPost, "/api/v1/registrations/submit", validSubmitBody("987654321098", "ABCDE1234F"))
	assert.Equal(t, http.StatusCreated, w.Code)
}

// TestValidateFieldEndpoint 单字段校验
func TestValidateFieldEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/registrations/validate-field", map[string]interface{}{
		"fieldName": "pincode",
		"value":     "400001",
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "pincode", data["fieldName"])
	assert.Equal(t, "pincode", data["validationType"])
	assert.Equal(t, true, data["isValid"])

	// 失败结果携带错误消息
	w = doJSON(router, http.MethodPost, "/api/v1/registrations/validate-field", map[string]interface{}{
		"fieldName": "pincode",
		"value":     "12",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["isValid"])
	assert.Equal(t, "PIN code must be exactly 6 digits", data["errorMessage"])

	// fieldName 缺失返回 400
	w = doJSON(router, http.MethodPost, "/api/v1/registrations/validate-field", map[string]interface{}{
		"value": "400001",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestValidateBatchEndpoint 批量校验
func TestValidateBatchEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/registrations/validate-batch", map[string]interface{}{
		"fields": []map[string]interface{}{
			{"fieldName": "nationalId", "value": "987654321098"},
			{"fieldName": "mobileNumber", "value": "12345"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["allValid"])
	results := data["results"].([]interface{})
	require.Len(t, results, 2)
	assert.Equal(t, true, results[0].(map[string]interface{})["isValid"])
	assert.Equal(t, false, results[1].(map[string]interface{})["isValid"])
}

// TestReferenceEndpoints 参考数据端点
func TestReferenceEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/reference/business-types", nil)
	require.Equal(t, http.StatusOK, w.Code)
	types := decode(t, w)["data"].([]interface{})
	assert.Len(t, types, 9)
	assert.Contains(t, types, "Proprietorship")

	w = doJSON(router, http.MethodGet, "/api/v1/reference/states", nil)
	require.Equal(t, http.StatusOK, w.Code)
	states := decode(t, w)["data"].([]interface{})
	assert.Len(t, states, 36)
	assert.Contains(t, states, "Maharashtra")
}

// TestHealthEndpoint 健康检查
func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, "healthy", resp["status"])
}

// TestNoRouteReturnsJSON 未匹配路由返回 JSON 404
func TestNoRouteReturnsJSON(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "route not found", resp["error"])
}

// TestRequestIDHeader 请求 ID 透传与生成
func TestRequestIDHeader(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	w = doJSON(router, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// TestMetricsEndpoint 指标端点输出 Prometheus 文本格式
func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
