package database

import (
	"testing"
	"time"

	"github.com/mautops/registration-gin/internal/config"
	"github.com/mautops/registration-gin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB 打开内存数据库并执行迁移
func openTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

// testSubmission 构造一条可落库的提交记录
func testSubmission(id, nationalID, taxID string, status model.SubmissionStatus) *model.SubmissionModel {
	now := time.Now()
	return &model.SubmissionModel{
		ID:               id,
		NationalID:       nationalID,
		EntrepreneurName: "Asha Kumar",
		MobileNumber:     "9876543210",
		EmailAddress:     "asha@example.com",
		OTPVerified:      true,
		TaxID:            taxID,
		BusinessName:     "Kumar Textiles",
		BusinessType:     "Proprietorship",
		AddressLine1:     "12 MG Road",
		City:             "Mumbai",
		State:            "Maharashtra",
		Pincode:          "400001",
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// TestBuildDSN 测试 DSN 构建
func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		DBName:   "registration",
		SSLMode:  "disable",
	})
	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=registration sslmode=disable", dsn)
}

// TestGetPoolConfig 测试连接池默认配置
func TestGetPoolConfig(t *testing.T) {
	pool := GetPoolConfig()
	assert.Equal(t, 10, pool.MaxIdleConns)
	assert.Equal(t, 100, pool.MaxOpenConns)
	assert.Equal(t, 3600, pool.ConnMaxLifetime)
	assert.Equal(t, 600, pool.ConnMaxIdleTime)
}

// TestMigrate 迁移创建两张表和索引
func TestMigrate(t *testing.T) {
	db := openTestDB(t)

	assert.True(t, db.Migrator().HasTable(&model.SubmissionModel{}))
	assert.True(t, db.Migrator().HasTable(&model.ValidationLogModel{}))

	// 迁移应当幂等
	assert.NoError(t, Migrate(db))
}

// TestUniqueIndexBlocksDuplicateNationalID 部分唯一索引拦截重复身份号码
func TestUniqueIndexBlocksDuplicateNationalID(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(testSubmission("sub-1", "987654321098", "ABCDE1234F", model.StatusPending)).Error)

	// 同一身份号码的第二条活跃记录被唯一索引拒绝
	err := db.Create(testSubmission("sub-2", "987654321098", "ABCDE1234G", model.StatusPending)).Error
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
}

// TestUniqueIndexIgnoresRejected REJECTED 记录不再占用标识符
func TestUniqueIndexIgnoresRejected(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(testSubmission("sub-1", "987654321098", "ABCDE1234F", model.StatusRejected)).Error)

	// 被拒绝的提交不阻止同一标识符重新提交
	assert.NoError(t, db.Create(testSubmission("sub-2", "987654321098", "ABCDE1234F", model.StatusPending)).Error)
}

// TestUniqueIndexBlocksDuplicateTaxID 部分唯一索引拦截重复税号
func TestUniqueIndexBlocksDuplicateTaxID(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(testSubmission("sub-1", "987654321098", "ABCDE1234F", model.StatusApproved)).Error)

	err := db.Create(testSubmission("sub-2", "876543210987", "ABCDE1234F", model.StatusPending)).Error
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
}

// TestCheckHealth 测试数据库健康检查
func TestCheckHealth(t *testing.T) {
	db := openTestDB(t)
	assert.True(t, CheckHealth(db))
	assert.False(t, CheckHealth(nil))
}

// TestClose 测试关闭数据库连接
func TestClose(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, Close(db))
	assert.NoError(t, Close(nil))
}
