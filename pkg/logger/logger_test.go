package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestInit_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	flush, err := Init(Options{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	Ctx(ctx).Info("借阅成功", zap.Uint("loan_id", 9))
	zap.L().Debug("不会输出")
	flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"借阅成功"`)
	assert.Contains(t, string(data), `"request_id":"req-1"`)
	assert.Contains(t, string(data), `"loan_id":9`)
	assert.NotContains(t, string(data), "不会输出")
}
