package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(log *[]string, entry string, err error) func(context.Context) error {
	return func(context.Context) error {
		*log = append(*log, entry)
		return err
	}
}

func TestSaga_Execute_Success(t *testing.T) {
	var log []string
	s := New("create-book", time.Second).
		AddStep("上传PDF", record(&log, "upload-pdf", nil), record(&log, "delete-pdf", nil)).
		AddStep("上传封面", record(&log, "upload-cover", nil), record(&log, "delete-cover", nil)).
		AddStep("写入数据库", record(&log, "insert", nil), nil)

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"upload-pdf", "upload-cover", "insert"}, log)
}

func TestSaga_Execute_FailureCompensatesInReverse(t *testing.T) {
	var log []string
	errInsert := errors.New("duplicate isbn")
	s := New("create-book", time.Second).
		AddStep("上传PDF", record(&log, "upload-pdf", nil), record(&log, "delete-pdf", nil)).
		AddStep("上传封面", record(&log, "upload-cover", nil), record(&log, "delete-cover", nil)).
		AddStep("写入数据库", record(&log, "insert", errInsert), record(&log, "never", nil))

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errInsert)
	assert.Equal(t, []string{"upload-pdf", "upload-cover", "insert", "delete-cover", "delete-pdf"}, log)
}

func TestSaga_Execute_CompensationErrorIsJoined(t *testing.T) {
	var log []string
	errInsert := errors.New("insert failed")
	errDelete := errors.New("storage down")
	s := New("create-book", 0).
		AddStep("上传PDF", record(&log, "upload-pdf", nil), record(&log, "delete-pdf", errDelete)).
		AddStep("写入数据库", record(&log, "insert", errInsert), nil)

	err := s.Execute(context.Background())
	assert.ErrorIs(t, err, errInsert)
	assert.ErrorIs(t, err, errDelete)
}

func TestSaga_Execute_Timeout(t *testing.T) {
	var log []string
	s := New("slow", 20*time.Millisecond).
		AddStep("第一步", func(ctx context.Context) error {
			log = append(log, "first")
			<-ctx.Done()
			return nil
		}, record(&log, "undo-first", nil)).
		AddStep("第二步", record(&log, "second", nil), nil)

	err := s.Execute(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"first", "undo-first"}, log)
}
