package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBackupRun_UploadsWorkbook(t *testing.T) {
	base := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)
	repo := newStubHistoryRepo(
		historyRecord("h1", "jiwoo", "김민지", "샴푸대", base),
		historyRecord("h2", "minho", "박서준", "경대", base),
	)
	store := newStubObjectStore()
	svc := NewBackupService(repo, store, time.UTC)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 3, 0, 5, 0, time.UTC) }

	key, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backups/history_20240601_030005.xlsx", key)

	f, err := excelize.OpenReader(bytes.NewReader(store.objects[key]))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestBackupRun_Failures(t *testing.T) {
	repo := newStubHistoryRepo()
	repo.err = errors.New("db gone")
	_, err := NewBackupService(repo, newStubObjectStore(), nil).Run(context.Background())
	assert.ErrorContains(t, err, "db gone")

	store := newStubObjectStore()
	store.err = errors.New("bucket missing")
	_, err = NewBackupService(newStubHistoryRepo(), store, nil).Run(context.Background())
	assert.ErrorContains(t, err, "bucket missing")
}

func TestBackupStart_InvalidSchedule(t *testing.T) {
	svc := NewBackupService(newStubHistoryRepo(), newStubObjectStore(), nil)
	assert.Error(t, svc.Start("not a cron"))
	svc.Stop()
}
