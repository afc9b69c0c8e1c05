package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"beautyconsult-backend/export"
	"beautyconsult-backend/repositories"
	"beautyconsult-backend/storage"
	"beautyconsult-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const backupPrefix = "backups/history_"

// BackupService periodically writes the full archive as a workbook to
// object storage.
type BackupService struct {
	repo  repositories.HistoryRepository
	store storage.ObjectStore
	loc   *time.Location
	now   func() time.Time
	cron  *cron.Cron
}

func NewBackupService(repo repositories.HistoryRepository, store storage.ObjectStore, loc *time.Location) *BackupService {
	if loc == nil {
		loc = time.Local
	}
	return &BackupService{repo: repo, store: store, loc: loc, now: time.Now}
}

// Run exports every record and uploads it. It returns the object key.
func (s *BackupService) Run(ctx context.Context) (string, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list history: %w", err)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, export.FormatXLSX, export.Build(records, s.loc), export.Options{}); err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}

	key := backupPrefix + s.now().In(s.loc).Format("20060102_150405") + ".xlsx"
	if _, err := s.store.Put(ctx, key, export.FormatXLSX.ContentType(), buf.Bytes()); err != nil {
		return "", err
	}
	log.Info().Str("key", key).Int("records", len(records)).Msg("history backup uploaded")
	return key, nil
}

func (s *BackupService) Start(spec string) error {
	c, err := utils.StartScheduler("history-backup", spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.Run(ctx); err != nil {
			log.Error().Err(err).Msg("history backup failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule backup: %w", err)
	}
	s.cron = c
	return nil
}

func (s *BackupService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
