package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"beautyconsult-backend/export"
	"beautyconsult-backend/models"
	"beautyconsult-backend/repositories"
	"beautyconsult-backend/utils"

	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// Notifier is told about every saved record. Failures are logged only.
type Notifier interface {
	HistorySaved(ctx context.Context, rec models.HistoryRecord) error
}

type HistoryQuery struct {
	Customer string
	Category string
	Date     *time.Time
}

// ArchiveService is the bridge between intake sessions and the history store.
// Visibility is decided here from the verified caller, never by the client.
type ArchiveService struct {
	repo     repositories.HistoryRepository
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
	wg       sync.WaitGroup
}

func NewArchiveService(repo repositories.HistoryRepository, notifier Notifier, loc *time.Location) *ArchiveService {
	if loc == nil {
		loc = time.Local
	}
	return &ArchiveService{repo: repo, notifier: notifier, loc: loc, now: time.Now}
}

// Save stores rec as one write. rec must already be a detached copy of the
// session state.
func (s *ArchiveService) Save(ctx context.Context, caller models.Caller, rec models.HistoryRecord) (*models.HistoryRecord, error) {
	rec.ID = ""
	rec.UserID = caller.UserID
	rec.Username = caller.Username
	rec.CreatedAt = s.now()

	if err := s.repo.Create(ctx, &rec); err != nil {
		historySaves.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("username", caller.Username).Msg("history save failed")
		return nil, fmt.Errorf("save history: %w", err)
	}
	historySaves.WithLabelValues("ok").Inc()
	log.Info().Str("history_id", rec.ID).Str("username", rec.Username).Int("rows", len(rec.Rows)).Msg("history saved")

	if s.notifier != nil {
		s.wg.Add(1)
		go func(saved models.HistoryRecord) {
			defer s.wg.Done()
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
			defer cancel()
			if err := s.notifier.HistorySaved(nctx, saved); err != nil {
				log.Warn().Err(err).Str("history_id", saved.ID).Msg("admin notification failed")
			}
		}(rec)
	}
	return &rec, nil
}

// Wait blocks until pending notifications finish.
func (s *ArchiveService) Wait() {
	s.wg.Wait()
}

func (s *ArchiveService) List(ctx context.Context, caller models.Caller) ([]models.HistoryRecord, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return Visible(all, caller), nil
}

func (s *ArchiveService) Search(ctx context.Context, caller models.Caller, q HistoryQuery) ([]models.HistoryRecord, error) {
	visible, err := s.List(ctx, caller)
	if err != nil {
		return nil, err
	}
	return FilterHistory(visible, q, s.loc), nil
}

// Delete removes one record and returns the caller's re-listed history. Staff
// may only delete their own records.
func (s *ArchiveService) Delete(ctx context.Context, caller models.Caller, id string) ([]models.HistoryRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}
	if !visibleTo(*rec, caller) {
		return nil, ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete history: %w", err)
	}
	log.Info().Str("history_id", id).Str("username", caller.Username).Msg("history deleted")
	return s.List(ctx, caller)
}

func (s *ArchiveService) Export(ctx context.Context, caller models.Caller, q HistoryQuery, format export.Format, opts export.Options, w io.Writer) error {
	records, err := s.Search(ctx, caller, q)
	if err != nil {
		return err
	}
	return export.Write(w, format, export.Build(records, s.loc), opts)
}

// Visible applies the role rule: admins see everything, staff only records
// saved under their own username.
func Visible(records []models.HistoryRecord, caller models.Caller) []models.HistoryRecord {
	out := make([]models.HistoryRecord, 0, len(records))
	for _, r := range records {
		if visibleTo(r, caller) {
			out = append(out, r)
		}
	}
	return out
}

func visibleTo(r models.HistoryRecord, caller models.Caller) bool {
	return caller.IsAdmin() || (caller.Username != "" && r.Username == caller.Username)
}

// FilterHistory ANDs the non-empty criteria. Customer is a substring match,
// category is exact, and date compares calendar days in loc.
func FilterHistory(records []models.HistoryRecord, q HistoryQuery, loc *time.Location) []models.HistoryRecord {
	out := make([]models.HistoryRecord, 0, len(records))
	for _, r := range records {
		c := r.Customer.Data()
		if q.Customer != "" && !strings.Contains(c.Customer, q.Customer) {
			continue
		}
		if q.Category != "" && r.Consult.Data().Category != q.Category {
			continue
		}
		if q.Date != nil && (c.Date == nil || !utils.SameDay(q.Date.In(loc), *c.Date)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ── Report ────────────────────────────────────────────────────────────────────

type CategoryStat struct {
	Category   string `json:"category"`
	Records    int    `json:"records"`
	Rows       int    `json:"rows"`
	GrandTotal int64  `json:"grandTotal"`
}

type CustomerStat struct {
	Customer   string `json:"customer"`
	Salon      string `json:"salon"`
	Records    int    `json:"records"`
	GrandTotal int64  `json:"grandTotal"`
}

type HistoryReport struct {
	Records      int            `json:"records"`
	Rows         int            `json:"rows"`
	GrandTotal   int64          `json:"grandTotal"`
	Categories   []CategoryStat `json:"categories"`
	TopCustomers []CustomerStat `json:"topCustomers"`
}

const topCustomers = 5

func (s *ArchiveService) Report(ctx context.Context, caller models.Caller, q HistoryQuery) (HistoryReport, error) {
	records, err := s.Search(ctx, caller, q)
	if err != nil {
		return HistoryReport{}, err
	}
	return BuildReport(records), nil
}

// BuildReport aggregates ledger rows by their own category and records by
// customer.
func BuildReport(records []models.HistoryRecord) HistoryReport {
	rep := HistoryReport{Records: len(records), Categories: []CategoryStat{}, TopCustomers: []CustomerStat{}}
	categories := map[string]*CategoryStat{}
	customers := map[string]*CustomerStat{}

	for _, rec := range records {
		c := rec.Customer.Data()
		total := rec.GrandTotal()
		rep.Rows += len(rec.Rows)
		rep.GrandTotal += total

		seen := map[string]bool{}
		for _, row := range rec.Rows {
			stat, ok := categories[row.Category]
			if !ok {
				stat = &CategoryStat{Category: row.Category}
				categories[row.Category] = stat
			}
			stat.Rows++
			stat.GrandTotal += row.GrandTotal
			if !seen[row.Category] {
				stat.Records++
				seen[row.Category] = true
			}
		}

		key := c.Salon + "\x00" + c.Customer
		cs, ok := customers[key]
		if !ok {
			cs = &CustomerStat{Customer: c.Customer, Salon: c.Salon}
			customers[key] = cs
		}
		cs.Records++
		cs.GrandTotal += total
	}

	for _, st := range categories {
		rep.Categories = append(rep.Categories, *st)
	}
	sort.Slice(rep.Categories, func(i, j int) bool {
		if rep.Categories[i].GrandTotal != rep.Categories[j].GrandTotal {
			return rep.Categories[i].GrandTotal > rep.Categories[j].GrandTotal
		}
		return rep.Categories[i].Category < rep.Categories[j].Category
	})

	for _, cs := range customers {
		rep.TopCustomers = append(rep.TopCustomers, *cs)
	}
	sort.Slice(rep.TopCustomers, func(i, j int) bool {
		if rep.TopCustomers[i].GrandTotal != rep.TopCustomers[j].GrandTotal {
			return rep.TopCustomers[i].GrandTotal > rep.TopCustomers[j].GrandTotal
		}
		return rep.TopCustomers[i].Customer < rep.TopCustomers[j].Customer
	})
	if len(rep.TopCustomers) > topCustomers {
		rep.TopCustomers = rep.TopCustomers[:topCustomers]
	}
	return rep
}
