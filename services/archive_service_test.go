package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"beautyconsult-backend/export"
	"beautyconsult-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = models.Caller{UserID: "u-admin", Username: "boss", Role: models.RoleAdmin}
	staff = models.Caller{UserID: "u-staff", Username: "jiwoo", Role: models.RoleStaff}
	other = models.Caller{UserID: "u-other", Username: "minho", Role: models.RoleStaff}
)

func historyRecord(id, username, customer, category string, consultDay time.Time, rows ...models.LedgerRow) models.HistoryRecord {
	c := models.NewCustomerSnapshot()
	c.Salon = "라온헤어"
	c.Customer = customer
	c.Date = &consultDay
	l := models.NewConsultLine()
	l.Category = category
	rec := models.NewHistoryRecord(c, l, rows)
	rec.ID = id
	rec.Username = username
	rec.CreatedAt = consultDay
	return rec
}

func ledgerRow(category string, grandTotal int64) models.LedgerRow {
	r := models.LedgerRow{GrandTotal: grandTotal}
	r.Category = category
	return r
}

func ids(records []models.HistoryRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func seededArchive(t *testing.T) (*ArchiveService, *stubHistoryRepo) {
	t.Helper()
	base := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)
	repo := newStubHistoryRepo(
		historyRecord("h1", "jiwoo", "김민지", "샴푸대", base),
		historyRecord("h2", "minho", "박서준", "경대", base.Add(24*time.Hour)),
		historyRecord("h3", "jiwoo", "이수민", "경대", base.Add(48*time.Hour)),
	)
	return NewArchiveService(repo, nil, time.UTC), repo
}

// ── Save ──────────────────────────────────────────────────────────────────────

func TestArchiveSave_StampsCallerAndNotifies(t *testing.T) {
	repo := newStubHistoryRepo()
	notifier := &stubNotifier{}
	svc := NewArchiveService(repo, notifier, time.UTC)
	fixed := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	draft := historyRecord("client-id", "spoofed", "김민지", "샴푸대", fixed, ledgerRow("샴푸대", 1000))
	saved, err := svc.Save(context.Background(), staff, draft)
	require.NoError(t, err)
	svc.Wait()

	assert.NotEqual(t, "client-id", saved.ID)
	assert.Equal(t, "jiwoo", saved.Username)
	assert.Equal(t, "u-staff", saved.UserID)
	assert.Equal(t, fixed, saved.CreatedAt)

	require.Len(t, notifier.saved, 1)
	assert.Equal(t, saved.ID, notifier.saved[0].ID)
}

func TestArchiveSave_NotificationFailureDoesNotFailSave(t *testing.T) {
	repo := newStubHistoryRepo()
	svc := NewArchiveService(repo, &stubNotifier{err: errors.New("twilio down")}, time.UTC)

	_, err := svc.Save(context.Background(), staff, historyRecord("", "", "김민지", "경대", time.Now()))
	require.NoError(t, err)
	svc.Wait()

	list, err := svc.List(context.Background(), staff)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestArchiveSave_RepositoryFailure(t *testing.T) {
	repo := newStubHistoryRepo()
	repo.err = errors.New("connection refused")
	notifier := &stubNotifier{}
	svc := NewArchiveService(repo, notifier, time.UTC)

	_, err := svc.Save(context.Background(), staff, historyRecord("", "", "김민지", "경대", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	svc.Wait()
	assert.Empty(t, notifier.saved)
}

// ── Visibility ────────────────────────────────────────────────────────────────

func TestArchiveList_RoleVisibility(t *testing.T) {
	svc, _ := seededArchive(t)
	ctx := context.Background()

	all, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, []string{"h3", "h2", "h1"}, ids(all))

	own, err := svc.List(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, []string{"h3", "h1"}, ids(own))

	none, err := svc.List(ctx, models.Caller{Role: models.RoleStaff})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestArchiveDelete_ReturnsRelistedHistory(t *testing.T) {
	svc, _ := seededArchive(t)

	remaining, err := svc.Delete(context.Background(), staff, "h1")
	require.NoError(t, err)
	assert.Equal(t, []string{"h3"}, ids(remaining))
}

func TestArchiveDelete_StaffCannotDeleteOthers(t *testing.T) {
	svc, repo := seededArchive(t)

	_, err := svc.Delete(context.Background(), staff, "h2")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Len(t, repo.records, 3)

	remaining, err := svc.Delete(context.Background(), admin, "h2")
	require.NoError(t, err)
	assert.Equal(t, []string{"h3", "h1"}, ids(remaining))
}

func TestArchiveDelete_Missing(t *testing.T) {
	svc, _ := seededArchive(t)
	_, err := svc.Delete(context.Background(), admin, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── Search ────────────────────────────────────────────────────────────────────

func TestFilterHistory(t *testing.T) {
	svc, _ := seededArchive(t)
	ctx := context.Background()

	byCustomer, err := svc.Search(ctx, admin, HistoryQuery{Customer: "민"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"h1", "h3"}, ids(byCustomer))

	byCategory, err := svc.Search(ctx, admin, HistoryQuery{Category: "경대"})
	require.NoError(t, err)
	assert.Equal(t, []string{"h3", "h2"}, ids(byCategory))

	day := time.Date(2024, 5, 11, 23, 59, 0, 0, time.UTC)
	byDay, err := svc.Search(ctx, admin, HistoryQuery{Date: &day})
	require.NoError(t, err)
	assert.Equal(t, []string{"h2"}, ids(byDay))

	combined, err := svc.Search(ctx, staff, HistoryQuery{Category: "경대", Customer: "박"})
	require.NoError(t, err)
	assert.Empty(t, combined)
}

func TestFilterHistory_DateUsesLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	// 2024-05-10 20:00 UTC is 2024-05-11 in Seoul.
	rec := historyRecord("h1", "jiwoo", "김민지", "경대", time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC))
	day := time.Date(2024, 5, 11, 0, 0, 0, 0, seoul)

	assert.Len(t, FilterHistory([]models.HistoryRecord{rec}, HistoryQuery{Date: &day}, seoul), 1)

	c := rec.Customer.Data()
	c.Date = nil
	noDate := models.NewHistoryRecord(c, rec.Consult.Data(), nil)
	assert.Empty(t, FilterHistory([]models.HistoryRecord{noDate}, HistoryQuery{Date: &day}, seoul))
}

// ── Report and export ─────────────────────────────────────────────────────────

func TestBuildReport(t *testing.T) {
	now := time.Now()
	records := []models.HistoryRecord{
		historyRecord("a", "jiwoo", "김민지", "샴푸대", now,
			ledgerRow("샴푸대", 1000), ledgerRow("샴푸대", 500), ledgerRow("경대", 3000)),
		historyRecord("b", "jiwoo", "박서준", "경대", now, ledgerRow("경대", -200)),
		historyRecord("c", "jiwoo", "김민지", "경대", now),
	}

	rep := BuildReport(records)
	assert.Equal(t, 3, rep.Records)
	assert.Equal(t, 4, rep.Rows)
	assert.Equal(t, int64(4300), rep.GrandTotal)

	require.Len(t, rep.Categories, 2)
	assert.Equal(t, CategoryStat{Category: "경대", Records: 2, Rows: 2, GrandTotal: 2800}, rep.Categories[0])
	assert.Equal(t, CategoryStat{Category: "샴푸대", Records: 1, Rows: 2, GrandTotal: 1500}, rep.Categories[1])

	require.Len(t, rep.TopCustomers, 2)
	assert.Equal(t, CustomerStat{Customer: "김민지", Salon: "라온헤어", Records: 2, GrandTotal: 4500}, rep.TopCustomers[0])
	assert.Equal(t, int64(-200), rep.TopCustomers[1].GrandTotal)
}

func TestBuildReport_Empty(t *testing.T) {
	rep := BuildReport(nil)
	assert.Zero(t, rep.Records)
	assert.NotNil(t, rep.Categories)
	assert.NotNil(t, rep.TopCustomers)
}

func TestArchiveExport_OnlyVisibleRecords(t *testing.T) {
	svc, _ := seededArchive(t)

	var buf bytes.Buffer
	err := svc.Export(context.Background(), staff, HistoryQuery{}, export.FormatCSV, export.Options{}, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "김민지")
	assert.Contains(t, out, "이수민")
	assert.NotContains(t, out, "박서준")
}
