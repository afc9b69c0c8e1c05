package intake_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"beautyconsult-backend/catalog"
	"beautyconsult-backend/intake"
	"beautyconsult-backend/ledger"
	"beautyconsult-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory snapshot store ──────────────────────────────────────────────────

type memSnapshots struct {
	data map[string]models.LocalSnapshot
	err  error
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{data: map[string]models.LocalSnapshot{}}
}

func (m *memSnapshots) Save(_ context.Context, owner string, snap models.LocalSnapshot) error {
	if m.err != nil {
		return m.err
	}
	m.data[owner] = snap
	return nil
}

func (m *memSnapshots) Load(_ context.Context, owner string) (*models.LocalSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	snap, ok := m.data[owner]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

var _ intake.SnapshotStore = (*memSnapshots)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func newForm(t *testing.T) *intake.Form {
	t.Helper()
	f := intake.NewForm("user-1", catalog.Default())
	_, err := f.SetCustomer(models.CustomerSnapshot{Salon: "라온헤어", Customer: "김민지", Phone: "010 1234 5678"})
	require.NoError(t, err)
	return f
}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

// ── Customer ──────────────────────────────────────────────────────────────────

func TestSetCustomer_FormatsPhone(t *testing.T) {
	f := newForm(t)
	st, err := f.State()
	require.NoError(t, err)

	assert.Equal(t, "010-1234-5678", st.Customer.Phone)
}

func TestInstallHopeTypeSwitchClearsOtherRepresentations(t *testing.T) {
	f := newForm(t)
	d := day(2026, 3, 2, 0)
	c, err := f.SetCustomer(models.CustomerSnapshot{
		Salon: "a", Customer: "b",
		InstallHopeType: models.InstallHopeSingle,
		InstallHope:     &d,
	})
	require.NoError(t, err)
	require.NotNil(t, c.InstallHope)

	c, err = f.SetInstallHopeType(models.InstallHopeMultiple)
	require.NoError(t, err)
	assert.Nil(t, c.InstallHope)
	assert.Nil(t, c.InstallHopeRange)
	assert.Empty(t, c.InstallHopeMultiple)

	_, err = f.SetInstallHopeType("weekly")
	assert.ErrorIs(t, err, intake.ErrInvalidInstallHope)
}

func TestAddInstallDate_DedupesByDay(t *testing.T) {
	f := newForm(t)
	_, err := f.SetInstallHopeType(models.InstallHopeMultiple)
	require.NoError(t, err)

	assert.True(t, f.AddInstallDate(day(2026, 3, 2, 9)))
	assert.False(t, f.AddInstallDate(day(2026, 3, 2, 18)))
	assert.True(t, f.AddInstallDate(day(2026, 3, 3, 9)))
	assert.True(t, f.RemoveInstallDate(day(2026, 3, 2, 0)))

	st, err := f.State()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-03", st.InstallHope)
}

// ── Add ───────────────────────────────────────────────────────────────────────

func TestAdd_RequiresCustomer(t *testing.T) {
	f := intake.NewForm("u", catalog.Default())
	assert.False(t, f.CanAdd())

	_, err := f.Add()
	assert.ErrorIs(t, err, intake.ErrCustomerIncomplete)
	assert.Equal(t, 0, f.Summary().Rows)
}

func TestAdd_ComputesAndResetsDraft(t *testing.T) {
	f := newForm(t)
	_, err := f.Select(catalog.LevelCategory, intake.ActionChoose, "미용기자재")
	require.NoError(t, err)
	_, err = f.Select(catalog.LevelItem, intake.ActionChoose, "의자")
	require.NoError(t, err)
	_, err = f.Select(catalog.LevelProduct, intake.ActionChoose, "프리미엄 의자")
	require.NoError(t, err)
	_, err = f.SetConsult(intake.ConsultInput{Quantity: 2, Price: models.Int64Ptr(-50000), VATType: models.VATSeparate, VATAmount: models.Int64Ptr(0)})
	require.NoError(t, err)

	row, err := f.Add()
	require.NoError(t, err)

	assert.Equal(t, "프리미엄 의자", row.Product)
	assert.Equal(t, int64(-100000), row.LineTotal)
	assert.Equal(t, int64(-100000), row.GrandTotal)
	assert.True(t, row.Negative())

	st, err := f.State()
	require.NoError(t, err)
	assert.Equal(t, models.NewConsultLine(), st.Consult)
	assert.Equal(t, catalog.NewSelection(), st.Selection)
	assert.Equal(t, "김민지", st.Customer.Customer)
	require.Len(t, st.Rows, 1)
	assert.True(t, st.Rows[0].Negative)
	assert.Equal(t, "geekblue", st.Rows[0].CategoryColor)
}

func TestCategoryCodesStoreLabels(t *testing.T) {
	f := newForm(t)
	_, err := f.Select(catalog.LevelCategory, intake.ActionChoose, "equipment")
	require.NoError(t, err)
	row, err := f.Add()
	require.NoError(t, err)
	assert.Equal(t, "미용기자재", row.Category)

	f.LoadProducts([]catalog.Product{{Category: "material", Item: "샴푸", Price: 12000, VATType: models.VATSeparate}})
	picked, err := f.AddPicked([]int{0})
	require.NoError(t, err)
	assert.Equal(t, "미용재료", picked[0].Category)

	code := "interior"
	edited, err := f.EditRow(picked[0].Key, ledger.RowPatch{Category: &code})
	require.NoError(t, err)
	assert.Equal(t, "인테리어", edited.Category)

	require.NoError(t, f.SetQuery(ledger.Query{Filters: []ledger.Filter{{Column: "category", Values: []string{"equipment"}}}}))
	view, err := f.View()
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, row.Key, view[0].Key)
}

func TestAdd_RowDoesNotAliasLiveCustomer(t *testing.T) {
	f := newForm(t)
	_, err := f.Add()
	require.NoError(t, err)

	_, err = f.SetCustomer(models.CustomerSnapshot{Salon: "다른살롱", Customer: "박지수"})
	require.NoError(t, err)

	view, err := f.View()
	require.NoError(t, err)
	assert.Equal(t, "김민지", view[0].Customer)
}

func TestSetConsult_ClampsInputs(t *testing.T) {
	f := newForm(t)

	line, err := f.SetConsult(intake.ConsultInput{Quantity: 5000, Price: models.Int64Ptr(-500000000)})
	require.NoError(t, err)
	assert.Equal(t, intake.MaxQuantity, line.Quantity)
	assert.Equal(t, int64(intake.MinPrice), *line.Price)
	assert.Equal(t, models.VATSeparate, line.VATType)

	line, err = f.SetConsult(intake.ConsultInput{Quantity: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	_, err = f.SetConsult(intake.ConsultInput{Quantity: 1, VATType: "면세"})
	assert.ErrorIs(t, err, intake.ErrInvalidVATType)
}

func TestTotals_VATPreview(t *testing.T) {
	f := newForm(t)
	_, err := f.SetConsult(intake.ConsultInput{Quantity: 3, Price: models.Int64Ptr(15000)})
	require.NoError(t, err)

	st, err := f.State()
	require.NoError(t, err)
	assert.Equal(t, int64(45000), st.Totals.LineTotal)
	assert.Equal(t, []int64{0, 4500}, st.VATOptions)
}

// ── Selector ──────────────────────────────────────────────────────────────────

func TestSelect_FreeTextItem(t *testing.T) {
	f := newForm(t)
	_, err := f.Select(catalog.LevelCategory, intake.ActionChoose, "미용재료")
	require.NoError(t, err)
	_, err = f.Select(catalog.LevelItem, intake.ActionChoose, catalog.CustomOption)
	require.NoError(t, err)
	_, err = f.Select(catalog.LevelItem, intake.ActionType, "두피 앰플")
	require.NoError(t, err)
	sel, err := f.Select(catalog.LevelItem, intake.ActionCommit, "")
	require.NoError(t, err)

	assert.Equal(t, "두피 앰플", sel.Item)
	st, err := f.State()
	require.NoError(t, err)
	assert.Equal(t, "두피 앰플", st.Consult.Item)
	assert.Empty(t, st.Options.Products)

	_, err = f.Select(catalog.LevelItem, "hover", "")
	assert.ErrorIs(t, err, intake.ErrUnknownAction)
}

// ── Product picker ────────────────────────────────────────────────────────────

func TestAddPicked(t *testing.T) {
	f := newForm(t)
	f.LoadProducts([]catalog.Product{
		{Category: "미용재료", Item: "염모제", Price: 15005, VATType: models.VATIncluded},
		{Category: "미용재료", Item: "샴푸", Price: 12000, VATType: models.VATSeparate},
	})

	rows, err := f.AddPicked([]int{1, 0})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "샴푸", rows[0].Item)
	assert.Equal(t, int64(0), *rows[0].VATAmount)
	assert.Equal(t, int64(1501), *rows[1].VATAmount)
	assert.Equal(t, int64(16506), rows[1].GrandTotal)
	assert.Equal(t, "김민지", rows[1].Customer)
	assert.NotEqual(t, rows[0].Key, rows[1].Key)

	_, err = f.AddPicked([]int{7})
	assert.ErrorIs(t, err, intake.ErrProductIndex)
	assert.Equal(t, 2, f.Summary().Rows)
}

// ── Rows ──────────────────────────────────────────────────────────────────────

func TestMoveRow_UsesCurrentView(t *testing.T) {
	f := newForm(t)
	f.LoadProducts([]catalog.Product{
		{Category: "a", Item: "1", Price: 300, VATType: models.VATSeparate},
		{Category: "b", Item: "2", Price: 100, VATType: models.VATSeparate},
		{Category: "c", Item: "3", Price: 200, VATType: models.VATSeparate},
	})
	_, err := f.AddPicked([]int{0, 1, 2})
	require.NoError(t, err)
	require.NoError(t, f.SetQuery(ledger.Query{Sort: &ledger.Sort{Column: "price", Order: ledger.Ascend}}))

	moved, err := f.MoveRow(0, 2)
	require.NoError(t, err)
	assert.True(t, moved)

	snap := f.Snapshot()
	items := []string{snap.TableData[0].Item, snap.TableData[1].Item, snap.TableData[2].Item}
	assert.Equal(t, []string{"2", "1", "3"}, items)

	moved, err = f.MoveRow(1, 1)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestSetQuery_Invalid(t *testing.T) {
	f := newForm(t)
	err := f.SetQuery(ledger.Query{Filters: []ledger.Filter{{Column: "nope", Values: []string{"x"}}}})
	assert.ErrorIs(t, err, ledger.ErrUnknownColumn)
}

func TestEditAndDeleteRow(t *testing.T) {
	f := newForm(t)
	row, err := f.Add()
	require.NoError(t, err)

	price := int64(7000)
	edited, err := f.EditRow(row.Key, ledger.RowPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(7000), edited.GrandTotal)

	bad := models.VATMode("x")
	_, err = f.EditRow(row.Key, ledger.RowPatch{VATType: &bad})
	assert.ErrorIs(t, err, intake.ErrInvalidVATType)

	assert.True(t, f.DeleteRow(row.Key))
	assert.False(t, f.DeleteRow(row.Key))
	_, err = f.EditRow(row.Key, ledger.RowPatch{Price: &price})
	assert.ErrorIs(t, err, ledger.ErrRowNotFound)
}

func TestEditRow_ClampsInputs(t *testing.T) {
	f := newForm(t)
	row, err := f.Add()
	require.NoError(t, err)

	qty, price := -3, int64(-500000000)
	edited, err := f.EditRow(row.Key, ledger.RowPatch{Quantity: &qty, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, intake.MinQuantity, edited.Quantity)
	assert.Equal(t, int64(intake.MinPrice), *edited.Price)

	qty, price = 5000, 500
	edited, err = f.EditRow(row.Key, ledger.RowPatch{Quantity: &qty, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, intake.MaxQuantity, edited.Quantity)
	assert.Equal(t, int64(intake.MaxQuantity*500), edited.LineTotal)
}

func TestRestore_ClampsStoredLines(t *testing.T) {
	f := newForm(t)
	row := models.LedgerRow{Key: "r1"}
	row.Quantity = 5000
	row.Price = models.Int64Ptr(-500000000)
	row.VATType = models.VATSeparate

	f.Restore(models.LocalSnapshot{
		ConsultFormData: models.ConsultLine{Quantity: -2, VATType: models.VATSeparate},
		TableData:       []models.LedgerRow{row},
	})

	snap := f.Snapshot()
	assert.Equal(t, intake.MinQuantity, snap.ConsultFormData.Quantity)
	require.Len(t, snap.TableData, 1)
	assert.Equal(t, intake.MaxQuantity, snap.TableData[0].Quantity)
	assert.Equal(t, int64(intake.MinPrice), *snap.TableData[0].Price)
}

// ── Save / load commands ──────────────────────────────────────────────────────

func TestRequestSaveThenLoad_ReplacesStateWholesale(t *testing.T) {
	store := newMemSnapshots()
	f := newForm(t)
	_, err := f.SetConsult(intake.ConsultInput{Quantity: 2, Price: models.Int64Ptr(1000)})
	require.NoError(t, err)
	_, err = f.Add()
	require.NoError(t, err)
	require.NoError(t, f.RequestSave(context.Background(), store))
	saved := f.Snapshot()

	f.Reset()
	assert.Equal(t, 0, f.Summary().Rows)

	loaded, err := f.RequestLoad(context.Background(), store)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, saved, f.Snapshot())
}

func TestRequestLoad_NothingSaved(t *testing.T) {
	f := newForm(t)
	before := f.Snapshot()

	loaded, err := f.RequestLoad(context.Background(), newMemSnapshots())
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, before, f.Snapshot())
}

func TestRequestSave_StoreFailure(t *testing.T) {
	store := newMemSnapshots()
	store.err = errors.New("disk full")

	err := newForm(t).RequestSave(context.Background(), store)
	assert.ErrorContains(t, err, "disk full")
}

func TestHistoryDraft_IsDetachedCopy(t *testing.T) {
	f := newForm(t)
	_, err := f.Add()
	require.NoError(t, err)

	draft := f.HistoryDraft()
	_, err = f.SetCustomer(models.CustomerSnapshot{Salon: "x", Customer: "y"})
	require.NoError(t, err)
	f.Reset()

	assert.Equal(t, "김민지", draft.Customer.Data().Customer)
	require.Len(t, draft.Rows, 1)
	assert.Equal(t, "라온헤어", draft.Rows[0].Salon)
}

func TestRegistry_OneFormPerOwner(t *testing.T) {
	r := intake.NewRegistry(catalog.Default())

	a := r.Form("a")
	assert.Same(t, a, r.Form("a"))
	assert.NotSame(t, a, r.Form("b"))

	r.Drop("a")
	assert.NotSame(t, a, r.Form("a"))
}
