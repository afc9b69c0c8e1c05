// Package intake holds the live consultation form of each user: customer
// snapshot, draft line, selector state, ledger and view state. Every command
// from the UI or the desktop shell goes through a Form method.
package intake

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"beautyconsult-backend/catalog"
	"beautyconsult-backend/ledger"
	"beautyconsult-backend/models"
	"beautyconsult-backend/utils"
)

const (
	MinQuantity = 1
	MaxQuantity = 999
	MinPrice    = -99999999
)

var (
	ErrCustomerIncomplete = errors.New("salon and customer name are required")
	ErrInvalidVATType     = errors.New("vat type must be 포함 or 별도")
	ErrInvalidInstallHope = errors.New("invalid install hope type")
	ErrProductIndex       = errors.New("product index out of range")
)

// SnapshotStore persists the local save/load blob of one owner. Load returns
// nil, nil when nothing has been saved.
type SnapshotStore interface {
	Save(ctx context.Context, owner string, snap models.LocalSnapshot) error
	Load(ctx context.Context, owner string) (*models.LocalSnapshot, error)
}

// ConsultInput is the editable part of the draft line. Category, item and
// product are driven by the selector.
type ConsultInput struct {
	Quantity  int            `json:"quantity"`
	Price     *int64         `json:"price"`
	VATType   models.VATMode `json:"vatType"`
	VATAmount *int64         `json:"vatAmount"`
	Note      string         `json:"note"`
}

type RowView struct {
	models.LedgerRow
	Negative      bool   `json:"negative"`
	CategoryColor string `json:"categoryColor"`
}

type State struct {
	Customer    models.CustomerSnapshot `json:"customerFormData"`
	InstallHope string                  `json:"installHopeSummary"`
	Consult     models.ConsultLine      `json:"consultFormData"`
	Selection   catalog.Selection       `json:"selection"`
	Options     catalog.Options         `json:"options"`
	Totals      ledger.Totals           `json:"totals"`
	VATOptions  []int64                 `json:"vatOptions"`
	CanAdd      bool                    `json:"canAdd"`
	Query       ledger.Query            `json:"query"`
	Rows        []RowView               `json:"rows"`
	Summary     ledger.Summary          `json:"summary"`
	Products    int                     `json:"productsLoaded"`
}

type Form struct {
	mu sync.Mutex

	owner     string
	catalog   *catalog.Catalog
	customer  models.CustomerSnapshot
	consult   models.ConsultLine
	selection catalog.Selection
	ledger    *ledger.Ledger
	query     ledger.Query
	products  []catalog.Product
}

func NewForm(owner string, c *catalog.Catalog) *Form {
	return &Form{
		owner:     owner,
		catalog:   c,
		customer:  models.NewCustomerSnapshot(),
		consult:   models.NewConsultLine(),
		selection: catalog.NewSelection(),
		ledger:    ledger.New(),
	}
}

func (f *Form) Owner() string {
	return f.owner
}

// ── State ─────────────────────────────────────────────────────────────────────

func (f *Form) State() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rows, err := f.viewLocked()
	if err != nil {
		return State{}, err
	}
	totals := f.totalsLocked()
	return State{
		Customer:    f.customer.Clone(),
		InstallHope: f.customer.InstallHopeSummary(),
		Consult:     f.consult.Clone(),
		Selection:   f.selection,
		Options:     f.catalog.OptionsFor(f.selection),
		Totals:      totals,
		VATOptions:  ledger.VATOptions(totals.LineTotal),
		CanAdd:      f.canAddLocked(),
		Query:       f.query,
		Rows:        rows,
		Summary:     f.ledger.Summary(),
		Products:    len(f.products),
	}, nil
}

// ── Customer ──────────────────────────────────────────────────────────────────

// SetCustomer replaces the customer snapshot. The phone is normalised and
// only the active install-hope representation is kept.
func (f *Form) SetCustomer(c models.CustomerSnapshot) (models.CustomerSnapshot, error) {
	if c.InstallHopeType == "" {
		c.InstallHopeType = models.InstallHopeSingle
	}
	if !c.InstallHopeType.Valid() {
		return models.CustomerSnapshot{}, fmt.Errorf("%w: %q", ErrInvalidInstallHope, c.InstallHopeType)
	}
	c = c.Clone()
	c.Phone = utils.FormatPhone(c.Phone)
	c.InstallHopeMultiple = dedupeDays(c.InstallHopeMultiple)
	clearInactiveInstallHope(&c)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.customer = c
	return f.customer.Clone(), nil
}

func (f *Form) SetInstallHopeType(t models.InstallHopeType) (models.CustomerSnapshot, error) {
	if !t.Valid() {
		return models.CustomerSnapshot{}, fmt.Errorf("%w: %q", ErrInvalidInstallHope, t)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customer.InstallHopeType = t
	clearInactiveInstallHope(&f.customer)
	return f.customer.Clone(), nil
}

// AddInstallDate adds d to the multiple-date set unless the same calendar day
// is already present.
func (f *Form) AddInstallDate(d time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.customer.InstallHopeMultiple {
		if utils.SameDay(existing, d) {
			return false
		}
	}
	f.customer.InstallHopeMultiple = append(f.customer.InstallHopeMultiple, d)
	return true
}

func (f *Form) RemoveInstallDate(d time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.customer.InstallHopeMultiple[:0:0]
	for _, existing := range f.customer.InstallHopeMultiple {
		if !utils.SameDay(existing, d) {
			kept = append(kept, existing)
		}
	}
	removed := len(kept) != len(f.customer.InstallHopeMultiple)
	f.customer.InstallHopeMultiple = kept
	return removed
}

func clearInactiveInstallHope(c *models.CustomerSnapshot) {
	switch c.InstallHopeType {
	case models.InstallHopeSingle:
		c.InstallHopeRange = nil
		c.InstallHopeMultiple = []time.Time{}
	case models.InstallHopeRange:
		c.InstallHope = nil
		c.InstallHopeMultiple = []time.Time{}
	case models.InstallHopeMultiple:
		c.InstallHope = nil
		c.InstallHopeRange = nil
		if c.InstallHopeMultiple == nil {
			c.InstallHopeMultiple = []time.Time{}
		}
	}
}

func dedupeDays(days []time.Time) []time.Time {
	if days == nil {
		return nil
	}
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		dup := false
		for _, seen := range out {
			if utils.SameDay(seen, d) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, d)
		}
	}
	return out
}

// ── Draft line ────────────────────────────────────────────────────────────────

// SetConsult applies the input controls' clamps: quantity to [1, 999] and
// price to at least MinPrice.
func (f *Form) SetConsult(in ConsultInput) (models.ConsultLine, error) {
	if in.VATType == "" {
		in.VATType = models.VATSeparate
	}
	if !in.VATType.Valid() {
		return models.ConsultLine{}, ErrInvalidVATType
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consult.Quantity = clampQuantity(in.Quantity)
	f.consult.Price = nil
	if in.Price != nil {
		f.consult.Price = models.Int64Ptr(clampPrice(*in.Price))
	}
	f.consult.VATType = in.VATType
	f.consult.VATAmount = nil
	if in.VATAmount != nil {
		f.consult.VATAmount = models.Int64Ptr(*in.VATAmount)
	}
	f.consult.Note = in.Note
	return f.consult.Clone(), nil
}

func clampQuantity(q int) int {
	return min(max(q, MinQuantity), MaxQuantity)
}

func clampPrice(p int64) int64 {
	return max(p, MinPrice)
}

// clampLine holds a stored line to the same limits as the draft inputs.
func clampLine(l *models.ConsultLine) {
	l.Quantity = clampQuantity(l.Quantity)
	if l.Price != nil {
		l.Price = models.Int64Ptr(clampPrice(*l.Price))
	}
}

type SelectAction string

const (
	ActionChoose   SelectAction = "choose"
	ActionFreeText SelectAction = "freeText"
	ActionType     SelectAction = "type"
	ActionCommit   SelectAction = "commit"
	ActionClear    SelectAction = "clear"
)

var ErrUnknownAction = errors.New("unknown selector action")

func (f *Form) Select(level catalog.Level, action SelectAction, value string) (catalog.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	switch action {
	case ActionChoose:
		err = f.selection.Choose(level, value)
	case ActionFreeText:
		err = f.selection.BeginFreeText(level)
	case ActionType:
		err = f.selection.Type(level, value)
	case ActionCommit:
		err = f.selection.Commit(level)
	case ActionClear:
		err = f.selection.Clear(level)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if err != nil {
		return catalog.Selection{}, err
	}
	f.consult.Category = f.catalog.Label(f.selection.Category)
	f.consult.Item = f.selection.Item
	f.consult.Product = f.selection.Product
	return f.selection, nil
}

func (f *Form) Totals() ledger.Totals {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalsLocked()
}

func (f *Form) totalsLocked() ledger.Totals {
	return ledger.Compute(f.consult.Quantity, f.consult.Price, f.consult.VATAmount)
}

func (f *Form) CanAdd() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canAddLocked()
}

func (f *Form) canAddLocked() bool {
	return f.customer.Salon != "" && f.customer.Customer != ""
}

// Add appends the draft line with a copy of the customer snapshot and resets
// the draft and selector. The customer snapshot is kept.
func (f *Form) Add() (models.LedgerRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.canAddLocked() {
		return models.LedgerRow{}, ErrCustomerIncomplete
	}
	row := f.ledger.Append(models.LedgerRow{
		CustomerSnapshot: f.customer.Clone(),
		ConsultLine:      f.consult.Clone(),
	})
	f.consult = models.NewConsultLine()
	f.selection = catalog.NewSelection()
	return row, nil
}

// ── Product picker ────────────────────────────────────────────────────────────

func (f *Form) LoadProducts(products []catalog.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = append([]catalog.Product(nil), products...)
}

func (f *Form) SearchProducts(q string) []catalog.ProductMatch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return catalog.SearchProducts(f.products, q)
}

// AddPicked appends one row per picked product, in the given order.
func (f *Form) AddPicked(indices []int) ([]models.LedgerRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rows := make([]models.LedgerRow, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(f.products) {
			return nil, fmt.Errorf("%w: %d", ErrProductIndex, i)
		}
		p := f.products[i]
		var vat int64
		if p.VATType == models.VATIncluded {
			vat = ledger.VATPreview(p.Price)
		}
		rows = append(rows, models.LedgerRow{
			CustomerSnapshot: f.customer.Clone(),
			ConsultLine: models.ConsultLine{
				Category:  f.catalog.Label(p.Category),
				Item:      p.Item,
				Quantity:  1,
				Price:     models.Int64Ptr(p.Price),
				VATType:   p.VATType,
				VATAmount: models.Int64Ptr(vat),
			},
		})
	}
	return f.ledger.BulkAppend(rows), nil
}

// ── Rows ──────────────────────────────────────────────────────────────────────

func (f *Form) EditRow(key string, patch ledger.RowPatch) (models.LedgerRow, error) {
	if patch.VATType != nil && !patch.VATType.Valid() {
		return models.LedgerRow{}, ErrInvalidVATType
	}
	if patch.Quantity != nil {
		q := clampQuantity(*patch.Quantity)
		patch.Quantity = &q
	}
	if patch.Price != nil {
		patch.Price = models.Int64Ptr(clampPrice(*patch.Price))
	}
	if patch.Category != nil {
		category := f.catalog.Label(*patch.Category)
		patch.Category = &category
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.Edit(key, patch)
}

func (f *Form) DeleteRow(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.Remove(key)
}

// MoveRow swaps the rows at two positions of the current view.
func (f *Form) MoveRow(from, to int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	view, err := f.ledger.View(f.query)
	if err != nil {
		return false, err
	}
	return f.ledger.Reorder(view, from, to), nil
}

func (f *Form) SetQuery(q ledger.Query) error {
	if err := q.Validate(); err != nil {
		return err
	}
	filters := make([]ledger.Filter, len(q.Filters))
	for i, flt := range q.Filters {
		flt.Values = slices.Clone(flt.Values)
		if flt.Column == "category" {
			for j, v := range flt.Values {
				flt.Values[j] = f.catalog.Label(v)
			}
		}
		filters[i] = flt
	}
	q.Filters = filters

	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = q
	return nil
}

func (f *Form) View() ([]RowView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

func (f *Form) viewLocked() ([]RowView, error) {
	rows, err := f.ledger.View(f.query)
	if err != nil {
		return nil, err
	}
	out := make([]RowView, len(rows))
	for i, r := range rows {
		out[i] = RowView{LedgerRow: r, Negative: r.Negative(), CategoryColor: f.catalog.Color(r.Category)}
	}
	return out, nil
}

func (f *Form) Summary() ledger.Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.Summary()
}

// Reset starts a new consultation: customer, draft, ledger and view state.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customer = models.NewCustomerSnapshot()
	f.consult = models.NewConsultLine()
	f.selection = catalog.NewSelection()
	f.ledger.Reset()
	f.query = ledger.Query{}
}

// ── Snapshots ─────────────────────────────────────────────────────────────────

// Snapshot captures customer, draft and ledger as independent copies.
func (f *Form) Snapshot() models.LocalSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.LocalSnapshot{
		CustomerFormData: f.customer.Clone(),
		ConsultFormData:  f.consult.Clone(),
		TableData:        f.ledger.Rows(),
	}
}

// Restore replaces all three pieces of state wholesale.
func (f *Form) Restore(snap models.LocalSnapshot) {
	customer := snap.CustomerFormData.Clone()
	if !customer.InstallHopeType.Valid() {
		customer.InstallHopeType = models.InstallHopeSingle
	}
	consult := snap.ConsultFormData.Clone()
	clampLine(&consult)
	consult.Category = f.catalog.Label(consult.Category)
	if !consult.VATType.Valid() {
		consult.VATType = models.VATSeparate
	}
	rows := make([]models.LedgerRow, len(snap.TableData))
	for i, r := range snap.TableData {
		r = r.Clone()
		clampLine(&r.ConsultLine)
		r.Category = f.catalog.Label(r.Category)
		rows[i] = r
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.customer = customer
	f.consult = consult
	f.selection = catalog.NewSelection()
	f.selection.Category = consult.Category
	f.selection.Item = consult.Item
	f.selection.Product = consult.Product
	f.ledger.Replace(rows)
}

// RequestSave handles the shell's "request save" command.
func (f *Form) RequestSave(ctx context.Context, store SnapshotStore) error {
	snap := f.Snapshot()
	if err := store.Save(ctx, f.owner, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// RequestLoad handles the shell's "request load" command. It reports false
// when there is no saved state; the form is left untouched in that case.
func (f *Form) RequestLoad(ctx context.Context, store SnapshotStore) (bool, error) {
	snap, err := store.Load(ctx, f.owner)
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return false, nil
	}
	f.Restore(*snap)
	return true, nil
}

// HistoryDraft captures the record to archive. The copy is taken before any
// remote write begins so later edits cannot leak into it.
func (f *Form) HistoryDraft() models.HistoryRecord {
	snap := f.Snapshot()
	return models.NewHistoryRecord(snap.CustomerFormData, snap.ConsultFormData, snap.TableData)
}
