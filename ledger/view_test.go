package ledger_test

import (
	"testing"

	"beautyconsult-backend/ledger"
	"beautyconsult-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewLedger() *ledger.Ledger {
	l := ledger.New()
	a := row("프리미엄 의자", 1, 300000, models.VATIncluded)
	a.Category, a.Item, a.Note = "미용기자재", "의자", "매장 방문 예정"
	b := row("샴푸A", 4, 12000, models.VATSeparate)
	c := row("LED 조명", 2, 45000, models.VATSeparate)
	c.Category, c.Item = "인테리어", "조명"
	d := row("할인", 1, -20000, models.VATSeparate)
	d.Note = "재방문 할인"
	l.BulkAppend([]models.LedgerRow{a, b, c, d})
	return l
}

func TestView_NoQueryPreservesOrder(t *testing.T) {
	l := viewLedger()
	view, err := l.View(ledger.Query{})
	require.NoError(t, err)

	assert.Equal(t, products(l.Rows()), products(view))
}

func TestView_FiltersAreANDed(t *testing.T) {
	l := viewLedger()
	q := ledger.Query{Filters: []ledger.Filter{
		{Column: "vatType", Values: []string{"별도"}},
		{Column: "note", Values: []string{"할인"}},
	}}

	view, err := l.View(q)
	require.NoError(t, err)
	assert.Equal(t, []string{"할인"}, products(view))
}

func TestView_CategoricalMatchesAnyValue(t *testing.T) {
	view, err := viewLedger().View(ledger.Query{Filters: []ledger.Filter{
		{Column: "category", Values: []string{"미용기자재", "인테리어"}},
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"프리미엄 의자", "LED 조명"}, products(view))
}

func TestView_TextIsCaseInsensitiveSubstring(t *testing.T) {
	view, err := viewLedger().View(ledger.Query{Filters: []ledger.Filter{
		{Column: "product", Values: []string{"led"}},
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"LED 조명"}, products(view))
}

func TestView_NumericEquality(t *testing.T) {
	view, err := viewLedger().View(ledger.Query{Filters: []ledger.Filter{
		{Column: "total", Values: []string{"48000", "90000"}},
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"샴푸A", "LED 조명"}, products(view))
}

func TestView_SortStableAndDescending(t *testing.T) {
	l := viewLedger()
	before := l.Rows()

	asc, err := l.View(ledger.Query{Sort: &ledger.Sort{Column: "grandTotal", Order: ledger.Ascend}})
	require.NoError(t, err)
	assert.Equal(t, []string{"할인", "샴푸A", "LED 조명", "프리미엄 의자"}, products(asc))

	desc, err := l.View(ledger.Query{Sort: &ledger.Sort{Column: "vatType", Order: ledger.Descend}})
	require.NoError(t, err)
	assert.Equal(t, "프리미엄 의자", desc[0].Product)
	assert.Equal(t, []string{"샴푸A", "LED 조명", "할인"}, products(desc[1:]))

	assert.Equal(t, before, l.Rows(), "view must not reorder the ledger")
}

func TestView_InvalidQuery(t *testing.T) {
	l := viewLedger()

	_, err := l.View(ledger.Query{Filters: []ledger.Filter{{Column: "color", Values: []string{"x"}}}})
	assert.ErrorIs(t, err, ledger.ErrUnknownColumn)

	_, err = l.View(ledger.Query{Filters: []ledger.Filter{{Column: "price", Values: []string{"abc"}}}})
	assert.ErrorIs(t, err, ledger.ErrInvalidFilter)

	_, err = l.View(ledger.Query{Sort: &ledger.Sort{Column: "price", Order: "sideways"}})
	assert.ErrorIs(t, err, ledger.ErrInvalidFilter)
}
