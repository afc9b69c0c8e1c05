// Package catalog holds the static category → item → product lookup used to
// populate the intake form's selectors.
package catalog

import "slices"

type Item struct {
	Name     string   `json:"name"`
	Products []string `json:"products"`
}

type Entry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Color string `json:"color"`
	Items []Item `json:"items"`
}

// Catalog is immutable after construction and safe for concurrent reads.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries: make([]Entry, len(entries)),
		index:   make(map[string]int, len(entries)*2),
	}
	for i, e := range entries {
		c.entries[i] = cloneEntry(e)
		c.index[e.Code] = i
		c.index[e.Label] = i
	}
	return c
}

// Default returns the built-in beauty supply catalog.
func Default() *Catalog {
	return New([]Entry{
		{
			Code: "equipment", Label: "미용기자재", Color: "geekblue",
			Items: []Item{
				{Name: "의자", Products: []string{"프리미엄 의자", "스탠다드 의자"}},
				{Name: "샴푸대", Products: []string{"자동 샴푸대", "수동 샴푸대"}},
				{Name: "디지털기계", Products: []string{"디지털펌기", "스팀기"}},
				{Name: "열기계", Products: []string{"열처리기", "건조기"}},
				{Name: "셋팅기계", Products: []string{"셋팅펌기", "롤셋기"}},
				{Name: "미스트기", Products: []string{"미스트기"}},
				{Name: "츄레이", Products: []string{"츄레이"}},
				{Name: "고데기", Products: []string{"고데기"}},
				{Name: "아이롱기", Products: []string{"아이롱기"}},
				{Name: "드라이기", Products: []string{"드라이기"}},
			},
		},
		{
			Code: "material", Label: "미용재료", Color: "green",
			Items: []Item{
				{Name: "염모제", Products: []string{"염색약A", "염색약B"}},
				{Name: "펌제", Products: []string{"펌제A", "펌제B"}},
				{Name: "클리닉제", Products: []string{"클리닉제A", "클리닉제B"}},
				{Name: "샴푸", Products: []string{"샴푸A", "샴푸B"}},
				{Name: "트리트먼트", Products: []string{"트리트먼트A", "트리트먼트B"}},
				{Name: "헤어 마스크팩", Products: []string{"마스크팩A", "마스크팩B"}},
				{Name: "비품", Products: []string{"비품A", "비품B", "비품C"}},
			},
		},
		{
			Code: "interior", Label: "인테리어", Color: "orange",
			Items: []Item{
				{Name: "인테리어 상담", Products: []string{"전체 인테리어", "부분 인테리어"}},
				{Name: "가구", Products: []string{"의자", "테이블"}},
				{Name: "조명", Products: []string{"LED 조명", "무드등"}},
				{Name: "기타", Products: []string{"기타"}},
			},
		},
		{
			Code: "education", Label: "교육", Color: "purple",
			Items: []Item{
				{Name: "커트교육", Products: []string{"기본 커트", "고급 커트"}},
				{Name: "펌교육", Products: []string{"기본 펌", "고급 펌"}},
				{Name: "컬러교육", Products: []string{"기본 컬러", "고급 컬러"}},
				{Name: "살롱 경영세미나", Products: []string{"경영 세미나"}},
			},
		},
	})
}

func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

// Categories lists the display labels in catalog order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Label
	}
	return out
}

func (c *Catalog) lookup(category string) (Entry, bool) {
	if category == "" {
		return Entry{}, false
	}
	i, ok := c.index[category]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// ItemsFor resolves category by code or label. Unknown or empty categories
// yield an empty list.
func (c *Catalog) ItemsFor(category string) []Item {
	e, ok := c.lookup(category)
	if !ok {
		return []Item{}
	}
	return cloneEntry(e).Items
}

func (c *Catalog) ItemNames(category string) []string {
	items := c.ItemsFor(category)
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func (c *Catalog) ProductsFor(category, item string) []string {
	e, ok := c.lookup(category)
	if !ok || item == "" {
		return []string{}
	}
	for _, it := range e.Items {
		if it.Name == item {
			return slices.Clone(it.Products)
		}
	}
	return []string{}
}

func (c *Catalog) Label(category string) string {
	if e, ok := c.lookup(category); ok {
		return e.Label
	}
	return category
}

// Color returns the display tag color, "default" for unknown categories.
func (c *Catalog) Color(category string) string {
	if e, ok := c.lookup(category); ok {
		return e.Color
	}
	return "default"
}

func cloneEntry(e Entry) Entry {
	out := e
	out.Items = make([]Item, len(e.Items))
	for i, it := range e.Items {
		out.Items[i] = Item{Name: it.Name, Products: slices.Clone(it.Products)}
	}
	return out
}
