package catalog

import (
	"errors"
	"fmt"
)

// CustomOption is the list entry that switches a level to free text.
const CustomOption = "__custom__"

type Level string

const (
	LevelCategory Level = "category"
	LevelItem     Level = "item"
	LevelProduct  Level = "product"
)

func (l Level) index() (int, error) {
	switch l {
	case LevelCategory:
		return 0, nil
	case LevelItem:
		return 1, nil
	case LevelProduct:
		return 2, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, string(l))
}

type Mode string

const (
	ModeList     Mode = "list"
	ModeFreeText Mode = "freeText"
)

var ErrUnknownLevel = errors.New("unknown selector level")

// Selection is the state of the three cascading selectors. Levels are
// independent: choosing a category does not clear item or product.
type Selection struct {
	Category string    `json:"category"`
	Item     string    `json:"item"`
	Product  string    `json:"product"`
	Modes    [3]Mode   `json:"modes"`
	Drafts   [3]string `json:"drafts"`
}

func NewSelection() Selection {
	return Selection{Modes: [3]Mode{ModeList, ModeList, ModeList}}
}

func (s *Selection) field(i int) *string {
	switch i {
	case 0:
		return &s.Category
	case 1:
		return &s.Item
	default:
		return &s.Product
	}
}

func (s Selection) Value(level Level) string {
	i, err := level.index()
	if err != nil {
		return ""
	}
	return *s.field(i)
}

func (s Selection) ModeOf(level Level) Mode {
	i, err := level.index()
	if err != nil || s.Modes[i] == "" {
		return ModeList
	}
	return s.Modes[i]
}

// Choose commits a list value. Choosing CustomOption enters free text mode.
func (s *Selection) Choose(level Level, value string) error {
	if value == CustomOption {
		return s.BeginFreeText(level)
	}
	i, err := level.index()
	if err != nil {
		return err
	}
	*s.field(i) = value
	s.Modes[i] = ModeList
	s.Drafts[i] = ""
	return nil
}

// BeginFreeText clears the committed value until Commit.
func (s *Selection) BeginFreeText(level Level) error {
	i, err := level.index()
	if err != nil {
		return err
	}
	*s.field(i) = ""
	s.Modes[i] = ModeFreeText
	s.Drafts[i] = ""
	return nil
}

// Type updates the uncommitted free text. It is ignored in list mode.
func (s *Selection) Type(level Level, text string) error {
	i, err := level.index()
	if err != nil {
		return err
	}
	if s.Modes[i] != ModeFreeText {
		return nil
	}
	s.Drafts[i] = text
	return nil
}

// Commit is the blur of the free text input: the draft becomes the value and
// the level returns to list mode.
func (s *Selection) Commit(level Level) error {
	i, err := level.index()
	if err != nil {
		return err
	}
	if s.Modes[i] != ModeFreeText {
		return nil
	}
	*s.field(i) = s.Drafts[i]
	s.Modes[i] = ModeList
	s.Drafts[i] = ""
	return nil
}

func (s *Selection) Clear(level Level) error {
	i, err := level.index()
	if err != nil {
		return err
	}
	*s.field(i) = ""
	s.Drafts[i] = ""
	s.Modes[i] = ModeList
	return nil
}

// Options are the choices offered for the current selection.
type Options struct {
	Categories []string `json:"categories"`
	Items      []string `json:"items"`
	Products   []string `json:"products"`
}

func (c *Catalog) OptionsFor(s Selection) Options {
	return Options{
		Categories: c.Categories(),
		Items:      c.ItemNames(s.Category),
		Products:   c.ProductsFor(s.Category, s.Item),
	}
}
