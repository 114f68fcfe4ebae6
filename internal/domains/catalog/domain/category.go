package domain

import (
	"errors"
	"strings"
)

var ErrEmptyDenomination = errors.New("category denomination is required")

// Category groups instruments (guitars, percussion, ...).
type Category struct {
	ID           int64
	Denomination string
}

// NewCategory builds a category ensuring a non-empty denomination.
func NewCategory(id int64, denomination string) (*Category, error) {
	c := &Category{ID: id, Denomination: denomination}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate trims and checks the denomination.
func (c *Category) Validate() error {
	c.Denomination = strings.TrimSpace(c.Denomination)
	if c.Denomination == "" {
		return ErrEmptyDenomination
	}
	return nil
}
