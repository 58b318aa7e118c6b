package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	// Expense is a record owned by the remote store. ID and Date are assigned
	// by the store and are only ever echoed back by the client.
	Expense struct {
		ID       string          `json:"id"`
		Title    string          `json:"title"`
		Amount   decimal.Decimal `json:"amount"`
		Category string          `json:"category"`
		Date     string          `json:"date"`
	}

	// Draft holds the raw form fields as read at click time.
	Draft struct {
		Title    string
		Amount   string
		Category string
	}
)

var (
	ErrEmptyTitle    = errors.New("empty title")
	ErrEmptyAmount   = errors.New("empty amount")
	ErrEmptyCategory = errors.New("empty category")
)

// Normalize returns a copy of the draft with surrounding whitespace removed.
func (d Draft) Normalize() Draft {
	return Draft{
		Title:    strings.TrimSpace(d.Title),
		Amount:   strings.TrimSpace(d.Amount),
		Category: strings.TrimSpace(d.Category),
	}
}

// Validate only checks presence. Amount is forwarded to the store as typed.
func (d Draft) Validate() error {
	n := d.Normalize()
	if n.Title == "" {
		return ErrEmptyTitle
	}
	if n.Amount == "" {
		return ErrEmptyAmount
	}
	if n.Category == "" {
		return ErrEmptyCategory
	}
	return nil
}

// IsEmpty reports whether all three fields are blank.
func (d Draft) IsEmpty() bool {
	n := d.Normalize()
	return n.Title == "" && n.Amount == "" && n.Category == ""
}
