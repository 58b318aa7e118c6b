package store

import (
	"context"
	"errors"

	"spesechart/internal/core"
)

// ErrCreateRejected is returned when the store answers a create request
// without a success status.
var ErrCreateRejected = errors.New("store rejected expense")

// Ports for the remote expense store.
type (
	ExpenseCreator interface {
		// Create submits a draft; the store assigns id and date.
		Create(ctx context.Context, d core.Draft) (core.Expense, error)
	}

	ExpenseDeleter interface {
		Delete(ctx context.Context, id string) error
	}

	// ExpenseLister returns every record the store currently holds.
	ExpenseLister interface {
		List(ctx context.Context) ([]core.Expense, error)
	}

	Store interface {
		ExpenseCreator
		ExpenseDeleter
		ExpenseLister
	}
)
