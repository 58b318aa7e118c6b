// Package memory is an in-process expense store with the same observable
// behaviour as the HTTP store. It backs demo mode and controller tests.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"spesechart/internal/core"
	"spesechart/internal/store"
)

// DateLayout matches the display format produced by the remote store.
const DateLayout = core.DateLayout

type Store struct {
	mu    sync.Mutex
	items []core.Expense
	now   func() time.Time
	newID func() string

	// Hooks for simulating store failures.
	RejectCreate error
	FailDelete   error
	FailList     error
}

var _ store.Store = (*Store)(nil)

func New(seed ...core.Expense) *Store {
	return &Store{
		items: append([]core.Expense(nil), seed...),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// NewFromFile seeds the store from lines of "title;amount;category".
// Missing files yield an empty store.
func NewFromFile(path string) (*Store, error) {
	s := New()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parts := strings.Split(text, ";")
		if len(parts) != 3 {
			return nil, fmt.Errorf("seed line %d: expected title;amount;category", line)
		}
		if _, err := s.Create(context.Background(), core.Draft{Title: parts[0], Amount: parts[1], Category: parts[2]}); err != nil {
			return nil, fmt.Errorf("seed line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return s, nil
}

// Create assigns id and date, mirroring the remote store.
func (s *Store) Create(_ context.Context, d core.Draft) (core.Expense, error) {
	if err := d.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: %v", store.ErrCreateRejected, err)
	}
	d = d.Normalize()
	amount, err := core.ParseAmount(d.Amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: invalid amount %q", store.ErrCreateRejected, d.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RejectCreate != nil {
		return core.Expense{}, fmt.Errorf("%w: %v", store.ErrCreateRejected, s.RejectCreate)
	}
	e := core.Expense{
		ID:       s.newID(),
		Title:    d.Title,
		Amount:   amount,
		Category: d.Category,
		Date:     s.now().Format(DateLayout),
	}
	s.items = append(s.items, e)
	return e, nil
}

// Delete removes the record. Unknown ids are not an error.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete != nil {
		return s.FailDelete
	}
	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// List returns a copy of every record in insertion order.
func (s *Store) List(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailList != nil {
		return nil, s.FailList
	}
	return append([]core.Expense(nil), s.items...), nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
