package core

import (
	"errors"
	"testing"
)

func TestDraftValidate(t *testing.T) {
	cases := []struct {
		d   Draft
		err error
	}{
		{Draft{Title: "Coffee", Amount: "3.5", Category: "Food"}, nil},
		{Draft{Title: "  Coffee ", Amount: " 3.5", Category: "Food  "}, nil},
		{Draft{Title: "", Amount: "3.5", Category: "Food"}, ErrEmptyTitle},
		{Draft{Title: "   ", Amount: "3.5", Category: "Food"}, ErrEmptyTitle},
		{Draft{Title: "Coffee", Amount: "\t", Category: "Food"}, ErrEmptyAmount},
		{Draft{Title: "Coffee", Amount: "3.5", Category: " \n"}, ErrEmptyCategory},
		{Draft{}, ErrEmptyTitle},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if !errors.Is(err, tc.err) {
			t.Fatalf("case %d expected %v, got %v", i, tc.err, err)
		}
	}
}

func TestDraftNormalize(t *testing.T) {
	got := Draft{Title: " a ", Amount: " 1 ", Category: " c "}.Normalize()
	want := Draft{Title: "a", Amount: "1", Category: "c"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestDraftIsEmpty(t *testing.T) {
	if !(Draft{Title: " ", Amount: "", Category: "\t"}).IsEmpty() {
		t.Fatalf("expected blank draft to be empty")
	}
	if (Draft{Amount: "1"}).IsEmpty() {
		t.Fatalf("expected draft with amount to be non-empty")
	}
}
