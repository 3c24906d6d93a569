package seed

import (
	"context"
	"errors"
	"testing"

	"canteen-ordering/internal/domain"
)

type recordingWriter struct {
	byID   map[string]domain.MenuItem
	failOn string
}

func (w *recordingWriter) Upsert(_ context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	if item.ID == w.failOn {
		return nil, errors.New("boom")
	}
	if w.byID == nil {
		w.byID = make(map[string]domain.MenuItem)
	}
	w.byID[item.ID] = item
	return &item, nil
}

func TestApply_Idempotent(t *testing.T) {
	w := &recordingWriter{}
	for i := 0; i < 2; i++ {
		n, err := Apply(context.Background(), w, nil)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if n != len(DefaultMenu()) {
			t.Fatalf("expected %d items, got %d", len(DefaultMenu()), n)
		}
	}
	if len(w.byID) != len(DefaultMenu()) {
		t.Fatalf("expected %d distinct items, got %d", len(DefaultMenu()), len(w.byID))
	}
}

func TestDefaultMenu_CoversEveryCategory(t *testing.T) {
	cats := map[string]bool{}
	for _, item := range DefaultMenu() {
		if item.Price.IsNegative() || !item.Available {
			t.Fatalf("unexpected seed item %+v", item)
		}
		cats[item.Category] = true
	}
	for _, c := range []string{"Breakfast", "Lunch", "Snacks", "Drinks"} {
		if !cats[c] {
			t.Fatalf("missing category %s", c)
		}
	}
}

func TestApply_StopsOnError(t *testing.T) {
	w := &recordingWriter{failOn: "samosa"}
	if _, err := Apply(context.Background(), w, nil); err == nil {
		t.Fatalf("expected error")
	}
}
