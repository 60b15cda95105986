package storage

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/eugenenazirov/label-quantity/internal/quantity"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestEngine() *quantity.Engine {
	n := 0
	return quantity.New(
		quantity.WithItemCount(3),
		quantity.WithSource(quantity.NewSource(7)),
		quantity.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func TestUpdateAdvancesUpdatedAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStorage(newTestEngine(), WithClock(func() time.Time { return now }))
	if !store.UpdatedAt().Equal(now) {
		t.Fatalf("expected initial updatedAt %s, got %s", now, store.UpdatedAt())
	}

	now = now.Add(time.Minute)
	err := store.Update(func(e *quantity.Engine) error {
		return e.SetMode(quantity.ModeFixed)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.UpdatedAt().Equal(now) {
		t.Fatalf("expected updatedAt %s, got %s", now, store.UpdatedAt())
	}

	var mode quantity.Mode
	_ = store.View(func(e *quantity.Engine) error {
		mode = e.Mode()
		return nil
	})
	if mode != quantity.ModeFixed {
		t.Fatalf("expected fixed mode, got %s", mode)
	}
}

func TestFailedUpdateKeepsTimestamp(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStorage(newTestEngine(), WithClock(func() time.Time { return now }))
	start := store.UpdatedAt()

	now = now.Add(time.Hour)
	err := store.Update(func(e *quantity.Engine) error {
		return e.SetItemQuantity("missing", quantity.Of(1))
	})
	if !errors.Is(err, quantity.ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
	if !store.UpdatedAt().Equal(start) {
		t.Fatalf("expected updatedAt to stay %s, got %s", start, store.UpdatedAt())
	}
}

func TestNilEngine(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage(nil)
	if err := store.View(func(*quantity.Engine) error { return nil }); !errors.Is(err, ErrNoEngine) {
		t.Fatalf("expected ErrNoEngine from View, got %v", err)
	}
	if err := store.Update(func(*quantity.Engine) error { return nil }); !errors.Is(err, ErrNoEngine) {
		t.Fatalf("expected ErrNoEngine from Update, got %v", err)
	}
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	store := NewMemoryStorage(newTestEngine())
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			err := store.Update(func(e *quantity.Engine) error {
				e.SetBulkQuantity(quantity.Of(offset))
				e.Apply()
				return nil
			})
			if err != nil {
				t.Errorf("Update failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			err := store.View(func(e *quantity.Engine) error {
				_ = e.Quantities()
				return nil
			})
			if err != nil {
				t.Errorf("View failed: %v", err)
			}
		}()
	}

	wg.Wait()

	// the last apply wins: each quantity is its volume plus the final bulk quantity
	err := store.View(func(e *quantity.Engine) error {
		q := e.Quantities()
		items := e.Items()
		bulk, _ := e.BulkQuantity().Int()
		for _, item := range items {
			if n, _ := q[item.ID].Int(); n != item.Volume+bulk {
				return fmt.Errorf("item %s: expected %d, got %d", item.ID, item.Volume+bulk, n)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("inconsistent state: %v", err)
	}
}
