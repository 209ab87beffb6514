package users

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/joyal-jij0/pragati/internal/common"
)

func TestMemoryRepository_CreateAndLookups(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, "a@x.com", "hash1")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID == 0 || created.CreatedAt.IsZero() {
		t.Fatalf("id and created_at must be assigned: %+v", created)
	}

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if byEmail.ID != created.ID || byID.Email != "a@x.com" {
		t.Fatalf("lookup mismatch: %+v / %+v", byEmail, byID)
	}

	if _, err := repo.GetByEmail(ctx, "ghost@x.com"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, 9999); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemoryRepository_DuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, "a@x.com", "hash1"); err != nil {
		t.Fatalf("first Create error: %v", err)
	}

	_, err := repo.Create(ctx, "a@x.com", "hash2")
	var conflict *common.ConflictError
	if !errors.As(err, &conflict) || conflict.Email != "a@x.com" {
		t.Fatalf("want conflict for a@x.com, got %v", err)
	}

	// Loser must not have overwritten the winner's record.
	u, err := repo.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if u.PasswordHash != "hash1" {
		t.Fatalf("password hash overwritten: %q", u.PasswordHash)
	}
}

func TestMemoryRepository_ConcurrentCreateSameEmail(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, "race@x.com", "hash")
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		var conflict *common.ConflictError
		switch {
		case err == nil:
			successes++
		case errors.As(err, &conflict):
			conflicts++
		default:
			t.Fatalf("unexpected error kind: %v", err)
		}
	}
	if successes != 1 || conflicts != n-1 {
		t.Fatalf("want exactly 1 success and %d conflicts, got %d/%d", n-1, successes, conflicts)
	}
}
