package repository

import (
	"context"
	"sync"

	"github.com/yashrajoria/checkout-service/models"
)

// TransactionRepository keeps the history of processed transactions.
type TransactionRepository interface {
	Append(ctx context.Context, record models.TransactionRecord) error
	// List returns a copy; callers may modify it freely.
	List(ctx context.Context) ([]models.TransactionRecord, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

type memoryTransactionRepo struct {
	mu      sync.RWMutex
	records []models.TransactionRecord
	limit   int
}

// NewMemoryTransactionRepo returns an in-process history holding at most
// limit records, dropping the oldest first. limit <= 0 means unbounded.
func NewMemoryTransactionRepo(limit int) TransactionRepository {
	return &memoryTransactionRepo{limit: limit}
}

func (r *memoryTransactionRepo) Append(_ context.Context, record models.TransactionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, record)
	if r.limit > 0 && len(r.records) > r.limit {
		overflow := len(r.records) - r.limit
		// Copy down so the backing array does not keep evicted records alive.
		r.records = append(r.records[:0], r.records[overflow:]...)
	}
	return nil
}

func (r *memoryTransactionRepo) List(_ context.Context) ([]models.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.TransactionRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *memoryTransactionRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	r.records = nil
	r.mu.Unlock()
	return nil
}

func (r *memoryTransactionRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}
