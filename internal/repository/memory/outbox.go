package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/consultapp/partner-api/internal/model"
	"github.com/consultapp/partner-api/internal/repository"
)

// OutboxRepository is an in-memory outbox for tests.
type OutboxRepository struct {
	mu     sync.Mutex
	events []model.OutboxEvent
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

func (r *OutboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now().UTC()
	r.events = append(r.events, *event)
	return nil
}

func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.OutboxEvent
	for i := range r.events {
		if r.events[i].Status != model.OutboxStatusPending {
			continue
		}
		e := r.events[i]
		out = append(out, &e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.events {
		if r.events[i].ID == id {
			r.events[i].Status = status
			r.events[i].ErrorMessage = errMsg
			if status == model.OutboxStatusProcessed {
				now := time.Now().UTC()
				r.events[i].ProcessedAt = &now
			}
			if status == model.OutboxStatusFailed {
				r.events[i].RetryCount++
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *OutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []model.OutboxEvent
	var deleted int64
	for _, e := range r.events {
		if e.Status == model.OutboxStatusProcessed && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	return deleted, nil
}

// Events returns a snapshot of everything recorded, newest last.
func (r *OutboxRepository) Events() []model.OutboxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.OutboxEvent, len(r.events))
	copy(out, r.events)
	return out
}
