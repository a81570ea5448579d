package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
)

type RescheduleRequestRepository struct {
	db *DB
}

func NewRescheduleRequestRepository(db *DB) *RescheduleRequestRepository {
	return &RescheduleRequestRepository{db: db}
}

func (r *RescheduleRequestRepository) Create(ctx context.Context, req *model.RescheduleRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	req.ID = r.db.nextID()
	req.CreatedAt = now
	req.UpdatedAt = now
	cp := *req
	r.db.requests[cp.ID] = &cp
	return nil
}

func (r *RescheduleRequestRepository) GetByID(ctx context.Context, id int64) (*model.RescheduleRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if req, ok := r.db.requests[id]; ok {
		cp := *req
		return &cp, nil
	}
	return nil, nil
}

func (r *RescheduleRequestRepository) UpdateStatus(ctx context.Context, id int64, status model.RescheduleStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	req, ok := r.db.requests[id]
	if !ok || !req.IsPending() {
		return fmt.Errorf("update reschedule request status: %w", repository.ErrNotFound)
	}
	req.Status = status
	req.UpdatedAt = r.db.now()
	return nil
}

func (r *RescheduleRequestRepository) ExpirePending(ctx context.Context, before time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var count int64
	for _, req := range r.db.requests {
		if req.IsPending() && req.ProposedStart.Before(before) {
			req.Status = model.RescheduleStatusExpired
			req.UpdatedAt = r.db.now()
			count++
		}
	}
	return count, nil
}
