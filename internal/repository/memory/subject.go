package memory

import (
	"context"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

type SubjectRepository struct {
	db *DB
}

func NewSubjectRepository(db *DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if s, ok := r.db.subjects[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

type GroupRepository struct {
	db *DB
}

func NewGroupRepository(db *DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if g, ok := r.db.groups[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}
