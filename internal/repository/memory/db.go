// Package memory хранит данные в памяти процесса. Используется в тестах и при STORAGE=memory.
package memory

import (
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

type DB struct {
	mu       sync.RWMutex
	seq      int64
	users    map[int64]*model.User
	subjects map[int64]*model.Subject
	groups   map[int64]*model.Group
	lessons  map[int64]*model.Lesson
	requests map[int64]*model.RescheduleRequest
	now      func() time.Time
}

func Open() *DB {
	return &DB{
		users:    make(map[int64]*model.User),
		subjects: make(map[int64]*model.Subject),
		groups:   make(map[int64]*model.Group),
		lessons:  make(map[int64]*model.Lesson),
		requests: make(map[int64]*model.RescheduleRequest),
		now:      time.Now,
	}
}

// nextID вызывается под блокировкой на запись
func (db *DB) nextID() int64 {
	db.seq++
	return db.seq
}

// AddSubject сохраняет предмет; в Postgres-версии предметы создаются вне этого сервиса
func (db *DB) AddSubject(subject *model.Subject) *model.Subject {
	db.mu.Lock()
	defer db.mu.Unlock()

	subject.ID = db.nextID()
	subject.CreatedAt = db.now()
	cp := *subject
	db.subjects[cp.ID] = &cp
	return subject
}

// AddGroup сохраняет группу учеников
func (db *DB) AddGroup(group *model.Group) *model.Group {
	db.mu.Lock()
	defer db.mu.Unlock()

	group.ID = db.nextID()
	group.CreatedAt = db.now()
	cp := *group
	db.groups[cp.ID] = &cp
	return group
}

// withNames заполняет имена предмета, ученика и группы, как JOIN в SQL-версии
func (db *DB) withNames(l *model.Lesson) *model.Lesson {
	cp := *l
	if cp.SubjectID != nil {
		if s, ok := db.subjects[*cp.SubjectID]; ok {
			cp.SubjectName = s.Name
		}
	}
	if cp.StudentID != nil {
		if u, ok := db.users[*cp.StudentID]; ok {
			cp.StudentName = u.DisplayName()
		}
	}
	if cp.GroupID != nil {
		if g, ok := db.groups[*cp.GroupID]; ok {
			cp.GroupName = g.Name
		}
	}
	return &cp
}
