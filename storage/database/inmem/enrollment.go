package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/enrollment"
)

type enrollmentRepository struct {
	db *DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil)

func NewEnrollmentRepository(db *DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) query() []enrollment.Enrollment {
	enrs := make([]enrollment.Enrollment, 0, len(repo.db.enrollmentTable))
	for _, enr := range repo.db.enrollmentTable {
		enrs = append(enrs, *enr)
	}
	return enrs
}

func (repo *enrollmentRepository) CreateEnrollment(_ context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	enr.ID = uuid.New().String()
	repo.db.enrollmentTable[enr.ID] = &enr
	return enr, nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(_ context.Context, id string) (enrollment.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if enr, ok := repo.db.enrollmentTable[id]; ok {
		return *enr, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) GetEnrollmentByUserAndCourse(_ context.Context, userID, courseID string) (enrollment.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, enr := range repo.query() {
		if enr.UserID == userID && enr.CourseID == courseID {
			return enr, nil
		}
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) QueryEnrollments(_ context.Context, filter *enrollment.QueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]enrollment.Enrollment, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	enrs := make([]enrollment.Enrollment, 0, len(repo.db.enrollmentTable))
	for _, enr := range repo.query() {
		if filter != nil {
			if filter.UserID != "" && enr.UserID != filter.UserID {
				continue
			}
			if filter.CourseID != "" && enr.CourseID != filter.CourseID {
				continue
			}
			if filter.Status != "" && enr.Status != filter.Status {
				continue
			}
		}
		enrs = append(enrs, enr)
	}

	applyOrdering(enrs, ordering, func(a, b enrollment.Enrollment, field string) bool {
		switch field {
		case "status":
			return a.Status < b.Status
		case "enrolled_at":
			return a.EnrolledAt.Before(b.EnrolledAt)
		case "completed_at":
			return a.CompletedAt.Before(b.CompletedAt)
		}
		return false
	})

	count := len(enrs)
	start, end := pageBounds(count, paging)
	return enrs[start:end], count, nil
}

func (repo *enrollmentRepository) UpdateEnrollment(_ context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	origEnr, ok := repo.db.enrollmentTable[enr.ID]
	if !ok {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	if enr.Status != "" {
		origEnr.Status = enr.Status
	}
	if !enr.CompletedAt.IsZero() {
		origEnr.CompletedAt = enr.CompletedAt
	}
	return *origEnr, nil
}

func (repo *enrollmentRepository) UpsertLessonProgress(_ context.Context, prg enrollment.LessonProgress) (enrollment.LessonProgress, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, origPrg := range repo.db.lessonProgressTable {
		if origPrg.EnrollmentID == prg.EnrollmentID && origPrg.LessonID == prg.LessonID {
			origPrg.Completed = prg.Completed
			origPrg.CompletedAt = prg.CompletedAt
			return *origPrg, nil
		}
	}
	prg.ID = uuid.New().String()
	repo.db.lessonProgressTable[prg.ID] = &prg
	return prg, nil
}

func (repo *enrollmentRepository) QueryLessonProgress(_ context.Context, enrollmentID string) ([]enrollment.LessonProgress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	prgs := make([]enrollment.LessonProgress, 0, len(repo.db.lessonProgressTable))
	for _, prg := range repo.db.lessonProgressTable {
		if prg.EnrollmentID == enrollmentID {
			prgs = append(prgs, *prg)
		}
	}
	return prgs, nil
}

func (repo *enrollmentRepository) CountCompletedLessons(_ context.Context, enrollmentID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	count := 0
	for _, prg := range repo.db.lessonProgressTable {
		if prg.EnrollmentID != enrollmentID || !prg.Completed {
			continue
		}
		// unpublished/deleted lessons no longer count towards progress
		if lsn, ok := repo.db.lessonTable[prg.LessonID]; ok && lsn.IsPublished {
			count++
		}
	}
	return count, nil
}
