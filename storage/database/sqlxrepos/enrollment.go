package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/enrollment"
)

type enrollmentRow struct {
	ID          string      `db:"id"`
	UserID      string      `db:"user_id"`
	CourseID    string      `db:"course_id"`
	Status      null.String `db:"status"`
	EnrolledAt  null.Time   `db:"enrolled_at"`
	CompletedAt null.Time   `db:"completed_at"`
}

func (r enrollmentRow) toEnrollment() enrollment.Enrollment {
	return enrollment.Enrollment{
		ID:          r.ID,
		UserID:      r.UserID,
		CourseID:    r.CourseID,
		Status:      r.Status.String,
		EnrolledAt:  r.EnrolledAt.Time,
		CompletedAt: r.CompletedAt.Time,
	}
}

type lessonProgressRow struct {
	ID           string    `db:"id"`
	EnrollmentID string    `db:"enrollment_id"`
	LessonID     string    `db:"lesson_id"`
	Completed    bool      `db:"completed"`
	CompletedAt  null.Time `db:"completed_at"`
}

func (r lessonProgressRow) toLessonProgress() enrollment.LessonProgress {
	return enrollment.LessonProgress{
		ID:           r.ID,
		EnrollmentID: r.EnrollmentID,
		LessonID:     r.LessonID,
		Completed:    r.Completed,
		CompletedAt:  r.CompletedAt.Time,
	}
}

type enrollmentRepository struct {
	exec core.DBExecutor
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(exec core.DBExecutor) *enrollmentRepository {
	return &enrollmentRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to enrollment.ErrNotFound
func (repo enrollmentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return enrollment.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	enr.ID = uuid.New().String()
	q := repo.exec.Rebind(`
		INSERT INTO enrollment (id, user_id, course_id, status, enrolled_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := repo.exec.ExecContext(ctx, q,
		enr.ID,
		enr.UserID,
		enr.CourseID,
		null.NewString(enr.Status, enr.Status != ""),
		null.NewTime(enr.EnrolledAt.UTC(), !enr.EnrolledAt.IsZero()),
		null.NewTime(enr.CompletedAt.UTC(), !enr.CompletedAt.IsZero()),
	)
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo enrollmentRepository) getEnrollment(ctx context.Context, cond string, args ...interface{}) (enrollment.Enrollment, error) {
	var row enrollmentRow
	q := repo.exec.Rebind(`SELECT * FROM enrollment WHERE ` + cond)
	if err := repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return enrollment.Enrollment{}, repo.trapNoRowsErr(err, "finding enrollment")
	}
	return row.toEnrollment(), nil
}

func (repo enrollmentRepository) GetEnrollmentByID(ctx context.Context, id string) (enrollment.Enrollment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	return repo.getEnrollment(ctx, "id = ?", id)
}

func (repo enrollmentRepository) GetEnrollmentByUserAndCourse(ctx context.Context, userID, courseID string) (enrollment.Enrollment, error) {
	return repo.getEnrollment(ctx, "(user_id = ? AND course_id = ?)", userID, courseID)
}

func (repo enrollmentRepository) QueryEnrollments(ctx context.Context, filter *enrollment.QueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]enrollment.Enrollment, int, error) {
	qb := new(queryBuilder)

	if filter != nil {
		if filter.UserID != "" {
			qb.where("user_id = ?", filter.UserID)
		}
		if filter.CourseID != "" {
			qb.where("course_id = ?", filter.CourseID)
		}
		if filter.Status != "" {
			qb.where("status = ?", filter.Status)
		}
	}

	var count int
	q := repo.exec.Rebind(`SELECT COUNT(*) FROM enrollment` + qb.whereClause())
	if err := repo.exec.GetContext(ctx, &count, q, qb.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting enrollments")
	}

	var rows []enrollmentRow
	q = repo.exec.Rebind(`SELECT * FROM enrollment` + qb.whereClause() + orderingClause(ordering) + pagingClause(paging))
	if err := repo.exec.SelectContext(ctx, &rows, q, qb.args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying enrollments")
	}
	enrs := make([]enrollment.Enrollment, 0, len(rows))
	for _, r := range rows {
		enrs = append(enrs, r.toEnrollment())
	}
	return enrs, count, nil
}

func (repo enrollmentRepository) UpdateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	if _, err := uuid.Parse(enr.ID); err != nil {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}

	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	set := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}

	if enr.Status != "" {
		set("status", enr.Status)
	}
	if !enr.CompletedAt.IsZero() {
		set("completed_at", enr.CompletedAt.UTC())
	}
	if len(sets) == 0 {
		return repo.GetEnrollmentByID(ctx, enr.ID)
	}
	args = append(args, enr.ID)

	var row enrollmentRow
	q := repo.exec.Rebind(`UPDATE enrollment SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING *`)
	if err := repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return enrollment.Enrollment{}, repo.trapNoRowsErr(err, "updating enrollment")
	}
	return row.toEnrollment(), nil
}

func (repo enrollmentRepository) UpsertLessonProgress(ctx context.Context, prg enrollment.LessonProgress) (enrollment.LessonProgress, error) {
	prg.ID = uuid.New().String()
	q := repo.exec.Rebind(`
		INSERT INTO lesson_progress (id, enrollment_id, lesson_id, completed, completed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (enrollment_id, lesson_id)
		DO UPDATE SET completed = EXCLUDED.completed, completed_at = EXCLUDED.completed_at
		RETURNING *`)

	var row lessonProgressRow
	err := repo.exec.GetContext(ctx, &row, q,
		prg.ID,
		prg.EnrollmentID,
		prg.LessonID,
		prg.Completed,
		null.NewTime(prg.CompletedAt.UTC(), !prg.CompletedAt.IsZero()),
	)
	if err != nil {
		return enrollment.LessonProgress{}, errors.Wrap(err, "upserting lesson progress")
	}
	return row.toLessonProgress(), nil
}

func (repo enrollmentRepository) QueryLessonProgress(ctx context.Context, enrollmentID string) ([]enrollment.LessonProgress, error) {
	var rows []lessonProgressRow
	q := repo.exec.Rebind(`SELECT * FROM lesson_progress WHERE enrollment_id = ? ORDER BY completed_at`)
	if err := repo.exec.SelectContext(ctx, &rows, q, enrollmentID); err != nil {
		return nil, errors.Wrap(err, "querying lesson progress")
	}
	prgs := make([]enrollment.LessonProgress, 0, len(rows))
	for _, r := range rows {
		prgs = append(prgs, r.toLessonProgress())
	}
	return prgs, nil
}

func (repo enrollmentRepository) CountCompletedLessons(ctx context.Context, enrollmentID string) (int, error) {
	var count int
	// joining on lesson drops progress rows whose lesson was since
	// unpublished or deleted
	q := repo.exec.Rebind(`
		SELECT COUNT(*)
		FROM lesson_progress lp
		JOIN lesson l ON l.id = lp.lesson_id
		WHERE lp.enrollment_id = ? AND lp.completed AND l.is_published`)
	if err := repo.exec.GetContext(ctx, &count, q, enrollmentID); err != nil {
		return 0, errors.Wrap(err, "counting completed lessons")
	}
	return count, nil
}
