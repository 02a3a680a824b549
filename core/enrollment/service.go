package enrollment

import (
	"context"
	"math"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("enrollment not found")
	ErrAlreadyEnrolled = errors.New("user is already enrolled in this course")
	ErrNotEnrolled     = errors.New("user is not enrolled in this course")
	ErrCourseNotOpen   = errors.New("course is not open for enrollment")
	errUserRequired    = errors.New("an authenticated user is required")
)

type (
	Repository interface {
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		GetEnrollmentByID(ctx context.Context, id string) (Enrollment, error)
		GetEnrollmentByUserAndCourse(ctx context.Context, userID, courseID string) (Enrollment, error)
		QueryEnrollments(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]Enrollment, int, error)
		// UpdateEnrollment only overwrites set (non-zero) fields.
		UpdateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		// UpsertLessonProgress creates the (enrollment, lesson) progress row or
		// refreshes an existing one.
		UpsertLessonProgress(ctx context.Context, prg LessonProgress) (LessonProgress, error)
		QueryLessonProgress(ctx context.Context, enrollmentID string) ([]LessonProgress, error)
		// CountCompletedLessons only counts completed lessons that are still
		// published, so that progress never exceeds the published total.
		CountCompletedLessons(ctx context.Context, enrollmentID string) (int, error)
	}

	Service interface {
		Enroll(ctx context.Context, usr user.User, courseID string) (Enrollment, error)
		GetByID(ctx context.Context, id string) (Enrollment, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]Enrollment, int, error)
		Drop(ctx context.Context, usr user.User, courseID string) (Enrollment, error)
		MarkLessonComplete(ctx context.Context, usr user.User, lessonID string) (Progress, error)
		Progress(ctx context.Context, enrollmentID string) (Progress, error)
	}

	service struct {
		repo    Repository
		crsSvc  course.Service
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, crsSvc course.Service, mailSvc core.EmailService) Service {
	return &service{
		repo:    repo,
		crsSvc:  crsSvc,
		mailSvc: mailSvc,
	}
}

// Enroll signs usr up for a published course. Enrolling twice is a validation
// error; an unpublished course is not open for enrollment.
func (svc *service) Enroll(ctx context.Context, usr user.User, courseID string) (Enrollment, error) {
	if usr.ID == "" {
		return Enrollment{}, core.NewValidationError(errUserRequired)
	}

	crs, err := svc.crsSvc.GetCourseByID(ctx, courseID)
	if err != nil {
		return Enrollment{}, err
	}
	if !crs.IsPublished {
		return Enrollment{}, core.NewValidationError(ErrCourseNotOpen)
	}

	if _, err = svc.repo.GetEnrollmentByUserAndCourse(ctx, usr.ID, courseID); err == nil {
		return Enrollment{}, core.NewValidationError(ErrAlreadyEnrolled)
	} else if errors.Cause(err) != ErrNotFound {
		return Enrollment{}, err
	}

	enr, err := svc.repo.CreateEnrollment(ctx, Enrollment{
		UserID:     usr.ID,
		CourseID:   courseID,
		Status:     StatusActive,
		EnrolledAt: time.Now().UTC(),
	})
	if err != nil {
		return Enrollment{}, err
	}

	go svc.sendEnrollmentMail(usr, crs)
	return enr, nil
}

func (svc *service) sendEnrollmentMail(usr user.User, crs course.Course) {
	if usr.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Enrollment Confirmation",
		TemplateName: "enrollment-confirmation",
		TemplateData: struct {
			Name   string
			Course string
			Slug   string
		}{usr.Name, crs.Title, crs.Slug},
	})
}

func (svc *service) GetByID(ctx context.Context, id string) (Enrollment, error) {
	return svc.repo.GetEnrollmentByID(ctx, id)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]Enrollment, int, error) {
	return svc.repo.QueryEnrollments(ctx, filter, ordering, paging)
}

func (svc *service) Drop(ctx context.Context, usr user.User, courseID string) (Enrollment, error) {
	if usr.ID == "" {
		return Enrollment{}, core.NewValidationError(errUserRequired)
	}
	enr, err := svc.repo.GetEnrollmentByUserAndCourse(ctx, usr.ID, courseID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Enrollment{}, core.NewValidationError(ErrNotEnrolled)
		}
		return Enrollment{}, err
	}
	return svc.repo.UpdateEnrollment(ctx, Enrollment{ID: enr.ID, Status: StatusDropped})
}

// MarkLessonComplete records usr's completion of a lesson and recomputes the
// enrollment's progress; once every published lesson of the course is complete
// the enrollment itself flips to completed.
func (svc *service) MarkLessonComplete(ctx context.Context, usr user.User, lessonID string) (Progress, error) {
	if usr.ID == "" {
		return Progress{}, core.NewValidationError(errUserRequired)
	}

	lsn, err := svc.crsSvc.GetLessonByID(ctx, lessonID)
	if err != nil {
		return Progress{}, err
	}
	if !lsn.IsPublished {
		// drafts are invisible to students
		return Progress{}, course.ErrLessonNotFound
	}
	mod, err := svc.crsSvc.GetModuleByID(ctx, lsn.ModuleID)
	if err != nil {
		return Progress{}, errors.Wrap(err, "finding lesson's module")
	}

	enr, err := svc.repo.GetEnrollmentByUserAndCourse(ctx, usr.ID, mod.CourseID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Progress{}, core.NewValidationError(ErrNotEnrolled)
		}
		return Progress{}, err
	}

	if _, err = svc.repo.UpsertLessonProgress(ctx, LessonProgress{
		EnrollmentID: enr.ID,
		LessonID:     lessonID,
		Completed:    true,
		CompletedAt:  time.Now().UTC(),
	}); err != nil {
		return Progress{}, errors.Wrap(err, "upserting lesson progress")
	}

	prg, err := svc.progress(ctx, enr)
	if err != nil {
		return Progress{}, err
	}

	if prg.TotalLessons > 0 && prg.CompletedLessons >= prg.TotalLessons && enr.Status == StatusActive {
		if _, err = svc.repo.UpdateEnrollment(ctx, Enrollment{
			ID:          enr.ID,
			Status:      StatusCompleted,
			CompletedAt: time.Now().UTC(),
		}); err != nil {
			return Progress{}, errors.Wrap(err, "completing enrollment")
		}
	}
	return prg, nil
}

func (svc *service) Progress(ctx context.Context, enrollmentID string) (Progress, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return Progress{}, err
	}
	return svc.progress(ctx, enr)
}

func (svc *service) progress(ctx context.Context, enr Enrollment) (Progress, error) {
	total, err := svc.crsSvc.CountPublishedLessons(ctx, enr.CourseID)
	if err != nil {
		return Progress{}, errors.Wrap(err, "counting published lessons")
	}
	done, err := svc.repo.CountCompletedLessons(ctx, enr.ID)
	if err != nil {
		return Progress{}, errors.Wrap(err, "counting completed lessons")
	}

	prg := Progress{
		EnrollmentID:     enr.ID,
		CourseID:         enr.CourseID,
		CompletedLessons: done,
		TotalLessons:     total,
	}
	if total > 0 {
		prg.Percent = math.Round(float64(done)/float64(total)*10000) / 100
	}
	return prg, nil
}
