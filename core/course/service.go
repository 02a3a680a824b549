package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrCourseNotFound   = errors.New("course not found")
	ErrModuleNotFound   = errors.New("module not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrSlugExists       = errors.New("a course with this slug already exists")
	ErrLessonSlugExists = errors.New("a lesson with this slug already exists")
)

type (
	CourseRepository interface {
		CheckCourseSlugUniqueness(ctx context.Context, slug string, excludedCourses ...Course) error
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		// QueryCourses applies AND operation on available CourseQueryFilter fields.
		// CourseQueryFilter.Search does a case-insensitive match on one of
		// Course.Title or Course.Description. It returns the page of matching
		// courses and the total match count.
		QueryCourses(ctx context.Context, filter *CourseQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]Course, int, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		GetCourseBySlug(ctx context.Context, slug string) (Course, error)
		// UpdateCourse only overwrites set (non-zero) fields.
		UpdateCourse(ctx context.Context, crs Course, isPublished, isFeatured *bool) (Course, error)
		DeleteCoursesByID(ctx context.Context, ids ...string) error
	}

	ModuleRepository interface {
		CreateModule(ctx context.Context, mod Module) (Module, error)
		QueryModules(ctx context.Context, filter *ModuleQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]Module, int, error)
		GetModuleByID(ctx context.Context, id string) (Module, error)
		UpdateModule(ctx context.Context, mod Module) (Module, error)
		DeleteModulesByID(ctx context.Context, ids ...string) error
		// NextModulePosition returns max(position)+1 within the course.
		NextModulePosition(ctx context.Context, courseID string) (int, error)
	}

	LessonRepository interface {
		CheckLessonSlugUniqueness(ctx context.Context, slug string, excludedLessons ...Lesson) error
		CreateLesson(ctx context.Context, lsn Lesson) (Lesson, error)
		QueryLessons(ctx context.Context, filter *LessonQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]Lesson, int, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		// UpdateLesson only overwrites set (non-zero) fields.
		UpdateLesson(ctx context.Context, lsn Lesson, isPublished *bool) (Lesson, error)
		DeleteLessonsByID(ctx context.Context, ids ...string) error
		// NextLessonPosition returns max(position)+1 within the module.
		NextLessonPosition(ctx context.Context, moduleID string) (int, error)
		// CountLessonsByCourse counts the course's lessons across all its modules,
		// optionally restricted to published ones.
		CountLessonsByCourse(ctx context.Context, courseID string, publishedOnly bool) (int, error)
	}

	Repository interface {
		CourseRepository
		ModuleRepository
		LessonRepository
	}

	Service interface {
		// courses
		CheckSlugUniqueness(ctx context.Context, slug string, exclCourses ...Course) error
		CreateCourse(ctx context.Context, nc NewCourse, createdBy string) (Course, error)
		QueryCourses(ctx context.Context, filter *CourseQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]Course, int, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		UpdateCourse(ctx context.Context, id string, uc UpdateCourse) (Course, error)
		PublishCourse(ctx context.Context, id string) (Course, error)
		FeaturedCourses(ctx context.Context) ([]Course, error)
		DeleteCourses(ctx context.Context, ids ...string) error

		// modules
		CreateModule(ctx context.Context, nm NewModule) (Module, error)
		QueryModules(ctx context.Context, filter *ModuleQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]Module, int, error)
		GetModuleByID(ctx context.Context, id string) (Module, error)
		UpdateModule(ctx context.Context, id string, um UpdateModule) (Module, error)
		DeleteModules(ctx context.Context, ids ...string) error

		// lessons
		CheckLessonSlugUniqueness(ctx context.Context, slug string, exclLessons ...Lesson) error
		CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error)
		QueryLessons(ctx context.Context, filter *LessonQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]Lesson, int, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		UpdateLesson(ctx context.Context, id string, ul UpdateLesson) (Lesson, error)
		DeleteLessons(ctx context.Context, ids ...string) error
		CountPublishedLessons(ctx context.Context, courseID string) (int, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// courses

func (svc *service) CheckSlugUniqueness(ctx context.Context, slug string, exclCourses ...Course) error {
	if err := svc.repo.CheckCourseSlugUniqueness(ctx, slug, exclCourses...); err != nil {
		if errors.Cause(err) == ErrSlugExists {
			return core.NewValidationError(err, core.FieldError{Field: "slug", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) CreateCourse(ctx context.Context, nc NewCourse, createdBy string) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Title:       nc.Title,
		Slug:        nc.Slug,
		Description: nc.Description,
		Tags:        nc.Tags,
		Topics:      nc.Topics,
		IsFeatured:  nc.IsFeatured,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *service) QueryCourses(ctx context.Context, filter *CourseQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]Course, int, error) {
	return svc.repo.QueryCourses(ctx, filter, ordering, paging)
}

func (svc *service) GetCourseByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) UpdateCourse(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs := Course{
		ID:          id,
		Title:       uc.Title,
		Slug:        uc.Slug,
		Description: uc.Description,
		Tags:        uc.Tags,
		Topics:      uc.Topics,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateCourse(ctx, crs, nil, uc.IsFeatured)
}

// PublishCourse flips a course to published. It is idempotent; PublishedAt is
// only set on the first publish.
func (svc *service) PublishCourse(ctx context.Context, id string) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if crs.IsPublished {
		return crs, nil
	}

	published := true
	upd := Course{ID: crs.ID, UpdatedAt: time.Now().UTC()}
	if crs.PublishedAt.IsZero() {
		upd.PublishedAt = upd.UpdatedAt
	}
	return svc.repo.UpdateCourse(ctx, upd, &published, nil)
}

func (svc *service) FeaturedCourses(ctx context.Context) ([]Course, error) {
	published, featured := true, true
	courses, _, err := svc.repo.QueryCourses(
		ctx,
		&CourseQueryFilter{IsPublished: &published, IsFeatured: &featured},
		[]core.DBOrdering{{Field: "published_at", Ascending: false}},
		nil,
	)
	return courses, err
}

func (svc *service) DeleteCourses(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCoursesByID(ctx, ids...)
}

// modules

func (svc *service) CreateModule(ctx context.Context, nm NewModule) (Module, error) {
	if _, err := svc.repo.GetCourseByID(ctx, nm.CourseID); err != nil {
		return Module{}, err
	}
	pos, err := svc.repo.NextModulePosition(ctx, nm.CourseID)
	if err != nil {
		return Module{}, errors.Wrap(err, "getting next module position")
	}

	now := time.Now().UTC()
	mod := Module{
		CourseID:    nm.CourseID,
		Title:       nm.Title,
		Description: nm.Description,
		Position:    pos,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateModule(ctx, mod)
}

func (svc *service) QueryModules(ctx context.Context, filter *ModuleQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]Module, int, error) {
	if ordering == nil {
		ordering = []core.DBOrdering{{Field: "position", Ascending: true}}
	}
	return svc.repo.QueryModules(ctx, filter, ordering, paging)
}

func (svc *service) GetModuleByID(ctx context.Context, id string) (Module, error) {
	return svc.repo.GetModuleByID(ctx, id)
}

func (svc *service) UpdateModule(ctx context.Context, id string, um UpdateModule) (Module, error) {
	mod := Module{
		ID:          id,
		Title:       um.Title,
		Description: um.Description,
		UpdatedAt:   time.Now().UTC(),
	}
	if um.Position != nil {
		mod.Position = *um.Position
	}
	return svc.repo.UpdateModule(ctx, mod)
}

func (svc *service) DeleteModules(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteModulesByID(ctx, ids...)
}

// lessons

func (svc *service) CheckLessonSlugUniqueness(ctx context.Context, slug string, exclLessons ...Lesson) error {
	if err := svc.repo.CheckLessonSlugUniqueness(ctx, slug, exclLessons...); err != nil {
		if errors.Cause(err) == ErrLessonSlugExists {
			return core.NewValidationError(err, core.FieldError{Field: "slug", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error) {
	if _, err := svc.repo.GetModuleByID(ctx, nl.ModuleID); err != nil {
		return Lesson{}, err
	}
	pos, err := svc.repo.NextLessonPosition(ctx, nl.ModuleID)
	if err != nil {
		return Lesson{}, errors.Wrap(err, "getting next lesson position")
	}

	now := time.Now().UTC()
	lsn := Lesson{
		ModuleID:     nl.ModuleID,
		Title:        nl.Title,
		Slug:         nl.Slug,
		Content:      nl.Content,
		VideoURL:     nl.VideoURL,
		DurationMins: nl.DurationMins,
		Position:     pos,
		IsPublished:  nl.IsPublished,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateLesson(ctx, lsn)
}

func (svc *service) QueryLessons(ctx context.Context, filter *LessonQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]Lesson, int, error) {
	if ordering == nil {
		ordering = []core.DBOrdering{{Field: "position", Ascending: true}}
	}
	return svc.repo.QueryLessons(ctx, filter, ordering, paging)
}

func (svc *service) GetLessonByID(ctx context.Context, id string) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *service) UpdateLesson(ctx context.Context, id string, ul UpdateLesson) (Lesson, error) {
	lsn := Lesson{
		ID:        id,
		Title:     ul.Title,
		Slug:      ul.Slug,
		Content:   ul.Content,
		VideoURL:  ul.VideoURL,
		UpdatedAt: time.Now().UTC(),
	}
	if ul.DurationMins != nil {
		lsn.DurationMins = *ul.DurationMins
	}
	if ul.Position != nil {
		lsn.Position = *ul.Position
	}
	return svc.repo.UpdateLesson(ctx, lsn, ul.IsPublished)
}

func (svc *service) DeleteLessons(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteLessonsByID(ctx, ids...)
}

func (svc *service) CountPublishedLessons(ctx context.Context, courseID string) (int, error) {
	return svc.repo.CountLessonsByCourse(ctx, courseID, true /* publishedOnly */)
}
