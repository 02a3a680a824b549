package enrollment_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enrollment"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
)

type testEnv struct {
	crsSvc course.Service
	svc    enrollment.Service
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	db := inmemdb.NewDB()
	crsSvc := course.NewService(inmemdb.NewCourseRepository(db))
	return testEnv{
		crsSvc: crsSvc,
		svc:    enrollment.NewService(inmemdb.NewEnrollmentRepository(db), crsSvc, emailsvc.NewConsoleServiceMock()),
	}
}

func (env testEnv) mustCreateCourse(t *testing.T, title, slug string, publish bool) course.Course {
	t.Helper()
	ctx := context.Background()
	crs, err := env.crsSvc.CreateCourse(ctx, course.NewCourse{Title: title, Slug: slug}, "")
	require.NoError(t, err)
	if publish {
		crs, err = env.crsSvc.PublishCourse(ctx, crs.ID)
		require.NoError(t, err)
	}
	return crs
}

func (env testEnv) mustCreateLesson(t *testing.T, moduleID, title, slug string, published bool) course.Lesson {
	t.Helper()
	lsn, err := env.crsSvc.CreateLesson(context.Background(), course.NewLesson{
		ModuleID:    moduleID,
		Title:       title,
		Slug:        slug,
		IsPublished: published,
	})
	require.NoError(t, err)
	return lsn
}

func TestService_Enroll(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	usr := user.User{ID: "usr1", Name: "Alice", Email: "alice@test.cd"}

	crs := env.mustCreateCourse(t, "Go Basics", "go-basics", true)
	draft := env.mustCreateCourse(t, "Draft", "draft", false)

	// an authenticated user is required
	_, err := env.svc.Enroll(ctx, user.User{}, crs.ID)
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)

	// unpublished courses are closed
	_, err = env.svc.Enroll(ctx, usr, draft.ID)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, enrollment.ErrCourseNotOpen.Error(), vErr.Error())

	_, err = env.svc.Enroll(ctx, usr, "lol")
	assert.Equal(t, course.ErrCourseNotFound, errors.Cause(err))

	enr, err := env.svc.Enroll(ctx, usr, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusActive, enr.Status)
	assert.False(t, enr.EnrolledAt.IsZero())

	// no double enrollment
	_, err = env.svc.Enroll(ctx, usr, crs.ID)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, enrollment.ErrAlreadyEnrolled.Error(), vErr.Error())
}

func TestService_Drop(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	usr := user.User{ID: "usr1", Name: "Alice"}

	crs := env.mustCreateCourse(t, "Go Basics", "go-basics", true)

	var vErr *core.ValidationError
	_, err := env.svc.Drop(ctx, usr, crs.ID)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, enrollment.ErrNotEnrolled.Error(), vErr.Error())

	_, err = env.svc.Enroll(ctx, usr, crs.ID)
	require.NoError(t, err)

	enr, err := env.svc.Drop(ctx, usr, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusDropped, enr.Status)
}

func TestService_MarkLessonComplete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	usr := user.User{ID: "usr1", Name: "Alice"}

	crs := env.mustCreateCourse(t, "Go Basics", "go-basics", true)
	mod, err := env.crsSvc.CreateModule(ctx, course.NewModule{CourseID: crs.ID, Title: "Getting Started"})
	require.NoError(t, err)
	lsn1 := env.mustCreateLesson(t, mod.ID, "Installing Go", "installing-go", true)
	lsn2 := env.mustCreateLesson(t, mod.ID, "Hello World", "hello-world", true)
	env.mustCreateLesson(t, mod.ID, "Secret Draft", "secret-draft", false)

	// not enrolled
	var vErr *core.ValidationError
	_, err = env.svc.MarkLessonComplete(ctx, usr, lsn1.ID)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, enrollment.ErrNotEnrolled.Error(), vErr.Error())

	enr, err := env.svc.Enroll(ctx, usr, crs.ID)
	require.NoError(t, err)

	prg, err := env.svc.MarkLessonComplete(ctx, usr, lsn1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, prg.CompletedLessons)
	assert.Equal(t, 2, prg.TotalLessons) // drafts don't count
	assert.Equal(t, float64(50), prg.Percent)

	// idempotent per lesson
	prg, err = env.svc.MarkLessonComplete(ctx, usr, lsn1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, prg.CompletedLessons)

	// finishing the last lesson completes the enrollment
	prg, err = env.svc.MarkLessonComplete(ctx, usr, lsn2.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, prg.CompletedLessons)
	assert.Equal(t, float64(100), prg.Percent)

	enr, err = env.svc.GetByID(ctx, enr.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusCompleted, enr.Status)
	assert.False(t, enr.CompletedAt.IsZero())

	_, err = env.svc.MarkLessonComplete(ctx, usr, "lol")
	assert.Equal(t, course.ErrLessonNotFound, errors.Cause(err))
}

func TestService_MarkLessonComplete_publishedOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	usr := user.User{ID: "usr1", Name: "Alice"}

	crs := env.mustCreateCourse(t, "Go Basics", "go-basics", true)
	mod, err := env.crsSvc.CreateModule(ctx, course.NewModule{CourseID: crs.ID, Title: "Getting Started"})
	require.NoError(t, err)
	lsn1 := env.mustCreateLesson(t, mod.ID, "Installing Go", "installing-go", true)
	lsn2 := env.mustCreateLesson(t, mod.ID, "Hello World", "hello-world", true)
	draft := env.mustCreateLesson(t, mod.ID, "Secret Draft", "secret-draft", false)

	enr, err := env.svc.Enroll(ctx, usr, crs.ID)
	require.NoError(t, err)

	// a draft lesson cannot be completed
	_, err = env.svc.MarkLessonComplete(ctx, usr, draft.ID)
	assert.Equal(t, course.ErrLessonNotFound, errors.Cause(err))

	prg, err := env.svc.MarkLessonComplete(ctx, usr, lsn1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, prg.CompletedLessons)
	assert.Equal(t, 2, prg.TotalLessons)

	// unpublishing a completed lesson drops it from both sides of the ratio
	unpublished := false
	_, err = env.crsSvc.UpdateLesson(ctx, lsn1.ID, course.UpdateLesson{IsPublished: &unpublished})
	require.NoError(t, err)

	prg, err = env.svc.Progress(ctx, enr.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, prg.CompletedLessons)
	assert.Equal(t, 1, prg.TotalLessons)
	assert.Zero(t, prg.Percent)

	enr, err = env.svc.GetByID(ctx, enr.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusActive, enr.Status)

	// the remaining published lesson is all that's needed to complete
	prg, err = env.svc.MarkLessonComplete(ctx, usr, lsn2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, prg.CompletedLessons)
	assert.Equal(t, 1, prg.TotalLessons)
	assert.Equal(t, float64(100), prg.Percent)

	enr, err = env.svc.GetByID(ctx, enr.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusCompleted, enr.Status)
}

func TestService_Progress_emptyCourse(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	usr := user.User{ID: "usr1", Name: "Alice"}

	crs := env.mustCreateCourse(t, "Empty", "empty", true)
	enr, err := env.svc.Enroll(ctx, usr, crs.ID)
	require.NoError(t, err)

	prg, err := env.svc.Progress(ctx, enr.ID)
	require.NoError(t, err)
	assert.Zero(t, prg.TotalLessons)
	assert.Zero(t, prg.Percent) // no division by zero

	_, err = env.svc.Progress(ctx, "lol")
	assert.Equal(t, enrollment.ErrNotFound, errors.Cause(err))
}
