package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
)

type courseRow struct {
	ID          string         `db:"id"`
	Title       null.String    `db:"title"`
	Slug        null.String    `db:"slug"`
	Description null.String    `db:"description"`
	Tags        pq.StringArray `db:"tags"`
	Topics      pq.StringArray `db:"topics"`
	IsPublished null.Bool      `db:"is_published"`
	IsFeatured  null.Bool      `db:"is_featured"`
	PublishedAt null.Time      `db:"published_at"`
	CreatedBy   null.String    `db:"created_by"`
	CreatedAt   null.Time      `db:"created_at"`
	UpdatedAt   null.Time      `db:"updated_at"`
}

func (r courseRow) toCourse() course.Course {
	return course.Course{
		ID:          r.ID,
		Title:       r.Title.String,
		Slug:        r.Slug.String,
		Description: r.Description.String,
		Tags:        r.Tags,
		Topics:      r.Topics,
		IsPublished: r.IsPublished.Bool,
		IsFeatured:  r.IsFeatured.Bool,
		PublishedAt: r.PublishedAt.Time,
		CreatedBy:   r.CreatedBy.String,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

type moduleRow struct {
	ID          string      `db:"id"`
	CourseID    string      `db:"course_id"`
	Title       null.String `db:"title"`
	Description null.String `db:"description"`
	Position    int         `db:"position"`
	CreatedAt   null.Time   `db:"created_at"`
	UpdatedAt   null.Time   `db:"updated_at"`
}

func (r moduleRow) toModule() course.Module {
	return course.Module{
		ID:          r.ID,
		CourseID:    r.CourseID,
		Title:       r.Title.String,
		Description: r.Description.String,
		Position:    r.Position,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

type lessonRow struct {
	ID           string      `db:"id"`
	ModuleID     string      `db:"module_id"`
	Title        null.String `db:"title"`
	Slug         null.String `db:"slug"`
	Content      null.String `db:"content"`
	VideoURL     null.String `db:"video_url"`
	DurationMins int         `db:"duration_mins"`
	Position     int         `db:"position"`
	IsPublished  null.Bool   `db:"is_published"`
	CreatedAt    null.Time   `db:"created_at"`
	UpdatedAt    null.Time   `db:"updated_at"`
}

func (r lessonRow) toLesson() course.Lesson {
	return course.Lesson{
		ID:           r.ID,
		ModuleID:     r.ModuleID,
		Title:        r.Title.String,
		Slug:         r.Slug.String,
		Content:      r.Content.String,
		VideoURL:     r.VideoURL.String,
		DurationMins: r.DurationMins,
		Position:     r.Position,
		IsPublished:  r.IsPublished.Bool,
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
	}
}

type courseRepository struct {
	exec core.DBExecutor
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(exec core.DBExecutor) *courseRepository {
	return &courseRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to the provided sentinel
func (repo courseRepository) trapNoRowsErr(err, sentinel error, msg string) error {
	if err == sql.ErrNoRows {
		return sentinel
	}
	return errors.Wrap(err, msg)
}

// courses

func (repo courseRepository) CheckCourseSlugUniqueness(ctx context.Context, slug string, excludedCourses ...course.Course) error {
	qb := new(queryBuilder)
	qb.where("slug = ?", slug)
	if len(excludedCourses) > 0 {
		ids := make([]string, 0, len(excludedCourses))
		for _, crs := range excludedCourses {
			ids = append(ids, crs.ID)
		}
		qb.where("id <> ALL(?)", pq.Array(ids))
	}

	var exists bool
	q := repo.exec.Rebind(`SELECT EXISTS (SELECT 1 FROM course` + qb.whereClause() + `)`)
	if err := repo.exec.GetContext(ctx, &exists, q, qb.args...); err != nil {
		return errors.Wrap(err, "checking course slug uniqueness")
	}
	if exists {
		return course.ErrSlugExists
	}
	return nil
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	q := repo.exec.Rebind(`
		INSERT INTO course (id, title, slug, description, tags, topics, is_published, is_featured, published_at, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := repo.exec.ExecContext(ctx, q,
		crs.ID,
		null.NewString(crs.Title, crs.Title != ""),
		null.NewString(crs.Slug, crs.Slug != ""),
		null.NewString(crs.Description, crs.Description != ""),
		pq.Array(crs.Tags),
		pq.Array(crs.Topics),
		crs.IsPublished,
		crs.IsFeatured,
		null.NewTime(crs.PublishedAt.UTC(), !crs.PublishedAt.IsZero()),
		null.NewString(crs.CreatedBy, crs.CreatedBy != ""),
		null.NewTime(crs.CreatedAt.UTC(), !crs.CreatedAt.IsZero()),
		null.NewTime(crs.UpdatedAt.UTC(), !crs.UpdatedAt.IsZero()),
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) QueryCourses(ctx context.Context, filter *course.CourseQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]course.Course, int, error) {
	qb := new(queryBuilder)

	if filter != nil {
		// courses with Title or Description matching the search keyword
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			qb.where("(title ILIKE ? OR description ILIKE ?)", val, val)
		}
		if filter.IsPublished != nil {
			qb.where("is_published = ?", *filter.IsPublished)
		}
		if filter.IsFeatured != nil {
			qb.where("is_featured = ?", *filter.IsFeatured)
		}
		// courses carrying any of the provided tags/topics
		if len(filter.Tags) > 0 {
			qb.where("tags && ?", pq.Array(filter.Tags))
		}
		if len(filter.Topics) > 0 {
			qb.where("topics && ?", pq.Array(filter.Topics))
		}
		if filter.CreatedBy != "" {
			qb.where("created_by = ?", filter.CreatedBy)
		}
		if !filter.CreatedFrom.IsZero() {
			qb.where("created_at >= ?", filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			qb.where("created_at <= ?", filter.CreatedTo.UTC())
		}
	}

	var count int
	q := repo.exec.Rebind(`SELECT COUNT(*) FROM course` + qb.whereClause())
	if err := repo.exec.GetContext(ctx, &count, q, qb.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting courses")
	}

	var rows []courseRow
	q = repo.exec.Rebind(`SELECT * FROM course` + qb.whereClause() + orderingClause(ordering) + pagingClause(paging))
	if err := repo.exec.SelectContext(ctx, &rows, q, qb.args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.toCourse())
	}
	return courses, count, nil
}

func (repo courseRepository) getCourse(ctx context.Context, cond string, args ...interface{}) (course.Course, error) {
	var row courseRow
	q := repo.exec.Rebind(`SELECT * FROM course WHERE ` + cond)
	if err := repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, course.ErrCourseNotFound, "finding course")
	}
	return row.toCourse(), nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Course{}, course.ErrCourseNotFound
	}
	return repo.getCourse(ctx, "id = ?", id)
}

func (repo courseRepository) GetCourseBySlug(ctx context.Context, slug string) (course.Course, error) {
	return repo.getCourse(ctx, "slug = ?", slug)
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course, isPublished, isFeatured *bool) (course.Course, error) {
	if _, err := uuid.Parse(crs.ID); err != nil {
		return course.Course{}, course.ErrCourseNotFound
	}

	sets := make([]string, 0, 9)
	args := make([]interface{}, 0, 9)
	set := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}

	if crs.Title != "" {
		set("title", crs.Title)
	}
	if crs.Slug != "" {
		set("slug", crs.Slug)
	}
	if crs.Description != "" {
		set("description", crs.Description)
	}
	if crs.Tags != nil {
		set("tags", pq.Array(crs.Tags))
	}
	if crs.Topics != nil {
		set("topics", pq.Array(crs.Topics))
	}
	if isPublished != nil {
		set("is_published", *isPublished)
	}
	if isFeatured != nil {
		set("is_featured", *isFeatured)
	}
	if !crs.PublishedAt.IsZero() {
		set("published_at", crs.PublishedAt.UTC())
	}
	if !crs.UpdatedAt.IsZero() {
		set("updated_at", crs.UpdatedAt.UTC())
	}
	if len(sets) == 0 {
		return repo.GetCourseByID(ctx, crs.ID)
	}
	args = append(args, crs.ID)

	var row courseRow
	q := repo.exec.Rebind(`UPDATE course SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING *`)
	if err := repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, course.ErrCourseNotFound, "updating course")
	}
	return row.toCourse(), nil
}

func (repo courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q := repo.exec.Rebind(`DELETE FROM course WHERE id = ANY(?)`)
	if _, err := repo.exec.ExecContext(ctx, q, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return nil
}

// modules

func (repo courseRepository) CreateModule(ctx context.Context, mod course.Module) (course.Module, error) {
	mod.ID = uuid.New().String()
	q := repo.exec.Rebind(`
		INSERT INTO module (id, course_id, title, description, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := repo.exec.ExecContext(ctx, q,
		mod.ID,
		mod.CourseID,
		null.NewString(mod.Title, mod.Title != ""),
		null.NewString(mod.Description, mod.Description != ""),
		mod.Position,
		null.NewTime(mod.CreatedAt.UTC(), !mod.CreatedAt.IsZero()),
		null.NewTime(mod.UpdatedAt.UTC(), !mod.UpdatedAt.IsZero()),
	)
	if err != nil {
		return course.Module{}, errors.Wrap(err, "inserting module")
	}
	return mod, nil
}

func (repo courseRepository) QueryModules(ctx context.Context, filter *course.ModuleQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]course.Module, int, error) {
	qb := new(queryBuilder)

	if filter != nil {
		if filter.CourseID != "" {
			qb.where("course_id = ?", filter.CourseID)
		}
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			qb.where("(title ILIKE ? OR description ILIKE ?)", val, val)
		}
	}

	var count int
	q := repo.exec.Rebind(`SELECT COUNT(*) FROM module` + qb.whereClause())
	if err := repo.exec.GetContext(ctx, &count, q, qb.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting modules")
	}

	var rows []moduleRow
	q = repo.exec.Rebind(`SELECT * FROM module` + qb.whereClause() + orderingClause(ordering) + pagingClause(paging))
	if err := repo.exec.SelectContext(ctx, &rows, q, qb.args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying modules")
	}
	mods := make([]course.Module, 0, len(rows))
	for _, r := range rows {
		mods = append(mods, r.toModule())
	}
	return mods, count, nil
}

func (repo courseRepository) GetModuleByID(ctx context.Context, id string) (course.Module, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Module{}, course.ErrModuleNotFound
	}
	var row moduleRow
	q := repo.exec.Rebind(`SELECT * FROM module WHERE id = ?`)
	if err := repo.exec.GetContext(ctx, &row, q, id); err != nil {
		return course.Module{}, repo.trapNoRowsErr(err, course.ErrModuleNotFound, "finding module")
	}
	return row.toModule(), nil
}

func (repo courseRepository) UpdateModule(ctx context.Context, mod course.Module) (course.Module, error) {
	if _, err := uuid.Parse(mod.ID); err != nil {
		return course.Module{}, course.ErrModuleNotFound
	}

	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	set := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}

	if mod.Title != "" {
		set("title", mod.Title)
	}
	if mod.Description != "" {
		set("description", mod.Description)
	}
	if mod.Position > 0 {
		set("position", mod.Position)
	}
	if !mod.UpdatedAt.IsZero() {
		set("updated_at", mod.UpdatedAt.UTC())
	}
	if len(sets) == 0 {
		return repo.GetModuleByID(ctx, mod.ID)
	}
	args = append(args, mod.ID)

	var row moduleRow
	q := repo.exec.Rebind(`UPDATE module SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING *`)
	if err := repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return course.Module{}, repo.trapNoRowsErr(err, course.ErrModuleNotFound, "updating module")
	}
	return row.toModule(), nil
}

func (repo courseRepository) DeleteModulesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q := repo.exec.Rebind(`DELETE FROM module WHERE id = ANY(?)`)
	if _, err := repo.exec.ExecContext(ctx, q, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting modules")
	}
	return nil
}

func (repo courseRepository) NextModulePosition(ctx context.Context, courseID string) (int, error) {
	var pos int
	q := repo.exec.Rebind(`SELECT COALESCE(MAX(position), 0) + 1 FROM module WHERE course_id = ?`)
	if err := repo.exec.GetContext(ctx, &pos, q, courseID); err != nil {
		return 0, errors.Wrap(err, "getting next module position")
	}
	return pos, nil
}

// lessons

func (repo courseRepository) CheckLessonSlugUniqueness(ctx context.Context, slug string, excludedLessons ...course.Lesson) error {
	qb := new(queryBuilder)
	qb.where("slug = ?", slug)
	if len(excludedLessons) > 0 {
		ids := make([]string, 0, len(excludedLessons))
		for _, lsn := range excludedLessons {
			ids = append(ids, lsn.ID)
		}
		qb.where("id <> ALL(?)", pq.Array(ids))
	}

	var exists bool
	q := repo.exec.Rebind(`SELECT EXISTS (SELECT 1 FROM lesson` + qb.whereClause() + `)`)
	if err := repo.exec.GetContext(ctx, &exists, q, qb.args...); err != nil {
		return errors.Wrap(err, "checking lesson slug uniqueness")
	}
	if exists {
		return course.ErrLessonSlugExists
	}
	return nil
}

func (repo courseRepository) CreateLesson(ctx context.Context, lsn course.Lesson) (course.Lesson, error) {
	lsn.ID = uuid.New().String()
	q := repo.exec.Rebind(`
		INSERT INTO lesson (id, module_id, title, slug, content, video_url, duration_mins, position, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := repo.exec.ExecContext(ctx, q,
		lsn.ID,
		lsn.ModuleID,
		null.NewString(lsn.Title, lsn.Title != ""),
		null.NewString(lsn.Slug, lsn.Slug != ""),
		null.NewString(lsn.Content, lsn.Content != ""),
		null.NewString(lsn.VideoURL, lsn.VideoURL != ""),
		lsn.DurationMins,
		lsn.Position,
		lsn.IsPublished,
		null.NewTime(lsn.CreatedAt.UTC(), !lsn.CreatedAt.IsZero()),
		null.NewTime(lsn.UpdatedAt.UTC(), !lsn.UpdatedAt.IsZero()),
	)
	if err != nil {
		return course.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return lsn, nil
}

func (repo courseRepository) QueryLessons(ctx context.Context, filter *course.LessonQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]course.Lesson, int, error) {
	qb := new(queryBuilder)

	if filter != nil {
		if filter.ModuleID != "" {
			qb.where("module_id = ?", filter.ModuleID)
		}
		if filter.IsPublished != nil {
			qb.where("is_published = ?", *filter.IsPublished)
		}
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			qb.where("(title ILIKE ? OR content ILIKE ?)", val, val)
		}
	}

	var count int
	q := repo.exec.Rebind(`SELECT COUNT(*) FROM lesson` + qb.whereClause())
	if err := repo.exec.GetContext(ctx, &count, q, qb.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting lessons")
	}

	var rows []lessonRow
	q = repo.exec.Rebind(`SELECT * FROM lesson` + qb.whereClause() + orderingClause(ordering) + pagingClause(paging))
	if err := repo.exec.SelectContext(ctx, &rows, q, qb.args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying lessons")
	}
	lessons := make([]course.Lesson, 0, len(rows))
	for _, r := range rows {
		lessons = append(lessons, r.toLesson())
	}
	return lessons, count, nil
}

func (repo courseRepository) GetLessonByID(ctx context.Context, id string) (course.Lesson, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Lesson{}, course.ErrLessonNotFound
	}
	var row lessonRow
	q := repo.exec.Rebind(`SELECT * FROM lesson WHERE id = ?`)
	if err := repo.exec.GetContext(ctx, &row, q, id); err != nil {
		return course.Lesson{}, repo.trapNoRowsErr(err, course.ErrLessonNotFound, "finding lesson")
	}
	return row.toLesson(), nil
}

func (repo courseRepository) UpdateLesson(ctx context.Context, lsn course.Lesson, isPublished *bool) (course.Lesson, error) {
	if _, err := uuid.Parse(lsn.ID); err != nil {
		return course.Lesson{}, course.ErrLessonNotFound
	}

	sets := make([]string, 0, 8)
	args := make([]interface{}, 0, 8)
	set := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}

	if lsn.Title != "" {
		set("title", lsn.Title)
	}
	if lsn.Slug != "" {
		set("slug", lsn.Slug)
	}
	if lsn.Content != "" {
		set("content", lsn.Content)
	}
	if lsn.VideoURL != "" {
		set("video_url", lsn.VideoURL)
	}
	if lsn.DurationMins > 0 {
		set("duration_mins", lsn.DurationMins)
	}
	if lsn.Position > 0 {
		set("position", lsn.Position)
	}
	if isPublished != nil {
		set("is_published", *isPublished)
	}
	if !lsn.UpdatedAt.IsZero() {
		set("updated_at", lsn.UpdatedAt.UTC())
	}
	if len(sets) == 0 {
		return repo.GetLessonByID(ctx, lsn.ID)
	}
	args = append(args, lsn.ID)

	var row lessonRow
	q := repo.exec.Rebind(`UPDATE lesson SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING *`)
	if err := repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return course.Lesson{}, repo.trapNoRowsErr(err, course.ErrLessonNotFound, "updating lesson")
	}
	return row.toLesson(), nil
}

func (repo courseRepository) DeleteLessonsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q := repo.exec.Rebind(`DELETE FROM lesson WHERE id = ANY(?)`)
	if _, err := repo.exec.ExecContext(ctx, q, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting lessons")
	}
	return nil
}

func (repo courseRepository) NextLessonPosition(ctx context.Context, moduleID string) (int, error) {
	var pos int
	q := repo.exec.Rebind(`SELECT COALESCE(MAX(position), 0) + 1 FROM lesson WHERE module_id = ?`)
	if err := repo.exec.GetContext(ctx, &pos, q, moduleID); err != nil {
		return 0, errors.Wrap(err, "getting next lesson position")
	}
	return pos, nil
}

func (repo courseRepository) CountLessonsByCourse(ctx context.Context, courseID string, publishedOnly bool) (int, error) {
	qb := new(queryBuilder)
	qb.where("m.course_id = ?", courseID)
	if publishedOnly {
		qb.where("l.is_published = ?", true)
	}

	var count int
	q := repo.exec.Rebind(`SELECT COUNT(*) FROM lesson l JOIN module m ON m.id = l.module_id` + qb.whereClause())
	if err := repo.exec.GetContext(ctx, &count, q, qb.args...); err != nil {
		return 0, errors.Wrap(err, "counting course lessons")
	}
	return count, nil
}
