package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db}
}

// courses

func (repo *courseRepository) queryCourses() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.courseTable))
	for _, crs := range repo.db.courseTable {
		courses = append(courses, *crs)
	}
	return courses
}

func (repo *courseRepository) CheckCourseSlugUniqueness(_ context.Context, slug string, excludedCourses ...course.Course) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, crs := range repo.queryCourses() {
		if crs.Slug != slug {
			continue
		}
		var excluded bool
		for _, excl := range excludedCourses {
			if excl.ID == crs.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return course.ErrSlugExists
		}
	}
	return nil
}

func (repo *courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	crs.ID = uuid.New().String()
	repo.db.courseTable[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryCourses(_ context.Context, filter *course.CourseQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]course.Course, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courseTable))
	for _, crs := range repo.queryCourses() {
		if matchCourse(crs, filter) {
			courses = append(courses, crs)
		}
	}

	applyOrdering(courses, ordering, func(a, b course.Course, field string) bool {
		switch field {
		case "title":
			return a.Title < b.Title
		case "slug":
			return a.Slug < b.Slug
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "published_at":
			return a.PublishedAt.Before(b.PublishedAt)
		}
		return false
	})

	count := len(courses)
	start, end := pageBounds(count, paging)
	return courses[start:end], count, nil
}

func matchCourse(crs course.Course, filter *course.CourseQueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Search != "" && !searchMatch(filter.Search, crs.Title, crs.Description) {
		return false
	}
	if filter.IsPublished != nil && crs.IsPublished != *filter.IsPublished {
		return false
	}
	if filter.IsFeatured != nil && crs.IsFeatured != *filter.IsFeatured {
		return false
	}
	if len(filter.Tags) > 0 && !anyOverlap(crs.Tags, filter.Tags) {
		return false
	}
	if len(filter.Topics) > 0 && !anyOverlap(crs.Topics, filter.Topics) {
		return false
	}
	if filter.CreatedBy != "" && crs.CreatedBy != filter.CreatedBy {
		return false
	}
	if !filter.CreatedFrom.IsZero() && crs.CreatedAt.Before(filter.CreatedFrom) {
		return false
	}
	if !filter.CreatedTo.IsZero() && crs.CreatedAt.After(filter.CreatedTo) {
		return false
	}
	return true
}

func anyOverlap(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (repo *courseRepository) GetCourseByID(_ context.Context, id string) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if crs, ok := repo.db.courseTable[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrCourseNotFound
}

func (repo *courseRepository) GetCourseBySlug(_ context.Context, slug string) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, crs := range repo.queryCourses() {
		if crs.Slug == slug {
			return crs, nil
		}
	}
	return course.Course{}, course.ErrCourseNotFound
}

func (repo *courseRepository) UpdateCourse(_ context.Context, crs course.Course, isPublished, isFeatured *bool) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	origCrs, ok := repo.db.courseTable[crs.ID]
	if !ok {
		return course.Course{}, course.ErrCourseNotFound
	}
	if crs.Title != "" {
		origCrs.Title = crs.Title
	}
	if crs.Slug != "" {
		origCrs.Slug = crs.Slug
	}
	if crs.Description != "" {
		origCrs.Description = crs.Description
	}
	if crs.Tags != nil {
		origCrs.Tags = crs.Tags
	}
	if crs.Topics != nil {
		origCrs.Topics = crs.Topics
	}
	if isPublished != nil {
		origCrs.IsPublished = *isPublished
	}
	if isFeatured != nil {
		origCrs.IsFeatured = *isFeatured
	}
	if !crs.PublishedAt.IsZero() {
		origCrs.PublishedAt = crs.PublishedAt
	}
	if !crs.UpdatedAt.IsZero() {
		origCrs.UpdatedAt = crs.UpdatedAt
	}
	return *origCrs, nil
}

func (repo *courseRepository) DeleteCoursesByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.courseTable, id)
	}
	return nil
}

// modules

func (repo *courseRepository) queryModules() []course.Module {
	mods := make([]course.Module, 0, len(repo.db.moduleTable))
	for _, mod := range repo.db.moduleTable {
		mods = append(mods, *mod)
	}
	return mods
}

func (repo *courseRepository) CreateModule(_ context.Context, mod course.Module) (course.Module, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	mod.ID = uuid.New().String()
	repo.db.moduleTable[mod.ID] = &mod
	return mod, nil
}

func (repo *courseRepository) QueryModules(_ context.Context, filter *course.ModuleQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]course.Module, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	mods := make([]course.Module, 0, len(repo.db.moduleTable))
	for _, mod := range repo.queryModules() {
		if filter != nil {
			if filter.CourseID != "" && mod.CourseID != filter.CourseID {
				continue
			}
			if filter.Search != "" && !searchMatch(filter.Search, mod.Title, mod.Description) {
				continue
			}
		}
		mods = append(mods, mod)
	}

	applyOrdering(mods, ordering, func(a, b course.Module, field string) bool {
		switch field {
		case "position":
			return a.Position < b.Position
		case "title":
			return a.Title < b.Title
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return false
	})

	count := len(mods)
	start, end := pageBounds(count, paging)
	return mods[start:end], count, nil
}

func (repo *courseRepository) GetModuleByID(_ context.Context, id string) (course.Module, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if mod, ok := repo.db.moduleTable[id]; ok {
		return *mod, nil
	}
	return course.Module{}, course.ErrModuleNotFound
}

func (repo *courseRepository) UpdateModule(_ context.Context, mod course.Module) (course.Module, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	origMod, ok := repo.db.moduleTable[mod.ID]
	if !ok {
		return course.Module{}, course.ErrModuleNotFound
	}
	if mod.Title != "" {
		origMod.Title = mod.Title
	}
	if mod.Description != "" {
		origMod.Description = mod.Description
	}
	if mod.Position > 0 {
		origMod.Position = mod.Position
	}
	if !mod.UpdatedAt.IsZero() {
		origMod.UpdatedAt = mod.UpdatedAt
	}
	return *origMod, nil
}

func (repo *courseRepository) DeleteModulesByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.moduleTable, id)
	}
	return nil
}

func (repo *courseRepository) NextModulePosition(_ context.Context, courseID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	max := 0
	for _, mod := range repo.queryModules() {
		if mod.CourseID == courseID && mod.Position > max {
			max = mod.Position
		}
	}
	return max + 1, nil
}

// lessons

func (repo *courseRepository) queryLessons() []course.Lesson {
	lessons := make([]course.Lesson, 0, len(repo.db.lessonTable))
	for _, lsn := range repo.db.lessonTable {
		lessons = append(lessons, *lsn)
	}
	return lessons
}

func (repo *courseRepository) CheckLessonSlugUniqueness(_ context.Context, slug string, excludedLessons ...course.Lesson) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, lsn := range repo.queryLessons() {
		if lsn.Slug != slug {
			continue
		}
		var excluded bool
		for _, excl := range excludedLessons {
			if excl.ID == lsn.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return course.ErrLessonSlugExists
		}
	}
	return nil
}

func (repo *courseRepository) CreateLesson(_ context.Context, lsn course.Lesson) (course.Lesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	lsn.ID = uuid.New().String()
	repo.db.lessonTable[lsn.ID] = &lsn
	return lsn, nil
}

func (repo *courseRepository) QueryLessons(_ context.Context, filter *course.LessonQueryFilter, ordering []core.DBOrdering, paging *core.DBPaging) ([]course.Lesson, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	lessons := make([]course.Lesson, 0, len(repo.db.lessonTable))
	for _, lsn := range repo.queryLessons() {
		if filter != nil {
			if filter.ModuleID != "" && lsn.ModuleID != filter.ModuleID {
				continue
			}
			if filter.IsPublished != nil && lsn.IsPublished != *filter.IsPublished {
				continue
			}
			if filter.Search != "" && !searchMatch(filter.Search, lsn.Title, lsn.Content) {
				continue
			}
		}
		lessons = append(lessons, lsn)
	}

	applyOrdering(lessons, ordering, func(a, b course.Lesson, field string) bool {
		switch field {
		case "position":
			return a.Position < b.Position
		case "title":
			return a.Title < b.Title
		case "duration_mins":
			return a.DurationMins < b.DurationMins
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return false
	})

	count := len(lessons)
	start, end := pageBounds(count, paging)
	return lessons[start:end], count, nil
}

func (repo *courseRepository) GetLessonByID(_ context.Context, id string) (course.Lesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if lsn, ok := repo.db.lessonTable[id]; ok {
		return *lsn, nil
	}
	return course.Lesson{}, course.ErrLessonNotFound
}

func (repo *courseRepository) UpdateLesson(_ context.Context, lsn course.Lesson, isPublished *bool) (course.Lesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	origLsn, ok := repo.db.lessonTable[lsn.ID]
	if !ok {
		return course.Lesson{}, course.ErrLessonNotFound
	}
	if lsn.Title != "" {
		origLsn.Title = lsn.Title
	}
	if lsn.Slug != "" {
		origLsn.Slug = lsn.Slug
	}
	if lsn.Content != "" {
		origLsn.Content = lsn.Content
	}
	if lsn.VideoURL != "" {
		origLsn.VideoURL = lsn.VideoURL
	}
	if lsn.DurationMins > 0 {
		origLsn.DurationMins = lsn.DurationMins
	}
	if lsn.Position > 0 {
		origLsn.Position = lsn.Position
	}
	if isPublished != nil {
		origLsn.IsPublished = *isPublished
	}
	if !lsn.UpdatedAt.IsZero() {
		origLsn.UpdatedAt = lsn.UpdatedAt
	}
	return *origLsn, nil
}

func (repo *courseRepository) DeleteLessonsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.lessonTable, id)
	}
	return nil
}

func (repo *courseRepository) NextLessonPosition(_ context.Context, moduleID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	max := 0
	for _, lsn := range repo.queryLessons() {
		if lsn.ModuleID == moduleID && lsn.Position > max {
			max = lsn.Position
		}
	}
	return max + 1, nil
}

func (repo *courseRepository) CountLessonsByCourse(_ context.Context, courseID string, publishedOnly bool) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	moduleIDs := make(map[string]struct{})
	for _, mod := range repo.queryModules() {
		if mod.CourseID == courseID {
			moduleIDs[mod.ID] = struct{}{}
		}
	}

	count := 0
	for _, lsn := range repo.queryLessons() {
		if _, ok := moduleIDs[lsn.ModuleID]; !ok {
			continue
		}
		if publishedOnly && !lsn.IsPublished {
			continue
		}
		count++
	}
	return count, nil
}
