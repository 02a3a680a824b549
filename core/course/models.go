package course

import (
	"context"
	"time"

	"github.com/trezcool/darasa/core"
)

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Topics      []string  `json:"topics"`
	IsPublished bool      `json:"is_published"`
	IsFeatured  bool      `json:"is_featured"`
	PublishedAt time.Time `json:"published_at"` // UTC; zero until first publish
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type Module struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"` // 1-based, unique within a course
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Lesson struct {
	ID           string    `json:"id"`
	ModuleID     string    `json:"module_id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Content      string    `json:"content"`
	VideoURL     string    `json:"video_url"`
	DurationMins int       `json:"duration_mins"`
	Position     int       `json:"position"` // 1-based, unique within a module
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string   `json:"title" validate:"required"`
	Slug        string   `json:"slug" validate:"omitempty,slug"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Topics      []string `json:"topics"`
	IsFeatured  bool     `json:"is_featured"`
}

func (nc *NewCourse) Validate(ctx context.Context, svc Service) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	if nc.Slug = core.CleanString(nc.Slug, true /* lower */); nc.Slug == "" {
		nc.Slug = core.Slugify(nc.Title)
	}

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckSlugUniqueness(ctx, nc.Slug)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Zero-value fields keep their existing values.
type UpdateCourse struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug" validate:"omitempty,slug"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Topics      []string `json:"topics"`
	IsFeatured  *bool    `json:"is_featured"`
}

func (uc *UpdateCourse) Validate(ctx context.Context, origCrs Course, svc Service) error {
	if title := core.CleanString(uc.Title); title != "" {
		uc.Title = title
	} else {
		uc.Title = origCrs.Title
	}
	if slug := core.CleanString(uc.Slug, true /* lower */); slug != "" {
		uc.Slug = slug
	} else {
		uc.Slug = origCrs.Slug
	}
	uc.Description = core.CleanString(uc.Description)

	if err := core.Validate.Struct(uc); err != nil {
		return err
	}
	return svc.CheckSlugUniqueness(ctx, uc.Slug, origCrs)
}

// NewModule contains information needed to create a new Module.
// CourseID comes from the nested route or the request body.
type NewModule struct {
	CourseID    string `json:"course_id" validate:"required,uuid4"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func (nm *NewModule) Validate() error {
	nm.Title = core.CleanString(nm.Title)
	nm.Description = core.CleanString(nm.Description)
	return core.Validate.Struct(nm)
}

type UpdateModule struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    *int   `json:"position" validate:"omitempty,gt=0"`
}

func (um *UpdateModule) Validate(origMod Module) error {
	if title := core.CleanString(um.Title); title != "" {
		um.Title = title
	} else {
		um.Title = origMod.Title
	}
	um.Description = core.CleanString(um.Description)
	return core.Validate.Struct(um)
}

// NewLesson contains information needed to create a new Lesson.
// ModuleID comes from the nested route or the request body.
type NewLesson struct {
	ModuleID     string `json:"module_id" validate:"required,uuid4"`
	Title        string `json:"title" validate:"required"`
	Slug         string `json:"slug" validate:"omitempty,slug"`
	Content      string `json:"content"`
	VideoURL     string `json:"video_url" validate:"omitempty,url"`
	DurationMins int    `json:"duration_mins" validate:"omitempty,gte=0"`
	IsPublished  bool   `json:"is_published"`
}

func (nl *NewLesson) Validate(ctx context.Context, svc Service) error {
	nl.Title = core.CleanString(nl.Title)
	if nl.Slug = core.CleanString(nl.Slug, true /* lower */); nl.Slug == "" {
		nl.Slug = core.Slugify(nl.Title)
	}

	if err := core.Validate.Struct(nl); err != nil {
		return err
	}
	return svc.CheckLessonSlugUniqueness(ctx, nl.Slug)
}

type UpdateLesson struct {
	Title        string `json:"title"`
	Slug         string `json:"slug" validate:"omitempty,slug"`
	Content      string `json:"content"`
	VideoURL     string `json:"video_url" validate:"omitempty,url"`
	DurationMins *int   `json:"duration_mins" validate:"omitempty,gte=0"`
	Position     *int   `json:"position" validate:"omitempty,gt=0"`
	IsPublished  *bool  `json:"is_published"`
}

func (ul *UpdateLesson) Validate(ctx context.Context, origLsn Lesson, svc Service) error {
	if title := core.CleanString(ul.Title); title != "" {
		ul.Title = title
	} else {
		ul.Title = origLsn.Title
	}
	if slug := core.CleanString(ul.Slug, true /* lower */); slug != "" {
		ul.Slug = slug
	} else {
		ul.Slug = origLsn.Slug
	}

	if err := core.Validate.Struct(ul); err != nil {
		return err
	}
	return svc.CheckLessonSlugUniqueness(ctx, ul.Slug, origLsn)
}

// CourseQueryFilter narrows down course list queries. Fields are ANDed;
// Tags and Topics match courses carrying ANY of the provided values.
type CourseQueryFilter struct {
	Search      string    `query:"search"`
	IsPublished *bool     `query:"is_published"`
	IsFeatured  *bool     `query:"is_featured"`
	Tags        []string  `query:"tags"`
	Topics      []string  `query:"topics"`
	CreatedBy   string    `query:"created_by"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *CourseQueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.CreatedBy = core.CleanString(qf.CreatedBy)
}

type ModuleQueryFilter struct {
	CourseID string `query:"course"`
	Search   string `query:"search"`
}

func (qf *ModuleQueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.CourseID = core.CleanString(qf.CourseID)
}

type LessonQueryFilter struct {
	ModuleID    string `query:"module"`
	IsPublished *bool  `query:"is_published"`
	Search      string `query:"search"`
}

func (qf *LessonQueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.ModuleID = core.CleanString(qf.ModuleID)
}
