package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enrollment"
	"github.com/trezcool/darasa/core/user"
)

var courseOrderingFields = []string{"title", "slug", "created_at", "updated_at", "published_at"}

type courseApi struct {
	svc       course.Service
	enrollSvc enrollment.Service
	userSvc   user.Service
}

func registerCourseAPI(
	g *echo.Group,
	jwt, optJWT echo.MiddlewareFunc,
	svc course.Service,
	enrollSvc enrollment.Service,
	userSvc user.Service,
) {
	api := courseApi{svc: svc, enrollSvc: enrollSvc, userSvc: userSvc}

	cg := g.Group("/courses")

	// staff writes
	sg := cg.Group("", jwt, staffMiddleware())
	sg.POST("", api.create)
	sg.PUT("/:id", api.update)
	sg.PATCH("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
	sg.POST("/:id/publish", api.publish)
	sg.POST("/:id/modules", api.createModule)

	// public reads; staff get unpublished content via their token
	// (registered after the subgroup so they override its catch-all routes)
	cg.GET("", api.query, optJWT)
	cg.GET("/featured", api.featured, optJWT)
	cg.GET("/:id", api.retrieve, optJWT)
	cg.GET("/:id/modules", api.queryModules, optJWT)

	// any authenticated user may enroll
	cg.POST("/:id/enroll", api.enroll, jwt)
}

// isStaffRequest reports whether the request carries teacher or admin claims.
func isStaffRequest(ctx echo.Context) bool {
	claims, err := getContextClaims(ctx)
	return err == nil && claims.IsStaff()
}

// Handlers

// query godoc
// @Summary List courses
// @Description Anonymous callers only see published courses.
// @Tags courses
// @Produce json
// @Param search query string false "Search in title & description"
// @Param is_published query bool false "Filter on published state (staff only)"
// @Param tags query []string false "Courses carrying any of these tags"
// @Param topics query []string false "Courses carrying any of these topics"
// @Param ordering query string false "Comma-separated ordering fields"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} PagedResponse
// @Router /courses [get]
func (api *courseApi) query(ctx echo.Context) error {
	filter := new(course.CourseQueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid query parameters"))
	}
	filter.Clean()
	if !isStaffRequest(ctx) {
		published := true
		filter.IsPublished = &published
	}

	ordering := new(Ordering)
	ordering.Bind(ctx, courseOrderingFields...)
	pagination := new(Pagination)
	pagination.Bind(ctx)

	courses, count, err := api.svc.QueryCourses(ctx.Request().Context(), filter, ordering.Orderings, pagination.Paging())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, newPagedResponse(pagination, count, courses))
}

// featured godoc
// @Summary List featured published courses, most recently published first
// @Tags courses
// @Produce json
// @Success 200 {array} course.Course
// @Router /courses/featured [get]
func (api *courseApi) featured(ctx echo.Context) error {
	courses, err := api.svc.FeaturedCourses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying featured courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

// create godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Param course body course.NewCourse true "New course"
// @Success 201 {object} course.Course
// @Security ApiKeyAuth
// @Router /courses [post]
func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	crs, err := api.svc.CreateCourse(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetCourseByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course")
	}
	if !crs.IsPublished && !isStaffRequest(ctx) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	crs, err := api.svc.GetCourseByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course")
	}

	var data course.UpdateCourse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err = data.Validate(reqCtx, crs, api.svc); err != nil {
		return err
	}

	crs, err = api.svc.UpdateCourse(reqCtx, crs.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	crs, err := api.svc.GetCourseByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course")
	}
	if err = api.svc.DeleteCourses(reqCtx, crs.ID); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// publish godoc
// @Summary Publish a course
// @Description Idempotent; the first publish stamps PublishedAt.
// @Tags courses
// @Produce json
// @Success 200 {object} course.Course
// @Security ApiKeyAuth
// @Router /courses/{id}/publish [post]
func (api *courseApi) publish(ctx echo.Context) error {
	crs, err := api.svc.PublishCourse(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "publishing course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

// enroll godoc
// @Summary Enroll the authenticated user in a course
// @Tags courses
// @Produce json
// @Success 201 {object} enrollment.Enrollment
// @Security ApiKeyAuth
// @Router /courses/{id}/enroll [post]
func (api *courseApi) enroll(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	enr, err := api.enrollSvc.Enroll(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "enrolling user")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

// nested modules

func (api *courseApi) queryModules(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	crs, err := api.svc.GetCourseByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course")
	}
	if !crs.IsPublished && !isStaffRequest(ctx) {
		return errHttpNotFound
	}

	filter := &course.ModuleQueryFilter{CourseID: crs.ID, Search: core.CleanString(ctx.QueryParam("search"))}
	ordering := new(Ordering)
	ordering.Bind(ctx, moduleOrderingFields...)
	pagination := new(Pagination)
	pagination.Bind(ctx)

	mods, count, err := api.svc.QueryModules(reqCtx, filter, ordering.Orderings, pagination.Paging())
	if err != nil {
		return errors.Wrap(err, "querying modules")
	}
	if mods == nil {
		mods = []course.Module{}
	}
	return ctx.JSON(http.StatusOK, newPagedResponse(pagination, count, mods))
}

func (api *courseApi) createModule(ctx echo.Context) error {
	var data course.NewModule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewModule")
	}
	data.CourseID = ctx.Param("id")
	if err := data.Validate(); err != nil {
		return err
	}

	mod, err := api.svc.CreateModule(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating module")
	}
	return ctx.JSON(http.StatusCreated, mod)
}
