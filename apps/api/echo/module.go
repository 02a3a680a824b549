package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
)

var moduleOrderingFields = []string{"position", "title", "created_at"}

type moduleApi struct {
	svc course.Service
}

func registerModuleAPI(g *echo.Group, jwt, optJWT echo.MiddlewareFunc, svc course.Service) {
	api := moduleApi{svc: svc}

	mg := g.Group("/modules")

	sg := mg.Group("", jwt, staffMiddleware())
	sg.POST("", api.create)
	sg.PUT("/:id", api.update)
	sg.PATCH("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
	sg.POST("/:id/lessons", api.createLesson)

	// registered after the subgroup so they override its catch-all routes
	mg.GET("", api.query, optJWT)
	mg.GET("/:id", api.retrieve, optJWT)
	mg.GET("/:id/lessons", api.queryLessons, optJWT)
}

// Handlers

func (api *moduleApi) query(ctx echo.Context) error {
	filter := new(course.ModuleQueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid query parameters"))
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx, moduleOrderingFields...)
	pagination := new(Pagination)
	pagination.Bind(ctx)

	mods, count, err := api.svc.QueryModules(ctx.Request().Context(), filter, ordering.Orderings, pagination.Paging())
	if err != nil {
		return errors.Wrap(err, "querying modules")
	}
	if mods == nil {
		mods = []course.Module{}
	}
	return ctx.JSON(http.StatusOK, newPagedResponse(pagination, count, mods))
}

// create godoc
// @Summary Create a module
// @Description Position is assigned within the course (max+1).
// @Tags modules
// @Accept json
// @Produce json
// @Param module body course.NewModule true "New module"
// @Success 201 {object} course.Module
// @Security ApiKeyAuth
// @Router /modules [post]
func (api *moduleApi) create(ctx echo.Context) error {
	var data course.NewModule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewModule")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	mod, err := api.svc.CreateModule(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating module")
	}
	return ctx.JSON(http.StatusCreated, mod)
}

func (api *moduleApi) retrieve(ctx echo.Context) error {
	mod, err := api.svc.GetModuleByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding module")
	}
	return ctx.JSON(http.StatusOK, mod)
}

func (api *moduleApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	mod, err := api.svc.GetModuleByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding module")
	}

	var data course.UpdateModule
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateModule")
	}
	if err = data.Validate(mod); err != nil {
		return err
	}

	mod, err = api.svc.UpdateModule(reqCtx, mod.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating module")
	}
	return ctx.JSON(http.StatusOK, mod)
}

func (api *moduleApi) destroy(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	mod, err := api.svc.GetModuleByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding module")
	}
	if err = api.svc.DeleteModules(reqCtx, mod.ID); err != nil {
		return errors.Wrap(err, "deleting module")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// nested lessons

func (api *moduleApi) queryLessons(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	mod, err := api.svc.GetModuleByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding module")
	}

	filter := &course.LessonQueryFilter{ModuleID: mod.ID, Search: core.CleanString(ctx.QueryParam("search"))}
	if !isStaffRequest(ctx) {
		published := true
		filter.IsPublished = &published
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, lessonOrderingFields...)
	pagination := new(Pagination)
	pagination.Bind(ctx)

	lessons, count, err := api.svc.QueryLessons(reqCtx, filter, ordering.Orderings, pagination.Paging())
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	if lessons == nil {
		lessons = []course.Lesson{}
	}
	return ctx.JSON(http.StatusOK, newPagedResponse(pagination, count, lessons))
}

func (api *moduleApi) createLesson(ctx echo.Context) error {
	var data course.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	data.ModuleID = ctx.Param("id")
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	lsn, err := api.svc.CreateLesson(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return ctx.JSON(http.StatusCreated, lsn)
}
