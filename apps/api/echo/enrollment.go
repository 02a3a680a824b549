package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/enrollment"
	"github.com/trezcool/darasa/core/user"
)

var enrollmentOrderingFields = []string{"status", "enrolled_at", "completed_at"}

type enrollmentApi struct {
	svc     enrollment.Service
	userSvc user.Service
}

func registerEnrollmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc enrollment.Service, userSvc user.Service) {
	api := enrollmentApi{svc: svc, userSvc: userSvc}

	eg := g.Group("/enrollments", jwt)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.GET("/:id/progress", api.progress)
	eg.POST("/:id/drop", api.drop)
}

// Handlers

// query godoc
// @Summary List the authenticated user's enrollments
// @Description Staff may filter by any user; non-staff only see their own.
// @Tags enrollments
// @Produce json
// @Param user query string false "Filter by user ID (staff only)"
// @Param course query string false "Filter by course ID"
// @Param status query string false "Filter by status (active|completed|dropped)"
// @Success 200 {object} PagedResponse
// @Security ApiKeyAuth
// @Router /enrollments [get]
func (api *enrollmentApi) query(ctx echo.Context) error {
	filter := new(enrollment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid query parameters"))
	}
	filter.Clean()
	if !isStaffRequest(ctx) {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		filter.UserID = claims.Subject
	}

	ordering := new(Ordering)
	ordering.Bind(ctx, enrollmentOrderingFields...)
	pagination := new(Pagination)
	pagination.Bind(ctx)

	enrs, count, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings, pagination.Paging())
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if enrs == nil {
		enrs = []enrollment.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, newPagedResponse(pagination, count, enrs))
}

func (api *enrollmentApi) retrieve(ctx echo.Context) error {
	enr, err := api.getOwnEnrollment(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enr)
}

// progress godoc
// @Summary Progress summary for an enrollment
// @Tags enrollments
// @Produce json
// @Success 200 {object} enrollment.Progress
// @Security ApiKeyAuth
// @Router /enrollments/{id}/progress [get]
func (api *enrollmentApi) progress(ctx echo.Context) error {
	enr, err := api.getOwnEnrollment(ctx)
	if err != nil {
		return err
	}

	prg, err := api.svc.Progress(ctx.Request().Context(), enr.ID)
	if err != nil {
		return errors.Wrap(err, "computing progress")
	}
	return ctx.JSON(http.StatusOK, prg)
}

// drop godoc
// @Summary Drop the authenticated user's enrollment
// @Tags enrollments
// @Produce json
// @Success 200 {object} enrollment.Enrollment
// @Security ApiKeyAuth
// @Router /enrollments/{id}/drop [post]
func (api *enrollmentApi) drop(ctx echo.Context) error {
	enr, err := api.getOwnEnrollment(ctx)
	if err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	enr, err = api.svc.Drop(ctx.Request().Context(), usr, enr.CourseID)
	if err != nil {
		return errors.Wrap(err, "dropping enrollment")
	}
	return ctx.JSON(http.StatusOK, enr)
}

// getOwnEnrollment fetches the enrollment and hides other users' enrollments
// from non-staff callers.
func (api *enrollmentApi) getOwnEnrollment(ctx echo.Context) (enrollment.Enrollment, error) {
	enr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "finding enrollment")
	}
	if !isStaffRequest(ctx) {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return enrollment.Enrollment{}, errors.Wrap(err, "getting context claims")
		}
		if enr.UserID != claims.Subject {
			return enrollment.Enrollment{}, errHttpNotFound
		}
	}
	return enr, nil
}
