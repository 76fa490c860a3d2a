package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/campusmate/campusmate/internal/service"
)

type schoolAPI struct {
	svc *service.Service
}

func registerSchoolAPI(g *echo.Group, svc *service.Service) {
	api := schoolAPI{svc: svc}

	g.GET("/schools", api.list)
	g.GET("/schools/:id", api.retrieve)
	g.GET("/schools/:id/programmes", api.programmes)
	g.GET("/deadlines", api.deadlines)
}

func (api *schoolAPI) list(ctx echo.Context) error {
	schools, err := api.svc.Store.GetSchools(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, schools)
}

func (api *schoolAPI) retrieve(ctx echo.Context) error {
	school, err := api.svc.Store.GetSchool(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, school)
}

func (api *schoolAPI) programmes(ctx echo.Context) error {
	school, err := api.svc.Store.GetSchool(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	programmes, err := api.svc.Store.GetProgrammesBySchool(ctx.Request().Context(), school.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, programmes)
}

// deadlines returns month groups. ?upcoming=true hides past deadlines.
func (api *schoolAPI) deadlines(ctx echo.Context) error {
	upcoming := false
	if raw := ctx.QueryParam("upcoming"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "upcoming must be true or false")
		}
		upcoming = v
	}

	groups, err := api.svc.DeadlineGroups(ctx.Request().Context(), upcoming)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, groups)
}
