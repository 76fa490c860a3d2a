package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/roommates"
	"github.com/campusmate/campusmate/internal/service"
)

type roommateAPI struct {
	svc           *service.Service
	defaultViewer string
}

func registerRoommateAPI(g *echo.Group, svc *service.Service, defaultViewer string) {
	api := roommateAPI{svc: svc, defaultViewer: defaultViewer}

	g.GET("", api.search)
}

type searchResponse struct {
	Count   int                      `json:"count"`
	Results []models.RoommateProfile `json:"results"`
}

// search takes the viewer and filter from the query string. Filter keys
// follow the roommate form; "all" and "any" mean no constraint.
func (api *roommateAPI) search(ctx echo.Context) error {
	viewer := ctx.QueryParam("viewer")
	if viewer == "" {
		viewer = api.defaultViewer
	}
	if viewer == "" {
		return errMissingViewer
	}

	values := make(map[string]string)
	for key, vs := range ctx.QueryParams() {
		if len(vs) > 0 {
			values[key] = vs[0]
		}
	}
	filter, err := roommates.FilterFromValues(values)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	results, err := api.svc.SearchRoommates(ctx.Request().Context(), viewer, filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, searchResponse{Count: len(results), Results: results})
}
