package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusmate/campusmate/internal/service"
)

type checklistAPI struct {
	svc *service.Service
}

func registerChecklistAPI(g *echo.Group, svc *service.Service) {
	api := checklistAPI{svc: svc}

	g.GET("", api.catalog)
	g.GET("/progress", api.progress)
	g.DELETE("/progress", api.reset)
	g.GET("/selection", api.selection)
	g.PUT("/selection", api.setSelection)
	g.POST("/steps/:id/toggle", api.toggle)
	g.PUT("/steps/:id", api.setStep)
	g.GET("/export", api.export)
}

type selectionBody struct {
	IDs []string `json:"ids"`
}

type stepBody struct {
	Done bool `json:"done"`
}

type stepResponse struct {
	StepID string `json:"step_id"`
	Done   bool   `json:"done"`
}

func (api *checklistAPI) catalog(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Catalog)
}

// progress reports on ?ids=a,b (repeatable) or, without the parameter, on the
// saved selection. An empty ids value selects nothing.
func (api *checklistAPI) progress(ctx echo.Context) error {
	var ids []string
	if raw, ok := ctx.QueryParams()["ids"]; ok {
		ids = []string{}
		for _, v := range raw {
			for _, id := range strings.Split(v, ",") {
				if id = strings.TrimSpace(id); id != "" {
					ids = append(ids, id)
				}
			}
		}
	}

	report, err := api.svc.Progress(ctx.Request().Context(), ids)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *checklistAPI) reset(ctx echo.Context) error {
	if err := api.svc.ResetChecklists(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *checklistAPI) selection(ctx echo.Context) error {
	ids, err := api.svc.Selection(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, selectionBody{IDs: ids})
}

func (api *checklistAPI) setSelection(ctx echo.Context) error {
	var body selectionBody
	if err := ctx.Bind(&body); err != nil {
		return err
	}
	ids, err := api.svc.SetSelection(ctx.Request().Context(), body.IDs)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, selectionBody{IDs: ids})
}

func (api *checklistAPI) toggle(ctx echo.Context) error {
	stepID := ctx.Param("id")
	done, err := api.svc.ToggleStep(ctx.Request().Context(), stepID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stepResponse{StepID: stepID, Done: done})
}

func (api *checklistAPI) setStep(ctx echo.Context) error {
	stepID := ctx.Param("id")
	var body stepBody
	if err := ctx.Bind(&body); err != nil {
		return err
	}
	if err := api.svc.SetStep(ctx.Request().Context(), stepID, body.Done); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stepResponse{StepID: stepID, Done: body.Done})
}

func (api *checklistAPI) export(ctx echo.Context) error {
	filename, content, err := api.svc.Export(ctx.Request().Context())
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(content))
}
