package echoapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/action"
	"github.com/trezcool/darasa/services/effects"
)

type actionApi struct {
	views    *action.Registry
	records  action.RecordRepository
	validate *validator.Validate
}

func registerActionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := actionApi{
		views:    deps.Views,
		records:  deps.Records,
		validate: deps.Validate,
	}

	vg := g.Group("/views/:view", jwt)
	vg.POST("/dispatch", api.dispatch)
	vg.POST("/controls", api.renderControl)
	vg.GET("/processing", api.processing)
	vg.DELETE("", api.release)

	g.GET("/events", api.queryEvents, jwt, adminMiddleware())
}

// Handlers

func (api *actionApi) dispatch(ctx echo.Context) error {
	var data DispatchRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DispatchRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	key, err := viewKey(ctx)
	if err != nil {
		return err
	}
	mgr := api.views.Manager(key, data.Page)

	// the acting user always comes from the token
	partial := data.Context
	partial.UserID = key.UserID

	rec := effects.NewRecorder(data.Clipboard)
	reqCtx := effects.WithRecorder(ctx.Request().Context(), rec)

	res, ok := mgr.HandleClick(reqCtx, data.Config, partial)
	recorded := rec.Close()
	if !ok {
		return errActionInProgress
	}
	return ctx.JSON(http.StatusOK, DispatchResponse{Result: res, Effects: recorded})
}

func (api *actionApi) renderControl(ctx echo.Context) error {
	var data ControlRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ControlRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	key, err := viewKey(ctx)
	if err != nil {
		return err
	}
	mgr := api.views.Manager(key, data.Page)

	ctrl := action.NewControl(mgr, data.Config, data.Label)
	ctrl.Loading = data.Loading
	ctrl.Disabled = data.Disabled

	if strings.Contains(ctx.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML) {
		html, err := ctrl.HTML()
		if err != nil {
			return errors.Wrap(err, "rendering control")
		}
		return ctx.HTML(http.StatusOK, string(html))
	}
	return ctx.JSON(http.StatusOK, ctrl.View())
}

func (api *actionApi) processing(ctx echo.Context) error {
	key, err := viewKey(ctx)
	if err != nil {
		return err
	}
	ids := []string{}
	if mgr, ok := api.views.Lookup(key); ok {
		ids = mgr.InFlight()
	}
	return ctx.JSON(http.StatusOK, ProcessingResponse{Processing: ids})
}

func (api *actionApi) release(ctx echo.Context) error {
	key, err := viewKey(ctx)
	if err != nil {
		return err
	}
	if !api.views.Release(key) {
		return errHttpNotFound
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *actionApi) queryEvents(ctx echo.Context) error {
	filter, err := bindRecordFilter(ctx)
	if err != nil {
		return err
	}
	records, err := api.records.QueryRecords(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying records")
	}
	if records == nil {
		records = []action.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func viewKey(ctx echo.Context) (action.ViewKey, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return action.ViewKey{}, errors.Wrap(err, "getting context claims")
	}
	view := core.CleanString(ctx.Param("view"))
	if view == "" {
		return action.ViewKey{}, errHttpNotFound
	}
	return action.ViewKey{UserID: claims.Subject, ViewID: view}, nil
}

func bindRecordFilter(ctx echo.Context) (action.RecordFilter, error) {
	var filter action.RecordFilter
	var fldErrs []core.FieldError

	filter.Action = action.Action(core.CleanString(ctx.QueryParam("action")))
	if filter.Action != "" && !filter.Action.Valid() {
		fldErrs = append(fldErrs, core.FieldError{Field: "action", Error: "unknown action"})
	}
	filter.UserID = core.CleanString(ctx.QueryParam("user_id"))
	if s := ctx.QueryParam("since"); s != "" {
		since, err := time.Parse(time.RFC3339, s)
		if err != nil {
			fldErrs = append(fldErrs, core.FieldError{Field: "since", Error: "must be an RFC 3339 date"})
		}
		filter.Since = since
	}
	if s := ctx.QueryParam("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			fldErrs = append(fldErrs, core.FieldError{Field: "limit", Error: "must be a positive number"})
		}
		filter.Limit = limit
	}

	if fldErrs != nil {
		return action.RecordFilter{}, core.NewValidationError(nil, fldErrs...)
	}
	return filter, nil
}

type (
	DispatchRequest struct {
		Config    action.EventConfig `json:"config"`
		Context   action.Context     `json:"context"`
		Page      string             `json:"page"`
		Clipboard bool               `json:"clipboard"`
	}

	DispatchResponse struct {
		Result  action.Result    `json:"result"`
		Effects []effects.Effect `json:"effects"`
	}

	ControlRequest struct {
		Config   *action.EventConfig `json:"config"`
		Label    string              `json:"label"`
		Loading  bool                `json:"loading"`
		Disabled bool                `json:"disabled"`
		Page     string              `json:"page"`
	}

	ProcessingResponse struct {
		Processing []string `json:"processing"`
	}
)

func (dr *DispatchRequest) Validate(validate *validator.Validate) error {
	dr.Page = core.CleanString(dr.Page)
	return dr.Config.Validate(validate)
}

func (cr *ControlRequest) Validate(validate *validator.Validate) error {
	cr.Page = core.CleanString(cr.Page)
	cr.Label = core.CleanString(cr.Label)
	if cr.Config == nil {
		return nil
	}
	return cr.Config.Validate(validate)
}
