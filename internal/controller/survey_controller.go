package controller

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"survey_wizard/internal/middleware"
	"survey_wizard/internal/service"
	"survey_wizard/internal/util"
	"survey_wizard/internal/wizard"
	"survey_wizard/pkg/logger"
	"survey_wizard/web"
)

// SurveyController 渲染问卷页面，表单提交后重定向回当前步骤
type SurveyController struct {
	WizardService *service.WizardService
	BasePath      string
}

func NewSurveyController(wizardService *service.WizardService, basePath string) *SurveyController {
	return &SurveyController{WizardService: wizardService, BasePath: basePath}
}

// Show opens the session on first visit and renders its current phase.
func (c *SurveyController) Show(ctx *gin.Context) {
	view, err := c.WizardService.Start(ctx.Request.Context(), middleware.SessionID(ctx))
	if err != nil {
		c.fail(ctx, middleware.SessionID(ctx), err)
		return
	}
	c.render(ctx, http.StatusOK, view)
}

func (c *SurveyController) Next(ctx *gin.Context) {
	view, err := c.WizardService.Next(ctx.Request.Context(), middleware.SessionID(ctx), formInput(ctx))
	c.after(ctx, view, err)
}

func (c *SurveyController) Previous(ctx *gin.Context) {
	view, err := c.WizardService.Previous(ctx.Request.Context(), middleware.SessionID(ctx))
	c.after(ctx, view, err)
}

func (c *SurveyController) Submit(ctx *gin.Context) {
	view, err := c.WizardService.Submit(ctx.Request.Context(), middleware.SessionID(ctx), formInput(ctx))
	c.after(ctx, view, err)
}

func (c *SurveyController) Retry(ctx *gin.Context) {
	view, err := c.WizardService.Retry(ctx.Request.Context(), middleware.SessionID(ctx))
	c.after(ctx, view, err)
}

func (c *SurveyController) Reload(ctx *gin.Context) {
	view, err := c.WizardService.Reload(ctx.Request.Context(), middleware.SessionID(ctx))
	c.after(ctx, view, err)
}

// after finishes a form post. Accepted actions redirect so a refresh does
// not repeat them; a rejected answer re-renders the step with its errors.
func (c *SurveyController) after(ctx *gin.Context, view wizard.View, err error) {
	sessionID := middleware.SessionID(ctx)
	var ve *wizard.ValidationError
	switch {
	case err == nil, errors.Is(err, wizard.ErrNotApplicable), errors.Is(err, util.ErrSessionNotFound):
		ctx.Redirect(http.StatusSeeOther, c.pageURL(sessionID))
	case errors.Is(err, util.ErrSessionMissing):
		c.render(ctx, http.StatusOK, wizard.View{Phase: wizard.PhaseInvalidSession, Terminal: true})
	case errors.As(err, &ve):
		c.render(ctx, http.StatusUnprocessableEntity, view)
	default:
		c.fail(ctx, sessionID, err)
	}
}

func (c *SurveyController) render(ctx *gin.Context, status int, view wizard.View) {
	ctx.HTML(status, web.PageFor(view.Phase), web.Page{View: view, Action: c.BasePath})
}

func (c *SurveyController) fail(ctx *gin.Context, sessionID string, err error) {
	logger.Log.Error("survey page failed",
		zap.String("session", sessionID),
		zap.String("request_id", ctx.GetString(util.RequestIDKey)),
		zap.Error(err),
	)
	ctx.HTML(http.StatusInternalServerError, web.ErrorPage, web.Page{
		View:   wizard.View{SessionID: sessionID},
		Action: c.BasePath,
	})
}

func (c *SurveyController) pageURL(sessionID string) string {
	return c.BasePath + "?" + url.Values{util.SessionParam: {sessionID}}.Encode()
}

// formInput returns nil when the post carries no answer fields, so the
// stored draft is used.
func formInput(ctx *gin.Context) *wizard.Input {
	value, hasValue := ctx.GetPostForm(wizard.FieldValue)
	comment, hasComment := ctx.GetPostForm(wizard.FieldComment)
	if !hasValue && !hasComment {
		return nil
	}
	return &wizard.Input{Value: value, Comment: comment}
}
