package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"survey_wizard/internal/middleware"
	"survey_wizard/internal/service"
	"survey_wizard/internal/util"
	"survey_wizard/internal/wizard"
)

// WizardController 问卷向导的JSON接口
type WizardController struct {
	WizardService *service.WizardService
}

func NewWizardController(wizardService *service.WizardService) *WizardController {
	return &WizardController{WizardService: wizardService}
}

// @Summary 获取问卷状态
// @Tags 问卷
// @Produce json
// @Param session path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/wizard/{session} [get]
func (c *WizardController) Get(ctx *gin.Context) {
	view, err := c.WizardService.View(ctx.Request.Context(), middleware.SessionID(ctx))
	respond(ctx, view, err)
}

// @Summary 开始问卷
// @Tags 问卷
// @Produce json
// @Param session path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/wizard/{session}/start [post]
func (c *WizardController) Start(ctx *gin.Context) {
	view, err := c.WizardService.Start(ctx.Request.Context(), middleware.SessionID(ctx))
	respond(ctx, view, err)
}

// @Summary 保存当前答案
// @Tags 问卷
// @Accept json
// @Produce json
// @Param session path string true "会话ID"
// @Param input body wizard.Input true "答案"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/wizard/{session}/answer [post]
func (c *WizardController) Answer(ctx *gin.Context) {
	var in wizard.Input
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	view, err := c.WizardService.Answer(ctx.Request.Context(), middleware.SessionID(ctx), in)
	respond(ctx, view, err)
}

// @Summary 下一题
// @Tags 问卷
// @Accept json
// @Produce json
// @Param session path string true "会话ID"
// @Param input body wizard.Input false "答案，缺省时使用已保存的草稿"
// @Success 200 {object} util.Response
// @Router /api/wizard/{session}/next [post]
func (c *WizardController) Next(ctx *gin.Context) {
	in, ok := optionalInput(ctx)
	if !ok {
		return
	}
	view, err := c.WizardService.Next(ctx.Request.Context(), middleware.SessionID(ctx), in)
	respond(ctx, view, err)
}

func (c *WizardController) Previous(ctx *gin.Context) {
	view, err := c.WizardService.Previous(ctx.Request.Context(), middleware.SessionID(ctx))
	respond(ctx, view, err)
}

// @Summary 提交问卷
// @Tags 问卷
// @Accept json
// @Produce json
// @Param session path string true "会话ID"
// @Param input body wizard.Input false "最后一题的答案"
// @Success 200 {object} util.Response
// @Router /api/wizard/{session}/submit [post]
func (c *WizardController) Submit(ctx *gin.Context) {
	in, ok := optionalInput(ctx)
	if !ok {
		return
	}
	view, err := c.WizardService.Submit(ctx.Request.Context(), middleware.SessionID(ctx), in)
	respond(ctx, view, err)
}

func (c *WizardController) Retry(ctx *gin.Context) {
	view, err := c.WizardService.Retry(ctx.Request.Context(), middleware.SessionID(ctx))
	respond(ctx, view, err)
}

func (c *WizardController) Reload(ctx *gin.Context) {
	view, err := c.WizardService.Reload(ctx.Request.Context(), middleware.SessionID(ctx))
	respond(ctx, view, err)
}

// optionalInput binds a JSON body when one is present. It writes the error
// response itself and returns false on a malformed body.
func optionalInput(ctx *gin.Context) (*wizard.Input, bool) {
	var in wizard.Input
	err := ctx.ShouldBindJSON(&in)
	if errors.Is(err, io.EOF) {
		return nil, true
	}
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return nil, false
	}
	return &in, true
}

func respond(ctx *gin.Context, view wizard.View, err error) {
	var ve *wizard.ValidationError
	switch {
	case err == nil:
		util.Success(ctx, view)
	case errors.As(err, &ve):
		util.UnprocessableEntity(ctx, ve.Error(), view)
	case errors.Is(err, wizard.ErrNotApplicable):
		util.Conflict(ctx, err.Error(), view)
	case errors.Is(err, util.ErrSessionNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrSessionMissing):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
