package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"survey_wizard/internal/repository"
	"survey_wizard/internal/util"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	Store     repository.WizardRepository
	StoreType string
}

func NewHealthController(store repository.WizardRepository, storeType string) *HealthController {
	return &HealthController{Store: store, StoreType: storeType}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	// 检查会话存储连接
	if p, ok := c.Store.(pinger); ok {
		pctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(pctx); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Session store unavailable")
			return
		}
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"store": gin.H{"type": c.StoreType, "status": "up"},
		},
	})
}
