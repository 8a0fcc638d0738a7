package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tallybook/internal/services"
)

// SweepHandler exposes the internal settlement sweep endpoint.
type SweepHandler struct {
	sweep services.SweepServicer
}

// NewSweepHandler creates a new SweepHandler
func NewSweepHandler(sweep services.SweepServicer) *SweepHandler {
	return &SweepHandler{sweep: sweep}
}

// Run triggers a settlement sweep
// @Summary     Run a settlement sweep
// @Description Settle every budget slot whose active period has elapsed; guarded by the sweep token
// @Tags        internal
// @Produce     json
// @Param       X-Sweep-Token header string true "Sweep token"
// @Success     200 {object} services.SweepReport "Sweep report"
// @Failure     401 {object} ErrorResponse "Invalid sweep token"
// @Router      /internal/sweep [post]
func (h *SweepHandler) Run(c *gin.Context) {
	report, err := h.sweep.Run(c.Request.Context(), time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
