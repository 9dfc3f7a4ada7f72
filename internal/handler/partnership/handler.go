package partnership

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/consultapp/partner-api/internal/handler"
	"github.com/consultapp/partner-api/internal/middleware"
	"github.com/consultapp/partner-api/internal/model"
	partnershipService "github.com/consultapp/partner-api/internal/service/partnership"
	apperrors "github.com/consultapp/partner-api/pkg/errors"
)

// maxConflictRetries bounds how often a Conflict is retried here before
// being surfaced. Each retry re-invokes the engine, which re-reads and
// re-validates; the engine itself never retries.
const maxConflictRetries = 3

type Handler struct {
	service partnershipService.PartnershipServicer
}

func NewHandler(service partnershipService.PartnershipServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	partnerships := r.Group("/partnerships")
	{
		partnerships.POST("", h.CreateRequest)
		partnerships.POST("/:id/respond", h.Respond)
		partnerships.DELETE("/:id", h.Remove)
		partnerships.GET("/views", h.GetViews)
	}
}

type createRequestBody struct {
	CounterpartyID string `json:"counterparty_id" binding:"required,uuid"`
	Message        string `json:"message" binding:"required"`
}

type respondBody struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

func (h *Handler) CreateRequest(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing actor identity"))
		return
	}

	var req createRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	counterpartyID, err := uuid.Parse(req.CounterpartyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid counterparty ID"))
		return
	}

	p, err := h.service.CreateRequest(c.Request.Context(), actor.Role, actor.ID, counterpartyID, req.Message)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

func (h *Handler) Respond(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing actor identity"))
		return
	}

	partnershipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid partnership ID"))
		return
	}

	var req respondBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	decision := model.ApprovalApproved
	if req.Decision == "rejected" {
		decision = model.ApprovalRejected
	}

	var p *model.Partnership
	for attempt := 0; ; attempt++ {
		p, err = h.service.Respond(c.Request.Context(), partnershipID, actor.Role, actor.ID, decision)
		if err == nil || !apperrors.IsCode(err, apperrors.ErrConflict) || attempt == maxConflictRetries {
			break
		}
	}
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

// Remove expects the caller to have confirmed the destructive action with
// the user out of band; no confirmation happens server side.
func (h *Handler) Remove(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing actor identity"))
		return
	}

	partnershipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid partnership ID"))
		return
	}

	if err := h.service.Remove(c.Request.Context(), partnershipID, actor.Role, actor.ID); err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) GetViews(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing actor identity"))
		return
	}

	views, err := h.service.GetViews(c.Request.Context(), actor.Role, actor.ID, c.Query("q"))
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(views))
}
