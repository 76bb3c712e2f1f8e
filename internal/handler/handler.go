package handler

import (
	"errors"
	"strconv"

	"socioportal/internal/config"
	"socioportal/internal/repository"
	"socioportal/internal/service"
	"socioportal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Handler bundles all service dependencies behind the HTTP surface.
type Handler struct {
	memberService      *service.MemberService
	ledgerService      *service.LedgerService
	reservationService *service.ReservationService
	redemptionService  *service.RedemptionService
	eventService       *service.EventService
	catalogService     *service.CatalogService
	contentService     *service.ContentService
}

func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	return &Handler{
		memberService:      service.NewMemberService(db, cfg),
		ledgerService:      service.NewLedgerService(db, cfg),
		reservationService: service.NewReservationService(db, rdb, cfg),
		redemptionService:  service.NewRedemptionService(db, rdb, cfg),
		eventService:       service.NewEventService(db, cfg),
		catalogService:     service.NewCatalogService(db),
		contentService:     service.NewContentService(db),
	}
}

// respondError maps repository sentinels onto business codes. Anything
// unrecognized is a server error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrMemberNotFound):
		response.NotFound(c, response.CodeMemberNotFound, err.Error())
	case errors.Is(err, repository.ErrProductNotFound), errors.Is(err, repository.ErrVariantNotFound):
		response.NotFound(c, response.CodeProductNotFound, err.Error())
	case errors.Is(err, repository.ErrPrizeNotFound):
		response.NotFound(c, response.CodePrizeNotFound, err.Error())
	case errors.Is(err, repository.ErrReservationNotFound):
		response.NotFound(c, response.CodeReservationNotFound, err.Error())
	case errors.Is(err, repository.ErrRedemptionNotFound):
		response.NotFound(c, response.CodeRedemptionNotFound, err.Error())
	case errors.Is(err, repository.ErrEventNotFound), errors.Is(err, repository.ErrAnnouncementNotFound), errors.Is(err, repository.ErrDJNotFound):
		response.NotFound(c, response.CodeEventNotFound, err.Error())
	case errors.Is(err, repository.ErrNotEligible):
		response.BusinessError(c, response.CodeNotEligible, err.Error())
	case errors.Is(err, repository.ErrInsufficientStock):
		response.BusinessError(c, response.CodeInsufficientStock, err.Error())
	case errors.Is(err, repository.ErrInsufficientPoints):
		response.BusinessError(c, response.CodeInsufficientPoints, err.Error())
	case errors.Is(err, repository.ErrPrizeInactive):
		response.BusinessError(c, response.CodePrizeInactive, err.Error())
	case errors.Is(err, repository.ErrPrizeOutOfStock):
		response.BusinessError(c, response.CodePrizeOutOfStock, err.Error())
	case errors.Is(err, repository.ErrAlreadyConfirmed):
		response.BusinessError(c, response.CodeAlreadyConfirmed, err.Error())
	case errors.Is(err, repository.ErrAlreadyCanceled):
		response.BusinessError(c, response.CodeAlreadyCanceled, err.Error())
	case errors.Is(err, repository.ErrAlreadyAttended):
		response.BusinessError(c, response.CodeAlreadyAttended, err.Error())
	case errors.Is(err, repository.ErrInvalidTransition):
		response.BusinessError(c, response.CodeInvalidTransition, err.Error())
	case errors.Is(err, repository.ErrDuplicateMember):
		response.BusinessError(c, response.CodeDuplicateMember, err.Error())
	case errors.Is(err, repository.ErrOptimisticLock):
		response.BusinessError(c, response.CodeConcurrentUpdate, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		response.ParamError(c, name+" must be a number")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// ============================================================
// Members
// ============================================================

// RegisterMember creates a PENDING socio.
// POST /api/v1/members
func (h *Handler) RegisterMember(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	member, err := h.memberService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, member)
}

// VerifyMember approves a pending registration.
// POST /api/v1/members/:id/verify
func (h *Handler) VerifyMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	member, err := h.memberService.Verify(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, member)
}

// GetMember returns the bare member record.
// GET /api/v1/members/:id
func (h *Handler) GetMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	member, err := h.memberService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, member)
}

// ListMembers lists members, optionally filtered by status.
// GET /api/v1/members?status=PENDING
func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.memberService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"list": members, "total": len(members)})
}

// GetMemberProfile returns the member plus points, events and reservations.
// GET /api/v1/members/:id/profile
func (h *Handler) GetMemberProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	profile, err := h.memberService.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, profile)
}

// DeleteMember removes a member and all dependent records.
// DELETE /api/v1/members/:id
func (h *Handler) DeleteMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

// ============================================================
// Points ledger
// ============================================================

// GetBalance returns the cached balance.
// GET /api/v1/members/:id/points
func (h *Handler) GetBalance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	balance, err := h.ledgerService.Balance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"member_id": id, "points": balance})
}

// GetPointsHistory returns the ledger newest-first.
// GET /api/v1/members/:id/points/history?page=1&page_size=20
func (h *Handler) GetPointsHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	entries, total, err := h.ledgerService.History(c.Request.Context(), id, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      entries,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// AuditBalance recomputes the ledger sum against the cached balance.
// GET /api/v1/members/:id/points/audit
func (h *Handler) AuditBalance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	consistent, err := h.ledgerService.Audit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"member_id": id, "consistent": consistent})
}

type AwardPointsRequest struct {
	Points int64  `json:"points" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// AwardPoints is the admin grant or deduction.
// POST /api/v1/members/:id/points
func (h *Handler) AwardPoints(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AwardPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	entry, err := h.memberService.ManualAward(c.Request.Context(), id, req.Points, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, entry)
}

// ============================================================
// Reservations
// ============================================================

// CreateReservation holds stock for a verified socio.
// POST /api/v1/reservations
func (h *Handler) CreateReservation(c *gin.Context) {
	var req service.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	reservation, err := h.reservationService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, reservation)
}

type ConfirmSaleRequest struct {
	Points int64 `json:"points" binding:"required,gt=0"`
}

// ConfirmSale marks the pickup paid and credits the admin-chosen points.
// POST /api/v1/reservations/:no/confirm
func (h *Handler) ConfirmSale(c *gin.Context) {
	var req ConfirmSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	reservation, err := h.reservationService.ConfirmSale(c.Request.Context(), c.Param("no"), req.Points)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, reservation)
}

// CancelReservation releases a pending reservation and its stock.
// POST /api/v1/reservations/:no/cancel
func (h *Handler) CancelReservation(c *gin.Context) {
	if err := h.reservationService.Cancel(c.Request.Context(), c.Param("no")); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"reservation_no": c.Param("no"), "status": "CANCELED"})
}

// GetReservation returns one reservation by number.
// GET /api/v1/reservations/:no
func (h *Handler) GetReservation(c *gin.Context) {
	reservation, err := h.reservationService.Get(c.Request.Context(), c.Param("no"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, reservation)
}

// ListReservations lists reservations, optionally by status.
// GET /api/v1/reservations?status=PENDING&page=1&page_size=20
func (h *Handler) ListReservations(c *gin.Context) {
	page, pageSize := pagination(c)
	reservations, total, err := h.reservationService.List(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      reservations,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ============================================================
// Redemptions
// ============================================================

type RedeemRequest struct {
	MemberID int64 `json:"member_id" binding:"required"`
	PrizeID  int64 `json:"prize_id" binding:"required"`
}

// RedeemPrize exchanges points for one unit of prize stock.
// POST /api/v1/redemptions
func (h *Handler) RedeemPrize(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	redemption, err := h.redemptionService.Redeem(c.Request.Context(), req.MemberID, req.PrizeID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, redemption)
}

type UpdateRedemptionRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateRedemptionStatus moves a redemption to DELIVERED or CANCELED.
// POST /api/v1/redemptions/:no/status
func (h *Handler) UpdateRedemptionStatus(c *gin.Context) {
	var req UpdateRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	redemption, err := h.redemptionService.UpdateStatus(c.Request.Context(), c.Param("no"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, redemption)
}

// GetRedemption returns one redemption by number.
// GET /api/v1/redemptions/:no
func (h *Handler) GetRedemption(c *gin.Context) {
	redemption, err := h.redemptionService.Get(c.Request.Context(), c.Param("no"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, redemption)
}

// ListRedemptions lists redemptions, optionally by status.
// GET /api/v1/redemptions?status=PENDING&page=1&page_size=20
func (h *Handler) ListRedemptions(c *gin.Context) {
	page, pageSize := pagination(c)
	redemptions, total, err := h.redemptionService.List(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      redemptions,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
