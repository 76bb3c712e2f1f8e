package handler

import (
	"socioportal/internal/model"
	"socioportal/internal/service"
	"socioportal/pkg/dates"
	"socioportal/pkg/response"

	"github.com/gin-gonic/gin"
)

// ============================================================
// Product catalog
// ============================================================

// CreateProduct adds a merch item with its size variants.
// POST /api/v1/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, product)
}

// UpdateProduct replaces the item's fields and variant set.
// PUT /api/v1/products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, product)
}

// GetProduct returns one item with its variants.
// GET /api/v1/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, product)
}

// ListProducts lists the catalog. active=true limits to reservable items.
// GET /api/v1/products?active=true
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"list": products, "total": len(products)})
}

// DeleteProduct removes a catalog item.
// DELETE /api/v1/products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

// ============================================================
// Prize catalog
// ============================================================

type PrizeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PointsCost  int64  `json:"points_cost" binding:"required,gt=0"`
	Stock       int64  `json:"stock" binding:"gte=0"`
	Active      *bool  `json:"active"`
}

func (r *PrizeRequest) apply(prize *model.Prize) {
	prize.Name = r.Name
	prize.Description = r.Description
	prize.Category = r.Category
	prize.PointsCost = r.PointsCost
	prize.Stock = r.Stock
	if r.Active != nil {
		prize.Active = *r.Active
	} else {
		prize.Active = true
	}
}

// CreatePrize adds a rewards catalog entry.
// POST /api/v1/prizes
func (h *Handler) CreatePrize(c *gin.Context) {
	var req PrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	prize := &model.Prize{}
	req.apply(prize)
	if err := h.catalogService.CreatePrize(c.Request.Context(), prize); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, prize)
}

// UpdatePrize replaces a prize's fields.
// PUT /api/v1/prizes/:id
func (h *Handler) UpdatePrize(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req PrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	prize, err := h.catalogService.GetPrize(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	req.apply(prize)
	if err := h.catalogService.UpdatePrize(c.Request.Context(), prize); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, prize)
}

// ListPrizes lists the rewards catalog.
// GET /api/v1/prizes?active=true
func (h *Handler) ListPrizes(c *gin.Context) {
	prizes, err := h.catalogService.ListPrizes(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"list": prizes, "total": len(prizes)})
}

// DeletePrize removes a rewards catalog entry.
// DELETE /api/v1/prizes/:id
func (h *Handler) DeletePrize(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeletePrize(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

// ============================================================
// Events and attendance
// ============================================================

type EventRequest struct {
	Name      string `json:"name" binding:"required"`
	EventDate string `json:"event_date"`
	Points    int64  `json:"points" binding:"gte=0"`
}

// CreateEvent adds an event with its attendance points.
// POST /api/v1/events
func (h *Handler) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	event := &model.Event{Name: req.Name, EventDate: req.EventDate, Points: req.Points}
	if err := h.eventService.Create(c.Request.Context(), event); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, event)
}

// ListEvents lists all events.
// GET /api/v1/events
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"list": events, "total": len(events)})
}

// DeleteEvent removes an event.
// DELETE /api/v1/events/:id
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

type AttendanceRequest struct {
	MemberID int64 `json:"member_id" binding:"required"`
}

// RegisterAttendance logs a socio at an event and credits its points.
// POST /api/v1/events/:id/attendance
func (h *Handler) RegisterAttendance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	attendance, err := h.eventService.RegisterAttendance(c.Request.Context(), id, req.MemberID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, attendance)
}

// ============================================================
// Announcements and comments
// ============================================================

type AnnouncementRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
}

// CreateAnnouncement publishes a front-page post dated today.
// POST /api/v1/announcements
func (h *Handler) CreateAnnouncement(c *gin.Context) {
	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	announcement := &model.Announcement{
		Title:       req.Title,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		PublishDate: dates.Today(),
	}
	if err := h.contentService.CreateAnnouncement(c.Request.Context(), announcement); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, announcement)
}

// ListAnnouncements lists posts newest-first, comments included.
// GET /api/v1/announcements
func (h *Handler) ListAnnouncements(c *gin.Context) {
	announcements, err := h.contentService.ListAnnouncements(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"list": announcements, "total": len(announcements)})
}

// GetAnnouncement returns one post with its comments.
// GET /api/v1/announcements/:id
func (h *Handler) GetAnnouncement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	announcement, err := h.contentService.GetAnnouncement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, announcement)
}

// UpdateAnnouncement edits a post.
// PUT /api/v1/announcements/:id
func (h *Handler) UpdateAnnouncement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	announcement, err := h.contentService.GetAnnouncement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	announcement.Title = req.Title
	announcement.Content = req.Content
	announcement.ImageURL = req.ImageURL
	if err := h.contentService.UpdateAnnouncement(c.Request.Context(), announcement); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, announcement)
}

// DeleteAnnouncement removes a post and its comments.
// DELETE /api/v1/announcements/:id
func (h *Handler) DeleteAnnouncement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteAnnouncement(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

type CommentRequest struct {
	AuthorID int64  `json:"author_id" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

// AddComment posts a comment; the author must be a verified socio.
// POST /api/v1/announcements/:id/comments
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	comment, err := h.contentService.AddComment(c.Request.Context(), id, req.AuthorID, req.Text, dates.Today())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, comment)
}

// ============================================================
// DJ roster
// ============================================================

type DJRequest struct {
	Name         string `json:"name" binding:"required"`
	Bio          string `json:"bio"`
	Style        string `json:"style"`
	ImageURL     string `json:"image_url"`
	PresskitURL  string `json:"presskit_url"`
	Instagram    string `json:"instagram"`
	Soundcloud   string `json:"soundcloud"`
	Spotify      string `json:"spotify"`
	BookingEmail string `json:"booking_email"`
	Phone        string `json:"phone"`
}

func (r *DJRequest) apply(dj *model.DJ) {
	dj.Name = r.Name
	dj.Bio = r.Bio
	dj.Style = r.Style
	dj.ImageURL = r.ImageURL
	dj.PresskitURL = r.PresskitURL
	dj.Instagram = r.Instagram
	dj.Soundcloud = r.Soundcloud
	dj.Spotify = r.Spotify
	dj.BookingEmail = r.BookingEmail
	dj.Phone = r.Phone
}

// CreateDJ appends a roster entry at the end of the listing.
// POST /api/v1/djs
func (h *Handler) CreateDJ(c *gin.Context) {
	var req DJRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	dj := &model.DJ{}
	req.apply(dj)
	if err := h.contentService.CreateDJ(c.Request.Context(), dj); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, dj)
}

// ListDJs lists the roster in display order.
// GET /api/v1/djs
func (h *Handler) ListDJs(c *gin.Context) {
	djs, err := h.contentService.ListDJs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"list": djs, "total": len(djs)})
}

// UpdateDJ edits a roster entry.
// PUT /api/v1/djs/:id
func (h *Handler) UpdateDJ(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req DJRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	dj, err := h.contentService.GetDJ(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	req.apply(dj)
	if err := h.contentService.UpdateDJ(c.Request.Context(), dj); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, dj)
}

// DeleteDJ removes a roster entry.
// DELETE /api/v1/djs/:id
func (h *Handler) DeleteDJ(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteDJ(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

type ReorderRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// ReorderDJ moves a roster entry one position up or down.
// POST /api/v1/djs/:id/reorder
func (h *Handler) ReorderDJ(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	if err := h.contentService.ReorderDJ(c.Request.Context(), id, req.Direction); err != nil {
		respondError(c, err)
		return
	}

	djs, err := h.contentService.ListDJs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"list": djs})
}

// ============================================================
// Radio
// ============================================================

// GetRadioConfig returns the stream configuration.
// GET /api/v1/radio
func (h *Handler) GetRadioConfig(c *gin.Context) {
	cfg, err := h.contentService.GetRadioConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, cfg)
}

type RadioRequest struct {
	StreamURL string `json:"stream_url" binding:"required"`
	InfoText  string `json:"info_text"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateRadioConfig replaces the stream configuration.
// PUT /api/v1/radio
func (h *Handler) UpdateRadioConfig(c *gin.Context) {
	var req RadioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	cfg := &model.RadioConfig{
		ID:        1,
		StreamURL: req.StreamURL,
		InfoText:  req.InfoText,
		IsActive:  true,
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}

	if err := h.contentService.UpdateRadioConfig(c.Request.Context(), cfg); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, cfg)
}
