package handler

import (
	"socioportal/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	h := NewHandler(db, rdb, cfg)

	api := r.Group("/api/v1")
	{
		members := api.Group("/members")
		{
			members.POST("", h.RegisterMember)
			members.GET("", h.ListMembers)
			members.GET("/:id", h.GetMember)
			members.GET("/:id/profile", h.GetMemberProfile)
			members.POST("/:id/verify", h.VerifyMember)
			members.DELETE("/:id", h.DeleteMember)
			members.GET("/:id/points", h.GetBalance)
			members.POST("/:id/points", h.AwardPoints)
			members.GET("/:id/points/history", h.GetPointsHistory)
			members.GET("/:id/points/audit", h.AuditBalance)
		}

		products := api.Group("/products")
		{
			products.POST("", h.CreateProduct)
			products.GET("", h.ListProducts)
			products.GET("/:id", h.GetProduct)
			products.PUT("/:id", h.UpdateProduct)
			products.DELETE("/:id", h.DeleteProduct)
		}

		reservations := api.Group("/reservations")
		{
			reservations.POST("", h.CreateReservation)
			reservations.GET("", h.ListReservations)
			reservations.GET("/:no", h.GetReservation)
			reservations.POST("/:no/confirm", h.ConfirmSale)
			reservations.POST("/:no/cancel", h.CancelReservation)
		}

		prizes := api.Group("/prizes")
		{
			prizes.POST("", h.CreatePrize)
			prizes.GET("", h.ListPrizes)
			prizes.PUT("/:id", h.UpdatePrize)
			prizes.DELETE("/:id", h.DeletePrize)
		}

		redemptions := api.Group("/redemptions")
		{
			redemptions.POST("", h.RedeemPrize)
			redemptions.GET("", h.ListRedemptions)
			redemptions.GET("/:no", h.GetRedemption)
			redemptions.POST("/:no/status", h.UpdateRedemptionStatus)
		}

		events := api.Group("/events")
		{
			events.POST("", h.CreateEvent)
			events.GET("", h.ListEvents)
			events.DELETE("/:id", h.DeleteEvent)
			events.POST("/:id/attendance", h.RegisterAttendance)
		}

		announcements := api.Group("/announcements")
		{
			announcements.POST("", h.CreateAnnouncement)
			announcements.GET("", h.ListAnnouncements)
			announcements.GET("/:id", h.GetAnnouncement)
			announcements.PUT("/:id", h.UpdateAnnouncement)
			announcements.DELETE("/:id", h.DeleteAnnouncement)
			announcements.POST("/:id/comments", h.AddComment)
		}

		djs := api.Group("/djs")
		{
			djs.POST("", h.CreateDJ)
			djs.GET("", h.ListDJs)
			djs.PUT("/:id", h.UpdateDJ)
			djs.DELETE("/:id", h.DeleteDJ)
			djs.POST("/:id/reorder", h.ReorderDJ)
		}

		radio := api.Group("/radio")
		{
			radio.GET("", h.GetRadioConfig)
			radio.PUT("", h.UpdateRadioConfig)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
