package main

import (
	"net/http"

	"uservice/src/access"
	"uservice/src/controllers"
	"uservice/src/middlewares"
	"uservice/src/types"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	bookings := g.Group("/bookings", app.Auth.Required())
	staff := middlewares.RequireRole(access.Staff...)
	bookings.
		POST("", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if !bindJSON(ctx, "Bookings", &body) {
				return
			}
			booking, err := app.Bookings.Create(ctx.Request.Context(), middlewares.CallerFrom(ctx), &body)
			if err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			respondData(ctx, http.StatusCreated, booking)
		}).
		GET("", staff, func(ctx *gin.Context) {
			var query types.BookingQueryFilters
			if !bindQuery(ctx, "Bookings", &query) {
				return
			}
			list, page, err := app.Bookings.List(ctx.Request.Context(), middlewares.CallerFrom(ctx), &query)
			if err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			respondPage(ctx, list, page)
		}).
		GET("/my-bookings", func(ctx *gin.Context) {
			var query types.PageQuery
			if !bindQuery(ctx, "Bookings", &query) {
				return
			}
			list, page, err := app.Bookings.MyBookings(ctx.Request.Context(), middlewares.CallerFrom(ctx), query)
			if err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			respondPage(ctx, list, page)
		}).
		GET("/stats/overview", staff, func(ctx *gin.Context) {
			overview, err := app.Bookings.Overview(ctx.Request.Context(), middlewares.CallerFrom(ctx))
			if err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			respondData(ctx, http.StatusOK, overview)
		}).
		GET("/date-range/:start/:end", staff, func(ctx *gin.Context) {
			var params types.DateRangeParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondError(ctx, "Bookings", controllers.BindingError(err))
				return
			}
			list, err := app.Bookings.InRange(ctx.Request.Context(), middlewares.CallerFrom(ctx), params.Start, params.End)
			if err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			respondData(ctx, http.StatusOK, list)
		}).
		GET("/:id", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			booking, err := app.Bookings.Get(ctx.Request.Context(), middlewares.CallerFrom(ctx), id)
			if err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			respondData(ctx, http.StatusOK, booking)
		}).
		PUT("/:id", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			var body types.UpdateBookingRequestBody
			if !bindJSON(ctx, "Bookings", &body) {
				return
			}
			booking, err := app.Bookings.Update(ctx.Request.Context(), middlewares.CallerFrom(ctx), id, &body)
			if err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			respondData(ctx, http.StatusOK, booking)
		}).
		PATCH("/:id/status", staff, func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			var body types.UpdateBookingStatusRequestBody
			if !bindJSON(ctx, "Bookings", &body) {
				return
			}
			booking, err := app.Bookings.UpdateStatus(ctx.Request.Context(), middlewares.CallerFrom(ctx), id, body.Status)
			if err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			respondData(ctx, http.StatusOK, booking)
		}).
		DELETE("/:id", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			if err := app.Bookings.Delete(ctx.Request.Context(), middlewares.CallerFrom(ctx), id); err != nil {
				respondError(ctx, "Bookings", err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
		})
	return g
}
