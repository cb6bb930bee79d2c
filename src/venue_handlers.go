package main

import (
	"net/http"

	"uservice/src/access"
	"uservice/src/controllers"
	"uservice/src/middlewares"
	"uservice/src/types"

	"github.com/gin-gonic/gin"
)

func venueHandlers(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	public := g.Group("/venues", app.Auth.Optional())
	public.
		GET("", func(ctx *gin.Context) {
			var query types.VenueQueryFilters
			if !bindQuery(ctx, "Venues", &query) {
				return
			}
			list, page, err := app.Catalog.ListVenues(ctx.Request.Context(), &query)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			respondPage(ctx, list, page)
		}).
		GET("/available", func(ctx *gin.Context) {
			var query types.AvailableVenuesQuery
			if !bindQuery(ctx, "Venues", &query) {
				return
			}
			list, err := app.Catalog.AvailableVenues(ctx.Request.Context(), &query)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			respondData(ctx, http.StatusOK, list)
		}).
		GET("/slug/:slug", func(ctx *gin.Context) {
			var params types.SlugRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondError(ctx, "Venues", controllers.BindingError(err))
				return
			}
			venue, err := app.Catalog.GetVenueBySlug(ctx.Request.Context(), params.Slug)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			respondData(ctx, http.StatusOK, venue)
		}).
		GET("/:id", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			venue, err := app.Catalog.GetVenue(ctx.Request.Context(), id)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			respondData(ctx, http.StatusOK, venue)
		})

	managed := g.Group("/venues", app.Auth.Required())
	managed.
		POST("", middlewares.RequireRole(access.Staff...), func(ctx *gin.Context) {
			var body types.CreateVenueRequestBody
			if !bindJSON(ctx, "Venues", &body) {
				return
			}
			venue, err := app.Catalog.CreateVenue(ctx.Request.Context(), middlewares.CallerFrom(ctx), &body)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			respondData(ctx, http.StatusCreated, venue)
		}).
		PUT("/:id", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			var body types.UpdateVenueRequestBody
			if !bindJSON(ctx, "Venues", &body) {
				return
			}
			venue, err := app.Catalog.UpdateVenue(ctx.Request.Context(), middlewares.CallerFrom(ctx), id, &body)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			respondData(ctx, http.StatusOK, venue)
		}).
		DELETE("/:id", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			if err := app.Catalog.DeleteVenue(ctx.Request.Context(), middlewares.CallerFrom(ctx), id); err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Venue deleted"})
		}).
		PATCH("/:id/status", middlewares.RequireRole(access.Staff...), func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			var body types.VenueStatusRequestBody
			if !bindJSON(ctx, "Venues", &body) {
				return
			}
			venue, err := app.Catalog.SetVenueStatus(ctx.Request.Context(), middlewares.CallerFrom(ctx), id, body.Status)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			respondData(ctx, http.StatusOK, venue)
		}).
		PUT("/:id/availability", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			var body types.VenueAvailabilityRequestBody
			if !bindJSON(ctx, "Venues", &body) {
				return
			}
			venue, err := app.Catalog.SetVenueAvailability(ctx.Request.Context(), middlewares.CallerFrom(ctx), id, body.Availability)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			respondData(ctx, http.StatusOK, venue)
		}).
		POST("/:id/images", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			img, err := readUpload(ctx)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			venue, err := app.Catalog.AddVenueImage(ctx.Request.Context(), middlewares.CallerFrom(ctx), id, img)
			if err != nil {
				respondError(ctx, "Venues", err)
				return
			}
			respondData(ctx, http.StatusCreated, venue)
		})
	return g
}
