package main

import (
	"net/http"

	"uservice/src/access"
	"uservice/src/controllers"
	"uservice/src/middlewares"
	"uservice/src/types"

	"github.com/gin-gonic/gin"
)

func messageHandlers(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	messages := g.Group("/messages", app.Auth.Required())
	staff := middlewares.RequireRole(access.Staff...)
	messages.
		GET("", staff, func(ctx *gin.Context) {
			var query types.MessageQueryFilters
			if !bindQuery(ctx, "Messages", &query) {
				return
			}
			list, page, err := app.Messages.List(ctx.Request.Context(), middlewares.CallerFrom(ctx), &query)
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			respondPage(ctx, list, page)
		}).
		GET("/urgent", staff, func(ctx *gin.Context) {
			list, err := app.Messages.Urgent(ctx.Request.Context(), middlewares.CallerFrom(ctx))
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			respondData(ctx, http.StatusOK, list)
		}).
		GET("/my-messages", func(ctx *gin.Context) {
			var query types.MessageQueryFilters
			if !bindQuery(ctx, "Messages", &query) {
				return
			}
			list, page, err := app.Messages.Mine(ctx.Request.Context(), middlewares.CallerFrom(ctx), &query)
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			respondPage(ctx, list, page)
		}).
		GET("/unread-count", func(ctx *gin.Context) {
			count, err := app.Messages.UnreadCount(ctx.Request.Context(), middlewares.CallerFrom(ctx))
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			respondData(ctx, http.StatusOK, gin.H{"count": count})
		}).
		PATCH("/mark-all-read", func(ctx *gin.Context) {
			n, err := app.Messages.MarkAllRead(ctx.Request.Context(), middlewares.CallerFrom(ctx))
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			respondData(ctx, http.StatusOK, gin.H{"updated": n})
		}).
		POST("", func(ctx *gin.Context) {
			var body types.CreateMessageRequestBody
			if !bindJSON(ctx, "Messages", &body) {
				return
			}
			msg, err := app.Messages.Create(ctx.Request.Context(), middlewares.CallerFrom(ctx), &body)
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			respondData(ctx, http.StatusCreated, msg)
		}).
		GET("/:id", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			msg, err := app.Messages.View(ctx.Request.Context(), middlewares.CallerFrom(ctx), id)
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			respondData(ctx, http.StatusOK, msg)
		}).
		GET("/:id/thread", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			thread, err := app.Messages.Thread(ctx.Request.Context(), middlewares.CallerFrom(ctx), id)
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			respondData(ctx, http.StatusOK, thread)
		}).
		POST("/:id/reply", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			var body types.ReplyMessageRequestBody
			if !bindJSON(ctx, "Messages", &body) {
				return
			}
			reply, err := app.Messages.Reply(ctx.Request.Context(), middlewares.CallerFrom(ctx), id, &body)
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			respondData(ctx, http.StatusCreated, reply)
		}).
		PATCH("/:id/status", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			var body types.UpdateMessageStatusRequestBody
			if !bindJSON(ctx, "Messages", &body) {
				return
			}
			msg, err := app.Messages.UpdateStatus(ctx.Request.Context(), middlewares.CallerFrom(ctx), id, body.Status)
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			respondData(ctx, http.StatusOK, msg)
		}).
		DELETE("/:id", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			if err := app.Messages.Delete(ctx.Request.Context(), middlewares.CallerFrom(ctx), id); err != nil {
				respondError(ctx, "Messages", err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
		})
	return g
}

func adminHandlers(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	admin := g.Group("/admin", app.Auth.Required(), middlewares.RequireRole(types.ROLE_ADMIN))
	admin.
		GET("/dashboard", func(ctx *gin.Context) {
			dashboard, err := app.Admin.Dashboard(ctx.Request.Context(), middlewares.CallerFrom(ctx))
			if err != nil {
				respondError(ctx, "Admin", err)
				return
			}
			respondData(ctx, http.StatusOK, dashboard)
		}).
		GET("/stats", func(ctx *gin.Context) {
			var query types.StatsQuery
			if !bindQuery(ctx, "Admin", &query) {
				return
			}
			stats, err := app.Admin.Stats(ctx.Request.Context(), middlewares.CallerFrom(ctx), query.Period)
			if err != nil {
				respondError(ctx, "Admin", err)
				return
			}
			respondData(ctx, http.StatusOK, stats)
		}).
		GET("/health", func(ctx *gin.Context) {
			respondData(ctx, http.StatusOK, app.Admin.Health(ctx.Request.Context()))
		})
	return g
}
