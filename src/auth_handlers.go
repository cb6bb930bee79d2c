package main

import (
	"net/http"

	"uservice/src/controllers"

	"github.com/gin-gonic/gin"
)

func authHandlers(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	auth := g.Group("/auth")
	auth.
		POST("/register", func(ctx *gin.Context) {
			resp, status, err := controllers.AuthRegister(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Auth", err)
				return
			}
			respondData(ctx, status, resp)
		}).
		POST("/login", func(ctx *gin.Context) {
			resp, status, err := controllers.AuthLogin(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Auth", err)
				return
			}
			respondData(ctx, status, resp)
		}).
		POST("/forgot-password", func(ctx *gin.Context) {
			status, err := controllers.AuthForgotPassword(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Auth", err)
				return
			}
			ctx.JSON(status, gin.H{"message": "If the email is registered, a reset link has been sent"})
		}).
		POST("/reset-password", func(ctx *gin.Context) {
			status, err := controllers.AuthResetPassword(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Auth", err)
				return
			}
			ctx.JSON(status, gin.H{"message": "Password has been reset"})
		}).
		POST("/verify-email", func(ctx *gin.Context) {
			user, status, err := controllers.AuthVerifyEmail(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Auth", err)
				return
			}
			respondData(ctx, status, user)
		})

	authorized := auth.Group("", app.Auth.Required())
	authorized.
		GET("/me", func(ctx *gin.Context) {
			user, status, err := controllers.AuthMe(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Auth", err)
				return
			}
			respondData(ctx, status, user)
		}).
		PUT("/me", func(ctx *gin.Context) {
			user, status, err := controllers.AuthUpdateProfile(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Auth", err)
				return
			}
			respondData(ctx, status, user)
		}).
		PUT("/change-password", func(ctx *gin.Context) {
			token, status, err := controllers.AuthChangePassword(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Auth", err)
				return
			}
			respondData(ctx, status, gin.H{"token": token})
		}).
		POST("/refresh", func(ctx *gin.Context) {
			token, status, err := controllers.AuthRefresh(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Auth", err)
				return
			}
			respondData(ctx, status, gin.H{"token": token})
		}).
		POST("/logout", func(ctx *gin.Context) {
			status, err := controllers.AuthLogout(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Auth", err)
				return
			}
			ctx.JSON(status, gin.H{"message": "Logged out"})
		})
	return g
}

func userHandlers(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	users := g.Group("/users", app.Auth.Required())
	users.
		GET("", func(ctx *gin.Context) {
			list, page, _, err := controllers.AccountsList(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Users", err)
				return
			}
			respondPage(ctx, list, page)
		}).
		GET("/:id", func(ctx *gin.Context) {
			user, status, err := controllers.AccountsGet(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Users", err)
				return
			}
			respondData(ctx, status, user)
		}).
		PUT("/:id", func(ctx *gin.Context) {
			user, status, err := controllers.AccountsUpdate(ctx.Copy(), app.Identity)
			if err != nil {
				respondError(ctx, "Users", err)
				return
			}
			respondData(ctx, status, user)
		}).
		DELETE("/:id", func(ctx *gin.Context) {
			if _, err := controllers.AccountsDelete(ctx.Copy(), app.Identity); err != nil {
				respondError(ctx, "Users", err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "User deleted"})
		})
	return g
}
