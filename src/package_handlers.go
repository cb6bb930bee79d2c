package main

import (
	"net/http"

	"uservice/src/access"
	"uservice/src/controllers"
	"uservice/src/lib"
	"uservice/src/middlewares"
	"uservice/src/types"

	"github.com/gin-gonic/gin"
)

// readUpload reads the multipart "image" field.
func readUpload(ctx *gin.Context) (*lib.Image, error) {
	header, err := ctx.FormFile("image")
	if err != nil {
		return nil, types.NewFieldError("image", "is required")
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return lib.ReadImage(f)
}

func packageHandlers(g *gin.RouterGroup, app *App) *gin.RouterGroup {
	public := g.Group("/packages", app.Auth.Optional())
	public.
		GET("", func(ctx *gin.Context) {
			var query types.PackageQueryFilters
			if !bindQuery(ctx, "Packages", &query) {
				return
			}
			list, page, err := app.Catalog.ListPackages(ctx.Request.Context(), middlewares.CallerFrom(ctx), &query)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			respondPage(ctx, list, page)
		}).
		GET("/active", func(ctx *gin.Context) {
			list, err := app.Catalog.ActivePackages(ctx.Request.Context())
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			respondData(ctx, http.StatusOK, list)
		}).
		GET("/popular", func(ctx *gin.Context) {
			list, err := app.Catalog.PopularPackages(ctx.Request.Context())
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			respondData(ctx, http.StatusOK, list)
		}).
		GET("/slug/:slug", func(ctx *gin.Context) {
			var params types.SlugRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondError(ctx, "Packages", controllers.BindingError(err))
				return
			}
			pkg, err := app.Catalog.GetPackageBySlug(ctx.Request.Context(), middlewares.CallerFrom(ctx), params.Slug)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			respondData(ctx, http.StatusOK, pkg)
		}).
		GET("/:id", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			pkg, err := app.Catalog.GetPackage(ctx.Request.Context(), middlewares.CallerFrom(ctx), id)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			respondData(ctx, http.StatusOK, pkg)
		})

	managed := g.Group("/packages", app.Auth.Required())
	managed.
		POST("", middlewares.RequireRole(access.Staff...), func(ctx *gin.Context) {
			var body types.CreatePackageRequestBody
			if !bindJSON(ctx, "Packages", &body) {
				return
			}
			pkg, err := app.Catalog.CreatePackage(ctx.Request.Context(), middlewares.CallerFrom(ctx), &body)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			respondData(ctx, http.StatusCreated, pkg)
		}).
		PUT("/:id", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			var body types.UpdatePackageRequestBody
			if !bindJSON(ctx, "Packages", &body) {
				return
			}
			pkg, err := app.Catalog.UpdatePackage(ctx.Request.Context(), middlewares.CallerFrom(ctx), id, &body)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			respondData(ctx, http.StatusOK, pkg)
		}).
		DELETE("/:id", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			if err := app.Catalog.DeletePackage(ctx.Request.Context(), middlewares.CallerFrom(ctx), id); err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Package deleted"})
		}).
		PATCH("/:id/toggle-popular", middlewares.RequireRole(access.Staff...), func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			pkg, err := app.Catalog.TogglePopular(ctx.Request.Context(), middlewares.CallerFrom(ctx), id)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			respondData(ctx, http.StatusOK, pkg)
		}).
		POST("/:id/images", func(ctx *gin.Context) {
			id, err := controllers.PathID(ctx)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			img, err := readUpload(ctx)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			pkg, err := app.Catalog.AddPackageImage(ctx.Request.Context(), middlewares.CallerFrom(ctx), id, img)
			if err != nil {
				respondError(ctx, "Packages", err)
				return
			}
			respondData(ctx, http.StatusCreated, pkg)
		})
	return g
}
