package main

import (
	"log"
	"net/http"

	"uservice/src/controllers"
	"uservice/src/types"

	"github.com/gin-gonic/gin"
)

func respondError(ctx *gin.Context, tag string, err error) {
	status, body, public := controllers.ErrorResponse(err)
	if public {
		log.Printf("[%s] %s %s -> %d: %s\n", tag, ctx.Request.Method, ctx.Request.URL.Path, status, err.Error())
	} else {
		log.Printf("[%s] internal error on %s %s: %s\n", tag, ctx.Request.Method, ctx.Request.URL.Path, err.Error())
	}
	ctx.AbortWithStatusJSON(status, body)
}

func respondData(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, gin.H{"data": data})
}

func respondPage(ctx *gin.Context, data any, page *types.Pagination) {
	ctx.JSON(http.StatusOK, gin.H{"data": data, "pagination": page})
}

// bindJSON writes the 400 itself and reports whether the handler may continue.
func bindJSON(ctx *gin.Context, tag string, body any) bool {
	if err := ctx.ShouldBindJSON(body); err != nil {
		respondError(ctx, tag, controllers.BindingError(err))
		return false
	}
	return true
}

func bindQuery(ctx *gin.Context, tag string, query any) bool {
	if err := ctx.ShouldBindQuery(query); err != nil {
		respondError(ctx, tag, controllers.BindingError(err))
		return false
	}
	return true
}
