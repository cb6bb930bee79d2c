package controllers

import (
	"uservice/src/middlewares"
	"uservice/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func statusOf(err error) int {
	status, _, _ := ErrorResponse(err)
	return status
}

// PathID binds and parses the :id route parameter.
func PathID(ctx *gin.Context) (uuid.UUID, error) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		return uuid.Nil, BindingError(err)
	}
	id, err := uuid.Parse(params.ID)
	if err != nil {
		return uuid.Nil, types.NewFieldError("id", "must be a valid id")
	}
	return id, nil
}

func bindJSON(ctx *gin.Context, body any) error {
	if err := ctx.ShouldBindJSON(body); err != nil {
		return BindingError(err)
	}
	return nil
}

func bindQuery(ctx *gin.Context, query any) error {
	if err := ctx.ShouldBindQuery(query); err != nil {
		return BindingError(err)
	}
	return nil
}

func caller(ctx *gin.Context) *types.Caller {
	return middlewares.CallerFrom(ctx)
}
