package controllers

import (
	"log"
	"net/http"

	"uservice/src/models"
	"uservice/src/services"
	"uservice/src/types"

	"github.com/gin-gonic/gin"
)

func AccountsList(ctx *gin.Context, identity *services.IdentityService) (users []models.User, page *types.Pagination, status int, err error) {
	var query types.UserQueryFilters
	if err := bindQuery(ctx, &query); err != nil {
		return nil, nil, http.StatusBadRequest, err
	}
	users, page, err = identity.ListUsers(ctx.Request.Context(), caller(ctx), &query)
	if err != nil {
		return nil, nil, statusOf(err), err
	}
	return users, page, http.StatusOK, nil
}

func AccountsGet(ctx *gin.Context, identity *services.IdentityService) (user *models.User, status int, err error) {
	id, err := PathID(ctx)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	user, err = identity.GetUser(ctx.Request.Context(), caller(ctx), id)
	if err != nil {
		return nil, statusOf(err), err
	}
	return user, http.StatusOK, nil
}

func AccountsUpdate(ctx *gin.Context, identity *services.IdentityService) (user *models.User, status int, err error) {
	id, err := PathID(ctx)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	var body types.UpdateUserRequestBody
	if err := bindJSON(ctx, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	user, err = identity.UpdateUser(ctx.Request.Context(), caller(ctx), id, &body)
	if err != nil {
		return nil, statusOf(err), err
	}
	return user, http.StatusOK, nil
}

func AccountsDelete(ctx *gin.Context, identity *services.IdentityService) (status int, err error) {
	id, err := PathID(ctx)
	if err != nil {
		return http.StatusBadRequest, err
	}
	if err := identity.DeleteUser(ctx.Request.Context(), caller(ctx), id); err != nil {
		return statusOf(err), err
	}
	log.Printf("[Accounts] user %s deleted by %s\n", id, ctx.GetString("id"))
	return http.StatusOK, nil
}
