package controllers

import (
	"log"
	"net/http"

	"uservice/src/middlewares"
	"uservice/src/models"
	"uservice/src/services"
	"uservice/src/types"

	"github.com/gin-gonic/gin"
)

func AuthRegister(ctx *gin.Context, identity *services.IdentityService) (resp *types.AuthResponse, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := bindJSON(ctx, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	user, token, err := identity.Register(ctx.Request.Context(), &body)
	if err != nil {
		return nil, statusOf(err), err
	}
	log.Printf("[Auth] registered user %s\n", user.ID)
	return &types.AuthResponse{Token: token, User: user}, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context, identity *services.IdentityService) (resp *types.AuthResponse, status int, err error) {
	var body types.LoginRequestBody
	if err := bindJSON(ctx, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	user, token, err := identity.Login(ctx.Request.Context(), body.Email, body.Password)
	if err != nil {
		return nil, statusOf(err), err
	}
	return &types.AuthResponse{Token: token, User: user}, http.StatusOK, nil
}

func AuthMe(ctx *gin.Context, identity *services.IdentityService) (user *models.User, status int, err error) {
	user, err = identity.Me(ctx.Request.Context(), caller(ctx))
	if err != nil {
		return nil, statusOf(err), err
	}
	return user, http.StatusOK, nil
}

func AuthUpdateProfile(ctx *gin.Context, identity *services.IdentityService) (user *models.User, status int, err error) {
	var body types.UpdateProfileRequestBody
	if err := bindJSON(ctx, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	user, err = identity.UpdateProfile(ctx.Request.Context(), caller(ctx), &body)
	if err != nil {
		return nil, statusOf(err), err
	}
	return user, http.StatusOK, nil
}

// AuthChangePassword returns a fresh token; tokens issued before the change stop working.
func AuthChangePassword(ctx *gin.Context, identity *services.IdentityService) (token string, status int, err error) {
	var body types.ChangePasswordRequestBody
	if err := bindJSON(ctx, &body); err != nil {
		return "", http.StatusBadRequest, err
	}
	token, err = identity.ChangePassword(ctx.Request.Context(), caller(ctx), &body)
	if err != nil {
		return "", statusOf(err), err
	}
	return token, http.StatusOK, nil
}

func AuthForgotPassword(ctx *gin.Context, identity *services.IdentityService) (status int, err error) {
	var body types.ForgotPasswordRequestBody
	if err := bindJSON(ctx, &body); err != nil {
		return http.StatusBadRequest, err
	}
	if err := identity.ForgotPassword(ctx.Request.Context(), body.Email); err != nil {
		return statusOf(err), err
	}
	return http.StatusOK, nil
}

func AuthResetPassword(ctx *gin.Context, identity *services.IdentityService) (status int, err error) {
	var body types.ResetPasswordRequestBody
	if err := bindJSON(ctx, &body); err != nil {
		return http.StatusBadRequest, err
	}
	if err := identity.ResetPassword(ctx.Request.Context(), body.Token, body.Password); err != nil {
		return statusOf(err), err
	}
	return http.StatusOK, nil
}

func AuthVerifyEmail(ctx *gin.Context, identity *services.IdentityService) (user *models.User, status int, err error) {
	var body types.VerifyEmailRequestBody
	if err := bindJSON(ctx, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	user, err = identity.VerifyEmail(ctx.Request.Context(), body.Token)
	if err != nil {
		return nil, statusOf(err), err
	}
	return user, http.StatusOK, nil
}

func AuthRefresh(ctx *gin.Context, identity *services.IdentityService) (token string, status int, err error) {
	token, err = identity.Refresh(ctx.Request.Context(), caller(ctx))
	if err != nil {
		return "", statusOf(err), err
	}
	return token, http.StatusOK, nil
}

func AuthLogout(ctx *gin.Context, identity *services.IdentityService) (status int, err error) {
	if err := identity.Logout(ctx.Request.Context(), middlewares.ClaimsFrom(ctx)); err != nil {
		return statusOf(err), err
	}
	return http.StatusOK, nil
}
