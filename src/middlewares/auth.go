package middlewares

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"uservice/src/access"
	"uservice/src/types"

	"github.com/gin-gonic/gin"
)

const (
	callerKey = "caller"
	claimsKey = "claims"
)

// CallerResolver turns a bearer token into the calling user.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, raw string) (*types.Caller, *types.Claims, error)
}

type Authenticator struct {
	resolver CallerResolver
}

func NewAuthenticator(resolver CallerResolver) *Authenticator {
	return &Authenticator{resolver: resolver}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (a *Authenticator) resolve(ctx *gin.Context) (*types.Caller, *types.Claims, error) {
	raw := bearerToken(ctx)
	if raw == "" {
		return nil, nil, errors.New("missing bearer token")
	}
	return a.resolver.ResolveCaller(ctx.Request.Context(), raw)
}

func setCaller(ctx *gin.Context, caller *types.Caller, claims *types.Claims) {
	ctx.Set(callerKey, caller)
	ctx.Set(claimsKey, claims)
	ctx.Set("id", caller.ID.String())
	ctx.Set("email", caller.Email)
	ctx.Set("role", string(caller.Role))
}

// Required aborts with 401 unless the request carries a valid token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		caller, claims, err := a.resolve(ctx)
		if err != nil {
			log.Printf("[Auth] %s %s: %s\n", ctx.Request.Method, ctx.Request.URL.Path, err.Error())
			msg := "Access denied"
			if errors.Is(err, types.ErrUnauthorized) {
				msg = err.Error()
			}
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		setCaller(ctx, caller, claims)
		ctx.Next()
	}
}

// Optional resolves the caller when it can and lets anonymous requests through.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if bearerToken(ctx) != "" {
			if caller, claims, err := a.resolve(ctx); err == nil {
				setCaller(ctx, caller, claims)
			}
		}
		ctx.Next()
	}
}

// RequireRole must run after Required.
func RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := access.RequireRole(CallerFrom(ctx), roles...); err != nil {
			status := http.StatusForbidden
			if errors.Is(err, types.ErrUnauthorized) {
				status = http.StatusUnauthorized
			}
			ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		ctx.Next()
	}
}

// CallerFrom returns nil for anonymous requests.
func CallerFrom(ctx *gin.Context) *types.Caller {
	v, ok := ctx.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*types.Caller)
	return caller
}

func ClaimsFrom(ctx *gin.Context) *types.Claims {
	v, ok := ctx.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*types.Claims)
	return claims
}
