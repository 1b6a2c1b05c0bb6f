package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Muhammad-Huzaifa24/backend-PMS/logging"
	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
	"github.com/Muhammad-Huzaifa24/backend-PMS/repositories"
	"github.com/Muhammad-Huzaifa24/backend-PMS/services"
	"github.com/Muhammad-Huzaifa24/backend-PMS/utils"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthMiddleware validates the bearer token on every protected call and
// attaches the resolved user, credentials stripped, to the request context.
type AuthMiddleware struct {
	tokens *services.TokenService
	users  repositories.UserRepository
}

func NewAuthMiddleware(tokens *services.TokenService, users repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(w, "")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader || tokenStr == "" {
			utils.UnauthorizedResponse(w, "")
			return
		}

		claims, err := m.tokens.VerifyAccess(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Invalid token on %s %s: %v", r.Method, r.URL.Path, err)
			utils.UnauthorizedResponse(w, "un Authorized")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			utils.UnauthorizedResponse(w, "un Authorized")
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			// Token is valid but the identity no longer exists.
			if models.IsCode(err, models.ErrCodeNotFound) {
				utils.BadRequestResponse(w, "Invalid access token")
				return
			}
			utils.ServerErrorResponse(w, "")
			return
		}

		sanitized := user.Sanitized()
		ctx := context.WithValue(r.Context(), userContextKey, &sanitized)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFrom returns the authenticated user attached by the middleware.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}
