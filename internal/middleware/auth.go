package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/homebudget/budget-backend/internal/dto"
	"github.com/homebudget/budget-backend/internal/revocation"
	"github.com/homebudget/budget-backend/internal/token"
)

const userContextKey = "user"

var (
	ErrTokenRevoked   = errors.New("token has been revoked")
	ErrMissingTokenID = errors.New("token has no jti claim")
	ErrNoClaims       = errors.New("no token claims in context")
)

// TokenValidator admits a token whose signature and expiry were already
// verified only if the revocation registry confirms it is still active.
type TokenValidator struct {
	registry revocation.Registry
	timeout  time.Duration
}

func NewTokenValidator(registry revocation.Registry) *TokenValidator {
	return &TokenValidator{registry: registry, timeout: 3 * time.Second}
}

// Check returns nil only for an active token. Any storage error is returned
// as-is so the caller can reject the request.
func (v *TokenValidator) Check(ctx context.Context, claims *token.Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrMissingTokenID
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	revoked, err := v.registry.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

// Handler runs after the JWT has been parsed into the request locals.
func (v *TokenValidator) Handler(c *fiber.Ctx) error {
	claims, err := GetClaims(c)
	if err != nil {
		return unauthorized(c, "Unauthorized: invalid or expired token")
	}

	switch err := v.Check(c.UserContext(), claims); {
	case err == nil:
		return c.Next()
	case errors.Is(err, ErrTokenRevoked):
		return unauthorized(c, "Unauthorized: token has been revoked")
	case errors.Is(err, ErrMissingTokenID):
		return unauthorized(c, "Unauthorized: invalid or expired token")
	default:
		slog.Error("token revocation check failed",
			"action", "token_validate",
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"error", err,
		)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Unable to verify token, please try again",
		})
	}
}

// JWTProtected verifies the bearer token and then consults the validator.
func JWTProtected(tokens *token.Manager, validator *TokenValidator) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:        tokens.KeyFunc,
		Claims:         &token.Claims{},
		ContextKey:     userContextKey,
		SuccessHandler: validator.Handler,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c, "Unauthorized: invalid or expired token")
		},
	})
}

// GetClaims returns the claims of the authenticated request.
func GetClaims(c *fiber.Ctx) (*token.Claims, error) {
	tok, ok := c.Locals(userContextKey).(*jwt.Token)
	if !ok || tok == nil {
		return nil, ErrNoClaims
	}
	claims, ok := tok.Claims.(*token.Claims)
	if !ok {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// GetUserID extracts the user UUID from the authenticated request.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID()
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
