package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/diet-tracker/internal/domain"
	"github.com/spec-kit/diet-tracker/internal/observability"
	apperrors "github.com/spec-kit/diet-tracker/pkg/util/errorutil"
)

const identityKey = "auth_identity"

type identityCtxKey struct{}

// Verifier checks a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

// Gate admits or rejects every request before business handlers run.
type Gate struct {
	verifier Verifier
	public   PublicRoutes
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewGate constructs the authentication gate.
func NewGate(verifier Verifier, public PublicRoutes, logger *zap.Logger, metrics *observability.Metrics) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{verifier: verifier, public: public, logger: logger, metrics: metrics}
}

// Handle enforces authentication for every non-public route.
func (g *Gate) Handle(c *fiber.Ctx) error {
	path := c.Path()
	if g.public.Contains(path) {
		g.record(observability.GateExempt, path)
		return c.Next()
	}

	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		g.record(observability.GateNoToken, path)
		return apperrors.NewAuthMissing()
	}

	identity, err := g.verifier.Verify(c.UserContext(), token)
	if err != nil {
		g.logger.Debug("token rejected", zap.String("path", path), zap.Error(err))
		g.record(observability.GateInvalidToken, path)
		return apperrors.NewAuthInvalid()
	}

	g.record(observability.GateAdmitted, path)
	c.Locals(identityKey, identity)
	c.SetUserContext(WithIdentity(c.UserContext(), identity))
	return c.Next()
}

func (g *Gate) record(decision observability.GateDecision, path string) {
	g.logger.Debug("gate decision", zap.String("decision", string(decision)), zap.String("path", path))
	g.metrics.RecordGateDecision(decision)
}

// bearerToken returns the second space separated field of the header, if any.
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// IdentityFromContext retrieves the identity attached by the gate.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}

// WithIdentity stores the identity on a standard context.
func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFrom reads the identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(*domain.Identity)
	return identity, ok && identity != nil
}
