package auth

// Paths that never require a token.
const (
	LoginPath  = "/api/users/login"
	SignUpPath = "/api/users/signup"
)

// PublicRoutes is an immutable set of request paths exempt from authentication.
// Membership is exact string match: "/api/users/login/" or a parameterised
// route is never public.
type PublicRoutes struct {
	paths map[string]struct{}
}

// NewPublicRoutes builds the set from literal paths.
func NewPublicRoutes(paths ...string) PublicRoutes {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return PublicRoutes{paths: set}
}

// DefaultPublicRoutes holds the sign-up and login endpoints.
func DefaultPublicRoutes() PublicRoutes {
	return NewPublicRoutes(LoginPath, SignUpPath)
}

// Contains reports whether path is exempt.
func (p PublicRoutes) Contains(path string) bool {
	_, ok := p.paths[path]
	return ok
}
