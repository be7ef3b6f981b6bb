package types

// HTTP Header Constants
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
)

// Authentication Constants
const (
	BearerPrefix = "Bearer "

	// AdminCtxName is the fiber.Ctx locals key holding the AdminPrincipal
	// after the admin middleware has validated the session.
	AdminCtxName = "admin_principal"
)

// AdminPrincipal is the authenticated admin identity attached to requests
// behind the admin gate.
type AdminPrincipal struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	SessionID string `json:"-"`
}
