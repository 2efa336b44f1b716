package auth

// User is the minimal current-user identity carried with a session.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Credentials is a bearer token plus the user it belongs to. Absence of
// credentials is a nil *Credentials, never an empty token string.
type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Source provides the current credentials, or nil when logged out.
type Source interface {
	Credentials() *Credentials
}

// Static is a fixed credential source, mainly for tests and one-shot commands.
type Static struct {
	Creds *Credentials
}

func (s Static) Credentials() *Credentials { return s.Creds }
