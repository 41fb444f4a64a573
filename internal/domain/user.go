package domain

// User is the authenticated principal resolved from a bearer token.
// Account management itself lives in the identity service; this service
// only needs the id for ownership, the username for follow operations,
// and the email for notification fan-out.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
