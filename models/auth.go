package models

// SignupRequest is the body of the signup endpoint. It is echoed back on
// success.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest is the body of the token exchange endpoint.
type TokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

// Message is an outbound email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}
