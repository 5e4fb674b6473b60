package model

// Tokens is the credential pair returned by sign-in and sign-up.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Credentials is the sign-in/sign-up payload. Name is only sent on sign-up.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name,omitempty"`
}

// Validate checks that email and password are present and the email is well formed.
func (c Credentials) Validate() error {
	return describe(validatorInstance().Struct(c))
}
