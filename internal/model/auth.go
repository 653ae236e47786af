package model

// GoogleProfile is the subset of the Google userinfo response this service
// keeps: the external subject id and the fields upserted onto the local user.
type GoogleProfile struct {
	Subject       string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
