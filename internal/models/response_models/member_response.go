package response_models

type MemberResponse struct {
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name,omitempty"`
	Preferences []string `json:"preferences"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
