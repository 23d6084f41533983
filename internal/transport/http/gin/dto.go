package httpgin

type CredentialsRequest struct {
	Mode  string `json:"mode" binding:"omitempty,oneof=login signup"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	// Screen is the session's current screen when a flow event was refused.
	Screen string `json:"screen,omitempty"`
}

type ShareResponse struct {
	Text string `json:"text"`
}
