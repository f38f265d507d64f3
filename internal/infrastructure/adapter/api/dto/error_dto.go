package dto

// ErrorResponse represents a standardized error response for the API.
// Code is the service-level numeric code, Reason the machine-readable
// rejection class, Message the human-readable explanation.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
