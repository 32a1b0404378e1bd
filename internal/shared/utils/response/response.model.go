package response

// StandardApiResponse is the envelope every endpoint responds with.
// Success is the boolean the front end keys off; Message is human-readable.
type StandardApiResponse struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}
