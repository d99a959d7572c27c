package entities

// APIError is the structured error body the backend sends with most 4xx/5xx
// responses. Status is the textual HTTP status, e.g. "BAD_REQUEST".
type APIError struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}
