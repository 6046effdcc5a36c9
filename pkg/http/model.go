package http

// APIResponse is the envelope every non-prediction endpoint answers with.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationErrorResponse is the 400 envelope; Data lists every violation in
// request order.
type ValidationErrorResponse struct {
	Status  int               `json:"status" example:"400"`
	Message string            `json:"message" example:"Bad Request"`
	Data    []ValidationError `json:"data,omitempty"`
}

// ValidationError describes one rejected field.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_GTE"`
	Field   string                 `json:"field,omitempty" example:"inning"`
	Message string                 `json:"message,omitempty" example:"inning must be greater than or equal to 1"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
