package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success", "partial" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Partial returns a multi-status response for bulk operations where some
// targets succeeded and some failed. The data carries the per-id split;
// callers retry the failed subset.
func Partial(statusCode int, data interface{}) Response {
	return Response{
		Status:     "partial",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
