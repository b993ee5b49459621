package testutil

import (
	"net/http"

	"kycflow/pkg/requestcontext"
)

// WithOperator attaches an operator label the way the request middleware
// does for an X-Operator header. Blank labels leave the request anonymous.
func WithOperator(req *http.Request, operator string) *http.Request {
	if operator == "" {
		return req
	}
	return req.WithContext(requestcontext.WithOperator(req.Context(), operator))
}
