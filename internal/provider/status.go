package provider

import "fmt"

// StatusError reports a non-2xx upstream response that is not worth
// retrying. Adapters translate it into "no data" after logging.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
}
