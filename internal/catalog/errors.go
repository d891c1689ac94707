package catalog

import (
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// RejectionError is a semantic refusal from the catalog backend (duplicate
// email, invalid tag combination, ...). It is recoverable by correcting the
// input, unlike a transport failure which is recoverable by retrying.
type RejectionError struct {
	Status  int
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog rejected request (status %d)", e.Status)
	}
	return e.Message
}

// IsRejection reports whether err is a semantic rejection rather than a
// transport failure.
func IsRejection(err error) bool {
	var rejection *RejectionError
	return errors.As(err, &rejection)
}

func checkEnvelope(resp *resty.Response, err error, env *envelope) error {
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if resp.IsError() || !env.Success {
		return &RejectionError{Status: resp.StatusCode(), Message: env.Message}
	}
	return nil
}
