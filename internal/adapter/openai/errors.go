package openai

import (
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when the backing service cannot be used at all:
// no API key configured, or the service rejected the credential. Callers use
// errors.Is against it to decide whether a stage can degrade instead of fail.
var ErrNotConfigured = errors.New("ai service not configured")

// classifyError folds credential rejections into ErrNotConfigured so the
// pipeline never has to inspect error message text.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403 {
			return fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
	}
	return err
}
