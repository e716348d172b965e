package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"einvoice/internal/api"
	"einvoice/internal/auth"
	"einvoice/internal/ocr"
	"einvoice/pkg/models"
)

// handleAPIError provides user-friendly error messages for failed backend calls.
// action describes what was attempted, e.g. "loading invoice".
func handleAPIError(err error, action string, log zerolog.Logger) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		log.Error().
			Err(err).
			Str("op", apiErr.Op).
			Int("status", apiErr.StatusCode).
			Str("request_id", apiErr.RequestID).
			Msg(action + " failed")
	} else {
		log.Error().Err(err).Msg(action + " failed")
	}

	msg := api.ErrorMessage(err)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s timed out. Try increasing --timeout", action)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s was canceled", action)
	case errors.Is(err, auth.ErrNotLoggedIn), errors.Is(err, auth.ErrTokenExpired):
		return err
	case errors.Is(err, api.ErrMissingBaseURL):
		return fmt.Errorf("no API URL configured. Set --api-url or EINVOICE_API_URL")
	case errors.Is(err, api.ErrUnauthorized):
		return fmt.Errorf("%s: %s\nYour session may have expired. Run 'einvoice auth login'", action, msg)
	case errors.Is(err, api.ErrPaymentRequired):
		return fmt.Errorf("%s: %s\nYour plan limit is reached. Run 'einvoice billing status' to see your plan", action, msg)
	case errors.Is(err, api.ErrForbidden):
		return fmt.Errorf("%s: %s\nYou do not have access to this resource", action, msg)
	case errors.Is(err, api.ErrNotFound):
		return fmt.Errorf("%s: %s", action, msg)
	case errors.Is(err, api.ErrRateLimited):
		return fmt.Errorf("%s: %s\nToo many requests. Wait a moment and try again", action, msg)
	case errors.Is(err, models.ErrInconsistentReport):
		return fmt.Errorf("%s: the backend returned an inconsistent validation report: %w", action, err)
	case errors.Is(err, ocr.ErrFileTooLarge):
		return fmt.Errorf("file is too large (maximum 20MB). Try compressing or splitting the file")
	case errors.Is(err, ocr.ErrEmptyFile), errors.Is(err, ocr.ErrUnsupportedFormat),
		errors.Is(err, ocr.ErrNotRegularFile), errors.Is(err, ocr.ErrNoDocuments):
		return err
	case apiErr != nil:
		return fmt.Errorf("%s: %s", action, msg)
	case errors.Is(err, api.ErrNetwork):
		return fmt.Errorf("%s: %s", action, msg)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
