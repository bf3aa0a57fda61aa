package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/alexanderramin/promptblocks/internal/intelligence"
	"github.com/alexanderramin/promptblocks/internal/llm"
	"github.com/alexanderramin/promptblocks/internal/repository"
)

var (
	ErrUnauthenticated = errors.New("no user identity: set --user or PROMPTBLOCKS_USER")
	ErrNoBlocks        = errors.New("no blocks to save")
	ErrEmptyBlocks     = errors.New("add content to at least one block before saving")
	ErrInvalidPromptID = errors.New("invalid prompt id")
	ErrInvalidColor    = errors.New("color must be a hex value such as #6366f1")
)

// Failure is the user-facing form of an error: a category, a short message
// and the suggested recovery action.
type Failure struct {
	Category domain.FailureCategory
	Message  string
	Action   domain.RecoveryAction
	Err      error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s (%s)", f.Message, f.Action)
}

func (f *Failure) Unwrap() error { return f.Err }

var categoryActions = map[domain.FailureCategory]domain.RecoveryAction{
	domain.CategoryAuth:       domain.ActionReauthenticate,
	domain.CategoryNetwork:    domain.ActionRetry,
	domain.CategoryPermission: domain.ActionReauthenticate,
	domain.CategoryData:       domain.ActionRefresh,
	domain.CategoryUnknown:    domain.ActionRetryLater,
}

// ClassifyFailure maps an error onto a failure category. It returns nil for
// a nil error.
func ClassifyFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var existing *Failure
	if errors.As(err, &existing) {
		return existing
	}

	category, message := classify(err)
	return &Failure{
		Category: category,
		Message:  message,
		Action:   categoryActions[category],
		Err:      err,
	}
}

func classify(err error) (domain.FailureCategory, string) {
	switch {
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, llm.ErrInvalidCredential),
		errors.Is(err, llm.ErrMissingAPIKey):
		return domain.CategoryAuth, rootMessage(err)

	case errors.Is(err, repository.ErrPermissionDenied):
		return domain.CategoryPermission, "you do not have access to this prompt"

	case errors.Is(err, llm.ErrRateLimited):
		return domain.CategoryNetwork, rateLimitMessage(err)

	case errors.Is(err, llm.ErrUpstream):
		return domain.CategoryNetwork, upstreamMessage(err)

	case errors.Is(err, repository.ErrUnavailable),
		errors.Is(err, llm.ErrTransport),
		errors.Is(err, llm.ErrTimeout),
		errors.Is(err, llm.ErrServerRateLimited),
		errors.Is(err, context.DeadlineExceeded):
		return domain.CategoryNetwork, rootMessage(err)

	case errors.Is(err, repository.ErrNotFound):
		return domain.CategoryData, "prompt not found, it may have been deleted"

	case errors.Is(err, ErrNoBlocks),
		errors.Is(err, ErrEmptyBlocks),
		errors.Is(err, ErrInvalidPromptID),
		errors.Is(err, ErrInvalidColor),
		errors.Is(err, intelligence.ErrEmptyInput),
		errors.Is(err, intelligence.ErrNoBlocksParsed),
		errors.Is(err, llm.ErrBadRequest),
		errors.Is(err, llm.ErrEmptyGeneration):
		return domain.CategoryData, rootMessage(err)

	case errors.Is(err, intelligence.ErrStaleResult):
		return domain.CategoryData, "the AI fill was reset before the model answered"

	case errors.Is(err, intelligence.ErrInvalidTransition):
		return domain.CategoryData, "that step is not available right now, start the AI fill again"

	case errors.Is(err, intelligence.ErrFillBusy):
		return domain.CategoryUnknown, "an AI fill request is still running, wait for it to finish"
	}
	return domain.CategoryUnknown, "something went wrong"
}

// rootMessage returns the message of the innermost wrapped error, which for
// the sentinels above is the user-facing text.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// upstreamMessage keeps the status code and body of a non-2xx reply, or the
// decoding detail of an unreadable 2xx reply.
func upstreamMessage(err error) string {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	for {
		next := errors.Unwrap(err)
		if next == nil || next == llm.ErrUpstream {
			return err.Error()
		}
		err = next
	}
}

// rateLimitMessage keeps the limiter's "retry in Ns" hint, which lives one
// level above the sentinel.
func rateLimitMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil || next == llm.ErrRateLimited {
			return err.Error()
		}
		err = next
	}
}
