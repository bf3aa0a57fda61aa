package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/alexanderramin/promptblocks/internal/db"
	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/alexanderramin/promptblocks/internal/repository"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// RetryPolicy bounds the retries around a single storage call.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy tries three times with jittered exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxInterval = p.MaxInterval
	exp.RandomizationFactor = 0.5
	exp.MaxElapsedTime = 0

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(attempts-1)), ctx)
}

// isPermanent reports errors that a retry cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, repository.ErrPermissionDenied) ||
		errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrNoBlocks) ||
		errors.Is(err, ErrEmptyBlocks) ||
		errors.Is(err, ErrInvalidPromptID) ||
		errors.Is(err, ErrInvalidColor) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// PersistenceGateway is the document-store boundary for saved prompts. All
// calls are scoped to a user and retried on transient storage errors.
type PersistenceGateway struct {
	prompts  repository.PromptRepo
	uow      db.UnitOfWork
	retry    RetryPolicy
	observer UseCaseObserver
	now      func() time.Time
}

// NewPersistenceGateway creates a gateway. prompts serves single-prompt reads
// and writes; multi-row saves and list reads run through uow.
func NewPersistenceGateway(prompts repository.PromptRepo, uow db.UnitOfWork, retry RetryPolicy, observers ...UseCaseObserver) *PersistenceGateway {
	return &PersistenceGateway{
		prompts:  prompts,
		uow:      uow,
		retry:    retry,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Load returns the user's prompts newest first.
func (g *PersistenceGateway) Load(ctx context.Context, userID string) (prompts []domain.PromptSnapshot, err error) {
	fields := map[string]any{"user": userID}
	defer observe(ctx, g.observer, "prompt-load", time.Now(), fields, &err)

	if userID == "" {
		return nil, ErrUnauthenticated
	}
	err = g.withRetry(ctx, fields, func() error {
		return g.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			list, err := repository.NewSQLitePromptRepo(tx).ListByUser(ctx, userID)
			if err != nil {
				return err
			}
			prompts = make([]domain.PromptSnapshot, 0, len(list))
			for _, p := range list {
				prompts = append(prompts, *p)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	fields["count"] = len(prompts)
	return prompts, nil
}

// Get returns a single prompt.
func (g *PersistenceGateway) Get(ctx context.Context, userID, id string) (prompt *domain.PromptSnapshot, err error) {
	fields := map[string]any{"user": userID, "prompt_id": id}
	defer observe(ctx, g.observer, "prompt-get", time.Now(), fields, &err)

	if err := validateRef(userID, id); err != nil {
		return nil, err
	}
	err = g.withRetry(ctx, fields, func() error {
		var getErr error
		prompt, getErr = g.prompts.GetByID(ctx, userID, id)
		return getErr
	})
	return prompt, err
}

// Save stores blocks as a new snapshot and returns its id. Title and preview
// are derived here and never recomputed.
func (g *PersistenceGateway) Save(ctx context.Context, userID string, blocks []domain.Block, customName *string, customColor string) (id string, err error) {
	fields := map[string]any{"user": userID, "blocks": len(blocks)}
	defer observe(ctx, g.observer, "prompt-save", time.Now(), fields, &err)

	if userID == "" {
		return "", ErrUnauthenticated
	}
	if len(blocks) == 0 {
		return "", ErrNoBlocks
	}
	hasContent := false
	for _, b := range blocks {
		if b.HasContent() {
			hasContent = true
			break
		}
	}
	if !hasContent {
		return "", ErrEmptyBlocks
	}
	color := strings.TrimSpace(customColor)
	if color == "" {
		color = domain.DefaultPromptColor
	}
	if !hexColorRe.MatchString(color) {
		return "", ErrInvalidColor
	}
	var name *string
	if customName != nil {
		if trimmed := strings.TrimSpace(*customName); trimmed != "" {
			name = &trimmed
		}
	}

	now := g.now().Truncate(time.Second)
	snapshot := &domain.PromptSnapshot{
		ID:          uuid.New().String(),
		UserID:      userID,
		Blocks:      append([]domain.Block(nil), blocks...),
		Title:       domain.DeriveTitle(blocks),
		Preview:     domain.DerivePreview(blocks),
		CustomName:  name,
		CustomColor: color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	fields["prompt_id"] = snapshot.ID

	err = g.withRetry(ctx, fields, func() error {
		return g.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return repository.NewSQLitePromptRepo(tx).Create(ctx, snapshot)
		})
	})
	if err != nil {
		return "", err
	}
	return snapshot.ID, nil
}

// Delete removes a prompt.
func (g *PersistenceGateway) Delete(ctx context.Context, userID, id string) (err error) {
	fields := map[string]any{"user": userID, "prompt_id": id}
	defer observe(ctx, g.observer, "prompt-delete", time.Now(), fields, &err)

	if err := validateRef(userID, id); err != nil {
		return err
	}
	return g.withRetry(ctx, fields, func() error {
		return g.prompts.Delete(ctx, userID, id)
	})
}

// UpdatePinState sets the pin flag. Pinning stamps PinnedAt with the current
// time; unpinning clears it. UpdatedAt is refreshed either way.
func (g *PersistenceGateway) UpdatePinState(ctx context.Context, userID, id string, pinned bool) (err error) {
	fields := map[string]any{"user": userID, "prompt_id": id, "pinned": pinned}
	defer observe(ctx, g.observer, "prompt-pin", time.Now(), fields, &err)

	if err := validateRef(userID, id); err != nil {
		return err
	}
	now := g.now().Truncate(time.Second)
	var pinnedAt *time.Time
	if pinned {
		pinnedAt = &now
	}
	return g.withRetry(ctx, fields, func() error {
		return g.prompts.UpdatePin(ctx, userID, id, pinned, pinnedAt, now)
	})
}

func (g *PersistenceGateway) withRetry(ctx context.Context, fields map[string]any, op func() error) error {
	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		err := op()
		if err != nil && isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}, g.retry.backOff(ctx))
	fields["attempts"] = attempts
	return err
}

func validateRef(userID, id string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if strings.TrimSpace(id) == "" {
		return ErrInvalidPromptID
	}
	return nil
}
