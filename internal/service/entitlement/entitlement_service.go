// internal/service/entitlement/entitlement_service.go
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resellerpro-service/internal/domain/entitlement"
	xerrors "resellerpro-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// SubscriptionStore is the persistence port for subscription rows.
type SubscriptionStore interface {
	FindByUser(ctx context.Context, userID int64) (*entitlement.Entitlement, error)
	MoveToPlan(ctx context.Context, subscriptionID, planID int64, periodStart, periodEnd time.Time) error
}

// PlanStore resolves rows of the plan catalog table.
type PlanStore interface {
	FindByName(ctx context.Context, name string) (*entitlement.Plan, error)
	List(ctx context.Context) ([]entitlement.Plan, error)
}

// UsageCounter reports a user's current row count in a resource
// category. The gate only consumes the integer.
type UsageCounter interface {
	CountForUser(ctx context.Context, userID int64, resource entitlement.ResourceKey) (int, error)
}

// Service keeps a subscription's observed state consistent with the
// clock. Expiry is corrected lazily at read time; no background job
// has to run for entitlement state to be right.
type Service struct {
	subs   SubscriptionStore
	plans  PlanStore
	usage  UsageCounter
	logger *zap.Logger
	now    func() time.Time
}

func NewService(subs SubscriptionStore, plans PlanStore, usage UsageCounter, logger *zap.Logger) *Service {
	return &Service{
		subs:   subs,
		plans:  plans,
		usage:  usage,
		logger: logger,
		now:    time.Now,
	}
}

// Reconcile loads the user's subscription with its plan and, if a
// paid period has lapsed, downgrades the row to the free plan before
// returning it. Calling it again on an already-downgraded row is a
// no-op: the plan is free, so the expiry branch cannot re-trigger.
func (s *Service) Reconcile(ctx context.Context, userID int64) (*entitlement.Entitlement, error) {
	ent, err := s.subs.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := ent.Key()
	if key == entitlement.PlanKeyUnknown {
		s.logger.Warn("subscription references unknown plan, limits fall back to free",
			zap.Int64("user_id", userID),
			zap.String("plan_name", ent.Plan.Name),
		)
	}

	now := s.now()
	if key == entitlement.PlanKeyFree || !ent.Subscription.Expired(now) {
		return ent, nil
	}

	free, err := s.plans.FindByName(ctx, string(entitlement.PlanKeyFree))
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			s.logger.Error("free plan row missing, cannot downgrade expired subscription",
				zap.Int64("user_id", userID),
			)
			return nil, xerrors.ErrFreePlanMissing
		}
		return nil, fmt.Errorf("failed to resolve free plan: %w", err)
	}

	// Single idempotent write; concurrent reconciles of the same stale
	// row converge on identical values.
	if err := s.subs.MoveToPlan(ctx, ent.Subscription.ID, free.ID, now, now.Add(entitlement.FreePeriod)); err != nil {
		return nil, fmt.Errorf("failed to downgrade subscription: %w", err)
	}

	s.logger.Info("expired subscription downgraded to free plan",
		zap.Int64("user_id", userID),
		zap.String("previous_plan", ent.Plan.Name),
	)

	return s.subs.FindByUser(ctx, userID)
}

// CheckResourceLimit reconciles the user's entitlement, counts their
// live usage in the resource category and runs the plan gate on it.
func (s *Service) CheckResourceLimit(ctx context.Context, userID int64, resource entitlement.ResourceKey) (*entitlement.Decision, error) {
	ent, err := s.Reconcile(ctx, userID)
	if err != nil {
		return nil, err
	}

	used, err := s.usage.CountForUser(ctx, userID, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to count usage: %w", err)
	}

	decision := CheckLimit(ent.Key(), resource, used)
	return &decision, nil
}

// ListPlans returns the plan catalog for public display.
func (s *Service) ListPlans(ctx context.Context) ([]entitlement.Plan, error) {
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}
