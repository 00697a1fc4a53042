// Package sos raises emergency alerts to a user's guardians.
package sos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/pkg/middleware"
	"rakshak-women-safety/services/api-service/models"
	"rakshak-women-safety/services/api-service/notify"
	"rakshak-women-safety/services/api-service/store"
)

// CooldownPrefix namespaces the per-user cooldown keys in Redis.
const CooldownPrefix = "sos:cooldown"

// Cooldown is satisfied by *cache.Cooldown.
type Cooldown interface {
	Acquire(ctx context.Context, id string) (bool, error)
	Remaining(ctx context.Context, id string) (time.Duration, error)
	Release(ctx context.Context, id string) error
}

type Result struct {
	AlertSent         bool `json:"alert_sent"`
	GuardiansNotified int  `json:"guardians_notified"`
}

type Service struct {
	users      store.Users
	guardians  store.Guardians
	dispatcher notify.Dispatcher
	cooldown   Cooldown
}

// NewService builds the SOS service. A nil cooldown disables rate limiting.
func NewService(users store.Users, guardians store.Guardians, dispatcher notify.Dispatcher, cooldown Cooldown) *Service {
	return &Service{users: users, guardians: guardians, dispatcher: dispatcher, cooldown: cooldown}
}

// Trigger alerts every guardian of the caller with their last known
// location. A failed dispatch is reported in the result, not as an error.
func (s *Service) Trigger(ctx context.Context, actor models.Actor) (*Result, error) {
	traceID := middleware.TraceIDFromContext(ctx)

	user, err := s.users.FindUser(ctx, actor.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load user")
	}
	if user.CurrentLocation == nil {
		return nil, apperror.Validation("Location not available. Please enable location sharing.")
	}

	guardians, err := s.guardians.ListGuardians(ctx, user.ID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load guardians")
	}
	if len(guardians) == 0 {
		return nil, apperror.Validation("No guardians found. Please add guardians in your profile.")
	}

	if s.cooldown != nil {
		allowed, err := s.cooldown.Acquire(ctx, user.ID.Hex())
		switch {
		case err != nil:
			// fail open: alerts still go out while Redis is down
			middleware.LogWarn(traceID, "SOS cooldown unavailable", err)
		case !allowed:
			return nil, apperror.Conflict(s.cooldownMessage(ctx, user.ID.Hex()))
		}
	}

	res, err := s.dispatcher.NotifySOS(ctx, user, guardians, *user.CurrentLocation)
	if err != nil || !res.Success {
		middleware.LogWarn(traceID, "SOS alert dispatch failed", err)
		// an alert that never left must not block the retry
		if s.cooldown != nil {
			if err := s.cooldown.Release(ctx, user.ID.Hex()); err != nil {
				middleware.LogWarn(traceID, "SOS cooldown release failed", err)
			}
		}
		return &Result{AlertSent: false, GuardiansNotified: 0}, nil
	}

	middleware.LogInfo(traceID, "SOS alert queued for user "+user.ID.Hex())
	return &Result{AlertSent: true, GuardiansNotified: res.Recipients}, nil
}

func (s *Service) cooldownMessage(ctx context.Context, id string) string {
	wait, err := s.cooldown.Remaining(ctx, id)
	if err != nil || wait <= 0 {
		return "SOS alert already sent. Please wait before sending another."
	}
	return fmt.Sprintf("SOS alert already sent. Please wait %d seconds before sending another.", int(wait.Round(time.Second).Seconds()))
}
