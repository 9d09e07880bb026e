package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/nurture-backend/internal/data/repos"
	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

const DefaultResyncTimeout = 30 * time.Second

// ResyncTrigger reacts to a user's personality result changing. Implementations
// should return quickly; the caller does not wait for the resync itself.
type ResyncTrigger interface {
	OnPersonalityResultChanged(ctx context.Context, userID, resultID uuid.UUID) error
}

type UserProfileService interface {
	SetPersonalityResult(ctx context.Context, userID uuid.UUID, ref types.RelationRef) (*types.UserProfile, error)
}

type userProfileService struct {
	db          *gorm.DB
	log         *logger.Logger
	profiles    repos.UserProfileRepo
	personality repos.PersonalityRepo
	trigger     ResyncTrigger
}

func NewUserProfileService(
	db *gorm.DB,
	baseLog *logger.Logger,
	profiles repos.UserProfileRepo,
	personality repos.PersonalityRepo,
	trigger ResyncTrigger,
) UserProfileService {
	return &userProfileService{
		db:          db,
		log:         baseLog.With("service", "UserProfileService"),
		profiles:    profiles,
		personality: personality,
		trigger:     trigger,
	}
}

// SetPersonalityResult stores the user's personality result. When it changes
// to a different non-empty value the resync trigger fires; trigger errors
// are logged, never returned.
func (s *userProfileService) SetPersonalityResult(ctx context.Context, userID uuid.UUID, ref types.RelationRef) (*types.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidInput)
	}
	if !ref.Set {
		return nil, fmt.Errorf("%w: missing personality_result", ErrInvalidInput)
	}
	dbc := dbctx.Context{Ctx: ctx}

	var next *uuid.UUID
	if !ref.Clear {
		result, err := s.personality.GetResultByID(dbc, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: load personality result: %v", ErrDependency, err)
		}
		if result == nil {
			return nil, fmt.Errorf("%w: unknown personality_result %s", ErrInvalidInput, ref.ID)
		}
		id := result.ID
		next = &id
	}

	prev, err := s.profiles.GetByUserID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if err := s.profiles.SetPersonalityResult(dbc, userID, next); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	profile, err := s.profiles.GetByUserID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}

	if next != nil && personalityChanged(prev, *next) && s.trigger != nil {
		if err := s.trigger.OnPersonalityResultChanged(ctx, userID, *next); err != nil {
			s.log.Error("Personality resync trigger failed", "user_id", userID, "personality_result_id", *next, "error", err)
		}
	}
	return profile, nil
}

func personalityChanged(prev *types.UserProfile, next uuid.UUID) bool {
	if prev == nil || prev.PersonalityResultID == nil {
		return true
	}
	return *prev.PersonalityResultID != next
}

// InlineResyncTrigger runs the resync in a detached goroutine bounded by a
// timeout. Used when no workflow engine is configured.
type InlineResyncTrigger struct {
	reco    RecommendationService
	log     *logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewInlineResyncTrigger(baseLog *logger.Logger, reco RecommendationService, timeout time.Duration) *InlineResyncTrigger {
	if timeout <= 0 {
		timeout = DefaultResyncTimeout
	}
	return &InlineResyncTrigger{
		reco:    reco,
		log:     baseLog.With("service", "InlineResyncTrigger"),
		timeout: timeout,
	}
}

func (t *InlineResyncTrigger) OnPersonalityResultChanged(_ context.Context, userID, resultID uuid.UUID) error {
	if userID == uuid.Nil || resultID == uuid.Nil {
		return fmt.Errorf("%w: missing user_id or personality_result_id", ErrInvalidInput)
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		if err := t.reco.ResyncForPersonalityChange(ctx, userID, resultID); err != nil {
			t.log.Error("Inline personality resync failed", "user_id", userID, "personality_result_id", resultID, "error", err)
		}
	}()
	return nil
}

// Wait blocks until every resync started so far has returned.
func (t *InlineResyncTrigger) Wait() { t.wg.Wait() }
