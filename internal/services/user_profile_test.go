package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/nurture-backend/internal/data/repos/testutil"
	types "github.com/yungbote/nurture-backend/internal/domain"
)

type recordingTrigger struct {
	mu    sync.Mutex
	calls []uuid.UUID
	err   error
}

func (r *recordingTrigger) OnPersonalityResultChanged(_ context.Context, _ uuid.UUID, resultID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, resultID)
	return r.err
}

func (r *recordingTrigger) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func newProfileService(t *testing.T, h *harness, trigger ResyncTrigger) UserProfileService {
	t.Helper()
	return NewUserProfileService(h.db, testutil.Logger(t), h.profiles, h.personality, trigger)
}

func TestSetPersonalityResultFiresOnChange(t *testing.T) {
	h := newHarness(t)
	trigger := &recordingTrigger{}
	svc := newProfileService(t, h, trigger)
	userID := uuid.New()
	first := testutil.SeedPersonalityResult(t, h.ctx, h.db, "first")
	second := testutil.SeedPersonalityResult(t, h.ctx, h.db, "second")

	profile, err := svc.SetPersonalityResult(h.ctx, userID, types.RelationRef{Set: true, ID: first.ID})
	if err != nil {
		t.Fatalf("set first: %v", err)
	}
	if profile.PersonalityResultID == nil || *profile.PersonalityResultID != first.ID {
		t.Fatalf("profile not updated: %+v", profile)
	}
	if trigger.count() != 1 {
		t.Fatalf("trigger calls: want 1 got %d", trigger.count())
	}

	if _, err := svc.SetPersonalityResult(h.ctx, userID, types.RelationRef{Set: true, ID: first.ID}); err != nil {
		t.Fatalf("set same: %v", err)
	}
	if trigger.count() != 1 {
		t.Fatalf("unchanged value fired trigger: %d calls", trigger.count())
	}

	if _, err := svc.SetPersonalityResult(h.ctx, userID, types.RelationRef{Set: true, ID: second.ID}); err != nil {
		t.Fatalf("set second: %v", err)
	}
	if trigger.count() != 2 || trigger.calls[1] != second.ID {
		t.Fatalf("want second trigger for %s, got %v", second.ID, trigger.calls)
	}
}

func TestSetPersonalityResultClearDoesNotFire(t *testing.T) {
	h := newHarness(t)
	trigger := &recordingTrigger{}
	svc := newProfileService(t, h, trigger)
	userID := uuid.New()
	pr := testutil.SeedPersonalityResult(t, h.ctx, h.db, "clear")
	testutil.SeedUserProfile(t, h.ctx, h.db, userID, testutil.PtrUUID(pr.ID))

	profile, err := svc.SetPersonalityResult(h.ctx, userID, types.RelationRef{Set: true, Clear: true})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if profile.PersonalityResultID != nil {
		t.Fatalf("want cleared, got %v", profile.PersonalityResultID)
	}
	if trigger.count() != 0 {
		t.Fatalf("clear fired trigger")
	}
}

func TestSetPersonalityResultRejectsUnknown(t *testing.T) {
	h := newHarness(t)
	svc := newProfileService(t, h, nil)

	_, err := svc.SetPersonalityResult(h.ctx, uuid.New(), types.RelationRef{Set: true, ID: uuid.New()})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
	_, err = svc.SetPersonalityResult(h.ctx, uuid.New(), types.RelationRef{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unset ref: want ErrInvalidInput, got %v", err)
	}
}

func TestSetPersonalityResultIgnoresTriggerError(t *testing.T) {
	h := newHarness(t)
	svc := newProfileService(t, h, &recordingTrigger{err: errors.New("queue down")})
	pr := testutil.SeedPersonalityResult(t, h.ctx, h.db, "err")

	if _, err := svc.SetPersonalityResult(h.ctx, uuid.New(), types.RelationRef{Set: true, ID: pr.ID}); err != nil {
		t.Fatalf("trigger error leaked: %v", err)
	}
}

func TestInlineResyncTriggerRunsResync(t *testing.T) {
	h := newHarness(t)
	catalog := testutil.SeedCatalog(t, h.ctx, h.db, 2, 1)
	userID := uuid.New()
	pr := testutil.SeedPersonalityResult(t, h.ctx, h.db, "inline")
	testutil.SeedPersonalityRecommendation(t, h.ctx, h.db, pr.ID, catalog[1].ID, testutil.PtrInt(1))

	trigger := NewInlineResyncTrigger(testutil.Logger(t), h.reco, 0)
	svc := newProfileService(t, h, trigger)
	if _, err := svc.SetPersonalityResult(h.ctx, userID, types.RelationRef{Set: true, ID: pr.ID}); err != nil {
		t.Fatalf("set: %v", err)
	}
	trigger.Wait()

	row := h.row(t, userID, catalog[1].ID)
	if row.Source != types.SourcePersonality || row.PersonalityRank == nil || *row.PersonalityRank != 1 {
		t.Fatalf("resync did not create pick: %+v", row)
	}
}

func TestInlineResyncTriggerValidates(t *testing.T) {
	h := newHarness(t)
	trigger := NewInlineResyncTrigger(testutil.Logger(t), h.reco, 0)
	if err := trigger.OnPersonalityResultChanged(h.ctx, uuid.Nil, uuid.New()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}
