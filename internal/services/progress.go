package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/nurture-backend/internal/data/repos"
	types "github.com/yungbote/nurture-backend/internal/domain"
	"github.com/yungbote/nurture-backend/internal/observability"
	"github.com/yungbote/nurture-backend/internal/platform/dbctx"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
)

// PageReadInput is one page-view event for a (user, course, unit).
type PageReadInput struct {
	UserID    uuid.UUID
	CourseID  uuid.UUID
	UnitUUID  string
	EventType string
	DwellMS   *int
	SessionID string
	EventID   string
	ClientTS  *time.Time
	Metadata  map[string]interface{}
}

// ProgressView is a progress row as returned to clients.
type ProgressView struct {
	*types.CourseProgress
	Percent float64              `json:"percent"`
	Course  *types.CourseSummary `json:"course,omitempty"`
}

func NewProgressView(row *types.CourseProgress, course *types.Course) *ProgressView {
	if row == nil {
		return nil
	}
	return &ProgressView{CourseProgress: row, Percent: row.Percent(), Course: course.Summary()}
}

type ProgressService interface {
	IngestPageRead(ctx context.Context, in PageReadInput) (*ProgressView, error)
}

type progressService struct {
	db       *gorm.DB
	log      *logger.Logger
	courses  repos.CourseRepo
	progress repos.CourseProgressRepo
	ledger   repos.CourseUnitStateRepo
	readLog  repos.CourseReadLogRepo
	units    CourseUnitService
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courses repos.CourseRepo,
	progress repos.CourseProgressRepo,
	ledger repos.CourseUnitStateRepo,
	readLog repos.CourseReadLogRepo,
	units CourseUnitService,
) ProgressService {
	return &progressService{
		db:       db,
		log:      baseLog.With("service", "ProgressService"),
		courses:  courses,
		progress: progress,
		ledger:   ledger,
		readLog:  readLog,
		units:    units,
	}
}

// IngestPageRead logs the event, marks the unit finished and refreshes the
// (user, course) progress row from the ledger. Repeating the same unit only
// moves current_unit_uuid and last_activity_at. Steps commit independently.
func (s *progressService) IngestPageRead(ctx context.Context, in PageReadInput) (view *ProgressView, err error) {
	ctx, span := tracer.Start(ctx, "ProgressService.IngestPageRead",
		trace.WithAttributes(attribute.String("course.id", in.CourseID.String())),
	)
	defer func() {
		endSpan(span, err)
		observability.RecordPageRead(pageReadOutcome(err))
	}()

	in.UnitUUID = strings.TrimSpace(in.UnitUUID)
	if in.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidInput)
	}
	if in.CourseID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing course_id", ErrInvalidInput)
	}
	if in.UnitUUID == "" {
		return nil, fmt.Errorf("%w: missing unit_uuid", ErrInvalidInput)
	}

	units, err := s.units.UnitIdentifiers(ctx, in.CourseID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	s.appendReadLog(dbc, in)

	row, created, err := s.progress.FindOrCreate(dbc, &types.CourseProgress{
		UserID:     in.UserID,
		CourseID:   in.CourseID,
		Status:     types.ProgressQueued,
		Source:     types.SourceSystem,
		Priority:   types.PriorityFor(types.SourceSystem),
		TotalUnits: len(units),
	})
	if err != nil {
		return nil, fmt.Errorf("find or create progress: %w", err)
	}
	if !created && row.TotalUnits == 0 && len(units) > 0 {
		if err := s.progress.UpdateFields(dbc, row.ID, map[string]interface{}{"total_units": len(units)}); err != nil {
			return nil, fmt.Errorf("refresh total_units: %w", err)
		}
		row.TotalUnits = len(units)
	}

	inserted, err := s.ledger.MarkComplete(dbc, in.UserID, in.CourseID, in.UnitUUID)
	if err != nil {
		return nil, fmt.Errorf("mark unit complete: %w", err)
	}
	if inserted {
		observability.RecordUnitCompleted()
	}

	if err := s.recomputeFromLedger(dbc, row, in.UnitUUID); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(dbc, in.CourseID)
	if err != nil {
		s.log.Warn("Course summary lookup failed", "course_id", in.CourseID, "error", err)
	}
	return NewProgressView(row, course), nil
}

// recomputeFromLedger sets completed_units from the ledger count, derives the
// status, stamps completed_at on the first transition into completed, and
// records the touched unit. row is updated in place to match what was
// written.
func (s *progressService) recomputeFromLedger(dbc dbctx.Context, row *types.CourseProgress, unitUUID string) error {
	count, err := s.ledger.Count(dbc, row.UserID, row.CourseID)
	if err != nil {
		return fmt.Errorf("count completed units: %w", err)
	}
	now := time.Now().UTC()
	completed := int(count)
	status := types.StatusFor(completed, row.TotalUnits, row.Status)

	updates := map[string]interface{}{
		"completed_units":   completed,
		"status":            status,
		"current_unit_uuid": unitUUID,
		"last_activity_at":  now,
		"updated_at":        now,
	}
	if status == types.ProgressCompleted && row.CompletedAt == nil {
		updates["completed_at"] = now
		row.CompletedAt = &now
		observability.RecordCourseCompleted()
	}
	if err := s.progress.UpdateFields(dbc, row.ID, updates); err != nil {
		return fmt.Errorf("update progress: %w", err)
	}

	row.CompletedUnits = completed
	row.Status = status
	row.CurrentUnitUUID = unitUUID
	row.LastActivityAt = &now
	row.UpdatedAt = now
	return nil
}

// appendReadLog is best effort; the log is diagnostic only.
func (s *progressService) appendReadLog(dbc dbctx.Context, in PageReadInput) {
	entry := &types.CourseReadLog{
		UserID:    in.UserID,
		CourseID:  in.CourseID,
		UnitUUID:  in.UnitUUID,
		EventType: strings.TrimSpace(in.EventType),
		DwellMS:   in.DwellMS,
		SessionID: strings.TrimSpace(in.SessionID),
		EventID:   strings.TrimSpace(in.EventID),
		ClientTS:  in.ClientTS,
		ServerTS:  time.Now().UTC(),
	}
	if len(in.Metadata) > 0 {
		if raw, err := json.Marshal(in.Metadata); err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}
	if err := s.readLog.Create(dbc, entry); err != nil {
		s.log.Warn("Read log append failed", "user_id", in.UserID, "course_id", in.CourseID, "error", err)
	}
}

func pageReadOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrDependency):
		return "dependency_failure"
	default:
		return "error"
	}
}
