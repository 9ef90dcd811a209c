package meeting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	apperrors "github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	aiuse "github.com/johnquangdev/meeting-notes/internal/usecase/ai"
	"github.com/johnquangdev/meeting-notes/pkg/jobcontext"
)

const processLockTTL = 10 * time.Minute

// Notetaker is the slice of the Nylas client the service depends on.
// FetchTranscription degrades to empty strings on failure so a flaky
// provider reads the same as a transcript that is not ready yet.
type Notetaker interface {
	Enabled() bool
	InviteNotetaker(ctx context.Context, provider entities.MeetingProvider, meetingURL string, startsAt *time.Time) (string, error)
	FetchTranscription(ctx context.Context, notetakerID string) (text, summary string)
}

// TranscriptArchiver stores raw transcripts in object storage
type TranscriptArchiver interface {
	ArchiveTranscript(ctx context.Context, meetingID string, text string) (string, error)
}

// Locker guards a meeting against concurrent processing
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// CreateMeetingInput carries validated fields for a new meeting
type CreateMeetingInput struct {
	Title             string
	Date              time.Time
	Duration          int
	Provider          entities.MeetingProvider
	MeetingURL        string
	ExternalMeetingID string
	TranscriptURL     string
	TranscriptText    string
	Metadata          datatypes.JSON
}

// UpdateMeetingInput carries optional fields for a partial update.
// Status is deliberately absent: the lifecycle is owned by the
// processing pipeline and is never written by a client.
type UpdateMeetingInput struct {
	Title          *string
	Date           *time.Time
	Duration       *int
	MeetingURL     *string
	TranscriptURL  *string
	TranscriptText *string
	Summary        *string
	Metadata       datatypes.JSON
}

// Empty reports whether the update contains no fields
func (u UpdateMeetingInput) Empty() bool {
	return u.Title == nil && u.Date == nil && u.Duration == nil &&
		u.MeetingURL == nil && u.TranscriptURL == nil && u.TranscriptText == nil &&
		u.Summary == nil && u.Metadata == nil
}

// Service exposes the meeting operations
type Service interface {
	Create(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, error)
	List(ctx context.Context, filters repositories.MeetingFilters) ([]repositories.MeetingListItem, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateMeetingInput) (*entities.Meeting, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Process(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	Stats(ctx context.Context) (*repositories.MeetingStats, error)
	ApplyNotetakerMedia(ctx context.Context, notetakerID, meetingURL, text, summary string) error
}

type service struct {
	meetings  repositories.MeetingRepository
	items     repositories.ActionItemRepository
	ai        aiuse.Service
	notetaker Notetaker
	locker    Locker
	archiver  TranscriptArchiver // nil when storage is not configured
	http      *http.Client
	logger    *zap.Logger
}

// NewService creates the meeting service
func NewService(
	meetings repositories.MeetingRepository,
	items repositories.ActionItemRepository,
	ai aiuse.Service,
	notetaker Notetaker,
	locker Locker,
	archiver TranscriptArchiver,
	logger *zap.Logger,
) Service {
	return &service{
		meetings:  meetings,
		items:     items,
		ai:        ai,
		notetaker: notetaker,
		locker:    locker,
		archiver:  archiver,
		http:      &http.Client{Timeout: 60 * time.Second},
		logger:    logger,
	}
}

func (s *service) Create(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, error) {
	meeting := entities.NewMeeting(input.Title, input.Date, input.Duration)
	meeting.Provider = input.Provider
	meeting.MeetingURL = input.MeetingURL
	meeting.ExternalMeetingID = input.ExternalMeetingID
	meeting.TranscriptURL = input.TranscriptURL
	meeting.TranscriptText = input.TranscriptText
	if input.Metadata != nil {
		meeting.Metadata = input.Metadata
	}

	// Inviting the bot is best effort: a meeting is still worth
	// recording even when the notetaker cannot join it.
	if meeting.MeetingURL != "" && s.notetaker.Enabled() {
		startsAt := meeting.Date
		notetakerID, err := s.notetaker.InviteNotetaker(ctx, meeting.Provider, meeting.MeetingURL, &startsAt)
		if err != nil {
			s.logger.Warn("failed to invite notetaker",
				zap.String("meeting_url", meeting.MeetingURL),
				zap.Error(err))
		} else if notetakerID != "" {
			meeting.NotetakerID = notetakerID
		}
	}

	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return meeting, nil
}

func (s *service) List(ctx context.Context, filters repositories.MeetingFilters) ([]repositories.MeetingListItem, error) {
	items, err := s.meetings.List(ctx, filters)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetings.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if meeting == nil {
		return nil, apperrors.ErrNotFound("Meeting")
	}
	return meeting, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateMeetingInput) (*entities.Meeting, error) {
	if input.Empty() {
		return nil, apperrors.ErrValidation("No updates provided")
	}

	meeting, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if meeting == nil {
		return nil, apperrors.ErrNotFound("Meeting")
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Date != nil {
		updates["date"] = *input.Date
	}
	if input.Duration != nil {
		updates["duration"] = *input.Duration
	}
	if input.MeetingURL != nil {
		updates["meeting_url"] = *input.MeetingURL
	}
	if input.TranscriptURL != nil {
		updates["transcript_url"] = *input.TranscriptURL
	}
	if input.TranscriptText != nil {
		updates["transcript_text"] = *input.TranscriptText
	}
	if input.Summary != nil {
		updates["summary"] = *input.Summary
	}
	if input.Metadata != nil {
		updates["metadata"] = input.Metadata
	}

	if err := s.meetings.Updates(ctx, id, updates); err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	meeting, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return apperrors.ErrInternal(err)
	}
	if meeting == nil {
		return apperrors.ErrNotFound("Meeting")
	}

	if err := s.items.DeleteByMeeting(ctx, id); err != nil {
		return apperrors.ErrInternal(err)
	}
	if err := s.meetings.Delete(ctx, id); err != nil {
		return apperrors.ErrInternal(err)
	}
	return nil
}

func (s *service) Stats(ctx context.Context) (*repositories.MeetingStats, error) {
	stats, err := s.meetings.Stats(ctx)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return stats, nil
}

// Process runs the transcript -> summary -> action items pipeline for
// one meeting. Concurrent callers lose the CAS claim or the lock and
// get a conflict instead of a duplicate run.
func (s *service) Process(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if meeting == nil {
		return nil, apperrors.ErrNotFound("Meeting")
	}
	if !meeting.CanProcess() {
		return nil, apperrors.ErrConflict("Meeting is already processed or being processed")
	}

	lockKey := "meeting:process:" + id.String()
	acquired, err := s.locker.Acquire(ctx, lockKey, processLockTTL)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if !acquired {
		return nil, apperrors.ErrConflict("Meeting is already processed or being processed")
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			s.logger.Warn("failed to release processing lock",
				zap.String("meeting_id", id.String()), zap.Error(err))
		}
	}()

	claimed, err := s.meetings.ClaimForProcessing(ctx, id)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if !claimed {
		return nil, apperrors.ErrConflict("Meeting is already processed or being processed")
	}

	jobCtx, cancel := jobcontext.Begin(ctx, "process-meeting")
	defer cancel()

	runErr := jobcontext.Run(jobCtx, s.logger, func(ctx context.Context) error {
		return s.runPipeline(ctx, meeting)
	})
	if runErr != nil {
		if err := s.meetings.UpdateStatus(context.WithoutCancel(ctx), id, entities.MeetingStatusFailed); err != nil {
			s.logger.Error("failed to mark meeting failed",
				zap.String("meeting_id", id.String()), zap.Error(err))
		}
		var appErr *apperrors.AppError
		if errors.As(runErr, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.ErrInternal(runErr)
	}

	processed, err := s.meetings.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return processed, nil
}

func (s *service) runPipeline(ctx context.Context, meeting *entities.Meeting) error {
	transcript, err := s.resolveTranscript(ctx, meeting)
	if err != nil {
		return err
	}

	summary, err := s.ai.SummarizeMeeting(ctx, transcript)
	if err != nil {
		return err
	}

	extracted, err := s.ai.ExtractActionItems(ctx, transcript)
	if err != nil {
		return err
	}

	items := make([]*entities.ActionItem, 0, len(extracted))
	for _, raw := range extracted {
		item := entities.NewActionItem(meeting.ID, raw.Text, entities.ActionItemPriority(raw.Priority))
		item.Assignee = raw.Assignee
		if raw.DueDate != "" {
			if due, parseErr := time.Parse("2006-01-02", raw.DueDate); parseErr == nil {
				item.DueDate = &due
			}
		}
		items = append(items, item)
	}
	if err := s.items.CreateBatch(ctx, items); err != nil {
		return fmt.Errorf("persist action items: %w", err)
	}

	updates := map[string]interface{}{
		"summary": summary,
		"status":  entities.MeetingStatusCompleted,
	}
	if meeting.TranscriptText == "" && transcript != "" {
		updates["transcript_text"] = transcript
	}
	if err := s.meetings.Updates(ctx, meeting.ID, updates); err != nil {
		return fmt.Errorf("persist summary: %w", err)
	}

	s.logger.Info("meeting processed",
		zap.String("meeting_id", meeting.ID.String()),
		zap.Int("action_items", len(items)))
	return nil
}

// resolveTranscript finds transcript text from inline text, a fetchable
// URL, or the notetaker session, in that order.
func (s *service) resolveTranscript(ctx context.Context, meeting *entities.Meeting) (string, error) {
	if meeting.TranscriptText != "" {
		return meeting.TranscriptText, nil
	}

	if meeting.TranscriptURL != "" {
		text, err := s.downloadTranscript(ctx, meeting.TranscriptURL)
		if err != nil {
			return "", apperrors.ErrUpstream("transcript download", err)
		}
		s.archive(ctx, meeting.ID.String(), text)
		return text, nil
	}

	if meeting.NotetakerID != "" && s.notetaker.Enabled() {
		text, _ := s.notetaker.FetchTranscription(ctx, meeting.NotetakerID)
		if text != "" {
			s.archive(ctx, meeting.ID.String(), text)
			return text, nil
		}
	}

	return "", apperrors.ErrNoTranscript()
}

func (s *service) downloadTranscript(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript url returned %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("transcript url returned empty body")
	}
	return text, nil
}

func (s *service) archive(ctx context.Context, meetingID, text string) {
	if s.archiver == nil {
		return
	}
	object, err := s.archiver.ArchiveTranscript(ctx, meetingID, text)
	if err != nil {
		s.logger.Warn("failed to archive transcript",
			zap.String("meeting_id", meetingID), zap.Error(err))
		return
	}
	s.logger.Debug("transcript archived",
		zap.String("meeting_id", meetingID), zap.String("object", object))
}

// ApplyNotetakerMedia handles a notetaker.media webhook event: it
// attaches the delivered transcript to the matching meeting and kicks
// off processing. Unmatched events are logged and dropped so the
// webhook can still be acknowledged.
func (s *service) ApplyNotetakerMedia(ctx context.Context, notetakerID, meetingURL, text, summary string) error {
	meeting, err := s.meetings.FindByNotetakerID(ctx, notetakerID)
	if err != nil {
		return apperrors.ErrInternal(err)
	}
	if meeting == nil && meetingURL != "" {
		meeting, err = s.meetings.FindByMeetingURL(ctx, meetingURL)
		if err != nil {
			return apperrors.ErrInternal(err)
		}
	}
	if meeting == nil {
		s.logger.Warn("notetaker media for unknown meeting",
			zap.String("notetaker_id", notetakerID),
			zap.String("meeting_url", meetingURL))
		return nil
	}

	if text == "" && s.notetaker.Enabled() {
		text, _ = s.notetaker.FetchTranscription(ctx, notetakerID)
	}
	if text == "" {
		s.logger.Warn("notetaker media event carried no transcript",
			zap.String("notetaker_id", notetakerID))
		return nil
	}

	updates := map[string]interface{}{
		"transcript_text": text,
	}
	if meeting.NotetakerID == "" {
		updates["notetaker_id"] = notetakerID
	}
	// Provider-generated summary is a placeholder until our own
	// summarization replaces it.
	if summary != "" && meeting.Summary == "" {
		updates["summary"] = summary
	}
	if err := s.meetings.Updates(ctx, meeting.ID, updates); err != nil {
		return apperrors.ErrInternal(err)
	}
	s.archive(ctx, meeting.ID.String(), text)

	if meeting.CanProcess() {
		detached := context.WithoutCancel(ctx)
		go func() {
			if _, err := s.Process(detached, meeting.ID); err != nil {
				s.logger.Warn("automatic processing after webhook failed",
					zap.String("meeting_id", meeting.ID.String()), zap.Error(err))
			}
		}()
	}
	return nil
}
