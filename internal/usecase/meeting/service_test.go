package meeting

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
)

type fakeMeetingRepo struct {
	mu       sync.Mutex
	meetings map[uuid.UUID]*entities.Meeting
	items    *fakeItemRepo
}

func newFakeMeetingRepo(items *fakeItemRepo) *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[uuid.UUID]*entities.Meeting), items: items}
}

func (r *fakeMeetingRepo) Create(_ context.Context, m *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.meetings[m.ID] = &cp
	return nil
}

func (r *fakeMeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.meetings[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeMeetingRepo) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	m, err := r.FindByID(ctx, id)
	if err != nil || m == nil {
		return m, err
	}
	if r.items != nil {
		items, _ := r.items.ListByMeeting(ctx, id)
		m.ActionItems = items
	}
	return m, nil
}

func (r *fakeMeetingRepo) FindByNotetakerID(_ context.Context, notetakerID string) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.meetings {
		if m.NotetakerID == notetakerID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMeetingRepo) FindByMeetingURL(_ context.Context, meetingURL string) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.meetings {
		if m.MeetingURL == meetingURL {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMeetingRepo) List(_ context.Context, _ repositories.MeetingFilters) ([]repositories.MeetingListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repositories.MeetingListItem, 0, len(r.meetings))
	for _, m := range r.meetings {
		out = append(out, repositories.MeetingListItem{Meeting: *m})
	}
	return out, nil
}

func (r *fakeMeetingRepo) Updates(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil
	}
	for k, v := range updates {
		switch k {
		case "title":
			m.Title = v.(string)
		case "summary":
			m.Summary = v.(string)
		case "status":
			m.Status = v.(entities.MeetingStatus)
		case "transcript_text":
			m.TranscriptText = v.(string)
		case "notetaker_id":
			m.NotetakerID = v.(string)
		}
	}
	return nil
}

func (r *fakeMeetingRepo) ClaimForProcessing(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok || !m.CanProcess() {
		return false, nil
	}
	m.Status = entities.MeetingStatusProcessing
	return true, nil
}

func (r *fakeMeetingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.meetings[id]; ok {
		m.Status = status
	}
	return nil
}

func (r *fakeMeetingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.meetings, id)
	return nil
}

func (r *fakeMeetingRepo) Stats(_ context.Context) (*repositories.MeetingStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repositories.MeetingStats{}
	for _, m := range r.meetings {
		stats.Total++
		switch m.Status {
		case entities.MeetingStatusPending:
			stats.Pending++
		case entities.MeetingStatusProcessing:
			stats.Processing++
		case entities.MeetingStatusCompleted:
			stats.Completed++
		case entities.MeetingStatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items []entities.ActionItem
}

func (r *fakeItemRepo) Create(_ context.Context, item *entities.ActionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *item)
	return nil
}

func (r *fakeItemRepo) CreateBatch(_ context.Context, items []*entities.ActionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		r.items = append(r.items, *item)
	}
	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == id {
			cp := item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) List(_ context.Context, _ repositories.ActionItemFilters) ([]entities.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.ActionItem(nil), r.items...), nil
}

func (r *fakeItemRepo) ListByMeeting(_ context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.ActionItem
	for _, item := range r.items {
		if item.MeetingID == meetingID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Updates(_ context.Context, _ uuid.UUID, _ map[string]interface{}) error {
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeItemRepo) DeleteByMeeting(_ context.Context, meetingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, item := range r.items {
		if item.MeetingID != meetingID {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}

func (r *fakeItemRepo) Stats(_ context.Context, _ *uuid.UUID) (*repositories.ActionItemStats, error) {
	return &repositories.ActionItemStats{}, nil
}

type fakeLocker struct {
	denyAcquire bool
	released    []string
}

func (l *fakeLocker) Acquire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return !l.denyAcquire, nil
}

func (l *fakeLocker) Release(_ context.Context, key string) error {
	l.released = append(l.released, key)
	return nil
}

type fakeNotetaker struct {
	enabled    bool
	inviteID   string
	inviteErr  error
	transcript string
}

func (n *fakeNotetaker) Enabled() bool { return n.enabled }

func (n *fakeNotetaker) InviteNotetaker(_ context.Context, _ entities.MeetingProvider, _ string, _ *time.Time) (string, error) {
	return n.inviteID, n.inviteErr
}

func (n *fakeNotetaker) FetchTranscription(_ context.Context, _ string) (string, string) {
	return n.transcript, ""
}

type stubAI struct {
	summary    string
	summaryErr error
	items      []entities.ExtractedActionItem
	extractErr error
}

func (s *stubAI) SummarizeMeeting(_ context.Context, _ string) (string, error) {
	return s.summary, s.summaryErr
}

func (s *stubAI) ExtractActionItems(_ context.Context, _ string) ([]entities.ExtractedActionItem, error) {
	return s.items, s.extractErr
}

type fixture struct {
	svc       Service
	meetings  *fakeMeetingRepo
	items     *fakeItemRepo
	locker    *fakeLocker
	notetaker *fakeNotetaker
	ai        *stubAI
}

func newFixture() *fixture {
	items := &fakeItemRepo{}
	meetings := newFakeMeetingRepo(items)
	locker := &fakeLocker{}
	notetaker := &fakeNotetaker{}
	ai := &stubAI{
		summary: "**Goals**\n- test the pipeline",
		items: []entities.ExtractedActionItem{
			{Text: "Send the notes", Priority: "High", Assignee: "Dana"},
			{Text: "Schedule a retro", Priority: "Low", DueDate: "2026-09-15"},
		},
	}
	svc := NewService(meetings, items, ai, notetaker, locker, nil, zap.NewNop())
	return &fixture{svc: svc, meetings: meetings, items: items, locker: locker, notetaker: notetaker, ai: ai}
}

func seedMeeting(f *fixture, mutate func(*entities.Meeting)) *entities.Meeting {
	m := entities.NewMeeting("Weekly sync", time.Now(), 30)
	if mutate != nil {
		mutate(m)
	}
	f.meetings.meetings[m.ID] = m
	return m
}

func kindOf(t *testing.T, err error) apperrors.Kind {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.Kind
}

func TestProcessSuccess(t *testing.T) {
	f := newFixture()
	m := seedMeeting(f, func(m *entities.Meeting) {
		m.TranscriptText = "we agreed to ship on friday"
	})

	processed, err := f.svc.Process(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if processed.Status != entities.MeetingStatusCompleted {
		t.Errorf("got status %s, want completed", processed.Status)
	}
	if processed.Summary == "" {
		t.Error("expected a summary")
	}
	if len(processed.ActionItems) != 2 {
		t.Errorf("got %d action items, want 2", len(processed.ActionItems))
	}
	for _, item := range processed.ActionItems {
		if item.Status != entities.ActionItemStatusPending {
			t.Errorf("new item has status %s, want Pending", item.Status)
		}
	}
	if len(f.locker.released) != 1 {
		t.Errorf("lock released %d times, want 1", len(f.locker.released))
	}
}

func TestProcessParsesDueDates(t *testing.T) {
	f := newFixture()
	m := seedMeeting(f, func(m *entities.Meeting) {
		m.TranscriptText = "transcript"
	})

	if _, err := f.svc.Process(context.Background(), m.ID); err != nil {
		t.Fatalf("Process: %v", err)
	}
	items, _ := f.items.ListByMeeting(context.Background(), m.ID)
	var withDue int
	for _, item := range items {
		if item.DueDate != nil {
			withDue++
		}
	}
	if withDue != 1 {
		t.Errorf("got %d items with due dates, want 1", withDue)
	}
}

func TestProcessMeetingNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Process(context.Background(), uuid.New())
	if kind := kindOf(t, err); kind != apperrors.KindNotFound {
		t.Errorf("got kind %s, want not found", kind)
	}
}

func TestProcessNoTranscriptSource(t *testing.T) {
	f := newFixture()
	m := seedMeeting(f, nil)

	_, err := f.svc.Process(context.Background(), m.ID)
	if kind := kindOf(t, err); kind != apperrors.KindNoTranscript {
		t.Errorf("got kind %s, want no transcript", kind)
	}
	stored, _ := f.meetings.FindByID(context.Background(), m.ID)
	if stored.Status != entities.MeetingStatusFailed {
		t.Errorf("meeting without a transcript must end up failed, got %s", stored.Status)
	}
}

func TestProcessEmptyNotetakerTranscriptFails(t *testing.T) {
	f := newFixture()
	f.notetaker.enabled = true
	f.notetaker.transcript = ""
	m := seedMeeting(f, func(m *entities.Meeting) {
		m.NotetakerID = "nt-dry"
	})

	_, err := f.svc.Process(context.Background(), m.ID)
	if kind := kindOf(t, err); kind != apperrors.KindNoTranscript {
		t.Errorf("got kind %s, want no transcript", kind)
	}
	stored, _ := f.meetings.FindByID(context.Background(), m.ID)
	if stored.Status != entities.MeetingStatusFailed {
		t.Errorf("got status %s, want failed", stored.Status)
	}
}

func TestProcessAlreadyProcessing(t *testing.T) {
	f := newFixture()
	m := seedMeeting(f, func(m *entities.Meeting) {
		m.TranscriptText = "transcript"
		m.Status = entities.MeetingStatusProcessing
	})

	_, err := f.svc.Process(context.Background(), m.ID)
	if kind := kindOf(t, err); kind != apperrors.KindConflict {
		t.Errorf("got kind %s, want conflict", kind)
	}
}

func TestProcessLockContention(t *testing.T) {
	f := newFixture()
	f.locker.denyAcquire = true
	m := seedMeeting(f, func(m *entities.Meeting) {
		m.TranscriptText = "transcript"
	})

	_, err := f.svc.Process(context.Background(), m.ID)
	if kind := kindOf(t, err); kind != apperrors.KindConflict {
		t.Errorf("got kind %s, want conflict", kind)
	}
	stored, _ := f.meetings.FindByID(context.Background(), m.ID)
	if stored.Status != entities.MeetingStatusPending {
		t.Errorf("meeting should stay pending when lock is held, got %s", stored.Status)
	}
}

func TestProcessSummarizeFailureMarksFailed(t *testing.T) {
	f := newFixture()
	f.ai.summaryErr = apperrors.ErrUpstream("openai", errors.New("rate limited"))
	m := seedMeeting(f, func(m *entities.Meeting) {
		m.TranscriptText = "transcript"
	})

	_, err := f.svc.Process(context.Background(), m.ID)
	if kind := kindOf(t, err); kind != apperrors.KindUpstream {
		t.Errorf("got kind %s, want upstream", kind)
	}
	stored, _ := f.meetings.FindByID(context.Background(), m.ID)
	if stored.Status != entities.MeetingStatusFailed {
		t.Errorf("got status %s, want failed", stored.Status)
	}
}

func TestProcessRetryAfterFailure(t *testing.T) {
	f := newFixture()
	m := seedMeeting(f, func(m *entities.Meeting) {
		m.TranscriptText = "transcript"
		m.Status = entities.MeetingStatusFailed
	})

	processed, err := f.svc.Process(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("failed meeting should be retryable: %v", err)
	}
	if processed.Status != entities.MeetingStatusCompleted {
		t.Errorf("got status %s, want completed", processed.Status)
	}
}

func TestProcessFetchesNotetakerTranscript(t *testing.T) {
	f := newFixture()
	f.notetaker.enabled = true
	f.notetaker.transcript = "transcript from the bot"
	m := seedMeeting(f, func(m *entities.Meeting) {
		m.NotetakerID = "nt-1"
	})

	processed, err := f.svc.Process(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if processed.TranscriptText != "transcript from the bot" {
		t.Errorf("fetched transcript not persisted, got %q", processed.TranscriptText)
	}
}

func TestCreateInvitesNotetaker(t *testing.T) {
	f := newFixture()
	f.notetaker.enabled = true
	f.notetaker.inviteID = "nt-42"

	created, err := f.svc.Create(context.Background(), CreateMeetingInput{
		Title:      "Planning",
		Date:       time.Now().Add(time.Hour),
		Duration:   45,
		Provider:   entities.MeetingProviderZoom,
		MeetingURL: "https://zoom.us/j/99",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.NotetakerID != "nt-42" {
		t.Errorf("got notetaker id %q, want nt-42", created.NotetakerID)
	}
	if created.Status != entities.MeetingStatusPending {
		t.Errorf("got status %s, want pending", created.Status)
	}
}

func TestCreateSurvivesInviteFailure(t *testing.T) {
	f := newFixture()
	f.notetaker.enabled = true
	f.notetaker.inviteErr = errors.New("nylas is down")

	created, err := f.svc.Create(context.Background(), CreateMeetingInput{
		Title:      "Planning",
		Date:       time.Now(),
		Duration:   45,
		MeetingURL: "https://zoom.us/j/99",
	})
	if err != nil {
		t.Fatalf("Create should succeed despite invite failure: %v", err)
	}
	if created.NotetakerID != "" {
		t.Errorf("got notetaker id %q, want empty", created.NotetakerID)
	}
}

func TestUpdateNoFields(t *testing.T) {
	f := newFixture()
	m := seedMeeting(f, nil)

	_, err := f.svc.Update(context.Background(), m.ID, UpdateMeetingInput{})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Message != "No updates provided" {
		t.Errorf("got message %q", appErr.Message)
	}
}

func TestUpdateNeverTouchesStatus(t *testing.T) {
	f := newFixture()
	m := seedMeeting(f, nil)

	title := "Renamed"
	updated, err := f.svc.Update(context.Background(), m.ID, UpdateMeetingInput{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != entities.MeetingStatusPending {
		t.Errorf("update must not change the lifecycle, got status %s", updated.Status)
	}
}

func TestDeleteRemovesActionItems(t *testing.T) {
	f := newFixture()
	m := seedMeeting(f, nil)
	item := entities.NewActionItem(m.ID, "Leftover task", entities.ActionItemPriorityMedium)
	f.items.Create(context.Background(), item)

	if err := f.svc.Delete(context.Background(), m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	remaining, _ := f.items.ListByMeeting(context.Background(), m.ID)
	if len(remaining) != 0 {
		t.Errorf("got %d orphaned items, want 0", len(remaining))
	}
	stored, _ := f.meetings.FindByID(context.Background(), m.ID)
	if stored != nil {
		t.Error("meeting should be gone")
	}
}

func TestGetNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Get(context.Background(), uuid.New())
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Message != "Meeting not found" {
		t.Errorf("got message %q", appErr.Message)
	}
}

func TestApplyNotetakerMediaAttachesTranscript(t *testing.T) {
	f := newFixture()
	m := seedMeeting(f, func(m *entities.Meeting) {
		m.NotetakerID = "nt-7"
		// completed so the webhook does not re-trigger processing here
		m.Status = entities.MeetingStatusCompleted
	})

	err := f.svc.ApplyNotetakerMedia(context.Background(), "nt-7", "", "the transcript", "")
	if err != nil {
		t.Fatalf("ApplyNotetakerMedia: %v", err)
	}
	stored, _ := f.meetings.FindByID(context.Background(), m.ID)
	if stored.TranscriptText != "the transcript" {
		t.Errorf("got transcript %q", stored.TranscriptText)
	}
}

func TestApplyNotetakerMediaMatchesByURL(t *testing.T) {
	f := newFixture()
	m := seedMeeting(f, func(m *entities.Meeting) {
		m.MeetingURL = "https://meet.google.com/abc"
		m.Status = entities.MeetingStatusCompleted
	})

	err := f.svc.ApplyNotetakerMedia(context.Background(), "nt-9", "https://meet.google.com/abc", "text", "")
	if err != nil {
		t.Fatalf("ApplyNotetakerMedia: %v", err)
	}
	stored, _ := f.meetings.FindByID(context.Background(), m.ID)
	if stored.NotetakerID != "nt-9" {
		t.Errorf("notetaker id not backfilled, got %q", stored.NotetakerID)
	}
}

func TestApplyNotetakerMediaUnknownMeeting(t *testing.T) {
	f := newFixture()
	if err := f.svc.ApplyNotetakerMedia(context.Background(), "nt-unknown", "", "text", ""); err != nil {
		t.Errorf("unmatched event should be dropped quietly, got %v", err)
	}
}
