package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	autosaveQuiescence = 1500 * time.Millisecond
	maxSessionNotices  = 20

	originManual   = "manual"
	originAutosave = "autosave"
)

var (
	errSessionClosed = errors.New("editor session closed")
	errSaveInFlight  = errors.New("a save is already in flight")
)

// SessionNotice is a transient UI notice emitted by the editor session.
// Autosave successes use the lower-emphasis "autosave" kind so the frontend
// does not present them like an explicit user-initiated save.
type SessionNotice struct {
	Kind    string    `json:"kind"` // notice | autosave | error
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// EditorState is the session snapshot returned to the admin frontend.
type EditorState struct {
	SessionID   string          `json:"sessionId"`
	Trip        TripDraft       `json:"trip"`
	Dirty       bool            `json:"dirty"`
	Saving      bool            `json:"saving"`
	LastSavedAt *time.Time      `json:"lastSavedAt,omitempty"`
	Notices     []SessionNotice `json:"notices"`
}

// DraftSession owns one open trip draft: the editable record, the last
// server-acknowledged snapshot used for dirty-checking, and the debounced
// autosave machinery. All fields are guarded by mu; the only unlocked work is
// the gateway call itself, so saves never overlap and the Nth save's result
// always supersedes the (N-1)th's.
type DraftSession struct {
	mu sync.Mutex

	id      string
	gateway TripGateway
	log     *slog.Logger

	current       TripDraft
	savedSnapshot string

	autosaveEnabled  bool
	autosaveDelay    time.Duration
	timer            *time.Timer
	saving           bool
	failingSignature string
	lastSavedAt      *time.Time
	closed           bool
	notices          []SessionNotice
}

func newDraftSession(trip TripDraft, gateway TripGateway, log *slog.Logger, delay time.Duration) *DraftSession {
	if delay <= 0 {
		delay = autosaveQuiescence
	}
	s := &DraftSession{
		id:              uuid.NewString(),
		gateway:         gateway,
		log:             log,
		autosaveEnabled: true,
		autosaveDelay:   delay,
	}
	s.Load(trip)
	return s
}

func (s *DraftSession) ID() string { return s.id }

// Load resets the session onto a trip: the draft becomes a clone, the snapshot
// becomes its serialized form, and all failure state is cleared. Called once
// per distinct draft identity.
func (s *DraftSession) Load(trip TripDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = cloneTrip(trip)
	s.savedSnapshot = serializeTrip(trip)
	s.failingSignature = ""
	s.notices = nil
	s.stopTimerLocked()
}

// ApplyPatch merges a partial update into the draft and re-arms the autosave
// timer. It never persists anything itself.
func (s *DraftSession) ApplyPatch(patch TripPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	applyTripPatch(&s.current, patch)
	s.scheduleAutosaveLocked()
}

func (s *DraftSession) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isDirtyLocked()
}

func (s *DraftSession) isDirtyLocked() bool {
	return serializeTrip(s.current) != s.savedSnapshot
}

// SetAutosaveEnabled toggles the scheduler. Disabling cancels any pending
// timer; manual saves are unaffected.
func (s *DraftSession) SetAutosaveEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autosaveEnabled = enabled
	if !enabled {
		s.stopTimerLocked()
		return
	}
	s.scheduleAutosaveLocked()
}

// autosaveGuardsPassLocked evaluates the fire-time guard predicate: dirty,
// identified, titled, not latched on the last failing signature.
func (s *DraftSession) autosaveGuardsPassLocked() bool {
	if !s.autosaveEnabled || s.closed || s.saving {
		return false
	}
	if s.current.ID == "" {
		return false
	}
	if strings.TrimSpace(s.current.Title) == "" {
		return false
	}
	if !s.isDirtyLocked() {
		return false
	}
	if s.failingSignature != "" && tripSignature(s.current) == s.failingSignature {
		return false
	}
	return true
}

func (s *DraftSession) scheduleAutosaveLocked() {
	if !s.autosaveGuardsPassLocked() {
		return
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(s.autosaveDelay, s.autosaveTick)
		return
	}
	s.timer.Reset(s.autosaveDelay)
}

func (s *DraftSession) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
}

// autosaveTick fires after the quiescence window. The guards are re-evaluated
// here because edits, saves or a close may have happened since scheduling.
func (s *DraftSession) autosaveTick() {
	s.mu.Lock()
	if !s.autosaveGuardsPassLocked() {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if _, err := s.save(context.Background(), intentSave, originAutosave); err != nil &&
		!errors.Is(err, errSessionClosed) && !errors.Is(err, errSaveInFlight) {
		s.log.Warn("autosave failed", "session_id", s.id, "err", err)
	}
}

// Save performs a manual save with the given intent. Publish, archive and
// unpublish fold the status change into the same write as the content.
func (s *DraftSession) Save(ctx context.Context, intent string) (*TripDraft, error) {
	return s.save(ctx, intent, originManual)
}

func (s *DraftSession) save(ctx context.Context, intent, origin string) (*TripDraft, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errSessionClosed
	}
	if s.saving {
		s.mu.Unlock()
		return nil, errSaveInFlight
	}

	effective := cloneTrip(s.current)
	switch intent {
	case intentPublish:
		effective.Status = tripStatusPublished
	case intentArchive:
		effective.Status = tripStatusArchived
	case intentUnpublish:
		effective.Status = tripStatusDraft
	}
	sentContent := serializeTrip(s.current)
	s.saving = true
	s.stopTimerLocked()
	s.mu.Unlock()

	acked, err := s.gateway.SaveTrip(ctx, effective)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if s.closed {
		// Dangling result: the session went away mid-save, nothing to update.
		return nil, errSessionClosed
	}

	if err != nil {
		if origin == originAutosave {
			// Latch the failing content signature so the scheduler does not
			// retry identical content every quiescence interval. Any edit
			// that changes the signature re-enables attempts.
			s.failingSignature = tripSignature(effective)
			s.pushNoticeLocked("error", "Autospar misslyckades: "+err.Error())
		} else {
			s.pushNoticeLocked("error", "Kunde inte spara: "+err.Error())
		}
		// An edit may have raced the failed save; if its signature differs
		// from the latched one it still deserves an autosave attempt.
		s.scheduleAutosaveLocked()
		return nil, err
	}

	if serializeTrip(s.current) == sentContent {
		// No edits arrived while the save was in flight; adopt the
		// acknowledged record wholesale.
		s.current = cloneTrip(*acked)
	} else {
		// Edits raced the save: keep them, but carry over the fields the
		// server owns so they do not read as user changes.
		s.current.Status = acked.Status
		s.current.CreatedAt = acked.CreatedAt
		s.current.UpdatedAt = acked.UpdatedAt
	}

	// The snapshot must reflect exactly what the server acknowledged, not what
	// was sent, or server-side normalization would read as a dirty draft.
	s.savedSnapshot = serializeTrip(*acked)
	s.failingSignature = ""
	now := time.Now().UTC()
	s.lastSavedAt = &now

	switch {
	case origin == originAutosave:
		s.pushNoticeLocked("autosave", "Autosparad")
	case intent == intentPublish:
		s.pushNoticeLocked("notice", "Publicerad")
	case intent == intentArchive:
		s.pushNoticeLocked("notice", "Arkiverad")
	case intent == intentUnpublish:
		s.pushNoticeLocked("notice", "Avpublicerad")
	default:
		s.pushNoticeLocked("notice", "Sparad")
	}

	s.scheduleAutosaveLocked()
	return acked, nil
}

func (s *DraftSession) pushNoticeLocked(kind, message string) {
	s.notices = append(s.notices, SessionNotice{Kind: kind, Message: message, At: time.Now().UTC()})
	if len(s.notices) > maxSessionNotices {
		s.notices = s.notices[len(s.notices)-maxSessionNotices:]
	}
}

// Close tears the session down. An in-flight save is not cancelled; its result
// handler no-ops once it sees the closed flag.
func (s *DraftSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTimerLocked()
}

func (s *DraftSession) State() EditorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	notices := make([]SessionNotice, len(s.notices))
	copy(notices, s.notices)
	return EditorState{
		SessionID:   s.id,
		Trip:        cloneTrip(s.current),
		Dirty:       s.isDirtyLocked(),
		Saving:      s.saving,
		LastSavedAt: s.lastSavedAt,
		Notices:     notices,
	}
}

// editorSessionManager tracks the open editor sessions by ID. Each draft is
// owned by exactly one session; there is no cross-session mutation.
type editorSessionManager struct {
	mu       sync.Mutex
	sessions map[string]*DraftSession
}

func newEditorSessionManager() *editorSessionManager {
	return &editorSessionManager{sessions: make(map[string]*DraftSession)}
}

func (m *editorSessionManager) open(trip TripDraft, gateway TripGateway, log *slog.Logger, delay time.Duration) *DraftSession {
	session := newDraftSession(trip, gateway, log, delay)
	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()
	return session
}

func (m *editorSessionManager) get(id string) (*DraftSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	return session, ok
}

func (m *editorSessionManager) close(id string) bool {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		session.Close()
	}
	return ok
}
