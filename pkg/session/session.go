package session

import (
	"sync"

	"alvely-be/pkg/attachment"
	"alvely-be/pkg/llm"
	"alvely-be/pkg/retrieval/ledger"
)

// Session is the in-memory state of one conversation: the ordered turn
// history, pending attachments, the selected model and the dedup ledger.
// Sessions are never persisted to disk and never shared across users.
//
// The mutex guards all mutable state; requests for the same session may
// arrive concurrently, so mutations go through the methods below. The
// ledger carries its own lock.
type Session struct {
	ID     string
	UserID string

	Ledger *ledger.Ledger

	mu          sync.Mutex
	modelID     string
	history     []llm.Message
	attachments []attachment.Attachment
	lastQuery   string
	running     bool
}

func New(id, userID, modelID string) *Session {
	return &Session{
		ID:      id,
		UserID:  userID,
		modelID: modelID,
		Ledger:  ledger.New(),
	}
}

// BeginRun marks the session busy. It returns false if a pipeline run is
// already active; the caller must reject the submission in that case
// without touching any other session state.
func (s *Session) BeginRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

// EndRun clears the busy flag.
func (s *Session) EndRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

func (s *Session) ModelID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelID
}

// SetModel switches the model and drops pending attachments, because the
// new backend may not support them.
func (s *Session) SetModel(modelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelID = modelID
	s.attachments = nil
}

func (s *Session) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

func (s *Session) SetLastQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = query
}

// AppendTurn appends one conversation turn.
func (s *Session) AppendTurn(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, llm.Message{Role: role, Content: content})
}

// HistorySnapshot returns a copy of the turn history for use inside a run.
func (s *Session) HistorySnapshot() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]llm.Message, len(s.history))
	copy(snapshot, s.history)
	return snapshot
}

// AddAttachments queues uploads for the next submission.
func (s *Session) AddAttachments(attachments ...attachment.Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments = append(s.attachments, attachments...)
}

// AttachmentsSnapshot returns a copy of the pending attachments.
func (s *Session) AttachmentsSnapshot() []attachment.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]attachment.Attachment, len(s.attachments))
	copy(snapshot, s.attachments)
	return snapshot
}

// ClearAttachments drops pending attachments. Called when a submission
// consumes them and when the model changes.
func (s *Session) ClearAttachments() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments = nil
}

// Reset clears the conversation: history, attachments, last query and the
// dedup ledger. The session itself stays usable.
func (s *Session) Reset() {
	s.mu.Lock()
	s.history = nil
	s.attachments = nil
	s.lastQuery = ""
	s.mu.Unlock()
	s.Ledger.Reset()
}
