package usecase

import (
	"context"
	"errors"
	"sync"

	"cv-smart/internal/domain"
	"cv-smart/internal/logger"
)

// CVStore is the persistence surface the session flow needs.
type CVStore interface {
	Save(ctx context.Context, ownerKey string, cv domain.CVData) error
	Get(ctx context.Context, ownerKey string) (domain.CVData, error)
}

// Session is the per-identity workflow state. One step is active at a time;
// stage operations lock the session, so transitions are strictly sequential
// per identity.
type Session struct {
	mu sync.Mutex

	identity domain.Identity
	step     domain.Step
	restored bool

	hasPersonal bool
	draft       ReviewDraft
	cv          *domain.CVData

	// notice carries a non-blocking message for failures that must not stop
	// the user, e.g. background persistence after a successful composition.
	notice string
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

func (s *Session) Identity() domain.Identity { return s.identity }
func (s *Session) Step() domain.Step { return s.step }

// RequireStep guards a stage operation's entry precondition.
func (s *Session) RequireStep(step domain.Step) error {
	if s.step != step {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (s *Session) Draft() ReviewDraft     { return s.draft }
func (s *Session) SetDraft(d ReviewDraft) { s.draft = d }
func (s *Session) CV() *domain.CVData     { return s.cv }
func (s *Session) Notice() string         { return s.notice }
func (s *Session) SetNotice(msg string)   { s.notice = msg }

// SessionManager owns all live sessions and performs the one-shot restore
// check when an identity first touches the server.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cvs    CVStore
	logger *logger.Logger
}

func NewSessionManager(cvs CVStore, log *logger.Logger) *SessionManager {
	return &SessionManager{
		sessions: map[string]*Session{},
		cvs:      cvs,
		logger:   log,
	}
}

// Touch returns the session for the identity, creating and restoring it on
// first contact: admins land on the admin dashboard, authenticated users
// with a stored CV land on the dashboard, everyone else starts at upload.
func (m *SessionManager) Touch(ctx context.Context, identity domain.Identity) *Session {
	m.mu.Lock()
	sess, ok := m.sessions[identity.Key()]
	if !ok {
		sess = &Session{identity: identity, step: domain.StepUploadID}
		m.sessions[identity.Key()] = sess
	}
	m.mu.Unlock()

	sess.Lock()
	defer sess.Unlock()
	m.restoreLocked(ctx, sess)
	return sess
}

func (m *SessionManager) restoreLocked(ctx context.Context, sess *Session) {
	if sess.restored {
		return
	}
	sess.restored = true

	if sess.identity.IsAdmin() {
		sess.step = domain.StepAdminDashboard
		return
	}
	if sess.identity.Guest {
		return
	}

	cv, err := m.cvs.Get(ctx, sess.identity.Key())
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			m.logger.Warn("session restore: cv lookup failed", "owner", sess.identity.Key(), "error", err)
		}
		return
	}
	sess.cv = &cv
	sess.hasPersonal = true
	sess.draft = NewReviewDraft(cv.Personal, nil, nil)
	sess.step = domain.StepDashboard
}

// Forget drops the session for an owner, e.g. after sign-out or deletion.
func (m *SessionManager) Forget(ownerKey string) {
	m.mu.Lock()
	delete(m.sessions, ownerKey)
	m.mu.Unlock()
}

// Back walks one step backwards through the intake flow.
func (s *Session) Back() error {
	switch s.step {
	case domain.StepReviewData:
		s.step = domain.StepUploadCerts
	case domain.StepUploadCerts:
		s.step = domain.StepUploadID
	default:
		return domain.ErrInvalidTransition
	}
	return nil
}

// SkipCertificates bypasses the supporting-documents stage entirely: no
// extraction call is made and the review draft starts with empty lists.
func (s *Session) SkipCertificates() error {
	if err := s.RequireStep(domain.StepUploadCerts); err != nil {
		return err
	}
	s.enterReview(nil, nil)
	return nil
}

// SignOut resets the workflow to the initial step.
func (s *Session) SignOut() {
	s.step = domain.StepUploadID
	s.hasPersonal = false
	s.draft = ReviewDraft{}
	s.cv = nil
	s.notice = ""
}

func (s *Session) acceptPersonal(p domain.PersonalInfo) {
	s.hasPersonal = true
	s.draft = NewReviewDraft(p, nil, nil)
	s.step = domain.StepUploadCerts
}

// enterReview seeds the working copy from the intake outputs. Review is
// unreachable without personal data: the guard is structural, the step is
// only set here and personal data was accepted before.
func (s *Session) enterReview(education []domain.EducationItem, experience []domain.ExperienceItem) {
	s.draft = NewReviewDraft(s.draft.Personal, education, experience)
	s.step = domain.StepReviewData
}

func (s *Session) acceptCV(cv domain.CVData) {
	s.cv = &cv
	s.step = domain.StepDashboard
}
