package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-smart/internal/domain"
	"cv-smart/internal/logger"
)

func TestReviewDraftEducation(t *testing.T) {
	base := NewReviewDraft(contactedPersonal(), []domain.EducationItem{
		{Course: "A", Institution: "UAN"},
		{Course: "B", Institution: "UCAN"},
		{Course: "C", Institution: "ISPTEC"},
	}, nil)

	t.Run("add appends", func(t *testing.T) {
		got := base.AddEducation(domain.EducationItem{Course: "D", Institution: "UnIA"})

		require.Len(t, got.Education, 4)
		assert.Equal(t, "D", got.Education[3].Course)
		assert.Len(t, base.Education, 3)
	})

	t.Run("update replaces in place", func(t *testing.T) {
		got := base.UpdateEducation(1, domain.EducationItem{Course: "B2", Institution: "UCAN"})

		assert.Equal(t, "B2", got.Education[1].Course)
		assert.Equal(t, "B", base.Education[1].Course)
	})

	t.Run("remove compacts without gaps", func(t *testing.T) {
		got := base.RemoveEducation(1)

		require.Len(t, got.Education, 2)
		assert.Equal(t, "A", got.Education[0].Course)
		assert.Equal(t, "C", got.Education[1].Course)
	})

	t.Run("out of range is a no-op", func(t *testing.T) {
		assert.Len(t, base.UpdateEducation(9, domain.EducationItem{}).Education, 3)
		assert.Len(t, base.RemoveEducation(-1).Education, 3)
	})
}

func TestReviewDraftExperience(t *testing.T) {
	base := NewReviewDraft(contactedPersonal(), nil, []domain.ExperienceItem{
		{Role: "A", Company: "X"},
		{Role: "B", Company: "Y"},
	})

	got := base.AddExperience(domain.ExperienceItem{Role: "C", Company: "Z"})
	require.Len(t, got.Experience, 3)

	got = got.UpdateExperience(0, domain.ExperienceItem{Role: "A2", Company: "X"})
	assert.Equal(t, "A2", got.Experience[0].Role)

	got = got.RemoveExperience(1)
	require.Len(t, got.Experience, 2)
	assert.Equal(t, "A2", got.Experience[0].Role)
	assert.Equal(t, "C", got.Experience[1].Role)

	assert.Equal(t, "A", base.Experience[0].Role)
}

func newTestReview(gen *fakeGenerator, store *fakeCVStore) *Review {
	composer := NewComposer(gen, logger.NewDiscard())
	return NewReview(composer, store, logger.NewDiscard())
}

func reviewSession() *Session {
	sess := &Session{identity: domain.NewGuest(), step: domain.StepUploadID}
	sess.acceptPersonal(contactedPersonal())
	sess.enterReview(nil, nil)
	return sess
}

func TestReviewEdit(t *testing.T) {
	t.Run("applies the update to the draft", func(t *testing.T) {
		review := newTestReview(&fakeGenerator{}, newFakeCVStore())
		sess := reviewSession()

		draft, err := review.Edit(sess, func(d ReviewDraft) ReviewDraft {
			return d.AddEducation(domain.EducationItem{Course: "Gestão", Institution: "UAN"})
		})

		require.NoError(t, err)
		assert.Len(t, draft.Education, 1)
		assert.Len(t, sess.Draft().Education, 1)
	})

	t.Run("rejected outside review", func(t *testing.T) {
		review := newTestReview(&fakeGenerator{}, newFakeCVStore())
		sess := &Session{identity: domain.NewGuest(), step: domain.StepDashboard}

		_, err := review.Edit(sess, func(d ReviewDraft) ReviewDraft { return d })

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestReviewSubmit(t *testing.T) {
	t.Run("composes and advances to dashboard", func(t *testing.T) {
		store := newFakeCVStore()
		review := newTestReview(&fakeGenerator{resume: validResumeMap()}, store)
		sess := reviewSession()

		cv, err := review.Submit(context.Background(), sess, sess.Draft())

		require.NoError(t, err)
		assert.Equal(t, domain.StepDashboard, sess.Step())
		assert.Equal(t, "Objetivo forte", cv.PT.Objective)
		assert.Equal(t, "Strong objective", cv.EN.Objective)
		assert.Equal(t, 1, store.saves)
		assert.Empty(t, sess.Notice())
	})

	t.Run("missing contact blocks submission", func(t *testing.T) {
		review := newTestReview(&fakeGenerator{resume: validResumeMap()}, newFakeCVStore())
		sess := reviewSession()
		draft := sess.Draft()
		draft.Personal.Phone = ""

		_, err := review.Submit(context.Background(), sess, draft)

		assert.ErrorIs(t, err, domain.ErrValidationFailed)
		assert.Equal(t, domain.StepReviewData, sess.Step())
	})

	t.Run("composition failure keeps the session in review", func(t *testing.T) {
		review := newTestReview(&fakeGenerator{resumeErr: errBoom}, newFakeCVStore())
		sess := reviewSession()

		_, err := review.Submit(context.Background(), sess, sess.Draft())

		assert.ErrorIs(t, err, domain.ErrCompositionIncomplete)
		assert.Equal(t, domain.StepReviewData, sess.Step())
	})

	t.Run("save failure degrades to a notice", func(t *testing.T) {
		store := newFakeCVStore()
		store.saveErr = errBoom
		review := newTestReview(&fakeGenerator{resume: validResumeMap()}, store)
		sess := reviewSession()

		cv, err := review.Submit(context.Background(), sess, sess.Draft())

		require.NoError(t, err)
		assert.Equal(t, domain.StepDashboard, sess.Step())
		assert.NotEmpty(t, sess.Notice())
		assert.Equal(t, "Objetivo forte", cv.PT.Objective)
	})
}

func TestReviewEditCV(t *testing.T) {
	dashboardSession := func(t *testing.T, review *Review) *Session {
		t.Helper()
		sess := reviewSession()
		_, err := review.Submit(context.Background(), sess, sess.Draft())
		require.NoError(t, err)
		return sess
	}

	t.Run("applies updates and re-saves by owner", func(t *testing.T) {
		store := newFakeCVStore()
		review := newTestReview(&fakeGenerator{resume: validResumeMap()}, store)
		sess := dashboardSession(t, review)

		cv, err := review.EditCV(context.Background(), sess, func(cv domain.CVData) domain.CVData {
			cv.PT.Objective = "Objetivo afinado"
			cv.Personal.Address = "Benguela"
			return cv
		})

		require.NoError(t, err)
		assert.Equal(t, "Objetivo afinado", cv.PT.Objective)
		assert.Equal(t, "Benguela", cv.Personal.Address)
		assert.Equal(t, domain.StepDashboard, sess.Step())
		assert.Equal(t, cv, *sess.CV())
		assert.Equal(t, 2, store.saves)
		assert.Equal(t, "Objetivo afinado", store.cvs[sess.Identity().Key()].PT.Objective)
	})

	t.Run("only available on the dashboard", func(t *testing.T) {
		review := newTestReview(&fakeGenerator{resume: validResumeMap()}, newFakeCVStore())
		sess := reviewSession()

		_, err := review.EditCV(context.Background(), sess, func(cv domain.CVData) domain.CVData { return cv })

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("contact fields stay mandatory", func(t *testing.T) {
		review := newTestReview(&fakeGenerator{resume: validResumeMap()}, newFakeCVStore())
		sess := dashboardSession(t, review)

		_, err := review.EditCV(context.Background(), sess, func(cv domain.CVData) domain.CVData {
			cv.Personal.Email = ""
			return cv
		})

		assert.ErrorIs(t, err, domain.ErrValidationFailed)
		assert.NotEmpty(t, sess.CV().Personal.Email)
	})

	t.Run("save failure degrades to a notice", func(t *testing.T) {
		store := newFakeCVStore()
		review := newTestReview(&fakeGenerator{resume: validResumeMap()}, store)
		sess := dashboardSession(t, review)
		store.saveErr = errBoom

		cv, err := review.EditCV(context.Background(), sess, func(cv domain.CVData) domain.CVData {
			cv.EN.Objective = "Sharper objective"
			return cv
		})

		require.NoError(t, err)
		assert.NotEmpty(t, sess.Notice())
		assert.Equal(t, "Sharper objective", sess.CV().EN.Objective)
		assert.Equal(t, cv, *sess.CV())
	})
}
