package usecase

import (
	"context"
	"time"

	"cv-smart/internal/domain"
	"cv-smart/internal/logger"
)

// ReviewDraft is the mutable working copy presented during review. It is a
// value type: every update helper returns a new draft, so stale references
// never alias the session's current state.
type ReviewDraft struct {
	Personal   domain.PersonalInfo     `json:"personal"`
	Education  []domain.EducationItem  `json:"education"`
	Experience []domain.ExperienceItem `json:"experience"`
}

func NewReviewDraft(p domain.PersonalInfo, education []domain.EducationItem, experience []domain.ExperienceItem) ReviewDraft {
	d := ReviewDraft{
		Personal:   p,
		Education:  make([]domain.EducationItem, len(education)),
		Experience: make([]domain.ExperienceItem, len(experience)),
	}
	copy(d.Education, education)
	copy(d.Experience, experience)
	return d
}

// WithPersonal replaces the personal record wholesale.
func (d ReviewDraft) WithPersonal(p domain.PersonalInfo) ReviewDraft {
	d.Personal = p
	return d
}

// AddEducation appends at the end.
func (d ReviewDraft) AddEducation(item domain.EducationItem) ReviewDraft {
	out := make([]domain.EducationItem, 0, len(d.Education)+1)
	out = append(out, d.Education...)
	d.Education = append(out, item)
	return d
}

// UpdateEducation replaces the item at idx; out-of-range indexes are ignored.
func (d ReviewDraft) UpdateEducation(idx int, item domain.EducationItem) ReviewDraft {
	if idx < 0 || idx >= len(d.Education) {
		return d
	}
	out := make([]domain.EducationItem, len(d.Education))
	copy(out, d.Education)
	out[idx] = item
	d.Education = out
	return d
}

// RemoveEducation removes by index and compacts the list, leaving no gaps.
func (d ReviewDraft) RemoveEducation(idx int) ReviewDraft {
	if idx < 0 || idx >= len(d.Education) {
		return d
	}
	out := make([]domain.EducationItem, 0, len(d.Education)-1)
	out = append(out, d.Education[:idx]...)
	out = append(out, d.Education[idx+1:]...)
	d.Education = out
	return d
}

func (d ReviewDraft) AddExperience(item domain.ExperienceItem) ReviewDraft {
	out := make([]domain.ExperienceItem, 0, len(d.Experience)+1)
	out = append(out, d.Experience...)
	d.Experience = append(out, item)
	return d
}

func (d ReviewDraft) UpdateExperience(idx int, item domain.ExperienceItem) ReviewDraft {
	if idx < 0 || idx >= len(d.Experience) {
		return d
	}
	out := make([]domain.ExperienceItem, len(d.Experience))
	copy(out, d.Experience)
	out[idx] = item
	d.Experience = out
	return d
}

func (d ReviewDraft) RemoveExperience(idx int) ReviewDraft {
	if idx < 0 || idx >= len(d.Experience) {
		return d
	}
	out := make([]domain.ExperienceItem, 0, len(d.Experience)-1)
	out = append(out, d.Experience[:idx]...)
	out = append(out, d.Experience[idx+1:]...)
	d.Experience = out
	return d
}

// Review coordinates the review/edit stage: draft edits, mandatory-field
// validation at submission time, composition, and the best-effort save.
type Review struct {
	composer *Composer
	cvs      CVStore
	logger   *logger.Logger
}

func NewReview(composer *Composer, cvs CVStore, log *logger.Logger) *Review {
	return &Review{composer: composer, cvs: cvs, logger: log}
}

// Edit applies an update function to the session's draft. The mandatory
// fields are deliberately not validated here: only submission blocks.
func (r *Review) Edit(sess *Session, update func(ReviewDraft) ReviewDraft) (ReviewDraft, error) {
	sess.Lock()
	defer sess.Unlock()

	if err := sess.RequireStep(domain.StepReviewData); err != nil {
		return ReviewDraft{}, err
	}
	d := update(sess.Draft())
	sess.SetDraft(d)
	return d, nil
}

// Submit validates the mandatory contact fields, composes the bilingual
// resume and moves to the dashboard. The save is best-effort: the composed
// CV is already in memory, so a persistence failure becomes a non-blocking
// notice instead of stopping the user.
func (r *Review) Submit(ctx context.Context, sess *Session, draft ReviewDraft) (domain.CVData, error) {
	sess.Lock()
	defer sess.Unlock()

	if err := sess.RequireStep(domain.StepReviewData); err != nil {
		return domain.CVData{}, err
	}

	sess.SetDraft(draft)
	if !draft.Personal.HasContact() {
		return domain.CVData{}, domain.ErrValidationFailed
	}

	cv, err := r.composer.ComposeBilingualResume(ctx, draft.Personal, draft.Education, draft.Experience)
	if err != nil {
		return domain.CVData{}, err
	}

	owner := sess.Identity().Key()
	if err := r.cvs.Save(ctx, owner, cv); err != nil {
		r.logger.Warn("review: cv save failed, continuing with in-memory data", "owner", owner, "error", err)
		sess.SetNotice("Your resume was generated but could not be saved. It remains available in this session.")
	} else {
		sess.SetNotice("")
	}

	sess.acceptCV(cv)
	return cv, nil
}

// EditCV fine-tunes the generated resume from the dashboard, where the user
// lives after composition. The contact fields stay mandatory here too, and
// the save follows Submit's rule: the in-memory copy is authoritative, a
// persistence failure becomes a notice.
func (r *Review) EditCV(ctx context.Context, sess *Session, update func(domain.CVData) domain.CVData) (domain.CVData, error) {
	sess.Lock()
	defer sess.Unlock()

	if err := sess.RequireStep(domain.StepDashboard); err != nil {
		return domain.CVData{}, err
	}
	current := sess.CV()
	if current == nil {
		return domain.CVData{}, domain.ErrInvalidTransition
	}

	cv := update(*current)
	if !cv.Personal.HasContact() {
		return domain.CVData{}, domain.ErrValidationFailed
	}
	cv.UpdatedAt = time.Now().UTC()

	owner := sess.Identity().Key()
	if err := r.cvs.Save(ctx, owner, cv); err != nil {
		r.logger.Warn("review: cv edit save failed, continuing with in-memory data", "owner", owner, "error", err)
		sess.SetNotice("Your changes were applied but could not be saved. They remain available in this session.")
	} else {
		sess.SetNotice("")
	}

	sess.acceptCV(cv)
	return cv, nil
}
