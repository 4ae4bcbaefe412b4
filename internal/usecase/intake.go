package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"cv-smart/internal/domain"
	"cv-smart/internal/logger"
	"cv-smart/pkg/ai"
)

// Extractor is the slice of the ai client the intake stages need.
type Extractor interface {
	ExtractPersonalInfo(ctx context.Context, files []domain.File) (domain.PersonalInfo, error)
	ExtractDocuments(ctx context.Context, files []domain.File) (ai.ExtractedDocuments, error)
}

// Intake runs the two document-driven stages: identity documents and
// supporting certificates.
type Intake struct {
	extractor Extractor
	docs      *DocumentService
	logger    *logger.Logger
}

func NewIntake(extractor Extractor, docs *DocumentService, log *logger.Logger) *Intake {
	return &Intake{extractor: extractor, docs: docs, logger: log}
}

// SubmitIdentityDocuments extracts personal fields from the ID card images
// and advances to the certificates stage. The front image is required, the
// back is optional. On extraction failure the session stays where it is and
// the user retries with the same or new images.
func (i *Intake) SubmitIdentityDocuments(ctx context.Context, sess *Session, front *domain.File, back *domain.File) (domain.PersonalInfo, error) {
	sess.Lock()
	defer sess.Unlock()

	if err := sess.RequireStep(domain.StepUploadID); err != nil {
		return domain.PersonalInfo{}, err
	}
	if front == nil || len(front.Data) == 0 {
		return domain.PersonalInfo{}, domain.ErrValidationFailed
	}

	files := []domain.File{*front}
	i.docs.StoreAsync(sess.Identity(), domain.DocumentIDFront, *front)
	if back != nil && len(back.Data) > 0 {
		files = append(files, *back)
		i.docs.StoreAsync(sess.Identity(), domain.DocumentIDBack, *back)
	}

	info, err := i.extractor.ExtractPersonalInfo(ctx, files)
	if err != nil {
		i.logger.Warn("intake: personal info extraction failed", "owner", sess.Identity().Key(), "error", err)
		return domain.PersonalInfo{}, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	info.LinkedIn = normalizeLinkedIn(info.LinkedIn)

	sess.acceptPersonal(info)
	return info, nil
}

// SubmitSupportingDocuments extracts education and experience from the
// certificate images in one batch call and advances to review. Submitting
// zero files is the same as skipping: no extraction call is made.
func (i *Intake) SubmitSupportingDocuments(ctx context.Context, sess *Session, files []domain.File) error {
	sess.Lock()
	defer sess.Unlock()

	if err := sess.RequireStep(domain.StepUploadCerts); err != nil {
		return err
	}
	if len(files) == 0 {
		sess.enterReview(nil, nil)
		return nil
	}

	for _, f := range files {
		i.docs.StoreAsync(sess.Identity(), domain.DocumentCertificate, f)
	}

	docs, err := i.extractor.ExtractDocuments(ctx, files)
	if err != nil {
		i.logger.Warn("intake: document extraction failed", "owner", sess.Identity().Key(), "error", err)
		return fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	sess.enterReview(docs.Education, docs.Experience)
	return nil
}

// normalizeLinkedIn keeps an extracted profile link only when its registrable
// domain really is linkedin.com. OCR noise regularly produces lookalike
// hosts, and a wrong link on a resume is worse than none.
func normalizeLinkedIn(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	etld, err := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(u.Hostname()))
	if err != nil || etld != "linkedin.com" {
		return ""
	}
	return candidate
}
