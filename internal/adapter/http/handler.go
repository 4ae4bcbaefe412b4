package http

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"cv-smart/internal/domain"
	"cv-smart/internal/usecase"
)

// Handler serves the session-driven resume flow.
type Handler struct {
	sessions *usecase.SessionManager
	intake   *usecase.Intake
	review   *usecase.Review
	composer *usecase.Composer
	gate     *usecase.ExportGate
	exporter *usecase.Exporter
}

func NewHandler(sessions *usecase.SessionManager, intake *usecase.Intake, review *usecase.Review, composer *usecase.Composer, gate *usecase.ExportGate, exporter *usecase.Exporter) *Handler {
	return &Handler{
		sessions: sessions,
		intake:   intake,
		review:   review,
		composer: composer,
		gate:     gate,
		exporter: exporter,
	}
}

type identityView struct {
	Guest bool   `json:"guest"`
	Email string `json:"email,omitempty"`
	Admin bool   `json:"admin"`
}

type sessionView struct {
	Step     domain.Step         `json:"step"`
	Identity identityView        `json:"identity"`
	Draft    usecase.ReviewDraft `json:"draft"`
	CV       *domain.CVData      `json:"cv,omitempty"`
	Notice   string              `json:"notice,omitempty"`
}

func (h *Handler) session(c *fiber.Ctx) *usecase.Session {
	return h.sessions.Touch(c.Context(), identityFrom(c))
}

func viewOf(sess *usecase.Session) sessionView {
	sess.Lock()
	defer sess.Unlock()

	id := sess.Identity()
	return sessionView{
		Step: sess.Step(),
		Identity: identityView{
			Guest: id.Guest,
			Email: id.Email,
			Admin: id.IsAdmin(),
		},
		Draft:  sess.Draft(),
		CV:     sess.CV(),
		Notice: sess.Notice(),
	}
}

// GetSession returns the current step and session data.
func (h *Handler) GetSession(c *fiber.Ctx) error {
	return c.JSON(viewOf(h.session(c)))
}

func readUpload(fh *multipart.FileHeader) (*domain.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &domain.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func formFile(c *fiber.Ctx, field string) (*domain.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return readUpload(fh)
}

// SubmitIDDocuments accepts the ID card images (multipart fields "front" and
// optional "back") and runs identity extraction.
func (h *Handler) SubmitIDDocuments(c *fiber.Ctx) error {
	front, err := formFile(c, "front")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid upload"})
	}
	back, err := formFile(c, "back")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid upload"})
	}

	sess := h.session(c)
	if _, err := h.intake.SubmitIdentityDocuments(c.Context(), sess, front, back); err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(sess))
}

// SubmitCertificates accepts supporting documents (multipart field "files")
// and runs batch extraction. No files behaves as skip.
func (h *Handler) SubmitCertificates(c *fiber.Ctx) error {
	var files []domain.File
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["files"] {
			f, err := readUpload(fh)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid upload"})
			}
			files = append(files, *f)
		}
	}

	sess := h.session(c)
	if err := h.intake.SubmitSupportingDocuments(c.Context(), sess, files); err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(sess))
}

// SkipCertificates advances to review without supporting documents.
func (h *Handler) SkipCertificates(c *fiber.Ctx) error {
	sess := h.session(c)

	sess.Lock()
	err := sess.SkipCertificates()
	sess.Unlock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(sess))
}

// GoBack steps one stage backwards.
func (h *Handler) GoBack(c *fiber.Ctx) error {
	sess := h.session(c)

	sess.Lock()
	err := sess.Back()
	sess.Unlock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(sess))
}

// UpdatePersonal replaces the draft's personal record.
func (h *Handler) UpdatePersonal(c *fiber.Ctx) error {
	var p domain.PersonalInfo
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	draft, err := h.review.Edit(h.session(c), func(d usecase.ReviewDraft) usecase.ReviewDraft {
		return d.WithPersonal(p)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// AddEducation appends an education entry to the draft.
func (h *Handler) AddEducation(c *fiber.Ctx) error {
	var item domain.EducationItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	draft, err := h.review.Edit(h.session(c), func(d usecase.ReviewDraft) usecase.ReviewDraft {
		return d.AddEducation(item)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// UpdateEducation replaces the education entry at :idx.
func (h *Handler) UpdateEducation(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("idx")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid index"})
	}
	var item domain.EducationItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	draft, err := h.review.Edit(h.session(c), func(d usecase.ReviewDraft) usecase.ReviewDraft {
		return d.UpdateEducation(idx, item)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// RemoveEducation removes the education entry at :idx.
func (h *Handler) RemoveEducation(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("idx")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid index"})
	}

	draft, err := h.review.Edit(h.session(c), func(d usecase.ReviewDraft) usecase.ReviewDraft {
		return d.RemoveEducation(idx)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// AddExperience appends an experience entry to the draft.
func (h *Handler) AddExperience(c *fiber.Ctx) error {
	var item domain.ExperienceItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	draft, err := h.review.Edit(h.session(c), func(d usecase.ReviewDraft) usecase.ReviewDraft {
		return d.AddExperience(item)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// UpdateExperience replaces the experience entry at :idx.
func (h *Handler) UpdateExperience(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("idx")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid index"})
	}
	var item domain.ExperienceItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	draft, err := h.review.Edit(h.session(c), func(d usecase.ReviewDraft) usecase.ReviewDraft {
		return d.UpdateExperience(idx, item)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// RemoveExperience removes the experience entry at :idx.
func (h *Handler) RemoveExperience(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("idx")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid index"})
	}

	draft, err := h.review.Edit(h.session(c), func(d usecase.ReviewDraft) usecase.ReviewDraft {
		return d.RemoveExperience(idx)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// SubmitReview validates the draft, composes the bilingual resume and moves
// to the dashboard.
func (h *Handler) SubmitReview(c *fiber.Ctx) error {
	sess := h.session(c)

	sess.Lock()
	draft := sess.Draft()
	sess.Unlock()

	var body usecase.ReviewDraft
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}
		draft = body
	}

	if _, err := h.review.Submit(c.Context(), sess, draft); err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(sess))
}

// SignOut clears the session back to the first step.
func (h *Handler) SignOut(c *fiber.Ctx) error {
	sess := h.session(c)

	sess.Lock()
	sess.SignOut()
	sess.Unlock()

	c.ClearCookie(guestCookie)
	return c.JSON(viewOf(sess))
}

type coverLetterReq struct {
	CompanyName string `json:"companyName"`
	Position    string `json:"position"`
	Language    string `json:"language"`
}

// CoverLetter generates a cover letter from the dashboard.
func (h *Handler) CoverLetter(c *fiber.Ctx) error {
	var req coverLetterReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	sess := h.session(c)
	sess.Lock()
	err := sess.RequireStep(domain.StepDashboard)
	cv := sess.CV()
	sess.Unlock()
	if err != nil {
		return respondError(c, err)
	}
	if cv == nil {
		return respondError(c, domain.ErrInvalidTransition)
	}

	text, err := h.composer.ComposeCoverLetter(c.Context(), *cv, req.CompanyName, req.Position, domain.ParseLanguage(req.Language))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"coverLetter": text})
}

// UpdateCV applies fine-tuning edits to the generated resume from the
// dashboard. Sections absent from the body are left untouched.
func (h *Handler) UpdateCV(c *fiber.Ctx) error {
	var req struct {
		Personal *domain.PersonalInfo     `json:"personal"`
		PT       *domain.LocalizedContent `json:"pt"`
		EN       *domain.LocalizedContent `json:"en"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	cv, err := h.review.EditCV(c.Context(), h.session(c), func(cv domain.CVData) domain.CVData {
		if req.Personal != nil {
			cv.Personal = *req.Personal
		}
		if req.PT != nil {
			cv.PT = *req.PT
		}
		if req.EN != nil {
			cv.EN = *req.EN
		}
		return cv
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cv)
}

// ExportStatus reports whether export is unlocked, with the checkout link
// when it is not.
func (h *Handler) ExportStatus(c *fiber.Ctx) error {
	decision, err := h.gate.Check(c.Context(), identityFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(decision)
}

// ExportPDF renders and returns the resume PDF for the requested language.
// A locked gate answers 402 with the checkout link.
func (h *Handler) ExportPDF(c *fiber.Ctx) error {
	lang := domain.ParseLanguage(c.Query("language"))

	sess := h.session(c)
	sess.Lock()
	err := sess.RequireStep(domain.StepDashboard)
	cv := sess.CV()
	identity := sess.Identity()
	sess.Unlock()
	if err != nil {
		return respondError(c, err)
	}
	if cv == nil {
		return respondError(c, domain.ErrInvalidTransition)
	}

	decision, err := h.gate.Check(c.Context(), identity)
	if err != nil {
		return respondError(c, err)
	}
	if !decision.Allowed {
		return c.Status(fiber.StatusPaymentRequired).JSON(decision)
	}

	pdf, archiveURL, err := h.exporter.ExportResume(c.Context(), identity, *cv, lang)
	if err != nil {
		return respondError(c, err)
	}

	if archiveURL != "" {
		c.Set(fiber.HeaderContentLocation, archiveURL)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="resume.pdf"`)
	return c.Send(pdf)
}
