package http

import (
	"github.com/gofiber/fiber/v2"

	"cv-smart/internal/usecase"
)

// Register wires all routes onto the app. Identity resolution runs on every
// request under /api.
func Register(app *fiber.App, resolver *usecase.IdentityResolver, h *Handler, auth *AuthHandler, admin *AdminHandler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", IdentityMiddleware(resolver))

	api.Post("/auth/signup", auth.SignUp)
	api.Post("/auth/signin", auth.SignIn)
	api.Get("/auth/me", auth.Me)

	api.Get("/session", h.GetSession)
	api.Post("/session/id-documents", h.SubmitIDDocuments)
	api.Post("/session/certificates", h.SubmitCertificates)
	api.Post("/session/certificates/skip", h.SkipCertificates)
	api.Post("/session/back", h.GoBack)
	api.Put("/session/draft/personal", h.UpdatePersonal)
	api.Post("/session/draft/education", h.AddEducation)
	api.Put("/session/draft/education/:idx", h.UpdateEducation)
	api.Delete("/session/draft/education/:idx", h.RemoveEducation)
	api.Post("/session/draft/experience", h.AddExperience)
	api.Put("/session/draft/experience/:idx", h.UpdateExperience)
	api.Delete("/session/draft/experience/:idx", h.RemoveExperience)
	api.Post("/session/submit", h.SubmitReview)
	api.Post("/session/sign-out", h.SignOut)

	api.Put("/cv", h.UpdateCV)
	api.Post("/cover-letter", h.CoverLetter)
	api.Get("/export/status", h.ExportStatus)
	api.Post("/export", h.ExportPDF)

	adm := api.Group("/admin", RequireAdmin())
	adm.Get("/stats", admin.Stats)
	adm.Get("/members", admin.Members)
	adm.Get("/members/:owner/detail", admin.MemberDetail)
	adm.Post("/members/:owner/approval", admin.SetApproval)
	adm.Post("/members/:owner/payment/reset", admin.ResetPayment)
	adm.Delete("/members", admin.DeleteMember)
}
