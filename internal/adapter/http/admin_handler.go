package http

import (
	"github.com/gofiber/fiber/v2"

	"cv-smart/internal/domain"
	"cv-smart/internal/usecase"
)

// AdminHandler serves the moderation surface. All routes sit behind
// RequireAdmin; the usecase re-checks the capability as a backstop.
type AdminHandler struct {
	admin *usecase.Admin
}

func NewAdminHandler(admin *usecase.Admin) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Stats returns the dashboard aggregates. ?range=30d narrows the window,
// anything else means all time.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	rng := domain.StatsRangeAll
	if c.Query("range") == string(domain.StatsRange30Days) {
		rng = domain.StatsRange30Days
	}

	stats, err := h.admin.Stats(c.Context(), identityFrom(c), rng)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// Members lists members with payment state, filtered by ?search=.
func (h *AdminHandler) Members(c *fiber.Ctx) error {
	members, err := h.admin.Members(c.Context(), identityFrom(c), c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"members": members})
}

// MemberDetail returns every record stored for the member at :owner.
func (h *AdminHandler) MemberDetail(c *fiber.Ctx) error {
	detail, err := h.admin.MemberDetail(c.Context(), identityFrom(c), c.Params("owner"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

type approvalReq struct {
	Approved bool `json:"approved"`
}

// SetApproval sets the manual approval flag for the member at :owner.
func (h *AdminHandler) SetApproval(c *fiber.Ctx) error {
	var req approvalReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	owner := c.Params("owner")
	if err := h.admin.SetApproval(c.Context(), identityFrom(c), owner, req.Approved); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"owner": owner, "approved": req.Approved})
}

// ResetPayment puts the member's payment back to pending/unapproved.
func (h *AdminHandler) ResetPayment(c *fiber.Ctx) error {
	owner := c.Params("owner")
	if err := h.admin.ResetPayment(c.Context(), identityFrom(c), owner); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"owner": owner, "status": domain.PaymentStatusPending})
}

type deleteMemberReq struct {
	MemberID int64  `json:"memberId"`
	OwnerKey string `json:"ownerKey"`
}

// DeleteMember removes a member and all data keyed to them.
func (h *AdminHandler) DeleteMember(c *fiber.Ctx) error {
	var req deleteMemberReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.MemberID == 0 || req.OwnerKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "memberId and ownerKey are required"})
	}

	if err := h.admin.DeleteMemberComplete(c.Context(), identityFrom(c), req.MemberID, req.OwnerKey); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": req.MemberID})
}
