package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"rewards/voucherhub/internal/service"
	"rewards/voucherhub/pkg/response"
)

type AdminHandler struct {
	voucherService service.VoucherService
	expiryService  service.ExpiryService
}

func NewAdminHandler(voucherService service.VoucherService, expiryService service.ExpiryService) *AdminHandler {
	return &AdminHandler{
		voucherService: voucherService,
		expiryService:  expiryService,
	}
}

type OffensiveWordsRequest struct {
	Words []string `json:"words"`
}

type OffensiveWordsResponse struct {
	Words []string `json:"words"`
	Count int      `json:"count"`
}

type SweepResponse struct {
	Invalidated int64 `json:"invalidated"`
}

// GetOffensiveWords returns the banned substrings currently configured.
func (h *AdminHandler) GetOffensiveWords(c *gin.Context) {
	words, err := h.voucherService.GetOffensiveWords(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c, "failed to retrieve offensive words")
		return
	}

	response.Success(c, OffensiveWordsResponse{Words: words.Words(), Count: words.Len()})
}

// SetOffensiveWords replaces the banned substrings.
func (h *AdminHandler) SetOffensiveWords(c *gin.Context) {
	var req OffensiveWordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	for _, w := range req.Words {
		if strings.Contains(w, ",") {
			response.BadRequest(c, "offensive words must not contain commas")
			return
		}
	}

	words, err := h.voucherService.SetOffensiveWords(c.Request.Context(), strings.Join(req.Words, ","))
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c, "failed to update offensive words")
		return
	}

	response.Success(c, OffensiveWordsResponse{Words: words.Words(), Count: words.Len()})
}

// Sweep runs the expiry sweep immediately.
func (h *AdminHandler) Sweep(c *gin.Context) {
	n, err := h.expiryService.InvalidateExpired(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c, "failed to invalidate expired vouchers")
		return
	}

	response.Success(c, SweepResponse{Invalidated: n})
}
