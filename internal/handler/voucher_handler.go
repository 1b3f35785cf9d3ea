package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rewards/voucherhub/internal/codegen"
	"rewards/voucherhub/internal/model"
	"rewards/voucherhub/internal/service"
	"rewards/voucherhub/pkg/response"
)

type VoucherHandler struct {
	voucherService service.VoucherService
}

func NewVoucherHandler(voucherService service.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

type IssueVoucherRequest struct {
	Value      *float64 `json:"value" binding:"required"`
	ExpiryDate string   `json:"expiryDate" binding:"required"`
}

type IssueVoucherResponse struct {
	VoucherCode string         `json:"voucherCode"`
	Voucher     *model.Voucher `json:"voucher"`
}

// Issue generates and stores a new voucher.
func (h *VoucherHandler) Issue(c *gin.Context) {
	var req IssueVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	voucher, err := h.voucherService.IssueVoucher(c.Request.Context(), service.IssueRequest{
		Value:      *req.Value,
		ExpiryDate: req.ExpiryDate,
	})
	if err != nil {
		writeIssueError(c, err)
		return
	}

	response.Created(c, "Voucher generated and stored successfully", IssueVoucherResponse{
		VoucherCode: voucher.Code,
		Voucher:     voucher,
	})
}

func writeIssueError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, codegen.ErrGenerationExhausted):
		response.ServiceUnavailable(c, "voucher code generation exhausted")
	case errors.Is(err, service.ErrCodeConflict):
		response.Conflict(c, "voucher code conflict, retry the request")
	default:
		response.InternalError(c, "internal server error")
	}
}

// Get returns the voucher stored under the code path parameter.
func (h *VoucherHandler) Get(c *gin.Context) {
	code := c.Param("code")
	if !codegen.IsWellFormed(code) {
		response.NotFound(c, "Voucher not found")
		return
	}

	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrVoucherNotFound) {
			response.NotFound(c, "Voucher not found")
			return
		}
		_ = c.Error(err)
		response.InternalError(c, "internal server error")
		return
	}

	response.Success(c, voucher)
}
