package inbound

import (
	"strconv"

	"github.com/shandysiswandi/passbite/internal/passcode/usecase"
	"github.com/shandysiswandi/passbite/internal/pkg/goerror"
	"github.com/shandysiswandi/passbite/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the passcode lifecycle.
type HTTPEndpoint struct {
	uc uc
}

// Send issues a one-time passcode and delivers it over SMS.
// @Summary Send passcode
// @Description Authorizes the caller, delivers the passcode via SMS and records it for verification.
// @Tags Passcode
// @Accept json
// @Produce json
// @Param request body SendRequest true "Send payload"
// @Success 200 {object} router.successResponse{data=SendResponse} "Issued passcode reference"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Incorrect permission token"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 502 {object} router.errorResponse "SMS delivery failure"
// @Router /api/v1/passcodes/send [post]
func (h *HTTPEndpoint) Send(r *router.Request) (any, error) {
	var req SendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if req.ExpireDuration == "" {
		return nil, goerror.NewInvalidInput(nil, "expire_duration", "expire_duration is required")
	}
	expire, err := strconv.ParseInt(req.ExpireDuration, 10, 64)
	if err != nil || expire < 0 {
		return nil, goerror.NewInvalidInput(nil, "expire_duration", "expire_duration must be a non-negative integer")
	}

	resp, err := h.uc.Send(r.Context(), usecase.SendInput{
		Token:          req.Token,
		Phone:          req.Phone,
		Code:           req.Code,
		ExpireDuration: expire,
		Prefix:         req.Prefix,
		Tip:            req.Tip,
	})
	if err != nil {
		return nil, err
	}

	return SendResponse{
		RecordID:        resp.ID,
		DeliveryReceipt: resp.DeliveryReceipt,
		VerifyEndpoint:  resp.VerifyEndpoint,
		CreateTime:      resp.CreateTime,
		ExpireTime:      resp.ExpireTime,
	}, nil
}

// Verify consumes a previously issued passcode.
// @Summary Verify passcode
// @Description Checks the submitted passcode against the stored record and consumes it on success.
// @Tags Passcode
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=VerifyResponse} "Consumed record"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 403 {object} router.errorResponse "Incorrect api_key or passcode"
// @Failure 404 {object} router.errorResponse "Incorrect guid"
// @Failure 409 {object} router.errorResponse "Reverify passcode"
// @Failure 410 {object} router.errorResponse "Exceed expire time"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/passcodes/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		ID:    req.RecordID,
		Token: req.Token,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{
		RecordID:       resp.ID,
		CreateTime:     resp.CreateTime,
		ExpireDuration: resp.ExpireDuration,
		ExpireTime:     resp.CreateTime + resp.ExpireDuration,
		VerifiedTime:   resp.VerifiedTime,
	}, nil
}
