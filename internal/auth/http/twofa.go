package http

import (
	"net/http"

	"github.com/flixtify/rolegate/internal/auth/service"
	"github.com/flixtify/rolegate/pkg/authsdk"
	"github.com/flixtify/rolegate/pkg/httpx"
)

// TwoFAHandler serves the caller's second-factor enrollment lifecycle. Every
// operation is scoped to the authenticated user; methods belonging to anyone
// else read as not found.
type TwoFAHandler struct {
	TwoFA *service.TwoFAService
}

// EnrollTOTP creates an unverified TOTP method and returns its provisioning
// material. The secret appears in this response and never again.
func (h *TwoFAHandler) EnrollTOTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())
	enrollment, err := h.TwoFA.EnrollTOTP(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.EnrollTOTPResponse{
		MethodID:   enrollment.MethodID,
		Secret:     enrollment.Secret,
		OTPAuthURL: enrollment.ProvisioningURL,
	})
}

// Verify confirms possession of the enrolled secret, enabling the method and
// turning on 2FA for the account.
func (h *TwoFAHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req authsdk.VerifyTOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Code == "" {
		authsdk.ErrBadRequest.WithDescription("code is required").Write(w)
		return
	}

	userID := httpx.UserIDFromCtx(r.Context())
	if err := h.TwoFA.VerifyTOTP(r.Context(), userID, r.PathValue("id"), req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TwoFAHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())
	methods, err := h.TwoFA.ListMethods(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.TwoFAMethod, 0, len(methods))
	for _, m := range methods {
		out = append(out, toTwoFAMethod(m))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// Activate makes a verified method the single enabled one.
func (h *TwoFAHandler) Activate(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())
	if err := h.TwoFA.SetActiveMethod(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete soft-deletes a method. Removing the last enabled method turns 2FA
// off for the account.
func (h *TwoFAHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())
	if err := h.TwoFA.DeleteMethod(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
