package households

import (
	"net/http"

	householddomain "household-app-go/internal/domain/household"
	"household-app-go/internal/transport/httpserver/handler/common"
	"household-app-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	items, err := h.Households.ListMembers(r.Context(), ac)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "members.list", err, "user_id", ac.UserID)
		return
	}

	resp := make([]memberResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toMemberProfileResponse(item))
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	memberID, ok := common.PathUUID(w, r, "member_id", householddomain.ErrMemberNotFound)
	if !ok {
		return
	}
	result, err := h.Households.UpdateMemberRole(r.Context(), ac, memberID, req.Role)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "members.role", err, "member_id", memberID, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toMemberResponse(*result))
}

func (h *Handlers) UpdateMemberStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	memberID, ok := common.PathUUID(w, r, "member_id", householddomain.ErrMemberNotFound)
	if !ok {
		return
	}
	result, err := h.Households.UpdateMemberStatus(r.Context(), ac, memberID, req.Status)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "members.status", err, "member_id", memberID, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toMemberResponse(*result))
}

func (h *Handlers) UpdateMemberPermissions(w http.ResponseWriter, r *http.Request) {
	var req permissionsRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	memberID, ok := common.PathUUID(w, r, "member_id", householddomain.ErrMemberNotFound)
	if !ok {
		return
	}
	result, err := h.Households.UpdateMemberPermissions(r.Context(), ac, memberID, householddomain.PermissionsInput{
		CanEditHousehold:  req.CanEditHousehold,
		CanManageProducts: req.CanManageProducts,
	})
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "members.permissions", err, "member_id", memberID, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toMemberResponse(*result))
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	memberID, ok := common.PathUUID(w, r, "member_id", householddomain.ErrMemberNotFound)
	if !ok {
		return
	}
	if err := h.Households.RemoveMember(r.Context(), ac, memberID); err != nil {
		common.WriteDomainError(w, h.logger(r), "members.remove", err, "member_id", memberID, "user_id", ac.UserID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
