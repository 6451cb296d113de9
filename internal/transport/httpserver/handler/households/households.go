package households

import (
	"net/http"

	"household-app-go/internal/domain/access"
	householddomain "household-app-go/internal/domain/household"
	"household-app-go/internal/transport/httpserver/handler/common"
	"household-app-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) ListHouseholds(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	items, err := h.Households.ListOwn(r.Context(), ac)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "households.list", err, "user_id", ac.UserID)
		return
	}

	resp := make([]householdResponse, 0, len(items))
	for _, item := range items {
		membership, err := ac.Caller().Membership(r.Context(), item.ID)
		if err != nil {
			common.WriteDomainError(w, h.logger(r), "households.list", err, "user_id", ac.UserID)
			return
		}
		resp = append(resp, toHouseholdResponse(item, membership))
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req householdRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	result, err := h.Households.Create(r.Context(), ac, householddomain.CreateInput{
		Name:         deref(req.Name),
		JoinQuestion: deref(req.JoinQuestion),
		JoinAnswer:   deref(req.JoinAnswer),
	})
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "households.create", err, "user_id", ac.UserID)
		return
	}

	h.logger(r).Info("households.create: created", "public_id", result.PublicID, "user_id", ac.UserID)
	creator := &access.Membership{Role: access.RoleAdmin, Status: access.StatusAccepted}
	common.WriteJSON(w, http.StatusCreated, toHouseholdResponse(*result, creator))
}

func (h *Handlers) ListMemberships(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	items, err := h.Households.ListMemberships(r.Context(), ac)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "households.memberships", err, "user_id", ac.UserID)
		return
	}

	resp := make([]membershipResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, membershipResponse{
			Household: householdSummary{PublicID: item.Household.PublicID, Name: item.Household.Name},
			Member:    toMemberResponse(item.Member),
		})
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) GetHousehold(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	result, err := h.Households.Get(r.Context(), ac)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "households.get", err, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toHouseholdResponse(*result, ac.Membership))
}

func (h *Handlers) UpdateHousehold(w http.ResponseWriter, r *http.Request) {
	var req householdRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	result, err := h.Households.Update(r.Context(), ac, householddomain.UpdateInput{
		Name:         req.Name,
		JoinQuestion: req.JoinQuestion,
		JoinAnswer:   req.JoinAnswer,
	})
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "households.update", err, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toHouseholdResponse(*result, ac.Membership))
}

func (h *Handlers) DeleteHousehold(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	if err := h.Households.Delete(r.Context(), ac); err != nil {
		common.WriteDomainError(w, h.logger(r), "households.delete", err, "user_id", ac.UserID)
		return
	}

	h.logger(r).Info("households.delete: deleted", "public_id", ac.Household.PublicID, "user_id", ac.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) JoinInfo(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	result, err := h.Households.JoinInfo(r.Context(), ac)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "households.join_info", err, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toJoinInfoResponse(*result))
}

func (h *Handlers) JoinHousehold(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	result, err := h.Households.Join(r.Context(), ac, req.Answer)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "households.join", err, "public_id", ac.Household.PublicID, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusCreated, toMemberResponse(*result))
}

func (h *Handlers) LeaveHousehold(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	if err := h.Households.Leave(r.Context(), ac); err != nil {
		common.WriteDomainError(w, h.logger(r), "households.leave", err, "public_id", ac.Household.PublicID, "user_id", ac.UserID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
