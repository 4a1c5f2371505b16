package api

import (
	"net/http"
	"strconv"

	"jobboard/internal/apperr"
	"jobboard/internal/auth"
	"jobboard/internal/company"
	"jobboard/internal/posting"
	"jobboard/internal/profile"
	"jobboard/internal/subscription"
)

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var in profile.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	register := h.Profiles.RegisterSeeker
	switch r.PathValue("role") {
	case "jobseeker":
	case "employer":
		register = h.Profiles.RegisterEmployer
	default:
		h.writeError(w, r, apperr.NotFound("role"))
		return
	}
	user, err := register(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *handler) getSeekerProfile(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	p, err := h.Profiles.GetSeekerProfile(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) updateSeekerProfile(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	var in profile.SeekerProfileInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Profiles.UpdateSeekerProfile(r.Context(), actor, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) getEmployerProfile(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	p, err := h.Profiles.GetEmployerProfile(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) updateEmployerProfile(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	var in profile.EmployerProfileInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Profiles.UpdateEmployerProfile(r.Context(), actor, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- companies ---

func (h *handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Companies.ListActive(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (h *handler) getCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.Companies.GetActive(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) createCompany(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	var in company.Input
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.Companies.Create(r.Context(), actor, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *handler) editCompany(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	var in company.Input
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.Companies.Edit(r.Context(), actor, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) linkCompany(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	var req struct {
		CompanyID string `json:"company_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.Companies.Link(r.Context(), actor, req.CompanyID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) toggleCompany(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	c, err := h.Companies.ToggleActive(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// --- jobs ---

func (h *handler) listJobs(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	filter := posting.Filter{
		CompanyID: r.URL.Query().Get("company_id"),
		Limit:     limit + 1,
		Offset:    (page - 1) * limit,
	}

	jobs, err := h.Postings.ListActive(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	total, err := h.Postings.CountActive(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	hasMore := false
	if len(jobs) > limit {
		hasMore = true
		jobs = jobs[:limit]
	}
	setPageHeaders(w, page, limit, hasMore, total)
	writeJSON(w, http.StatusOK, jobs)
}

func (h *handler) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.Postings.GetActive(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *handler) createJob(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	var in posting.JobInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	job, err := h.Postings.Create(r.Context(), actor, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (h *handler) updateJob(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	var in posting.JobInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	job, err := h.Postings.Update(r.Context(), actor, r.PathValue("id"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *handler) deleteJob(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	if err := h.Postings.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) toggleJob(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	job, err := h.Postings.ToggleActive(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *handler) listMyJobs(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	jobs, err := h.Postings.ListMine(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// --- applications ---

func (h *handler) apply(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	if h.Limiter != nil && !h.Limiter.Allow(r.Context(), "apply:"+actor.UserID) {
		h.writeError(w, r, apperr.ErrRateLimited)
		return
	}
	var req struct {
		CoverLetter string `json:"cover_letter"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	app, err := h.Applications.Submit(r.Context(), actor, r.PathValue("id"), req.CoverLetter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *handler) listMyApplications(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	apps, err := h.Applications.ListMine(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *handler) getApplication(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	app, err := h.Applications.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *handler) withdraw(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	app, err := h.Applications.Withdraw(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *handler) updateStatus(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	app, err := h.Applications.UpdateStatus(r.Context(), actor, r.PathValue("id"), req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *handler) listEmployerApplications(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	apps, err := h.Applications.ListForEmployer(r.Context(), actor, r.URL.Query().Get("job_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// --- saved jobs ---

func (h *handler) saveJob(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	saved, err := h.Saved.Save(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) unsaveJob(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	if err := h.Saved.Unsave(r.Context(), actor, r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listSavedJobs(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	saved, err := h.Saved.List(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// --- notifications ---

func (h *handler) listNotifications(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	items, err := h.Inbox.List(r.Context(), actor, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handler) unreadCount(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	n, err := h.Inbox.UnreadCount(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unread": n})
}

func (h *handler) markRead(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	if err := h.Inbox.MarkRead(r.Context(), actor, r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) markAllRead(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	n, err := h.Inbox.MarkAllRead(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

func (h *handler) deleteNotification(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	if err := h.Inbox.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) clearNotifications(w http.ResponseWriter, r *http.Request, actor *auth.Actor) {
	n, err := h.Inbox.Clear(r.Context(), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// --- newsletter ---

func (h *handler) subscribe(w http.ResponseWriter, r *http.Request) {
	if h.Newsletter == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "unavailable", Message: "subscription disabled"})
		return
	}
	var req subscription.Request
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	sub, err := h.Newsletter.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	if h.Newsletter == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "unavailable", Message: "subscription disabled"})
		return
	}
	email := r.URL.Query().Get("email")
	if email == "" && r.ContentLength != 0 {
		var req struct {
			Email string `json:"email"`
		}
		if err := decodeJSON(r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
		email = req.Email
	}
	if err := h.Newsletter.Unsubscribe(r.Context(), email); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
