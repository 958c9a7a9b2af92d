package fakebackend

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

type member struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type family struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []member `json:"members"`
}

func (f *family) has(email string) bool {
	for _, m := range f.Members {
		if strings.EqualFold(m.Email, email) {
			return true
		}
	}
	return false
}

type activity struct {
	ID            string     `json:"id"`
	FamilyID      string     `json:"familyId"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	ExpiresAt     *time.Time `json:"expirationDate,omitempty"`
	AssigneeEmail string     `json:"assigneeEmail,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

var (
	activityStatuses   = map[string]bool{"PENDING": true, "IN_PROGRESS": true, "COMPLETED": true}
	activityPriorities = map[string]bool{"LOW": true, "MEDIUM": true, "HIGH": true}
)

// AddFamily creates a family with owner as its admin and returns its id.
func (s *Server) AddFamily(name, ownerEmail string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addFamilyLocked(name, s.lookupLocked(ownerEmail))
}

func (s *Server) lookupLocked(email string) account {
	if acct, ok := s.users[strings.ToLower(email)]; ok {
		return acct
	}
	return account{Email: email, Name: email}
}

func (s *Server) addFamilyLocked(name string, owner account) string {
	f := &family{
		ID:      s.newID("family"),
		Name:    name,
		Members: []member{{Email: owner.Email, Name: owner.Name, Role: "ADMIN"}},
	}
	s.families[f.ID] = f
	return f.ID
}

func (s *Server) handleListFamilies(w http.ResponseWriter, r *http.Request) {
	acct := s.currentUser(r.Context())
	s.mu.Lock()
	out := make([]family, 0, len(s.families))
	for _, f := range s.families {
		if f.has(acct.Email) {
			out = append(out, *f)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateFamily(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "family name is required")
		return
	}
	owner := s.currentUser(r.Context())
	s.mu.Lock()
	id := s.addFamilyLocked(strings.TrimSpace(req.Name), owner)
	created := *s.families[id]
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	acct := s.currentUser(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.families[mux.Vars(r)["id"]]
	if !ok {
		writeError(w, http.StatusNotFound, "family not found")
		return
	}
	if !f.has(acct.Email) {
		writeError(w, http.StatusForbidden, "not a family member")
		return
	}
	if !f.has(req.Email) {
		invited := s.lookupLocked(strings.TrimSpace(req.Email))
		f.Members = append(f.Members, member{Email: invited.Email, Name: invited.Name, Role: "MEMBER"})
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	familyID := strings.TrimSpace(r.URL.Query().Get("familyId"))
	if familyID == "" {
		writeError(w, http.StatusBadRequest, "familyId is required")
		return
	}
	if !s.canAccess(w, r, familyID) {
		return
	}
	s.mu.Lock()
	out := make([]activity, 0)
	for _, a := range s.activities {
		if a.FamilyID == familyID {
			out = append(out, *a)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt) || (out[i].CreatedAt.Equal(out[j].CreatedAt) && out[i].ID < out[j].ID)
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var req activity
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid activity payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Status == "" {
		req.Status = "PENDING"
	}
	if req.Priority == "" {
		req.Priority = "MEDIUM"
	}
	if !activityStatuses[req.Status] || !activityPriorities[req.Priority] {
		writeError(w, http.StatusBadRequest, "invalid status or priority")
		return
	}
	if !s.canAccess(w, r, req.FamilyID) {
		return
	}
	s.mu.Lock()
	req.ID = s.newID("activity")
	req.CreatedAt = s.now().UTC()
	stored := req
	s.activities[stored.ID] = &stored
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	a, ok := s.activityFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil || !activityStatuses[req.Status] {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	a, ok := s.activityFor(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	stored := s.activities[a.ID]
	stored.Status = req.Status
	a = *stored
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) activityFor(w http.ResponseWriter, r *http.Request) (activity, bool) {
	s.mu.Lock()
	stored, ok := s.activities[mux.Vars(r)["id"]]
	var a activity
	if ok {
		a = *stored
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "activity not found")
		return activity{}, false
	}
	if !s.canAccess(w, r, a.FamilyID) {
		return activity{}, false
	}
	return a, true
}

// canAccess writes 404 or 403 and reports false when the caller may not use
// familyID.
func (s *Server) canAccess(w http.ResponseWriter, r *http.Request, familyID string) bool {
	acct := s.currentUser(r.Context())
	s.mu.Lock()
	f, ok := s.families[familyID]
	member := ok && f.has(acct.Email)
	s.mu.Unlock()
	switch {
	case !ok:
		writeError(w, http.StatusNotFound, "family not found")
		return false
	case !member:
		writeError(w, http.StatusForbidden, "not a family member")
		return false
	}
	return true
}
