package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mkosyakov/kedb-service/internal/apperrors"
	"github.com/mkosyakov/kedb-service/internal/service"
)

func (s *Server) PostLogin(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostLogin"

	var req loginRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, result)
}

func (s *Server) PostRecord(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostRecord"

	user, ok := getActingUser(r.Context())
	if !ok {
		s.handleServiceError(w, r, op, apperrors.ErrUnauthorized)
		return
	}

	var req recordRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	dateIdentified, err := parseDate(req.DateIdentified)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.records.Create(r.Context(), recordInput(req, dateIdentified), user.ID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]interface{}{
		"message": "record created",
		"id":      result.ID,
		"errorId": result.ErrorID,
	})
}

func (s *Server) GetRecords(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetRecords"

	records, err := s.records.List(r.Context())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, toRecordResponses(records))
}

func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetRecord"

	id, err := urlID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	record, err := s.records.GetByID(r.Context(), id)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, toRecordResponse(record))
}

func (s *Server) PutRecord(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PutRecord"

	id, err := urlID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req recordRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	dateIdentified, err := parseDate(req.DateIdentified)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.records.Update(r.Context(), id, recordInput(req, dateIdentified)); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"message": "record updated"})
}

func (s *Server) PatchRecordStatus(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PatchRecordStatus"

	id, err := urlID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req updateStatusRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.records.UpdateStatus(r.Context(), id, req.Status, req.Resolution); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"message": "status updated"})
}

func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.DeleteRecord"

	id, err := urlID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.records.Delete(r.Context(), id); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"message": "record deleted"})
}

func (s *Server) PostAssign(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostAssign"

	user, ok := getActingUser(r.Context())
	if !ok {
		s.handleServiceError(w, r, op, apperrors.ErrUnauthorized)
		return
	}

	id, err := urlID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req assignRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		d, err := parseDate(req.DueDate)
		if err != nil {
			s.handleServiceError(w, r, op, err)
			return
		}

		dueDate = &d
	}

	result, err := s.assignments.Assign(r.Context(), service.AssignInput{
		RecordID:     id,
		AssigneeID:   req.AssignedTo,
		DueDate:      dueDate,
		Notes:        req.Notes,
		ActingUserID: user.ID,
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{
		"message":    "record assigned",
		"assignedTo": result.AssignedTo,
		"emailSent":  result.EmailSent,
	})
}

func (s *Server) PostRevert(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostRevert"

	user, ok := getActingUser(r.Context())
	if !ok {
		s.handleServiceError(w, r, op, apperrors.ErrUnauthorized)
		return
	}

	id, err := urlID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req revertRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.assignments.Revert(r.Context(), service.RevertInput{
		RecordID:     id,
		Notes:        req.Notes,
		ActingUserID: user.ID,
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{
		"message":    "assignment reverted",
		"assignedTo": result.AssignedTo,
		"emailSent":  result.EmailSent,
	})
}

func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetHistory"

	id, err := urlID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.assignments.GetHistory(r.Context(), id)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, result)
}

func (s *Server) GetArchived(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetArchived"

	user, ok := getActingUser(r.Context())
	if !ok {
		s.handleServiceError(w, r, op, apperrors.ErrUnauthorized)
		return
	}

	records, err := s.assignments.ListAssigned(r.Context(), user.ID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, records)
}

func (s *Server) PostDraft(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostDraft"

	user, ok := getActingUser(r.Context())
	if !ok {
		s.handleServiceError(w, r, op, apperrors.ErrUnauthorized)
		return
	}

	var req draftRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	in, err := draftInput(req)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.drafts.Save(r.Context(), in, user.ID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]interface{}{
		"message": "draft saved",
		"id":      result.ID,
		"draftId": result.DraftID,
	})
}

func (s *Server) GetDrafts(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetDrafts"

	user, ok := getActingUser(r.Context())
	if !ok {
		s.handleServiceError(w, r, op, apperrors.ErrUnauthorized)
		return
	}

	drafts, err := s.drafts.List(r.Context(), user.ID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, toDraftResponses(drafts))
}

func (s *Server) PutDraft(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PutDraft"

	user, ok := getActingUser(r.Context())
	if !ok {
		s.handleServiceError(w, r, op, apperrors.ErrUnauthorized)
		return
	}

	id, err := urlID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req draftRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	in, err := draftInput(req)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.drafts.Update(r.Context(), id, user.ID, in); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"message": "draft updated"})
}

func (s *Server) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.DeleteDraft"

	user, ok := getActingUser(r.Context())
	if !ok {
		s.handleServiceError(w, r, op, apperrors.ErrUnauthorized)
		return
	}

	id, err := urlID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.drafts.Delete(r.Context(), id, user.ID); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"message": "draft deleted"})
}

func (s *Server) PostDraftSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostDraftSubmit"

	user, ok := getActingUser(r.Context())
	if !ok {
		s.handleServiceError(w, r, op, apperrors.ErrUnauthorized)
		return
	}

	id, err := urlID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.drafts.Submit(r.Context(), id, user.ID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]interface{}{
		"message": "draft submitted",
		"id":      result.ID,
		"errorId": result.ErrorID,
	})
}

// urlID extracts the numeric {id} path parameter.
func urlID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id parameter", apperrors.ErrInvalidRequest)
	}

	return id, nil
}

// parseDate accepts both plain dates and full RFC 3339 timestamps.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", apperrors.ErrInvalidRequest, value)
	}

	return t, nil
}

func recordInput(req recordRequest, dateIdentified time.Time) service.RecordInput {
	return service.RecordInput{
		Title:           req.Title,
		Description:     req.Description,
		RootCause:       req.RootCause,
		Impact:          req.Impact,
		Category:        req.Category,
		Subcategory:     req.Subcategory,
		Workaround:      req.Workaround,
		Resolution:      req.Resolution,
		Status:          req.Status,
		DateIdentified:  dateIdentified,
		Environment:     req.Environment,
		Priority:        req.Priority,
		LinkedIncidents: req.LinkedIncidents,
		Owner:           req.Owner,
	}
}

func draftInput(req draftRequest) (service.DraftInput, error) {
	in := service.DraftInput{
		Title:           req.Title,
		Description:     req.Description,
		RootCause:       req.RootCause,
		Impact:          req.Impact,
		Category:        req.Category,
		Subcategory:     req.Subcategory,
		Workaround:      req.Workaround,
		Resolution:      req.Resolution,
		Environment:     req.Environment,
		Priority:        req.Priority,
		LinkedIncidents: req.LinkedIncidents,
	}

	if req.DateIdentified != "" {
		d, err := parseDate(req.DateIdentified)
		if err != nil {
			return service.DraftInput{}, err
		}

		in.DateIdentified = &d
	}

	return in, nil
}
