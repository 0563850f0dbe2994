package http

import (
	"time"

	"github.com/mkosyakov/kedb-service/internal/domain"
)

type recordResponse struct {
	ID              int        `json:"id"`
	ErrorID         string     `json:"errorId"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	RootCause       string     `json:"rootCause"`
	Impact          string     `json:"impact"`
	Category        string     `json:"category"`
	Subcategory     string     `json:"subcategory"`
	Workaround      string     `json:"workaround"`
	Resolution      *string    `json:"resolution"`
	Status          string     `json:"status"`
	DateIdentified  time.Time  `json:"dateIdentified"`
	Environment     string     `json:"environment"`
	Priority        string     `json:"priority"`
	LinkedIncidents *string    `json:"linkedIncidents"`
	Owner           string     `json:"owner"`
	OwnerID         *int       `json:"ownerId"`
	LastUpdated     time.Time  `json:"lastUpdated"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func toRecordResponse(r *domain.Record) recordResponse {
	return recordResponse{
		ID:              r.ID,
		ErrorID:         r.ErrorID,
		Title:           r.Title,
		Description:     r.Description,
		RootCause:       r.RootCause,
		Impact:          r.Impact,
		Category:        r.Category,
		Subcategory:     r.Subcategory,
		Workaround:      r.Workaround,
		Resolution:      r.Resolution,
		Status:          string(r.Status),
		DateIdentified:  r.DateIdentified,
		Environment:     r.Environment,
		Priority:        r.Priority,
		LinkedIncidents: r.LinkedIncidents,
		Owner:           r.Owner,
		OwnerID:         r.OwnerID,
		LastUpdated:     r.LastUpdated,
		CreatedAt:       r.CreatedAt,
	}
}

func toRecordResponses(records []domain.Record) []recordResponse {
	out := make([]recordResponse, len(records))
	for i := range records {
		out[i] = toRecordResponse(&records[i])
	}

	return out
}

type draftResponse struct {
	ID              int        `json:"id"`
	DraftID         string     `json:"draftId"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	RootCause       string     `json:"rootCause"`
	Impact          string     `json:"impact"`
	Category        string     `json:"category"`
	Subcategory     string     `json:"subcategory"`
	Workaround      string     `json:"workaround"`
	Resolution      *string    `json:"resolution"`
	DateIdentified  *time.Time `json:"dateIdentified"`
	Environment     string     `json:"environment"`
	Priority        string     `json:"priority"`
	LinkedIncidents *string    `json:"linkedIncidents"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func toDraftResponses(drafts []domain.Draft) []draftResponse {
	out := make([]draftResponse, len(drafts))
	for i, d := range drafts {
		out[i] = draftResponse{
			ID:              d.ID,
			DraftID:         d.DraftID,
			Title:           d.Title,
			Description:     d.Description,
			RootCause:       d.RootCause,
			Impact:          d.Impact,
			Category:        d.Category,
			Subcategory:     d.Subcategory,
			Workaround:      d.Workaround,
			Resolution:      d.Resolution,
			DateIdentified:  d.DateIdentified,
			Environment:     d.Environment,
			Priority:        d.Priority,
			LinkedIncidents: d.LinkedIncidents,
			CreatedAt:       d.CreatedAt,
			UpdatedAt:       d.UpdatedAt,
		}
	}

	return out
}
