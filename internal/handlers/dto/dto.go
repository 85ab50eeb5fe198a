package dto

import (
	"todoList/internal/view"
)

type CreateTaskRequest struct {
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	Hour        int    `json:"hour"`
	Minute      int    `json:"minute"`
}

type EditTaskRequest struct {
	Description string `json:"description"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	Hour        int    `json:"hour"`
	Minute      int    `json:"minute"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

type RowResponse struct {
	ID          int      `json:"id"`
	Description string   `json:"task"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status"`
	Deadline    string   `json:"deadline"`
	Created     string   `json:"created"`
	CreatedAgo  string   `json:"created_ago,omitempty"`
	Tags        []string `json:"tags"`
}

type SummaryResponse struct {
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
	Overdue   int    `json:"overdue"`
	Text      string `json:"text"`
}

type ViewResponse struct {
	Rows    []RowResponse   `json:"rows"`
	Summary SummaryResponse `json:"summary"`
}

func FromRow(r view.DisplayRow) RowResponse {
	tags := make([]string, 0, 2)
	for _, t := range r.Tags.Tags() {
		tags = append(tags, string(t))
	}
	return RowResponse{
		ID:          r.ID,
		Description: r.Description,
		Priority:    string(r.Priority),
		Status:      string(r.Status),
		Deadline:    r.Deadline,
		Created:     r.Created,
		CreatedAgo:  r.CreatedAgo,
		Tags:        tags,
	}
}

func FromView(v view.View) ViewResponse {
	rows := make([]RowResponse, len(v.Rows))
	for i, r := range v.Rows {
		rows[i] = FromRow(r)
	}
	return ViewResponse{
		Rows: rows,
		Summary: SummaryResponse{
			Total:     v.Summary.Total,
			Completed: v.Summary.Completed,
			Pending:   v.Summary.Pending,
			Overdue:   v.Summary.Overdue,
			Text:      v.Summary.String(),
		},
	}
}
