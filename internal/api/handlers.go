package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maildesk/maildesk/internal/mail"
	"github.com/maildesk/maildesk/internal/search"
)

// MailboxInfo represents one mailbox in list responses.
type MailboxInfo struct {
	Name  string `json:"name"`
	Key   string `json:"key"`
	Dir   string `json:"dir"`
	Count int    `json:"count"`
}

// EntrySummary represents an entry in list responses.
type EntrySummary struct {
	Path           string `json:"path"`
	Subject        string `json:"subject"`
	From           string `json:"from"`
	To             string `json:"to"`
	CC             string `json:"cc,omitempty"`
	Status         string `json:"status"`
	Date           string `json:"date,omitempty"`
	HasAttachments bool   `json:"has_attachments"`
}

// EntryDetail represents a full entry response.
type EntryDetail struct {
	EntrySummary
	Mailbox string `json:"mailbox"`
	Body    string `json:"body"`
}

// EntryList represents one page of a mailbox listing.
type EntryList struct {
	Mailbox  string         `json:"mailbox"`
	Query    string         `json:"query,omitempty"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Entries  []EntrySummary `json:"entries"`
}

// SchedulerStatusResponse represents scheduler status.
type SchedulerStatusResponse struct {
	Running bool        `json:"running"`
	Jobs    []JobStatus `json:"jobs"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, err string, message string) {
	writeJSON(w, status, ErrorResponse{Error: err, Message: message})
}

func entrySummary(e mail.Entry) EntrySummary {
	return EntrySummary{
		Path:           e.Path,
		Subject:        e.Subject,
		From:           e.From,
		To:             e.To,
		CC:             e.CC,
		Status:         e.Status,
		Date:           e.Date,
		HasAttachments: e.HasAttachments,
	}
}

// handleListMailboxes returns the four mailboxes with their entry counts.
func (s *Server) handleListMailboxes(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "Entry store not available")
		return
	}

	counts, err := s.store.Counts(r.Context())
	if err != nil {
		s.logger.Error("failed to count mailboxes", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to count mailboxes")
		return
	}

	infos := make([]MailboxInfo, 0, mail.MailboxCount)
	for _, box := range mail.All {
		infos = append(infos, MailboxInfo{
			Name:  box.String(),
			Key:   box.Key(),
			Dir:   s.store.Dir(box),
			Count: counts[box],
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mailboxes": infos,
	})
}

// handleListEntries returns a filtered, paginated listing of one mailbox.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "Entry store not available")
		return
	}

	box, ok := mail.ParseMailbox(chi.URLParam(r, "mailbox"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_mailbox", "No such mailbox")
		return
	}

	query := r.URL.Query().Get("q")
	includeBody, _ := strconv.ParseBool(r.URL.Query().Get("body"))

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	entries := search.Filter(s.store.GetOrLoad(box), query, includeBody)
	total := len(entries)

	offset := (page - 1) * pageSize
	if offset > total {
		offset = total
	}
	end := offset + pageSize
	if end > total {
		end = total
	}

	summaries := make([]EntrySummary, 0, end-offset)
	for _, e := range entries[offset:end] {
		summaries = append(summaries, entrySummary(e))
	}

	writeJSON(w, http.StatusOK, EntryList{
		Mailbox:  box.Key(),
		Query:    query,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Entries:  summaries,
	})
}

// handleGetEntry returns a single entry by path. The path must sit directly
// inside one of the configured mailbox directories.
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "Entry store not available")
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "missing_path", "Query parameter 'path' is required")
		return
	}

	box, ok := s.store.MailboxFor(path)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "Path is not inside a configured mailbox")
		return
	}

	entry, err := mail.ParseFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "not_found", "Entry not found")
			return
		}
		s.logger.Error("failed to read entry", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to read entry")
		return
	}

	writeJSON(w, http.StatusOK, EntryDetail{
		EntrySummary: entrySummary(entry),
		Mailbox:      box.Key(),
		Body:         entry.Body,
	})
}

// handleTriggerJob manually starts a scheduled background job.
func (s *Server) handleTriggerJob(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "scheduler_unavailable", "Scheduler not available")
		return
	}

	name := chi.URLParam(r, "name")
	if !s.scheduler.IsScheduled(name) {
		writeError(w, http.StatusNotFound, "unknown_job", "Job "+name+" is not scheduled")
		return
	}

	if err := s.scheduler.Trigger(name); err != nil {
		s.logger.Error("failed to trigger job", "job", name, "error", err)
		writeError(w, http.StatusConflict, "job_error", err.Error())
		return
	}

	s.logger.Info("job triggered via API", "job", name)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"message": "Job started: " + name,
	})
}

// handleSchedulerStatus returns the scheduler status.
func (s *Server) handleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "scheduler_unavailable", "Scheduler not available")
		return
	}

	writeJSON(w, http.StatusOK, SchedulerStatusResponse{
		Running: s.scheduler.IsRunning(),
		Jobs:    s.scheduler.Status(),
	})
}
