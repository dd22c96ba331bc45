package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"clubktm/internal/adapters/http/middleware"
	"clubktm/internal/application/orchestrators"
	"clubktm/internal/application/projections"
	"clubktm/internal/domain/export"
	"clubktm/internal/domain/record"
	"clubktm/internal/domain/staff"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode_response", "error", err.Error())
	}
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requireSession fetches the session or writes a 401.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "authentication required")
	}
	return session, ok
}

// --- Authentication ---

// handleLogin handles POST /login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: input.Username,
		Password: input.Password,
	}, orchestrators.LoginDeps{Staff: stores.Staff})
	if err != nil {
		// Username and password failures are deliberately distinguishable.
		errorJSON(w, http.StatusUnauthorized, err.Error())
		return
	}

	token, err := sessions.Create(summary.ID, summary.Name, summary.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, summary)
}

// handleLogout handles POST /logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleSession handles GET /api/session: the logged-in member's summary.
func handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, staff.Summary{ID: session.Username, Name: session.Name, Role: session.Role})
}

// handleChangePassword handles POST /api/password.
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		Username:        session.Username,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	}, orchestrators.ChangePasswordDeps{
		Staff:      stores.Staff,
		Outbox:     stores.Outbox,
		ClubEmail:  clubEmail,
		GenerateID: generateID,
		Now:        timeNow,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
	case errors.Is(err, orchestrators.ErrAccessDenied):
		errorJSON(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, orchestrators.ErrAccountNotFound):
		errorJSON(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orchestrators.ErrWrongCurrentPassword),
		errors.Is(err, staff.ErrWeakPassword),
		errors.Is(err, orchestrators.ErrPasswordUnchanged):
		errorJSON(w, http.StatusBadRequest, err.Error())
	default:
		internalError(w, err)
	}
}

// handleStaff handles /api/staff: GET lists summaries, POST creates an
// account. Both are for administrators; the orchestrator enforces the role
// on POST, the handler on GET.
func handleStaff(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		if !session.IsAdministrator() {
			errorJSON(w, http.StatusForbidden, orchestrators.ErrNotAuthorized.Error())
			return
		}
		members, err := stores.Staff.List(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		summaries := make([]staff.Summary, 0, len(members))
		for _, m := range members {
			summaries = append(summaries, m.Summary())
		}
		writeJSON(w, http.StatusOK, summaries)

	case "POST":
		var input struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Name     string `json:"name"`
			Role     string `json:"role"`
			Email    string `json:"email"`
		}
		if err := strictDecode(r, &input); err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid request body")
			return
		}

		summary, err := orchestrators.ExecuteAddStaff(r.Context(), orchestrators.AddStaffInput{
			CallerRole: session.Role,
			Username:   input.Username,
			Password:   input.Password,
			Name:       input.Name,
			Role:       input.Role,
			Email:      input.Email,
		}, orchestrators.AddStaffDeps{Staff: stores.Staff, Now: timeNow})
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, summary)
		case errors.Is(err, orchestrators.ErrNotAuthorized):
			errorJSON(w, http.StatusForbidden, err.Error())
		case errors.Is(err, orchestrators.ErrDuplicateUsername):
			errorJSON(w, http.StatusConflict, err.Error())
		default:
			errorJSON(w, http.StatusBadRequest, err.Error())
		}

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// --- Collections ---

// collectionID splits "/api/<name>/<id>" into its trailing id, if present.
func collectionID(path, name string) (int, bool) {
	rest := strings.TrimPrefix(path, "/api/"+name)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}

// handleCollectionFor builds the handler for one collection's routes:
// GET and POST on /api/<name>, PATCH and DELETE on /api/<name>/<id>.
// Reads are public; every write requires a staff session.
func handleCollectionFor(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			if _, ok := requireSession(w, r); !ok {
				return
			}
		}

		switch r.Method {
		case "GET":
			// Applications hold applicant contact details; their reads
			// stay staff-only even on the generic routes.
			if name == record.CollectionApplications {
				if _, ok := requireSession(w, r); !ok {
					return
				}
			}
			records, err := stores.Collections.Load(r.Context(), name)
			if err != nil {
				internalError(w, err)
				return
			}
			if records == nil {
				records = []record.Record{}
			}
			writeJSON(w, http.StatusOK, records)

		case "POST":
			var fields record.Record
			if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
				errorJSON(w, http.StatusBadRequest, "invalid request body")
				return
			}
			stored, err := orchestrators.ExecuteAddRecord(r.Context(), orchestrators.AddRecordInput{
				Collection: name,
				Fields:     fields,
			}, orchestrators.AddRecordDeps{Collections: stores.Collections})
			if err != nil {
				internalError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, stored)

		case "PATCH":
			id, ok := collectionID(r.URL.Path, name)
			if !ok {
				errorJSON(w, http.StatusBadRequest, "record id required")
				return
			}
			var patch record.Record
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				errorJSON(w, http.StatusBadRequest, "invalid request body")
				return
			}
			updated, err := orchestrators.ExecuteUpdateRecord(r.Context(), orchestrators.UpdateRecordInput{
				Collection: name,
				ID:         id,
				Patch:      patch,
			}, orchestrators.UpdateRecordDeps{Collections: stores.Collections})
			switch {
			case err == nil:
				writeJSON(w, http.StatusOK, updated)
			case errors.Is(err, record.ErrNotFound):
				errorJSON(w, http.StatusNotFound, "record not found")
			default:
				internalError(w, err)
			}

		case "DELETE":
			id, ok := collectionID(r.URL.Path, name)
			if !ok {
				errorJSON(w, http.StatusBadRequest, "record id required")
				return
			}
			err := orchestrators.ExecuteRemoveRecord(r.Context(), orchestrators.RemoveRecordInput{
				Collection: name,
				ID:         id,
			}, orchestrators.RemoveRecordDeps{Collections: stores.Collections})
			if err != nil {
				internalError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

// handleClearData handles POST /api/data/clear: erases the club-data
// collections. The staff directory and sessions survive.
func handleClearData(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	if err := orchestrators.ExecuteClearData(r.Context(), orchestrators.ClearDataDeps{Collections: stores.Collections}); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "club data cleared"})
}

// --- Public site ---

// handleContent handles GET /api/content: the public site projection.
// News bodies are rendered from markdown to safe HTML server-side.
func handleContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	content, err := projections.QueryGetSiteContent(r.Context(), projections.SiteContentDeps{
		Collections: stores.Collections,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	for i, item := range content.News {
		if body := item.String("content"); body != "" {
			rendered := item.Clone()
			rendered["contentHTML"] = renderMarkdown(body)
			content.News[i] = rendered
		}
	}
	writeJSON(w, http.StatusOK, content)
}

func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// handleApplications handles /api/applications: POST is the public program
// application form; GET is the staff review list.
func handleApplications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "POST":
		var input struct {
			Program    string `json:"program"`
			Role       string `json:"role"`
			Name       string `json:"name"`
			Email      string `json:"email"`
			Phone      string `json:"phone"`
			Age        int    `json:"age"`
			Experience string `json:"experience"`
			Message    string `json:"message"`
		}
		if err := strictDecode(r, &input); err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid request body")
			return
		}

		stored, err := orchestrators.ExecuteSubmitApplication(r.Context(), orchestrators.SubmitApplicationInput{
			Program:    input.Program,
			Role:       input.Role,
			Name:       input.Name,
			Email:      input.Email,
			Phone:      input.Phone,
			Age:        input.Age,
			Experience: input.Experience,
			Message:    input.Message,
		}, orchestrators.SubmitApplicationDeps{
			Collections: stores.Collections,
			Outbox:      stores.Outbox,
			ClubEmail:   clubEmail,
			GenerateID:  generateID,
			Now:         timeNow,
		})
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, stored)
		case errors.Is(err, orchestrators.ErrInvalidApplication),
			errors.Is(err, orchestrators.ErrInvalidApplicantRole):
			errorJSON(w, http.StatusBadRequest, err.Error())
		default:
			internalError(w, err)
		}

	case "GET":
		if _, ok := requireSession(w, r); !ok {
			return
		}
		records, err := stores.Collections.Load(r.Context(), record.CollectionApplications)
		if err != nil {
			internalError(w, err)
			return
		}
		if records == nil {
			records = []record.Record{}
		}
		writeJSON(w, http.StatusOK, records)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleApplicationsExport handles GET /api/applications/export: CSV download
// of the applications collection for offline review.
func handleApplicationsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	records, err := stores.Collections.Load(r.Context(), record.CollectionApplications)
	if err != nil {
		internalError(w, err)
		return
	}
	csvData, err := export.ApplicationsCSV(records)
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="applications.csv"`)
	w.Write(csvData)
}

// handleContact handles POST /api/contact: the public contact form. The
// message is queued for the club inbox and never stored as a record.
func handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := orchestrators.ExecuteSubmitContact(r.Context(), orchestrators.SubmitContactInput{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Message: input.Message,
	}, orchestrators.SubmitContactDeps{
		Outbox:     stores.Outbox,
		ClubEmail:  clubEmail,
		GenerateID: generateID,
		Now:        timeNow,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "message queued"})
	case errors.Is(err, orchestrators.ErrInvalidContact):
		errorJSON(w, http.StatusBadRequest, err.Error())
	default:
		internalError(w, err)
	}
}

// handleOutboxFailures handles GET /api/outbox/failures: the failure log of
// queued notifications, for administrators.
func handleOutboxFailures(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	if !session.IsAdministrator() {
		errorJSON(w, http.StatusForbidden, orchestrators.ErrNotAuthorized.Error())
		return
	}

	entries, err := stores.Outbox.ListFailed(r.Context(), 50)
	if err != nil {
		internalError(w, err)
		return
	}

	type failedEntry struct {
		ID              string    `json:"id"`
		ActionType      string    `json:"actionType"`
		Attempts        int       `json:"attempts"`
		LastAttemptedAt time.Time `json:"lastAttemptedAt"`
		Error           string    `json:"error"`
	}
	out := make([]failedEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, failedEntry{
			ID:              e.ID,
			ActionType:      e.ActionType,
			Attempts:        e.Attempts,
			LastAttemptedAt: e.LastAttemptedAt,
			Error:           e.ErrorMessage,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
