// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package views renders the HTML pages.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/votedesk/models"
)

//go:embed templates/*.html
var files embed.FS

// Page names
const (
	Index         = "index"
	Register      = "register"
	Login         = "login"
	Admin         = "admin"
	EditCandidate = "edit_candidate"
	Vote          = "vote"
	Schedule      = "schedule"
	Profile       = "profile"
	Verify        = "verify"
	Results       = "results"
	Error         = "error"
)

// Page is the data every template receives.
type Page struct {
	Title   string
	Viewer  models.Identity // nil when anonymous
	Message string
	Data    any
}

// Page data

// FormData refills the register and login forms after a failed post.
type FormData struct {
	Username string
	VoterNo  string
}

type AdminData struct {
	Status   string
	Election *models.Election
	Tally    models.Tally
	Users    []models.User
}

type VoteData struct {
	Status       string
	Election     *models.Election
	VotingOpen   bool
	AlreadyVoted bool
	Candidates   []models.Candidate
}

type ScheduleData struct {
	Status   string
	Election *models.Election
}

type ProfileData struct {
	User          *models.User
	CandidateName string // empty when the candidate was deleted
}

type VerifyData struct {
	Found         bool
	Username      string
	MaskedVoterNo string
	Election      *models.Election
}

type ResultsData struct {
	Published bool
	Tally     models.Tally
}

var funcs = template.FuncMap{
	"isAdmin":    isAdmin,
	"formatTime": formatTime,
	"humanTime":  humanTime,
	"comma":      func(n int) string { return humanize.Comma(int64(n)) },
	"percent":    percent,
}

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{
		Index, Register, Login, Admin, EditCandidate, Vote,
		Schedule, Profile, Verify, Results, Error,
	} {
		pages[name] = template.Must(template.New("layout.html").Funcs(funcs).ParseFS(files,
			"templates/layout.html",
			"templates/"+name+".html",
		))
	}
}

// Render executes a page template and writes it with the given status.
// Rendering happens into a buffer so a template error never leaves a
// half-written page.
func Render(w http.ResponseWriter, status int, name string, p Page) {
	tmpl, ok := pages[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		slog.Error("failed to render template", "name", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write page", "name", name, "error", err)
	}
}

// RenderError renders the generic error page for status.
func RenderError(w http.ResponseWriter, viewer models.Identity, status int) {
	Render(w, status, Error, Page{
		Title:   http.StatusText(status),
		Viewer:  viewer,
		Message: http.StatusText(status),
	})
}

func isAdmin(id models.Identity) bool {
	_, ok := id.(models.Admin)
	return ok
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	}
	return time.Time{}, false
}

func formatTime(v any) string {
	t, ok := toTime(v)
	if !ok {
		return "not set"
	}
	return t.Local().Format("Mon, 02 Jan 2006 15:04 MST")
}

func humanTime(v any) string {
	t, ok := toTime(v)
	if !ok {
		return "never"
	}
	return humanize.Time(t)
}

func percent(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return humanize.FormatFloat("#.#", float64(part)*100/float64(total)) + "%"
}
