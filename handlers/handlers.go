// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/views"
)

// internalError logs a storage or rendering failure and answers with the
// 500 page.
func internalError(w http.ResponseWriter, viewer models.Identity, msg string, err error) {
	slog.Error(msg, "error", err)
	views.RenderError(w, viewer, http.StatusInternalServerError)
}

func seeOther(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// formValue returns a trimmed field from the parsed POST body
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}
