package auth

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
)

// The authorize screen is the hub's stand-in for a hosted login page:
// it signs the user in (or registers them) and bounces back to the app
// with a one-time code, which the app's callback exchanges for tokens.

var formTemplate = template.Must(template.New("authorize").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>markd hub sign in</title>
<style>body{font-family:sans-serif;max-width:360px;margin:4rem auto}label{display:block;margin:0.5rem 0}.error{color:#b00}</style>
</head>
<body>
  <h1>Sign in</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <form method="post" action="/auth/v1/authorize">
    <input type="hidden" name="redirect_uri" value="{{.RedirectURI}}">
    <input type="hidden" name="next" value="{{.Next}}">
    <label>Email <input name="email" type="email" required></label>
    <label>Password <input name="password" type="password" required></label>
    <label>Full name (new accounts) <input name="full_name" type="text"></label>
    <label><input name="register" type="checkbox"> Create account</label>
    <button type="submit">Continue</button>
  </form>
</body>
</html>`))

type formData struct {
	RedirectURI string
	Next        string
	Error       string
}

// AuthorizeForm renders the sign-in form.
func (h *Handler) AuthorizeForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, formData{
		RedirectURI: r.URL.Query().Get("redirect_uri"),
		Next:        r.URL.Query().Get("next"),
	})
}

// Authorize handles the form submission: it verifies (or creates) the
// account, mints a one-time code and redirects back to the app.
func (h *Handler) Authorize(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	data := formData{
		RedirectURI: r.PostFormValue("redirect_uri"),
		Next:        r.PostFormValue("next"),
	}
	if data.RedirectURI == "" {
		http.Error(w, "redirect_uri is required", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	var userID string
	if r.PostFormValue("register") != "" {
		u, err := h.users.Register(r.Context(), email, password, r.PostFormValue("full_name"))
		if err != nil {
			data.Error = err.Error()
			h.renderForm(w, data)
			return
		}
		userID = u.ID
	} else {
		u, err := h.users.Authenticate(r.Context(), email, password)
		if err != nil {
			data.Error = "Wrong email or password."
			h.renderForm(w, data)
			return
		}
		userID = u.ID
	}

	code, err := h.sessions.IssueCode(r.Context(), userID, data.RedirectURI)
	if err != nil {
		h.log.Error("issue code failed", slog.String("error", err.Error()))
		data.Error = "Something went wrong. Try again."
		h.renderForm(w, data)
		return
	}

	params := url.Values{"code": {code}}
	if data.Next != "" {
		params.Set("next", data.Next)
	}
	http.Redirect(w, r, data.RedirectURI+"?"+params.Encode(), http.StatusFound)
}

func (h *Handler) renderForm(w http.ResponseWriter, data formData) {
	if err := formTemplate.Execute(w, data); err != nil {
		h.log.Error("authorize render failed", slog.String("error", err.Error()))
	}
}
