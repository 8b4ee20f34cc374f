package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"rent-dashboard/models"
	"rent-dashboard/services"
)

var templateFuncs = template.FuncMap{
	"has": func(set []string, v string) bool {
		for _, s := range set {
			if s == v {
				return true
			}
		}
		return false
	},
	"money": func(v float64) string {
		return brl(v)
	},
}

// brl formats v as whole reais with dot thousands separators, e.g. "R$ 3.300".
func brl(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "R$ -" + b.String()
	}
	return "R$ " + b.String()
}

type pageData struct {
	View      *models.View
	// Query is the encoded criteria, trusted as URL text.
	Query     template.URL
	Submitted bool
	Rows      []models.Listing
	Truncated bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	c, ok := criteria(w, r)
	if !ok {
		return
	}

	view := s.dash.Handle(c)
	data := pageData{
		View:      view,
		Query:     template.URL(services.Values(c).Encode()),
		Submitted: r.URL.Query().Get(services.ParamSubmitted) != "",
		Rows:      view.Listings,
	}
	if len(data.Rows) > s.opts.MaxTableRows {
		data.Rows = data.Rows[:s.opts.MaxTableRows]
		data.Truncated = true
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		s.logger.Error("[http] render dashboard: %v", err)
	}
}
