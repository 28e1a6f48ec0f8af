package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"go-scripts-app/internal/service"
)

const sitemapDateFormat = "2006-01-02"

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	scripts service.ScriptServicer
	baseURL string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the externally visible
// origin, without a trailing slash.
func NewSeoHandler(s service.ScriptServicer, baseURL string) *SeoHandler {
	return &SeoHandler{scripts: s, baseURL: baseURL}
}

// robotsHandler serves a static robots.txt body.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Sitemap: "+h.baseURL+"/sitemap.xml")
}

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates a sitemap.xml over the public script URLs.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	scripts, err := h.scripts.ListScripts(r.Context())
	if err != nil {
		http.Error(w, "Failed to retrieve scripts for sitemap", http.StatusInternalServerError)
		return
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, len(scripts)),
	}
	for i, script := range scripts {
		sitemap.URLs[i] = sitemapURL{
			Loc:     h.baseURL + "/script/" + script.Slug,
			LastMod: script.UpdatedAt.Format(sitemapDateFormat),
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		http.Error(w, "Failed to generate sitemap XML", http.StatusInternalServerError)
		return
	}
}
