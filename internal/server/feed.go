package server

import (
	"encoding/xml"
	"net/http"
	"path"
	"time"

	"ednaviz/internal/logger"
)

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type atomEntry struct {
	ID      string     `xml:"id"`
	Title   string     `xml:"title"`
	Updated string     `xml:"updated"`
	Links   []atomLink `xml:"link"`
	Summary string     `xml:"summary,omitempty"`
}

type atomFeed struct {
	XMLName xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	ID      string      `xml:"id"`
	Title   string      `xml:"title"`
	Updated string      `xml:"updated"`
	Link    atomLink    `xml:"link"`
	Entries []atomEntry `xml:"entry"`
}

// HandleExportFeed publishes recent exports as an Atom feed. Each entry
// links to the files of one export.
func (s *Server) HandleExportFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	folders, err := s.Exporter.ListExports(ctx, 20)
	if err != nil {
		s.log.Error("failed to list exports", err)
		http.Error(w, "Failed to list exports", http.StatusInternalServerError)
		return
	}

	feed := atomFeed{
		ID:      "urn:ednaviz:exports",
		Title:   "eDNA chart exports",
		Updated: time.Now().UTC().Format(time.RFC3339),
		Link:    atomLink{Href: "/exports.atom", Rel: "self"},
	}
	for _, folder := range folders {
		m, err := s.Exporter.LoadManifest(ctx, folder)
		if err != nil {
			s.log.Warn("skipping export without readable manifest", logger.Fields{"folder": folder, "error": err.Error()})
			continue
		}
		entry := atomEntry{
			ID:      "urn:ednaviz:export:" + path.Base(folder),
			Title:   path.Base(folder),
			Updated: m.GeneratedAt.UTC().Format(time.RFC3339),
			Summary: "version " + m.Version,
		}
		for _, a := range m.Artifacts {
			entry.Links = append(entry.Links, atomLink{Href: "/files/" + a.Path, Rel: "enclosure", Type: a.ContentType})
		}
		feed.Entries = append(feed.Entries, entry)
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(feed); err != nil {
		s.log.Error("failed to encode feed", err)
	}
}
