package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"expired-listings/models"
	"expired-listings/services"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"dollars": func(v float64) string { return "$" + humanize.Comma(int64(math.Round(v))) },
}).ParseFS(templateFS, "templates/report.html"))

// Document is the printable summary of one filtered run.
type Document struct {
	Title       string
	RunID       string
	GeneratedAt time.Time
	View        *services.ResultView
}

// Columns is the table header of the report.
func (Document) Columns() []string {
	return models.DisplayColumns
}

// RenderHTML writes doc as a standalone HTML page.
func RenderHTML(w io.Writer, doc *Document) error {
	if doc.Title == "" {
		doc.Title = "Expired Listings"
	}
	if err := reportTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("report: render html: %w", err)
	}
	return nil
}

// RenderHTMLBytes is RenderHTML into memory.
func RenderHTMLBytes(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
