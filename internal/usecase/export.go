package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"cv-smart/internal/domain"
	"cv-smart/internal/logger"
)

// PDFRenderer turns a self-contained HTML document into PDF bytes.
type PDFRenderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// Exporter produces the downloadable resume PDF. Every export passes the
// payment gate first; the gate's decision is never cached across requests.
type Exporter struct {
	gate     *ExportGate
	renderer PDFRenderer
	store    ObjectStore
	tpl      *template.Template
	logger   *logger.Logger
}

func NewExporter(gate *ExportGate, renderer PDFRenderer, store ObjectStore, templateDir string, log *logger.Logger) (*Exporter, error) {
	tpl, err := template.ParseFiles(filepath.Join(templateDir, "template.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse resume template: %w", err)
	}
	return &Exporter{gate: gate, renderer: renderer, store: store, tpl: tpl, logger: log}, nil
}

type exportLabels struct {
	Objective      string
	Skills         string
	Education      string
	Experience     string
	Certifications string
}

func labelsFor(lang domain.Language) exportLabels {
	if lang == domain.LanguageEN {
		return exportLabels{
			Objective:      "Objective",
			Skills:         "Skills",
			Education:      "Education",
			Experience:     "Professional Experience",
			Certifications: "Certifications",
		}
	}
	return exportLabels{
		Objective:      "Objetivo",
		Skills:         "Competências",
		Education:      "Formação Académica",
		Experience:     "Experiência Profissional",
		Certifications: "Certificações",
	}
}

type exportPage struct {
	Personal domain.PersonalInfo
	Content  domain.LocalizedContent
	Labels   exportLabels
}

// ExportResume renders the selected language variant to PDF and returns the
// bytes plus the public URL the archived copy will be reachable under.
// Returns ErrForbidden when the payment gate is locked and
// ErrPaymentIndeterminate when the gate could not decide.
func (e *Exporter) ExportResume(ctx context.Context, identity domain.Identity, cv domain.CVData, lang domain.Language) ([]byte, string, error) {
	decision, err := e.gate.Check(ctx, identity)
	if err != nil {
		return nil, "", err
	}
	if !decision.Allowed {
		return nil, "", domain.ErrForbidden
	}

	var buf bytes.Buffer
	page := exportPage{
		Personal: cv.Personal,
		Content:  cv.Content(lang),
		Labels:   labelsFor(lang),
	}
	if err := e.tpl.Execute(&buf, page); err != nil {
		return nil, "", fmt.Errorf("failed to render resume html: %w", err)
	}

	pdf, err := e.renderWithRetry(ctx, buf.String())
	if err != nil {
		return nil, "", err
	}

	key := e.archiveAsync(identity, lang, pdf)
	return pdf, e.store.PublicURL(key), nil
}

// renderWithRetry runs the renderer up to three times. Headless Chrome
// occasionally emits a truncated or empty document, so every result is
// checked for the PDF magic bytes before being trusted.
func (e *Exporter) renderWithRetry(ctx context.Context, html string) ([]byte, error) {
	attempts := 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		pdf, err := e.renderer.RenderHTMLToPDF(ctx, html)
		if err == nil && bytes.HasPrefix(pdf, []byte("%PDF")) {
			return pdf, nil
		}
		if err == nil {
			err = fmt.Errorf("renderer produced invalid pdf output")
		}
		lastErr = err
		e.logger.Warn("pdf render attempt failed", "attempt", i+1, "error", err)
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("pdf rendering failed after %d attempts: %w", attempts, lastErr)
}

// archiveAsync keeps a copy of the exported file in object storage and
// returns its key. Archival failures only get logged; the user already has
// the bytes.
func (e *Exporter) archiveAsync(identity domain.Identity, lang domain.Language, pdf []byte) string {
	owner := identity.Key()
	name := fmt.Sprintf("resume-%s-%d.pdf", strings.ToLower(string(lang)), time.Now().Unix())
	key := fmt.Sprintf("cv-exports/%s/%s", owner, name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := e.store.Upload(ctx, key, pdf, "application/pdf"); err != nil {
			e.logger.Warn("export archive upload failed", "owner", owner, "key", key, "error", err)
		}
	}()
	return key
}
