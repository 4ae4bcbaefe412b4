package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-smart/internal/domain"
	"cv-smart/internal/logger"
)

type fakeRenderer struct {
	outputs [][]byte
	errs    []error
	calls   int
}

func (f *fakeRenderer) RenderHTMLToPDF(context.Context, string) ([]byte, error) {
	i := f.calls
	f.calls++
	var out []byte
	var err error
	if i < len(f.outputs) {
		out = f.outputs[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return out, err
}

func writeTestTemplate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	tpl := `<html><body><h1>{{.Personal.FullName}}</h1><p>{{.Labels.Objective}}: {{.Content.Objective}}</p></body></html>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "template.html"), []byte(tpl), 0o644))
	return dir
}

func exportableCV() domain.CVData {
	return domain.CVData{
		Personal: contactedPersonal(),
		PT:       domain.LocalizedContent{Objective: "Objetivo", Skills: []string{"Go"}},
		EN:       domain.LocalizedContent{Objective: "Objective", Skills: []string{"Go"}},
	}
}

func TestExportResume(t *testing.T) {
	member := domain.Identity{ID: domain.NewGuest().ID, Email: "maria@example.com", Role: domain.RoleMember}
	pdf := []byte("%PDF-1.4 fake")

	newExporter := func(t *testing.T, payments *fakePayments, renderer *fakeRenderer, store *fakeObjectStore) *Exporter {
		gate := NewExportGate(payments, checkoutBase, logger.NewDiscard())
		e, err := NewExporter(gate, renderer, store, writeTestTemplate(t), logger.NewDiscard())
		require.NoError(t, err)
		return e
	}

	t.Run("renders and archives for a paid member", func(t *testing.T) {
		payments := newFakePayments()
		payments.records[member.Key()] = domain.PaymentRecord{Status: domain.PaymentStatusPaid}
		store := newFakeObjectStore()
		e := newExporter(t, payments, &fakeRenderer{outputs: [][]byte{pdf}}, store)

		got, archiveURL, err := e.ExportResume(context.Background(), member, exportableCV(), domain.LanguagePT)

		require.NoError(t, err)
		assert.Equal(t, pdf, got)
		assert.True(t, waitFor(func() bool {
			store.mu.Lock()
			defer store.mu.Unlock()
			return len(store.objects) == 1
		}))

		store.mu.Lock()
		for key := range store.objects {
			assert.Equal(t, store.PublicURL(key), archiveURL)
		}
		store.mu.Unlock()
	})

	t.Run("locked gate is forbidden", func(t *testing.T) {
		renderer := &fakeRenderer{outputs: [][]byte{pdf}}
		e := newExporter(t, newFakePayments(), renderer, newFakeObjectStore())

		_, _, err := e.ExportResume(context.Background(), member, exportableCV(), domain.LanguagePT)

		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Zero(t, renderer.calls)
	})

	t.Run("indeterminate payment fails closed", func(t *testing.T) {
		payments := newFakePayments()
		payments.getErr = errBoom
		renderer := &fakeRenderer{outputs: [][]byte{pdf}}
		e := newExporter(t, payments, renderer, newFakeObjectStore())

		_, _, err := e.ExportResume(context.Background(), member, exportableCV(), domain.LanguagePT)

		assert.ErrorIs(t, err, domain.ErrPaymentIndeterminate)
		assert.Zero(t, renderer.calls)
	})

	t.Run("invalid pdf output is retried", func(t *testing.T) {
		payments := newFakePayments()
		payments.records[member.Key()] = domain.PaymentRecord{AdminApproved: true}
		renderer := &fakeRenderer{outputs: [][]byte{[]byte("<html>not a pdf"), pdf}}
		e := newExporter(t, payments, renderer, newFakeObjectStore())

		got, _, err := e.ExportResume(context.Background(), member, exportableCV(), domain.LanguageEN)

		require.NoError(t, err)
		assert.Equal(t, pdf, got)
		assert.Equal(t, 2, renderer.calls)
	})

	t.Run("cancelled context stops the retries", func(t *testing.T) {
		payments := newFakePayments()
		payments.records[member.Key()] = domain.PaymentRecord{Status: domain.PaymentStatusPaid}
		renderer := &fakeRenderer{errs: []error{errBoom, errBoom, errBoom}}
		e := newExporter(t, payments, renderer, newFakeObjectStore())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := e.ExportResume(ctx, member, exportableCV(), domain.LanguagePT)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
