package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"cv-smart/internal/domain"
	"cv-smart/pkg/ai"
)

// In-memory fakes shared by the usecase tests.

type fakeCVStore struct {
	mu    sync.Mutex
	cvs   map[string]domain.CVData
	saves int

	saveErr error
	getErr  error
}

func newFakeCVStore() *fakeCVStore {
	return &fakeCVStore{cvs: map[string]domain.CVData{}}
}

func (f *fakeCVStore) Save(_ context.Context, ownerKey string, cv domain.CVData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.cvs[ownerKey] = cv
	return nil
}

func (f *fakeCVStore) Get(_ context.Context, ownerKey string) (domain.CVData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.CVData{}, f.getErr
	}
	cv, ok := f.cvs[ownerKey]
	if !ok {
		return domain.CVData{}, domain.ErrNotFound
	}
	return cv, nil
}

type fakeExtractor struct {
	personal    domain.PersonalInfo
	personalErr error

	docs    ai.ExtractedDocuments
	docsErr error

	extractCalls  int
	documentCalls int
}

func (f *fakeExtractor) ExtractPersonalInfo(context.Context, []domain.File) (domain.PersonalInfo, error) {
	f.extractCalls++
	return f.personal, f.personalErr
}

func (f *fakeExtractor) ExtractDocuments(context.Context, []domain.File) (ai.ExtractedDocuments, error) {
	f.documentCalls++
	return f.docs, f.docsErr
}

type fakeGenerator struct {
	resume    map[string]interface{}
	resumeErr error

	text    string
	textErr error
}

func (f *fakeGenerator) GenerateResume(context.Context, ai.ResumeFacts) (map[string]interface{}, error) {
	return f.resume, f.resumeErr
}

func (f *fakeGenerator) GenerateText(context.Context, string) (string, error) {
	return f.text, f.textErr
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string

	uploadErr error
	deleteErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) PublicURL(key string) string {
	return "http://storage.local/uploads/" + key
}

type fakeDocumentRecorder struct {
	mu      sync.Mutex
	records []domain.DocumentRecord

	insertErr error
}

func (f *fakeDocumentRecorder) Insert(_ context.Context, d domain.DocumentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, d)
	return nil
}

func (f *fakeDocumentRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakePayments struct {
	records map[string]domain.PaymentRecord

	getErr error
}

func newFakePayments() *fakePayments {
	return &fakePayments{records: map[string]domain.PaymentRecord{}}
}

func (f *fakePayments) Get(_ context.Context, ownerKey string) (domain.PaymentRecord, error) {
	if f.getErr != nil {
		return domain.PaymentRecord{}, f.getErr
	}
	rec, ok := f.records[ownerKey]
	if !ok {
		return domain.PaymentRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

var errBoom = errors.New("boom")

func validResumeMap() map[string]interface{} {
	variant := func(objective string) map[string]interface{} {
		return map[string]interface{}{
			"objective": objective,
			"skills":    []interface{}{"Go", "SQL"},
			"education": []interface{}{
				map[string]interface{}{"course": "Gestão", "institution": "UAN", "year": "2014"},
			},
			"experience": []interface{}{
				map[string]interface{}{"role": "Analista", "company": "TransAngola", "period": "2018-2024", "description": "Operações"},
			},
		}
	}
	return map[string]interface{}{
		"pt": variant("Objetivo forte"),
		"en": variant("Strong objective"),
	}
}

func contactedPersonal() domain.PersonalInfo {
	return domain.PersonalInfo{
		FullName: "Maria Santos",
		Phone:    "+244 923 000 000",
		Email:    "maria@example.com",
	}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
