package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cv-smart/internal/domain"
	"cv-smart/internal/logger"
	"cv-smart/internal/model"
	"cv-smart/pkg/ai"
)

// Generator is the slice of the ai client composition needs.
type Generator interface {
	GenerateResume(ctx context.Context, facts ai.ResumeFacts) (map[string]interface{}, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Composer turns reviewed facts into the bilingual resume body and produces
// cover letters on demand.
type Composer struct {
	gen    Generator
	logger *logger.Logger
}

func NewComposer(gen Generator, log *logger.Logger) *Composer {
	return &Composer{gen: gen, logger: log}
}

// ComposeBilingualResume generates both language variants in one call and
// schema-validates the result. Either variant missing or empty fails the
// whole composition; a half-built resume never reaches the dashboard.
func (c *Composer) ComposeBilingualResume(ctx context.Context, personal domain.PersonalInfo, education []domain.EducationItem, experience []domain.ExperienceItem) (domain.CVData, error) {
	facts := ai.ResumeFacts{
		Personal:   personal,
		Education:  education,
		Experience: experience,
	}

	raw, err := c.gen.GenerateResume(ctx, facts)
	if err != nil {
		c.logger.Warn("compose: generation call failed", "error", err)
		return domain.CVData{}, fmt.Errorf("%w: %v", domain.ErrCompositionIncomplete, err)
	}
	if err := model.ValidateMap(raw); err != nil {
		c.logger.Warn("compose: generated content failed schema validation", "error", err)
		return domain.CVData{}, fmt.Errorf("%w: %v", domain.ErrCompositionIncomplete, err)
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return domain.CVData{}, fmt.Errorf("%w: %v", domain.ErrCompositionIncomplete, err)
	}
	var body struct {
		PT domain.LocalizedContent `json:"pt"`
		EN domain.LocalizedContent `json:"en"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return domain.CVData{}, fmt.Errorf("%w: %v", domain.ErrCompositionIncomplete, err)
	}
	if body.PT.Empty() || body.EN.Empty() {
		return domain.CVData{}, domain.ErrCompositionIncomplete
	}

	return domain.CVData{
		Personal: personal,
		PT:       body.PT,
		EN:       body.EN,
	}, nil
}

// ComposeCoverLetter writes a letter for one company/position pair in the
// requested language. Company and position are required inputs.
func (c *Composer) ComposeCoverLetter(ctx context.Context, cv domain.CVData, companyName, position string, lang domain.Language) (string, error) {
	companyName = strings.TrimSpace(companyName)
	position = strings.TrimSpace(position)
	if companyName == "" || position == "" {
		return "", domain.ErrValidationFailed
	}

	language := "Português"
	if lang == domain.LanguageEN {
		language = "English"
	}
	prompt := ai.CoverLetterPrompt(cv.Personal.FullName, companyName, position, language)

	text, err := c.gen.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompositionIncomplete, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrCompositionIncomplete
	}
	return text, nil
}
