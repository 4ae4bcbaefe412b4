package domain

import "time"

// PersonalInfo holds identity-document and contact fields. Phone and email
// are never supplied by document extraction and must be filled during review.
type PersonalInfo struct {
	FullName    string `json:"fullName"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Nationality string `json:"nationality"`
	IDNumber    string `json:"idNumber"`
	BirthDate   string `json:"birthDate"`
	LinkedIn    string `json:"linkedin,omitempty"`
}

// HasContact reports whether the mandatory contact fields are filled.
func (p PersonalInfo) HasContact() bool {
	return p.Phone != "" && p.Email != ""
}

type EducationItem struct {
	Course      string `json:"course"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Grade       string `json:"grade,omitempty"`
}

type ExperienceItem struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// LocalizedContent is one language variant of the generated resume body.
// Certifications are shape-compatible with education entries.
type LocalizedContent struct {
	Objective      string           `json:"objective"`
	Skills         []string         `json:"skills"`
	Education      []EducationItem  `json:"education"`
	Experience     []ExperienceItem `json:"experience"`
	Certifications []EducationItem  `json:"certifications"`
}

// Empty reports whether the variant carries no usable content.
func (c LocalizedContent) Empty() bool {
	return c.Objective == "" && len(c.Skills) == 0
}

// CVData is the aggregate root: one record per owner identity, upserted.
type CVData struct {
	ID        string           `json:"id,omitempty"`
	UserID    string           `json:"user_id,omitempty"`
	Personal  PersonalInfo     `json:"personal"`
	PT        LocalizedContent `json:"pt"`
	EN        LocalizedContent `json:"en"`
	UpdatedAt time.Time        `json:"updated_at,omitempty"`
}

// Content returns the variant for the given language, defaulting to PT.
func (cv CVData) Content(lang Language) LocalizedContent {
	if lang == LanguageEN {
		return cv.EN
	}
	return cv.PT
}

// Language of rendered output.
type Language string

const (
	LanguagePT Language = "PT"
	LanguageEN Language = "EN"
)

// ParseLanguage normalizes a client-supplied language tag.
func ParseLanguage(s string) Language {
	if s == "EN" || s == "en" {
		return LanguageEN
	}
	return LanguagePT
}
