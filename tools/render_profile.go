package main

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"cv-smart/internal/domain"
)

// Renders templates/template.html with sample data so the layout can be
// iterated on without running the server or headless Chrome.
func main() {
	tplPath := filepath.Join("templates", "template.html")
	tpl, err := template.ParseFiles(tplPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse tpl: %v\n", err)
		os.Exit(2)
	}

	data := map[string]interface{}{
		"Personal": domain.PersonalInfo{
			FullName:    "Maria Fernanda dos Santos",
			Address:     "Luanda, Angola",
			Phone:       "+244 923 000 000",
			Email:       "maria.santos@example.com",
			Nationality: "Angolana",
			BirthDate:   "1992-04-17",
			LinkedIn:    "https://www.linkedin.com/in/maria-santos",
		},
		"Content": domain.LocalizedContent{
			Objective: "Profissional de logística com 8 anos de experiência em cadeias de abastecimento.",
			Skills:    []string{"Gestão de stocks", "SAP MM", "Negociação", "Liderança de equipas"},
			Education: []domain.EducationItem{
				{Course: "Licenciatura em Gestão", Institution: "Universidade Agostinho Neto", Year: "2014"},
			},
			Experience: []domain.ExperienceItem{
				{Role: "Coordenadora de Logística", Company: "TransAngola Lda", Period: "2018 - presente", Description: "Coordenação de frota e armazéns em três províncias."},
			},
			Certifications: []domain.EducationItem{
				{Course: "Certificação APICS CPIM", Institution: "APICS", Year: "2020"},
			},
		},
		"Labels": map[string]string{
			"Objective":      "Objetivo",
			"Skills":         "Competências",
			"Education":      "Formação Académica",
			"Experience":     "Experiência Profissional",
			"Certifications": "Certificações",
		},
	}

	outFile := filepath.Join(os.TempDir(), "cv_preview.html")
	f, err := os.Create(outFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create out: %v\n", err)
		os.Exit(2)
	}
	defer f.Close()
	if err := tpl.Execute(f, data); err != nil {
		fmt.Fprintf(os.Stderr, "execute tpl: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s\n", outFile)
}
