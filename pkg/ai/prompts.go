package ai

// Prompts sent to the ai-service. Extraction prompts pin the exact field
// names the intake stages map from; the resume prompt demands strict JSON so
// the output can be schema-validated before use.

const personalInfoPrompt = `Analise as imagens do Bilhete de Identidade (BI). Extraia rigorosamente em JSON: fullName, address, nationality, idNumber, birthDate. Ignore campos de contacto se não estiverem no BI.
Return ONLY a single JSON object with those keys. Do NOT include explanatory text, backticks, or code fences.`

const documentsPrompt = `Extraia informações de educação e experiência profissional destes certificados e documentos.
Return ONLY a single JSON object shaped as:
{"education":[{"course":"","institution":"","year":""}],"experience":[{"role":"","company":"","period":"","description":""}]}
Omit nothing you can read; use empty arrays when a section has no entries. No commentary, no markdown, no code fences.`

const resumePrompt = `Atue como um Especialista em Recrutamento de Elite. Gere um currículo bilingue (PT e EN) de alto impacto.
Regras: Perfil objetivo forte, skills modernas e descrições de cargo expandidas com foco em resultados.
Return ONLY a single JSON object and NOTHING ELSE, shaped exactly as:
{"pt":{"objective":"","skills":[""],"education":[{"course":"","institution":"","year":""}],"experience":[{"role":"","company":"","period":"","description":""}],"certifications":[{"course":"","institution":"","year":""}]},"en":{...same shape...}}
Both language variants MUST be fully populated with the same underlying facts. No commentary, no markdown, no code fences.`

// CoverLetterPrompt builds the cover-letter request for one language.
func CoverLetterPrompt(fullName, companyName, position, language string) string {
	return "Escreva uma carta de apresentação profissional para " + fullName +
		" dirigida à empresa " + companyName +
		" para o cargo de " + position +
		". Idioma: " + language +
		". Seja persuasivo e formal. Retorne apenas o texto da carta."
}
