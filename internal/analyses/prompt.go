package analyses

import (
	"fmt"
	"strings"
)

const (
	promptHeader = `Actúa como enfermera experta en heridas. Analiza la imagen y devuelve un JSON.
Debes elegir la opción que mejor encaje de las listas EXACTAS para los campos de selección.

IMPORTANTE:
Se te proporcionará contexto del paciente (Edad, Diabetes, etc.). USA ESE CONTEXTO para personalizar el campo "recomendaciones_cuidados".
Por ejemplo, si es diabético, enfócate en control glucémico y descargas. Si tiene patología vascular, adapta el vendaje, etc.

Listas EXACTAS:`

	promptFooter = `El campo "recomendaciones_cuidados" debe ser un texto breve (string) con saltos de línea o guiones.
Responde SOLO con el JSON válido.`
)

// basePrompt is assembled once from the shared vocabularies so the
// instruction text can never drift from the normalizer's accepted sets.
var basePrompt = buildBasePrompt()

func buildBasePrompt() string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n")
	writeVocabulary(&b, "etiologia_probable", EtiologyVocabulary)
	writeVocabulary(&b, "tejido_predominante", TissueVocabulary)
	writeVocabulary(&b, "nivel_exudado", ExudateVocabulary)
	writeVocabulary(&b, "piel_perilesional", PeriwoundSkinVocabulary)
	writeVocabulary(&b, "signos_infeccion", InfectionSignsVocabulary)
	writeVocabulary(&b, "aposito_primario", PrimaryDressingVocabulary)
	writeVocabulary(&b, "objetivo_aposito", DressingObjectiveVocabulary)
	b.WriteString("\n")
	b.WriteString(promptFooter)
	return b.String()
}

func writeVocabulary(b *strings.Builder, field string, values []string) {
	fmt.Fprintf(b, "- %s: [\n", field)
	for i, v := range values {
		b.WriteString(`"`)
		b.WriteString(v)
		b.WriteString(`"`)
		if i < len(values)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]\n")
}

// ComposePrompt builds the final instruction text for a provider from the
// base prompt plus the patient context block. Pure function: identical
// context yields byte-identical text.
func ComposePrompt(patient PatientContext) string {
	p := patient.withDefaults()
	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\nCONTEXTO DEL PACIENTE:\n")
	fmt.Fprintf(&b, "- Edad: %s\n", p.Edad)
	fmt.Fprintf(&b, "- Sexo: %s\n", p.Sexo)
	fmt.Fprintf(&b, "- Patología Vascular: %s\n", p.Vascular)
	fmt.Fprintf(&b, "- Patología Cardiaca: %s\n", p.Cardiaca)
	fmt.Fprintf(&b, "- Diabético: %s\n", p.Diabetico)
	return b.String()
}
