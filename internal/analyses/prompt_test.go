package analyses

import (
	"strings"
	"testing"
)

func TestComposePromptDeterministic(t *testing.T) {
	patient := PatientContext{Edad: "74", Sexo: "Mujer", Diabetico: "Sí"}

	first := ComposePrompt(patient)
	second := ComposePrompt(patient)

	if first != second {
		t.Fatalf("expected byte-identical prompts for identical context")
	}
}

func TestComposePromptAppliesDefaults(t *testing.T) {
	prompt := ComposePrompt(PatientContext{})

	for _, want := range []string{
		"- Edad: No especificada",
		"- Sexo: No especificado",
		"- Patología Vascular: No",
		"- Patología Cardiaca: No",
		"- Diabético: No",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}
}

func TestComposePromptSubstitutesContext(t *testing.T) {
	prompt := ComposePrompt(PatientContext{
		Edad:      "74",
		Sexo:      "Mujer",
		Vascular:  "Sí",
		Cardiaca:  "No",
		Diabetico: "Sí",
	})

	if !strings.Contains(prompt, "- Edad: 74") {
		t.Fatalf("expected age in context block")
	}
	if !strings.Contains(prompt, "- Patología Vascular: Sí") {
		t.Fatalf("expected vascular flag in context block")
	}
}

func TestComposePromptQuotesEveryVocabularyTerm(t *testing.T) {
	prompt := ComposePrompt(PatientContext{})

	vocabularies := [][]string{
		EtiologyVocabulary,
		TissueVocabulary,
		ExudateVocabulary,
		PeriwoundSkinVocabulary,
		InfectionSignsVocabulary,
		PrimaryDressingVocabulary,
		DressingObjectiveVocabulary,
	}
	for _, vocabulary := range vocabularies {
		for _, term := range vocabulary {
			if !strings.Contains(prompt, `"`+term+`"`) {
				t.Fatalf("expected prompt to quote vocabulary term %q", term)
			}
		}
	}
}
