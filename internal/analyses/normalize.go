package analyses

import (
	"encoding/json"
	"fmt"
	"strings"

	"wound-backend/internal/shared/metrics"
	"wound-backend/internal/shared/telemetry"
)

var requiredFields = []string{
	"etiologia_probable",
	"tejido_predominante",
	"nivel_exudado",
	"piel_perilesional",
	"signos_infeccion",
	"aposito_primario",
	"objetivo_aposito",
	"recomendaciones_cuidados",
}

// Normalize parses the provider's raw reply into a ClassificationResult. It
// strips any Markdown fences the provider may add and fails with
// ErrMalformedResponse when the text is not a JSON object or omits any of
// the eight expected keys. Missing keys are a defect to surface, never
// silently defaulted.
func Normalize(raw string) (ClassificationResult, error) {
	cleaned := stripWrapping(raw)
	if cleaned == "" {
		return ClassificationResult{}, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return ClassificationResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for _, key := range requiredFields {
		if _, ok := top[key]; !ok {
			return ClassificationResult{}, fmt.Errorf("%w: missing field %s", ErrMalformedResponse, key)
		}
	}

	var result ClassificationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return ClassificationResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	flagOutOfVocabulary(result)
	return result, nil
}

// stripWrapping removes code fences and any prose surrounding the JSON
// object body.
func stripWrapping(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}
	return cleaned
}

// flagOutOfVocabulary logs and counts categorical values outside the closed
// vocabularies. Drifted values are accepted, not rejected: losing a usable
// classification over wording drift is worse than recording the drift.
func flagOutOfVocabulary(result ClassificationResult) {
	checks := []struct {
		field string
		value string
		vocab []string
	}{
		{"etiologia_probable", result.Etiology, EtiologyVocabulary},
		{"tejido_predominante", result.Tissue, TissueVocabulary},
		{"nivel_exudado", result.Exudate, ExudateVocabulary},
		{"piel_perilesional", result.PeriwoundSkin, PeriwoundSkinVocabulary},
		{"signos_infeccion", result.InfectionSigns, InfectionSignsVocabulary},
		{"aposito_primario", result.PrimaryDressing, PrimaryDressingVocabulary},
		{"objetivo_aposito", result.DressingObjective, DressingObjectiveVocabulary},
	}
	for _, check := range checks {
		set := vocabularySet(check.vocab)
		if _, ok := set[check.value]; !ok {
			metrics.IncVocabularyFlag()
			telemetry.Warn("analysis.out_of_vocabulary", map[string]any{
				"field": check.field,
				"value": check.value,
			})
		}
	}
}
