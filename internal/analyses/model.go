package analyses

import (
	"strings"
	"time"
)

// Outcome tags recorded with every analysis.
const (
	OutcomeNormal  = "normal"
	OutcomeBlocked = "blocked"
)

// Patient-context defaults applied when a field is absent.
const (
	defaultEdad      = "No especificada"
	defaultSexo      = "No especificado"
	defaultCondicion = "No"
)

// PatientContext is the optional bag of clinical flags accompanying a
// request. All fields are free strings supplied by the caller.
type PatientContext struct {
	Edad      string `json:"edad"`
	Sexo      string `json:"sexo"`
	Vascular  string `json:"vascular"`
	Cardiaca  string `json:"cardiaca"`
	Diabetico string `json:"diabetico"`
}

func (p PatientContext) withDefaults() PatientContext {
	out := p
	if strings.TrimSpace(out.Edad) == "" {
		out.Edad = defaultEdad
	}
	if strings.TrimSpace(out.Sexo) == "" {
		out.Sexo = defaultSexo
	}
	if strings.TrimSpace(out.Vascular) == "" {
		out.Vascular = defaultCondicion
	}
	if strings.TrimSpace(out.Cardiaca) == "" {
		out.Cardiaca = defaultCondicion
	}
	if strings.TrimSpace(out.Diabetico) == "" {
		out.Diabetico = defaultCondicion
	}
	return out
}

// ClassificationResult is the canonical output of one pipeline run. All
// eight fields are always populated: either all from a successful
// classification or all from the blocked sentinel, never a mix.
type ClassificationResult struct {
	Etiology            string `json:"etiologia_probable"`
	Tissue              string `json:"tejido_predominante"`
	Exudate             string `json:"nivel_exudado"`
	PeriwoundSkin       string `json:"piel_perilesional"`
	InfectionSigns      string `json:"signos_infeccion"`
	PrimaryDressing     string `json:"aposito_primario"`
	DressingObjective   string `json:"objetivo_aposito"`
	CareRecommendations string `json:"recomendaciones_cuidados"`
}

// BlockedResult is the fixed sentinel substituted when a provider refuses a
// classification on content-policy grounds. The refusal is recorded as data
// so reviewers can see which images were refused instead of losing them.
func BlockedResult() ClassificationResult {
	return ClassificationResult{
		Etiology:            "BLOQUEADO POR FILTRO",
		Tissue:              "BLOQUEADO",
		Exudate:             "BLOQUEADO",
		PeriwoundSkin:       "BLOQUEADO",
		InfectionSigns:      "BLOQUEADO",
		PrimaryDressing:     "BLOQUEADO",
		DressingObjective:   "BLOQUEADO",
		CareRecommendations: "IA rechazó valorar la imagen por políticas de seguridad.",
	}
}

// Analysis is the stored history record for one classification.
type Analysis struct {
	ID                 string               `json:"id"`
	IdentificationCode string               `json:"identificationCode"`
	Provider           string               `json:"provider"`
	Model              string               `json:"model"`
	Outcome            string               `json:"outcome"`
	Result             ClassificationResult `json:"result"`
	SheetStatus        string               `json:"sheetStatus"`
	CreatedAt          time.Time            `json:"createdAt"`
}
