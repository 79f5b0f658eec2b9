package analyses

// The seven closed vocabularies a classification must draw from. These lists
// are quoted verbatim inside the prompt, so the provider's contract and the
// normalizer's flagging set share a single source. Do not edit one side
// without the other following automatically.
var (
	EtiologyVocabulary = []string{
		"Lesión por presión (LPP)",
		"Úlcera venosa (de extremidad inferior)",
		"Úlcera arterial / isquémica",
		"Úlcera de pie diabético (Neuropática/Neuroisquémica)",
		"Herida quirúrgica (Dehiscencia o cierre por segunda intención)",
		"Otro",
	}

	TissueVocabulary = []string{
		"Tejido necrótico",
		"Tejido esfacelado",
		"Tejido de granulación",
		"Tejido de epitelización",
		"Mezcla de tejidos (>50% sin predominio claro)",
	}

	ExudateVocabulary = []string{
		"Seco / No visible",
		"Húmedo óptimo",
		"Mojado / saturado",
		"Macerante",
	}

	PeriwoundSkinVocabulary = []string{
		"Sana / Intacta (Color y textura similar a la piel circundante normal)",
		"Macerada (Color blanquecino, aspecto húmedo y frágil por exceso de exudado)",
		"Eritematosa / Inflamada (Roja, con apariencia caliente o edematosa)",
		"Hiperqueratósica / Callosa (Bordes engrosados, duros y secos)",
	}

	InfectionSignsVocabulary = []string{
		"No se observan signos de infección",
		"Inflamación leve (eritema local)",
		"Sospecha de infección local",
		"Signos claros de infección local",
	}

	PrimaryDressingVocabulary = []string{
		"Ninguno (No aplicar apósito / Dejar al aire)",
		"Hidrogel (Gel o placa)",
		"Hidrocoloide",
		"Espuma de poliuretano (Foam)",
		"Alginato cálcico o Fibra gelificante (Hidrofibra)",
		"Apósito con Plata u otro antimicrobiano (Yodo, DACC, Miel)",
		"Malla de silicona o Tul graso (Interface neutra)",
	}

	DressingObjectiveVocabulary = []string{
		"Desbridar / Hidratar (Aportar humedad para ablandar necrosis seca; ej. Hidrogel)",
		"Gestionar exudado / Absorción (Controlar exceso de líquido; ej. Alginatos, Fibras, Espumas)",
		"Controlar carga bacteriana (Sospecha de infección local o biofilm; ej. Plata, DACC, Yodo)",
		"Proteger granulación / Epitelización (Mantener ambiente húmedo óptimo y evitar traumatismos)",
	}
)

func vocabularySet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
