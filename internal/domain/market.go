package domain

// Market representa un mercado de predicción de Polymarket.
// A diferencia de los mercados binarios puros, Tokens puede tener 2..N
// entradas (una por outcome) en el orden que devuelve la plataforma.
type Market struct {
	ConditionID string
	Question    string
	Slug        string
	Tokens      []Token // orden de la plataforma; len==2 binario, >=3 multi-outcome
	Active      bool
	Volume      float64 // volumen en USDC
	EventSlug   string  // slug del evento padre, solo para reporting
}

// Token es un outcome del mercado, identificado por su token del CLOB.
type Token struct {
	TokenID string
	Outcome string // "Yes" | "No" | nombre del outcome en mercados multi
}

// IsBinary devuelve true si el mercado tiene exactamente 2 outcomes.
func (m Market) IsBinary() bool {
	return len(m.Tokens) == 2
}

// IsMultiOutcome devuelve true si el mercado tiene 3 o más outcomes.
func (m Market) IsMultiOutcome() bool {
	return len(m.Tokens) >= 3
}

// TokenIDs devuelve los token IDs del mercado en orden de plataforma.
func (m Market) TokenIDs() []string {
	ids := make([]string, 0, len(m.Tokens))
	for _, t := range m.Tokens {
		if t.TokenID != "" {
			ids = append(ids, t.TokenID)
		}
	}
	return ids
}

// TruncateQuestion devuelve la pregunta truncada a maxLen caracteres.
// Si la pregunta está vacía usa los primeros caracteres del conditionID.
func TruncateQuestion(question, conditionID string, maxLen int) string {
	q := question
	if q == "" {
		if len(conditionID) > 20 {
			q = conditionID[:20] + "..."
		} else {
			q = conditionID
		}
	}
	if len(q) > maxLen {
		q = q[:maxLen-3] + "..."
	}
	return q
}
