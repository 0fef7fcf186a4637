package ai

import (
	"encoding/json"
	"strings"
)

const systemPrompt = `Du er en ekspert på bygginnredning og bærekraftig bygging i Norge.
Du jobber for Nordvest Bygginnredning i Ålesund og hjelper kunder med:
- Planlegging av byggprosjekter
- Bærekraftige løsninger
- Finansieringsmuligheter
- Tekniske råd og veiledning

Svar alltid på norsk og vær hjelpsom og profesjonell.`

const sustainabilityPrompt = `Analyser bærekraften til dette byggprosjektet og gi en score fra 1-100.

Prosjektdata: %s

Vurder følgende faktorer:
- Energieffektivitet
- Materialvalg
- Avfallshåndtering
- Lokale leverandører
- Levetid og vedlikehold

Svar KUN med gyldig JSON på dette formatet:
{
  "overall_score": 1-100,
  "analysis": "detaljert analyse på norsk",
  "recommendations": [
    {
      "category": "energy|materials|waste|water|local_supply|durability",
      "title": "kort tittel",
      "description": "konkret forbedringsforslag",
      "impact_score": 0-10,
      "cost_estimate": kostnad i NOK,
      "savings_estimate": årlig besparelse i NOK,
      "implementation_time": "f.eks. 2-4 uker",
      "priority": 1-5 (1 er mest presserende),
      "environmental_impact": "beskrivelse av miljøeffekt",
      "roi_months": tilbakebetalingstid i måneder,
      "certification_eligible": true|false
    }
  ]
}`

const financingPrompt = `Foreslå finansieringsmuligheter for dette norske byggprosjektet.

Prosjektdata: %s

Inkluder:
- Enova-støtte og tilskudd
- Grønne lån fra norske banker
- Kommunale ordninger
- Skattefradrag og incentiver
- Leasing og alternative finansieringsformer

Svar KUN med gyldig JSON på dette formatet:
{
  "analysis": "oppsummering på norsk",
  "total_potential_savings": samlet besparelse i NOK,
  "suggestions": [
    {
      "type": "green_loan|energy_efficiency|sustainability_grant|tax_incentive|business_loan",
      "title": "navn på ordningen",
      "description": "hva ordningen gir",
      "amount": beløp i NOK,
      "interest_rate": rente i prosent eller null,
      "term_months": løpetid i måneder,
      "requirements": ["krav"],
      "benefits": ["fordel"],
      "provider": "tilbyder",
      "application_url": "lenke til søknad",
      "eligibility_score": 0-100,
      "processing_time_days": behandlingstid i dager
    }
  ]
}`

const planPrompt = `Lag en detaljert prosjektplan for dette byggprosjektet i Norge.

Prosjektdata: %s

Planen skal følge norske byggeforskrifter (TEK17) og ta hensyn til lokale forhold i regionen.

Svar KUN med gyldig JSON på dette formatet:
{
  "phases": [
    {
      "name": "fasenavn",
      "description": "beskrivelse",
      "duration_weeks": antall uker,
      "estimated_cost": kostnad i NOK,
      "dependencies": ["faser som må være ferdige først"],
      "tasks": ["oppgave"]
    }
  ],
  "timeline": {
    "total_duration_weeks": antall uker,
    "milestones": [{"name": "milepæl", "week": uke, "description": "beskrivelse"}]
  },
  "risk_assessment": [
    {"risk": "risiko", "probability": "lav|middels|høy", "impact": "lav|middels|høy", "mitigation": "tiltak"}
  ],
  "compliance_checkpoints": [
    {"name": "kontrollpunkt", "phase": "fase", "requirement": "krav", "regulation": "forskrift"}
  ]
}`

// buildSystemPrompt appends the JSON-encoded context to the fixed role
// description. Nil or unencodable context is left out.
func buildSystemPrompt(projectCtx any) string {
	if projectCtx == nil {
		return systemPrompt
	}
	encoded, err := json.Marshal(projectCtx)
	if err != nil || string(encoded) == "null" || string(encoded) == "{}" {
		return systemPrompt
	}
	var b strings.Builder
	b.Grow(len(systemPrompt) + len(encoded) + 12)
	b.WriteString(systemPrompt)
	b.WriteString("\n\nKontekst: ")
	b.Write(encoded)
	return b.String()
}
