package catalog

// moduleDeliverables is the deliverable list of module 338 in catalog order.
var moduleDeliverables = []Deliverable{
	{ID: "DSC1", Title: "Persona & Empathy Map", Phase: PhaseDiscovery, Band: BandC, Description: "Definiert Zielgruppen und ihre Bedürfnisse."},
	{ID: "DSC2", Title: "Methode Placemat", Phase: PhaseDiscovery, Band: BandA, Description: "Erfasst Ausgangslage und Problemkontext."},
	{ID: "DSC3", Title: "Mind Map", Phase: PhaseDiscovery, Band: BandB, Description: "Sammelt und strukturiert Grundlagenwissen."},
	{ID: "DSC4", Title: "Ishikawa-Diagramm", Phase: PhaseDiscovery, Band: BandB, Description: "Identifiziert Ursachen und strukturiert das Problem."},
	{ID: "DSC5", Title: "Selbstanalyse", Phase: PhaseDiscovery, Band: BandA, Description: "Klärt Ausgangslage und eigenes Verständnis."},
	{ID: "DSC6", Title: "Umfeldanalyse", Phase: PhaseDiscovery, Band: BandB, Description: "Analysiert relevante Umweltfaktoren."},
	{ID: "DFN1", Title: "Problemstatement", Phase: PhaseDefine, Band: BandD, Description: "Leitet das Problem methodisch weiter."},
	{ID: "DFN2", Title: "Gedankenfelder", Phase: PhaseDefine, Band: BandE, Description: "Methode zur strukturierten Zielableitung."},
	{ID: "DFN3", Title: "SWOT-Matrix", Phase: PhaseDefine, Band: BandE, Description: "Bewertet Stärken, Schwächen, Chancen, Risiken."},
	{ID: "DFN4", Title: "Soll-Ist-Vergleich", Phase: PhaseDefine, Band: BandD, Description: "Gap-Analyse zur methodischen Planung."},
	{ID: "DFN5", Title: "Anforderungen formulieren", Phase: PhaseDefine, Band: BandD, Description: "Leitet klare Projektanforderungen ab."},
	{ID: "DEV1", Title: "Kopfstand-Methode", Phase: PhaseDevelopment, Band: BandF, Description: "Kreativitätstechnik zur Ideengenerierung."},
	{ID: "DEV2", Title: "Bodystorming", Phase: PhaseDevelopment, Band: BandF, Description: "Physische Ideation-Methode."},
	{ID: "DEV3", Title: "Crazy 8s Deluxe", Phase: PhaseDevelopment, Band: BandF, Description: "Schnelle Ideenproduktion."},
	{ID: "DEV4", Title: "Brainwriting Pool", Phase: PhaseDevelopment, Band: BandF, Description: "Kollaboratives Ideen-Sammeln."},
	{ID: "DEV5", Title: "6-3-5 Methode", Phase: PhaseDevelopment, Band: BandF, Description: "Systematisches Brainwriting."},
	{ID: "DEV6", Title: "Prototyp", Phase: PhaseDevelopment, Band: BandE, Description: "Erstellt einen funktionalen Prototyp."},
	{ID: "DLV1", Title: "Feuerwehr-Methode", Phase: PhaseDelivery, Band: BandG, Description: "Bewertung und Priorisierung von Lösungen."},
	{ID: "DLV2", Title: "Paarweiser Vergleich", Phase: PhaseDelivery, Band: BandG, Description: "Systematische Auswahl der besten Option."},
	{ID: "DLV3", Title: "Pitch Presentation", Phase: PhaseDelivery, Band: BandI, Description: "Kommuniziert und reflektiert die Lösung."},
	{ID: "DLV4", Title: "Documentation", Phase: PhaseDelivery, Band: BandI, Description: "Schriftliche Dokumentation und Reflexion."},
	{ID: "DLV5", Title: "Walt Disney Denkstühle", Phase: PhaseDelivery, Band: BandG, Description: "Perspektivenwechsel zur Bewertung."},
	{ID: "DLV6", Title: "Usertests", Phase: PhaseDelivery, Band: BandH, Description: "Messen der Wirkung und Nutzbarkeit."},
	{ID: "DLV7", Title: "Business Model Canvas", Phase: PhaseDelivery, Band: BandD, Description: "Strukturiert die Lösung auf Geschäftsmodellebene."},
}

// moduleSkillMatrix describes every band at the three skill levels.
var moduleSkillMatrix = map[Band]SkillMatrixEntry{
	BandA: {
		Name:         "Ausgangslage für die Lösungsfindung definieren",
		Beginner:     "Ich kann die Hauptaspekte der Ausgangsproblematik identifizieren.",
		Intermediate: "Ich kann anhand der Problemstellung die zu erreichenden Ziele für jede beteiligte Zielgruppe identifizieren.",
		Advanced:     "Ich kann eine umfassende Analyse der Ausganglage durchführen und mögliche Lösungsvarianten vorschlagen.",
	},
	BandB: {
		Name:         "Grundlagen für die Lösungsfindung schaffen",
		Beginner:     "Ich kann mögliche Ziele und Anforderungen als Grundlage für die Lösungsfindung definieren.",
		Intermediate: "Ich kann relevante Erfolgskriterien anhand der definierten Ziele und Anforderungen ableiten und analysieren.",
		Advanced:     "Ich kann die Erfolgskriterien korrekt bewerten und priorisieren.",
	},
	BandC: {
		Name:         "Zielgruppen definieren",
		Beginner:     "Ich kann die Zielgruppe grob definieren und grundlegende Bedürfnisse identifizieren.",
		Intermediate: "Ich kann die Zielgruppe detailliert segmentieren und spezifische Bedürfnisse herausarbeiten.",
		Advanced:     "Ich kann mögliche Vorgehen und Methoden auf Grund der relevanten Zielgruppen und deren spezifischen Bedürfnissen ableiten.",
	},
	BandD: {
		Name:         "Lösungsentwicklung methodisch aufgleisen und durchführen",
		Beginner:     "Ich kann ein einfaches Lösungkonzept entwickeln.",
		Intermediate: "Ich kann ein mehrphasiges Lösungskonzept entwickeln und die einzelnen Phasen im Detail ausarbeiten.",
		Advanced:     "Ich kann die einzelnen Teile der Lösungsentwicklung planen, deren Ziele definieren und methodisch vorbereiten und durchführen.",
	},
	BandE: {
		Name:         "Methoden für die Lösungsentwicklung anwenden",
		Beginner:     "Ich kann einfache Methoden zur Lösungsentwicklung anwenden.",
		Intermediate: "Ich kann verschiedene Methoden für die Entwicklung von Lösungen situativ passend anwenden.",
		Advanced:     "Ich kann Methoden für die Lösungsentwicklung kombinieren und für die einzelnen Phasen der Lösungsentwicklung gezielt einsetzen.",
	},
	BandF: {
		Name:         "Kreativitätstechniken anwenden",
		Beginner:     "Ich kann einfache Kreativitätstechniken anwenden.",
		Intermediate: "Ich kann unterschiedliche Kreativitätstechniken situativ passend anwenden.",
		Advanced:     "Ich kann passende Kreativitätstechniken in den einzelnen Phasen der Lösungsentwicklung gezielt anwenden.",
	},
	BandG: {
		Name:         "Lösungen anhand der Wirkung überprüfen",
		Beginner:     "Ich kann einfache Methoden zur Wirkungsüberprüfung anwenden.",
		Intermediate: "Ich kann verschiedene Methoden zur Wirkungsüberprüfung zielgerichtet anwenden (z.B. Umfragen, Retrospektiven, Messwerte, Prototyp, etc.)",
		Advanced:     "Ich kann die Ergebnisse aus der Überprüfung korrekt interpretieren und mögliche Verbesserungsmassnahmen ableiten.",
	},
	BandH: {
		Name:         "Erfolg messen",
		Beginner:     "Ich kann den Erfolg der Lösung anhand einfacher Kriterien messen.",
		Intermediate: "Ich kann eine detaillierte Messungen durchführen und den Erfolg bewerten.",
		Advanced:     "Ich kann anhand der definierten Messwerte die Qualität und den Erfüllungsgrad des erzielten Resultats beurteilen und darauf basierend mögliche Optimierungen (inhaltlich) ableiten.",
	},
	BandI: {
		Name:         "Ergebnisse dokumentieren und reflektieren",
		Beginner:     "Ich kann grundlegende Ergebnisse dokumentieren und einfache Reflexionen durchführen.",
		Intermediate: "Ich kann die Ergebnisse zielgruppengerecht und detailliert aufbereiten/dokumentieren, und kann diese zielgruppengerecht reflektieren.",
		Advanced:     "Ich kann die Ergebnisse richtig einschätzen und darauf basierend mögliche Optimierungsmassnahmen (methodisch) ableiten.",
	},
}
