package indiwaremobil

// Raw representation of the Indiware Mobil XML schema ("VpMobil" documents).
// Element names follow the provider's German tag names.

type Kopf struct {
	PlanArt      string `xml:"planart"`
	Zeitstempel  string `xml:"zeitstempel"`
	DatumPlan    string `xml:"DatumPlan"`
	Datei        string `xml:"datei"`
	Woche        string `xml:"woche"`
	TageProWoche string `xml:"tageprowoche"`
	Schulnummer  string `xml:"schulnummer"`
}

type FreieTage struct {
	Tage []string `xml:"ft"`
}

type ZusatzInfo struct {
	Zeilen []string `xml:"ZiZeile"`
}

type Klasse struct {
	Kurz string `xml:"Kurz"`
	Hash string `xml:"Hash"`

	Stunden    []KlStunde   `xml:"KlStunden>KlSt"`
	Kurse      []Kurs       `xml:"Kurse>Ku>KKz"`
	Unterricht []Unterricht `xml:"Unterricht>Ue>UeNr"`
	Plan       []Std        `xml:"Pl>Std"`
	Klausuren  []Klausur    `xml:"Klausuren>Klausur"`
	Aufsichten []Aufsicht   `xml:"Aufsichten>Aufsicht"`
}

type KlStunde struct {
	ZeitVon string `xml:"ZeitVon,attr"`
	ZeitBis string `xml:"ZeitBis,attr"`
	Stunde  string `xml:",chardata"`
}

type Kurs struct {
	KLe  string `xml:"KLe,attr"`
	Name string `xml:",chardata"`
}

type Unterricht struct {
	UeLe   string `xml:"UeLe,attr"`
	UeFa   string `xml:"UeFa,attr"`
	UeGr   string `xml:"UeGr,attr"`
	Nummer string `xml:",chardata"`
}

type Std struct {
	St     string `xml:"St"`
	Beginn string `xml:"Beginn"`
	Ende   string `xml:"Ende"`

	Fa Changeable `xml:"Fa"`
	Le Changeable `xml:"Le"`
	Ra Changeable `xml:"Ra"`

	Ku2 string `xml:"Ku2"`
	Nr  string `xml:"Nr"`
	If  string `xml:"If"`
}

// Changeable is a plan value whose element carries a change marker attribute
// when it differs from the regular timetable ("FaGeaendert" etc). The
// marker attribute name depends on the element, so all three are declared.
type Changeable struct {
	Value string `xml:",chardata"`

	FaAe string `xml:"FaAe,attr"`
	LeAe string `xml:"LeAe,attr"`
	RaAe string `xml:"RaAe,attr"`
}

func (c Changeable) Changed() bool {
	return c.FaAe != "" || c.LeAe != "" || c.RaAe != ""
}

type Klausur struct {
	Jahrgang   string `xml:"KlJahrgang"`
	Kurs       string `xml:"KlKurs"`
	Kursleiter string `xml:"KlKursleiter"`
	Stunde     string `xml:"KlStunde"`
	Beginn     string `xml:"KlBeginn"`
	Dauer      string `xml:"KlDauer"`
	Kinfo      string `xml:"KlKinfo"`
}

type Aufsicht struct {
	AuAe string `xml:"AuAe,attr"`

	Tag       string `xml:"AuTag"`
	VorStunde string `xml:"AuVorStunde"`
	Uhrzeit   string `xml:"AuUhrzeit"`
	Zeit      string `xml:"AuZeit"`
	Ort       string `xml:"AuOrt"`
	Fuer      string `xml:"AuFuer"`
	Info      string `xml:"AuInfo"`
}
