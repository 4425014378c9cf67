package vertretungsplan

// Raw representation of the Vertretungsplan XML schema ("VplanKl..." /
// "VplanLe..." files). Unlike Indiware Mobil this dialect uses lowercase
// element names throughout.

type Vplan struct {
	Kopf       Kopf     `xml:"kopf"`
	FreieTage  []string `xml:"freietage>ft"`
	Aktionen   []Aktion `xml:"haupt>aktion"`
	Klausuren  []Klausur `xml:"klausuren>klausur"`
	Aufsichten []AufsichtZeile `xml:"aufsichten>aufsichtzeile"`
	Fusszeilen []string `xml:"fuss>fusszeile>fusslinie"`
}

type Kopf struct {
	Datei      string `xml:"datei"`
	Titel      string `xml:"titel"`
	Schulname  string `xml:"schulname"`
	Datum      string `xml:"datum"`

	KopfInfo KopfInfo `xml:"kopfinfo"`
}

type KopfInfo struct {
	AbwesendLehrer  string `xml:"abwesendl"`
	AbwesendKlassen string `xml:"abwesendk"`
	AbwesendRaeume  string `xml:"abwesendr"`
	AenderungLehrer string `xml:"aenderungl"`
	AenderungKlassen string `xml:"aenderungk"`
}

type Aktion struct {
	Klasse string `xml:"klasse"`
	Stunde string `xml:"stunde"`

	Fach   Changeable `xml:"fach"`
	Lehrer Changeable `xml:"lehrer"`
	Raum   Changeable `xml:"raum"`

	// Teacher-view plans carry the substituted values separately, the
	// fach/lehrer/raum columns then hold the original values.
	VFach   *Changeable `xml:"vfach"`
	VLehrer *Changeable `xml:"vlehrer"`
	VRaum   *Changeable `xml:"vraum"`

	Info string `xml:"info"`
}

// Changeable is a plan value whose element is flagged with a marker
// attribute ("ae") when it differs from the regular timetable.
type Changeable struct {
	Value string `xml:",chardata"`

	FaGeaendert string `xml:"fageaendert,attr"`
	LeGeaendert string `xml:"legeaendert,attr"`
	RaGeaendert string `xml:"rageaendert,attr"`
}

func (c Changeable) Changed() bool {
	return c.FaGeaendert == "ae" || c.LeGeaendert == "ae" || c.RaGeaendert == "ae"
}

type Klausur struct {
	Jahrgang   string `xml:"jahrgang"`
	Kurs       string `xml:"kurs"`
	Kursleiter string `xml:"kursleiter"`
	Stunde     string `xml:"stunde"`
	Beginn     string `xml:"beginn"`
	Dauer      string `xml:"dauer"`
	Kinfo      string `xml:"kinfo"`
}

type AufsichtZeile struct {
	Info string `xml:"aufsichtinfo"`
}
