package script

// Speaker identifies which persona voices a segment.
type Speaker string

const (
	SpeakerTwin          Speaker = "twin"
	SpeakerCEO           Speaker = "ceo"
	SpeakerVPSales       Speaker = "vp_sales"
	SpeakerVPEngineering Speaker = "vp_engineering"
)

// knownSpeakers is the closed set accepted by demo files. Adding a persona
// means adding a constant here and a label below.
var knownSpeakers = map[Speaker]bool{
	SpeakerTwin:          true,
	SpeakerCEO:           true,
	SpeakerVPSales:       true,
	SpeakerVPEngineering: true,
}

var speakerLabels = map[Speaker]string{
	SpeakerTwin:          "Digital Twin",
	SpeakerCEO:           "CEO",
	SpeakerVPSales:       "VP Sales",
	SpeakerVPEngineering: "VP Engineering",
}

// Valid reports whether the speaker is part of the authored persona set.
func (s Speaker) Valid() bool {
	return knownSpeakers[s]
}

// Label returns the human-readable role name shown in view shells.
func (s Speaker) Label() string {
	if label, ok := speakerLabels[s]; ok {
		return label
	}
	return string(s)
}
