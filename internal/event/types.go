package event

// QuadClass is the CAMEO quad classification of an event.
type QuadClass int

const (
	VerbalCooperation   QuadClass = 1
	MaterialCooperation QuadClass = 2
	VerbalConflict      QuadClass = 3
	MaterialConflict    QuadClass = 4
)

const (
	MinGoldstein = -10.0
	MaxGoldstein = 10.0
)

// Event is one geocoded record of the events feed. It is never mutated after decoding.
type Event struct {
	Source           string      `json:"source"`
	GoldsteinScore   float64     `json:"goldsteinscore" validate:"gte=-10,lte=10"`
	QuadClass        QuadClass   `json:"quadclass" validate:"gte=1,lte=4"`
	FullName         string      `json:"fullname"`
	CountryCode      string      `json:"countryCode"`
	ActorCountryCode *string     `json:"actorCountryCode"`
	ActorFilter      *string     `json:"actorFilter"`
	Coordinates      *[2]float64 `json:"coordinates"`
	TimeAgo          string      `json:"time_ago"`
}

func (q QuadClass) Name() string {
	switch q {
	case VerbalCooperation:
		return "Verbal Cooperation"
	case MaterialCooperation:
		return "Material Cooperation"
	case VerbalConflict:
		return "Verbal Conflict"
	case MaterialConflict:
		return "Material Conflict"
	default:
		return "Unknown Event Type"
	}
}

func (q QuadClass) IsCooperation() bool { return q == VerbalCooperation || q == MaterialCooperation }
func (q QuadClass) IsConflict() bool    { return q == VerbalConflict || q == MaterialConflict }
func (q QuadClass) IsVerbal() bool      { return q == VerbalCooperation || q == VerbalConflict }
func (q QuadClass) IsMaterial() bool    { return q == MaterialCooperation || q == MaterialConflict }

// ActorCountry returns the actor country code or "" when absent.
func (e Event) ActorCountry() string {
	if e.ActorCountryCode == nil {
		return ""
	}
	return *e.ActorCountryCode
}

// ActorType returns the actor type code or "" when absent.
func (e Event) ActorType() string {
	if e.ActorFilter == nil {
		return ""
	}
	return *e.ActorFilter
}
