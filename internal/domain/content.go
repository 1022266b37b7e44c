package domain

// Kind names one of the content collections.
type Kind int

const (
	KindUnknown Kind = iota
	KindProperties
	KindPractice
	KindChallenge
)

// ParseKind maps the collection names used by admin tooling onto a Kind.
// Unrecognized names yield KindUnknown.
func ParseKind(raw string) Kind {
	switch raw {
	case "properties":
		return KindProperties
	case "practice":
		return KindPractice
	case "challenge":
		return KindChallenge
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindProperties:
		return "properties"
	case KindPractice:
		return "practice"
	case KindChallenge:
		return "challenge"
	default:
		return "unknown"
	}
}

// StorageKey is the durable storage key backing the collection.
func (k Kind) StorageKey() string {
	switch k {
	case KindProperties:
		return "properties"
	case KindPractice:
		return "practiceProblems"
	case KindChallenge:
		return "challengeQuestions"
	default:
		return ""
	}
}

// Kinds lists every known collection.
func Kinds() []Kind {
	return []Kind{KindProperties, KindPractice, KindChallenge}
}

// Item is any record held by a content collection.
type Item interface {
	ItemID() int
	Kind() Kind
}

// Property is a math property shown in lessons and used to build game decks.
type Property struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Formula     string `json:"formula"`
	Description string `json:"description"`
	Example     string `json:"example"`
	Icon        string `json:"icon"`
}

func (p Property) ItemID() int { return p.ID }
func (Property) Kind() Kind    { return KindProperties }

// PracticeProblem is a free-answer exercise tied to a property.
type PracticeProblem struct {
	ID       int    `json:"id"`
	Problem  string `json:"problem"`
	Answer   string `json:"answer"`
	Hint     string `json:"hint"`
	Property string `json:"property"`
}

func (p PracticeProblem) ItemID() int { return p.ID }
func (PracticeProblem) Kind() Kind    { return KindPractice }

// ChallengeQuestion is a multiple choice question with an explanation.
type ChallengeQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Property      string   `json:"property"`
	Answers       []string `json:"answers"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

func (c ChallengeQuestion) ItemID() int { return c.ID }
func (ChallengeQuestion) Kind() Kind    { return KindChallenge }

// Patch is a partial update for one content kind. Nil fields are left untouched.
type Patch interface {
	Kind() Kind
	// Empty reports whether the patch is a nil pointer, which upsert treats as a delete.
	Empty() bool
}

// PropertyPatch carries optional Property fields.
type PropertyPatch struct {
	Name        *string `json:"name,omitempty"`
	Formula     *string `json:"formula,omitempty"`
	Description *string `json:"description,omitempty"`
	Example     *string `json:"example,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

func (*PropertyPatch) Kind() Kind    { return KindProperties }
func (p *PropertyPatch) Empty() bool { return p == nil }

// Apply overwrites the fields set on the patch.
func (p *PropertyPatch) Apply(dst *Property) {
	setString(&dst.Name, p.Name)
	setString(&dst.Formula, p.Formula)
	setString(&dst.Description, p.Description)
	setString(&dst.Example, p.Example)
	setString(&dst.Icon, p.Icon)
}

// PracticePatch carries optional PracticeProblem fields.
type PracticePatch struct {
	Problem  *string `json:"problem,omitempty"`
	Answer   *string `json:"answer,omitempty"`
	Hint     *string `json:"hint,omitempty"`
	Property *string `json:"property,omitempty"`
}

func (*PracticePatch) Kind() Kind    { return KindPractice }
func (p *PracticePatch) Empty() bool { return p == nil }

// Apply overwrites the fields set on the patch.
func (p *PracticePatch) Apply(dst *PracticeProblem) {
	setString(&dst.Problem, p.Problem)
	setString(&dst.Answer, p.Answer)
	setString(&dst.Hint, p.Hint)
	setString(&dst.Property, p.Property)
}

// ChallengePatch carries optional ChallengeQuestion fields.
type ChallengePatch struct {
	Question      *string   `json:"question,omitempty"`
	Property      *string   `json:"property,omitempty"`
	Answers       *[]string `json:"answers,omitempty"`
	CorrectAnswer *string   `json:"correctAnswer,omitempty"`
	Explanation   *string   `json:"explanation,omitempty"`
}

func (*ChallengePatch) Kind() Kind    { return KindChallenge }
func (p *ChallengePatch) Empty() bool { return p == nil }

// Apply overwrites the fields set on the patch.
func (p *ChallengePatch) Apply(dst *ChallengeQuestion) {
	setString(&dst.Question, p.Question)
	setString(&dst.Property, p.Property)
	if p.Answers != nil {
		dst.Answers = append([]string(nil), (*p.Answers)...)
	}
	setString(&dst.CorrectAnswer, p.CorrectAnswer)
	setString(&dst.Explanation, p.Explanation)
}

// NewPatch returns an empty patch for the kind, suitable for JSON decoding.
func NewPatch(kind Kind) Patch {
	switch kind {
	case KindProperties:
		return &PropertyPatch{}
	case KindPractice:
		return &PracticePatch{}
	case KindChallenge:
		return &ChallengePatch{}
	default:
		return nil
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
