package pkgdoc

import "strings"

// InvalidPrice marks a question slot that exists in the grid but can never be played.
const InvalidPrice = -1

type RoundType string

const (
	RoundStandard RoundType = "standard"
	RoundFinal    RoundType = "final"
)

// Question type names understood by the engine.
const (
	QuestionSimple    = "simple"
	QuestionCat       = "cat"
	QuestionBagCat    = "bagcat"
	QuestionAuction   = "auction"
	QuestionSponsored = "sponsored"
)

type AtomType string

const (
	AtomText   AtomType = "text"
	AtomImage  AtomType = "image"
	AtomAudio  AtomType = "audio"
	AtomVideo  AtomType = "video"
	AtomMarker AtomType = "marker"
)

// Document is a read-only question package. Nothing in this repository mutates a
// Document after it has been loaded.
type Document struct {
	Name   string   `json:"name" yaml:"name"`
	Author string   `json:"author,omitempty" yaml:"author,omitempty"`
	Logo   string   `json:"logo,omitempty" yaml:"logo,omitempty"`
	Rounds []*Round `json:"rounds" yaml:"rounds"`
}

type Round struct {
	Name   string    `json:"name" yaml:"name"`
	Type   RoundType `json:"type,omitempty" yaml:"type,omitempty"`
	Themes []*Theme  `json:"themes" yaml:"themes"`
}

type Theme struct {
	Name      string      `json:"name" yaml:"name"`
	Questions []*Question `json:"questions" yaml:"questions"`
}

type Question struct {
	Price int      `json:"price" yaml:"price"`
	Type  string   `json:"type,omitempty" yaml:"type,omitempty"`
	Atoms []Atom   `json:"atoms" yaml:"atoms"`
	Right []string `json:"right,omitempty" yaml:"right,omitempty"`
	Wrong []string `json:"wrong,omitempty" yaml:"wrong,omitempty"`
}

type Atom struct {
	Type AtomType `json:"type,omitempty" yaml:"type,omitempty"`
	Text string   `json:"text" yaml:"text"`
	// Duration in seconds for media atoms, 0 when unknown.
	Duration int `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// IsText reports whether the atom carries text. Atoms without a type are text.
func (a Atom) IsText() bool {
	return a.Type == "" || a.Type == AtomText
}

// IsFinal reports whether the round follows the final elimination protocol.
func (r *Round) IsFinal() bool {
	return r.Type == RoundFinal
}

// HasQuestions reports whether the theme has at least one question slot.
func (t *Theme) HasQuestions() bool {
	return len(t.Questions) > 0
}

// TypeName returns the question type, treating an empty type as simple.
func (q *Question) TypeName() string {
	if q.Type == "" {
		return QuestionSimple
	}
	return q.Type
}

func (q *Question) IsValid() bool {
	return q.Price != InvalidPrice
}

// ScenarioText joins the text of all atoms up to the answer marker. Used for
// pacing content reveal.
func (q *Question) ScenarioText() string {
	var sb strings.Builder
	for _, a := range q.Atoms {
		if a.Type == AtomMarker {
			break
		}
		if a.IsText() {
			sb.WriteString(a.Text)
		}
	}
	return sb.String()
}

// Question returns the question at the given coordinate or nil when out of range.
func (r *Round) Question(theme, question int) *Question {
	if theme < 0 || theme >= len(r.Themes) {
		return nil
	}
	t := r.Themes[theme]
	if question < 0 || question >= len(t.Questions) {
		return nil
	}
	return t.Questions[question]
}

// QuestionCount counts all question slots, valid or not.
func (r *Round) QuestionCount() int {
	n := 0
	for _, t := range r.Themes {
		n += len(t.Questions)
	}
	return n
}
