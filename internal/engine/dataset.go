package engine

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/tartampluch/go-onthisday/internal/config"
)

// Dataset is the root of the family-tree document.
type Dataset struct {
	Generations []*Generation `json:"generations"`
}

// Generation groups the persons of one generation, in display order.
type Generation struct {
	Persons []*Person `json:"persons"`
}

// Person is one individual of the family tree. Every field is optional.
type Person struct {
	ID         Text        `json:"id"`
	FirstName  Text        `json:"firstName"`
	MiddleName Text        `json:"middleName"`
	LastName   Text        `json:"lastName"`
	Birth      *Vital      `json:"birth"`
	Death      *Vital      `json:"death"`
	Marriages  []*Marriage `json:"marriages"`
}

// Vital holds the raw text of a birth or death record.
type Vital struct {
	Date Text `json:"date"`
}

// Marriage is one marriage of a person, as recorded in the dataset.
type Marriage struct {
	MarriageDate Text `json:"marriageDate"`
	SpouseName   Text `json:"spouseName"`
}

// isObject reports whether data holds a JSON object.
func isObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

// UnmarshalJSON treats anything but an object as an empty generation.
func (g *Generation) UnmarshalJSON(data []byte) error {
	if !isObject(data) {
		*g = Generation{}
		return nil
	}
	type plain Generation
	return json.Unmarshal(data, (*plain)(g))
}

// UnmarshalJSON treats anything but an object as a person without data.
func (p *Person) UnmarshalJSON(data []byte) error {
	if !isObject(data) {
		*p = Person{}
		return nil
	}
	type plain Person
	return json.Unmarshal(data, (*plain)(p))
}

// UnmarshalJSON treats a scalar or array record ("birth": "14 Feb 1900") as absent.
func (v *Vital) UnmarshalJSON(data []byte) error {
	if !isObject(data) {
		*v = Vital{}
		return nil
	}
	type plain Vital
	return json.Unmarshal(data, (*plain)(v))
}

// UnmarshalJSON treats a non-object marriage entry as absent.
func (m *Marriage) UnmarshalJSON(data []byte) error {
	if !isObject(data) {
		*m = Marriage{}
		return nil
	}
	type plain Marriage
	return json.Unmarshal(data, (*plain)(m))
}

var textType = reflect.TypeOf(Text(""))

// Text is a JSON scalar read as text: strings verbatim, numbers and booleans by
// their literal, null as empty. Objects and arrays are rejected.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		return &json.UnmarshalTypeError{Value: "object or array", Type: textType}
	default:
		*t = Text(data)
		return nil
	}
}

func (t Text) String() string { return string(t) }

// DisplayName joins the non-empty name parts, falling back to the id and then "Unknown".
func (p *Person) DisplayName() string {
	var parts []string
	for _, part := range []Text{p.FirstName, p.MiddleName, p.LastName} {
		if part != "" {
			parts = append(parts, string(part))
		}
	}
	if name := strings.TrimSpace(strings.Join(parts, " ")); name != "" {
		return name
	}
	if p.ID != "" {
		return string(p.ID)
	}
	return config.UnknownName
}

// birthDate returns the raw birth text, tolerating a missing record.
func (p *Person) birthDate() string {
	if p.Birth == nil {
		return ""
	}
	return string(p.Birth.Date)
}

func (p *Person) deathDate() string {
	if p.Death == nil {
		return ""
	}
	return string(p.Death.Date)
}

// DecodeDataset reads a JSON family-tree document.
func DecodeDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}
