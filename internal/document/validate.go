package document

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/idilsaglam/longread/internal/model"
)

var validate = validator.New()

// form is the part of a document the backend checks on create/update.
// The tag limits mirror model.MaxTitleLen, model.MaxDescrLen and
// model.MaxPanelBadgeLen.
type form struct {
	Title                   string   `validate:"required,max=250"`
	Description             string   `validate:"max=255"`
	ApproximateProgressTime *int     `validate:"required,gt=0"`
	Badges                  []string `validate:"dive,max=64"`
}

// FormErrors flags the document fields that block saving.
type FormErrors struct {
	Title                   bool
	Description             bool
	ApproximateProgressTime bool
	// PanelBadges holds the ids of panel blocks whose badge is too long.
	PanelBadges []string
	IsError     bool
}

// Validate checks the fields the backend requires before create/update.
func Validate(doc model.Document) FormErrors {
	f := form{
		Title:                   strings.TrimSpace(doc.Title),
		Description:             doc.InternalDescription,
		ApproximateProgressTime: doc.ApproximateProgressTime,
	}
	var panels []string
	for _, el := range doc.Elements {
		if el.Type == model.ElementPanel {
			f.Badges = append(f.Badges, el.Badge)
			panels = append(panels, el.ID)
		}
	}

	var fe FormErrors
	var verrs validator.ValidationErrors
	if err := validate.Struct(f); !errors.As(err, &verrs) {
		return fe
	}
	for _, e := range verrs {
		field, index := splitField(e.StructField())
		switch field {
		case "Title":
			fe.Title = true
		case "Description":
			fe.Description = true
		case "ApproximateProgressTime":
			fe.ApproximateProgressTime = true
		case "Badges":
			if index >= 0 && index < len(panels) {
				fe.PanelBadges = append(fe.PanelBadges, panels[index])
			}
		}
	}
	fe.IsError = fe.Title || fe.Description || fe.ApproximateProgressTime || len(fe.PanelBadges) > 0
	return fe
}

// splitField turns "Badges[3]" into ("Badges", 3). Plain names get -1.
func splitField(name string) (string, int) {
	field, rest, ok := strings.Cut(name, "[")
	if !ok {
		return name, -1
	}
	i, err := strconv.Atoi(strings.TrimSuffix(rest, "]"))
	if err != nil {
		return field, -1
	}
	return field, i
}

// Fields lists the flagged field names, for messages.
func (fe FormErrors) Fields() []string {
	var out []string
	if fe.Title {
		out = append(out, "title")
	}
	if fe.Description {
		out = append(out, "description")
	}
	if fe.ApproximateProgressTime {
		out = append(out, "approximate progress time")
	}
	if len(fe.PanelBadges) > 0 {
		out = append(out, "panel badge")
	}
	return out
}
