package attendance

import (
	"fmt"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

type (
	// Enrollment is one student enrolled in one course section, as stored.
	// Everything but the identity tuple and RawAttendance is pass-through data.
	Enrollment struct {
		StudentCode   string   `json:"studentCode"`
		CourseCode    string   `json:"courseCode"`
		RevisionCode  string   `json:"revisionCode"`
		Section       string   `json:"section"`
		StudyCode     string   `json:"studyCode"`
		RawAttendance string   `json:"-"`
		StudentName   string   `json:"studentName,omitempty"`
		Faculty       string   `json:"faculty,omitempty"`
		Department    string   `json:"department,omitempty"`
		YearLevel     int      `json:"yearLevel,omitempty"`
		AdvisorName   string   `json:"advisorName,omitempty"`
		AdvisorEmail  string   `json:"-"`
		GPA           *float64 `json:"gpa"`
		CourseName    string   `json:"courseName,omitempty"`
		Instructor    string   `json:"instructor,omitempty"`
		CourseGrade   string   `json:"courseGrade,omitempty"`
		AcadYear      string   `json:"acadYear,omitempty"`
		Semester      string   `json:"semester,omitempty"`
	}

	// Record is an Enrollment with its derived attendance figures.
	Record struct {
		Enrollment
		Parsed
		ValidSessions    int `json:"validSessions"`
		TrailingAbsences int `json:"trailingAbsences"`
	}
)

func (e Enrollment) CourseKey() CourseKey {
	return CourseKey{
		CourseCode:   e.CourseCode,
		RevisionCode: e.RevisionCode,
		Section:      e.Section,
		StudyCode:    e.StudyCode,
	}
}

// identity holds the columns every stored enrollment must carry, within their column widths.
type identity struct {
	StudentCode  string   `json:"studentCode" validate:"notblank,max=32"`
	CourseCode   string   `json:"courseCode" validate:"notblank,max=32"`
	RevisionCode string   `json:"revisionCode" validate:"max=16"`
	Section      string   `json:"section" validate:"max=16"`
	StudyCode    string   `json:"studyCode" validate:"omitempty,oneof=C L"`
	YearLevel    int      `json:"yearLevel" validate:"gte=0,lte=32767"`
	GPA          *float64 `json:"gpa" validate:"omitempty,gte=0,lt=10"`
}

func (e Enrollment) identity() identity {
	return identity{
		StudentCode:  e.StudentCode,
		CourseCode:   e.CourseCode,
		RevisionCode: e.RevisionCode,
		Section:      e.Section,
		StudyCode:    e.StudyCode,
		YearLevel:    e.YearLevel,
		GPA:          e.GPA,
	}
}

var (
	validatorOnce sync.Once
	validate      *validator.Validate
	translator    ut.Translator
)

func recordValidator() (*validator.Validate, ut.Translator) {
	validatorOnce.Do(func() {
		translator = core.NewTranslator()
		validate = validator.New()
		core.InitValidators(validate, translator)
	})
	return validate, translator
}

// Validate rejects enrollments with a blank or oversized identity before anything is computed.
func Validate(enrollments []Enrollment) error {
	v, trans := recordValidator()

	var fields []core.FieldError
	for i, e := range enrollments {
		err := v.Struct(e.identity())
		if err == nil {
			continue
		}
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.Wrap(err, "validating enrollments")
		}
		for _, fe := range verrs {
			fields = append(fields, core.FieldError{
				Field: fmt.Sprintf("records[%d].%s", i, fe.Field()),
				Error: fe.Translate(trans),
			})
		}
	}
	if len(fields) > 0 {
		return core.NewValidationError(errors.New("malformed enrollment records"), fields...)
	}
	return nil
}

func (a *Analyzer) NewRecord(e Enrollment) Record {
	p := a.Parse(e.RawAttendance)
	return Record{
		Enrollment:       e,
		Parsed:           p,
		ValidSessions:    p.Valid(),
		TrailingAbsences: a.TrailingAbsences(p.Sessions),
	}
}

// Records validates the whole collection, then derives one Record per enrollment.
func (a *Analyzer) Records(enrollments []Enrollment) ([]Record, error) {
	if err := Validate(enrollments); err != nil {
		return nil, err
	}
	records := make([]Record, len(enrollments))
	for i, e := range enrollments {
		records[i] = a.NewRecord(e)
	}
	return records, nil
}
