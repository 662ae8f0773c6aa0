package report

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

var (
	riskLevelTag  = "risklevel"
	riskLevelText = "{0} must be one of critical, monitor, follow_up, normal or all"

	studyCodeTag  = "studycode"
	studyCodeText = "{0} must be one of C (lecture) or L (lab)"
)

// InitValidators registers the validation tags used by the report filters.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(riskLevelTag, riskLevelValidation)
	core.RegisterCustomTranslation(validate, translator, riskLevelTag, riskLevelText)

	_ = validate.RegisterValidation(studyCodeTag, studyCodeValidation)
	core.RegisterCustomTranslation(validate, translator, studyCodeTag, studyCodeText)
}

// Custom Validators

func riskLevelValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val == allValues || attendance.RiskLevel(val).IsValid()
}

func studyCodeValidation(fl validator.FieldLevel) bool {
	return attendance.StudyMode(fl.Field().String()).IsValid()
}
