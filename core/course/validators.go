package course

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	slugTag   = "slug"
	slugText  = "only lowercase alphanumeric characters and hyphens are allowed"
	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

func init() {
	_ = core.Validate.RegisterValidation(slugTag, slugValidation)
	core.RegisterCustomTranslation(slugTag, slugText)
}

// slugValidation only allows URL-safe slugs ("intro-to-go").
func slugValidation(fl validator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}
