package config

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	saltoserrors "github.com/mosen/salt-osx/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	domainNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("domain_name", func(fl validator.FieldLevel) bool {
			return domainNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateDocument performs schema and cross-field validation on the parsed
// desired-state document.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return saltoserrors.NewValidationError("document", "document is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(doc); err != nil {
		return convertValidationError(err)
	}

	for i, entity := range doc.Entities {
		seen := make(map[string]struct{}, len(entity.Options))
		for _, opt := range entity.Options {
			if _, dup := seen[opt.Name]; dup {
				return saltoserrors.NewValidationError(
					fieldForEntity(i, "options"),
					fmt.Sprintf("duplicate option name %q", opt.Name),
					nil,
				)
			}
			seen[opt.Name] = struct{}{}
		}

		if entity.Presence == PresenceAbsent && len(entity.Options) > 0 {
			return saltoserrors.NewValidationError(
				fieldForEntity(i, "options"),
				"absent entities take no options",
				nil,
			)
		}
	}

	return nil
}

func convertValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return saltoserrors.NewValidationError(
			first.Namespace(),
			fmt.Sprintf("failed %q constraint", first.Tag()),
			err,
		)
	}
	return saltoserrors.NewValidationError("", err.Error(), err)
}

func fieldForEntity(index int, field string) string {
	return fmt.Sprintf("entities[%d].%s", index, field)
}
