package action

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	actionKindTag  = "action_kind"
	actionKindText = "unknown element type"

	actionNameTag  = "action_name"
	actionNameText = "unknown action"
)

// InitValidators registers the action validators. core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(actionKindTag, actionKindValidation)
	core.RegisterCustomTranslation(validate, translator, actionKindTag, actionKindText)

	_ = validate.RegisterValidation(actionNameTag, actionNameValidation)
	core.RegisterCustomTranslation(validate, translator, actionNameTag, actionNameText)
}

// Validate cleans cfg and validates it.
func (cfg *EventConfig) Validate(validate *validator.Validate) error {
	cfg.ID = core.CleanString(cfg.ID)
	cfg.Target = core.CleanString(cfg.Target)
	if cfg.Kind == "" {
		cfg.Kind = KindButton
	}
	return validate.Struct(cfg)
}

// Custom Validators

func actionKindValidation(fl validator.FieldLevel) bool {
	return Kind(fl.Field().String()).Valid()
}

func actionNameValidation(fl validator.FieldLevel) bool {
	return Action(fl.Field().String()).Valid()
}
