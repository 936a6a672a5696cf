package engine

import (
	"fmt"

	"github.com/petrijr/formflow/pkg/api"
)

// ValidateConfig checks a survey config for the structural problems that
// would otherwise only surface mid-session: unknown question types,
// duplicate ids, a missing start question, and jump conditions pointing at
// ids that don't exist. It returns a *api.ConfigError so that bad configs
// fail loudly at registration, not in front of a respondent.
func ValidateConfig(cfg api.SurveyConfig) error {
	if cfg.ID == "" {
		return api.NewConfigError("", "survey id is required")
	}
	if len(cfg.Questions) == 0 {
		return api.NewConfigError(cfg.ID, "survey must have at least one question")
	}

	seen := make(map[string]bool, len(cfg.Questions))
	for _, q := range cfg.Questions {
		if q.ID == "" {
			return api.NewConfigError(cfg.ID, "question id is required")
		}
		if seen[q.ID] {
			return api.NewConfigError(cfg.ID, fmt.Sprintf("duplicate question id %q", q.ID))
		}
		seen[q.ID] = true

		if !api.KnownQuestionType(q.Type) {
			return api.NewConfigError(cfg.ID, fmt.Sprintf("question %q has unknown type %q", q.ID, q.Type))
		}
	}

	if cfg.StartQuestionID == "" {
		return api.NewConfigError(cfg.ID, "startQuestionId is required")
	}
	if !seen[cfg.StartQuestionID] {
		return api.NewConfigError(cfg.ID, fmt.Sprintf("start question %q does not exist", cfg.StartQuestionID))
	}

	for _, q := range cfg.Questions {
		cond := q.JumpCondition()
		if cond == nil {
			continue
		}
		if cond.Action.ElementID == "" {
			return api.NewConfigError(cfg.ID, fmt.Sprintf("question %q has a jump condition without a target", q.ID))
		}
		if !seen[cond.Action.ElementID] {
			return api.NewConfigError(cfg.ID,
				fmt.Sprintf("question %q jumps to unknown question %q", q.ID, cond.Action.ElementID))
		}
		if cond.ElementID == "" {
			return api.NewConfigError(cfg.ID, fmt.Sprintf("question %q has a jump condition without a source", q.ID))
		}
	}

	return nil
}
