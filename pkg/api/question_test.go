package api

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestQuestionUnmarshalText(t *testing.T) {
	src := `
id: rating
type: text
title: Rate us
required: true
placeholder: 1-10
validation:
  type: number
  min: 1
  max: 10
  errorMessage: Score must be 1-10
`
	var q Question
	if err := yaml.Unmarshal([]byte(src), &q); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if q.ID != "rating" || q.Type != QuestionText || !q.Required {
		t.Fatalf("shared fields wrong: %+v", q)
	}
	if q.Text == nil {
		t.Fatal("text options not decoded")
	}
	if q.Text.Placeholder != "1-10" {
		t.Fatalf("placeholder = %q", q.Text.Placeholder)
	}
	v := q.Text.Validation
	if v == nil || v.Type != "number" || v.Min == nil || *v.Min != 1 || v.Max == nil || *v.Max != 10 {
		t.Fatalf("validation wrong: %+v", v)
	}
	if v.ErrorMessage != "Score must be 1-10" {
		t.Fatalf("errorMessage = %q", v.ErrorMessage)
	}
}

func TestQuestionUnmarshalChoiceWithJump(t *testing.T) {
	src := `
id: reason
type: choice
title: Why?
multiple: true
allowOther: true
options:
  - id: a
    label: Option A
    value: a
  - id: b
    label: Option B
    value: b
nextButton:
  text: Continue
  condition:
    elementId: reason
    operator: equals
    value: b
    action:
      type: jump
      elementId: detail
`
	var q Question
	if err := yaml.Unmarshal([]byte(src), &q); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if q.Choice == nil || !q.Choice.Multiple || !q.Choice.AllowOther {
		t.Fatalf("choice options wrong: %+v", q.Choice)
	}
	if len(q.Choice.Options) != 2 || q.Choice.Options[1].Value != "b" {
		t.Fatalf("options wrong: %+v", q.Choice.Options)
	}

	cond := q.JumpCondition()
	if cond == nil {
		t.Fatal("jump condition not decoded")
	}
	if cond.Operator != OpEquals || cond.Action.ElementID != "detail" {
		t.Fatalf("condition wrong: %+v", cond)
	}
}

func TestQuestionUnmarshalFeedbackFieldForms(t *testing.T) {
	src := `
id: contact
type: feedback
title: Stay in touch
fields:
  firstName: true
  lastName: false
  email:
    enabled: true
    required: true
`
	var q Question
	if err := yaml.Unmarshal([]byte(src), &q); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	f := q.Feedback
	if f == nil {
		t.Fatal("feedback options not decoded")
	}
	// Bool shorthand: enabled, never required.
	if !f.FirstName.Enabled || f.FirstName.Required {
		t.Fatalf("firstName = %+v", f.FirstName)
	}
	if f.LastName.Enabled {
		t.Fatalf("lastName = %+v", f.LastName)
	}
	if !f.Email.Enabled || !f.Email.Required {
		t.Fatalf("email = %+v", f.Email)
	}
}

func TestFeedbackFieldUnmarshalJSONForms(t *testing.T) {
	src := `{
		"firstName": true,
		"lastName": false,
		"email": {"enabled": true, "required": true},
		"company": {"enabled": false}
	}`
	var f FeedbackOptions
	if err := json.Unmarshal([]byte(src), &f); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	// Bool shorthand: enabled, never required.
	if !f.FirstName.Enabled || f.FirstName.Required {
		t.Fatalf("firstName = %+v", f.FirstName)
	}
	if f.LastName.Enabled {
		t.Fatalf("lastName = %+v", f.LastName)
	}
	if !f.Email.Enabled || !f.Email.Required {
		t.Fatalf("email = %+v", f.Email)
	}
	if f.Company.Enabled || f.Company.Required {
		t.Fatalf("company = %+v", f.Company)
	}

	var bad FeedbackField
	if err := json.Unmarshal([]byte(`"yes"`), &bad); err == nil {
		t.Fatal("string form should be rejected")
	}
}

func TestQuestionUnmarshalUnknownTypeLeavesVariantUnset(t *testing.T) {
	src := `
id: s1
type: slider
title: Pick a value
`
	var q Question
	if err := yaml.Unmarshal([]byte(src), &q); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if KnownQuestionType(q.Type) {
		t.Fatalf("slider reported as known type")
	}
	if q.Text != nil || q.Choice != nil || q.Feedback != nil || q.Info != nil || q.Social != nil {
		t.Fatalf("variant set for unknown type: %+v", q)
	}
}

func TestQuestionHelpers(t *testing.T) {
	info := Question{ID: "i", Type: QuestionInfo}
	social := Question{ID: "s", Type: QuestionSocial}
	text := Question{ID: "t", Type: QuestionText}

	if !info.DisplayOnly() || !social.DisplayOnly() || text.DisplayOnly() {
		t.Fatal("DisplayOnly wrong for one of info/social/text")
	}

	if text.JumpCondition() != nil || text.RedirectURL() != "" {
		t.Fatal("question without next control reported condition or URL")
	}

	redirect := Question{ID: "r", Type: QuestionInfo, NextButton: &NextButton{URL: "https://example.com"}}
	if redirect.RedirectURL() != "https://example.com" {
		t.Fatalf("RedirectURL = %q", redirect.RedirectURL())
	}
}

func TestSurveyConfigUnmarshal(t *testing.T) {
	src := `
id: exit
title: Exit survey
description: Quick one
startQuestionId: q1
theme:
  accentColor: "#ff0000"
questions:
  - id: q1
    type: text
    title: First
  - id: q2
    type: info
    title: Bye
    final: true
metadata:
  version: v2
`
	var cfg SurveyConfig
	if err := yaml.Unmarshal([]byte(src), &cfg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if cfg.ID != "exit" || cfg.StartQuestionID != "q1" || len(cfg.Questions) != 2 {
		t.Fatalf("config wrong: %+v", cfg)
	}
	if cfg.Theme == nil || cfg.Theme.AccentColor != "#ff0000" {
		t.Fatalf("theme wrong: %+v", cfg.Theme)
	}
	if !cfg.Questions[1].Final {
		t.Fatal("final flag lost")
	}
	if cfg.Metadata["version"] != "v2" {
		t.Fatalf("metadata wrong: %+v", cfg.Metadata)
	}

	q, ok := cfg.QuestionByID("q2")
	if !ok || q.Type != QuestionInfo {
		t.Fatalf("QuestionByID(q2) = %+v, %v", q, ok)
	}
}

func TestMergeThemes(t *testing.T) {
	base := DefaultTheme()
	merged := MergeThemes(base, Theme{AccentColor: "#123456"})

	if merged.AccentColor != "#123456" {
		t.Fatalf("override lost: %+v", merged)
	}
	if merged.BackgroundColor != base.BackgroundColor || merged.TextColor != base.TextColor {
		t.Fatalf("base fields not kept: %+v", merged)
	}
}
