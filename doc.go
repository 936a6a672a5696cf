// Package formflow provides a lightweight, embeddable survey-flow engine
// for Go.
//
// Formflow is designed for backend services that need to drive a respondent
// through a declarative survey: questions with per-type validation,
// conditional jumps, submit checkpoints, back-navigation, and an ordered
// response record at the end. It runs fully in Go, supports multiple
// persistence backends, and integrates cleanly into existing codebases.
//
// # Core Concepts
//
// The formflow programming model is intentionally small:
//
//  1. SurveyConfig
//  2. Engine
//  3. Session
//  4. Observer
//  5. SurveyBuilder
//
// # SurveyConfig
//
// A SurveyConfig is the static, declarative description of a survey: its
// questions, their validation rules, the start question, and the jump
// conditions that wire them together. Configs are typically loaded from YAML
// with LoadConfig or built in code with the SurveyBuilder, then registered
// with an Engine. A registered config is immutable; every session walks the
// same definition.
//
// # Engine
//
// The Engine stores survey definitions, creates sessions, and persists
// survey responses. Engines can be backed by different storage systems:
//
//   - In-memory (non-durable, best for tests)
//   - SQLite (embedded durability)
//   - Postgres
//   - Redis
//
// Persistence failures never interrupt a respondent: the session keeps its
// state in memory and storage errors are reported to the Observer instead of
// the caller.
//
// # Session
//
// A Session is one respondent's walk through one survey. The renderer, a
// CLI, an HTTP handler, or a test, shows the current question, stages a
// candidate answer with SetAnswer, and calls Next. Next validates the
// candidate, records it, and resolves the next question: a satisfied jump
// condition takes priority over document order, hidden questions are
// skipped unless jumped to, and redirect controls short-circuit the session
// without recording anything. Back pops the visited stack and restores the
// previous answer so the respondent never retypes it.
//
// Sessions are synchronous and single-respondent; they are not safe for
// concurrent use. The Engine itself is safe for concurrent use across
// sessions.
//
// # Observer
//
// An Observer receives lifecycle callbacks: session start, question enter
// and leave, answers, validation errors, submissions, completion, and
// abandonment. LoggingObserver logs them with log/slog, BasicMetrics counts
// them, and NewCompositeObserver fans events out to several observers at
// once. Observers are strictly informational and never affect flow.
//
// # SurveyBuilder
//
// SurveyBuilder is the fluent, in-code alternative to YAML configs:
//
//	formflow.New("exit-survey", "Before you go").
//	    Choice("reason", "Why are you leaving?", reasons, formflow.Required()).
//	    Text("details", "Anything to add?").
//	    Info("thanks", "Thanks!", formflow.Final()).
//	    MustRegister(engine)
//
// See the examples directory for complete programs.
package formflow
