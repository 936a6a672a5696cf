package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	formflow "github.com/petrijr/formflow"
	"github.com/petrijr/formflow/pkg/api"
)

var runCmd = &cobra.Command{
	Use:   "run <survey.yaml>",
	Short: "Walk through a survey interactively",
	Long: `Loads a survey definition and walks through it on stdin/stdout.
Type ":back" to return to the previous question and ":quit" to abandon.
Responses are stored in the database given with --db, or kept in memory.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dbPath, _ := cmd.Flags().GetString("db")
		if err := runSurvey(args[0], dbPath); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func openEngine(dbPath string) (formflow.Engine, func(), error) {
	if dbPath == "" {
		return formflow.NewInMemoryEngine(), func() {}, nil
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	eng, err := formflow.NewSQLiteEngine(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return eng, func() { db.Close() }, nil
}

func runSurvey(path, dbPath string) error {
	ctx := context.Background()

	eng, closeDB, err := openEngine(dbPath)
	if err != nil {
		return err
	}
	defer closeDB()

	cfg, err := formflow.RegisterFile(eng, path)
	if err != nil {
		return err
	}

	session, err := eng.StartSession(ctx, cfg.ID)
	if err != nil {
		return err
	}

	fmt.Printf("--- %s ---\n", cfg.Title)
	if cfg.Description != "" {
		fmt.Println(cfg.Description)
	}

	reader := bufio.NewReader(os.Stdin)

	for {
		q, ok := session.Current()
		if !ok {
			return nil
		}

		printQuestion(q)

		action, err := readAnswer(ctx, reader, session, q)
		if err != nil {
			return err
		}
		switch action {
		case actionQuit:
			resp := session.Abandon(ctx)
			if resp != nil {
				fmt.Printf("Abandoned after %d answer(s).\n", len(resp.Answers))
			}
			return nil
		case actionBack:
			// The previous question is current again; re-prompt it.
			continue
		}

		res, err := session.Next(ctx)
		if err != nil {
			if verr, isValidation := formflow.IsValidationError(err); isValidation {
				fmt.Printf("  ! %s\n", verr.Message)
				continue
			}
			return err
		}

		switch res.Outcome {
		case formflow.OutcomeRedirect:
			fmt.Printf("Continue at: %s\n", res.RedirectURL)
			return nil
		case formflow.OutcomeEnded:
			fmt.Printf("Done. Recorded %d answer(s), session %s.\n",
				len(res.Response.Answers), session.SessionID())
			return nil
		}
	}
}

func printQuestion(q formflow.Question) {
	fmt.Printf("\n%s\n", q.Title)
	if q.Description != "" {
		fmt.Println(q.Description)
	}

	switch q.Type {
	case api.QuestionChoice:
		for i, opt := range q.Choice.Options {
			fmt.Printf("  %d) %s\n", i+1, opt.Label)
		}
		if q.Choice.AllowOther {
			fmt.Println("  (or type your own answer)")
		}
		if q.Choice.Multiple {
			fmt.Println("  (separate multiple choices with commas)")
		}
	case api.QuestionSocial:
		for _, link := range q.Social.Socials {
			fmt.Printf("  %s: %s\n", link.Name, link.URL)
		}
	}
}

// inputAction says what the respondent's input asked for.
type inputAction int

const (
	actionAnswer inputAction = iota
	actionBack
	actionQuit
)

// readAnswer stages the respondent's input as the candidate answer, or
// reports that they asked to go back or quit.
func readAnswer(ctx context.Context, reader *bufio.Reader, session formflow.Session, q formflow.Question) (inputAction, error) {
	if q.DisplayOnly() {
		fmt.Print("[enter to continue] ")
		line, err := readLine(reader)
		if err != nil {
			return actionQuit, err
		}
		if isQuit(line) {
			return actionQuit, nil
		}
		if isBack(line) && session.Back(ctx) {
			return actionBack, nil
		}
		return actionAnswer, nil
	}

	if q.Type == api.QuestionFeedback {
		return readFeedback(ctx, reader, session, q)
	}

	for {
		fmt.Print("> ")
		line, err := readLine(reader)
		if err != nil {
			return actionQuit, err
		}
		if isQuit(line) {
			return actionQuit, nil
		}
		if isBack(line) {
			if !session.Back(ctx) {
				fmt.Println("  ! Already at the first question")
				continue
			}
			return actionBack, nil
		}

		session.SetAnswer(parseAnswer(q, line))
		return actionAnswer, nil
	}
}

// parseAnswer maps raw input onto the answer shape of the question: choice
// input may be an option number or a literal value, multi-choice input is
// comma-separated.
func parseAnswer(q formflow.Question, line string) any {
	if q.Type != api.QuestionChoice {
		return line
	}

	if q.Choice.Multiple {
		parts := strings.Split(line, ",")
		values := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			values = append(values, resolveChoice(q, part))
		}
		return values
	}

	return resolveChoice(q, strings.TrimSpace(line))
}

// resolveChoice turns an option number into the option value; anything else
// passes through as typed.
func resolveChoice(q formflow.Question, input string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Choice.Options) {
		return q.Choice.Options[n-1].Value
	}
	return input
}

func readFeedback(ctx context.Context, reader *bufio.Reader, session formflow.Session, q formflow.Question) (inputAction, error) {
	fields := []struct {
		key     string
		label   string
		enabled bool
	}{
		{"firstName", "First name", q.Feedback.FirstName.Enabled},
		{"lastName", "Last name", q.Feedback.LastName.Enabled},
		{"email", "Email", q.Feedback.Email.Enabled},
		{"company", "Company", q.Feedback.Company.Enabled},
	}

	form := make(map[string]string)
	for _, f := range fields {
		if !f.enabled {
			continue
		}
		fmt.Printf("%s: ", f.label)
		line, err := readLine(reader)
		if err != nil {
			return actionQuit, err
		}
		if isQuit(line) {
			return actionQuit, nil
		}
		if isBack(line) && session.Back(ctx) {
			return actionBack, nil
		}
		form[f.key] = line
	}

	session.SetAnswer(form)
	return actionAnswer, nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func isBack(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), ":back")
}

func isQuit(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	return s == ":quit" || s == ":exit"
}
