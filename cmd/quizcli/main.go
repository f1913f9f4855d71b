package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"quiz-portal/internal/client"
	"quiz-portal/internal/domain"
	"quiz-portal/internal/scoring"
	"quiz-portal/internal/session"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	promptColor  = color.New(color.FgYellow)
	goodColor    = color.New(color.FgGreen)
	badColor     = color.New(color.FgRed)
	subtleColor  = color.New(color.FgHiBlack)
	answerColor  = color.New(color.FgMagenta)
	headerColor  = color.New(color.FgWhite, color.Bold)
	percentColor = color.New(color.FgBlue)
)

func main() {
	baseURL := flag.String("url", "http://localhost:8090", "quiz API base URL")
	token := flag.String("token", os.Getenv("QUIZ_TOKEN"), "bearer token for the API")
	flag.Parse()

	if *token == "" {
		badColor.Println("No token. Pass -token or set QUIZ_TOKEN.")
		os.Exit(1)
	}

	api := client.New(*baseURL, *token)
	s := session.NewSession(api)
	in := bufio.NewScanner(os.Stdin)

	titleColor.Println("Quiz Portal")
	subtleColor.Println("commands: n(ext) p(rev) g<N> a<answer> u<N> d<N> m<N>=<N> c<N> s(ubmit) t(opic) r(esults) q(uit)")

	for {
		switch s.State() {
		case session.StateIdle:
			if msg := s.LastError(); msg != "" {
				badColor.Printf("error: %s\n", msg)
			}
			promptColor.Print("Topic> ")
			if !in.Scan() {
				return
			}
			topic := strings.TrimSpace(in.Text())
			if topic == "" {
				continue
			}
			if topic == "q" || topic == "quit" {
				return
			}
			fmt.Println("Generating quiz, this can take a while...")
			if err := s.Start(context.Background(), topic); err != nil {
				badColor.Printf("could not start: %v\n", err)
			}

		case session.StateActive:
			renderCurrent(s)
			promptColor.Print("> ")
			if !in.Scan() {
				return
			}
			if quit := dispatch(s, api, strings.TrimSpace(in.Text())); quit {
				return
			}

		case session.StateCompleted:
			renderResult(s.Result())
			if err := s.ChangeTopic(); err != nil {
				badColor.Printf("reset failed: %v\n", err)
				return
			}

		default:
			// Loading and Submitting resolve inside Start/Submit calls.
			return
		}
	}
}

// dispatch runs one command against the active session. Returns true to quit.
func dispatch(s *session.Session, api *client.Client, cmd string) bool {
	var err error
	switch {
	case cmd == "q" || cmd == "quit":
		return true
	case cmd == "n":
		err = s.Next()
	case cmd == "p":
		err = s.Previous()
	case strings.HasPrefix(cmd, "g"):
		var n int
		if n, err = strconv.Atoi(cmd[1:]); err == nil {
			err = s.Jump(n - 1)
		}
	case strings.HasPrefix(cmd, "a"):
		err = applyAnswer(s, strings.TrimSpace(cmd[1:]))
	case strings.HasPrefix(cmd, "u"):
		var n int
		if n, err = strconv.Atoi(cmd[1:]); err == nil {
			err = s.MoveOrderItem(n-1, -1)
		}
	case strings.HasPrefix(cmd, "d"):
		var n int
		if n, err = strconv.Atoi(cmd[1:]); err == nil {
			err = s.MoveOrderItem(n-1, 1)
		}
	case strings.HasPrefix(cmd, "m"):
		err = applyMatch(s, cmd[1:])
	case strings.HasPrefix(cmd, "c"):
		err = clearMatch(s, cmd[1:])
	case cmd == "s":
		fmt.Println("Submitting...")
		if _, err = s.Submit(context.Background()); err != nil {
			badColor.Printf("submit failed: %v\n", err)
			return false
		}
	case cmd == "t":
		err = s.ChangeTopic()
	case cmd == "r":
		showResults(api)
	case cmd == "":
	default:
		subtleColor.Println("unknown command")
	}
	if err != nil {
		badColor.Printf("error: %v\n", err)
	}
	return false
}

// applyAnswer interprets the raw text for the current question's shape.
func applyAnswer(s *session.Session, raw string) error {
	view, err := s.Current()
	if err != nil {
		return err
	}
	switch view.Question.Type {
	case domain.TypeMultipleChoice:
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(view.Presentation.Options) {
			return s.SetAnswer(domain.TextAnswer(view.Presentation.Options[n-1]))
		}
		return s.SetAnswer(domain.TextAnswer(raw))
	case domain.TypeTrueFalse:
		switch strings.ToLower(raw) {
		case "t", "true", "y", "yes":
			return s.SetAnswer(domain.BoolAnswer(true))
		case "f", "false", "n", "no":
			return s.SetAnswer(domain.BoolAnswer(false))
		}
		return fmt.Errorf("answer %q is not true/false", raw)
	case domain.TypeFillBlank:
		return s.SetAnswer(domain.TextAnswer(raw))
	case domain.TypeNumeric:
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("answer %q is not a number", raw)
		}
		return s.SetAnswer(domain.NumberAnswer(num))
	default:
		return fmt.Errorf("use u/d to reorder and m to match on this question")
	}
}

// applyMatch parses "<itemN>=<optionN>" against the frozen presentation.
func applyMatch(s *session.Session, raw string) error {
	view, err := s.Current()
	if err != nil {
		return err
	}
	parts := strings.SplitN(raw, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("match syntax is m<item>=<option>")
	}
	ki, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || ki < 1 || ki > len(view.Presentation.MatchItems) {
		return fmt.Errorf("no item %q", parts[0])
	}
	vi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || vi < 1 || vi > len(view.Presentation.MatchOptions) {
		return fmt.Errorf("no option %q", parts[1])
	}
	return s.SetMatch(view.Presentation.MatchItems[ki-1], view.Presentation.MatchOptions[vi-1])
}

func clearMatch(s *session.Session, raw string) error {
	view, err := s.Current()
	if err != nil {
		return err
	}
	ki, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || ki < 1 || ki > len(view.Presentation.MatchItems) {
		return fmt.Errorf("no item %q", raw)
	}
	return s.ClearMatch(view.Presentation.MatchItems[ki-1])
}

func renderCurrent(s *session.Session) {
	view, err := s.Current()
	if err != nil {
		return
	}
	answered, total := s.Progress()

	fmt.Println()
	headerColor.Printf("Question %d/%d", view.Index+1, view.Total)
	subtleColor.Printf("  [%s, %s]  answered %d/%d  %s elapsed\n",
		view.Question.Type, view.Question.Difficulty, answered, total,
		scoring.FormatTime(s.TimeSpent()))
	fmt.Println(view.Question.Text)

	switch view.Question.Type {
	case domain.TypeMultipleChoice:
		for i, opt := range view.Presentation.Options {
			fmt.Printf("  %d) %s\n", i+1, opt)
		}
	case domain.TypeTrueFalse:
		fmt.Println("  (t)rue / (f)alse")
	case domain.TypeNumeric:
		fmt.Println("  (enter a number)")
	case domain.TypeOrdering:
		items := view.Answer.Order
		if items == nil {
			items = view.Presentation.InitialItems
		}
		for i, item := range items {
			fmt.Printf("  %d. %s\n", i+1, item)
		}
		subtleColor.Println("  u<N> moves item N up, d<N> moves it down")
	case domain.TypeMatching:
		for i, item := range view.Presentation.MatchItems {
			line := fmt.Sprintf("  %d) %s -> ", i+1, item)
			if v, ok := view.Answer.Matches[item]; ok && v != nil {
				line += *v
			} else {
				line += "?"
			}
			fmt.Println(line)
		}
		subtleColor.Println("  options:")
		for i, opt := range view.Presentation.MatchOptions {
			subtleColor.Printf("    %d) %s\n", i+1, opt)
		}
		subtleColor.Println("  m<item>=<option> to pair, c<item> to clear")
	}

	if view.Answer.Answered() && view.Question.Type != domain.TypeOrdering && view.Question.Type != domain.TypeMatching {
		answerColor.Printf("  your answer: %s\n", describeAnswer(view.Answer))
	}
}

func describeAnswer(a domain.Answer) string {
	switch {
	case a.Text != nil:
		return *a.Text
	case a.Bool != nil:
		return strconv.FormatBool(*a.Bool)
	case a.Number != nil:
		return strconv.FormatFloat(*a.Number, 'f', -1, 64)
	default:
		return ""
	}
}

func renderResult(r *domain.Result) {
	if r == nil {
		return
	}
	fmt.Println()
	titleColor.Println("Results")
	headerColor.Printf("Score: %d/%d\n", r.UserScore, r.TotalQuestions)
	percentColor.Printf("Percentile: %d\n", r.Percentile)
	fmt.Printf("Answered %d of %d (%d%%), %s total, %.1fs per question\n",
		r.AnsweredQuestions, r.TotalQuestions, r.CompletionRate,
		scoring.FormatTime(r.TotalTimeSpent), r.TimePerQuestion)

	if len(r.SubtopicPerformance) > 0 {
		headerColor.Println("\nBy subtopic")
		names := make([]string, 0, len(r.SubtopicPerformance))
		for name := range r.SubtopicPerformance {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			renderBucket(name, r.SubtopicPerformance[name])
		}
	}

	headerColor.Println("\nBy difficulty")
	for _, d := range domain.Difficulties {
		renderBucket(string(d), r.DifficultyPerformance[d])
	}

	if len(r.StrengthsAndWeaknesses.Strengths) > 0 {
		headerColor.Println("\nStrengths")
		for _, line := range r.StrengthsAndWeaknesses.Strengths {
			goodColor.Printf("  + %s\n", line)
		}
	}
	if len(r.StrengthsAndWeaknesses.Weaknesses) > 0 {
		headerColor.Println("\nWeaknesses")
		for _, line := range r.StrengthsAndWeaknesses.Weaknesses {
			badColor.Printf("  - %s\n", line)
		}
	}
	fmt.Println()
}

func renderBucket(name string, stat domain.BucketStat) {
	if stat.Total == 0 {
		subtleColor.Printf("  %-12s no questions\n", name)
		return
	}
	fmt.Printf("  %-12s %d/%d (%d%%)\n", name, stat.Correct, stat.Total, stat.Percentage)
}

func showResults(api *client.Client) {
	resp, err := api.MyResults(context.Background())
	if err != nil {
		badColor.Printf("could not load results: %v\n", err)
		return
	}
	if len(resp.Results) == 0 {
		subtleColor.Println("no submissions yet")
		return
	}
	headerColor.Println("Past submissions")
	for _, r := range resp.Results {
		line := fmt.Sprintf("  %s  %d/%d  %d%% complete", r.QuizID, r.Score, r.TotalQuestions, r.CompletionRate)
		if r.Percentile != nil {
			line += fmt.Sprintf("  p%d", *r.Percentile)
		}
		fmt.Println(line + "  " + r.SubmittedAt)
	}
}
