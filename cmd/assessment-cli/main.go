// Command assessment-cli runs an interactive cognitive quiz or
// emotional well-being chat on the terminal. Concerning summaries are
// escalated to the shared escalation stream like any other producer.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/classifier"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/config"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/escalation"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/logger"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/session"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/store"
)

func main() {
	mode := "quiz"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	if mode != "quiz" && mode != "chat" {
		fmt.Fprintln(os.Stderr, "usage: assessment-cli [quiz|chat]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log.Level, "console", "assessment-cli")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	st, err := store.New(cfg.Store.DataDir, cfg.Store.MaxRecords, log)
	if err != nil {
		log.Fatal("Failed to open record store", zap.Error(err))
	}
	writer := escalation.NewWriter(st, cfg.Store.EscalationFile, log)

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	if mode == "quiz" {
		runQuiz(ctx, scanner, writer, cfg.Agent.DeviceID)
	} else {
		runChat(ctx, scanner, writer, cfg.Agent.DeviceID)
	}
}

func runQuiz(ctx context.Context, scanner *bufio.Scanner, writer *escalation.Writer, deviceID string) {
	sess, first := session.NewQuizSession(nil, nil)
	fmt.Println("Hello! Let's begin your assessment.")
	fmt.Println(first)

	for scanner.Scan() {
		answer := strings.TrimSpace(scanner.Text())
		reply, done, err := sess.SubmitTurn(answer)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Println(reply)
		if done {
			break
		}
	}

	summary, err := sess.Finish()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(summary.SummaryText)
	printJSON(summary)

	// A low total suggests impairment; flag it for the care team.
	if summary.Total < 6 {
		escalateSummary(ctx, writer, models.SourceCognitive, deviceID,
			"possible cognitive impairment: total score "+fmt.Sprint(summary.Total), summary)
	}
}

func runChat(ctx context.Context, scanner *bufio.Scanner, writer *escalation.Writer, deviceID string) {
	sess := session.NewEmotionSession(nil, nil)
	fmt.Println("Hello! How are you feeling today? (type 'finish' to end)")

	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(text, "finish") {
			break
		}
		reply, _, err := sess.SubmitTurn(text)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Println(reply)
	}

	summary, err := sess.Finish()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(summary.SummaryText)
	printJSON(summary)

	if summary.MaxScore > 0 && float64(summary.TotalScore)/float64(summary.MaxScore) < 0.4 {
		escalateSummary(ctx, writer, models.SourceEmotion, deviceID, summary.Interpretation, summary)
	}
}

func escalateSummary(ctx context.Context, writer *escalation.Writer, source, deviceID, reason string, summary interface{}) {
	data, err := json.Marshal(summary)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	result := classifier.Result{
		Severity: models.SeverityWarning,
		Reason:   reason,
	}
	if _, err := writer.Write(ctx, source, deviceID, result, data); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	fmt.Println(string(data))
}
