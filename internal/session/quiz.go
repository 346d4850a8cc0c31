package session

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/classifier"
)

// questionBank holds the quiz questions per category.
var questionBank = map[string][]string{
	classifier.CategoryOrientation: {
		"What is today's date?",
		"What day of the week is it?",
		"What city are you in right now?",
	},
	classifier.CategoryAttention: {
		"Count backwards from 20 to 1.",
		"Can you spell the word 'WORLD' backwards?",
		"Subtract 7 from 100, then subtract 7 again.",
	},
	classifier.CategoryMemory: {
		"I'm going to say three words: apple, table, penny. Please repeat them.",
		"Can you tell me what you had for breakfast?",
		"What did you do yesterday?",
	},
	classifier.CategoryLanguage: {
		"Name as many animals as you can in 30 seconds.",
		"Repeat this phrase: 'No ifs, ands, or buts.'",
		"What do you call the thing you use to cut paper?",
	},
}

// Cognitive performance threshold: total at or above this is read as
// normal for the demo question bank.
const quizNormalThreshold = 6

// QuizSummary is the finalized result of a quiz session.
type QuizSummary struct {
	Scores      map[string]int `json:"scores"`
	Total       int            `json:"total"`
	History     []string       `json:"history"`
	SummaryText string         `json:"summary_text"`
}

// QuizSession walks a participant through the question bank one
// question at a time and scores the free-text answers.
type QuizSession struct {
	rng   *rand.Rand
	now   func() time.Time
	state state

	asked        []string
	lastCategory string
	lastQuestion string
	scores       map[string]int
	turns        []Turn
	startedAt    time.Time
}

// NewQuizSession starts a session and returns it together with the
// first question. rng and now are injectable for deterministic tests;
// pass nil for real randomness and wall-clock time.
func NewQuizSession(rng *rand.Rand, now func() time.Time) (*QuizSession, string) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}

	s := &QuizSession{
		rng:    rng,
		now:    now,
		scores: make(map[string]int),
	}
	s.startedAt = now()

	category, question := s.pickQuestion()
	s.recordAsked(category, question)
	return s, question
}

// categories returns the category names in a stable order so the rng
// draws are reproducible.
func categories() []string {
	return []string{
		classifier.CategoryOrientation,
		classifier.CategoryAttention,
		classifier.CategoryMemory,
		classifier.CategoryLanguage,
	}
}

func (s *QuizSession) pickQuestion() (string, string) {
	remaining := map[string][]string{}
	var nonempty []string
	for _, cat := range categories() {
		var qs []string
		for _, q := range questionBank[cat] {
			if !s.wasAsked(q) {
				qs = append(qs, q)
			}
		}
		if len(qs) > 0 {
			remaining[cat] = qs
			nonempty = append(nonempty, cat)
		}
	}

	if len(nonempty) == 0 {
		return "", ""
	}

	cat := nonempty[s.rng.Intn(len(nonempty))]
	qs := remaining[cat]
	return cat, qs[s.rng.Intn(len(qs))]
}

func (s *QuizSession) wasAsked(question string) bool {
	for _, q := range s.asked {
		if q == question {
			return true
		}
	}
	return false
}

func (s *QuizSession) recordAsked(category, question string) {
	s.asked = append(s.asked, question)
	s.lastCategory = category
	s.lastQuestion = question
}

// SubmitTurn scores the answer to the pending question and returns the
// next question. done is true once the bank is exhausted; the caller
// should then Finish.
func (s *QuizSession) SubmitTurn(answer string) (reply string, done bool, err error) {
	if s.state == stateFinished {
		return "", false, ErrFinished
	}

	if s.lastCategory != "" {
		delta := classifier.ScoreQuizAnswer(s.lastCategory, answer)
		s.scores[s.lastCategory] += delta
		s.turns = append(s.turns, Turn{
			Timestamp:  s.now(),
			Input:      answer,
			Label:      s.lastCategory,
			ScoreDelta: delta,
		})
	}

	category, question := s.pickQuestion()
	if question == "" {
		s.lastCategory = ""
		s.lastQuestion = ""
		return "Assessment complete! Click Finish to see your results.", true, nil
	}

	s.recordAsked(category, question)
	return question, false, nil
}

// Finish finalizes the session and returns the summary. The session is
// terminal afterwards.
func (s *QuizSession) Finish() (QuizSummary, error) {
	if s.state == stateFinished {
		return QuizSummary{}, ErrFinished
	}
	s.state = stateFinished

	total := 0
	for _, sc := range s.scores {
		total += sc
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Assessment Summary:\nTotal Score: %d\nScores by category:\n", total)
	for _, cat := range categories() {
		if sc, ok := s.scores[cat]; ok {
			fmt.Fprintf(&b, " - %s: %d\n", cat, sc)
		}
	}
	if total >= quizNormalThreshold {
		b.WriteString("Interpretation: Normal cognitive performance.")
	} else {
		b.WriteString("Interpretation: Possible impairment - consider clinical follow-up.")
	}

	return QuizSummary{
		Scores:      s.scores,
		Total:       total,
		History:     s.asked,
		SummaryText: b.String(),
	}, nil
}
