package session

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/classifier"
)

// emotionPoints maps a detected emotion to well-being points per turn.
var emotionPoints = map[string]int{
	classifier.EmotionHappy:   2,
	classifier.EmotionNeutral: 1,
	classifier.EmotionSad:     0,
	classifier.EmotionAnxious: 0,
	classifier.EmotionAngry:   0,
	classifier.EmotionLonely:  0,
}

// maxPointsPerTurn is the ceiling used for the well-being ratio.
const maxPointsPerTurn = 2

// supportiveResponses holds the reply options per emotion.
var supportiveResponses = map[string][]string{
	classifier.EmotionHappy: {
		"That's wonderful! Can you share what made you feel happy?",
		"Love hearing your positivity!",
	},
	classifier.EmotionSad: {
		"I'm sorry you feel sad. Talking helps, would you like to share more?",
		"It's okay to feel down sometimes.",
	},
	classifier.EmotionAnxious: {
		"Take a deep breath. Want to try a short calming exercise?",
		"You're safe here. Let's relax together.",
	},
	classifier.EmotionAngry: {
		"It's okay to feel upset. Take a moment to breathe.",
		"Try counting to 10 slowly.",
	},
	classifier.EmotionLonely: {
		"You are not alone. Want ideas to connect with someone?",
		"It helps to reach out to a friend.",
	},
	classifier.EmotionNeutral: {
		"Thanks for sharing. How has your day been?",
		"Got it. Would you like a tip to feel better?",
	},
}

// EmotionSummary is the finalized result of an emotional chat session.
type EmotionSummary struct {
	StartedAt      time.Time      `json:"started_at"`
	EndedAt        time.Time      `json:"ended_at"`
	Turns          []Turn         `json:"turns"`
	EmotionCounts  map[string]int `json:"emotion_counts"`
	TotalScore     int            `json:"total_score"`
	MaxScore       int            `json:"max_score"`
	Interpretation string         `json:"interpretation"`
	SummaryText    string         `json:"summary_text"`
}

// EmotionSession accumulates emotional chat turns and scores the
// overall mood of the conversation.
type EmotionSession struct {
	rng   *rand.Rand
	now   func() time.Time
	state state

	startedAt     time.Time
	turns         []Turn
	emotionCounts map[string]int
}

// NewEmotionSession starts a chat session. rng and now are injectable
// for deterministic tests; pass nil for the real implementations.
func NewEmotionSession(rng *rand.Rand, now func() time.Time) *EmotionSession {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &EmotionSession{
		rng:           rng,
		now:           now,
		startedAt:     now(),
		emotionCounts: make(map[string]int),
	}
}

// SubmitTurn classifies one message and returns a supportive reply.
// done is always false: the participant decides when to finish.
func (s *EmotionSession) SubmitTurn(text string) (reply string, done bool, err error) {
	if s.state == stateFinished {
		return "", false, ErrFinished
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "Can you tell me how you're feeling?", false, nil
	}

	emotion := classifier.ClassifyEmotion(text)
	responses := supportiveResponses[emotion]
	reply = responses[s.rng.Intn(len(responses))]

	s.turns = append(s.turns, Turn{
		Timestamp:  s.now(),
		Input:      text,
		Label:      emotion,
		ScoreDelta: emotionPoints[emotion],
	})
	s.emotionCounts[emotion]++

	return reply, false, nil
}

// Finish finalizes the session and returns the summary. The session is
// terminal afterwards.
func (s *EmotionSession) Finish() (EmotionSummary, error) {
	if s.state == stateFinished {
		return EmotionSummary{}, ErrFinished
	}
	s.state = stateFinished

	total := 0
	for _, turn := range s.turns {
		total += turn.ScoreDelta
	}
	maxScore := len(s.turns) * maxPointsPerTurn

	var interpretation string
	if maxScore == 0 {
		interpretation = "No data to evaluate."
	} else {
		ratio := float64(total) / float64(maxScore)
		switch {
		case ratio >= 0.75:
			interpretation = "Mostly positive mood detected."
		case ratio >= 0.4:
			interpretation = "Mixed or balanced mood detected."
		default:
			interpretation = "More negative emotions detected - consider support or follow-up."
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session Summary:\nTotal turns: %d\n", len(s.turns))
	for emo, n := range s.emotionCounts {
		fmt.Fprintf(&b, " - %s: %d\n", emo, n)
	}
	fmt.Fprintf(&b, "Total Well-being Score: %d/%d\n", total, maxScore)
	fmt.Fprintf(&b, "Interpretation: %s", interpretation)

	return EmotionSummary{
		StartedAt:      s.startedAt,
		EndedAt:        s.now(),
		Turns:          s.turns,
		EmotionCounts:  s.emotionCounts,
		TotalScore:     total,
		MaxScore:       maxScore,
		Interpretation: interpretation,
		SummaryText:    b.String(),
	}, nil
}
