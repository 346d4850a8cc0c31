package classifier

import "strings"

// Emotion labels.
const (
	EmotionHappy   = "happy"
	EmotionSad     = "sad"
	EmotionAnxious = "anxious"
	EmotionAngry   = "angry"
	EmotionLonely  = "lonely"
	EmotionNeutral = "neutral"
)

// emotionPatterns is scanned in order; the first emotion with a
// substring match wins. Matching is case-insensitive and substring
// based, not tokenized.
var emotionPatterns = []struct {
	emotion  string
	keywords []string
}{
	{EmotionHappy, []string{"happy", "glad", "joy", "excited", "good", "great", "fantastic", "awesome", "wonderful", "amazing"}},
	{EmotionSad, []string{"sad", "down", "unhappy", "depressed", "blue", "not good", "not great", "terrible", "bad", "nothing", "miserable"}},
	{EmotionAnxious, []string{"anxious", "worried", "nervous", "stress", "overwhelmed", "stressed"}},
	{EmotionAngry, []string{"angry", "mad", "frustrated", "annoyed", "irritated"}},
	{EmotionLonely, []string{"lonely", "alone", "isolated", "neglected"}},
}

// ClassifyEmotion labels one free-text turn with an emotion, defaulting
// to neutral when nothing matches.
func ClassifyEmotion(text string) string {
	text = strings.ToLower(text)

	for _, p := range emotionPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(text, kw) {
				return p.emotion
			}
		}
	}

	if strings.Contains(text, "not happy") || strings.Contains(text, "not good") || strings.Contains(text, "not great") {
		return EmotionSad
	}
	return EmotionNeutral
}

// Quiz question categories.
const (
	CategoryOrientation = "orientation"
	CategoryAttention   = "attention"
	CategoryMemory      = "memory"
	CategoryLanguage    = "language"
)

// quizKeywords holds the accepted-answer keywords per category.
var quizKeywords = map[string][]string{
	CategoryOrientation: {
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
		"january", "february", "march", "april", "may", "june", "july", "august",
		"september", "october", "november", "december",
	},
	CategoryAttention: {"19", "dlrow", "93"},
	CategoryMemory:    {"apple", "table", "penny", "breakfast", "yesterday"},
	CategoryLanguage:  {"dog", "cat", "lion", "tiger", "no ifs", "scissors"},
}

// ScoreQuizAnswer returns 1 when the answer contains any accepted
// keyword for the category, else 0. Empty answers score 0
// unconditionally.
func ScoreQuizAnswer(category, answer string) int {
	if answer == "" {
		return 0
	}
	answer = strings.ToLower(answer)

	for _, kw := range quizKeywords[category] {
		if strings.Contains(answer, kw) {
			return 1
		}
	}
	return 0
}
