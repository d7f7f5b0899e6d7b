package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/faceofmind/server/internal/clients/llm"
	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/repository"
	"gorm.io/gorm"
)

// emotionColors maps detected emotion labels to display colors. Unknown
// labels fall back to light slate gray.
var emotionColors = map[string]string{
	"happy":    "#FFD700",
	"joyful":   "#FFD700",
	"excited":  "#FF8C00",
	"content":  "#98FB98",
	"grateful": "#FFA07A",
	"hopeful":  "#87CEFA",

	"sad":         "#4682B4",
	"depressed":   "#1E90FF",
	"lonely":      "#6495ED",
	"angry":       "#DC143C",
	"furious":     "#B22222",
	"frustrated":  "#CD5C5C",
	"fearful":     "#9370DB",
	"anxious":     "#9932CC",
	"stressed":    "#FF6347",
	"overwhelmed": "#FF4500",

	"surprised": "#FFA500",
	"shocked":   "#FF4500",
	"disgusted": "#2E8B57",
	"neutral":   "#778899",
	"tired":     "#A9A9A9",
	"confused":  "#DAA520",
}

const defaultEmotionColor = "#778899"

// crisisKeywords trigger the crisis-supportive prompt variant regardless of
// the detected emotion label.
var crisisKeywords = []string{
	"suicide",
	"kill myself",
	"end my life",
	"end it all",
	"want to die",
	"self harm",
	"hurt myself",
}

var (
	mildEmotions = map[string]bool{
		"happy": true, "joyful": true, "excited": true, "content": true,
		"grateful": true, "hopeful": true, "neutral": true,
	}
	severeEmotions = map[string]bool{
		"sad": true, "depressed": true, "lonely": true, "angry": true,
		"furious": true, "fearful": true, "anxious": true, "overwhelmed": true,
	}
)

type WellnessService interface {
	RecordDetection(ctx context.Context, userID, sessionID uint, input dto.RecordDetectionRequest) (*dto.DetectionResponse, error)
	GetDiagnosis(ctx context.Context, userID uint, windowDays int) (*dto.DiagnosisResponse, error)

	// EmotionColor resolves the display color for an emotion label.
	EmotionColor(emotion string) string
	// SplitSuggestion breaks a stored suggestion string into its
	// acknowledgment and bullet list.
	SplitSuggestion(text string) (string, []string)
}

type wellnessService struct {
	sessions   repository.SessionRepository
	detections repository.DetectionRepository
	generator  TextGenerator
}

// TextGenerator is the narrow surface this service needs from the provider
// chain, kept as an interface so tests can substitute canned responses.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

func NewWellnessService(sessions repository.SessionRepository, detections repository.DetectionRepository, generator TextGenerator) WellnessService {
	return &wellnessService{
		sessions:   sessions,
		detections: detections,
		generator:  generator,
	}
}

func (w *wellnessService) EmotionColor(emotion string) string {
	if color, ok := emotionColors[strings.ToLower(strings.TrimSpace(emotion))]; ok {
		return color
	}
	return defaultEmotionColor
}

func (w *wellnessService) SplitSuggestion(text string) (string, []string) {
	parts := strings.Split(text, "•")
	acknowledgment := ""
	if len(parts) > 0 {
		acknowledgment = strings.TrimSpace(parts[0])
	}
	tips := make([]string, 0, len(parts))
	for _, p := range parts[1:] {
		if s := strings.TrimSpace(p); s != "" {
			tips = append(tips, s)
		}
	}
	return acknowledgment, tips
}

func (w *wellnessService) RecordDetection(ctx context.Context, userID, sessionID uint, input dto.RecordDetectionRequest) (*dto.DetectionResponse, error) {
	emotion := strings.TrimSpace(input.Emotion)
	if emotion == "" {
		return nil, errors.New("emotion is required")
	}

	session, err := w.sessions.FindSessionForUser(sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if session.EndTime != nil {
		return nil, ErrSessionEnded
	}

	detection, err := w.detections.CreateDetection(&domain.EmotionDetection{
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if err := w.detections.CreateFacialData(&domain.FacialData{
		DetectionID: detection.ID,
		Emotion:     emotion,
	}); err != nil {
		return nil, err
	}
	if err := w.detections.CreateVoiceData(&domain.VoiceData{
		DetectionID: detection.ID,
		Content:     input.VoiceContent,
	}); err != nil {
		return nil, err
	}

	suggestionText := w.generateSuggestion(ctx, emotion, input.VoiceContent)

	if err := w.detections.CreateSuggestion(&domain.WellnessSuggestion{
		DetectionID: detection.ID,
		Suggestion:  suggestionText,
	}); err != nil {
		return nil, err
	}

	acknowledgment, tips := w.SplitSuggestion(suggestionText)

	return &dto.DetectionResponse{
		SessionID:      sessionID,
		Emotion:        emotion,
		VoiceContent:   input.VoiceContent,
		Acknowledgment: acknowledgment,
		Suggestions:    tips,
		EmotionColor:   w.EmotionColor(emotion),
	}, nil
}

// generateSuggestion asks the provider chain and falls back to the static
// table when every provider fails. Never returns an empty string.
func (w *wellnessService) generateSuggestion(ctx context.Context, emotion, content string) string {
	emotion = strings.ToLower(emotion)
	prompt := buildWellnessPrompt(emotion, content)

	text, err := w.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("wellness generation failed: %v", err)
		return fallbackSuggestion(emotion, content)
	}
	return normalizeSuggestion(text, emotion)
}

func containsCrisisKeyword(content string) bool {
	lower := strings.ToLower(content)
	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func buildWellnessPrompt(emotion, content string) string {
	if containsCrisisKeyword(content) {
		return fmt.Sprintf(`As a crisis-aware mental health assistant, respond to someone feeling %s who shared:
"%s"

Provide:
1. A gentle, validating acknowledgment (12-15 words) that takes their words seriously
2. Three suggestions for:
    - Immediate safety and grounding
    - Reaching a trusted person or professional support line
    - One small self-kindness step
3. Format as: "[Acknowledgment] • Suggestion 1 • Suggestion 2 • Suggestion 3"

Never dismiss or minimize. Keep the tone calm and caring.`, emotion, content)
	}

	switch {
	case emotion == "happy" || emotion == "joyful" || emotion == "excited" || emotion == "content":
		return fmt.Sprintf(`As a positivity coach, respond to someone feeling %s who shared:
"%s"

Provide:
1. A warm validation (12-15 words)
2. Three suggestions to:
    - Deepen this positive state
    - Share it with others
    - Create lasting positive memories
3. Format as: "It's wonderful you're feeling %s! • Suggestion 1 • Suggestion 2 • Suggestion 3"

Keep suggestions uplifting and practical.`, emotion, content, emotion)

	case emotion == "sad" || emotion == "depressed" || emotion == "lonely":
		return fmt.Sprintf(`As a compassionate listener, respond to someone feeling %s who shared:
"%s"

Provide:
1. A validating acknowledgment (12-15 words)
2. Three gentle suggestions for:
    - Immediate comfort
    - Connection with others
    - Small steps toward relief
3. Format as: "I hear this %s feeling is hard • Comfort idea • Connection suggestion • Small step"

Use a warm, non-judgmental tone.`, emotion, content, emotion)

	case emotion == "angry" || emotion == "furious" || emotion == "frustrated":
		return fmt.Sprintf(`As an emotional regulation coach, respond to someone feeling %s who shared:
"%s"

Provide:
1. A validating but calming acknowledgment (12-15 words)
2. Three suggestions for:
    - Safe emotional release
    - Shifting perspective
    - Constructive action
3. Format as: "%s makes sense here • Release technique • Perspective shift • Action step"

Keep suggestions practical and non-shaming.`, emotion, content, capitalize(emotion))

	case emotion == "fearful" || emotion == "anxious" || emotion == "stressed" || emotion == "overwhelmed":
		return fmt.Sprintf(`As a calming presence, respond to someone feeling %s who shared:
"%s"

Provide:
1. A grounding acknowledgment (12-15 words)
2. Three suggestions for:
    - Immediate calming
    - Breaking down concerns
    - Regaining control
3. Format as: "%s can feel overwhelming • Calming technique • Perspective tip • Action step"

Make suggestions concrete and doable.`, emotion, content, capitalize(emotion))

	default:
		return fmt.Sprintf(`As a compassionate mental health assistant, respond to someone feeling %s who shared:
"%s"

Provide:
1. A brief (10-15 word) empathetic acknowledgment of their emotion
2. Three (3) concise wellness suggestions (12 words max each) tailored to their situation
3. Format as: "[Acknowledgment] • Suggestion 1 • Suggestion 2 • Suggestion 3"

Make suggestions practical, specific, and emotionally appropriate.`, emotion, content)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// normalizeSuggestion coerces provider output into the canonical
// "acknowledgment • tip • tip • tip" shape the clients expect.
func normalizeSuggestion(text, emotion string) string {
	text = strings.TrimSpace(text)

	if !strings.Contains(text, "•") {
		text = strings.ReplaceAll(text, "*", "•")
		text = strings.ReplaceAll(text, "-", "•")
	}

	if !hasAcknowledgmentPrefix(text) {
		ack := map[string]string{
			"happy":     "I'm glad you're feeling this way!",
			"sad":       "I hear this sadness is difficult.",
			"angry":     "Anger is a valid emotion.",
			"fearful":   "Fear can feel overwhelming.",
			"surprised": "Surprise can be disorienting.",
			"disgusted": "Disgust is a strong reaction.",
			"neutral":   "Your feelings matter.",
		}[emotion]
		if ack == "" {
			ack = "I want to support you."
		}
		text = ack + " • " + text
	}
	return text
}

func hasAcknowledgmentPrefix(text string) bool {
	for _, p := range []string{"I ", "It", "You", "We", "This", "Your"} {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// fallbackSuggestion is the static table used when every provider fails.
func fallbackSuggestion(emotion, content string) string {
	switch emotion {
	case "happy", "joyful":
		return "It's wonderful you're feeling this way! • Savor this moment • Share your joy with someone • Note what created this happiness"
	case "excited":
		return "Excitement is energizing! • Channel this energy productively • Share your enthusiasm • Balance excitement with rest"
	case "content":
		return "Contentment is precious • Appreciate this peaceful moment • Do something kind for yourself • Note what brought this satisfaction"
	case "sad", "depressed":
		return "I hear this sadness feels heavy • Be gentle with yourself • Reach out to someone safe • Small comforts can help"
	case "angry", "furious":
		return "Anger points to important needs • Pause before reacting • Physical activity can help • Consider the need beneath anger"
	case "fearful", "anxious":
		return "Fear feels overwhelming • Ground with deep breaths • Break concerns into smaller pieces • You've survived 100% of hard days"
	case "surprised", "shocked":
		return "Surprise can be disorienting • Give yourself time to process • Assess if this is helpful/harmful • Reach out if needed"
	case "disgusted":
		return "Disgust is a strong reaction • Distance yourself if possible • Practice cleansing rituals • Be kind to yourself after"
	case "tired":
		return "Fatigue deserves compassion • Rest without guilt • Hydrate and nourish your body • Small breaks help"
	case "stressed":
		return "Stress feels overwhelming • Prioritize one small task • 5-minute breaks reset focus • This difficult period will pass"
	}

	lower := strings.ToLower(content)
	if containsAny(lower, "cheat", "betray", "lied") {
		return "Betrayal cuts deep • Your pain is valid • Consider talking to a trusted friend • Avoid major decisions while raw"
	}
	if containsAny(lower, "work", "job", "boss") {
		return "Work stress is real • Set small, manageable goals • Breathe before responding • Your worth isn't defined by productivity"
	}
	if containsAny(lower, "lonely", "alone", "isolated") {
		return "Loneliness is painful • Reach out to one person today • Join an online community • This feeling doesn't define your worth"
	}

	return "Your feelings matter • Practice mindful breathing • Break challenges into steps • Progress isn't always linear"
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// EmotionIntensity classifies an emotion label into mild, moderate or
// severe. The mapping is fixed so the same label always lands in the same
// tier.
func EmotionIntensity(emotion string) string {
	emotion = strings.ToLower(strings.TrimSpace(emotion))
	switch {
	case mildEmotions[emotion]:
		return "mild"
	case severeEmotions[emotion]:
		return "severe"
	default:
		return "moderate"
	}
}

func (w *wellnessService) GetDiagnosis(ctx context.Context, userID uint, windowDays int) (*dto.DiagnosisResponse, error) {
	if windowDays < 1 {
		windowDays = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -windowDays)

	detections, err := w.detections.ListByUserSince(userID, since)
	if err != nil {
		return nil, err
	}

	tally := map[string]int{}
	intensity := map[string]int{"mild": 0, "moderate": 0, "severe": 0}
	crisis := false

	for _, det := range detections {
		if det.FacialData != nil {
			label := strings.ToLower(strings.TrimSpace(det.FacialData.Emotion))
			tally[label]++
			intensity[EmotionIntensity(label)]++
		}
		if det.VoiceData != nil && containsCrisisKeyword(det.VoiceData.Content) {
			crisis = true
		}
	}

	summary := w.generateDiagnosisSummary(ctx, tally, intensity, crisis, windowDays, len(detections))

	return &dto.DiagnosisResponse{
		Summary:            summary,
		Tally:              tally,
		IntensityBreakdown: intensity,
		CrisisDetected:     crisis,
		WindowDays:         windowDays,
		DetectionCount:     len(detections),
	}, nil
}

// generateDiagnosisSummary sends only the aggregate counts to the provider,
// never raw voice content.
func (w *wellnessService) generateDiagnosisSummary(ctx context.Context, tally map[string]int, intensity map[string]int, crisis bool, windowDays, total int) string {
	if total == 0 {
		return fmt.Sprintf("No emotion detections recorded in the last %d days. Check in with a session to start tracking how you feel.", windowDays)
	}

	labels := make([]string, 0, len(tally))
	for label := range tally {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var sb strings.Builder
	for i, label := range labels {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %d", label, tally[label])
	}

	prompt := fmt.Sprintf(`As a supportive mental health assistant, write a short (3-4 sentence) reflection for someone based on their emotion check-ins over the last %d days.

Emotion counts: %s
Intensity breakdown: mild %d, moderate %d, severe %d

Be warm and encouraging, name the dominant pattern, and suggest one gentle next step. Do not diagnose any medical condition.`,
		windowDays, sb.String(), intensity["mild"], intensity["moderate"], intensity["severe"])

	if crisis {
		prompt += "\n\nSome entries mention self-harm. Include one sentence encouraging them to reach out to a trusted person or a professional support line."
	}

	text, err := w.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("diagnosis summary generation failed: %v", err)
		return fallbackDiagnosisSummary(tally, intensity, crisis, windowDays, total)
	}
	return strings.TrimSpace(text)
}

func fallbackDiagnosisSummary(tally map[string]int, intensity map[string]int, crisis bool, windowDays, total int) string {
	dominant := ""
	max := 0
	labels := make([]string, 0, len(tally))
	for label := range tally {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if tally[label] > max {
			dominant = label
			max = tally[label]
		}
	}

	summary := fmt.Sprintf("Over the last %d days you recorded %d check-ins, most often feeling %s (%d of mild, %d of moderate, %d of severe intensity). Keep checking in with yourself; small, regular moments of awareness add up.",
		windowDays, total, dominant, intensity["mild"], intensity["moderate"], intensity["severe"])
	if crisis {
		summary += " Some of your entries sound really heavy. Please consider reaching out to someone you trust or a professional support line."
	}
	return summary
}

// LLM chain satisfies TextGenerator.
var _ TextGenerator = (*llm.Chain)(nil)
