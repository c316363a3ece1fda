package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"github.com/storyboard/backend/internal/config"
	"google.golang.org/api/option"
)

// scenePrompt instructs the model to break a script into scenes and answer
// with a bare JSON array.
const scenePrompt = `You are a professional assistant for analyzing film scripts. Your task is to break the script down into distinct scenes.

Keep in mind that a single scene may later be covered by several separate shots.

IMPORTANT: You MUST return the result as a valid JSON array, with NO markdown or other formatting. Each scene must be a JSON object with the structure:

{
  "content": "Detailed description of the scene"
}

Formatting notes:
- If the description contains double quotes ("), you MUST escape them with a backslash (\") (for example: \"one night stand\").
- Return a plain JSON array with no explanatory text.

Analysis guidelines:
1. Read the script and split it into logical scenes
2. Each scene should cover: location, time of day, main action
3. Describe clearly and in enough detail for a director to visualize
4. Use standard screenplay format: "EXT./INT. - LOCATION - TIME - Description of the action"

Example output:
[
  {"content": "EXT. - PARK - DAY - A man sits on a stone bench, watching children play."},
  {"content": "INT. - CAFE - EVENING - A woman takes a sip of coffee, gazing out of the window lost in thought."}
]

Return only the JSON array, nothing else.`

var (
	markdownFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	contentValueRe  = regexp.MustCompile(`(?s)"content":\s*"(.*?)"(\s*[,}\]])`)
)

type generatedScene struct {
	Content string `json:"content"`
}

type AIService struct {
	cfg      *config.Config
	settings *SettingsService
}

func NewAIService(cfg *config.Config, settings *SettingsService) *AIService {
	return &AIService{cfg: cfg, settings: settings}
}

// GenerateScenes asks Gemini to break the script into scenes and returns them
// as fresh scene inputs ready for reconciliation.
func (s *AIService) GenerateScenes(ctx context.Context, script string) ([]SceneInput, error) {
	if strings.TrimSpace(script) == "" {
		return nil, fmt.Errorf("%w: script content is required", ErrInvalidInput)
	}
	apiKey, err := s.settings.APIKey()
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.cfg.GeminiModel)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(scenePrompt)}}

	resp, err := model.GenerateContent(ctx, genai.Text(script))
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini API returned no content")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("gemini API returned non-text content")
	}

	scenes, err := parseSceneList(string(text))
	if err != nil {
		return nil, err
	}

	inputs := make([]SceneInput, 0, len(scenes))
	for i, scene := range scenes {
		order := i
		inputs = append(inputs, SceneInput{
			ID:      PendingRef(),
			Order:   &order,
			Content: strings.TrimSpace(scene.Content),
		})
	}
	return inputs, nil
}

// parseSceneList extracts and decodes the scene array from a raw model
// response, repairing unescaped quotes on a second attempt.
func parseSceneList(text string) ([]generatedScene, error) {
	jsonText := extractJSONArray(text)

	var scenes []generatedScene
	if err := json.Unmarshal([]byte(jsonText), &scenes); err != nil {
		repaired := escapeContentQuotes(jsonText)
		if err2 := json.Unmarshal([]byte(repaired), &scenes); err2 != nil {
			log.WithField("response", text).Warn("failed to parse AI scene response")
			return nil, fmt.Errorf("%w: AI response is not valid JSON", ErrInvalidInput)
		}
	}

	if len(scenes) == 0 {
		return nil, fmt.Errorf("%w: no scenes generated from script", ErrInvalidInput)
	}
	for _, scene := range scenes {
		if strings.TrimSpace(scene.Content) == "" {
			return nil, fmt.Errorf("%w: each scene must have content", ErrInvalidInput)
		}
	}
	return scenes, nil
}

// extractJSONArray pulls the JSON payload out of a model response that may be
// wrapped in a markdown fence or surrounded by prose.
func extractJSONArray(text string) string {
	if m := markdownFenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start != -1 && end > start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}

// escapeContentQuotes backslash-escapes double quotes inside "content" string
// values; models regularly forget to escape them.
func escapeContentQuotes(jsonText string) string {
	return contentValueRe.ReplaceAllStringFunc(jsonText, func(match string) string {
		m := contentValueRe.FindStringSubmatch(match)
		escaped := strings.ReplaceAll(m[1], `\"`, "\x00")
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		escaped = strings.ReplaceAll(escaped, "\x00", `\"`)
		return `"content": "` + escaped + `"` + m[2]
	})
}
