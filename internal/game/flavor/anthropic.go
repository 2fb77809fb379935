package flavor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic is a Provider that asks an Anthropic model for a short passenger
// profile. Responses must be strict JSON; anything else is an error and the
// caller falls back.
type Anthropic struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropic creates an Anthropic flavor provider.
//
// Precondition: apiKey and model must be non-empty.
func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

// Passenger asks the model for a passenger profile for the given shift label.
//
// Postcondition: Returns a complete Passenger or a non-nil error.
func (a *Anthropic) Passenger(ctx context.Context, shiftLabel string) (Passenger, error) {
	prompt := fmt.Sprintf(`Сгенерируй очень короткий JSON профиль пассажира такси для смены %q в России.
Обязательные поля: "name" (имя на русском), "story" (история максимум 10 слов на русском, смешная или жизненная, например "Везет кота к ветеринару" или "Едет на свидание вслепую"), "destination" (место назначения на русском, например "Центральный Рынок").
Сделай разнообразно. Ответь только JSON-объектом без пояснений.`, shiftLabel)

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 256,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Passenger{}, fmt.Errorf("requesting passenger profile: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	var p Passenger
	if err := json.Unmarshal([]byte(stripFences(sb.String())), &p); err != nil {
		return Passenger{}, fmt.Errorf("parsing passenger profile: %w", err)
	}
	if !p.complete() {
		return Passenger{}, fmt.Errorf("incomplete passenger profile: %+v", p)
	}
	return p, nil
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
