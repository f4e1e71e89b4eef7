package persona

import "github.com/zhouzirui/hair-care-chat/backend/internal/analysis/topic"

// Persona 描述助手对外声明的专长领域，驱动提示词与关键词兜底。
type Persona struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Specialty    string   `json:"specialty"`
	Tone         string   `json:"tone"`
	Capabilities []string `json:"capabilities"`
	Keywords     []string `json:"-"`
	// WelcomeExample 与 RedirectExample 作为提示词中的示例回复。
	WelcomeExample  string `json:"-"`
	RedirectExample string `json:"-"`
	Emoji           string `json:"emoji,omitempty"`
}

// DefaultID 是默认助手的标识。
const DefaultID = "hair-care"

// Seed provides the built-in hair care assistant.
func Seed() []Persona {
	return []Persona{
		{
			ID:        DefaultID,
			Name:      "Hair Care Assistant",
			Specialty: "hair care",
			Tone:      "friendly, simple, encouraging",
			Capabilities: []string{
				"Hair care tips",
				"Styling advice",
				"Product recommendations",
			},
			Keywords:        append([]string(nil), topic.DefaultKeywords...),
			WelcomeExample:  "Hi! I'm your hair care assistant. I can help with:\n• Hair care tips\n• Styling advice\n• Product recommendations\nWhat would you like to know? 💇‍♀️",
			RedirectExample: "I specialize in hair care advice! Try asking about hair health or styling tips instead. 💇‍♀️",
			Emoji:           "💇‍♀️",
		},
	}
}
