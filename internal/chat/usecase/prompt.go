package usecase

import (
	"fmt"
	"strings"

	"policy-training-assistant/internal/chat"
	"policy-training-assistant/internal/model"
	"policy-training-assistant/pkg/llmprovider"
)

// buildRequest assembles the generation request. Every route that reaches
// generation goes through this one builder; the safety instruction arrives
// as data and is appended verbatim when non-empty, so no route can end up
// with its own variant of the hedging rules.
func buildRequest(message string, history []model.ChatTurn, record *model.TrainingRecord, outcome chat.GateOutcome, safety string) *llmprovider.Request {
	system := PromptPersona
	if safety != "" {
		system += "\n\n" + safety
	}

	var sb strings.Builder

	if len(outcome.Kept) > 0 {
		sb.WriteString(PromptEvidenceHeader)
		sb.WriteString("\n\n")
		for i, ev := range outcome.Kept {
			sb.WriteString(fmt.Sprintf("-- 근거 %d (관련도: %.0f%%) --\n", i+1, ev.Score*100))
			if ev.StructuralLabel != "" {
				sb.WriteString(fmt.Sprintf("[%s] ", ev.StructuralLabel))
			}
			sb.WriteString(ev.Title)
			sb.WriteString("\n")
			sb.WriteString(truncateText(ev.Snippet, MaxEvidenceChars))
			sb.WriteString("\n\n")
		}
	}

	if record != nil {
		sb.WriteString(PromptRecordHeader)
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("전체 진도율: %.0f%%\n", record.OverallProgress))
		writeCourses(&sb, "이수 완료", record.CompletedCourses)
		writeCourses(&sb, "미이수", record.PendingCourses)
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("질문: %q", message))

	messages := make([]llmprovider.Message, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, llmprovider.Message{
			Role:  turn.Role,
			Parts: []llmprovider.Part{{Text: turn.Content}},
		})
	}
	messages = append(messages, llmprovider.Message{
		Role:  "user",
		Parts: []llmprovider.Part{{Text: sb.String()}},
	})

	return &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{
			Role:  "system",
			Parts: []llmprovider.Part{{Text: system}},
		},
		Messages:    messages,
		Temperature: GenerateTemperature,
		MaxTokens:   GenerateMaxTokens,
	}
}

func writeCourses(sb *strings.Builder, label string, courses []model.CourseProgress) {
	if len(courses) == 0 {
		return
	}
	sb.WriteString(label)
	sb.WriteString(":\n")
	for _, c := range courses {
		line := fmt.Sprintf("- %s (진도 %.0f%%", c.Title, c.Progress)
		if c.DueDate != "" {
			line += ", 기한 " + c.DueDate
		}
		if c.MandateTag != "" {
			line += ", " + c.MandateTag
		}
		line += ")\n"
		sb.WriteString(line)
	}
}

// truncateText safely truncates text to maxLen characters (Unicode-safe).
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "... [중략]"
}
