package quiz

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/mentor/internal/classifier"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

const quizFormat = `Respond ONLY with a JSON object in exactly this format:
{
  "questions": [
    {
      "prompt": "Question text here?",
      "type": "multiple_choice or short_answer",
      "options": ["first option", "second option", "third option", "fourth option"],
      "correct_answer": "exactly one of the options for multiple_choice, or the expected answer for short_answer"
    }
  ]
}

For short_answer questions, omit "options" entirely.
For multiple_choice questions, "correct_answer" must be copied verbatim from "options".`

func buildQuizPrompt(topic string, chunks []vectordb.SearchResult, difficulty classifier.Difficulty, count int) string {
	var b strings.Builder
	b.WriteString("You are an expert quiz creator for educational purposes.\n\n")
	fmt.Fprintf(&b, "Generate exactly %d %s-level questions about: %s\n\n", count, difficulty, topic)
	b.WriteString("Requirements:\n")
	b.WriteString("- Questions must test understanding, not just memorization\n")
	b.WriteString("- Mix multiple_choice and short_answer questions\n")
	fmt.Fprintf(&b, "- Multiple choice questions need 2 to 6 distinct options\n")

	if len(chunks) == 0 {
		b.WriteString("- No study material is available; base questions on general knowledge of the topic\n")
	} else {
		b.WriteString("- Every question must be answerable from the study material below\n")
		b.WriteString("\nStudy material:\n")
		for _, c := range chunks {
			b.WriteString(c.Chunk.Text)
			b.WriteString("\n\n---\n\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(quizFormat)
	return b.String()
}

// buildRetryPrompt restates the rules after a failed attempt, quoting the
// validation problems so the model can correct them.
func buildRetryPrompt(topic string, chunks []vectordb.SearchResult, difficulty classifier.Difficulty, count int, reason string) string {
	var b strings.Builder
	b.WriteString(buildQuizPrompt(topic, chunks, difficulty, count))
	b.WriteString("\n\nYour previous attempt was rejected: ")
	b.WriteString(reason)
	fmt.Fprintf(&b, "\nReturn exactly %d questions this time. Follow the JSON format strictly.", count)
	return b.String()
}
