package evaluation

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/mentor/internal/quiz"
	"github.com/ziadkadry99/mentor/internal/vectordb"
)

const judgeSystemPrompt = `You are grading a student's short answer against the expected answer.

Respond with a JSON object in exactly this format:
{
  "score": <number from 0 to 100>,
  "correct": <true or false>,
  "feedback": "<one or two sentences explaining the grade>"
}

Grading rules:
- Award full credit for answers that convey the same meaning as the expected answer, even with different wording.
- Award partial credit when the answer is incomplete but on the right track.
- Base the grade only on factual correctness, not on grammar or style.
- Keep feedback constructive and specific.`

func buildJudgePrompt(q quiz.Question, answer string, chunks []vectordb.SearchResult) string {
	var b strings.Builder
	b.WriteString(judgeSystemPrompt)

	if len(chunks) > 0 {
		b.WriteString("\n\nReference material the quiz was drawn from:\n")
		for _, c := range chunks {
			b.WriteString("\n---\n")
			b.WriteString(c.Chunk.Text)
		}
	}

	fmt.Fprintf(&b, "\n\nQuestion: %s\n", q.Prompt)
	fmt.Fprintf(&b, "Expected answer: %s\n", q.CorrectAnswer)
	fmt.Fprintf(&b, "Student answer: %s\n", answer)
	return b.String()
}
