package answers

import (
	"fmt"
	"strings"

	"github.com/ternarybob/lectio/internal/models"
)

// systemPrompt constrains answers to the retrieved fragments so the model
// cannot fall back on its own knowledge.
const systemPrompt = `You are a helpful assistant that answers questions using only the provided document fragments.

Rules:
- Answer using only information found in the document fragments below.
- If the fragments do not contain enough information to answer, say so plainly instead of guessing.
- Do not use outside knowledge.
- Keep answers concise and directly address the question.`

// NoResultsAnswer is returned when retrieval finds nothing to ground an
// answer on. The generator is never invoked in that case.
const NoResultsAnswer = "I could not find any relevant content in the uploaded documents to answer your question."

// buildUserPrompt renders the retrieved fragments and the question into a
// single user message, fragments numbered in retrieval order.
func buildUserPrompt(question string, chunks []models.RetrievalResult) string {
	var b strings.Builder
	b.WriteString("Document fragments:\n\n")
	for i, chunk := range chunks {
		fmt.Fprintf(&b, "Document fragment %d (page %d):\n%s\n\n", i+1, chunk.PageNumber, chunk.Text)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
