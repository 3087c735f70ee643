package rag

import "fmt"

// answerTemplate is the grounding prompt. It instructs the model to answer
// as a regulatory-guideline expert strictly from the supplied context, to
// reference the relevant guideline portion, to flag inference beyond the
// context, and to briefly define technical terms.
const answerTemplate = `You are an expert in pharmaceutical regulation.
Answer the question accurately and professionally based on the content of the ICH guidelines.

Reference context:
%s

Question: %s

When answering:
- Base the answer on the content of the ICH guidelines
- Explicitly reference the relevant part of a guideline when one applies
- State clearly when an answer requires inference beyond the given context
- Add a brief explanation for technical terms where needed

Answer:`

// BuildPrompt fills the grounding template with the retrieved context block
// and the verbatim question. Pure substitution, no other behavior.
func BuildPrompt(context, question string) string {
	return fmt.Sprintf(answerTemplate, context, question)
}
