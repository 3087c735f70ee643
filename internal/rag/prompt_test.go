package rag

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("chunk one\n\nchunk two", "What is stability testing?")

	if !strings.Contains(prompt, "chunk one\n\nchunk two") {
		t.Error("BuildPrompt() omitted the context block")
	}
	if !strings.Contains(prompt, "Question: What is stability testing?") {
		t.Error("BuildPrompt() omitted the question")
	}
	if !strings.Contains(prompt, "ICH guidelines") {
		t.Error("BuildPrompt() omitted the grounding instruction")
	}
	if !strings.HasSuffix(prompt, "Answer:") {
		t.Error("BuildPrompt() must end with the answer cue")
	}
}

func TestBuildPrompt_EmptyContext(t *testing.T) {
	// An empty index still yields a prompt; the model answers without
	// retrieved grounding.
	prompt := BuildPrompt("", "What is GCP?")

	if !strings.Contains(prompt, "Question: What is GCP?") {
		t.Error("BuildPrompt() omitted the question")
	}
	if strings.Contains(prompt, "%s") {
		t.Error("BuildPrompt() left an unfilled placeholder")
	}
}

func TestBuildPrompt_QuestionVerbatim(t *testing.T) {
	// Formatting characters in the question must pass through untouched.
	question := `contains 100% of "quoted" text and a %d verb`
	prompt := BuildPrompt("ctx", question)

	if !strings.Contains(prompt, question) {
		t.Error("BuildPrompt() altered the question text")
	}
}
