package lessons

import (
	"strings"
	"testing"
)

func TestBuildSystemPromptTaughtLesson(t *testing.T) {
	persona, err := PersonaByID("")
	if err != nil {
		t.Fatalf("PersonaByID: %v", err)
	}
	lesson := teach("n5-1", "N5语法", "我是谁？", "名词1+は+名词2+です/ではありません", "5m")

	prompt := BuildSystemPrompt(lesson, persona)

	for _, want := range []string{persona.Prompt, `"==="`, "<<<", lesson.Title, lesson.InitialPrompt} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("system prompt missing %q", want)
		}
	}
}

func TestBuildSystemPromptRoleplay(t *testing.T) {
	lesson := roleplayLessons[0]
	persona, _ := PersonaByID("toxic")

	prompt := BuildSystemPrompt(lesson, persona)

	if strings.Contains(prompt, "{{ROLE}}") || strings.Contains(prompt, "{{SCENARIO}}") || strings.Contains(prompt, "{{OBJECTIVE}}") {
		t.Fatalf("unreplaced placeholder in prompt:\n%s", prompt)
	}
	for _, want := range []string{lesson.Roleplay.Role, lesson.Roleplay.Scenario, lesson.Roleplay.Objective, lesson.InitialPrompt} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("roleplay prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, persona.Prompt) {
		t.Fatal("roleplay prompt should not carry the persona framing")
	}
}

func TestBuildSummaryPromptTranscript(t *testing.T) {
	prompt := BuildSummaryPrompt([]TranscriptLine{
		{FromUser: false, Text: "今天学「は」"},
		{FromUser: true, Text: "好的！"},
	})
	if !strings.Contains(prompt, "Assistant: 今天学「は」") {
		t.Fatalf("prompt missing assistant line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "User: 好的！") {
		t.Fatalf("prompt missing user line:\n%s", prompt)
	}
}

func TestPersonaByID(t *testing.T) {
	if len(Personas()) != 8 {
		t.Fatalf("personas = %d, want 8", len(Personas()))
	}
	def, err := PersonaByID("")
	if err != nil || def.ID != DefaultPersonaID {
		t.Fatalf("default persona = %+v, err %v", def, err)
	}
	if _, err := PersonaByID("ghost"); err == nil {
		t.Fatal("unknown persona returned nil error")
	}
}
