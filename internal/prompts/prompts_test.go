package prompts

import (
	"strings"
	"testing"
)

func TestRegistryLatest(t *testing.T) {
	r := NewPromptRegistry()
	r.Register(&Prompt{ID: "p", Version: PromptV1, Content: "one"})
	r.Register(&Prompt{ID: "p", Version: PromptV2, Content: "two", Deprecated: true})

	p, err := r.GetLatest("p")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if p.Content != "one" {
		t.Errorf("GetLatest() = %q, want the non-deprecated version", p.Content)
	}

	if _, err := r.Get("missing", PromptV1); err == nil {
		t.Error("Get(missing) error = nil")
	}

	versions := r.Versions("p")
	if len(versions) != 2 || versions[0] != PromptV1 || versions[1] != PromptV2 {
		t.Errorf("Versions() = %v", versions)
	}
}

func TestRegisterIgnoresIncompletePrompts(t *testing.T) {
	r := NewPromptRegistry()
	r.Register(nil)
	r.Register(&Prompt{ID: "", Version: PromptV1})
	r.Register(&Prompt{ID: "x"})
	if ids := r.List(); len(ids) != 0 {
		t.Errorf("List() = %v, want empty", ids)
	}
}

func TestBuilderSubstitutesVariables(t *testing.T) {
	b, err := NewPromptBuilder(DefaultRegistry(), ChunkPromptID, PromptV2)
	if err != nil {
		t.Fatalf("NewPromptBuilder() error = %v", err)
	}
	b.SetVariable(VarSourceLang, "Japanese").
		SetVariable(VarTargetLang, "English").
		SetVariable(VarLineCount, "2").
		AddFragment("1\n{{not a variable}}\n\n2\nb")

	got, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.Contains(got, "from Japanese to English") {
		t.Errorf("Build() = %q, missing languages", got)
	}
	if !strings.Contains(got, "exactly 2 numbered blocks") {
		t.Errorf("Build() = %q, missing line count", got)
	}
	if !strings.HasSuffix(got, ":\n\n1\n{{not a variable}}\n\n2\nb") {
		t.Errorf("Build() = %q, fragment not appended verbatim", got)
	}
}

func TestBuilderRejectsUnresolvedVariables(t *testing.T) {
	b, err := NewPromptBuilder(DefaultRegistry(), ChunkPromptID, "")
	if err != nil {
		t.Fatalf("NewPromptBuilder() error = %v", err)
	}
	b.SetVariable(VarSourceLang, "Japanese")
	if _, err := b.Build(); err == nil {
		t.Error("Build() with missing variables error = nil")
	}
}

func TestSystemExemplars(t *testing.T) {
	b, err := NewPromptBuilder(DefaultRegistry(), SystemPromptID, PromptV2)
	if err != nil {
		t.Fatalf("NewPromptBuilder() error = %v", err)
	}
	b.SetVariable(VarSourceLang, "Korean").SetVariable(VarTargetLang, "English")
	ex := b.Exemplars()
	if len(ex) != 1 {
		t.Fatalf("Exemplars() = %d, want 1", len(ex))
	}
	if !strings.HasPrefix(ex[0].User, "Translate from Korean to English") {
		t.Errorf("exemplar user = %q", ex[0].User)
	}
}
