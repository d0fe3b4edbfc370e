package prompts

// Prompt IDs used by the translator.
const (
	SystemPromptID = "translate_system"
	ChunkPromptID  = "translate_chunk"
)

// Variables understood by the translation prompts.
const (
	VarSourceLang = "source_lang"
	VarTargetLang = "target_lang"
	VarLineCount  = "line_count"
)

func init() {
	registry := DefaultRegistry()

	registry.Register(&Prompt{
		ID:          SystemPromptID,
		Version:     PromptV1,
		Content:     "You are a helpful assistant.",
		Description: "Minimal system message",
		Tags:        []string{"system"},
	})

	registry.Register(&Prompt{
		ID:      SystemPromptID,
		Version: PromptV2,
		Content: `You are a professional subtitle translator working from {{source_lang}} to {{target_lang}}.
You receive numbered blocks. Each block is a line holding only a number, followed by the text to translate.
Rules:
- Answer with the same numbers, in the same order, each on its own line.
- Translate the text under each number; never merge, split or drop blocks.
- Separate blocks with one blank line. Do not add notes or explanations.
- Keep lines you cannot translate (names, sound effects, music) unchanged.`,
		Description: "System instruction with a format exemplar",
		Tags:        []string{"system", "strict"},
		Exemplars: []Exemplar{
			{
				User:      "Translate from {{source_lang}} to {{target_lang}}:\n\n1\n♪ ♪\n\n2\n♪",
				Assistant: "1\n♪ ♪\n\n2\n♪",
			},
		},
	})

	registry.Register(&Prompt{
		ID:      ChunkPromptID,
		Version: PromptV1,
		Content: "Please translate the following subtitles from {{source_lang}} to {{target_lang}}. " +
			"Keep the numbered lines in between each subtitle as they are needed for synchronization:",
		Description: "Chunk instruction; the encoded chunk is appended as a fragment",
		Tags:        []string{"chunk"},
	})

	registry.Register(&Prompt{
		ID:      ChunkPromptID,
		Version: PromptV2,
		Content: "Please translate the following subtitles from {{source_lang}} to {{target_lang}}. " +
			"Keep the numbered lines in between each subtitle as they are needed for synchronization. " +
			"Reply with exactly {{line_count}} numbered blocks and nothing else:",
		Description: "Chunk instruction stating the expected block count",
		Tags:        []string{"chunk", "strict"},
	})
}
