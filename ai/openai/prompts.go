package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/sourcetrace/ai"
)

const taggingResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "tags": {
      "type": "array",
      "items": {"type": "string"}
    }
  },
  "required": ["tags"],
  "additionalProperties": false
}`

const taggingPromptTemplate = `Assign a Universal Dependencies part-of-speech tag to every token you are given.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The input is a JSON array of tokens. Return exactly one tag per token, in the same order.
- Each tag must be one of: %s.
- Do not merge or split tokens.

Example:
Input: ["The","fox","jumps","over","2","dogs"]
Output:
{"tags":["DET","NOUN","VERB","ADP","NUM","NOUN"]}`

const meaningfulnessResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "has_verb": {"type": "boolean"},
    "has_subject": {"type": "boolean"}
  },
  "required": ["has_verb", "has_subject"],
  "additionalProperties": false
}`

const meaningfulnessPromptTemplate = `Decide whether the given text is a complete sentence.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Your output must exactly follow this schema:

%s

Rules:
- "has_verb" is true when the text contains a finite verb or auxiliary.
- "has_subject" is true when that verb has a nominal subject.
- Headings, captions, bare lists and fragments have no subject.

Example:
Input: "Water boils at 100 degrees Celsius."
Output:
{"has_verb":true,"has_subject":true}

Example:
Input: "Materials and methods"
Output:
{"has_verb":false,"has_subject":false}`

func buildTaggingPrompt() string {
	return fmt.Sprintf(taggingPromptTemplate, taggingResponseSchema, strings.Join(ai.Tags, ", "))
}

func buildMeaningfulnessPrompt() string {
	return fmt.Sprintf(meaningfulnessPromptTemplate, meaningfulnessResponseSchema)
}
