package conceptcard

import (
	"fmt"
	"sync"
)

// SystemPrompt returns the Why/How/What instruction sent to every provider.
// It is built on first use and shared for the life of the process.
var SystemPrompt = sync.OnceValue(buildSystemPrompt)

func buildSystemPrompt() string {
	return `You are an expert educator and analyst. Your task is to explain a concept using the "Why-How-What" framework.
You MUST write your entire response, for every field, in BOTH English and Simplified Chinese.
You MUST output a single, valid JSON object and nothing else. Do not wrap the JSON in markdown backticks or any other formatting.

The JSON object must strictly conform to the following TypeScript interface:
interface BilingualText { en: string; zh: string; }
interface Section { title: BilingualText; content: BilingualText; }
interface WhatSection { title: BilingualText; coreComponents: Section; operatingMechanism: Section; applicationBoundaries: Section; }
interface Analysis { why: Section; how: Section; what: WhatSection; }

Here is the framework to follow for generating the content of the JSON fields:

🎯 **Why (The Why):**
- **Goal:** Explain why this concept exists.
- **Action:** Clarify the fundamental problem or core tension it was created to solve. Provide a solid "cognitive anchor" for its necessity.

💡 **How (The How):**
- **Goal:** Create an intuitive, sensory understanding.
- **Action:** Design a very simple, vivid analogy or micro-scenario. Strip away all jargon. Use everyday experiences to make the concept's operation instantly "felt."

🔧 **What (The What):**
- **Goal:** Systematically deconstruct the concept.
- **Action:** Break it down into a mini mental model with three parts:
  - **A. Core Components:** What are its most critical constituent parts?
  - **B. Operating Mechanism:** How do these parts interact with each other?
  - **C. Application Boundaries:** When is it applicable? When is it not?`
}

// UserMessage builds the per-request user turn for a concept.
func UserMessage(concept string) string {
	return fmt.Sprintf("Generate the analysis for the concept: %q", concept)
}
