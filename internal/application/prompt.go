package application

import "fmt"

const (
	// SystemPrompt is the fixed system instruction sent with every completion.
	SystemPrompt = "You are an expert prompt engineer."

	// Temperature is the fixed sampling temperature for every completion.
	Temperature = 0.7

	// ErrorPrefix starts the user-visible text of a failed completion.
	ErrorPrefix = "Error: "
)

// instructionTemplate takes role, context and task, in that order. Its lines
// carry no leading indentation and the text starts directly at "Please".
const instructionTemplate = `Please enhance the following prompt components to create a comprehensive and effective prompt.
Add structure, specific instructions for response format, and explicit request for assumption clarification.

Original Components:
Role: %s
Context: %s
Task: %s

Create an enhanced prompt that:
1. Maintains the original role, context, and task
2. Adds specific instructions for response format
3. Explicitly requests assumption clarification
4. Includes any necessary additional context or specifications
5. Structures the output in a clear, organized way`

// BuildInstruction interpolates role, context and task into the fixed
// instruction template. It is pure: the same inputs always produce the same
// bytes, and the inputs are inserted as-is with no escaping or trimming.
func BuildInstruction(role, context, task string) string {
	return fmt.Sprintf(instructionTemplate, role, context, task)
}
