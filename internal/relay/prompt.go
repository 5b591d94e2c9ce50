package relay

import (
	"encoding/json"
	"fmt"
)

const promptTemplate = `You are SHEM-AI, a smart home energy assistant.
Current Energy Data: %s
User Question: %s
Provide a concise, helpful response focusing on energy efficiency and cost savings. Keep it under 50 words unless asked for details.`

// ComposePrompt embeds the serialized context data and the question into the
// assistant template. encoding/json sorts map keys, so equal inputs always
// produce the same prompt.
func ComposePrompt(prompt string, contextData map[string]interface{}) (string, error) {
	if contextData == nil {
		contextData = map[string]interface{}{}
	}
	data, err := json.Marshal(contextData)
	if err != nil {
		return "", fmt.Errorf("serialize context data: %w", err)
	}
	return fmt.Sprintf(promptTemplate, data, prompt), nil
}
