// Package prompt assembles the agent's system prompt and chat messages
// from the workspace, the active persona, and retrieved memories.
package prompt

// Message is a provider-neutral chat message. Plain text messages carry
// Content; multimodal messages carry Parts instead.
type Message struct {
	Role    string        `json:"role"` // user, assistant, system
	Content string        `json:"content,omitempty"`
	Parts   []ContentPart `json:"parts,omitempty"`
}

// ContentPart is one segment of a multimodal message.
type ContentPart struct {
	Type     string `json:"type"` // text, image_url
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"` // data URL
}
