package interview

import "strings"

// Wire types for the Gemini Live bidirectional websocket.

type ClientMessage struct {
	Setup         *Setup         `json:"setup,omitempty"`
	ClientContent *ClientContent `json:"clientContent,omitempty"`
	RealtimeInput *RealtimeInput `json:"realtimeInput,omitempty"`
}

type Setup struct {
	Model             string           `json:"model"`
	GenerationConfig  GenerationConfig `json:"generationConfig"`
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
}

type GenerationConfig struct {
	ResponseModalities []string      `json:"responseModalities"`
	SpeechConfig       *SpeechConfig `json:"speechConfig,omitempty"`
}

type SpeechConfig struct {
	VoiceConfig VoiceConfig `json:"voiceConfig"`
}

type VoiceConfig struct {
	PrebuiltVoiceConfig PrebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type ClientContent struct {
	Turns        []Content `json:"turns"`
	TurnComplete bool      `json:"turnComplete"`
}

type RealtimeInput struct {
	MediaChunks []Blob `json:"mediaChunks"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob carries base64 data.
type Blob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type ServerMessage struct {
	SetupComplete *struct{}      `json:"setupComplete,omitempty"`
	ServerContent *ServerContent `json:"serverContent,omitempty"`
}

type ServerContent struct {
	ModelTurn    *Content `json:"modelTurn,omitempty"`
	TurnComplete bool     `json:"turnComplete,omitempty"`
	Interrupted  bool     `json:"interrupted,omitempty"`
}

func setupMessage(model, voice, instruction string) ClientMessage {
	s := &Setup{
		Model:            model,
		GenerationConfig: GenerationConfig{ResponseModalities: []string{"AUDIO"}},
	}
	if voice != "" {
		s.GenerationConfig.SpeechConfig = &SpeechConfig{
			VoiceConfig: VoiceConfig{PrebuiltVoiceConfig: PrebuiltVoiceConfig{VoiceName: voice}},
		}
	}
	if instruction != "" {
		s.SystemInstruction = &Content{Parts: []Part{{Text: instruction}}}
	}
	return ClientMessage{Setup: s}
}

// TextTurn builds a complete user turn holding text.
func TextTurn(text string) ClientMessage {
	return ClientMessage{ClientContent: &ClientContent{
		Turns:        []Content{{Role: "user", Parts: []Part{{Text: text}}}},
		TurnComplete: true,
	}}
}

// TurnText returns the text of a TextTurn, or "" for other messages.
func (m ClientMessage) TurnText() string {
	if m.ClientContent == nil {
		return ""
	}
	var b strings.Builder
	for _, t := range m.ClientContent.Turns {
		for _, p := range t.Parts {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}
