package live

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Wire shapes for the bidirectional generate-content protocol. Every
// websocket message is one JSON object tagged by its single top-level
// key.

const (
	captureMimeType  = "audio/pcm;rate=16000"
	audioMimePrefix  = "audio/pcm"
	responseModality = "AUDIO"
)

type setupFrame struct {
	Setup setupPayload `json:"setup"`
}

type setupPayload struct {
	Model             string            `json:"model"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *contentBlock     `json:"systemInstruction,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig *voiceConfig `json:"voiceConfig,omitempty"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig *prebuiltVoice `json:"prebuiltVoiceConfig,omitempty"`
}

type prebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type contentBlock struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type realtimeInputFrame struct {
	RealtimeInput realtimeInput `json:"realtimeInput"`
}

type realtimeInput struct {
	MediaChunks []mediaChunk `json:"mediaChunks"`
}

type mediaChunk struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type clientContentFrame struct {
	ClientContent clientContent `json:"clientContent"`
}

type clientContent struct {
	Turns        []contentBlock `json:"turns"`
	TurnComplete bool           `json:"turnComplete"`
}

func newSetupFrame(sc SessionConfig) setupFrame {
	payload := setupPayload{
		Model: sc.Model,
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{responseModality},
		},
	}
	if sc.Voice != "" {
		payload.GenerationConfig.SpeechConfig = &speechConfig{
			VoiceConfig: &voiceConfig{
				PrebuiltVoiceConfig: &prebuiltVoice{VoiceName: sc.Voice},
			},
		}
	}
	if sc.SystemInstruction != "" {
		payload.SystemInstruction = &contentBlock{
			Parts: []part{{Text: sc.SystemInstruction}},
		}
	}
	return setupFrame{Setup: payload}
}

func newAudioFrame(pcm []byte) realtimeInputFrame {
	return realtimeInputFrame{RealtimeInput: realtimeInput{
		MediaChunks: []mediaChunk{{
			MimeType: captureMimeType,
			Data:     base64.StdEncoding.EncodeToString(pcm),
		}},
	}}
}

func newTextFrame(text string) clientContentFrame {
	return clientContentFrame{ClientContent: clientContent{
		Turns: []contentBlock{{
			Role:  string(RoleUser),
			Parts: []part{{Text: text}},
		}},
		TurnComplete: true,
	}}
}

type serverFrame struct {
	SetupComplete json.RawMessage `json:"setupComplete,omitempty"`
	ServerContent *serverContent  `json:"serverContent,omitempty"`
}

type serverContent struct {
	ModelTurn    *contentBlock `json:"modelTurn,omitempty"`
	Interrupted  bool          `json:"interrupted,omitempty"`
	TurnComplete bool          `json:"turnComplete,omitempty"`
}

func parseServerFrame(data []byte) (*serverFrame, error) {
	var frame serverFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return &frame, nil
}
