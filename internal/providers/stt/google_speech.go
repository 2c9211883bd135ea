package stt

import (
	"context"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

// GoogleSpeech transcribes raw 16-bit PCM answer chunks.
type GoogleSpeech struct {
	c *speech.Client

	SampleRateHz int32
}

func NewGoogleSpeech(ctx context.Context, sampleRateHz int32) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if sampleRateHz <= 0 {
		sampleRateHz = 16000
	}
	return &GoogleSpeech{c: c, SampleRateHz: sampleRateHz}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

func (g *GoogleSpeech) Transcribe(ctx context.Context, audio []byte, language string) (string, float64, error) {
	resp, err := g.c.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            g.SampleRateHz,
			LanguageCode:               NormalizeLanguage(language),
			EnableAutomaticPunctuation: true,
			Model:                      "latest_long",
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", 0, err
	}
	text, conf := joinResults(resp.GetResults())
	return text, conf, nil
}

// joinResults concatenates the top alternative of each result and averages
// their confidence. Results cover consecutive parts of the audio.
func joinResults(results []*speechpb.SpeechRecognitionResult) (string, float64) {
	var (
		text  string
		total float64
		n     int
	)
	for _, r := range results {
		alts := r.GetAlternatives()
		if len(alts) == 0 || alts[0].GetTranscript() == "" {
			continue
		}
		if text != "" {
			text += " "
		}
		text += alts[0].GetTranscript()
		total += float64(alts[0].GetConfidence())
		n++
	}
	if n == 0 {
		return "", 0
	}
	return text, total / float64(n)
}
