package typegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Patch is a partial TypeSettings produced by the suggestion service. Nil
// fields are "no change". Only the AI-controllable subset is representable:
// the text content and raw geometry have no slots here, so a malicious or
// malformed response can never touch them.
type Patch struct {
	FontFamily    *string  `json:"fontFamily,omitempty"`
	FontSize      *float64 `json:"fontSize,omitempty"`
	LetterSpacing *float64 `json:"letterSpacing,omitempty"`
	LineHeight    *float64 `json:"lineHeight,omitempty"`

	MorphRadius   *float64 `json:"morphRadius,omitempty"`
	MorphOperator *string  `json:"morphOperator,omitempty"`

	DistortionX        *float64 `json:"distortionX,omitempty"`
	DistortionY        *float64 `json:"distortionY,omitempty"`
	DistortionStrength *float64 `json:"distortionStrength,omitempty"`
	NoiseType          *string  `json:"noiseType,omitempty"`
	NoiseSeed          *int     `json:"noiseSeed,omitempty"`

	BlurStdDev *float64 `json:"blurStdDev,omitempty"`
	Contrast   *float64 `json:"contrast,omitempty"`

	TextureMode *string `json:"textureMode,omitempty"`

	NumMetaballs   *int     `json:"numMetaballs,omitempty"`
	MetaballSpread *float64 `json:"metaballSpread,omitempty"`
	MetaballSpeed  *float64 `json:"metaballSpeed,omitempty"`

	FillColor       *Color   `json:"fillColor,omitempty"`
	StrokeColor     *Color   `json:"strokeColor,omitempty"`
	BackgroundColor *Color   `json:"backgroundColor,omitempty"`
	StrokeWidth     *float64 `json:"strokeWidth,omitempty"`
	ShowFill        *bool    `json:"showFill,omitempty"`
	ShowStroke      *bool    `json:"showStroke,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p == (Patch{})
}

// Apply returns s with the patch's set fields overlaid and the result
// clamped. Enum names that fail to parse are skipped, never an error:
// a partially nonsensical suggestion degrades to its sensible subset.
func (p Patch) Apply(s TypeSettings) TypeSettings {
	if p.FontFamily != nil {
		if f, err := ParseFontFamily(*p.FontFamily); err == nil {
			s.FontFamily = f
		}
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.LetterSpacing != nil {
		s.LetterSpacing = *p.LetterSpacing
	}
	if p.LineHeight != nil {
		s.LineHeight = *p.LineHeight
	}
	if p.MorphRadius != nil {
		s.MorphRadius = *p.MorphRadius
	}
	if p.MorphOperator != nil {
		if m, err := ParseMorphOperator(*p.MorphOperator); err == nil {
			s.MorphOperator = m
		}
	}
	if p.DistortionX != nil {
		s.DistortionX = *p.DistortionX
	}
	if p.DistortionY != nil {
		s.DistortionY = *p.DistortionY
	}
	if p.DistortionStrength != nil {
		s.DistortionStrength = *p.DistortionStrength
	}
	if p.NoiseType != nil {
		if n, err := ParseNoiseKind(*p.NoiseType); err == nil {
			s.NoiseType = n
		}
	}
	if p.NoiseSeed != nil {
		s.NoiseSeed = *p.NoiseSeed
	}
	if p.BlurStdDev != nil {
		s.BlurStdDev = *p.BlurStdDev
	}
	if p.Contrast != nil {
		s.Contrast = *p.Contrast
	}
	if p.TextureMode != nil {
		if t, err := ParseTextureMode(*p.TextureMode); err == nil {
			s.TextureMode = t
		}
	}
	if p.NumMetaballs != nil {
		s.NumMetaballs = *p.NumMetaballs
	}
	if p.MetaballSpread != nil {
		s.MetaballSpread = *p.MetaballSpread
	}
	if p.MetaballSpeed != nil {
		s.MetaballSpeed = *p.MetaballSpeed
	}
	if p.FillColor != nil {
		s.FillColor = *p.FillColor
	}
	if p.StrokeColor != nil {
		s.StrokeColor = *p.StrokeColor
	}
	if p.BackgroundColor != nil {
		s.BackgroundColor = *p.BackgroundColor
	}
	if p.StrokeWidth != nil {
		s.StrokeWidth = *p.StrokeWidth
	}
	if p.ShowFill != nil {
		s.ShowFill = *p.ShowFill
	}
	if p.ShowStroke != nil {
		s.ShowStroke = *p.ShowStroke
	}
	return s.Clamp()
}

// suggestRequest is the wire format sent to the suggestion service.
type suggestRequest struct {
	Prompt   string       `json:"prompt"`
	Settings TypeSettings `json:"settings"`
}

// suggestResponse is the wire format returned by the service.
type suggestResponse struct {
	Patch Patch `json:"patch"`
}

// defaultSuggestTimeout bounds a suggestion round-trip when the caller's
// context carries no deadline of its own.
const defaultSuggestTimeout = 15 * time.Second

// maxSuggestBody caps the response size read from the service.
const maxSuggestBody = 1 << 20

// Suggester calls the remote style-suggestion service: it maps a natural
// language prompt and the current settings to a partial parameter patch.
// The zero value is not usable; construct with NewSuggester.
type Suggester struct {
	endpoint string
	client   *http.Client
}

// NewSuggester creates a client for the service at endpoint. A nil
// httpClient uses http.DefaultClient.
func NewSuggester(endpoint string, httpClient *http.Client) *Suggester {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Suggester{endpoint: endpoint, client: httpClient}
}

// Suggest requests a parameter patch for the prompt. The call is bounded
// and cancelable through ctx; any failure (network, status, malformed
// body) returns a zero Patch and the error. The current settings are never
// modified here — callers apply the patch themselves on success.
func (sg *Suggester) Suggest(ctx context.Context, prompt string, current TypeSettings) (Patch, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultSuggestTimeout)
		defer cancel()
	}

	body, err := json.Marshal(suggestRequest{Prompt: prompt, Settings: current})
	if err != nil {
		return Patch{}, fmt.Errorf("encode suggestion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sg.endpoint, bytes.NewReader(body))
	if err != nil {
		return Patch{}, fmt.Errorf("build suggestion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := sg.client.Do(req)
	if err != nil {
		return Patch{}, fmt.Errorf("suggestion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Patch{}, fmt.Errorf("suggestion request: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSuggestBody))
	if err != nil {
		return Patch{}, fmt.Errorf("read suggestion response: %w", err)
	}

	var sr suggestResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return Patch{}, fmt.Errorf("parse suggestion response: %w", err)
	}
	return sr.Patch, nil
}

// ApplySuggestion runs Suggest and overlays the patch onto current on
// success. On any failure the input settings are returned unchanged and
// the error is logged — a failed suggestion is a visible no-op, never a
// crash or a partial update.
func (sg *Suggester) ApplySuggestion(ctx context.Context, prompt string, current TypeSettings) TypeSettings {
	patch, err := sg.Suggest(ctx, prompt, current)
	if err != nil {
		logger().Warn("suggestion failed, settings unchanged", "error", err)
		return current
	}
	return patch.Apply(current)
}
