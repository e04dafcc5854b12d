package seal

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{name: "label", text: "張無忌", want: "張無忌_職章.png"},
		{name: "empty", text: "", want: "_職章.png"},
		{name: "separators", text: "a/b\\c", want: "a_b_c_職章.png"},
		{name: "control", text: "a\nb", want: "a_b_職章.png"},
		{name: "decomposed", text: "e\u0301", want: "\u00e9_職章.png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Filename(tc.text))
		})
	}
}

// Ensure the exported PNG decodes back to exactly the rendered pixels.
func TestExportRoundTripIsLossless(t *testing.T) {
	spec := Spec{Text: "Seal", Width: 241, Height: 77, FontFamily: "serif", Watermark: "wm"}
	img, err := RenderWith(spec, NewFontBook().Snapshot())
	require.NoError(t, err)

	var buf bytes.Buffer
	filename, err := Export(&buf, spec, img)
	require.NoError(t, err)
	assert.Equal(t, "Seal_職章.png", filename)

	decoded, err := png.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, toRGBA(decoded).Pix, img.Pix)
	require.NoError(t, VerifyPNG(buf.Bytes(), img))
}

func TestExportRejectsNilImage(t *testing.T) {
	var buf bytes.Buffer
	_, err := Export(&buf, DefaultSpec(), nil)
	require.Error(t, err)
}

// settleSharedFonts waits for the default renderer's system font scan so
// that consecutive renders see the same fonts.
func settleSharedFonts(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	require.NoError(t, sharedRenderer().Fonts().Ready(ctx))
}

func TestRenderBytesMatchesRender(t *testing.T) {
	settleSharedFonts(t)
	spec := DefaultSpec()

	data, filename, plan, err := RenderBytes(spec)
	require.NoError(t, err)
	assert.Equal(t, "張無忌_職章.png", filename)
	assert.Equal(t, 6, plan.BorderWidth)
	assert.Equal(t, 73, plan.InitialFontSize)

	img, err := Render(spec)
	require.NoError(t, err)

	require.NoError(t, VerifyPNG(data, img))
}

func TestBase64RoundTrip(t *testing.T) {
	settleSharedFonts(t)
	img, err := Render(DefaultSpec())
	require.NoError(t, err)

	url, err := EncodeDataURL(img)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	require.NoError(t, VerifyPNG(data, img))

	encoded, filename, err := RenderBase64(DefaultSpec())
	require.NoError(t, err)
	assert.Equal(t, "張無忌_職章.png", filename)

	data, err = base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	require.NoError(t, VerifyPNG(data, img))
}

func TestVerifyPNGDetectsMismatch(t *testing.T) {
	img, err := RenderWith(Spec{Text: "A", Width: 120, Height: 60, Watermark: "w"}, bitmapFaces{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, img))
	require.NoError(t, VerifyPNG(buf.Bytes(), img))

	changed := image.NewRGBA(img.Bounds())
	copy(changed.Pix, img.Pix)
	changed.SetRGBA(60, 30, WatermarkColor)
	require.Error(t, VerifyPNG(buf.Bytes(), changed))

	smaller, err := RenderWith(Spec{Text: "A", Width: 119, Height: 60, Watermark: "w"}, bitmapFaces{})
	require.NoError(t, err)
	require.Error(t, VerifyPNG(buf.Bytes(), smaller))

	require.Error(t, VerifyPNG([]byte("not a png"), img))
	require.Error(t, VerifyPNG(buf.Bytes(), nil))
}
