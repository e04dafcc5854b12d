package seal

import (
	"bytes"
	"encoding/base64"
	"image"
)

const pngDataPrefix = "data:image/png;base64,"

// EncodePNGToBase64 encodes an image as PNG and returns a base64 string.
func EncodePNGToBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodeDataURL encodes an image as a PNG data URL, suitable for an <img>
// src attribute.
func EncodeDataURL(img image.Image) (string, error) {
	encoded, err := EncodePNGToBase64(img)
	if err != nil {
		return "", err
	}
	return pngDataPrefix + encoded, nil
}

// RenderBase64 renders spec with the default renderer and returns the seal
// as base64 PNG together with its suggested filename.
func RenderBase64(spec Spec) (output string, filename string, err error) {
	data, filename, _, err := RenderBytes(spec)
	if err != nil {
		return "", "", err
	}
	return base64.StdEncoding.EncodeToString(data), filename, nil
}
