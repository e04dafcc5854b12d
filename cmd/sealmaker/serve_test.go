package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seal "github.com/gcslaoli/seal-maker-go"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(newHandler(seal.NewRenderer(seal.WithFontBook(seal.NewFontBook())), logger))
	t.Cleanup(srv.Close)
	return srv
}

func TestSealEndpointServesPNG(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/seal?text=Seal&width=300&height=20&font=SimSun")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename*=UTF-8''Seal_%E8%81%B7%E7%AB%A0.png", resp.Header.Get("Content-Disposition"))
	assert.NotEmpty(t, resp.Header.Get("X-Seal-Font-Size"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	// Height is raised to the form minimum.
	assert.Equal(t, image.Rect(0, 0, 300, seal.MinHeight), img.Bounds())
}

func TestSealEndpointRejectsOversizedSeal(t *testing.T) {
	srv := newTestServer(t)

	for _, q := range []string{"width=2147483647&height=2147483647", "width=100000&height=100", "width=242&height=10001"} {
		resp, err := http.Get(srv.URL + "/seal?" + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestContentDisposition(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{filename: "Seal_職章.png", want: "attachment; filename*=UTF-8''Seal_%E8%81%B7%E7%AB%A0.png"},
		{filename: "a=b@c d.png", want: "attachment; filename*=UTF-8''a%3Db%40c%20d.png"},
		{filename: "x$&+!#^`|~-.png", want: "attachment; filename*=UTF-8''x$&+!#^`|~-.png"},
		{filename: `q"'%;,.png`, want: "attachment; filename*=UTF-8''q%22%27%25%3B%2C.png"},
	}

	for _, tc := range cases {
		t.Run(tc.filename, func(t *testing.T) {
			assert.Equal(t, tc.want, contentDisposition(tc.filename))
		})
	}
}

func TestSealEndpointRejectsOtherMethods(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/seal", "text/plain", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestFontsEndpointListsCatalog(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/fonts")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got []seal.FontOption
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, seal.Catalog, got)
}

func TestParseFontFile(t *testing.T) {
	cases := []struct {
		in      string
		want    fontFile
		wantErr bool
	}{
		{in: "SimSun=/fonts/simsun.ttf", want: fontFile{family: "SimSun", path: "/fonts/simsun.ttf"}},
		{in: "SimHei:bold=simhei-bold.ttf", want: fontFile{family: "SimHei", bold: true, path: "simhei-bold.ttf"}},
		{in: "SimHei:regular=simhei.ttf", want: fontFile{family: "SimHei", path: "simhei.ttf"}},
		{in: "SimHei:italic=simhei.ttf", wantErr: true},
		{in: "nopath", wantErr: true},
		{in: "=x.ttf", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseFontFile(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFontFileFlagsString(t *testing.T) {
	var f fontFileFlags
	require.NoError(t, f.Set("A=a.ttf"))
	require.NoError(t, f.Set("B:bold=b.ttf"))
	assert.Equal(t, "A=a.ttf,B:bold=b.ttf", f.String())
}
