// SPDX-License-Identifier: Unlicense OR MIT

package glfwhost

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pixelscope/viewer/texture"
)

// FileDecoder is a host.Decoder reading from the local filesystem or an
// http(s) URL, decoding with the standard library's registered image
// formats plus golang.org/x/image's bmp, tiff and webp readers.
type FileDecoder struct {
	// Client is used for http(s) URLs. Defaults to http.DefaultClient
	// when nil.
	Client *http.Client
}

func (d FileDecoder) Decode(ctx context.Context, rawURL string) (texture.Source, error) {
	r, err := d.open(ctx, rawURL)
	if err != nil {
		return texture.Source{}, err
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return texture.Source{}, fmt.Errorf("glfwhost: decode %q: %w", rawURL, err)
	}

	rgba, ok := img.(*image.RGBA)
	if !ok {
		b := img.Bounds()
		converted := image.NewRGBA(b)
		draw.Draw(converted, b, img, b.Min, draw.Src)
		rgba = converted
	}

	return texture.Source{
		Pix: rgba,
		URL: rawURL,
		W:   rgba.Bounds().Dx(),
		H:   rgba.Bounds().Dy(),
	}, nil
}

func (d FileDecoder) open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("glfwhost: build request: %w", err)
		}
		client := d.Client
		if client == nil {
			client = http.DefaultClient
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("glfwhost: fetch %q: %w", rawURL, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("glfwhost: fetch %q: status %s", rawURL, resp.Status)
		}
		return resp.Body, nil
	}
	f, err := os.Open(rawURL)
	if err != nil {
		return nil, fmt.Errorf("glfwhost: open %q: %w", rawURL, err)
	}
	return f, nil
}
