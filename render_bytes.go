package seal

import (
	"bytes"
	"context"
)

// RenderBytes renders spec with the default renderer and returns the PNG
// bytes, the suggested filename and the resolved plan.
func RenderBytes(spec Spec) (data []byte, filename string, plan Plan, err error) {
	return sharedRenderer().RenderBytes(context.Background(), spec)
}

// RenderBytes renders spec and encodes it as PNG.
func (r *Renderer) RenderBytes(ctx context.Context, spec Spec) (data []byte, filename string, plan Plan, err error) {
	img, plan, err := r.render(ctx, spec)
	if err != nil {
		return nil, "", Plan{}, err
	}

	var buf bytes.Buffer
	filename, err = Export(&buf, spec, img)
	if err != nil {
		return nil, "", Plan{}, err
	}
	return buf.Bytes(), filename, plan, nil
}
