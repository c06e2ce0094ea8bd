package extract

import (
	"bytes"
	"image"

	// Register the decoders the dispatch table promises.
	_ "image/jpeg"
	_ "image/png"
)

// decodeImage validates the bytes decode as a known raster format and
// records the dimensions. The encoded bytes are kept as-is; the model API
// takes the original encoding, not decoded pixels.
func decodeImage(data []byte) (Content, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Content{}, err
	}
	return Content{
		Kind:   KindImage,
		Format: format,
		Data:   data,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
