package poster

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Decode parses JPEG, PNG or GIF poster bytes.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode poster: %w", err)
	}
	return img, nil
}

// CropRect returns the centered rectangle covering fraction of both sides of
// bounds. The result is never empty.
func CropRect(bounds image.Rectangle, fraction float64) image.Rectangle {
	width, height := bounds.Dx(), bounds.Dy()
	cropWidth := max(1, int(float64(width)*fraction))
	cropHeight := max(1, int(float64(height)*fraction))

	left := bounds.Min.X + (width-cropWidth)/2
	top := bounds.Min.Y + (height-cropHeight)/2
	return image.Rect(left, top, left+cropWidth, top+cropHeight)
}

// Crop copies the centered fragment of img into a new RGBA image.
func Crop(img image.Image, fraction float64) image.Image {
	rect := CropRect(img.Bounds(), fraction)
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}
