package utils

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
	"time"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyImage    = errors.New("empty image")
	ErrImageTooLarge = errors.New("image too large")
)

// Sha512Bytes hashes and encodes in hex the result
func Sha512Bytes(b []byte) string {
	hash := sha512.Sum512(b)
	return hex.EncodeToString(hash[:])
}

func Float32ArrayToByteArray(fa []float32) []byte {
	buf := bytes.Buffer{}
	_ = binary.Write(&buf, binary.LittleEndian, fa)
	return buf.Bytes()
}

func ByteArrayToFloat32Array(b []byte) (result []float32) {
	for i := 0; i+3 < len(b); i += 4 {
		ui32 := uint32(b[i+0]) +
			uint32(b[i+1])<<8 +
			uint32(b[i+2])<<16 +
			uint32(b[i+3])<<24
		result = append(result, math.Float32frombits(ui32))
	}
	return
}

// DatePath returns "<year>/<month>" for t
func DatePath(t time.Time) string {
	return t.Format("2006/01")
}

// ImageConfig reads only the header of an encoded image. Images with more than maxPixels pixels
// are rejected with ErrImageTooLarge, maxPixels <= 0 means no limit.
func ImageConfig(data []byte, maxPixels int) (config image.Config, format string, err error) {
	if len(data) == 0 {
		return config, "", ErrEmptyImage
	}
	config, format, err = image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return
	}
	if maxPixels > 0 && int64(config.Width)*int64(config.Height) > int64(maxPixels) {
		err = fmt.Errorf("%w: %dx%d", ErrImageTooLarge, config.Width, config.Height)
	}
	return
}

// decode checks the header before allocating the pixels
func decode(data []byte, maxPixels int) (image.Image, error) {
	if _, _, err := ImageConfig(data, maxPixels); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// NormalizeToJPEG decodes any registered raster format, downscales it to fit maxSize and encodes it as JPEG
func NormalizeToJPEG(data []byte, maxSize, maxPixels int) ([]byte, error) {
	img, err := decode(data, maxPixels)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxSize > 0 && (width > maxSize || height > maxSize) {
		if width > height {
			height = height * maxSize / width
			width = maxSize
		} else {
			width = width * maxSize / height
			height = maxSize
		}
		resized := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		img = resized
	}
	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type ImageThumbConverted struct {
	ThumbSize int64
	NewX      int
	NewY      int
	OldX      int
	OldY      int
}

func CreateThumb(size uint, maxPixels int, reader io.Reader, writer io.Writer) (result ImageThumbConverted, err error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return result, err
	}
	image, err := decode(data, maxPixels)
	if err != nil {
		return result, err
	}
	var newBuf bytes.Buffer
	newImage := resize.Thumbnail(size, size, image, resize.Lanczos3)
	if err = jpeg.Encode(&newBuf, newImage, &jpeg.Options{Quality: 90}); err != nil {
		return
	}
	imageRect := newImage.Bounds().Size()
	result.NewX = imageRect.X
	result.NewY = imageRect.Y

	imageRect = image.Bounds().Size()
	result.OldX = imageRect.X
	result.OldY = imageRect.Y

	result.ThumbSize, err = io.Copy(writer, &newBuf)
	return
}
