package printer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"RestaurantPos/app/receipt"

	"github.com/skip2/go-qrcode"
)

// ESC/POS control bytes
const (
	ESC byte = 0x1B
	GS  byte = 0x1D
	NL  byte = 0x0A
)

// Encoder converts print instructions into ESC/POS bytes
type Encoder struct {
	PaperWidth int // Paper width in mm, 58 or 80
}

// Preamble initializes the printer and selects code page 850
func (e *Encoder) Preamble() []byte {
	return []byte{ESC, '@', ESC, 't', 2}
}

// Encode returns the bytes for a single instruction
func (e *Encoder) Encode(in receipt.Instruction) ([]byte, error) {
	switch in.Kind {
	case receipt.KindAlign:
		var a byte
		if in.Align == receipt.AlignCenter {
			a = 1
		}
		return []byte{ESC, 'a', a}, nil

	case receipt.KindTextSize:
		w, h := clampSize(in.Width), clampSize(in.Height)
		return []byte{GS, '!', ((w - 1) << 4) | (h - 1)}, nil

	case receipt.KindBold:
		var b byte
		if in.Bold {
			b = 1
		}
		return []byte{ESC, 'E', b}, nil

	case receipt.KindText, receipt.KindRule:
		return append([]byte(removeDiacritics(in.Text)), NL), nil

	case receipt.KindNewline:
		return []byte{NL}, nil

	case receipt.KindCut:
		// Feed past the tear bar before cutting
		return []byte{NL, NL, NL, GS, 'V', 66, 0}, nil

	case receipt.KindQRCode:
		return e.qrCode(in.Text)
	}
	return nil, fmt.Errorf("unsupported instruction %s", in.Kind)
}

func clampSize(n int) byte {
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return byte(n)
}

// removeDiacritics folds accented characters to ASCII for printers without
// extended character sets
func removeDiacritics(text string) string {
	replacements := map[rune]rune{
		'á': 'a', 'Á': 'A',
		'é': 'e', 'É': 'E',
		'í': 'i', 'Í': 'I',
		'ó': 'o', 'Ó': 'O',
		'ú': 'u', 'Ú': 'U',
		'ü': 'u', 'Ü': 'U',
		'ñ': 'n', 'Ñ': 'N',
		'ç': 'c', 'Ç': 'C',
		'à': 'a', 'è': 'e',
		'¿': '?', '¡': '!',
		'€': 'E',
	}

	var result []rune
	for _, r := range text {
		if r < 128 {
			result = append(result, r)
		} else if replacement, ok := replacements[r]; ok {
			result = append(result, replacement)
		} else {
			result = append(result, ' ')
		}
	}
	return string(result)
}

func (e *Encoder) maxDots() int {
	// 203 DPI heads: 58mm = 288 dots, 80mm = 384 dots
	if e.PaperWidth == 80 {
		return 384
	}
	return 288
}

func (e *Encoder) qrCode(data string) ([]byte, error) {
	qr, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	size := e.maxDots() * 2 / 3
	return rasterImage(qr.Image(size), e.maxDots()), nil
}

// rasterImage encodes img as a GS v 0 monochrome bitmap. Images wider than
// maxWidth are downscaled by pixel skipping.
func rasterImage(img image.Image, maxWidth int) []byte {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	ratio := 1.0
	if width > maxWidth {
		ratio = float64(width) / float64(maxWidth)
		width = maxWidth
		height = int(float64(height) / ratio)
	}

	widthBytes := (width + 7) / 8
	buf := new(bytes.Buffer)
	buf.WriteByte(NL)
	buf.Write([]byte{GS, 'v', '0', 0,
		byte(widthBytes % 256), byte(widthBytes / 256),
		byte(height % 256), byte(height / 256),
	})

	for y := 0; y < height; y++ {
		for x := 0; x < width; x += 8 {
			var b byte
			for bit := 0; bit < 8; bit++ {
				px := x + bit
				if px >= width {
					break
				}
				src := img.At(bounds.Min.X+int(float64(px)*ratio), bounds.Min.Y+int(float64(y)*ratio))
				if isDark(src) {
					b |= 1 << uint(7-bit)
				}
			}
			buf.WriteByte(b)
		}
	}
	buf.WriteByte(NL)
	return buf.Bytes()
}

// isDark blends transparent pixels with white and applies a 50% luminance
// threshold
func isDark(c color.Color) bool {
	r, g, b, a := c.RGBA()
	if a < 0xffff {
		alpha := float64(a) / 0xffff
		r = uint32(float64(r)*alpha + 0xffff*(1-alpha))
		g = uint32(float64(g)*alpha + 0xffff*(1-alpha))
		b = uint32(float64(b)*alpha + 0xffff*(1-alpha))
	}
	gray := (299*(r>>8) + 587*(g>>8) + 114*(b>>8)) / 1000
	return gray < 128
}
