// Package receipt turns orders and bills into print instructions for a
// fixed-width thermal receipt. It performs no I/O.
package receipt

import "fmt"

// Kind identifies a print primitive
type Kind int

const (
	KindAlign Kind = iota
	KindTextSize
	KindBold
	KindText    // one printed line
	KindNewline // blank line
	KindRule
	KindCut
	KindQRCode
)

func (k Kind) String() string {
	switch k {
	case KindAlign:
		return "align"
	case KindTextSize:
		return "textSize"
	case KindBold:
		return "bold"
	case KindText:
		return "text"
	case KindNewline:
		return "newline"
	case KindRule:
		return "rule"
	case KindCut:
		return "cut"
	case KindQRCode:
		return "qrcode"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Alignment of subsequent lines
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
)

// Instruction is a single print primitive. Only the fields relevant to Kind
// are set.
type Instruction struct {
	Kind   Kind      `json:"kind"`
	Align  Alignment `json:"align,omitempty"`
	Width  int       `json:"width,omitempty"`
	Height int       `json:"height,omitempty"`
	Bold   bool      `json:"bold,omitempty"`
	Text   string    `json:"text,omitempty"` // Line text, rule characters or QR payload
}

func Align(a Alignment) Instruction {
	return Instruction{Kind: KindAlign, Align: a}
}

func TextSize(width, height int) Instruction {
	return Instruction{Kind: KindTextSize, Width: width, Height: height}
}

func Bold(on bool) Instruction {
	return Instruction{Kind: KindBold, Bold: on}
}

func Text(s string) Instruction {
	return Instruction{Kind: KindText, Text: s}
}

func Newline() Instruction {
	return Instruction{Kind: KindNewline}
}

func Cut() Instruction {
	return Instruction{Kind: KindCut}
}

func QRCode(data string) Instruction {
	return Instruction{Kind: KindQRCode, Text: data}
}

// Lines returns the text of every Text instruction in order
func Lines(instrs []Instruction) []string {
	var lines []string
	for _, in := range instrs {
		if in.Kind == KindText {
			lines = append(lines, in.Text)
		}
	}
	return lines
}
