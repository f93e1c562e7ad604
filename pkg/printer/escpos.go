package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sangkips/barberpos-api/pkg/utils"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character size
const (
	FontNormal = 0x00
	FontDouble = 0x11
	FontWide   = 0x10
	FontTall   = 0x01
)

// Document builds an ESC/POS byte stream. Text is folded to plain ASCII
// letters since most thermal printers ship without a UTF-8 code page.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument creates a document for charWidth columns (32 = 58mm, 48 = 80mm).
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Width reports the configured column count.
func (d *Document) Width() int { return d.width }

// Init sends ESC @.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(plain(s))
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Title prints a centered, double-size bold heading and resets to normal.
func (d *Document) Title(s string) *Document {
	return d.SetAlign(AlignCenter).
		SetBold(true).
		SetFontSize(FontDouble).
		Text(s).
		SetFontSize(FontNormal).
		SetBold(false).
		SetAlign(AlignLeft)
}

func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key flush left and value flush right on one line.
func (d *Document) KeyValue(key, value string) *Document {
	key, value = plain(key), plain(value)
	spaces := d.width - runeLen(key) - runeLen(value)
	if spaces < 1 {
		key = truncate(key, d.width-runeLen(value)-1)
		spaces = 1
	}
	d.buf.WriteString(key)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.buf.WriteString(value)
	d.buf.WriteByte(LF)
	return d
}

// ItemLine prints "2x Name ... total".
func (d *Document) ItemLine(qty int, name, total string) *Document {
	return d.KeyValue(fmt.Sprintf("%dx %s", qty, name), total)
}

// Row prints cells in fixed columns. The first column absorbs the slack;
// the others are right-aligned to their widths.
func (d *Document) Row(widths []int, cells ...string) *Document {
	if len(widths) == 0 || len(cells) == 0 {
		return d
	}
	fixed := 0
	for _, w := range widths[1:] {
		fixed += w
	}
	first := d.width - fixed
	if first < 1 {
		first = 1
	}

	var line strings.Builder
	for i, cell := range cells {
		cell = plain(cell)
		if i == 0 {
			cell = truncate(cell, first)
			line.WriteString(cell)
			line.WriteString(strings.Repeat(" ", first-runeLen(cell)))
			continue
		}
		if i >= len(widths) {
			break
		}
		w := widths[i]
		cell = truncate(cell, w-1)
		line.WriteString(strings.Repeat(" ", w-runeLen(cell)))
		line.WriteString(cell)
	}
	d.buf.WriteString(line.String())
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func plain(s string) string {
	return utils.FoldAccents(s)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if runeLen(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
