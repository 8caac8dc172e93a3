package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names reported by Detect.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO88591    = "ISO-8859-1"
	ISO885915   = "ISO-8859-15"
)

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detect guesses the charset of a file from its first bytes. Spreadsheet
// programs commonly save CSV as UTF-8 with a BOM, UTF-16 or a Windows code
// page; anything unrecognised is treated as windows-1252.
func Detect(sample []byte) string {
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		return UTF8
	case bytes.HasPrefix(sample, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(sample, bomUTF16BE):
		return UTF16BE
	case utf8.Valid(sample):
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return Windows1252
	}

	switch result.Charset {
	case UTF8, ISO88591, ISO885915, UTF16LE, UTF16BE:
		return result.Charset
	}

	return Windows1252
}

func decoder(charset string) *xencoding.Decoder {
	switch charset {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case ISO88591:
		return charmap.ISO8859_1.NewDecoder()
	case ISO885915:
		return charmap.ISO8859_15.NewDecoder()
	}

	return charmap.Windows1252.NewDecoder()
}

// NewUTF8Reader returns a reader yielding r as UTF-8 without a byte order
// mark, along with the charset it was decoded from.
func NewUTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	sample, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	charset := Detect(sample)

	if charset == UTF8 {
		if bytes.HasPrefix(sample, bomUTF8) {
			_, _ = br.Discard(len(bomUTF8))
		}

		return br, charset, nil
	}

	return transform.NewReader(br, decoder(charset)), charset, nil
}
