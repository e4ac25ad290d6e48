package ustparser

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

type encodingCandidate struct {
	name string
	enc  encoding.Encoding
}

// UST files in the wild come out of Japanese and Chinese editors, so the
// candidate order starts with Shift-JIS after plain UTF-8.
var encodingCandidates = []encodingCandidate{
	{"shift-jis", japanese.ShiftJIS},
	{"gbk", simplifiedchinese.GBK},
	{"big5", traditionalchinese.Big5},
}

// decodeText turns raw score bytes into a string using the first candidate
// encoding that decodes cleanly. When every candidate fails it falls back to
// dropping the undecodable byte sequences instead of failing the parse.
// The second return value names the encoding that was used.
func decodeText(raw []byte) (string, string) {
	if utf8.Valid(raw) {
		return string(raw), "utf-8"
	}
	for _, c := range encodingCandidates {
		out, err := c.enc.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		if strings.ContainsRune(string(out), utf8.RuneError) {
			// The decoder substituted replacement runes, so the bytes
			// are not actually this encoding.
			continue
		}
		return string(out), c.name
	}
	return strings.ToValidUTF8(string(raw), ""), "utf-8 lossy"
}
