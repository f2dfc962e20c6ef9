// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Wide text travels as UTF-16LE without a byte order mark; narrow text
// is the Windows-1252 code page.
var (
	wideEncoding   = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	narrowEncoding = charmap.Windows1252
)

// encodeWide returns s as terminated UTF-16LE.
func encodeWide(s string) ([]byte, error) {
	b, err := wideEncoding.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	return append(b, 0, 0), nil
}

// encodeWideN returns at most n UTF-16 units of s, unterminated. A
// surrogate pair is never split.
func encodeWideN(s string, n int) ([]byte, error) {
	b, err := wideEncoding.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(b) > 2*n {
		b = b[:2*n]
		if n > 0 && isHighSurrogate(uint16(b[2*n-2])|uint16(b[2*n-1])<<8) {
			b = b[:2*n-2]
		}
	}
	return b, nil
}

func isHighSurrogate(u uint16) bool { return u >= 0xd800 && u < 0xdc00 }

// decodeWide converts unterminated UTF-16LE to a string.
func decodeWide(b []byte) (string, error) {
	s, err := wideEncoding.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// wideTerminator returns the byte offset of the first UTF-16 NUL in b.
func wideTerminator(b []byte) (int, bool) {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i, true
		}
	}
	return 0, false
}

// narrowString converts Windows-1252 bytes up to the first NUL to a
// string.
func narrowString(b []byte) (string, error) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	s, err := narrowEncoding.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// widenText hands narrow text of an ascii send to the handler as a
// string, the form it has after crossing threads.
func widenText(m Message) (Message, error) {
	b, ok := m.Data.([]byte)
	if !ok || !IsText(m.ID) {
		return m, nil
	}
	s, err := narrowString(b)
	if err != nil {
		return m, err
	}
	m.Data = s
	return m, nil
}
