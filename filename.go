// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drop // import "blitznote.com/src/http.drop"

import (
	"math"
	"mime"
	"sort"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

const (
	// AlwaysRejectRunes contains runes that are not safe to use with network shares.
	AlwaysRejectRunes = `"*:<>?|\`

	// Path separators, on any platform a file might end up on.
	separatorRunes = `/\`

	runeSpatium = '\u2009'

	errStrUnexpectedRange = "Unexpected Unicode range: "
)

// Happen when parsing ranges.
var (
	errOutOfBounds = errors.New("Value out of bounds")
)

// Not all runes in unicode.PrintRanges are suitable for filenames.
var excludedRunes = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2028, Hi: 0x202f, Stride: 1}, // line and paragraph separators, embeddings
		{Lo: 0xfff0, Hi: 0xffff, Stride: 1}, // specials, and invalid
	},
}

// clientFilename extracts the name a part has been sent with, verbatim.
//
// multipart.Part.FileName strips any directories,
// which would hide names meant to escape the upload directory instead of rejecting them.
func clientFilename(contentDisposition string) string {
	disposition, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil || disposition != "form-data" && disposition != "attachment" {
		return ""
	}
	return params["filename"]
}

// IsAcceptableFilename is used to enforce filenames in wanted alphabet(s).
// Setting 'reduceAcceptableRunesTo' reduces the supremum unicode.PrintRanges.
//
// A string with runes other than U+0020 (space) or U+2009 (spatium)
// representing space will be rejected.
func IsAcceptableFilename(s string, reduceAcceptableRunesTo []*unicode.RangeTable,
	enforceForm *norm.Form) bool {
	if enforceForm != nil && !enforceForm.IsNormalString(s) {
		return false
	}

	for _, r := range s {
		if reduceAcceptableRunesTo != nil && !unicode.In(r, reduceAcceptableRunesTo...) {
			return false
		}
		if r <= unicode.MaxLatin1 && strings.ContainsRune(AlwaysRejectRunes, r) {
			return false
		}
		if r == runeSpatium {
			continue
		}
		if unicode.Is(excludedRunes, r) || !unicode.IsPrint(r) { // also takes care of "spaces"
			return false
		}
	}

	return true
}

// vetFilename returns ErrUnacceptableFilename if 's' must not be used as filename in
// the upload directory: it would resolve elsewhere, or has runes outside the configured alphabet.
func (c *Configuration) vetFilename(s string) error {
	if c.AllowUnsafeFilenames {
		return nil
	}
	switch {
	case s == ".", s == "..":
		return ErrUnacceptableFilename
	case strings.ContainsAny(s, separatorRunes), strings.ContainsRune(s, 0):
		return ErrUnacceptableFilename
	case !IsAcceptableFilename(s, c.RestrictFilenamesTo, c.unicodeForm()):
		return ErrUnacceptableFilename
	}
	return nil
}

// ParseUnicodeBlockList naïvely translates a string with space-delimited Unicode ranges to Go's unicode.RangeTable.
//
// All elements must fit into uint32, and a stride must not be zero.
// Ranges must not overlap (this is not checked).
//
// The format of one range is as follows, with 'stride' being set to '1' if left empty.
//  <low>-<high>[:<stride>]
func ParseUnicodeBlockList(str string) (*unicode.RangeTable, error) {
	type triple [3]uint64 // low, high, stride
	haveRanges := make([]triple, 0, strings.Count(str, " ")+1)

	var s scanner.Scanner
	s.Init(strings.NewReader(str))
	unexpected := func() error { return errors.New(errStrUnexpectedRange + s.Pos().String()) }
	bound := func(tok rune) (uint64, error) {
		if tok != scanner.Ident {
			return 0, unexpected()
		}
		v, err := strconv.ParseUint(strings.TrimLeft(s.TokenText(), "uU+x"), 16, 64)
		if err != nil {
			return 0, unexpected()
		}
		return v, nil
	}

	for tok := s.Scan(); tok != scanner.EOF; {
		low, err := bound(tok)
		if err != nil {
			return nil, err
		}
		if tok = s.Scan(); tok != '-' && tok != '–' {
			return nil, unexpected()
		}
		high, err := bound(s.Scan())
		if err != nil {
			return nil, err
		}
		if low > high {
			return nil, unexpected()
		}

		stride := uint64(1)
		if tok = s.Scan(); tok == ':' {
			if s.Scan() != scanner.Int {
				return nil, unexpected()
			}
			if stride, err = strconv.ParseUint(s.TokenText(), 10, 32); err != nil || stride == 0 {
				return nil, unexpected()
			}
			tok = s.Scan()
		}
		haveRanges = append(haveRanges, triple{low, high, stride})
	}

	sort.Slice(haveRanges, func(i, j int) bool {
		for n := range haveRanges[i] {
			if haveRanges[i][n] != haveRanges[j][n] {
				return haveRanges[i][n] < haveRanges[j][n]
			}
		}
		return false
	})

	rt := unicode.RangeTable{}
	for _, r := range haveRanges {
		switch {
		case r[1] <= math.MaxUint16 && r[2] <= math.MaxUint16:
			if r[1] <= unicode.MaxLatin1 {
				rt.LatinOffset++
			}
			rt.R16 = append(rt.R16, unicode.Range16{Lo: uint16(r[0]), Hi: uint16(r[1]), Stride: uint16(r[2])})
		case r[1] <= math.MaxUint32:
			rt.R32 = append(rt.R32, unicode.Range32{Lo: uint32(r[0]), Hi: uint32(r[1]), Stride: uint32(r[2])})
		default:
			return nil, errOutOfBounds
		}
	}

	return &rt, nil
}
