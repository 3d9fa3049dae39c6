// Package lang maps Windows language identifiers. A LANGID is a u16 packing
// a primary language in the low 10 bits and a sublanguage above it.
package lang

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidLanguageTag indicates a tag that is not BCP-47 or has no known
// Windows language id.
var ErrInvalidLanguageTag = errors.New("invalid language tag")

// DefaultLanguage is en-US, rc.exe's default.
const DefaultLanguage uint16 = 0x0409

// sublangDefault is the sublanguage used when only a primary language is known.
const sublangDefault uint16 = 0x01

// ID packs a primary and sublanguage into a LANGID.
func ID(primary, sub uint16) uint16 {
	return sub<<10 | (primary & 0x3FF)
}

// Primary extracts the primary language from a LANGID.
func Primary(id uint16) uint16 {
	return id & 0x3FF
}

// Sub extracts the sublanguage from a LANGID.
func Sub(id uint16) uint16 {
	return id >> 10
}

// tagToID maps canonical BCP-47 tags to Windows LANGIDs.
var tagToID = map[string]uint16{
	"ar-SA":   0x0401,
	"bg-BG":   0x0402,
	"ca-ES":   0x0403,
	"zh-TW":   0x0404,
	"cs-CZ":   0x0405,
	"da-DK":   0x0406,
	"de-DE":   0x0407,
	"el-GR":   0x0408,
	"en-US":   0x0409,
	"es-ES":   0x0C0A,
	"fi-FI":   0x040B,
	"fr-FR":   0x040C,
	"he-IL":   0x040D,
	"hu-HU":   0x040E,
	"is-IS":   0x040F,
	"it-IT":   0x0410,
	"ja-JP":   0x0411,
	"ko-KR":   0x0412,
	"nl-NL":   0x0413,
	"nb-NO":   0x0414,
	"pl-PL":   0x0415,
	"pt-BR":   0x0416,
	"pt-PT":   0x0816,
	"ro-RO":   0x0418,
	"ru-RU":   0x0419,
	"hr-HR":   0x041A,
	"sk-SK":   0x041B,
	"sv-SE":   0x041D,
	"th-TH":   0x041E,
	"tr-TR":   0x041F,
	"uk-UA":   0x0422,
	"sl-SI":   0x0424,
	"et-EE":   0x0425,
	"lv-LV":   0x0426,
	"lt-LT":   0x0427,
	"vi-VN":   0x042A,
	"eu-ES":   0x042D,
	"hi-IN":   0x0439,
	"ms-MY":   0x043E,
	"kk-KZ":   0x043F,
	"zh-CN":   0x0804,
	"de-CH":   0x0807,
	"en-GB":   0x0809,
	"es-MX":   0x080A,
	"fr-BE":   0x080C,
	"nl-BE":   0x0813,
	"en-AU":   0x0C09,
	"fr-CA":   0x0C0C,
	"en-CA":   0x1009,
	"zh-Hans": 0x0804,
	"zh-Hant": 0x0404,
}

// primaryByBase maps base languages (no region) to their primary language id
// for the SUBLANG_DEFAULT fallback.
var primaryByBase = map[string]uint16{
	"ar": 0x01, "bg": 0x02, "ca": 0x03, "zh": 0x04, "cs": 0x05,
	"da": 0x06, "de": 0x07, "el": 0x08, "en": 0x09, "es": 0x0A,
	"fi": 0x0B, "fr": 0x0C, "he": 0x0D, "hu": 0x0E, "is": 0x0F,
	"it": 0x10, "ja": 0x11, "ko": 0x12, "nl": 0x13, "nb": 0x14,
	"pl": 0x15, "pt": 0x16, "ro": 0x18, "ru": 0x19, "hr": 0x1A,
	"sk": 0x1B, "sv": 0x1D, "th": 0x1E, "tr": 0x1F, "uk": 0x22,
	"sl": 0x24, "et": 0x25, "lv": 0x26, "lt": 0x27, "vi": 0x2A,
	"eu": 0x2D, "hi": 0x39, "ms": 0x3E, "kk": 0x3F,
}

// FromTag resolves a BCP-47 language tag to a Windows LANGID. An exact
// language-region match wins; otherwise the base language resolves with
// SUBLANG_DEFAULT.
func FromTag(tag string) (uint16, error) {
	parsed, err := language.Parse(tag)
	if err != nil {
		return 0, ErrInvalidLanguageTag
	}
	canonical := parsed.String()
	if id, ok := tagToID[canonical]; ok {
		return id, nil
	}
	base, conf := parsed.Base()
	if conf == language.No {
		return 0, ErrInvalidLanguageTag
	}
	region, regionConf := parsed.Region()
	if regionConf >= language.High {
		key := base.String() + "-" + region.String()
		if id, ok := tagToID[key]; ok {
			return id, nil
		}
	}
	if primary, ok := primaryByBase[strings.ToLower(base.String())]; ok {
		return ID(primary, sublangDefault), nil
	}
	return 0, ErrInvalidLanguageTag
}
