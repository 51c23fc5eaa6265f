package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	exif "github.com/dsoprea/go-exif/v2"
	exifundefined "github.com/dsoprea/go-exif/v2/undefined"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure"
	goexif "github.com/rwcarlsen/goexif/exif"
)

// ErrUnreadableMetadata reports that a file could not be parsed as an image
// at all. Callers degrade to an absent caption; it never aborts the batch.
var ErrUnreadableMetadata = errors.New("unreadable image metadata")

// Captions longer than this are truncated before upload.
const maxCaptionLength = 1000

// ExtractCaption returns the caption embedded in the image's EXIF metadata:
// the UserComment tag when present and non-empty, otherwise ImageDescription,
// otherwise "" (an absent caption, which is not an error). JPEGs that fail
// structural parsing in both readers return ErrUnreadableMetadata; for other
// containers the readers cannot distinguish "no EXIF" from "not an image", so
// a failed read degrades to an absent caption.
func ExtractCaption(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	isJpeg := ext == ".jpg" || ext == ".jpeg"

	var caption string
	var err error
	if isJpeg {
		caption, err = captionFromJpeg(path)
	} else {
		caption, err = captionFromExifScan(path)
	}
	if err == nil {
		return caption, nil
	}

	caption, fallbackErr := captionFromFallbackReader(path)
	if fallbackErr == nil {
		return caption, nil
	}

	if isJpeg {
		return "", fmt.Errorf("%w (%s): %v", ErrUnreadableMetadata, path, err)
	}
	logger.Debug("No readable metadata",
		"path", path,
		"error", err.Error())
	return "", nil
}

// captionFromJpeg parses the JPEG segment structure and reads the caption
// tags from its EXIF segment. The dsoprea parsers panic on some malformed
// inputs, so the parse is fenced with a recover.
func captionFromJpeg(path string) (caption string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("jpeg parse panic: %v", r)
		}
	}()

	jmp := jpegstructure.NewJpegMediaParser()
	intfc, parseErr := jmp.ParseFile(path)
	if parseErr != nil {
		return "", fmt.Errorf("jpeg parse: %w", parseErr)
	}
	sl := intfc.(*jpegstructure.SegmentList)

	rootIfd, _, exifErr := sl.Exif()
	if exifErr != nil {
		// A structurally valid JPEG without a usable EXIF segment has
		// no caption.
		return "", nil
	}
	return captionFromRootIfd(rootIfd), nil
}

// captionFromExifScan locates an EXIF blob anywhere in the file (TIFF, PNG,
// WebP and friends) and reads the caption tags from it.
func captionFromExifScan(path string) (caption string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("exif scan panic: %v", r)
		}
	}()

	rawExif, err := exif.SearchFileAndExtractExif(path)
	if err != nil {
		// The sentinel may come back wrapped by the library's logging
		// layer, so match the message as well.
		if errors.Is(err, exif.ErrNoExif) || strings.Contains(err.Error(), "no exif data") {
			return "", nil
		}
		return "", fmt.Errorf("exif scan: %w", err)
	}

	im := exif.NewIfdMappingWithStandard()
	ti := exif.NewTagIndex()
	_, index, err := exif.Collect(im, ti, rawExif)
	if err != nil {
		return "", fmt.Errorf("collect exif: %w", err)
	}
	return captionFromRootIfd(index.RootIfd), nil
}

// captionFromRootIfd applies the caption priority rule: UserComment (in the
// Exif sub-IFD) wins over ImageDescription (in the root IFD).
func captionFromRootIfd(rootIfd *exif.Ifd) string {
	if exifIfd, err := exif.FindIfdFromRootIfd(rootIfd, "IFD/Exif"); err == nil {
		if caption := tagText(exifIfd, "UserComment"); caption != "" {
			return caption
		}
	}
	return tagText(rootIfd, "ImageDescription")
}

func tagText(ifd *exif.Ifd, tagName string) string {
	entries, err := ifd.FindTagWithName(tagName)
	if err != nil || len(entries) == 0 {
		return ""
	}
	value, err := entries[0].Value()
	if err != nil {
		// Undecodable tag payloads degrade to an absent caption.
		return ""
	}
	return clampCaption(decodeTagValue(value))
}

func decodeTagValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	case []byte:
		if utf8.Valid(v) {
			return trimText(string(v))
		}
	case exifundefined.Tag9286UserComment:
		return decodeUserComment(v)
	case *exifundefined.Tag9286UserComment:
		return decodeUserComment(*v)
	}
	return ""
}

// decodeUserComment decodes the UserComment payload per its 8-byte encoding
// prefix. JIS and unknown encodings degrade to an absent caption.
func decodeUserComment(uc exifundefined.Tag9286UserComment) string {
	switch uc.EncodingType {
	case exifundefined.TagUndefinedType_9286_UserComment_Encoding_ASCII:
		return trimText(string(uc.EncodingBytes))
	case exifundefined.TagUndefinedType_9286_UserComment_Encoding_UNICODE:
		return trimText(decodeUCS2(uc.EncodingBytes))
	case exifundefined.TagUndefinedType_9286_UserComment_Encoding_UNDEFINED:
		if utf8.Valid(uc.EncodingBytes) {
			return trimText(string(uc.EncodingBytes))
		}
	}
	return ""
}

// captionFromFallbackReader is a second-chance reader for files the dsoprea
// stack rejects, mirroring the double-reader approach for slightly
// out-of-spec camera output.
func captionFromFallbackReader(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	x, err := goexif.Decode(f)
	if err != nil {
		return "", err
	}

	if tag, err := x.Get(goexif.UserComment); err == nil {
		if caption := decodeRawUserComment(tag.Val); caption != "" {
			return clampCaption(caption), nil
		}
	}
	if tag, err := x.Get(goexif.ImageDescription); err == nil {
		if s, err := tag.StringVal(); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return clampCaption(s), nil
			}
		}
	}
	return "", nil
}

// decodeRawUserComment decodes a raw UserComment payload including its 8-byte
// encoding prefix.
func decodeRawUserComment(b []byte) string {
	if len(b) <= 8 {
		return ""
	}
	prefix, body := b[:8], b[8:]
	switch {
	case bytes.HasPrefix(prefix, []byte("ASCII")):
		return trimText(string(body))
	case bytes.HasPrefix(prefix, []byte("UNICODE")):
		return trimText(decodeUCS2(body))
	case bytes.Equal(prefix, make([]byte, 8)):
		if utf8.Valid(body) {
			return trimText(string(body))
		}
	}
	return ""
}

// decodeUCS2 decodes the UCS-2 text used by the EXIF UNICODE comment
// encoding. A BOM decides the byte order; without one, big-endian is assumed
// unless the zero-byte distribution clearly indicates little-endian.
func decodeUCS2(b []byte) string {
	if len(b) < 2 || len(b)%2 != 0 {
		return ""
	}

	bigEndian := true
	switch {
	case b[0] == 0xFE && b[1] == 0xFF:
		b = b[2:]
	case b[0] == 0xFF && b[1] == 0xFE:
		bigEndian = false
		b = b[2:]
	default:
		zerosEven, zerosOdd := 0, 0
		for i := 0; i < len(b); i += 2 {
			if b[i] == 0 {
				zerosEven++
			}
			if b[i+1] == 0 {
				zerosOdd++
			}
		}
		if zerosOdd > zerosEven {
			bigEndian = false
		}
	}

	u16 := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		if bigEndian {
			u16 = append(u16, uint16(b[i])<<8|uint16(b[i+1]))
		} else {
			u16 = append(u16, uint16(b[i+1])<<8|uint16(b[i]))
		}
	}
	return string(utf16.Decode(u16))
}

func trimText(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}

func clampCaption(s string) string {
	runes := []rune(s)
	if len(runes) <= maxCaptionLength {
		return s
	}
	return string(runes[:maxCaptionLength])
}
