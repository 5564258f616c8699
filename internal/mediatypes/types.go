package mediatypes

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Container identifies one of the supported video container formats.
type Container string

const (
	// ContainerMP4 is the ISO base media container (.mp4).
	ContainerMP4 Container = "mp4"
	// ContainerQuickTime is the Apple QuickTime container (.mov).
	ContainerQuickTime Container = "quicktime"
	// ContainerAVI is the Microsoft RIFF/AVI container (.avi).
	ContainerAVI Container = "avi"
	// ContainerUnknown represents an unsupported or unrecognized container.
	ContainerUnknown Container = ""
)

// MIMEType returns the canonical MIME type for the container.
func (c Container) MIMEType() string {
	switch c {
	case ContainerMP4:
		return "video/mp4"
	case ContainerQuickTime:
		return "video/quicktime"
	case ContainerAVI:
		return "video/x-msvideo"
	default:
		return "application/octet-stream"
	}
}

// Ext returns the canonical file extension (with leading dot) for the container.
func (c Container) Ext() string {
	switch c {
	case ContainerMP4:
		return ".mp4"
	case ContainerQuickTime:
		return ".mov"
	case ContainerAVI:
		return ".avi"
	default:
		return ""
	}
}

// AllowedMIMETypes maps the exactly three accepted upload MIME types to
// their container.
var AllowedMIMETypes = map[string]Container{
	"video/mp4":       ContainerMP4,
	"video/quicktime": ContainerQuickTime,
	"video/x-msvideo": ContainerAVI,
}

// extContainers maps file extensions to containers, used when the client
// omits or mislabels the Content-Type.
var extContainers = map[string]Container{
	".mp4": ContainerMP4,
	".m4v": ContainerMP4,
	".mov": ContainerQuickTime,
	".qt":  ContainerQuickTime,
	".avi": ContainerAVI,
}

// ByMIMEType returns the container for a MIME type from the allow-list.
func ByMIMEType(mimeType string) Container {
	// Strip any parameters (e.g. "video/mp4; codecs=...")
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = mimeType[:idx]
	}
	return AllowedMIMETypes[strings.ToLower(strings.TrimSpace(mimeType))]
}

// ByExtension returns the container implied by a filename's extension.
func ByExtension(filename string) Container {
	return extContainers[strings.ToLower(filepath.Ext(filename))]
}

// quickTimeBrands are ftyp major brands that identify QuickTime rather
// than plain MP4 content.
var quickTimeBrands = map[string]bool{
	"qt  ": true,
}

// Sniff inspects the leading bytes of a file and returns the container it
// matches, or ContainerUnknown. Exactly three signatures are recognized:
//
//	MP4/QuickTime: a 4-byte box size followed by "ftyp" at offset 4; the
//	               major brand distinguishes QuickTime ("qt  ") from MP4.
//	AVI:           "RIFF" at offset 0 and "AVI " at offset 8.
//
// A header of at least 12 bytes is required; shorter inputs never match.
func Sniff(header []byte) Container {
	if len(header) < 12 {
		return ContainerUnknown
	}

	if bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("AVI ")) {
		return ContainerAVI
	}

	if bytes.Equal(header[4:8], []byte("ftyp")) {
		if quickTimeBrands[string(header[8:12])] {
			return ContainerQuickTime
		}
		return ContainerMP4
	}

	return ContainerUnknown
}

// SniffHeaderSize is the number of leading bytes Sniff needs to classify
// a file.
const SniffHeaderSize = 12
