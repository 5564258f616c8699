package mediatypes

import "testing"

func TestByMIMEType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     Container
	}{
		{"video/mp4", ContainerMP4},
		{"video/quicktime", ContainerQuickTime},
		{"video/x-msvideo", ContainerAVI},
		{"VIDEO/MP4", ContainerMP4},
		{"video/mp4; codecs=avc1", ContainerMP4},
		{"video/webm", ContainerUnknown},
		{"audio/mpeg", ContainerUnknown},
		{"", ContainerUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := ByMIMEType(tt.mimeType); got != tt.want {
				t.Errorf("ByMIMEType(%q) = %q, want %q", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestByExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     Container
	}{
		{"clip.mp4", ContainerMP4},
		{"clip.M4V", ContainerMP4},
		{"clip.mov", ContainerQuickTime},
		{"clip.qt", ContainerQuickTime},
		{"clip.avi", ContainerAVI},
		{"clip.mkv", ContainerUnknown},
		{"clip", ContainerUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := ByExtension(tt.filename); got != tt.want {
				t.Errorf("ByExtension(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestSniff(t *testing.T) {
	mp4Header := []byte{0x00, 0x00, 0x00, 0x20, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}
	movHeader := []byte{0x00, 0x00, 0x00, 0x14, 'f', 't', 'y', 'p', 'q', 't', ' ', ' '}
	aviHeader := []byte{'R', 'I', 'F', 'F', 0x24, 0x00, 0x00, 0x00, 'A', 'V', 'I', ' '}
	webmHeader := []byte{0x1A, 0x45, 0xDF, 0xA3, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

	tests := []struct {
		name   string
		header []byte
		want   Container
	}{
		{"MP4 isom brand", mp4Header, ContainerMP4},
		{"QuickTime qt brand", movHeader, ContainerQuickTime},
		{"AVI RIFF", aviHeader, ContainerAVI},
		{"WebM EBML", webmHeader, ContainerUnknown},
		{"Truncated", mp4Header[:8], ContainerUnknown},
		{"Empty", nil, ContainerUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.header); got != tt.want {
				t.Errorf("Sniff() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContainerMIMETypeRoundTrip(t *testing.T) {
	for mimeType, container := range AllowedMIMETypes {
		if got := container.MIMEType(); got != mimeType {
			t.Errorf("Container %q MIMEType() = %q, want %q", container, got, mimeType)
		}
		if container.Ext() == "" {
			t.Errorf("Container %q has no extension", container)
		}
	}
}
