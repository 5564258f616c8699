// Package mediatypes defines the video container formats the trimmer
// accepts and the logic for recognizing them.
//
// Exactly three containers are supported: MP4 (video/mp4), QuickTime
// (video/quicktime) and AVI (video/x-msvideo). Classification prefers
// byte-signature sniffing over client-supplied metadata, with the declared
// Content-Type and file extension as fallbacks.
package mediatypes
