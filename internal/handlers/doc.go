// Package handlers implements the HTTP API for the video trimmer: session
// lifecycle, asset upload and preview, timeline events, trim jobs, artifact
// download, filmstrip rendering, and the health and version endpoints.
//
// Handlers translate between the wire (JSON requests, multipart uploads,
// byte-range streaming) and the session layer, and map domain errors onto
// user-facing notifications with the right HTTP status.
package handlers
