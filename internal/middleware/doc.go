// Package middleware provides HTTP middleware for the video-trimmer service.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with session-id path normalization
//   - Response compression (gzip) for API and static payloads
package middleware
