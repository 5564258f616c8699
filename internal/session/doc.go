// Package session orchestrates the editing surface: one session ties a
// loaded asset, its timeline state machine, an engine adapter and a single
// trim job slot together under one id. The manager stores sessions in
// memory only and expires idle ones; nothing survives a restart.
package session
