// Package memory resolves the device-capability size-limit policy that
// bounds how large an uploaded video may be.
//
// The policy is resolved exactly once at startup — from an explicit
// SIZE_PROFILE setting or from the host's total RAM — and handed to the
// upload path as a plain value. Three profiles exist: default (1 GiB),
// low-memory (512 MiB, hosts with <= 4 GiB RAM) and mobile (256 MiB,
// explicit opt-in only). Each carries a soft warning threshold at half
// its ceiling.
package memory
