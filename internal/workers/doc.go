// Package workers sizes concurrent work pools from the available CPU
// count, with an environment override for the filmstrip extractor.
package workers
