// Package form turns connector property metadata into an ordered list of
// input fields and reconciles edits back into the flat property list the
// identity server expects.
//
// The package is split along the three moments of a form's life:
//
//   - Render walks the metadata tree and produces Field values. CHECKBOX and
//     RADIO parents with sub-properties are wired to the parent change
//     listener and followed by their indented children. The flattened list is
//     then stable-sorted once by each field's own display order.
//   - Reducer holds the working copy of the values. Parent toggles are the
//     only user driven mutation; every transition re-derives the custom
//     properties string (stored keys the metadata does not know about).
//   - BuildSubmission converts raw form values into a payload, appending the
//     parsed custom properties and merging onto either the initial values or
//     the metadata record.
//
// Form ties the three together behind the configuration surface hosts use
// (metadata, initial values, submit callback, external trigger, submit button
// toggle). A Form is owned by a single goroutine.
package form
