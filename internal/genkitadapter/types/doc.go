// Package types provides the generation model shared by all adapters: messages
// made of Parts, requests, responses and streaming chunks.
//
// The shapes follow genkit's part model rather than any vendor SDK:
//
//  1. VENDOR NEUTRAL: A Part carries exactly one dominant field (text, reasoning,
//     media, toolRequest, toolResponse). Vendor specifics ride along in Custom.
//
//  2. TYPED EXTENSIONS: Custom is a small set of typed payloads (thinking
//     signature, redacted thinking, server tool use/result) instead of an open
//     map, so round-trip metadata is checked at compile time. Unknown keys are
//     kept verbatim in Extra.
//
//  3. STANDARD JSON: All types work with encoding/json directly; the JSON keys
//     match genkit's wire format.
package types
