// Package xhsnote extracts structured content from Xiaohongshu share
// payloads: raw note URLs, pasted share text carrying a short link, or
// inline HTML with meta tags.
//
// This package contains domain types, interfaces and pure helpers following
// Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., http/,
// goquery/, sqlite/, rod/).
package xhsnote
