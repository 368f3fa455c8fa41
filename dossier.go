// Package dossier extracts structured person profiles from HTML pages.
// Several independent extraction strategies run over one parsed document,
// and their candidates are scored, filtered, merged and cached.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, rod/, gemini/).
package dossier
