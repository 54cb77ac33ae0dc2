// Package briefly extracts readable article content from web pages and
// hands it to a language model for summaries and question answering.
// It also keeps a small set of bookmarks (pinned sites and a reading list).
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, readability/).
package briefly
