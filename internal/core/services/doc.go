// Package services implements the driving port interfaces.
//
// IndexService walks the archive and builds the record and vector
// stores, QueryService answers searches and questions over them, and
// SettingsService manages configuration. Services orchestrate driven
// ports and hold the business rules; they never touch storage, HTTP,
// or terminal concerns directly.
package services
