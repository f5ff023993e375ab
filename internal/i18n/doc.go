// Package i18n resolves display strings for the supported languages.
//
// A Resolver is bound to one language and is passed explicitly into every
// view; there is no process-wide "current language". Entity names fall back
// to the default-language name when a translation is missing, and inline UI
// messages fall back to the English catalog, then to the message key.
package i18n
