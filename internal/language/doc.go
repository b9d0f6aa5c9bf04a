// Package language normalizes the recognizer language setting.
//
// Configuration and CLI flags accept words ("English"), ISO 639 codes, or
// BCP 47 tags; everything is reduced to the short code passed to the speech
// recognizer.
package language
