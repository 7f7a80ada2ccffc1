package tui

import (
	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
)

// Suggestion returns a follow-up hint for a failed generation
func Suggestion(err error) string {
	switch apperrors.Classify(err) {
	case apperrors.KindAuth:
		return "Run zcommit generate again to enter a new key, or zcommit set-key."
	case apperrors.KindHostUnavailable:
		return "Make sure git is installed and you're in a git repository."
	case apperrors.KindNoChanges:
		return "Try making changes to your repository first."
	case apperrors.KindAPI:
		return "Check your internet connection and the endpoint in zcommit config view."
	case apperrors.KindParse:
		return "The model may be overloaded. Try again, or pick another model with zcommit config set --model."
	default:
		return ""
	}
}
