package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidNotificationType(t *testing.T) {
	valid := []string{"info", "success", "warning", "error", "task", "hearing", "deadline"}
	for _, typ := range valid {
		assert.True(t, IsValidNotificationType(typ), typ)
	}

	invalid := []string{"", "alert", "INFO", "hearing "}
	for _, typ := range invalid {
		assert.False(t, IsValidNotificationType(typ), typ)
	}
}

func TestIsValidMessagePriority(t *testing.T) {
	for _, p := range []string{"low", "normal", "high"} {
		assert.True(t, IsValidMessagePriority(p), p)
	}

	for _, p := range []string{"", "urgent", "High"} {
		assert.False(t, IsValidMessagePriority(p), p)
	}
}
