package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New(true).GetLevel())
	assert.Equal(t, logrus.InfoLevel, New(false).GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, New(false).Formatter)
}

func TestOrDiscard(t *testing.T) {
	l := New(false)
	assert.Same(t, l, OrDiscard(l))
	assert.NotNil(t, OrDiscard(nil))
}
