package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgsSeparateValue(t *testing.T) {
	args := []string{"-a", ":9090", "-x", "noise", "-d", "dsn"}
	got := FilterArgs(args, []string{"-a", "-d"})
	assert.Equal(t, []string{"-a", ":9090", "-d", "dsn"}, got)
}

func TestFilterArgsEqualsForm(t *testing.T) {
	args := []string{"--config=conf.json", "--other=skip"}
	got := FilterArgs(args, []string{"--config"})
	assert.Equal(t, []string{"--config=conf.json"}, got)
}

func TestFilterArgsBooleanFlag(t *testing.T) {
	args := []string{"-v", "-a", ":8080"}
	got := FilterArgs(args, []string{"-v"})
	assert.Equal(t, []string{"-v"}, got)
}

func TestFilterArgsEmpty(t *testing.T) {
	got := FilterArgs(nil, []string{"-a"})
	assert.Empty(t, got)
}
