package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("IPS_TEST_INT", "12")
	t.Setenv("IPS_TEST_BAD_INT", "twelve")
	t.Setenv("IPS_TEST_BOOL", "true")
	t.Setenv("IPS_TEST_FLOAT", "2.5")
	t.Setenv("IPS_TEST_SLICE", "http://a.test, ,http://b.test")

	assert.Equal(t, 12, GetEnvInt("IPS_TEST_INT", 3))
	assert.Equal(t, 3, GetEnvInt("IPS_TEST_BAD_INT", 3))
	assert.True(t, GetEnvBool("IPS_TEST_BOOL", false))
	assert.Equal(t, 2.5, GetEnvFloat("IPS_TEST_FLOAT", 1))
	assert.Equal(t, "fallback", GetEnvString("IPS_TEST_UNSET", "fallback"))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetEnvStringSlice("IPS_TEST_SLICE", nil))
}
