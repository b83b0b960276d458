package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEqual(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		a     Value
		b     Value
		equal bool
	}{
		{"bools", BoolValue(true), BoolValue(true), true},
		{"bool mismatch", BoolValue(true), BoolValue(false), false},
		{"ints", IntValue(60), IntValue(60), true},
		{"floats", FloatValue(0.5), FloatValue(0.5), true},
		{"strings", StringValue("secret"), StringValue("secret"), true},
		{"cross tag never equal", BoolValue(true), IntValue(1), false},
		{
			"lists ordered",
			ListValue(StringValue("ard_users"), StringValue("ard_admins")),
			ListValue(StringValue("ard_users"), StringValue("ard_admins")),
			true,
		},
		{
			"lists order sensitive",
			ListValue(StringValue("a"), StringValue("b")),
			ListValue(StringValue("b"), StringValue("a")),
			false,
		},
		{
			"privilege sets order insensitive",
			PrivilegesValue([]string{"copy", "text"}, 0),
			PrivilegesValue([]string{"text", "copy"}, 0),
			true,
		},
		{
			"privilege residual compared",
			PrivilegesValue([]string{"all"}, 0),
			PrivilegesValue([]string{"all"}, 0x100),
			false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.equal, tc.a.Equal(tc.b))
		})
	}
}

func TestValueConvertTo(t *testing.T) {
	t.Parallel()

	converted, ok := IntValue(10).ConvertTo(TagFloat)
	require.True(t, ok)
	assert.Equal(t, FloatValue(10), converted)

	converted, ok = FloatValue(3).ConvertTo(TagInt)
	require.True(t, ok)
	assert.Equal(t, IntValue(3), converted)

	_, ok = FloatValue(0.5).ConvertTo(TagInt)
	assert.False(t, ok, "fractional float must not convert to int")

	_, ok = BoolValue(true).ConvertTo(TagInt)
	assert.False(t, ok, "bool/int conversion is never implicit")
}

func TestOutcomeIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, OutcomeNoop.IsValid())
	assert.True(t, OutcomeChanged.IsValid())
	assert.True(t, OutcomeFailed.IsValid())
	assert.False(t, Outcome("converged").IsValid())
	assert.False(t, Outcome("").IsValid())
}

func TestValueString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "-1073741569", IntValue(-1073741569).String())
	assert.Equal(t, "0.5", FloatValue(0.5).String())
	assert.Equal(t, "[ard_users, ard_admins]", ListValue(StringValue("ard_users"), StringValue("ard_admins")).String())
	assert.Equal(t, "all (residual 0x100)", PrivilegesValue([]string{"all"}, 0x100).String())
}
