package rustty

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsStringVarName(t *testing.T) {
	require.True(t, IsStringVarName("text"))
	require.True(t, IsStringVarName("message"))
	require.True(t, IsStringVarName("user_key"))
	require.False(t, IsStringVarName("items"))
}

func TestIsNumericIndexName(t *testing.T) {
	require.True(t, IsNumericIndexName("i"))
	require.True(t, IsNumericIndexName("row_idx"))
	require.False(t, IsNumericIndexName("text"))
}

func TestIsListVarName(t *testing.T) {
	require.True(t, IsListVarName("items"))
	require.True(t, IsListVarName("words"))
	require.True(t, IsListVarName("data_list"))
	require.False(t, IsListVarName("word"))
}

func TestIsDictVarName(t *testing.T) {
	require.True(t, IsDictVarName("config"))
	require.True(t, IsDictVarName("kwargs"))
	require.False(t, IsDictVarName("items"))
}

func TestIsBoolVarName(t *testing.T) {
	require.True(t, IsBoolVarName("is_valid"))
	require.True(t, IsBoolVarName("verbose"))
	require.False(t, IsBoolVarName("count"))
}

func TestIsPathVarName(t *testing.T) {
	require.True(t, IsPathVarName("output_path"))
	require.True(t, IsPathVarName("filename"))
	require.False(t, IsPathVarName("data"))
}

func TestIsFloatVarName(t *testing.T) {
	require.True(t, IsFloatVarName("beta1"))
	require.True(t, IsFloatVarName("learning_rate"))
	require.True(t, IsFloatVarName("success_prob"))
	require.False(t, IsFloatVarName("count"))
	require.False(t, IsFloatVarName("x"))
}

func TestIsColorChannelName(t *testing.T) {
	require.True(t, IsColorChannelName("r"))
	require.True(t, IsColorChannelName("k"))
	require.False(t, IsColorChannelName("a"))
	require.False(t, IsColorChannelName("hue"))
}

func TestIsCountVarName(t *testing.T) {
	require.True(t, IsCountVarName("word_count"))
	require.True(t, IsCountVarName("buffer_size"))
	require.False(t, IsCountVarName("is_valid"))
}
