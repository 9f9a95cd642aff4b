package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInfoFormat(t *testing.T) {
	format, err := ParseInfoFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format, "empty format defaults to JSON")

	for name, want := range map[string]InfoFormat{
		"json": FormatJSON,
		"JSON": FormatJSON,
		"html": FormatHTML,
		"xml":  FormatXML,
		"XML":  FormatXML,
	} {
		format, err := ParseInfoFormat(name)
		require.NoError(t, err)
		assert.Equal(t, want, format)
	}

	_, err = ParseInfoFormat("yaml")
	assert.Error(t, err)
}

func TestInfoFormatExtension(t *testing.T) {
	assert.Equal(t, ".json", FormatJSON.Extension())
	assert.Equal(t, ".html", FormatHTML.Extension())
	assert.Equal(t, ".xml", FormatXML.Extension())
}

func TestParseEngine(t *testing.T) {
	engine, err := ParseEngine("")
	require.NoError(t, err)
	assert.Equal(t, EngineMediaInfo, engine)

	engine, err = ParseEngine("mediainfo")
	require.NoError(t, err)
	assert.Equal(t, EngineMediaInfo, engine)

	_, err = ParseEngine("ffprobe")
	assert.Error(t, err)
}
