package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "rank", "graph", "import", "migrate"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "water-intel", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestRankCommand_Flags(t *testing.T) {
	for _, name := range []string{"county", "district", "apl", "min-budget", "format", "output"} {
		assert.NotNil(t, rankCmd.Flags().Lookup(name), "rank should have --%s", name)
	}
	assert.Equal(t, "table", rankCmd.Flags().Lookup("format").DefValue)
}

func TestGraphCommand_Flags(t *testing.T) {
	flag := graphCmd.Flags().Lookup("layout")
	require.NotNil(t, flag)
	assert.Equal(t, "hierarchical", flag.DefValue)
}
