package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepCommand(t *testing.T) {
	t.Run("memory backend with default window", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "memory")
		t.Setenv("RECYCLE_RETENTION", "72h")

		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(nil)

		require.NoError(t, cmd.ExecuteContext(context.Background()))
		assert.Contains(t, out.String(), "purged 0 recycle items older than 72h0m0s")
	})

	t.Run("flag overrides retention", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "memory")

		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--older-than", "1h", "--owner", "user-1"})

		require.NoError(t, cmd.ExecuteContext(context.Background()))
		assert.Contains(t, out.String(), "older than 1h0m0s")
	})

	t.Run("non positive window is rejected", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "memory")

		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--older-than", "0s"})

		assert.Error(t, cmd.ExecuteContext(context.Background()))
	})

	t.Run("bad backend fails", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "sqlite")

		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(nil)

		assert.ErrorContains(t, cmd.ExecuteContext(context.Background()), "STORE_BACKEND")
	})
}
