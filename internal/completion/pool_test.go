// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package completion_test

import (
	"testing"

	"github.com/aibor/affinitycheck/internal/completion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	t.Run("unlimited", func(t *testing.T) {
		pool := completion.NewPool(0)

		signals := make([]*completion.Signal, 0, 16)

		for range 16 {
			signal, err := pool.New()
			require.NoError(t, err)

			signals = append(signals, signal)
		}

		assert.Equal(t, 16, pool.Live(), "live")

		for _, signal := range signals {
			signal.Destroy()
		}

		assert.Equal(t, 0, pool.Live(), "live")
	})

	t.Run("limited", func(t *testing.T) {
		pool := completion.NewPool(1)

		first, err := pool.New()
		require.NoError(t, err)

		_, err = pool.New()
		require.ErrorIs(t, err, completion.ErrExhausted)

		assert.Equal(t, 1, pool.Live(), "live")

		first.Destroy()
		first.Destroy()

		assert.Equal(t, 0, pool.Live(), "live")

		second, err := pool.New()
		require.NoError(t, err)

		second.Destroy()
	})
}
