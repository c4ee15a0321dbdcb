package interfaces_test

import (
	"testing"

	"github.com/stegoflow/stegoflow/core"
	"github.com/stegoflow/stegoflow/interfaces"
	"github.com/stegoflow/stegoflow/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// sendIfRoom is the canonical consumer pattern: check pool headroom
// before committing a payload.
func sendIfRoom(e interfaces.Engine, payload []byte) (*core.EncodeResult, bool, error) {
	if e.PoolStats().MinCapacity < len(payload) {
		return nil, false, nil
	}
	result, err := e.Encode(payload)
	return result, true, err
}

func TestEngineContractAgainstMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)

	payload := []byte("fits")

	t.Run("encodes when the pool has room", func(t *testing.T) {
		engine.EXPECT().PoolStats().Return(core.PoolStats{Size: 1, MinCapacity: 64})
		engine.EXPECT().Encode(payload).Return(&core.EncodeResult{Success: true, PayloadSize: len(payload)}, nil)

		result, sent, err := sendIfRoom(engine, payload)
		require.NoError(t, err)
		require.True(t, sent)
		require.True(t, result.Success)
	})

	t.Run("skips encode when every cover is too small", func(t *testing.T) {
		engine.EXPECT().PoolStats().Return(core.PoolStats{Size: 1, MinCapacity: 2})

		result, sent, err := sendIfRoom(engine, payload)
		require.NoError(t, err)
		require.False(t, sent)
		require.Nil(t, result)
	})
}
