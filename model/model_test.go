package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ Model = (*MockModel)(nil)

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel("test-model")
	m.AddResponse("Any fever?", "Yes, since yesterday.")

	resp, err := m.Complete(context.Background(), Request{Prompt: "Any fever?"})
	require.NoError(t, err)
	assert.Equal(t, "Yes, since yesterday.", resp.Content)
}

func TestMockModel_DefaultResponse(t *testing.T) {
	m := NewMockModel("test-model")

	resp, err := m.Complete(context.Background(), Request{Prompt: "unregistered"})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "unregistered")
}

func TestMockModel_FailWith(t *testing.T) {
	m := NewMockModel("test-model")
	cause := errors.New("provider down")
	m.FailWith(cause)

	_, err := m.Complete(context.Background(), Request{Prompt: "anything"})
	require.ErrorIs(t, err, cause)

	m.FailWith(nil)
	_, err = m.Complete(context.Background(), Request{Prompt: "anything"})
	assert.NoError(t, err)
}

func TestMockModel_RecordsRequests(t *testing.T) {
	m := NewMockModel("test-model")

	_, err := m.Complete(context.Background(), Request{Instructions: "be terse", Prompt: "hi"})
	require.NoError(t, err)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "be terse", reqs[0].Instructions)
}

func TestMockModel_RespectsContext(t *testing.T) {
	m := NewMockModel("test-model")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Complete(ctx, Request{Prompt: "hi"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Requests())
}

func TestMockModel_Info(t *testing.T) {
	m := NewMockModel("test-model")
	assert.Equal(t, Info{Name: "test-model", Provider: "mock"}, m.Info())
}
