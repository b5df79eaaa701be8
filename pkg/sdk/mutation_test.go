package sdk_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pytact/docvault/pkg/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu        sync.Mutex
	calls     int
	lastToken sdk.Token
	updatedAt time.Time
	err       error
}

func (t *fakeTransport) Send(_ context.Context, _ sdk.ResourceRef, _ any, precondition sdk.Token) (time.Time, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	t.lastToken = precondition
	return t.updatedAt, t.err
}

type fakeExpirer struct {
	calls int
}

func (e *fakeExpirer) Expire(string) { e.calls++ }

func TestGatewayMutate(t *testing.T) {
	ref := sdk.ResourceRef{Kind: sdk.ResourceFamily, ID: "fam-1"}
	token := sdk.Token("20240120T103000Z")

	t.Run("missing token never reaches the transport", func(t *testing.T) {
		transport := &fakeTransport{}
		gateway := sdk.NewGateway(transport, nil)

		outcome := gateway.Mutate(context.Background(), sdk.MutationRequest{Ref: ref, Payload: sdk.UpdateFamilyPayload{Name: "Smith"}})
		assert.Equal(t, sdk.OutcomeRejected, outcome.State)
		assert.Equal(t, sdk.KindProgramming, sdk.KindOf(outcome.Err))
		assert.Zero(t, transport.calls)
	})

	t.Run("accepted write commits with the precondition attached", func(t *testing.T) {
		serverTime := time.Date(2024, 1, 20, 10, 31, 0, 0, time.UTC)
		transport := &fakeTransport{updatedAt: serverTime}
		gateway := sdk.NewGateway(transport, nil)

		outcome := gateway.Mutate(context.Background(), sdk.MutationRequest{Ref: ref, Payload: sdk.UpdateFamilyPayload{Name: "Smith"}, ExpectedToken: token})
		require.Equal(t, sdk.OutcomeCommitted, outcome.State)
		assert.Equal(t, serverTime, outcome.UpdatedAt)
		assert.Equal(t, token, transport.lastToken)
		assert.Equal(t, 1, transport.calls)
	})

	t.Run("conflict marks the token stale and blocks the retry", func(t *testing.T) {
		transport := &fakeTransport{err: sdk.NewError(sdk.KindConflict, "precondition failed")}
		gateway := sdk.NewGateway(transport, nil)
		req := sdk.MutationRequest{Ref: ref, Payload: sdk.UpdateFamilyPayload{Name: "Smith"}, ExpectedToken: token}

		first := gateway.Mutate(context.Background(), req)
		assert.Equal(t, sdk.OutcomeConflicted, first.State)
		assert.Equal(t, 1, transport.calls)

		// Same stale token again: rejected by contract, transport untouched.
		second := gateway.Mutate(context.Background(), req)
		assert.Equal(t, sdk.OutcomeConflicted, second.State)
		assert.Equal(t, sdk.KindConflict, sdk.KindOf(second.Err))
		assert.Equal(t, 1, transport.calls)
	})

	t.Run("a fresh token after Forget reaches the transport again", func(t *testing.T) {
		transport := &fakeTransport{err: sdk.NewError(sdk.KindConflict, "precondition failed")}
		gateway := sdk.NewGateway(transport, nil)
		req := sdk.MutationRequest{Ref: ref, Payload: sdk.UpdateFamilyPayload{Name: "Smith"}, ExpectedToken: token}

		gateway.Mutate(context.Background(), req)
		gateway.Forget(ref)
		transport.err = nil

		req.ExpectedToken = sdk.Token("20240120T103100Z")
		outcome := gateway.Mutate(context.Background(), req)
		assert.Equal(t, sdk.OutcomeCommitted, outcome.State)
		assert.Equal(t, 2, transport.calls)
	})

	t.Run("authentication failure expires the session", func(t *testing.T) {
		transport := &fakeTransport{err: sdk.NewError(sdk.KindAuthentication, "token expired")}
		expirer := &fakeExpirer{}
		gateway := sdk.NewGateway(transport, expirer)

		outcome := gateway.Mutate(context.Background(), sdk.MutationRequest{Ref: ref, Payload: sdk.UpdateFamilyPayload{Name: "Smith"}, ExpectedToken: token})
		assert.Equal(t, sdk.OutcomeRejected, outcome.State)
		assert.True(t, sdk.IsAuthentication(outcome.Err))
		assert.Equal(t, 1, expirer.calls)
	})

	t.Run("validation failure is rejected, not conflicted", func(t *testing.T) {
		transport := &fakeTransport{err: sdk.NewError(sdk.KindValidation, "name must not be empty")}
		gateway := sdk.NewGateway(transport, nil)

		outcome := gateway.Mutate(context.Background(), sdk.MutationRequest{Ref: ref, Payload: sdk.UpdateFamilyPayload{}, ExpectedToken: token})
		assert.Equal(t, sdk.OutcomeRejected, outcome.State)
		assert.True(t, sdk.IsValidation(outcome.Err))

		// Validation trouble must not poison the token for later attempts.
		transport.err = nil
		retry := gateway.Mutate(context.Background(), sdk.MutationRequest{Ref: ref, Payload: sdk.UpdateFamilyPayload{Name: "Smith"}, ExpectedToken: token})
		assert.Equal(t, sdk.OutcomeCommitted, retry.State)
	})

	t.Run("deletes are guarded the same way", func(t *testing.T) {
		transport := &fakeTransport{}
		gateway := sdk.NewGateway(transport, nil)

		outcome := gateway.Mutate(context.Background(), sdk.MutationRequest{Ref: sdk.ResourceRef{Kind: sdk.ResourceDocument, ID: "doc-9"}, ExpectedToken: token})
		assert.Equal(t, sdk.OutcomeCommitted, outcome.State)
		assert.Equal(t, token, transport.lastToken)
	})
}
