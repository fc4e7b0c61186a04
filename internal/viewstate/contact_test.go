package viewstate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillForm(t *testing.T, f *ContactForm, name, email, message string) {
	t.Helper()
	require.NoError(t, f.UpdateField(FieldName, name))
	require.NoError(t, f.UpdateField(FieldEmail, email))
	require.NoError(t, f.UpdateField(FieldMessage, message))
}

func instantSender() Sender {
	return SenderFunc(func(context.Context, Message) error { return nil })
}

func TestContactSubmitEmptyForm(t *testing.T) {
	t.Parallel()

	f := NewContactForm(instantSender())
	out, err := f.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, Failure, out.Result)
	require.Equal(t, StatusMissingFields, out.Status)
	require.ErrorIs(t, out.Err, ErrMissingField)

	snap := f.Snapshot()
	require.False(t, snap.IsSubmitting)
	require.Equal(t, StatusMissingFields, snap.Status)
	require.Equal(t, PhaseResolved, snap.Phase)

	require.NoError(t, f.UpdateField(FieldName, "A"))
	snap = f.Snapshot()
	require.Equal(t, PhaseIdle, snap.Phase)
	require.Equal(t, StatusMissingFields, snap.Status, "status stays until the next attempt")
}

func TestContactSubmitWhitespaceCountsAsEmpty(t *testing.T) {
	t.Parallel()

	f := NewContactForm(instantSender())
	fillForm(t, f, "   ", "a@b.com", "hi")

	out, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusMissingFields, out.Status)

	var verr *ValidationError
	require.True(t, errors.As(out.Err, &verr))
	require.Equal(t, MissingField, verr.Kind)
	require.Equal(t, "name", verr.Field)
}

func TestContactSubmitInvalidEmail(t *testing.T) {
	t.Parallel()

	f := NewContactForm(instantSender())
	fillForm(t, f, "A", "not-an-email", "hi")

	out, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, Failure, out.Result)
	require.Equal(t, StatusInvalidEmail, out.Status)
	require.ErrorIs(t, out.Err, ErrInvalidEmail)

	snap := f.Snapshot()
	require.Equal(t, "A", snap.Name, "fields survive a validation failure")
	require.False(t, snap.IsSubmitting)
}

func TestValidEmailPattern(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"a@b.com":         true,
		"first.last@x.io": true,
		"a@b":             false,
		"@b.com":          false,
		"a b@c.com":       false,
		"a@@b.com":        false,
		" a@b.com":        false,
	}
	for in, want := range cases {
		assert.Equal(t, want, ValidEmail(in), in)
	}
}

func TestContactSubmitSuccessAfterDelay(t *testing.T) {
	t.Parallel()

	clock := newManualClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	f := NewContactForm(SimulatedSender{Clock: clock, Delay: DefaultSubmitDelay})
	fillForm(t, f, "A", "a@b.com", "hi")
	require.NoError(t, f.SelectInterest(InterestOther))

	done := make(chan Outcome, 1)
	go func() {
		out, err := f.Submit(context.Background())
		assert.NoError(t, err)
		done <- out
	}()

	require.True(t, clock.waitArmed(time.Second))
	snap := f.Snapshot()
	require.True(t, snap.IsSubmitting)
	require.False(t, snap.CanSubmit())
	require.Equal(t, PhaseSubmitting, snap.Phase)

	_, err := f.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmitInProgress)

	clock.advance(time.Second)
	select {
	case <-done:
		t.Fatal("submission resolved before the delay elapsed")
	default:
	}

	clock.advance(time.Second)
	var out Outcome
	select {
	case out = <-done:
	case <-time.After(time.Second):
		t.Fatal("submission did not resolve")
	}

	require.Equal(t, Success, out.Result)
	require.Equal(t, StatusSent, out.Status)
	require.NoError(t, out.Err)

	snap = f.Snapshot()
	require.False(t, snap.IsSubmitting)
	require.True(t, snap.Succeeded())
	require.Empty(t, snap.Name)
	require.Empty(t, snap.Email)
	require.Empty(t, snap.Message)
	require.Equal(t, InterestWebDevelopment, snap.Interest)
}

func TestContactSubmitTransportFailureKeepsFields(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	f := NewContactForm(SenderFunc(func(context.Context, Message) error { return boom }))
	fillForm(t, f, "A", "a@b.com", "hi")

	out, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, Failure, out.Result)
	require.Equal(t, StatusSendFailed, out.Status)
	require.ErrorIs(t, out.Err, ErrTransport)
	require.ErrorIs(t, out.Err, boom)

	snap := f.Snapshot()
	require.False(t, snap.IsSubmitting)
	require.Equal(t, PhaseResolved, snap.Phase)
	require.Equal(t, "a@b.com", snap.Email)
	require.False(t, snap.Succeeded())
}

func TestContactSubmitIgnoresCancellation(t *testing.T) {
	t.Parallel()

	var sawCancel bool
	f := NewContactForm(SenderFunc(func(ctx context.Context, _ Message) error {
		sawCancel = ctx.Err() != nil
		return nil
	}))
	fillForm(t, f, "A", "a@b.com", "hi")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := f.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, Success, out.Result)
	require.False(t, sawCancel)
}

func TestContactInterestAndFieldsAreEnumerated(t *testing.T) {
	t.Parallel()

	f := NewContactForm(instantSender())
	require.ErrorIs(t, f.SelectInterest(Interest("Gardening")), ErrUnknownInterest)
	require.Equal(t, InterestWebDevelopment, f.Snapshot().Interest)

	require.NoError(t, f.SelectInterest(InterestPHPProjects))
	require.Equal(t, InterestPHPProjects, f.Snapshot().Interest)

	require.ErrorIs(t, f.UpdateField(Field("phone"), "123"), ErrUnknownField)
	_, err := ParseField("subject")
	require.ErrorIs(t, err, ErrUnknownField)

	require.NoError(t, f.UpdateField(FieldMessage, "  raw  "))
	require.Equal(t, "  raw  ", f.Snapshot().Message)

	for _, i := range Interests {
		require.NotEmpty(t, i.Emoji(), string(i))
	}
}
