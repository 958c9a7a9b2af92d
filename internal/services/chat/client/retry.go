package client

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v5"
	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
)

var errNotSent = errors.New("chat session not open")

// ValidateText checks outgoing message text before any send attempt.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperrors.New(apperrors.CodeMessageEmpty, "message is empty")
	}
	if utf8.RuneCountInString(text) > MaxMessageRunes {
		return apperrors.WithMetadata(apperrors.CodeMessageTooLong, "message is too long",
			map[string]string{"Max": strconv.Itoa(MaxMessageRunes)})
	}
	return nil
}

// SendWithRetry sends text, retrying once after the retry delay when the
// first attempt finds the session not open. The first failed attempt starts
// a reconnect, so the retry usually lands on a fresh socket. A second
// failure alerts and returns ErrSendFailed; the message is dropped.
func (s *Session) SendWithRetry(ctx context.Context, text string) error {
	if err := ValidateText(text); err != nil {
		return err
	}
	attempt := func() (struct{}, error) {
		if s.disposed.Load() {
			return struct{}{}, backoff.Permanent(ErrClosed)
		}
		if s.SendMessage(text) {
			return struct{}{}, nil
		}
		return struct{}{}, errNotSent
	}
	_, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewConstantBackOff(s.retryDelay)),
		backoff.WithMaxTries(2),
	)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrClosed) {
		return ErrClosed
	}
	failed := apperrors.Wrap(apperrors.CodeSendFailed, "message could not be sent", err)
	s.emitAlert(failed)
	return failed
}
